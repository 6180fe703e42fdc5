package rss

import (
	"regexp"
	"strconv"
	"strings"
)

// ParsedFeed is the scraped shape of an album (or publisher) feed.
type ParsedFeed struct {
	GUID        string
	Title       string
	Author      string
	Description string
	ArtworkURL  string
	Medium      string
	Explicit    bool

	PublisherGUID    string
	PublisherFeedURL string

	Items []ParsedItem
	Value []ValueSplit
}

// ParsedItem is one scraped feed item.
type ParsedItem struct {
	GUID       string
	Title      string
	AudioURL   string
	ArtworkURL string
	Duration   int64 // milliseconds
	Number     int
}

// ValueSplit is one scraped <podcast:valueRecipient>.
type ValueSplit struct {
	Name    string
	Type    string
	Address string
	Split   int
	Fee     bool
}

var (
	itemRe        = regexp.MustCompile(`(?is)<item[\s>].*?</item>`)
	titleRe       = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	authorRe      = regexp.MustCompile(`(?is)<itunes:author[^>]*>(.*?)</itunes:author>`)
	descriptionRe = regexp.MustCompile(`(?is)<description[^>]*>(.*?)</description>`)
	guidTagRe     = regexp.MustCompile(`(?is)<guid[^>]*>(.*?)</guid>`)
	podcastGuidRe = regexp.MustCompile(`(?is)<podcast:guid[^>]*>(.*?)</podcast:guid>`)
	mediumTagRe   = regexp.MustCompile(`(?is)<podcast:medium[^>]*>(.*?)</podcast:medium>`)
	explicitRe    = regexp.MustCompile(`(?is)<itunes:explicit[^>]*>(.*?)</itunes:explicit>`)
	imageHrefRe   = regexp.MustCompile(`(?i)<itunes:image\b[^>]*href\s*=\s*["']([^"']+)["']`)
	imageUrlRe    = regexp.MustCompile(`(?is)<image[^>]*>.*?<url[^>]*>(.*?)</url>`)
	enclosureRe   = regexp.MustCompile(`(?i)<enclosure\b[^>]*>`)
	urlAttrRe     = regexp.MustCompile(`(?i)\burl\s*=\s*["']([^"']+)["']`)
	durationRe    = regexp.MustCompile(`(?is)<itunes:duration[^>]*>(.*?)</itunes:duration>`)
	valueBlockRe  = regexp.MustCompile(`(?is)<podcast:value[\s>].*?</podcast:value>`)
	recipientRe   = regexp.MustCompile(`(?i)<podcast:valueRecipient\b[^>]*>`)
	nameAttrRe    = regexp.MustCompile(`(?i)\bname\s*=\s*["']([^"']*)["']`)
	typeAttrRe    = regexp.MustCompile(`(?i)\btype\s*=\s*["']([^"']+)["']`)
	addressAttrRe = regexp.MustCompile(`(?i)\baddress\s*=\s*["']([^"']+)["']`)
	splitAttrRe   = regexp.MustCompile(`(?i)\bsplit\s*=\s*["']([^"']+)["']`)
	feeAttrRe     = regexp.MustCompile(`(?i)\bfee\s*=\s*["']([^"']+)["']`)
	cdataRe       = regexp.MustCompile(`(?is)<!\[CDATA\[(.*?)\]\]>`)
)

// ParseFeed scrapes an RSS document into a ParsedFeed. It never fails on
// malformed markup; missing pieces come back zero-valued.
func ParseFeed(doc string) *ParsedFeed {
	channel := doc
	if i := strings.Index(doc, "<item"); i >= 0 {
		channel = doc[:i]
	}

	feed := &ParsedFeed{
		GUID:        text(podcastGuidRe, channel),
		Title:       text(titleRe, channel),
		Author:      text(authorRe, channel),
		Description: text(descriptionRe, channel),
		Medium:      text(mediumTagRe, channel),
		Explicit:    isTrue(text(explicitRe, channel)),
	}
	feed.ArtworkURL = firstGroup(imageHrefRe, channel)
	if feed.ArtworkURL == "" {
		feed.ArtworkURL = text(imageUrlRe, channel)
	}

	// channel-level remote item with publisher medium references the
	// artist's publisher feed
	for _, ri := range ExtractRemoteItems(channel) {
		if ri.Medium == "publisher" {
			feed.PublisherGUID = ri.FeedGUID
			feed.PublisherFeedURL = ri.FeedURL
			break
		}
	}

	if block := valueBlockRe.FindString(channel); block != "" {
		feed.Value = parseValueSplits(block)
	}

	for i, raw := range itemRe.FindAllString(doc, -1) {
		item := ParsedItem{
			GUID:     text(guidTagRe, raw),
			Title:    text(titleRe, raw),
			Duration: parseDuration(text(durationRe, raw)),
			Number:   i + 1,
		}
		if enc := enclosureRe.FindString(raw); enc != "" {
			item.AudioURL = firstGroup(urlAttrRe, enc)
		}
		item.ArtworkURL = firstGroup(imageHrefRe, raw)
		if item.GUID == "" || item.AudioURL == "" {
			continue
		}
		feed.Items = append(feed.Items, item)
	}
	return feed
}

func parseValueSplits(block string) []ValueSplit {
	var splits []ValueSplit
	for _, tag := range recipientRe.FindAllString(block, -1) {
		split, _ := strconv.Atoi(firstGroup(splitAttrRe, tag))
		splits = append(splits, ValueSplit{
			Name:    firstGroup(nameAttrRe, tag),
			Type:    firstGroup(typeAttrRe, tag),
			Address: firstGroup(addressAttrRe, tag),
			Split:   split,
			Fee:     isTrue(firstGroup(feeAttrRe, tag)),
		})
	}
	return splits
}

// parseDuration accepts seconds ("183"), M:SS or H:MM:SS, returning ms.
func parseDuration(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0
	}
	var total int64
	for _, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return 0
		}
		total = total*60 + n
	}
	return total * 1000
}

func text(re *regexp.Regexp, s string) string {
	v := strings.TrimSpace(firstGroup(re, s))
	if m := cdataRe.FindStringSubmatch(v); m != nil {
		v = strings.TrimSpace(m[1])
	}
	return v
}

func isTrue(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return true
	}
	return false
}

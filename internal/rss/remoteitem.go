package rss

import (
	"regexp"
)

// RemoteItem is one <podcast:remoteItem> reference: a track (or feed) in
// another feed identified by GUID pair.
type RemoteItem struct {
	FeedGUID string
	ItemGUID string
	FeedURL  string
	Medium   string
}

// Playlist files are static XML on object hosting; they are scraped with
// regular expressions rather than parsed. Tags may be self-closing or
// paired and attributes appear in any order.
var (
	remoteItemRe = regexp.MustCompile(`(?is)<podcast:remoteItem\b[^>]*>`)
	feedGuidRe   = regexp.MustCompile(`(?i)feedGuid\s*=\s*["']([^"']+)["']`)
	itemGuidRe   = regexp.MustCompile(`(?i)itemGuid\s*=\s*["']([^"']+)["']`)
	feedUrlRe    = regexp.MustCompile(`(?i)feedUrl\s*=\s*["']([^"']+)["']`)
	mediumAttrRe = regexp.MustCompile(`(?i)medium\s*=\s*["']([^"']+)["']`)
)

// ExtractRemoteItems pulls every remote item out of an XML document.
// Tags missing a feedGuid are skipped.
func ExtractRemoteItems(doc string) []RemoteItem {
	var items []RemoteItem
	for _, tag := range remoteItemRe.FindAllString(doc, -1) {
		item := RemoteItem{
			FeedGUID: firstGroup(feedGuidRe, tag),
			ItemGUID: firstGroup(itemGuidRe, tag),
			FeedURL:  firstGroup(feedUrlRe, tag),
			Medium:   firstGroup(mediumAttrRe, tag),
		}
		if item.FeedGUID == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

func firstGroup(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

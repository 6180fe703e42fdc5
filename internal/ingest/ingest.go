package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/bitpunk-fm/zinecast/internal/catalog"
	"github.com/bitpunk-fm/zinecast/internal/rss"
	"github.com/bitpunk-fm/zinecast/internal/storage"
)

// Payload is what a feedlet worker hands back: the scraped feed plus the
// URL it came from.
type Payload struct {
	FeedURL string          `json:"feedUrl"`
	Feed    *rss.ParsedFeed `json:"feed"`
}

// Summary describes a finished import.
type Summary struct {
	FeedGUID string `json:"feedGuid"`
	Title    string `json:"title"`
	Medium   string `json:"medium"`
	Tracks   int    `json:"tracks"`
}

// FetchAndParse downloads and scrapes a feed, mirroring its artwork to the
// bucket when credentials are configured.
func FetchAndParse(ctx context.Context, feedURL string) (*Payload, error) {
	doc, err := rss.Fetch(feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", feedURL, err)
	}
	feed := rss.ParseFeed(doc)
	if feed.Title == "" {
		return nil, fmt.Errorf("no channel title in %s", feedURL)
	}
	if feed.GUID == "" {
		// feeds without a podcast:guid are keyed by URL
		feed.GUID = feedURL
	}

	if feed.ArtworkURL != "" && storage.MirrorConfigured() {
		mirrored, err := storage.MirrorArtwork(ctx, feed.ArtworkURL, feed.GUID)
		if err != nil {
			log.Warn().Err(err).Str("feed", feed.GUID).Msg("artwork mirror failed")
		} else {
			feed.ArtworkURL = mirrored
		}
	}

	return &Payload{FeedURL: feedURL, Feed: feed}, nil
}

// Persist upserts a scraped feed into the catalog.
func Persist(p *Payload) (*Summary, error) {
	feed := p.Feed
	medium := feed.Medium
	if medium == "" {
		medium = catalog.MediumMusic
	}

	model := &catalog.FeedModel{
		GUID:          feed.GUID,
		Title:         feed.Title,
		Artist:        feed.Author,
		Medium:        medium,
		Description:   feed.Description,
		FeedURL:       p.FeedURL,
		ArtworkURL:    feed.ArtworkURL,
		PublisherGUID: feed.PublisherGUID,
		Explicit:      feed.Explicit,
	}

	tracks := make([]catalog.TrackModel, 0, len(feed.Items))
	for _, item := range feed.Items {
		artwork := item.ArtworkURL
		if artwork == "" {
			artwork = feed.ArtworkURL
		}
		tracks = append(tracks, catalog.TrackModel{
			GUID:       item.GUID,
			Title:      item.Title,
			Artist:     feed.Author,
			AudioURL:   item.AudioURL,
			ArtworkURL: artwork,
			Duration:   item.Duration,
			Number:     item.Number,
		})
	}

	recipients := make([]catalog.ValueRecipientModel, 0, len(feed.Value))
	for _, v := range feed.Value {
		recipients = append(recipients, catalog.ValueRecipientModel{
			Name:    v.Name,
			Address: v.Address,
			Split:   v.Split,
			Fee:     v.Fee,
		})
	}

	if err := catalog.UpsertFeed(model, tracks, recipients); err != nil {
		return nil, err
	}

	if feed.PublisherGUID != "" {
		if err := catalog.EnsurePublisher(feed.PublisherGUID, feed.PublisherFeedURL, feed.Author); err != nil {
			log.Warn().Err(err).Str("publisher", feed.PublisherGUID).Msg("publisher placeholder failed")
		}
	}

	return &Summary{
		FeedGUID: feed.GUID,
		Title:    feed.Title,
		Medium:   medium,
		Tracks:   len(tracks),
	}, nil
}

// ImportFeed is the inline path: fetch, scrape and persist in-process.
func ImportFeed(ctx context.Context, feedURL string) (*Summary, error) {
	p, err := FetchAndParse(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	return Persist(p)
}

// Encode/Decode carry a Payload across the task channel.

func Encode(p *Payload) ([]byte, error) {
	return json.Marshal(p)
}

func Decode(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if p.Feed == nil {
		return nil, fmt.Errorf("ingest: payload without feed")
	}
	return &p, nil
}

package playlist

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"

	"github.com/bitpunk-fm/zinecast/internal/catalog"
	"github.com/bitpunk-fm/zinecast/internal/podcastindex"
	"github.com/bitpunk-fm/zinecast/internal/rss"
)

// ResolvedTrack is a playlist entry with playable metadata attached.
type ResolvedTrack struct {
	FeedGUID   string `json:"feedGuid"`
	ItemGUID   string `json:"itemGuid"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	AudioURL   string `json:"url"`
	ArtworkURL string `json:"pictureUrl"`
	Duration   int64  `json:"duration"`
	Local      bool   `json:"local"`
}

// EpisodeLookup is the fallback for items the local catalog does not hold.
type EpisodeLookup interface {
	EpisodeByGUID(ctx context.Context, itemGUID, feedGUID string) (*podcastindex.Episode, error)
}

// Resolver turns remote-item references into playable tracks: local catalog
// first, PodcastIndex on miss, unresolvable items dropped.
type Resolver struct {
	fetch  func(url string) (string, error)
	local  func(feedGUID, itemGUID string) (*ResolvedTrack, error)
	remote EpisodeLookup

	cache *expirable.LRU[string, []ResolvedTrack]
}

func NewResolver(pi EpisodeLookup) *Resolver {
	return &Resolver{
		fetch:  rss.Fetch,
		local:  localTrack,
		remote: pi,
		cache:  expirable.NewLRU[string, []ResolvedTrack](64, nil, 15*time.Minute),
	}
}

func localTrack(feedGUID, itemGUID string) (*ResolvedTrack, error) {
	t, err := catalog.GetTrackByGUIDPair(feedGUID, itemGUID)
	if err != nil {
		return nil, err
	}
	return &ResolvedTrack{
		FeedGUID:   feedGUID,
		ItemGUID:   itemGUID,
		Title:      t.Title,
		Artist:     t.Artist,
		AudioURL:   t.AudioURL,
		ArtworkURL: t.ArtworkURL,
		Duration:   t.Duration,
		Local:      true,
	}, nil
}

// ResolveRemote fetches a remote playlist XML and resolves its items.
// Results are cached per URL.
func (r *Resolver) ResolveRemote(ctx context.Context, url string) ([]ResolvedTrack, error) {
	if v, ok := r.cache.Get(url); ok {
		return v, nil
	}
	doc, err := r.fetch(url)
	if err != nil {
		return nil, err
	}
	tracks := r.ResolveItems(ctx, rss.ExtractRemoteItems(doc))
	r.cache.Add(url, tracks)
	return tracks, nil
}

// ResolveItems resolves references one by one. A failing item is logged and
// skipped; it never aborts the rest of the list.
func (r *Resolver) ResolveItems(ctx context.Context, items []rss.RemoteItem) []ResolvedTrack {
	tracks := make([]ResolvedTrack, 0, len(items))
	for _, item := range items {
		if item.ItemGUID == "" {
			continue // feed-level reference, nothing to play
		}

		if t, err := r.local(item.FeedGUID, item.ItemGUID); err == nil {
			tracks = append(tracks, *t)
			continue
		}

		if r.remote == nil {
			continue
		}
		ep, err := r.remote.EpisodeByGUID(ctx, item.ItemGUID, item.FeedGUID)
		if err != nil {
			log.Warn().Err(err).
				Str("feedGuid", item.FeedGUID).
				Str("itemGuid", item.ItemGUID).
				Msg("remote item unresolved")
			continue
		}
		tracks = append(tracks, ResolvedTrack{
			FeedGUID:   item.FeedGUID,
			ItemGUID:   item.ItemGUID,
			Title:      ep.Title,
			Artist:     ep.Artist,
			AudioURL:   ep.AudioURL,
			ArtworkURL: ep.ArtworkURL,
			Duration:   ep.Duration,
		})
	}
	return tracks
}

// ResolveStored resolves a stored playlist's track references.
func (r *Resolver) ResolveStored(ctx context.Context, p *catalog.PlaylistModel) []ResolvedTrack {
	items := make([]rss.RemoteItem, 0, len(p.Tracks))
	for _, t := range p.Tracks {
		items = append(items, rss.RemoteItem{FeedGUID: t.FeedGUID, ItemGUID: t.ItemGUID})
	}
	return r.ResolveItems(ctx, items)
}

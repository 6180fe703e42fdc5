package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bitpunk-fm/zinecast/internal/catalog"
	"github.com/bitpunk-fm/zinecast/internal/playlist"
	"github.com/bitpunk-fm/zinecast/internal/rss"
)

func remoteItemFromContext(c *Context) []rss.RemoteItem {
	return []rss.RemoteItem{{
		FeedGUID: c.Get("feedGuid").String(),
		ItemGUID: c.Get("itemGuid").String(),
	}}
}

func sessionStatus(c *Context) {
	c.WithSession(func(s *Session) {
		c.conn.Send(s.snapshot())
	})
}

func setDevice(c *Context) {
	c.conn.mu.Lock()
	delay := c.Get("sendTime").Int() - time.Now().UnixMilli()
	c.conn.device = c.Get("name").String() + "(" + c.conn.ip + ")"
	c.conn.mu.Unlock()
	c.conn.Send(gin.H{
		"type":  "delay",
		"delay": delay,
	})
	pushDevices(c)
}

func sessionDevices(c *Context) {
	var d []string
	c.WithSession(func(s *Session) {
		for _, conn := range s.Connection {
			d = append(d, conn.GetDevice())
		}
	})
	c.conn.Send(gin.H{
		"type": "devices",
		"data": d,
	})
}

func pushDevices(c *Context) {
	var d []string
	c.WithSession(func(s *Session) {
		for _, conn := range s.Connection {
			d = append(d, conn.GetDevice())
		}
	})
	c.session.Broadcast(gin.H{
		"type": "devices",
		"data": d,
	})
}

// queueAlbum loads an album into the queue by slug and starts playback.
func queueAlbum(c *Context) {
	slug := c.Get("slug").String()
	start := int(c.Get("index").Int())

	feed, err := catalog.ResolveFeedBySlug(slug)
	if err != nil {
		c.conn.Send(gin.H{"type": "error", "message": "album not found"})
		return
	}

	tracks := make([]playlist.ResolvedTrack, 0, len(feed.Tracks))
	for _, t := range feed.Tracks {
		artist := t.Artist
		if artist == "" {
			artist = feed.Artist
		}
		tracks = append(tracks, playlist.ResolvedTrack{
			FeedGUID:   feed.GUID,
			ItemGUID:   t.GUID,
			Title:      t.Title,
			Artist:     artist,
			AudioURL:   t.AudioURL,
			ArtworkURL: t.ArtworkURL,
			Duration:   t.Duration,
			Local:      true,
		})
	}
	if len(tracks) == 0 {
		c.conn.Send(gin.H{"type": "error", "message": "album has no tracks"})
		return
	}
	if start < 0 || start >= len(tracks) {
		start = 0
	}
	c.session.LoadQueue(tracks, start)
}

// queuePlaylist resolves a stored playlist and loads it.
func queuePlaylist(c *Context) {
	id := c.Get("id").String()
	p, err := catalog.GetPlaylist(id)
	if err != nil {
		c.conn.Send(gin.H{"type": "error", "message": "playlist not found"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var tracks []playlist.ResolvedTrack
	if p.RemoteURL != "" {
		tracks, err = resolver.ResolveRemote(ctx, p.RemoteURL)
		if err != nil {
			c.conn.Send(gin.H{"type": "error", "message": "playlist fetch failed"})
			return
		}
	} else {
		tracks = resolver.ResolveStored(ctx, p)
	}
	if len(tracks) == 0 {
		c.conn.Send(gin.H{"type": "error", "message": "no playable tracks"})
		return
	}
	c.session.LoadQueue(tracks, 0)
}

// queueAdd appends one remote item to the queue.
func queueAdd(c *Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	tracks := resolver.ResolveItems(ctx, remoteItemFromContext(c))
	if len(tracks) == 0 {
		c.conn.Send(gin.H{"type": "error", "message": "track not found"})
		return
	}
	c.WithSession(func(s *Session) {
		s.Queue = append(s.Queue, tracks[0])
		if s.Shuffle {
			// new track plays last regardless of shuffle order
			s.Order = append(s.Order, len(s.Queue)-1)
		} else {
			keep := -1
			if s.current() != nil {
				keep = s.Order[s.Pos]
			}
			s.buildOrder(keep)
		}
	})
	c.session.PushQueue()
}

func queueRemove(c *Context) {
	idx := int(c.Get("index").Int())
	c.WithSession(func(s *Session) {
		if idx < 0 || idx >= len(s.Queue) {
			return
		}
		current := -1
		if s.current() != nil {
			current = s.Order[s.Pos]
		}
		if idx == current {
			return // never remove what is playing
		}
		s.Queue = append(s.Queue[:idx], s.Queue[idx+1:]...)
		if current > idx {
			current--
		}
		s.buildOrder(current)
	})
	c.session.PushQueue()
}

func playIndex(c *Context) {
	idx := int(c.Get("index").Int())
	c.WithSession(func(s *Session) {
		if idx < 0 || idx >= len(s.Queue) {
			return
		}
		for p, v := range s.Order {
			if v == idx {
				s.Pos = p
				break
			}
		}
		s.pushCurrent()
	})
	c.session.PushQueue()
}

func pausePlayback(c *Context)  { c.session.Pause() }
func resumePlayback(c *Context) { c.session.Resume() }
func nextTrack(c *Context)      { c.session.Next() }
func prevTrack(c *Context)      { c.session.Prev() }

func setShuffle(c *Context) {
	c.session.SetShuffle(c.Get("enable").Bool())
}

func setRepeat(c *Context) {
	c.WithSession(func(s *Session) {
		s.Repeat = c.Get("enable").Bool()
	})
	c.session.PushQueue()
}

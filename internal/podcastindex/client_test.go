package podcastindex

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestEpisodeByGUID(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/episodes/byguid" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("guid") != "item-1" || r.URL.Query().Get("podcastguid") != "feed-1" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		// signature must be sha1(key+secret+date)
		date := r.Header.Get("X-Auth-Date")
		sum := sha1.Sum([]byte("k" + "s" + date))
		if r.Header.Get("Authorization") != hex.EncodeToString(sum[:]) {
			t.Errorf("bad auth header %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("X-Auth-Key") != "k" {
			t.Errorf("bad key header %q", r.Header.Get("X-Auth-Key"))
		}
		w.Write([]byte(`{"status":"true","episode":{
			"guid":"item-1","title":"Gone","feedTitle":"Bloodshot Lies",
			"enclosureUrl":"https://cdn.example.com/2.mp3",
			"image":"","feedImage":"https://cdn.example.com/art.jpg",
			"duration":201}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", "s")
	ep, err := c.EpisodeByGUID(context.Background(), "item-1", "feed-1")
	if err != nil {
		t.Fatalf("EpisodeByGUID: %v", err)
	}
	if ep.Title != "Gone" || ep.AudioURL != "https://cdn.example.com/2.mp3" {
		t.Errorf("episode = %+v", ep)
	}
	if ep.Duration != 201000 {
		t.Errorf("Duration = %d, want 201000", ep.Duration)
	}
	if ep.ArtworkURL != "https://cdn.example.com/art.jpg" {
		t.Errorf("ArtworkURL = %q (feedImage fallback)", ep.ArtworkURL)
	}

	// second lookup must come from cache
	if _, err := c.EpisodeByGUID(context.Background(), "item-1", "feed-1"); err != nil {
		t.Fatalf("cached EpisodeByGUID: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("upstream called %d times, want 1", calls.Load())
	}
}

func TestEpisodeByGUIDNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"true","episode":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", "s")
	if _, err := c.EpisodeByGUID(context.Background(), "missing", "feed-1"); err == nil {
		t.Error("expected error for missing episode")
	}
}

func TestPodcastByGUID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"true","feed":{
			"podcastGuid":"feed-1","title":"Bloodshot Lies","author":"The Doerfels",
			"url":"https://example.com/feed.xml","artwork":"https://cdn.example.com/art.jpg",
			"medium":"music"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", "s")
	p, err := c.PodcastByGUID(context.Background(), "feed-1")
	if err != nil {
		t.Fatalf("PodcastByGUID: %v", err)
	}
	if p.Title != "Bloodshot Lies" || p.Medium != "music" {
		t.Errorf("podcast = %+v", p)
	}
}

func TestAuthHeadersStable(t *testing.T) {
	c := NewClient("http://example.invalid", "key", "secret")
	fixed := time.Unix(1700000000, 0)
	c.now = func() time.Time { return fixed }
	h := c.authHeaders()
	sum := sha1.Sum([]byte("keysecret1700000000"))
	if h["Authorization"] != hex.EncodeToString(sum[:]) {
		t.Errorf("Authorization = %q", h["Authorization"])
	}
	if h["X-Auth-Date"] != "1700000000" {
		t.Errorf("X-Auth-Date = %q", h["X-Auth-Date"])
	}
}

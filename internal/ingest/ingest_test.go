package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const testFeed = `<?xml version="1.0"?>
<rss xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd" xmlns:podcast="https://podcastindex.org/namespace/1.0">
<channel>
  <title>Tinderbox</title>
  <itunes:author>Nate Johnivan</itunes:author>
  <podcast:guid>feed-guid-tinderbox</podcast:guid>
  <podcast:medium>music</podcast:medium>
  <item>
    <title>Fire</title>
    <guid>item-fire</guid>
    <enclosure url="https://cdn.example.com/fire.mp3" type="audio/mpeg"/>
    <itunes:duration>2:41</itunes:duration>
  </item>
</channel>
</rss>`

func TestFetchAndParse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testFeed))
	}))
	defer srv.Close()

	p, err := FetchAndParse(context.Background(), srv.URL+"/feed.xml")
	if err != nil {
		t.Fatalf("FetchAndParse: %v", err)
	}
	if p.Feed.GUID != "feed-guid-tinderbox" || p.Feed.Title != "Tinderbox" {
		t.Errorf("feed = %+v", p.Feed)
	}
	if len(p.Feed.Items) != 1 || p.Feed.Items[0].Duration != 161000 {
		t.Errorf("items = %+v", p.Feed.Items)
	}
}

func TestFetchAndParseGUIDFallsBackToURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<rss><channel><title>No GUID Album</title></channel></rss>`))
	}))
	defer srv.Close()

	url := srv.URL + "/feed.xml"
	p, err := FetchAndParse(context.Background(), url)
	if err != nil {
		t.Fatalf("FetchAndParse: %v", err)
	}
	if p.Feed.GUID != url {
		t.Errorf("GUID = %q, want feed URL", p.Feed.GUID)
	}
}

func TestFetchAndParseRejectsEmptyFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not a feed</html>`))
	}))
	defer srv.Close()

	if _, err := FetchAndParse(context.Background(), srv.URL); err == nil {
		t.Error("expected error for feed without title")
	}
}

func TestPayloadCodec(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testFeed))
	}))
	defer srv.Close()

	p, err := FetchAndParse(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchAndParse: %v", err)
	}
	data, err := Encode(p)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Feed.GUID != p.Feed.GUID || len(got.Feed.Items) != len(p.Feed.Items) {
		t.Errorf("decoded = %+v", got.Feed)
	}

	if _, err := Decode([]byte(`{}`)); err == nil {
		t.Error("expected error for payload without feed")
	}
}

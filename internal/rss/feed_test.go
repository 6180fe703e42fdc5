package rss

import (
	"testing"
)

const albumFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd" xmlns:podcast="https://podcastindex.org/namespace/1.0">
<channel>
  <title><![CDATA[Bloodshot Lies - The Album]]></title>
  <description>The debut album.</description>
  <itunes:author>The Doerfels</itunes:author>
  <itunes:explicit>false</itunes:explicit>
  <itunes:image href="https://cdn.example.com/art/bloodshot.jpg"/>
  <podcast:guid>5883e6be-4e0c-11f0-9524-00155dc57d8e</podcast:guid>
  <podcast:medium>music</podcast:medium>
  <podcast:remoteItem medium="publisher" feedGuid="pub-guid-1" feedUrl="https://wavlake.com/feed/artist/pub-guid-1"/>
  <podcast:value type="lightning" method="keysend">
    <podcast:valueRecipient name="Band" type="lnaddress" address="band@getalby.com" split="95"/>
    <podcast:valueRecipient name="Host" type="lnaddress" address="host@getalby.com" split="5" fee="true"/>
  </podcast:value>
  <item>
    <title>Bloodshot Lies</title>
    <guid isPermaLink="false">item-guid-1</guid>
    <enclosure url="https://cdn.example.com/audio/1.mp3" type="audio/mpeg" length="4300000"/>
    <itunes:duration>3:03</itunes:duration>
    <itunes:image href="https://cdn.example.com/art/track1.jpg"/>
  </item>
  <item>
    <title>Gone</title>
    <guid>item-guid-2</guid>
    <enclosure type="audio/mpeg" url="https://cdn.example.com/audio/2.mp3"/>
    <itunes:duration>201</itunes:duration>
  </item>
  <item>
    <title>No Enclosure, Dropped</title>
    <guid>item-guid-3</guid>
  </item>
</channel>
</rss>`

func TestParseFeedChannel(t *testing.T) {
	feed := ParseFeed(albumFeed)
	if feed.Title != "Bloodshot Lies - The Album" {
		t.Errorf("Title = %q", feed.Title)
	}
	if feed.Author != "The Doerfels" {
		t.Errorf("Author = %q", feed.Author)
	}
	if feed.GUID != "5883e6be-4e0c-11f0-9524-00155dc57d8e" {
		t.Errorf("GUID = %q", feed.GUID)
	}
	if feed.Medium != "music" {
		t.Errorf("Medium = %q", feed.Medium)
	}
	if feed.Explicit {
		t.Error("Explicit = true")
	}
	if feed.ArtworkURL != "https://cdn.example.com/art/bloodshot.jpg" {
		t.Errorf("ArtworkURL = %q", feed.ArtworkURL)
	}
	if feed.PublisherGUID != "pub-guid-1" {
		t.Errorf("PublisherGUID = %q", feed.PublisherGUID)
	}
}

func TestParseFeedItems(t *testing.T) {
	feed := ParseFeed(albumFeed)
	if len(feed.Items) != 2 {
		t.Fatalf("got %d items, want 2 (enclosure-less item dropped)", len(feed.Items))
	}
	first := feed.Items[0]
	if first.GUID != "item-guid-1" || first.Title != "Bloodshot Lies" {
		t.Errorf("first item = %+v", first)
	}
	if first.AudioURL != "https://cdn.example.com/audio/1.mp3" {
		t.Errorf("AudioURL = %q", first.AudioURL)
	}
	if first.Duration != 183000 {
		t.Errorf("Duration = %d, want 183000", first.Duration)
	}
	if first.ArtworkURL != "https://cdn.example.com/art/track1.jpg" {
		t.Errorf("ArtworkURL = %q", first.ArtworkURL)
	}
	if first.Number != 1 {
		t.Errorf("Number = %d", first.Number)
	}
	second := feed.Items[1]
	if second.Duration != 201000 {
		t.Errorf("second Duration = %d, want 201000", second.Duration)
	}
	if second.AudioURL != "https://cdn.example.com/audio/2.mp3" {
		t.Errorf("second AudioURL = %q (attribute order)", second.AudioURL)
	}
}

func TestParseFeedValueSplits(t *testing.T) {
	feed := ParseFeed(albumFeed)
	if len(feed.Value) != 2 {
		t.Fatalf("got %d splits, want 2", len(feed.Value))
	}
	if feed.Value[0].Address != "band@getalby.com" || feed.Value[0].Split != 95 || feed.Value[0].Fee {
		t.Errorf("split 0 = %+v", feed.Value[0])
	}
	if !feed.Value[1].Fee || feed.Value[1].Split != 5 {
		t.Errorf("split 1 = %+v", feed.Value[1])
	}
}

func TestParseFeedMalformed(t *testing.T) {
	feed := ParseFeed("not xml at all")
	if feed.Title != "" || len(feed.Items) != 0 {
		t.Errorf("feed = %+v", feed)
	}
}

func TestParseDuration(t *testing.T) {
	testCases := []struct {
		in   string
		want int64
	}{
		{"183", 183000},
		{"3:03", 183000},
		{"1:02:03", 3723000},
		{"", 0},
		{"abc", 0},
	}
	for _, tc := range testCases {
		if got := parseDuration(tc.in); got != tc.want {
			t.Errorf("parseDuration(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

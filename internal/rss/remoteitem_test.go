package rss

import (
	"testing"
)

func TestExtractRemoteItems(t *testing.T) {
	doc := `<?xml version="1.0"?>
<podcast:remoteItem feedGuid="2b62ef49-fcff-523c-b81a-0a7dde2b0609" itemGuid="d8145cb6-97d9-4358-895b-2bf055d169aa"/>
<podcast:remoteItem itemGuid='c51ecaa4' feedGuid='a2d2aaf1' feedUrl='https://example.com/f.xml'></podcast:remoteItem>
<podcast:remoteItem
    feedGuid="multi-line"
    itemGuid="also-works" />`

	items := ExtractRemoteItems(doc)
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	if items[0].FeedGUID != "2b62ef49-fcff-523c-b81a-0a7dde2b0609" ||
		items[0].ItemGUID != "d8145cb6-97d9-4358-895b-2bf055d169aa" {
		t.Errorf("item 0 = %+v", items[0])
	}
	// attributes reordered, single quotes
	if items[1].FeedGUID != "a2d2aaf1" || items[1].ItemGUID != "c51ecaa4" ||
		items[1].FeedURL != "https://example.com/f.xml" {
		t.Errorf("item 1 = %+v", items[1])
	}
	if items[2].FeedGUID != "multi-line" || items[2].ItemGUID != "also-works" {
		t.Errorf("item 2 = %+v", items[2])
	}
}

func TestExtractRemoteItemsSkipsMalformed(t *testing.T) {
	doc := `<podcast:remoteItem itemGuid="orphan-without-feed"/>
<podcast:remoteItem feedGuid="kept-feed-level"/>`
	items := ExtractRemoteItems(doc)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].FeedGUID != "kept-feed-level" || items[0].ItemGUID != "" {
		t.Errorf("item = %+v", items[0])
	}
}

func TestExtractRemoteItemsEmpty(t *testing.T) {
	if items := ExtractRemoteItems("<rss><channel></channel></rss>"); items != nil {
		t.Errorf("got %v, want nil", items)
	}
}

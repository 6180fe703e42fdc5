package base

import (
	"testing"
)

func TestLoadConfig(t *testing.T) {
	LoadConfig(`{
		"addr": ":8080",
		"pgsql": "host=localhost user=zinecast",
		"log": {"level": "debug", "format": "console"},
		"podcastindex": {"api": "https://api.podcastindex.org/api/1.0", "key": "k", "secret": "s"},
		"nostr": {"key": "sk", "relays": ["wss://r1.example.com", "wss://r2.example.com"]}
	}`)

	if Config.Addr != ":8080" {
		t.Errorf("Addr = %q", Config.Addr)
	}
	if Config.LogLevel != "debug" || Config.LogFormat != "console" {
		t.Errorf("log config = %q/%q", Config.LogLevel, Config.LogFormat)
	}
	if Config.PodcastIndexKey != "k" || Config.PodcastIndexSecret != "s" {
		t.Errorf("podcastindex config = %q/%q", Config.PodcastIndexKey, Config.PodcastIndexSecret)
	}
	if len(Config.NostrRelays) != 2 || Config.NostrRelays[1] != "wss://r2.example.com" {
		t.Errorf("NostrRelays = %v", Config.NostrRelays)
	}
}

func TestLoadConfigEmpty(t *testing.T) {
	LoadConfig("")
	if Config.Addr != "" {
		t.Errorf("Addr = %q, want empty", Config.Addr)
	}
}

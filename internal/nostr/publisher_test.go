package nostr

import (
	"testing"

	"github.com/nbd-wtf/go-nostr"
)

func newTestPublisher(t *testing.T) *Publisher {
	t.Helper()
	sk := nostr.GeneratePrivateKey()
	p, err := NewPublisher(sk, []string{"wss://relay.example.com"})
	if err != nil {
		t.Fatalf("NewPublisher: %v", err)
	}
	return p
}

func hasTag(ev *nostr.Event, key, value string) bool {
	for _, tag := range ev.Tags {
		if len(tag) >= 2 && tag[0] == key && tag[1] == value {
			return true
		}
	}
	return false
}

func TestNewPublisherUnconfigured(t *testing.T) {
	p, err := NewPublisher("", nil)
	if p != nil || err != nil {
		t.Errorf("unconfigured publisher = %v, err %v", p, err)
	}
}

func TestFavoriteEventSigned(t *testing.T) {
	p := newTestPublisher(t)
	ev, err := p.FavoriteEvent("profilepub", "item-guid-1", "", "Bloodshot Lies")
	if err != nil {
		t.Fatalf("FavoriteEvent: %v", err)
	}
	if ok, err := ev.CheckSignature(); !ok || err != nil {
		t.Errorf("bad signature: ok=%v err=%v", ok, err)
	}
	if ev.Kind != nostr.KindTextNote {
		t.Errorf("Kind = %d", ev.Kind)
	}
	if !hasTag(ev, "i", "podcast:item:guid:item-guid-1") {
		t.Error("missing i tag")
	}
	if !hasTag(ev, "p", "profilepub") {
		t.Error("missing p tag")
	}
}

func TestDeletionEvent(t *testing.T) {
	p := newTestPublisher(t)
	ev, err := p.DeletionEvent("deadbeef")
	if err != nil {
		t.Fatalf("DeletionEvent: %v", err)
	}
	if ev.Kind != nostr.KindDeletion {
		t.Errorf("Kind = %d, want %d", ev.Kind, nostr.KindDeletion)
	}
	if !hasTag(ev, "e", "deadbeef") {
		t.Error("missing e tag")
	}
	if ok, _ := ev.CheckSignature(); !ok {
		t.Error("bad signature")
	}
}

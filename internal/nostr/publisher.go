package nostr

import (
	"context"
	"errors"
	"fmt"

	"github.com/nbd-wtf/go-nostr"
	"github.com/rs/zerolog/log"
)

// Publisher mirrors favorite activity to Nostr relays, signed with the
// service key. The favoriting profile's pubkey rides along as a p tag.
type Publisher struct {
	sk     string
	pubkey string
	relays []string
}

func NewPublisher(secretKey string, relays []string) (*Publisher, error) {
	if secretKey == "" || len(relays) == 0 {
		return nil, nil // Nostr sync not configured
	}
	pub, err := nostr.GetPublicKey(secretKey)
	if err != nil {
		return nil, fmt.Errorf("nostr: bad secret key: %w", err)
	}
	return &Publisher{sk: secretKey, pubkey: pub, relays: relays}, nil
}

// FavoriteEvent builds and signs the note for a favorited track or album.
func (p *Publisher) FavoriteEvent(profilePubkey, trackGUID, feedGUID, title string) (*nostr.Event, error) {
	tags := nostr.Tags{{"t", "favorite"}}
	if trackGUID != "" {
		tags = append(tags, nostr.Tag{"i", "podcast:item:guid:" + trackGUID})
	}
	if feedGUID != "" {
		tags = append(tags, nostr.Tag{"i", "podcast:guid:" + feedGUID})
	}
	if profilePubkey != "" {
		tags = append(tags, nostr.Tag{"p", profilePubkey})
	}
	ev := &nostr.Event{
		PubKey:    p.pubkey,
		CreatedAt: nostr.Now(),
		Kind:      nostr.KindTextNote,
		Tags:      tags,
		Content:   "⚡ favorited " + title,
	}
	if err := ev.Sign(p.sk); err != nil {
		return nil, err
	}
	return ev, nil
}

// DeletionEvent builds the NIP-09 deletion for a previously published favorite.
func (p *Publisher) DeletionEvent(eventID string) (*nostr.Event, error) {
	ev := &nostr.Event{
		PubKey:    p.pubkey,
		CreatedAt: nostr.Now(),
		Kind:      nostr.KindDeletion,
		Tags:      nostr.Tags{{"e", eventID}},
		Content:   "favorite removed",
	}
	if err := ev.Sign(p.sk); err != nil {
		return nil, err
	}
	return ev, nil
}

// Publish sends an event to every configured relay. It succeeds when at
// least one relay accepts; per-relay failures are logged only.
func (p *Publisher) Publish(ctx context.Context, ev *nostr.Event) error {
	accepted := 0
	for _, url := range p.relays {
		relay, err := nostr.RelayConnect(ctx, url)
		if err != nil {
			log.Warn().Err(err).Str("relay", url).Msg("relay connect failed")
			continue
		}
		err = relay.Publish(ctx, *ev)
		relay.Close()
		if err != nil {
			log.Warn().Err(err).Str("relay", url).Msg("relay publish failed")
			continue
		}
		accepted++
	}
	if accepted == 0 {
		return errors.New("nostr: no relay accepted the event")
	}
	return nil
}

// PublishFavorite signs and broadcasts a favorite, returning the event id.
func (p *Publisher) PublishFavorite(ctx context.Context, profilePubkey, trackGUID, feedGUID, title string) (string, error) {
	ev, err := p.FavoriteEvent(profilePubkey, trackGUID, feedGUID, title)
	if err != nil {
		return "", err
	}
	if err := p.Publish(ctx, ev); err != nil {
		return "", err
	}
	return ev.ID, nil
}

// PublishDeletion broadcasts the deletion of an earlier favorite event.
func (p *Publisher) PublishDeletion(ctx context.Context, eventID string) error {
	if eventID == "" {
		return nil
	}
	ev, err := p.DeletionEvent(eventID)
	if err != nil {
		return err
	}
	return p.Publish(ctx, ev)
}

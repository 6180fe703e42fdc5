package catalog

import (
	"testing"
)

func TestNormalizeSlug(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"Stay Awhile", "stay-awhile"},
		{"Music From The Doerfel-Verse", "music-from-the-doerfel-verse"},
		{"  Bloodshot  Lies -- The Album ", "bloodshot-lies-the-album"},
		{"THEY DON'T KNOW", "they-don-t-know"},
		{"...", ""},
		{"Tinderbox!", "tinderbox"},
	}
	for _, tc := range testCases {
		if got := NormalizeSlug(tc.in); got != tc.want {
			t.Errorf("NormalizeSlug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func albums(titles ...string) []FeedModel {
	feeds := make([]FeedModel, len(titles))
	for i, title := range titles {
		feeds[i] = FeedModel{Title: title, Medium: MediumMusic}
	}
	return feeds
}

func TestMatchSlugExact(t *testing.T) {
	candidates := albums("Stay Awhile", "Bloodshot Lies", "Tinderbox")
	if got := MatchSlug("bloodshot-lies", candidates); got != 1 {
		t.Errorf("MatchSlug = %d, want 1", got)
	}
}

func TestMatchSlugPunctuationInsensitive(t *testing.T) {
	candidates := albums("They Don't Know", "Stay Awhile")
	if got := MatchSlug("they-don-t-know", candidates); got != 0 {
		t.Errorf("MatchSlug = %d, want 0", got)
	}
}

func TestMatchSlugContainment(t *testing.T) {
	// slug is a prefix of the full album title
	candidates := albums("Music From The Doerfel-Verse", "Bloodshot Lies - The Album")
	if got := MatchSlug("bloodshot-lies", candidates); got != 1 {
		t.Errorf("MatchSlug = %d, want 1", got)
	}
}

func TestMatchSlugTokenOverlap(t *testing.T) {
	candidates := albums("Way Beyond The Blue Horizon", "Into The Blue")
	if got := MatchSlug("beyond-blue-horizon", candidates); got != 0 {
		t.Errorf("MatchSlug = %d, want 0", got)
	}
}

func TestMatchSlugTieBreakShorterTitle(t *testing.T) {
	candidates := albums("Empty Passenger Seat (Deluxe Edition)", "Empty Passenger Seat")
	if got := MatchSlug("empty-passenger-seat", candidates); got != 1 {
		t.Errorf("MatchSlug = %d, want 1", got)
	}
}

func TestMatchSlugMiss(t *testing.T) {
	candidates := albums("Stay Awhile", "Tinderbox")
	if got := MatchSlug("completely-unrelated-record", candidates); got != -1 {
		t.Errorf("MatchSlug = %d, want -1", got)
	}
	if got := MatchSlug("", candidates); got != -1 {
		t.Errorf("MatchSlug(empty) = %d, want -1", got)
	}
}

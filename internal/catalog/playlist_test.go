package catalog

import "testing"

// Curated playlists carry an empty profile id, so a caller without a
// profile must never pass the ownership check.
func TestAnonymousCallerOwnsNothing(t *testing.T) {
	if _, err := UpdatePlaylist("", "some-playlist", "renamed", ""); err != ErrNotOwner {
		t.Errorf("UpdatePlaylist err = %v, want ErrNotOwner", err)
	}
	if err := DeletePlaylist("", "some-playlist"); err != ErrNotOwner {
		t.Errorf("DeletePlaylist err = %v, want ErrNotOwner", err)
	}
	if err := AddPlaylistTrack("", "some-playlist", "fg", "ig"); err != ErrNotOwner {
		t.Errorf("AddPlaylistTrack err = %v, want ErrNotOwner", err)
	}
	if err := RemovePlaylistTrack("", "some-playlist", "fg", "ig"); err != ErrNotOwner {
		t.Errorf("RemovePlaylistTrack err = %v, want ErrNotOwner", err)
	}
}

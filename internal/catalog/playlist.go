package catalog

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotOwner = errors.New("playlist belongs to another profile")

// CreatePlaylist stores a new playlist and assigns its public id.
func CreatePlaylist(p *PlaylistModel) error {
	if DB == nil {
		return nil
	}
	if p.PlaylistID == "" {
		p.PlaylistID = uuid.New().String()
	}
	return DB.Create(p).Error
}

// GetPlaylist loads a playlist with tracks in position order.
func GetPlaylist(playlistID string) (*PlaylistModel, error) {
	if DB == nil {
		return nil, gorm.ErrRecordNotFound
	}
	var p PlaylistModel
	result := DB.Preload("Tracks", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("playlist_id = ?", playlistID).First(&p)
	if result.Error != nil {
		return nil, result.Error
	}
	return &p, nil
}

// ListPlaylists returns the profile's playlists plus curated ones.
func ListPlaylists(profileID string) ([]PlaylistModel, error) {
	if DB == nil {
		return nil, nil
	}
	var lists []PlaylistModel
	err := DB.Where("profile_id = ? OR profile_id = ''", profileID).
		Order("created_at DESC").Find(&lists).Error
	return lists, err
}

// UpdatePlaylist renames a playlist owned by the profile.
func UpdatePlaylist(profileID, playlistID, name, description string) (*PlaylistModel, error) {
	p, err := getOwned(profileID, playlistID)
	if err != nil {
		return nil, err
	}
	p.Name = name
	p.Description = description
	return p, DB.Save(p).Error
}

// DeletePlaylist removes a playlist and its track rows.
func DeletePlaylist(profileID, playlistID string) error {
	p, err := getOwned(profileID, playlistID)
	if err != nil {
		return err
	}
	if err := DB.Where("playlist_ref = ?", p.ID).Delete(&PlaylistTrackModel{}).Error; err != nil {
		return err
	}
	return DB.Delete(p).Error
}

// AddPlaylistTrack appends a remote-item reference at the end of a playlist.
func AddPlaylistTrack(profileID, playlistID, feedGUID, itemGUID string) error {
	p, err := getOwned(profileID, playlistID)
	if err != nil {
		return err
	}
	for _, t := range p.Tracks {
		if t.FeedGUID == feedGUID && t.ItemGUID == itemGUID {
			return nil // already present
		}
	}
	return DB.Create(&PlaylistTrackModel{
		PlaylistRef: p.ID,
		FeedGUID:    feedGUID,
		ItemGUID:    itemGUID,
		Position:    len(p.Tracks),
	}).Error
}

// RemovePlaylistTrack deletes a remote-item reference from a playlist.
func RemovePlaylistTrack(profileID, playlistID, feedGUID, itemGUID string) error {
	p, err := getOwned(profileID, playlistID)
	if err != nil {
		return err
	}
	return DB.Where("playlist_ref = ? AND feed_guid = ? AND item_guid = ?",
		p.ID, feedGUID, itemGUID).Delete(&PlaylistTrackModel{}).Error
}

func getOwned(profileID, playlistID string) (*PlaylistModel, error) {
	// an anonymous caller owns nothing, curated playlists included
	if profileID == "" {
		return nil, ErrNotOwner
	}
	if DB == nil {
		return nil, gorm.ErrRecordNotFound
	}
	p, err := GetPlaylist(playlistID)
	if err != nil {
		return nil, err
	}
	if p.ProfileID != profileID {
		return nil, ErrNotOwner
	}
	return p, nil
}

package catalog

import (
	"errors"

	"gorm.io/gorm"
)

var ErrBadFavorite = errors.New("favorite needs exactly one of track or feed guid")

// AddFavorite records a favorite, idempotently per (profile, target).
// Returns the row and whether it was newly created.
func AddFavorite(profileID, trackGUID, feedGUID string) (*FavoriteModel, bool, error) {
	if (trackGUID == "") == (feedGUID == "") {
		return nil, false, ErrBadFavorite
	}
	if DB == nil {
		return nil, false, nil
	}

	var existing FavoriteModel
	result := DB.Where("profile_id = ? AND track_guid = ? AND feed_guid = ?",
		profileID, trackGUID, feedGUID).First(&existing)
	if result.Error == nil {
		return &existing, false, nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, false, result.Error
	}

	fav := FavoriteModel{ProfileID: profileID, TrackGUID: trackGUID, FeedGUID: feedGUID}
	if err := DB.Create(&fav).Error; err != nil {
		return nil, false, err
	}
	return &fav, true, nil
}

// SetFavoriteEvent stores the Nostr event id published for a favorite.
func SetFavoriteEvent(favoriteID uint, eventID string) error {
	if DB == nil {
		return nil
	}
	return DB.Model(&FavoriteModel{}).Where("id = ?", favoriteID).
		UpdateColumn("nostr_event_id", eventID).Error
}

// RemoveFavorite deletes a favorite and reports the Nostr event id that was
// attached to it, if any. The delete is unscoped: a soft-deleted row would
// keep occupying the unique (profile, target) index and block re-adding.
func RemoveFavorite(profileID, trackGUID, feedGUID string) (string, error) {
	if (trackGUID == "") == (feedGUID == "") {
		return "", ErrBadFavorite
	}
	if DB == nil {
		return "", nil
	}
	var existing FavoriteModel
	result := DB.Where("profile_id = ? AND track_guid = ? AND feed_guid = ?",
		profileID, trackGUID, feedGUID).First(&existing)
	if result.Error != nil {
		return "", result.Error
	}
	return existing.NostrEventID, DB.Unscoped().Delete(&existing).Error
}

// ListFavorites returns a profile's favorites, newest first.
func ListFavorites(profileID string) ([]FavoriteModel, error) {
	if DB == nil {
		return nil, nil
	}
	var favs []FavoriteModel
	err := DB.Where("profile_id = ?", profileID).Order("created_at DESC").Find(&favs).Error
	return favs, err
}

// RecordBoost appends a boost ledger row.
func RecordBoost(b *BoostModel) error {
	if DB == nil {
		return nil
	}
	return DB.Create(b).Error
}

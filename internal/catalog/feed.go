package catalog

import (
	"errors"

	"gorm.io/gorm"
)

// UpsertFeed saves a feed and its tracks, keyed by GUID. Mutable fields of
// existing rows are refreshed; tracks never duplicate on re-import.
func UpsertFeed(feed *FeedModel, tracks []TrackModel, recipients []ValueRecipientModel) error {
	if DB == nil {
		return nil // Database not initialized, skip saving
	}

	var existing FeedModel
	result := DB.Where("guid = ?", feed.GUID).First(&existing)
	switch {
	case result.Error == nil:
		existing.Title = feed.Title
		existing.Artist = feed.Artist
		existing.Medium = feed.Medium
		existing.Description = feed.Description
		existing.FeedURL = feed.FeedURL
		existing.ArtworkURL = feed.ArtworkURL
		existing.PublisherGUID = feed.PublisherGUID
		existing.Explicit = feed.Explicit
		if err := DB.Save(&existing).Error; err != nil {
			return err
		}
		feed.ID = existing.ID
	case errors.Is(result.Error, gorm.ErrRecordNotFound):
		if err := DB.Create(feed).Error; err != nil {
			return err
		}
	default:
		return result.Error
	}

	for i := range tracks {
		tracks[i].FeedID = feed.ID
		tracks[i].FeedGUID = feed.GUID
		if err := upsertTrack(&tracks[i]); err != nil {
			return err
		}
	}

	// value splits are replaced wholesale on import
	if err := DB.Where("feed_id = ?", feed.ID).Delete(&ValueRecipientModel{}).Error; err != nil {
		return err
	}
	for i := range recipients {
		recipients[i].FeedID = feed.ID
		if err := DB.Create(&recipients[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func upsertTrack(track *TrackModel) error {
	var existing TrackModel
	result := DB.Where("guid = ?", track.GUID).First(&existing)
	switch {
	case result.Error == nil:
		existing.Title = track.Title
		existing.Artist = track.Artist
		existing.AudioURL = track.AudioURL
		existing.ArtworkURL = track.ArtworkURL
		existing.Duration = track.Duration
		existing.Number = track.Number
		return DB.Save(&existing).Error
	case errors.Is(result.Error, gorm.ErrRecordNotFound):
		return DB.Create(track).Error
	default:
		return result.Error
	}
}

// EnsurePublisher creates a placeholder publisher feed for a GUID referenced
// by an album before the publisher feed itself was imported.
func EnsurePublisher(guid, feedURL, artist string) error {
	if DB == nil || guid == "" {
		return nil
	}
	var existing FeedModel
	result := DB.Where("guid = ?", guid).First(&existing)
	if result.Error == nil {
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}
	title := "Unknown Publisher"
	if artist != "" {
		title = "Unknown Publisher (" + artist + ")"
	}
	return DB.Create(&FeedModel{
		GUID:    guid,
		Title:   title,
		Artist:  artist,
		Medium:  MediumPublisher,
		FeedURL: feedURL,
	}).Error
}

// SearchFeeds searches album feeds by title or artist.
func SearchFeeds(keyword string, page, pageSize int64) ([]FeedModel, int64, error) {
	if DB == nil {
		return nil, 0, nil
	}

	var feeds []FeedModel
	var total int64

	query := DB.Model(&FeedModel{}).Where("medium = ?", MediumMusic)
	if keyword != "" {
		query = query.Where("title ILIKE ? OR artist ILIKE ?", "%"+keyword+"%", "%"+keyword+"%")
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.
		Order("play_count DESC").
		Offset(int((page - 1) * pageSize)).
		Limit(int(pageSize)).
		Find(&feeds).Error; err != nil {
		return nil, 0, err
	}
	return feeds, total, nil
}

// GetFeedByGUID retrieves a feed with its tracks ordered by track number.
func GetFeedByGUID(guid string) (*FeedModel, error) {
	if DB == nil {
		return nil, nil
	}
	var feed FeedModel
	result := DB.Preload("Tracks", func(db *gorm.DB) *gorm.DB {
		return db.Order("number ASC")
	}).Where("guid = ?", guid).First(&feed)
	if result.Error != nil {
		return nil, result.Error
	}
	return &feed, nil
}

// MusicFeedCandidates returns guid/title/artist of every album feed, the
// working set for slug resolution.
func MusicFeedCandidates() ([]FeedModel, error) {
	if DB == nil {
		return nil, nil
	}
	var feeds []FeedModel
	err := DB.Select("id", "guid", "title", "artist").
		Where("medium = ?", MediumMusic).
		Find(&feeds).Error
	return feeds, err
}

// ListPublishers returns publisher feeds with the albums referencing them.
func ListPublishers() ([]FeedModel, error) {
	if DB == nil {
		return nil, nil
	}
	var feeds []FeedModel
	err := DB.Where("medium = ?", MediumPublisher).Order("title ASC").Find(&feeds).Error
	return feeds, err
}

// FeedsByPublisher returns album feeds referencing a publisher GUID.
func FeedsByPublisher(publisherGUID string) ([]FeedModel, error) {
	if DB == nil {
		return nil, nil
	}
	var feeds []FeedModel
	err := DB.Where("medium = ? AND publisher_guid = ?", MediumMusic, publisherGUID).
		Order("title ASC").Find(&feeds).Error
	return feeds, err
}

// GetTrackByGUIDPair resolves a remote item against the local catalog.
func GetTrackByGUIDPair(feedGUID, itemGUID string) (*TrackModel, error) {
	if DB == nil {
		return nil, gorm.ErrRecordNotFound
	}
	var track TrackModel
	result := DB.Where("feed_guid = ? AND guid = ?", feedGUID, itemGUID).First(&track)
	if result.Error != nil {
		return nil, result.Error
	}
	return &track, nil
}

// GetTrackByGUID retrieves a track by its item GUID alone.
func GetTrackByGUID(guid string) (*TrackModel, error) {
	if DB == nil {
		return nil, gorm.ErrRecordNotFound
	}
	var track TrackModel
	result := DB.Where("guid = ?", guid).First(&track)
	if result.Error != nil {
		return nil, result.Error
	}
	return &track, nil
}

// IncrementPlayCount bumps a track and its feed.
func IncrementPlayCount(trackGUID string) error {
	if DB == nil {
		return nil
	}
	track, err := GetTrackByGUID(trackGUID)
	if err != nil {
		return err
	}
	if err := DB.Model(&TrackModel{}).Where("id = ?", track.ID).
		UpdateColumn("play_count", gorm.Expr("play_count + 1")).Error; err != nil {
		return err
	}
	return DB.Model(&FeedModel{}).Where("id = ?", track.FeedID).
		UpdateColumn("play_count", gorm.Expr("play_count + 1")).Error
}

// ValueRecipients returns the splits for a track, falling back to the
// feed-level splits when the track has none.
func ValueRecipients(feedID, trackID uint) ([]ValueRecipientModel, error) {
	if DB == nil {
		return nil, nil
	}
	var recipients []ValueRecipientModel
	if trackID != 0 {
		if err := DB.Where("track_id = ?", trackID).Find(&recipients).Error; err != nil {
			return nil, err
		}
		if len(recipients) > 0 {
			return recipients, nil
		}
	}
	err := DB.Where("feed_id = ? AND track_id = 0", feedID).Find(&recipients).Error
	return recipients, err
}

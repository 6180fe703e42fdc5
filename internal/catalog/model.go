package catalog

import (
	"gorm.io/gorm"
)

// Feed mediums as used in podcast:medium tags.
const (
	MediumMusic     = "music"
	MediumPublisher = "publisher"
)

// FeedModel represents an album or publisher feed in the database.
type FeedModel struct {
	gorm.Model
	GUID          string `gorm:"uniqueIndex;not null"`
	Title         string `gorm:"index;not null"`
	Artist        string `gorm:"index"`
	Medium        string `gorm:"index;not null;default:music"`
	Description   string `gorm:"type:text"`
	FeedURL       string
	ArtworkURL    string
	PublisherGUID string `gorm:"index"`
	Explicit      bool
	PlayCount     int `gorm:"default:0"`

	Tracks []TrackModel `gorm:"foreignKey:FeedID"`
}

// TrackModel represents a single item of an album feed.
type TrackModel struct {
	gorm.Model
	GUID       string `gorm:"uniqueIndex;not null"`
	FeedID     uint   `gorm:"index"`
	FeedGUID   string `gorm:"index"`
	Title      string `gorm:"index;not null"`
	Artist     string
	AudioURL   string
	ArtworkURL string
	Duration   int64 // milliseconds
	Number     int
	PlayCount  int `gorm:"default:0"`
}

// ValueRecipientModel is one V4V payment split. TrackID == 0 means the
// recipient applies at feed level.
type ValueRecipientModel struct {
	gorm.Model
	FeedID  uint `gorm:"index"`
	TrackID uint `gorm:"index"`
	Name    string
	Address string // lightning address or LNURL-pay URL
	Split   int
	Fee     bool
}

// PlaylistModel is a user playlist, or a curated remote playlist when
// RemoteURL is set.
type PlaylistModel struct {
	gorm.Model
	PlaylistID  string `gorm:"uniqueIndex;not null"`
	ProfileID   string `gorm:"index"` // empty for curated playlists
	Name        string `gorm:"not null"`
	Description string `gorm:"type:text"`
	ArtworkURL  string
	RemoteURL   string

	Tracks []PlaylistTrackModel `gorm:"foreignKey:PlaylistRef"`
}

// PlaylistTrackModel references a track by remote-item GUID pair so
// playlists can hold tracks the catalog has not imported yet.
type PlaylistTrackModel struct {
	gorm.Model
	PlaylistRef uint   `gorm:"index"`
	FeedGUID    string `gorm:"not null"`
	ItemGUID    string `gorm:"not null"`
	Position    int
}

// FavoriteModel marks a track or feed favorite for a profile. Exactly one
// of TrackGUID/FeedGUID is set.
type FavoriteModel struct {
	gorm.Model
	ProfileID    string `gorm:"index;not null;uniqueIndex:idx_fav_target"`
	TrackGUID    string `gorm:"uniqueIndex:idx_fav_target"`
	FeedGUID     string `gorm:"uniqueIndex:idx_fav_target"`
	NostrEventID string
}

// BoostModel records a sent Lightning boost.
type BoostModel struct {
	gorm.Model
	ProfileID  string `gorm:"index"`
	FeedGUID   string `gorm:"index"`
	TrackGUID  string `gorm:"index"`
	AmountMsat int64
	Message    string
	Recipients int
}

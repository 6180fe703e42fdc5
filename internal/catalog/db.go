package catalog

import (
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/bitpunk-fm/zinecast/internal/base"
)

// DB holds the database connection
var DB *gorm.DB

// InitDB initializes the database connection
func InitDB() {
	dsn := base.Config.Pgsql
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("Failed to connect to database")
	}
	DB = db
	err = DB.AutoMigrate(
		&FeedModel{},
		&TrackModel{},
		&ValueRecipientModel{},
		&PlaylistModel{},
		&PlaylistTrackModel{},
		&FavoriteModel{},
		&BoostModel{},
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to migrate database")
	}
}

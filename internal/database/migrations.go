package database

import (
	"kaudio/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// Models lists every table owned by the service, parents before children.
var Models = []any{
	&models.User{},
	&models.Artist{},
	&models.Genre{},
	&models.Album{},
	&models.Track{},
	&models.AlbumGenre{},
	&models.TrackGenre{},
	&models.Playlist{},
	&models.PlaylistTrack{},
	&models.UserAlbum{},
	&models.UserTrack{},
	&models.UserActivity{},
	&models.TrackReview{},
	&models.AlbumReview{},
	&models.SubscriptionPlan{},
	&models.UserSubscription{},
}

// Indexes are created outside AutoMigrate because gorm tags cannot express
// partial indexes. The statements are valid for both postgres and sqlite.
var Indexes = []string{
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_user_activities_like_album ON user_activities (user_id, album_id) WHERE activity_type = 'like_album'",
	"CREATE INDEX IF NOT EXISTS idx_user_activities_track_type ON user_activities (track_id, activity_type)",
	"CREATE INDEX IF NOT EXISTS idx_playlist_tracks_position ON playlist_tracks (playlist_id, position)",
	"CREATE INDEX IF NOT EXISTS idx_tracks_popularity ON tracks (play_count DESC, likes_count DESC)",
}

// MigrateModels runs GORM AutoMigrate for all models
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	for _, model := range Models {
		if err := db.SQL.AutoMigrate(model); err != nil {
			return log.Err("Failed to migrate model", err, "model", model)
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes creates additional indexes that GORM doesn't create automatically
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	for _, indexSQL := range Indexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			return log.Err("Failed to create index", err, "sql", indexSQL)
		}
	}

	log.Info("Additional database indexes created")
	return nil
}

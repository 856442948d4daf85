// Package testutil builds throwaway databases and fixtures for package tests.
package testutil

import (
	"kaudio/internal/database"
	"kaudio/internal/models"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDB opens a private in-memory SQLite database with the full schema. The
// pool is pinned to one connection so every query sees the same database.
func NewDB(t *testing.T) database.DB {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig())
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db := database.NewFromGorm(gormDB)
	if err := db.MigrateModels(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := db.CreateIndexes(); err != nil {
		t.Fatalf("failed to create indexes: %v", err)
	}

	return db
}

func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		PasswordHash: "not-a-real-hash",
		Role:         models.RoleUser,
		IsActive:     true,
	}
	must(t, db.Create(user).Error)
	return user
}

func CreateArtist(t *testing.T, db *gorm.DB, name string, owner *models.User) *models.Artist {
	t.Helper()

	artist := &models.Artist{Name: name}
	if owner != nil {
		artist.UserID = &owner.ID
	}
	must(t, db.Create(artist).Error)
	return artist
}

func CreateAlbum(t *testing.T, db *gorm.DB, title string, artist *models.Artist) *models.Album {
	t.Helper()

	album := &models.Album{Title: title, ArtistID: artist.ID}
	must(t, db.Create(album).Error)
	return album
}

// CreateTrack inserts a track row directly, without touching album totals.
func CreateTrack(
	t *testing.T,
	db *gorm.DB,
	title string,
	artist *models.Artist,
	album *models.Album,
	number int,
	duration int,
) *models.Track {
	t.Helper()

	track := &models.Track{Title: title, ArtistID: artist.ID, Duration: duration}
	if album != nil {
		track.AlbumID = &album.ID
		track.TrackNumber = &number
	}
	must(t, db.Create(track).Error)
	return track
}

func CreatePlaylist(t *testing.T, db *gorm.DB, title string, owner *models.User, public bool) *models.Playlist {
	t.Helper()

	playlist := &models.Playlist{Title: title, UserID: owner.ID, IsPublic: public}
	must(t, db.Create(playlist).Error)
	return playlist
}

func CreateGenre(t *testing.T, db *gorm.DB, title string) *models.Genre {
	t.Helper()

	genre := &models.Genre{Title: title}
	must(t, db.Create(genre).Error)
	return genre
}

func Reload[T any](t *testing.T, db *gorm.DB, id uuid.UUID) *T {
	t.Helper()

	var out T
	must(t, db.First(&out, "id = ?", id).Error)
	return &out
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("fixture failed: %v", err)
	}
}

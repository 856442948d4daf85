package repositories

import (
	"context"
	. "kaudio/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LibraryRepository interface {
	AddAlbum(ctx context.Context, tx *gorm.DB, entry *UserAlbum) error
	RemoveAlbum(ctx context.Context, tx *gorm.DB, userID, albumID uuid.UUID) (bool, error)
	HasAlbum(ctx context.Context, tx *gorm.DB, userID, albumID uuid.UUID) (bool, error)
	ListAlbums(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*UserAlbum, error)

	AddTrack(ctx context.Context, tx *gorm.DB, entry *UserTrack) error
	RemoveTrack(ctx context.Context, tx *gorm.DB, userID, trackID uuid.UUID) (bool, error)
	HasTrack(ctx context.Context, tx *gorm.DB, userID, trackID uuid.UUID) (bool, error)
	ListTracks(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*UserTrack, error)

	// DetachAlbum and DetachTrack drop an item from every library and return
	// the owners whose positions need compacting.
	DetachAlbum(ctx context.Context, tx *gorm.DB, albumID uuid.UUID) ([]uuid.UUID, error)
	DetachTrack(ctx context.Context, tx *gorm.DB, trackID uuid.UUID) ([]uuid.UUID, error)
	DeleteByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type libraryRepository struct {
	log logger.Logger
}

func NewLibraryRepository() LibraryRepository {
	return &libraryRepository{
		log: logger.New("libraryRepository"),
	}
}

func (r *libraryRepository) AddAlbum(ctx context.Context, tx *gorm.DB, entry *UserAlbum) error {
	log := r.log.Function("AddAlbum")

	if err := gorm.G[UserAlbum](tx).Create(ctx, entry); err != nil {
		return log.Err("failed to add album to library", err, "userID", entry.UserID, "albumID", entry.AlbumID)
	}

	return nil
}

func (r *libraryRepository) RemoveAlbum(
	ctx context.Context,
	tx *gorm.DB,
	userID, albumID uuid.UUID,
) (bool, error) {
	rows, err := gorm.G[UserAlbum](tx).
		Where("user_id = ? AND album_id = ?", userID, albumID).
		Delete(ctx)
	if err != nil {
		return false, r.log.Function("RemoveAlbum").
			Err("failed to remove album from library", err, "userID", userID, "albumID", albumID)
	}

	return rows > 0, nil
}

func (r *libraryRepository) HasAlbum(
	ctx context.Context,
	tx *gorm.DB,
	userID, albumID uuid.UUID,
) (bool, error) {
	var count int64
	if err := tx.WithContext(ctx).
		Model(&UserAlbum{}).
		Where("user_id = ? AND album_id = ?", userID, albumID).
		Count(&count).Error; err != nil {
		return false, r.log.Function("HasAlbum").Err("failed to check library album", err)
	}

	return count > 0, nil
}

func (r *libraryRepository) ListAlbums(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) ([]*UserAlbum, error) {
	log := r.log.Function("ListAlbums")

	entries, err := gorm.G[*UserAlbum](tx).
		Preload("Album", nil).
		Where("user_id = ?", userID).
		Order("position ASC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list library albums", err, "userID", userID)
	}

	return entries, nil
}

func (r *libraryRepository) AddTrack(ctx context.Context, tx *gorm.DB, entry *UserTrack) error {
	log := r.log.Function("AddTrack")

	if err := gorm.G[UserTrack](tx).Create(ctx, entry); err != nil {
		return log.Err("failed to add track to library", err, "userID", entry.UserID, "trackID", entry.TrackID)
	}

	return nil
}

func (r *libraryRepository) RemoveTrack(
	ctx context.Context,
	tx *gorm.DB,
	userID, trackID uuid.UUID,
) (bool, error) {
	rows, err := gorm.G[UserTrack](tx).
		Where("user_id = ? AND track_id = ?", userID, trackID).
		Delete(ctx)
	if err != nil {
		return false, r.log.Function("RemoveTrack").
			Err("failed to remove track from library", err, "userID", userID, "trackID", trackID)
	}

	return rows > 0, nil
}

func (r *libraryRepository) HasTrack(
	ctx context.Context,
	tx *gorm.DB,
	userID, trackID uuid.UUID,
) (bool, error) {
	var count int64
	if err := tx.WithContext(ctx).
		Model(&UserTrack{}).
		Where("user_id = ? AND track_id = ?", userID, trackID).
		Count(&count).Error; err != nil {
		return false, r.log.Function("HasTrack").Err("failed to check library track", err)
	}

	return count > 0, nil
}

func (r *libraryRepository) ListTracks(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) ([]*UserTrack, error) {
	log := r.log.Function("ListTracks")

	entries, err := gorm.G[*UserTrack](tx).
		Preload("Track", nil).
		Where("user_id = ?", userID).
		Order("position ASC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list library tracks", err, "userID", userID)
	}

	return entries, nil
}

func (r *libraryRepository) DetachAlbum(
	ctx context.Context,
	tx *gorm.DB,
	albumID uuid.UUID,
) ([]uuid.UUID, error) {
	log := r.log.Function("DetachAlbum")

	var owners []uuid.UUID
	if err := tx.WithContext(ctx).
		Model(&UserAlbum{}).
		Where("album_id = ?", albumID).
		Pluck("user_id", &owners).Error; err != nil {
		return nil, log.Err("failed to find library owners", err, "albumID", albumID)
	}

	if _, err := gorm.G[UserAlbum](tx).Where("album_id = ?", albumID).Delete(ctx); err != nil {
		return nil, log.Err("failed to detach album from libraries", err, "albumID", albumID)
	}

	return owners, nil
}

func (r *libraryRepository) DetachTrack(
	ctx context.Context,
	tx *gorm.DB,
	trackID uuid.UUID,
) ([]uuid.UUID, error) {
	log := r.log.Function("DetachTrack")

	var owners []uuid.UUID
	if err := tx.WithContext(ctx).
		Model(&UserTrack{}).
		Where("track_id = ?", trackID).
		Pluck("user_id", &owners).Error; err != nil {
		return nil, log.Err("failed to find library owners", err, "trackID", trackID)
	}

	if _, err := gorm.G[UserTrack](tx).Where("track_id = ?", trackID).Delete(ctx); err != nil {
		return nil, log.Err("failed to detach track from libraries", err, "trackID", trackID)
	}

	return owners, nil
}

func (r *libraryRepository) DeleteByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	log := r.log.Function("DeleteByUser")

	if _, err := gorm.G[UserAlbum](tx).Where("user_id = ?", userID).Delete(ctx); err != nil {
		return log.Err("failed to delete library albums", err, "userID", userID)
	}
	if _, err := gorm.G[UserTrack](tx).Where("user_id = ?", userID).Delete(ctx); err != nil {
		return log.Err("failed to delete library tracks", err, "userID", userID)
	}

	return nil
}

package repositories

import (
	"context"
	. "kaudio/internal/models"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityFilter struct {
	UserID       *uuid.UUID
	ActivityType *ActivityType
	From         *time.Time
	To           *time.Time
	MinDuration  *int
	MaxDuration  *int
	Limit        int
	Offset       int
}

type ActivityRepository interface {
	Create(ctx context.Context, tx *gorm.DB, activity *UserActivity) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*UserActivity, error)
	GetAlbumLike(ctx context.Context, tx *gorm.DB, userID, albumID uuid.UUID) (*UserActivity, error)
	List(ctx context.Context, tx *gorm.DB, filter ActivityFilter) ([]*UserActivity, error)
	ListAllByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*UserActivity, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error)

	HasPlayedTrack(ctx context.Context, tx *gorm.DB, userID, trackID uuid.UUID) (bool, error)
	HasPlayedAlbum(ctx context.Context, tx *gorm.DB, userID, albumID uuid.UUID) (bool, error)
	CountForTrack(ctx context.Context, tx *gorm.DB, trackID uuid.UUID, activityType ActivityType) (int64, error)

	DeleteForTrack(ctx context.Context, tx *gorm.DB, trackID uuid.UUID) error
	DeleteForAlbum(ctx context.Context, tx *gorm.DB, albumID uuid.UUID) error
	DeleteForPlaylist(ctx context.Context, tx *gorm.DB, playlistID uuid.UUID) error
	DeleteForArtist(ctx context.Context, tx *gorm.DB, artistID uuid.UUID) error
}

type activityRepository struct {
	log logger.Logger
}

func NewActivityRepository() ActivityRepository {
	return &activityRepository{
		log: logger.New("activityRepository"),
	}
}

func (r *activityRepository) Create(ctx context.Context, tx *gorm.DB, activity *UserActivity) error {
	log := r.log.Function("Create")

	if err := gorm.G[UserActivity](tx).Create(ctx, activity); err != nil {
		return log.Err("failed to create activity", err,
			"userID", activity.UserID,
			"activityType", activity.ActivityType,
		)
	}

	return nil
}

func (r *activityRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*UserActivity, error) {
	activity, err := gorm.G[UserActivity](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, notFound(err, "activity", id)
	}

	return &activity, nil
}

func (r *activityRepository) GetAlbumLike(
	ctx context.Context,
	tx *gorm.DB,
	userID, albumID uuid.UUID,
) (*UserActivity, error) {
	activity, err := gorm.G[UserActivity](tx).
		Where("user_id = ? AND album_id = ? AND activity_type = ?", userID, albumID, ActivityLikeAlbum).
		First(ctx)
	if err != nil {
		return nil, notFound(err, "album like", albumID)
	}

	return &activity, nil
}

func (r *activityRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter ActivityFilter,
) ([]*UserActivity, error) {
	log := r.log.Function("List")

	query := gorm.G[*UserActivity](tx).Order("timestamp DESC").Order("id DESC")
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.ActivityType != nil {
		query = query.Where("activity_type = ?", *filter.ActivityType)
	}
	if filter.From != nil {
		query = query.Where("timestamp >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where("timestamp <= ?", filter.To.UTC())
	}
	if filter.MinDuration != nil {
		query = query.Where("duration >= ?", *filter.MinDuration)
	}
	if filter.MaxDuration != nil {
		query = query.Where("duration <= ?", *filter.MaxDuration)
	}

	activities, err := query.Limit(clampLimit(filter.Limit)).Offset(filter.Offset).Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list activities", err)
	}

	return activities, nil
}

func (r *activityRepository) ListAllByUser(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) ([]*UserActivity, error) {
	log := r.log.Function("ListAllByUser")

	activities, err := gorm.G[*UserActivity](tx).Where("user_id = ?", userID).Order("timestamp ASC").Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list user activities", err, "userID", userID)
	}

	return activities, nil
}

// Delete reports whether a row was removed so callers only reverse counters
// for a delete that actually happened.
func (r *activityRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
	log := r.log.Function("Delete")

	rows, err := gorm.G[UserActivity](tx).Where("id = ?", id).Delete(ctx)
	if err != nil {
		return false, log.Err("failed to delete activity", err, "activityID", id)
	}

	return rows > 0, nil
}

func (r *activityRepository) HasPlayedTrack(
	ctx context.Context,
	tx *gorm.DB,
	userID, trackID uuid.UUID,
) (bool, error) {
	var count int64
	if err := tx.WithContext(ctx).
		Model(&UserActivity{}).
		Where("user_id = ? AND track_id = ? AND activity_type = ?", userID, trackID, ActivityPlay).
		Count(&count).Error; err != nil {
		return false, r.log.Function("HasPlayedTrack").Err("failed to check track play", err)
	}

	return count > 0, nil
}

func (r *activityRepository) HasPlayedAlbum(
	ctx context.Context,
	tx *gorm.DB,
	userID, albumID uuid.UUID,
) (bool, error) {
	var count int64
	if err := tx.WithContext(ctx).
		Model(&UserActivity{}).
		Joins("JOIN tracks ON tracks.id = user_activities.track_id").
		Where("user_activities.user_id = ? AND user_activities.activity_type = ?", userID, ActivityPlay).
		Where("tracks.album_id = ?", albumID).
		Count(&count).Error; err != nil {
		return false, r.log.Function("HasPlayedAlbum").Err("failed to check album play", err)
	}

	return count > 0, nil
}

func (r *activityRepository) CountForTrack(
	ctx context.Context,
	tx *gorm.DB,
	trackID uuid.UUID,
	activityType ActivityType,
) (int64, error) {
	var count int64
	if err := tx.WithContext(ctx).
		Model(&UserActivity{}).
		Where("track_id = ? AND activity_type = ?", trackID, activityType).
		Count(&count).Error; err != nil {
		return 0, r.log.Function("CountForTrack").Err("failed to count track activities", err)
	}

	return count, nil
}

func (r *activityRepository) DeleteForTrack(ctx context.Context, tx *gorm.DB, trackID uuid.UUID) error {
	if _, err := gorm.G[UserActivity](tx).Where("track_id = ?", trackID).Delete(ctx); err != nil {
		return r.log.Function("DeleteForTrack").Err("failed to delete track activities", err, "trackID", trackID)
	}

	return nil
}

func (r *activityRepository) DeleteForAlbum(ctx context.Context, tx *gorm.DB, albumID uuid.UUID) error {
	if _, err := gorm.G[UserActivity](tx).Where("album_id = ?", albumID).Delete(ctx); err != nil {
		return r.log.Function("DeleteForAlbum").Err("failed to delete album activities", err, "albumID", albumID)
	}

	return nil
}

func (r *activityRepository) DeleteForPlaylist(ctx context.Context, tx *gorm.DB, playlistID uuid.UUID) error {
	if _, err := gorm.G[UserActivity](tx).Where("playlist_id = ?", playlistID).Delete(ctx); err != nil {
		return r.log.Function("DeleteForPlaylist").
			Err("failed to delete playlist activities", err, "playlistID", playlistID)
	}

	return nil
}

func (r *activityRepository) DeleteForArtist(ctx context.Context, tx *gorm.DB, artistID uuid.UUID) error {
	if _, err := gorm.G[UserActivity](tx).Where("artist_id = ?", artistID).Delete(ctx); err != nil {
		return r.log.Function("DeleteForArtist").Err("failed to delete artist activities", err, "artistID", artistID)
	}

	return nil
}

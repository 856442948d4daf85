package repositories

import (
	"context"
	"database/sql"
	. "kaudio/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	CreateTrackReview(ctx context.Context, tx *gorm.DB, review *TrackReview) error
	GetTrackReview(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*TrackReview, error)
	TrackReviewExists(ctx context.Context, tx *gorm.DB, userID, trackID uuid.UUID) (bool, error)
	ListTrackReviews(ctx context.Context, tx *gorm.DB, trackID uuid.UUID) ([]*TrackReview, error)
	UpdateTrackReview(ctx context.Context, tx *gorm.DB, review *TrackReview) error
	DeleteTrackReview(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	AverageTrackRating(ctx context.Context, tx *gorm.DB, trackID uuid.UUID) (*float64, error)
	DeleteForTrack(ctx context.Context, tx *gorm.DB, trackID uuid.UUID) error

	CreateAlbumReview(ctx context.Context, tx *gorm.DB, review *AlbumReview) error
	GetAlbumReview(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*AlbumReview, error)
	AlbumReviewExists(ctx context.Context, tx *gorm.DB, userID, albumID uuid.UUID) (bool, error)
	ListAlbumReviews(ctx context.Context, tx *gorm.DB, albumID uuid.UUID) ([]*AlbumReview, error)
	UpdateAlbumReview(ctx context.Context, tx *gorm.DB, review *AlbumReview) error
	DeleteAlbumReview(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	AverageAlbumRating(ctx context.Context, tx *gorm.DB, albumID uuid.UUID) (*float64, error)
	DeleteForAlbum(ctx context.Context, tx *gorm.DB, albumID uuid.UUID) error

	// DeleteByUser removes every review written by the user and returns the
	// tracks whose rating must be recalculated.
	DeleteByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error)
}

type reviewRepository struct {
	log logger.Logger
}

func NewReviewRepository() ReviewRepository {
	return &reviewRepository{
		log: logger.New("reviewRepository"),
	}
}

func (r *reviewRepository) CreateTrackReview(ctx context.Context, tx *gorm.DB, review *TrackReview) error {
	log := r.log.Function("CreateTrackReview")

	if err := gorm.G[TrackReview](tx).Create(ctx, review); err != nil {
		return log.Err("failed to create track review", err, "trackID", review.TrackID)
	}

	return nil
}

func (r *reviewRepository) GetTrackReview(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*TrackReview, error) {
	review, err := gorm.G[TrackReview](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, notFound(err, "track review", id)
	}

	return &review, nil
}

func (r *reviewRepository) TrackReviewExists(
	ctx context.Context,
	tx *gorm.DB,
	userID, trackID uuid.UUID,
) (bool, error) {
	return r.exists(ctx, tx, &TrackReview{}, "track_id", userID, trackID)
}

func (r *reviewRepository) ListTrackReviews(
	ctx context.Context,
	tx *gorm.DB,
	trackID uuid.UUID,
) ([]*TrackReview, error) {
	log := r.log.Function("ListTrackReviews")

	reviews, err := gorm.G[*TrackReview](tx).
		Preload("User", nil).
		Where("track_id = ?", trackID).
		Order("created_at DESC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list track reviews", err, "trackID", trackID)
	}

	return reviews, nil
}

func (r *reviewRepository) UpdateTrackReview(ctx context.Context, tx *gorm.DB, review *TrackReview) error {
	return r.update(ctx, tx, &TrackReview{}, review.ID, review.Rating, review.Text)
}

func (r *reviewRepository) DeleteTrackReview(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	rows, err := gorm.G[TrackReview](tx).Where("id = ?", id).Delete(ctx)
	if err != nil {
		return r.log.Function("DeleteTrackReview").Err("failed to delete track review", err, "reviewID", id)
	}
	if rows == 0 {
		return notFound(gorm.ErrRecordNotFound, "track review", id)
	}

	return nil
}

func (r *reviewRepository) AverageTrackRating(
	ctx context.Context,
	tx *gorm.DB,
	trackID uuid.UUID,
) (*float64, error) {
	return r.average(ctx, tx, &TrackReview{}, "track_id", trackID)
}

func (r *reviewRepository) DeleteForTrack(ctx context.Context, tx *gorm.DB, trackID uuid.UUID) error {
	if _, err := gorm.G[TrackReview](tx).Where("track_id = ?", trackID).Delete(ctx); err != nil {
		return r.log.Function("DeleteForTrack").Err("failed to delete track reviews", err, "trackID", trackID)
	}

	return nil
}

func (r *reviewRepository) CreateAlbumReview(ctx context.Context, tx *gorm.DB, review *AlbumReview) error {
	log := r.log.Function("CreateAlbumReview")

	if err := gorm.G[AlbumReview](tx).Create(ctx, review); err != nil {
		return log.Err("failed to create album review", err, "albumID", review.AlbumID)
	}

	return nil
}

func (r *reviewRepository) GetAlbumReview(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*AlbumReview, error) {
	review, err := gorm.G[AlbumReview](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, notFound(err, "album review", id)
	}

	return &review, nil
}

func (r *reviewRepository) AlbumReviewExists(
	ctx context.Context,
	tx *gorm.DB,
	userID, albumID uuid.UUID,
) (bool, error) {
	return r.exists(ctx, tx, &AlbumReview{}, "album_id", userID, albumID)
}

func (r *reviewRepository) ListAlbumReviews(
	ctx context.Context,
	tx *gorm.DB,
	albumID uuid.UUID,
) ([]*AlbumReview, error) {
	log := r.log.Function("ListAlbumReviews")

	reviews, err := gorm.G[*AlbumReview](tx).
		Preload("User", nil).
		Where("album_id = ?", albumID).
		Order("created_at DESC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list album reviews", err, "albumID", albumID)
	}

	return reviews, nil
}

func (r *reviewRepository) UpdateAlbumReview(ctx context.Context, tx *gorm.DB, review *AlbumReview) error {
	return r.update(ctx, tx, &AlbumReview{}, review.ID, review.Rating, review.Text)
}

func (r *reviewRepository) DeleteAlbumReview(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	rows, err := gorm.G[AlbumReview](tx).Where("id = ?", id).Delete(ctx)
	if err != nil {
		return r.log.Function("DeleteAlbumReview").Err("failed to delete album review", err, "reviewID", id)
	}
	if rows == 0 {
		return notFound(gorm.ErrRecordNotFound, "album review", id)
	}

	return nil
}

func (r *reviewRepository) AverageAlbumRating(
	ctx context.Context,
	tx *gorm.DB,
	albumID uuid.UUID,
) (*float64, error) {
	return r.average(ctx, tx, &AlbumReview{}, "album_id", albumID)
}

func (r *reviewRepository) DeleteForAlbum(ctx context.Context, tx *gorm.DB, albumID uuid.UUID) error {
	if _, err := gorm.G[AlbumReview](tx).Where("album_id = ?", albumID).Delete(ctx); err != nil {
		return r.log.Function("DeleteForAlbum").Err("failed to delete album reviews", err, "albumID", albumID)
	}

	return nil
}

func (r *reviewRepository) DeleteByUser(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) ([]uuid.UUID, error) {
	log := r.log.Function("DeleteByUser")

	var trackIDs []uuid.UUID
	if err := tx.WithContext(ctx).
		Model(&TrackReview{}).
		Where("user_id = ?", userID).
		Pluck("track_id", &trackIDs).Error; err != nil {
		return nil, log.Err("failed to find reviewed tracks", err, "userID", userID)
	}

	if _, err := gorm.G[TrackReview](tx).Where("user_id = ?", userID).Delete(ctx); err != nil {
		return nil, log.Err("failed to delete track reviews", err, "userID", userID)
	}
	if _, err := gorm.G[AlbumReview](tx).Where("user_id = ?", userID).Delete(ctx); err != nil {
		return nil, log.Err("failed to delete album reviews", err, "userID", userID)
	}

	return trackIDs, nil
}

func (r *reviewRepository) exists(
	ctx context.Context,
	tx *gorm.DB,
	model any,
	targetColumn string,
	userID, targetID uuid.UUID,
) (bool, error) {
	var count int64
	if err := tx.WithContext(ctx).
		Model(model).
		Where("user_id = ?", userID).
		Where(targetColumn+" = ?", targetID).
		Count(&count).Error; err != nil {
		return false, r.log.Function("exists").Err("failed to check review", err, "targetID", targetID)
	}

	return count > 0, nil
}

func (r *reviewRepository) update(
	ctx context.Context,
	tx *gorm.DB,
	model any,
	id uuid.UUID,
	rating int,
	text string,
) error {
	if err := tx.WithContext(ctx).
		Model(model).
		Where("id = ?", id).
		Updates(map[string]any{"rating": rating, "text": text}).Error; err != nil {
		return r.log.Function("update").Err("failed to update review", err, "reviewID", id)
	}

	return nil
}

// average returns nil when the target has no reviews.
func (r *reviewRepository) average(
	ctx context.Context,
	tx *gorm.DB,
	model any,
	targetColumn string,
	targetID uuid.UUID,
) (*float64, error) {
	var avg sql.NullFloat64
	if err := tx.WithContext(ctx).
		Model(model).
		Select("AVG(rating)").
		Where(targetColumn+" = ?", targetID).
		Row().
		Scan(&avg); err != nil {
		return nil, r.log.Function("average").Err("failed to average ratings", err, "targetID", targetID)
	}

	if !avg.Valid {
		return nil, nil
	}

	return &avg.Float64, nil
}

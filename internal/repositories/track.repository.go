package repositories

import (
	"context"
	. "kaudio/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TrackRepository interface {
	Create(ctx context.Context, tx *gorm.DB, track *Track) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Track, error)
	GetWithRelations(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Track, error)
	List(ctx context.Context, tx *gorm.DB, filter TrackFilter) ([]*Track, error)
	ListByAlbum(ctx context.Context, tx *gorm.DB, albumID uuid.UUID) ([]*Track, error)
	ListByArtist(ctx context.Context, tx *gorm.DB, artistID uuid.UUID) ([]*Track, error)
	ListIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error)
	ListLikedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*Track, error)
	TitleTaken(ctx context.Context, tx *gorm.DB, albumID uuid.UUID, title string, excludeID uuid.UUID) (bool, error)
	NumberTaken(ctx context.Context, tx *gorm.DB, albumID uuid.UUID, number int, excludeID uuid.UUID) (bool, error)
	Update(ctx context.Context, tx *gorm.DB, track *Track) error
	SetExplicit(ctx context.Context, tx *gorm.DB, id uuid.UUID, explicit bool) error
	SetAvgRating(ctx context.Context, tx *gorm.DB, id uuid.UUID, rating *decimal.Decimal) error
	SetGenres(ctx context.Context, tx *gorm.DB, trackID uuid.UUID, genreIDs []uuid.UUID) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type trackRepository struct {
	log logger.Logger
}

func NewTrackRepository() TrackRepository {
	return &trackRepository{
		log: logger.New("trackRepository"),
	}
}

func (r *trackRepository) Create(ctx context.Context, tx *gorm.DB, track *Track) error {
	log := r.log.Function("Create")

	if err := gorm.G[Track](tx).Create(ctx, track); err != nil {
		return log.Err("failed to create track", err, "title", track.Title)
	}

	return nil
}

func (r *trackRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Track, error) {
	track, err := gorm.G[Track](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, notFound(err, "track", id)
	}

	return &track, nil
}

func (r *trackRepository) GetWithRelations(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Track, error) {
	track, err := gorm.G[Track](tx).
		Preload("Artist", nil).
		Preload("Album", nil).
		Preload("Genres", nil).
		Where("id = ?", id).
		First(ctx)
	if err != nil {
		return nil, notFound(err, "track", id)
	}

	return &track, nil
}

func (r *trackRepository) List(ctx context.Context, tx *gorm.DB, filter TrackFilter) ([]*Track, error) {
	log := r.log.Function("List")

	if err := filter.validate(); err != nil {
		return nil, err
	}

	query := tx.WithContext(ctx).Model(&Track{})
	if filter.AlbumID != nil {
		query = query.Where("tracks.album_id = ?", *filter.AlbumID)
	}
	if filter.ArtistID != nil {
		query = query.Where("tracks.artist_id = ?", *filter.ArtistID)
	}
	if filter.GenreID != nil {
		query = query.
			Joins("JOIN track_genres ON track_genres.track_id = tracks.id").
			Where("track_genres.genre_id = ?", *filter.GenreID)
	}
	if filter.IsExplicit != nil {
		query = query.Where("tracks.is_explicit = ?", *filter.IsExplicit)
	}
	query = whereContains(query, "tracks.title", filter.Title)
	query = whereYear(query, "tracks.release_date", filter.Year)
	query = whereBetween(query, "tracks.duration", filter.MinDuration, filter.MaxDuration)
	query = whereBetween(query, "tracks.avg_rating", filter.MinRating, filter.MaxRating)

	query, err := orderBy(query, filter.Ordering, trackOrderings, "tracks.title ASC", "tracks.id")
	if err != nil {
		return nil, err
	}

	var tracks []*Track
	if err := query.
		Limit(clampLimit(filter.Limit)).
		Offset(filter.Offset).
		Find(&tracks).Error; err != nil {
		return nil, log.Err("failed to list tracks", err)
	}

	return tracks, nil
}

func (r *trackRepository) ListByAlbum(
	ctx context.Context,
	tx *gorm.DB,
	albumID uuid.UUID,
) ([]*Track, error) {
	log := r.log.Function("ListByAlbum")

	tracks, err := gorm.G[*Track](tx).
		Where("album_id = ?", albumID).
		Order("track_number ASC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list album tracks", err, "albumID", albumID)
	}

	return tracks, nil
}

func (r *trackRepository) ListByArtist(
	ctx context.Context,
	tx *gorm.DB,
	artistID uuid.UUID,
) ([]*Track, error) {
	log := r.log.Function("ListByArtist")

	tracks, err := gorm.G[*Track](tx).
		Where("artist_id = ?", artistID).
		Order("created_at ASC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list artist tracks", err, "artistID", artistID)
	}

	return tracks, nil
}

func (r *trackRepository) ListIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error) {
	log := r.log.Function("ListIDs")

	var ids []uuid.UUID
	if err := tx.WithContext(ctx).Model(&Track{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, log.Err("failed to list track ids", err)
	}

	return ids, nil
}

// ListLikedByUser returns each liked track once, most recently liked first.
func (r *trackRepository) ListLikedByUser(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) ([]*Track, error) {
	log := r.log.Function("ListLikedByUser")

	var tracks []*Track
	if err := tx.WithContext(ctx).
		Model(&Track{}).
		Joins(`JOIN (
			SELECT track_id, MAX(timestamp) AS liked_at
			FROM user_activities
			WHERE user_id = ? AND activity_type = ?
			GROUP BY track_id
		) liked ON liked.track_id = tracks.id`, userID, ActivityLike).
		Order("liked.liked_at DESC").
		Find(&tracks).Error; err != nil {
		return nil, log.Err("failed to list liked tracks", err, "userID", userID)
	}

	return tracks, nil
}

func (r *trackRepository) TitleTaken(
	ctx context.Context,
	tx *gorm.DB,
	albumID uuid.UUID,
	title string,
	excludeID uuid.UUID,
) (bool, error) {
	count, err := gorm.G[Track](tx).
		Where("album_id = ? AND title = ? AND id <> ?", albumID, title, excludeID).
		Count(ctx, "id")
	if err != nil {
		return false, r.log.Function("TitleTaken").Err("failed to check track title", err)
	}

	return count > 0, nil
}

func (r *trackRepository) NumberTaken(
	ctx context.Context,
	tx *gorm.DB,
	albumID uuid.UUID,
	number int,
	excludeID uuid.UUID,
) (bool, error) {
	count, err := gorm.G[Track](tx).
		Where("album_id = ? AND track_number = ? AND id <> ?", albumID, number, excludeID).
		Count(ctx, "id")
	if err != nil {
		return false, r.log.Function("NumberTaken").Err("failed to check track number", err)
	}

	return count > 0, nil
}

// Update writes the editable columns. Album and artist are fixed after create
// and counters are owned by the counter repository.
func (r *trackRepository) Update(ctx context.Context, tx *gorm.DB, track *Track) error {
	log := r.log.Function("Update")

	if err := tx.WithContext(ctx).
		Model(&Track{}).
		Where("id = ?", track.ID).
		Updates(map[string]any{
			"title":        track.Title,
			"track_number": track.TrackNumber,
			"release_date": track.ReleaseDate,
			"img_url":      track.ImgURL,
			"duration":     track.Duration,
			"is_explicit":  track.IsExplicit,
			"lyrics":       track.Lyrics,
		}).Error; err != nil {
		return log.Err("failed to update track", err, "trackID", track.ID)
	}

	return nil
}

func (r *trackRepository) SetExplicit(ctx context.Context, tx *gorm.DB, id uuid.UUID, explicit bool) error {
	log := r.log.Function("SetExplicit")

	result := tx.WithContext(ctx).
		Model(&Track{}).
		Where("id = ?", id).
		UpdateColumn("is_explicit", explicit)
	if result.Error != nil {
		return log.Err("failed to set explicit flag", result.Error, "trackID", id)
	}
	if result.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "track", id)
	}

	return nil
}

func (r *trackRepository) SetAvgRating(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	rating *decimal.Decimal,
) error {
	log := r.log.Function("SetAvgRating")

	if err := tx.WithContext(ctx).
		Model(&Track{}).
		Where("id = ?", id).
		UpdateColumn("avg_rating", rating).Error; err != nil {
		return log.Err("failed to set average rating", err, "trackID", id)
	}

	return nil
}

func (r *trackRepository) SetGenres(
	ctx context.Context,
	tx *gorm.DB,
	trackID uuid.UUID,
	genreIDs []uuid.UUID,
) error {
	log := r.log.Function("SetGenres")

	if _, err := gorm.G[TrackGenre](tx).Where("track_id = ?", trackID).Delete(ctx); err != nil {
		return log.Err("failed to clear track genres", err, "trackID", trackID)
	}

	if len(genreIDs) == 0 {
		return nil
	}

	links := make([]TrackGenre, 0, len(genreIDs))
	for _, genreID := range genreIDs {
		links = append(links, TrackGenre{TrackID: trackID, GenreID: genreID})
	}

	if err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&links).Error; err != nil {
		return log.Err("failed to set track genres", err, "trackID", trackID)
	}

	return nil
}

func (r *trackRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := r.log.Function("Delete")

	if _, err := gorm.G[TrackGenre](tx).Where("track_id = ?", id).Delete(ctx); err != nil {
		return log.Err("failed to delete track genres", err, "trackID", id)
	}

	rows, err := gorm.G[Track](tx).Where("id = ?", id).Delete(ctx)
	if err != nil {
		return log.Err("failed to delete track", err, "trackID", id)
	}
	if rows == 0 {
		return notFound(gorm.ErrRecordNotFound, "track", id)
	}

	return nil
}

package repositories

import (
	"context"
	. "kaudio/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AlbumRepository interface {
	Create(ctx context.Context, tx *gorm.DB, album *Album) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Album, error)
	GetWithTracks(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Album, error)
	ListByArtist(ctx context.Context, tx *gorm.DB, artistID uuid.UUID) ([]*Album, error)
	List(ctx context.Context, tx *gorm.DB, filter AlbumFilter) ([]*Album, error)
	ListIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error)
	Update(ctx context.Context, tx *gorm.DB, album *Album) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	SetGenres(ctx context.Context, tx *gorm.DB, albumID uuid.UUID, genreIDs []uuid.UUID) error
}

type albumRepository struct {
	log logger.Logger
}

func NewAlbumRepository() AlbumRepository {
	return &albumRepository{
		log: logger.New("albumRepository"),
	}
}

func (r *albumRepository) Create(ctx context.Context, tx *gorm.DB, album *Album) error {
	log := r.log.Function("Create")

	if err := gorm.G[Album](tx).Create(ctx, album); err != nil {
		return log.Err("failed to create album", err, "title", album.Title)
	}

	return nil
}

func (r *albumRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Album, error) {
	album, err := gorm.G[Album](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, notFound(err, "album", id)
	}

	return &album, nil
}

func (r *albumRepository) GetWithTracks(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Album, error) {
	var album Album
	if err := tx.WithContext(ctx).
		Preload("Artist").
		Preload("Genres").
		Preload("Tracks", func(db *gorm.DB) *gorm.DB {
			return db.Order("track_number ASC")
		}).
		First(&album, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "album", id)
	}

	return &album, nil
}

func (r *albumRepository) ListByArtist(
	ctx context.Context,
	tx *gorm.DB,
	artistID uuid.UUID,
) ([]*Album, error) {
	log := r.log.Function("ListByArtist")

	albums, err := gorm.G[*Album](tx).
		Where("artist_id = ?", artistID).
		Order("release_date DESC, title ASC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list albums", err, "artistID", artistID)
	}

	return albums, nil
}

func (r *albumRepository) List(ctx context.Context, tx *gorm.DB, filter AlbumFilter) ([]*Album, error) {
	log := r.log.Function("List")

	if err := filter.validate(); err != nil {
		return nil, err
	}

	query := tx.WithContext(ctx).Model(&Album{})
	if filter.ArtistID != nil {
		query = query.Where("albums.artist_id = ?", *filter.ArtistID)
	}
	if filter.GenreID != nil {
		query = query.
			Joins("JOIN album_genres ON album_genres.album_id = albums.id").
			Where("album_genres.genre_id = ?", *filter.GenreID)
	}
	query = whereContains(query, "albums.title", filter.Title)
	query = whereYear(query, "albums.release_date", filter.Year)
	query = whereBetween(query, "albums.total_tracks", filter.MinTracks, filter.MaxTracks)
	query = whereBetween(query, "albums.total_duration", filter.MinDuration, filter.MaxDuration)

	query, err := orderBy(query, filter.Ordering, albumOrderings, "albums.title ASC", "albums.id")
	if err != nil {
		return nil, err
	}

	var albums []*Album
	if err := query.
		Limit(clampLimit(filter.Limit)).
		Offset(filter.Offset).
		Find(&albums).Error; err != nil {
		return nil, log.Err("failed to list albums", err)
	}

	return albums, nil
}

func (r *albumRepository) ListIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error) {
	log := r.log.Function("ListIDs")

	var ids []uuid.UUID
	if err := tx.WithContext(ctx).Model(&Album{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, log.Err("failed to list album ids", err)
	}

	return ids, nil
}

// Update writes the descriptive columns only. Counters are owned by the
// counter repository.
func (r *albumRepository) Update(ctx context.Context, tx *gorm.DB, album *Album) error {
	log := r.log.Function("Update")

	if err := tx.WithContext(ctx).
		Model(&Album{}).
		Where("id = ?", album.ID).
		Updates(map[string]any{
			"title":        album.Title,
			"release_date": album.ReleaseDate,
			"img_url":      album.ImgURL,
		}).Error; err != nil {
		return log.Err("failed to update album", err, "albumID", album.ID)
	}

	return nil
}

func (r *albumRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := r.log.Function("Delete")

	if _, err := gorm.G[AlbumGenre](tx).Where("album_id = ?", id).Delete(ctx); err != nil {
		return log.Err("failed to delete album genres", err, "albumID", id)
	}

	rows, err := gorm.G[Album](tx).Where("id = ?", id).Delete(ctx)
	if err != nil {
		return log.Err("failed to delete album", err, "albumID", id)
	}
	if rows == 0 {
		return notFound(gorm.ErrRecordNotFound, "album", id)
	}

	return nil
}

func (r *albumRepository) SetGenres(
	ctx context.Context,
	tx *gorm.DB,
	albumID uuid.UUID,
	genreIDs []uuid.UUID,
) error {
	log := r.log.Function("SetGenres")

	if _, err := gorm.G[AlbumGenre](tx).Where("album_id = ?", albumID).Delete(ctx); err != nil {
		return log.Err("failed to clear album genres", err, "albumID", albumID)
	}

	if len(genreIDs) == 0 {
		return nil
	}

	links := make([]AlbumGenre, 0, len(genreIDs))
	for _, genreID := range genreIDs {
		links = append(links, AlbumGenre{AlbumID: albumID, GenreID: genreID})
	}

	if err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&links).Error; err != nil {
		return log.Err("failed to set album genres", err, "albumID", albumID)
	}

	return nil
}

package repositories

import (
	"context"
	. "kaudio/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GenreRepository interface {
	Create(ctx context.Context, tx *gorm.DB, genre *Genre) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Genre, error)
	List(ctx context.Context, tx *gorm.DB) ([]*Genre, error)
	CountByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error)
}

type genreRepository struct {
	log logger.Logger
}

func NewGenreRepository() GenreRepository {
	return &genreRepository{
		log: logger.New("genreRepository"),
	}
}

func (r *genreRepository) Create(ctx context.Context, tx *gorm.DB, genre *Genre) error {
	log := r.log.Function("Create")

	if err := gorm.G[Genre](tx).Create(ctx, genre); err != nil {
		return log.Err("failed to create genre", err, "title", genre.Title)
	}

	return nil
}

func (r *genreRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Genre, error) {
	genre, err := gorm.G[Genre](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, notFound(err, "genre", id)
	}

	return &genre, nil
}

func (r *genreRepository) List(ctx context.Context, tx *gorm.DB) ([]*Genre, error) {
	log := r.log.Function("List")

	genres, err := gorm.G[*Genre](tx).Order("title ASC").Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list genres", err)
	}

	return genres, nil
}

func (r *genreRepository) CountByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	count, err := gorm.G[Genre](tx).Where("id IN ?", ids).Count(ctx, "id")
	if err != nil {
		return 0, r.log.Function("CountByIDs").Err("failed to count genres", err)
	}

	return count, nil
}

package repositories

import (
	"context"
	. "kaudio/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ArtistRepository interface {
	Create(ctx context.Context, tx *gorm.DB, artist *Artist) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Artist, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*Artist, error)
	List(ctx context.Context, tx *gorm.DB, filter ArtistFilter) ([]*Artist, error)
	ListIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error)
	Update(ctx context.Context, tx *gorm.DB, artist *Artist) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type artistRepository struct {
	log logger.Logger
}

func NewArtistRepository() ArtistRepository {
	return &artistRepository{
		log: logger.New("artistRepository"),
	}
}

func (r *artistRepository) Create(ctx context.Context, tx *gorm.DB, artist *Artist) error {
	log := r.log.Function("Create")

	if err := gorm.G[Artist](tx).Create(ctx, artist); err != nil {
		return log.Err("failed to create artist", err, "name", artist.Name)
	}

	return nil
}

func (r *artistRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Artist, error) {
	artist, err := gorm.G[Artist](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, notFound(err, "artist", id)
	}

	return &artist, nil
}

func (r *artistRepository) GetByUserID(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) (*Artist, error) {
	artist, err := gorm.G[Artist](tx).Where("user_id = ?", userID).First(ctx)
	if err != nil {
		return nil, notFound(err, "artist for user", userID)
	}

	return &artist, nil
}

func (r *artistRepository) List(ctx context.Context, tx *gorm.DB, filter ArtistFilter) ([]*Artist, error) {
	log := r.log.Function("List")

	if err := filter.validate(); err != nil {
		return nil, err
	}

	query := tx.WithContext(ctx).Model(&Artist{})
	if filter.IsVerified != nil {
		query = query.Where("artists.is_verified = ?", *filter.IsVerified)
	}
	query = whereContains(query, "artists.name", filter.Name)
	query = whereBetween(query, "artists.monthly_listeners", filter.MinListeners, filter.MaxListeners)

	query, err := orderBy(query, filter.Ordering, artistOrderings, "artists.name ASC", "artists.id")
	if err != nil {
		return nil, err
	}

	var artists []*Artist
	if err := query.
		Limit(clampLimit(filter.Limit)).
		Offset(filter.Offset).
		Find(&artists).Error; err != nil {
		return nil, log.Err("failed to list artists", err)
	}

	return artists, nil
}

func (r *artistRepository) ListIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error) {
	log := r.log.Function("ListIDs")

	var ids []uuid.UUID
	if err := tx.WithContext(ctx).Model(&Artist{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, log.Err("failed to list artist ids", err)
	}

	return ids, nil
}

func (r *artistRepository) Update(ctx context.Context, tx *gorm.DB, artist *Artist) error {
	log := r.log.Function("Update")

	if err := tx.WithContext(ctx).
		Model(&Artist{}).
		Where("id = ?", artist.ID).
		Updates(map[string]any{
			"name":          artist.Name,
			"bio":           artist.Bio,
			"email":         artist.Email,
			"img_cover_url": artist.ImgCoverURL,
			"is_verified":   artist.IsVerified,
		}).Error; err != nil {
		return log.Err("failed to update artist", err, "artistID", artist.ID)
	}

	return nil
}

func (r *artistRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := r.log.Function("Delete")

	rows, err := gorm.G[Artist](tx).Where("id = ?", id).Delete(ctx)
	if err != nil {
		return log.Err("failed to delete artist", err, "artistID", id)
	}
	if rows == 0 {
		return notFound(gorm.ErrRecordNotFound, "artist", id)
	}

	return nil
}

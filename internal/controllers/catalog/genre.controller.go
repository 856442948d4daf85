package catalogController

import (
	"context"
	. "kaudio/internal/models"
	"kaudio/internal/repositories"
	"kaudio/internal/types"
	"kaudio/internal/utils"

	"github.com/google/uuid"
)

type GenreRequest struct {
	Title  string `json:"title"`
	ImgURL string `json:"imgUrl"`
}

func (c *CatalogController) CreateGenre(ctx context.Context, user *User, request *GenreRequest) (*Genre, error) {
	log := c.log.Function("CreateGenre").TraceFromContext(ctx)

	if err := requireAdmin(user, "create genres"); err != nil {
		return nil, err
	}

	title, _ := utils.CleanText(request.Title)
	if title == "" {
		return nil, types.Wrap(types.ErrValidation, "genre title is required")
	}

	genre := &Genre{Title: title, ImgURL: request.ImgURL}
	if err := c.repos.Genre.Create(ctx, c.db.SQLWithContext(ctx), genre); err != nil {
		return nil, conflictOn(err, "genre %q already exists", title)
	}

	log.Info("Genre created", "genreID", genre.ID, "title", genre.Title)
	return genre, nil
}

func (c *CatalogController) GetGenre(ctx context.Context, genreID uuid.UUID) (*Genre, error) {
	return c.repos.Genre.GetByID(ctx, c.db.SQLWithContext(ctx), genreID)
}

func (c *CatalogController) ListGenres(ctx context.Context) ([]*Genre, error) {
	return c.repos.Genre.List(ctx, c.db.SQLWithContext(ctx))
}

// ListGenreAlbums lists the albums tagged with the genre. A missing genre is
// not found rather than an empty list.
func (c *CatalogController) ListGenreAlbums(
	ctx context.Context,
	genreID uuid.UUID,
	filter repositories.AlbumFilter,
) ([]*Album, error) {
	tx := c.db.SQLWithContext(ctx)
	if _, err := c.repos.Genre.GetByID(ctx, tx, genreID); err != nil {
		return nil, err
	}

	filter.GenreID = &genreID
	return c.repos.Album.List(ctx, tx, filter)
}

func (c *CatalogController) ListGenreTracks(
	ctx context.Context,
	genreID uuid.UUID,
	filter repositories.TrackFilter,
) ([]*TrackResponse, error) {
	if _, err := c.repos.Genre.GetByID(ctx, c.db.SQLWithContext(ctx), genreID); err != nil {
		return nil, err
	}

	filter.GenreID = &genreID
	return c.ListTracks(ctx, filter)
}

package catalogController

import (
	"context"
	. "kaudio/internal/models"
	"kaudio/internal/repositories"
	"kaudio/internal/types"
	"kaudio/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AlbumRequest struct {
	Title       string      `json:"title"`
	ArtistID    uuid.UUID   `json:"artistId"`
	ReleaseDate string      `json:"releaseDate"`
	ImgURL      string      `json:"imgUrl"`
	GenreIDs    []uuid.UUID `json:"genreIds"`
}

func (r *AlbumRequest) apply(album *Album) error {
	title, _ := utils.CleanText(r.Title)
	if title == "" {
		return types.Wrap(types.ErrValidation, "album title is required")
	}

	releaseDate, err := utils.ParseOptionalDate(r.ReleaseDate)
	if err != nil {
		return types.Wrap(types.ErrValidation, "invalid release date: %v", err)
	}

	album.Title = title
	album.ReleaseDate = releaseDate
	album.ImgURL = r.ImgURL
	return nil
}

func (c *CatalogController) CreateAlbum(ctx context.Context, user *User, request *AlbumRequest) (*Album, error) {
	log := c.log.Function("CreateAlbum").TraceFromContext(ctx)

	album := &Album{ArtistID: request.ArtistID}
	if err := request.apply(album); err != nil {
		return nil, err
	}

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := c.manageableArtist(ctx, tx, user, request.ArtistID); err != nil {
			return err
		}
		if err := c.checkGenres(ctx, tx, request.GenreIDs); err != nil {
			return err
		}
		if err := c.repos.Album.Create(ctx, tx, album); err != nil {
			return err
		}
		return c.repos.Album.SetGenres(ctx, tx, album.ID, request.GenreIDs)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Album created", "albumID", album.ID, "artistID", album.ArtistID)
	return album, nil
}

func (c *CatalogController) GetAlbum(ctx context.Context, albumID uuid.UUID) (*Album, error) {
	return c.repos.Album.GetWithTracks(ctx, c.db.SQLWithContext(ctx), albumID)
}

func (c *CatalogController) ListAlbums(
	ctx context.Context,
	filter repositories.AlbumFilter,
) ([]*Album, error) {
	return c.repos.Album.List(ctx, c.db.SQLWithContext(ctx), filter)
}

// manageableAlbum loads the album and checks the caller manages its artist.
func (c *CatalogController) manageableAlbum(
	ctx context.Context,
	tx *gorm.DB,
	user *User,
	albumID uuid.UUID,
) (*Album, error) {
	album, err := c.repos.Album.GetByID(ctx, tx, albumID)
	if err != nil {
		return nil, err
	}
	if _, err := c.manageableArtist(ctx, tx, user, album.ArtistID); err != nil {
		return nil, err
	}
	return album, nil
}

func (c *CatalogController) UpdateAlbum(
	ctx context.Context,
	user *User,
	albumID uuid.UUID,
	request *AlbumRequest,
) (*Album, error) {
	var album *Album
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		album, err = c.manageableAlbum(ctx, tx, user, albumID)
		if err != nil {
			return err
		}
		if err := request.apply(album); err != nil {
			return err
		}
		return c.repos.Album.Update(ctx, tx, album)
	})
	if err != nil {
		return nil, err
	}

	return album, nil
}

func (c *CatalogController) DeleteAlbum(ctx context.Context, user *User, albumID uuid.UUID) error {
	log := c.log.Function("DeleteAlbum").TraceFromContext(ctx)

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := c.manageableAlbum(ctx, tx, user, albumID); err != nil {
			return err
		}
		return c.catalogService.DeleteAlbum(ctx, tx, albumID)
	})
	if err != nil {
		return err
	}

	c.repos.Stats.InvalidateCache(ctx)
	log.Info("Album deleted", "albumID", albumID, "userID", user.ID)
	return nil
}

func (c *CatalogController) SetAlbumGenres(
	ctx context.Context,
	user *User,
	albumID uuid.UUID,
	genreIDs []uuid.UUID,
) error {
	return c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := c.manageableAlbum(ctx, tx, user, albumID); err != nil {
			return err
		}
		if err := c.checkGenres(ctx, tx, genreIDs); err != nil {
			return err
		}
		return c.repos.Album.SetGenres(ctx, tx, albumID, genreIDs)
	})
}

func (c *CatalogController) RecalculateAlbum(
	ctx context.Context,
	user *User,
	albumID uuid.UUID,
) (repositories.CollectionTotals, error) {
	if err := requireAdmin(user, "recalculate albums"); err != nil {
		return repositories.CollectionTotals{}, err
	}

	var totals repositories.CollectionTotals
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := c.repos.Album.GetByID(ctx, tx, albumID); err != nil {
			return err
		}
		var err error
		totals, err = c.counterService.RecalculateAlbum(ctx, tx, albumID)
		return err
	})

	return totals, err
}

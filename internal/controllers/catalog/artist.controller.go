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

type ArtistRequest struct {
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	Email       string `json:"email"`
	ImgCoverURL string `json:"imgCoverUrl"`
	LinkToMe    bool   `json:"linkToMe"`
}

func (r *ArtistRequest) apply(artist *Artist) error {
	name, _ := utils.CleanText(r.Name)
	if name == "" {
		return types.Wrap(types.ErrValidation, "artist name is required")
	}

	artist.Name = name
	artist.Bio, _ = utils.CleanText(r.Bio)
	artist.Email = r.Email
	artist.ImgCoverURL = r.ImgCoverURL
	return nil
}

func (c *CatalogController) CreateArtist(
	ctx context.Context,
	user *User,
	request *ArtistRequest,
) (*Artist, error) {
	log := c.log.Function("CreateArtist").TraceFromContext(ctx)

	artist := &Artist{}
	if err := request.apply(artist); err != nil {
		return nil, err
	}
	if request.LinkToMe {
		artist.UserID = &user.ID
	}

	if err := c.repos.Artist.Create(ctx, c.db.SQLWithContext(ctx), artist); err != nil {
		return nil, conflictOn(err, "user %s already has an artist profile", user.ID)
	}

	log.Info("Artist created", "artistID", artist.ID, "userID", user.ID)
	return artist, nil
}

func (c *CatalogController) GetArtist(ctx context.Context, artistID uuid.UUID) (*Artist, error) {
	return c.repos.Artist.GetByID(ctx, c.db.SQLWithContext(ctx), artistID)
}

func (c *CatalogController) ListArtists(
	ctx context.Context,
	filter repositories.ArtistFilter,
) ([]*Artist, error) {
	return c.repos.Artist.List(ctx, c.db.SQLWithContext(ctx), filter)
}

func (c *CatalogController) UpdateArtist(
	ctx context.Context,
	user *User,
	artistID uuid.UUID,
	request *ArtistRequest,
) (*Artist, error) {
	var artist *Artist
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		artist, err = c.manageableArtist(ctx, tx, user, artistID)
		if err != nil {
			return err
		}
		if err := request.apply(artist); err != nil {
			return err
		}
		return c.repos.Artist.Update(ctx, tx, artist)
	})
	if err != nil {
		return nil, err
	}

	return artist, nil
}

func (c *CatalogController) DeleteArtist(ctx context.Context, user *User, artistID uuid.UUID) error {
	log := c.log.Function("DeleteArtist").TraceFromContext(ctx)

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := c.manageableArtist(ctx, tx, user, artistID); err != nil {
			return err
		}
		return c.catalogService.DeleteArtist(ctx, tx, artistID)
	})
	if err != nil {
		return err
	}

	c.repos.Stats.InvalidateCache(ctx)
	log.Info("Artist deleted", "artistID", artistID, "userID", user.ID)
	return nil
}

func (c *CatalogController) VerifyArtist(
	ctx context.Context,
	user *User,
	artistID uuid.UUID,
	verified bool,
) (*Artist, error) {
	if err := requireAdmin(user, "verify artists"); err != nil {
		return nil, err
	}

	var artist *Artist
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		artist, err = c.repos.Artist.GetByID(ctx, tx, artistID)
		if err != nil {
			return err
		}
		artist.IsVerified = verified
		return c.repos.Artist.Update(ctx, tx, artist)
	})
	if err != nil {
		return nil, err
	}

	return artist, nil
}

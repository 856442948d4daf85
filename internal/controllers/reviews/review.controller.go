package reviewController

import (
	"context"
	"errors"
	"kaudio/config"
	"kaudio/internal/database"
	. "kaudio/internal/models"
	"kaudio/internal/repositories"
	"kaudio/internal/services"
	"kaudio/internal/types"
	"kaudio/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Kind string

const (
	KindTrack Kind = "tracks"
	KindAlbum Kind = "albums"
)

func (k Kind) Valid() bool {
	return k == KindTrack || k == KindAlbum
}

type ReviewController struct {
	repos              repositories.Repository
	transactionService *services.TransactionService
	counterService     *services.CounterService
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type ReviewRequest struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

func (r *ReviewRequest) validate() (string, error) {
	if !ValidRating(r.Rating) {
		return "", types.Wrap(types.ErrValidation, "rating must be between %d and %d", MinRating, MaxRating)
	}
	text, _ := utils.CleanText(r.Text)
	return text, nil
}

type ReviewControllerInterface interface {
	CreateTrackReview(ctx context.Context, user *User, trackID uuid.UUID, request *ReviewRequest) (*TrackReview, error)
	CreateAlbumReview(ctx context.Context, user *User, albumID uuid.UUID, request *ReviewRequest) (*AlbumReview, error)
	ListTrackReviews(ctx context.Context, trackID uuid.UUID) ([]*TrackReview, error)
	ListAlbumReviews(ctx context.Context, albumID uuid.UUID) ([]*AlbumReview, error)
	UpdateReview(ctx context.Context, user *User, kind Kind, reviewID uuid.UUID, request *ReviewRequest) (any, error)
	DeleteReview(ctx context.Context, user *User, kind Kind, reviewID uuid.UUID) error
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) ReviewControllerInterface {
	return &ReviewController{
		repos:              repos,
		transactionService: services.Transaction,
		counterService:     services.Counter,
		db:                 db,
		Config:             config,
		log:                logger.New("reviewController"),
	}
}

func duplicateReview(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return types.Wrap(types.ErrValidation, "user has already reviewed this item")
	}
	return err
}

// CreateTrackReview requires an earlier play of the track by the author and
// refreshes the track's average rating.
func (c *ReviewController) CreateTrackReview(
	ctx context.Context,
	user *User,
	trackID uuid.UUID,
	request *ReviewRequest,
) (*TrackReview, error) {
	log := c.log.Function("CreateTrackReview").TraceFromContext(ctx)

	text, err := request.validate()
	if err != nil {
		return nil, err
	}

	review := &TrackReview{UserID: user.ID, TrackID: trackID, Rating: request.Rating, Text: text}
	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := c.repos.Track.GetByID(ctx, tx, trackID); err != nil {
			return err
		}

		played, err := c.repos.Activity.HasPlayedTrack(ctx, tx, user.ID, trackID)
		if err != nil {
			return err
		}
		if !played {
			return types.Wrap(types.ErrValidation, "track must be played before it can be reviewed")
		}

		exists, err := c.repos.Review.TrackReviewExists(ctx, tx, user.ID, trackID)
		if err != nil {
			return err
		}
		if exists {
			return types.Wrap(types.ErrValidation, "user has already reviewed this track")
		}

		if err := c.repos.Review.CreateTrackReview(ctx, tx, review); err != nil {
			return err
		}

		_, err = c.counterService.RecalculateTrackRating(ctx, tx, trackID)
		return err
	})
	if err != nil {
		return nil, duplicateReview(err)
	}

	log.Info("Track review created", "reviewID", review.ID, "trackID", trackID, "userID", user.ID)
	return review, nil
}

func (c *ReviewController) CreateAlbumReview(
	ctx context.Context,
	user *User,
	albumID uuid.UUID,
	request *ReviewRequest,
) (*AlbumReview, error) {
	log := c.log.Function("CreateAlbumReview").TraceFromContext(ctx)

	text, err := request.validate()
	if err != nil {
		return nil, err
	}

	review := &AlbumReview{UserID: user.ID, AlbumID: albumID, Rating: request.Rating, Text: text}
	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := c.repos.Album.GetByID(ctx, tx, albumID); err != nil {
			return err
		}

		played, err := c.repos.Activity.HasPlayedAlbum(ctx, tx, user.ID, albumID)
		if err != nil {
			return err
		}
		if !played {
			return types.Wrap(types.ErrValidation, "a track of the album must be played before it can be reviewed")
		}

		exists, err := c.repos.Review.AlbumReviewExists(ctx, tx, user.ID, albumID)
		if err != nil {
			return err
		}
		if exists {
			return types.Wrap(types.ErrValidation, "user has already reviewed this album")
		}

		return c.repos.Review.CreateAlbumReview(ctx, tx, review)
	})
	if err != nil {
		return nil, duplicateReview(err)
	}

	log.Info("Album review created", "reviewID", review.ID, "albumID", albumID, "userID", user.ID)
	return review, nil
}

func (c *ReviewController) ListTrackReviews(ctx context.Context, trackID uuid.UUID) ([]*TrackReview, error) {
	return c.repos.Review.ListTrackReviews(ctx, c.db.SQLWithContext(ctx), trackID)
}

func (c *ReviewController) ListAlbumReviews(ctx context.Context, albumID uuid.UUID) ([]*AlbumReview, error) {
	return c.repos.Review.ListAlbumReviews(ctx, c.db.SQLWithContext(ctx), albumID)
}

func notAuthor(reviewID uuid.UUID) error {
	return types.Wrap(types.ErrPermission, "review %s was written by another user", reviewID)
}

func (c *ReviewController) UpdateReview(
	ctx context.Context,
	user *User,
	kind Kind,
	reviewID uuid.UUID,
	request *ReviewRequest,
) (any, error) {
	text, err := request.validate()
	if err != nil {
		return nil, err
	}

	var updated any
	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		switch kind {
		case KindTrack:
			review, err := c.repos.Review.GetTrackReview(ctx, tx, reviewID)
			if err != nil {
				return err
			}
			if review.UserID != user.ID {
				return notAuthor(reviewID)
			}
			review.Rating, review.Text = request.Rating, text
			if err := c.repos.Review.UpdateTrackReview(ctx, tx, review); err != nil {
				return err
			}
			updated = review
			_, err = c.counterService.RecalculateTrackRating(ctx, tx, review.TrackID)
			return err

		case KindAlbum:
			review, err := c.repos.Review.GetAlbumReview(ctx, tx, reviewID)
			if err != nil {
				return err
			}
			if review.UserID != user.ID {
				return notAuthor(reviewID)
			}
			review.Rating, review.Text = request.Rating, text
			updated = review
			return c.repos.Review.UpdateAlbumReview(ctx, tx, review)
		}

		return types.Wrap(types.ErrValidation, "unknown review kind %q", kind)
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (c *ReviewController) DeleteReview(ctx context.Context, user *User, kind Kind, reviewID uuid.UUID) error {
	return c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		switch kind {
		case KindTrack:
			review, err := c.repos.Review.GetTrackReview(ctx, tx, reviewID)
			if err != nil {
				return err
			}
			if review.UserID != user.ID {
				return notAuthor(reviewID)
			}
			if err := c.repos.Review.DeleteTrackReview(ctx, tx, reviewID); err != nil {
				return err
			}
			_, err = c.counterService.RecalculateTrackRating(ctx, tx, review.TrackID)
			return err

		case KindAlbum:
			review, err := c.repos.Review.GetAlbumReview(ctx, tx, reviewID)
			if err != nil {
				return err
			}
			if review.UserID != user.ID {
				return notAuthor(reviewID)
			}
			return c.repos.Review.DeleteAlbumReview(ctx, tx, reviewID)
		}

		return types.Wrap(types.ErrValidation, "unknown review kind %q", kind)
	})
}

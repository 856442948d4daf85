package libraryController

import (
	"context"
	"errors"
	"kaudio/config"
	"kaudio/internal/database"
	. "kaudio/internal/models"
	"kaudio/internal/repositories"
	"kaudio/internal/services"
	"kaudio/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LibraryController struct {
	repos              repositories.Repository
	transactionService *services.TransactionService
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type LibraryControllerInterface interface {
	ListAlbums(ctx context.Context, user *User) ([]*UserAlbum, error)
	AddAlbum(ctx context.Context, user *User, albumID uuid.UUID) (*UserAlbum, error)
	RemoveAlbum(ctx context.Context, user *User, albumID uuid.UUID) error
	MoveAlbum(ctx context.Context, user *User, albumID uuid.UUID, position int) (int, error)

	ListTracks(ctx context.Context, user *User) ([]*UserTrack, error)
	AddTrack(ctx context.Context, user *User, trackID uuid.UUID) (*UserTrack, error)
	RemoveTrack(ctx context.Context, user *User, trackID uuid.UUID) error
	MoveTrack(ctx context.Context, user *User, trackID uuid.UUID, position int) (int, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) LibraryControllerInterface {
	return &LibraryController{
		repos:              repos,
		transactionService: services.Transaction,
		db:                 db,
		Config:             config,
		log:                logger.New("libraryController"),
	}
}

func (c *LibraryController) ListAlbums(ctx context.Context, user *User) ([]*UserAlbum, error) {
	return c.repos.Library.ListAlbums(ctx, c.db.SQLWithContext(ctx), user.ID)
}

func (c *LibraryController) AddAlbum(ctx context.Context, user *User, albumID uuid.UUID) (*UserAlbum, error) {
	log := c.log.Function("AddAlbum").TraceFromContext(ctx)

	entry := &UserAlbum{UserID: user.ID, AlbumID: albumID}
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := c.lockLibrary(ctx, tx, user); err != nil {
			return err
		}
		if _, err := c.repos.Album.GetByID(ctx, tx, albumID); err != nil {
			return err
		}

		present, err := c.repos.Library.HasAlbum(ctx, tx, user.ID, albumID)
		if err != nil {
			return err
		}
		if present {
			return types.Wrap(types.ErrConflict, "album %s is already in the library", albumID)
		}

		entry.Position, err = c.repos.Position.Next(ctx, tx, repositories.LibraryAlbumScope(user.ID))
		if err != nil {
			return err
		}

		return c.repos.Library.AddAlbum(ctx, tx, entry)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, types.Wrap(types.ErrConflict, "album %s is already in the library", albumID)
		}
		return nil, err
	}

	log.Info("Album added to library", "userID", user.ID, "albumID", albumID, "position", entry.Position)
	return entry, nil
}

func (c *LibraryController) RemoveAlbum(ctx context.Context, user *User, albumID uuid.UUID) error {
	return c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := c.lockLibrary(ctx, tx, user); err != nil {
			return err
		}
		removed, err := c.repos.Library.RemoveAlbum(ctx, tx, user.ID, albumID)
		if err != nil {
			return err
		}
		if !removed {
			return types.Wrap(types.ErrNotFound, "album %s is not in the library", albumID)
		}
		return c.repos.Position.Compact(ctx, tx, repositories.LibraryAlbumScope(user.ID))
	})
}

func (c *LibraryController) MoveAlbum(
	ctx context.Context,
	user *User,
	albumID uuid.UUID,
	position int,
) (int, error) {
	var final int
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := c.lockLibrary(ctx, tx, user); err != nil {
			return err
		}
		var err error
		final, err = c.repos.Position.Move(ctx, tx, repositories.LibraryAlbumScope(user.ID), albumID, position)
		return err
	})
	return final, err
}

func (c *LibraryController) ListTracks(ctx context.Context, user *User) ([]*UserTrack, error) {
	return c.repos.Library.ListTracks(ctx, c.db.SQLWithContext(ctx), user.ID)
}

func (c *LibraryController) AddTrack(ctx context.Context, user *User, trackID uuid.UUID) (*UserTrack, error) {
	log := c.log.Function("AddTrack").TraceFromContext(ctx)

	entry := &UserTrack{UserID: user.ID, TrackID: trackID}
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := c.lockLibrary(ctx, tx, user); err != nil {
			return err
		}
		if _, err := c.repos.Track.GetByID(ctx, tx, trackID); err != nil {
			return err
		}

		present, err := c.repos.Library.HasTrack(ctx, tx, user.ID, trackID)
		if err != nil {
			return err
		}
		if present {
			return types.Wrap(types.ErrConflict, "track %s is already in the library", trackID)
		}

		entry.Position, err = c.repos.Position.Next(ctx, tx, repositories.LibraryTrackScope(user.ID))
		if err != nil {
			return err
		}

		return c.repos.Library.AddTrack(ctx, tx, entry)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, types.Wrap(types.ErrConflict, "track %s is already in the library", trackID)
		}
		return nil, err
	}

	log.Info("Track added to library", "userID", user.ID, "trackID", trackID, "position", entry.Position)
	return entry, nil
}

func (c *LibraryController) RemoveTrack(ctx context.Context, user *User, trackID uuid.UUID) error {
	return c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := c.lockLibrary(ctx, tx, user); err != nil {
			return err
		}
		removed, err := c.repos.Library.RemoveTrack(ctx, tx, user.ID, trackID)
		if err != nil {
			return err
		}
		if !removed {
			return types.Wrap(types.ErrNotFound, "track %s is not in the library", trackID)
		}
		return c.repos.Position.Compact(ctx, tx, repositories.LibraryTrackScope(user.ID))
	})
}

func (c *LibraryController) MoveTrack(
	ctx context.Context,
	user *User,
	trackID uuid.UUID,
	position int,
) (int, error) {
	var final int
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := c.lockLibrary(ctx, tx, user); err != nil {
			return err
		}
		var err error
		final, err = c.repos.Position.Move(ctx, tx, repositories.LibraryTrackScope(user.ID), trackID, position)
		return err
	})
	return final, err
}

// lockLibrary serializes every library write of one user on the user row so
// concurrent adds cannot read the same next position.
func (c *LibraryController) lockLibrary(ctx context.Context, tx *gorm.DB, user *User) error {
	_, err := c.repos.User.GetForUpdate(ctx, tx, user.ID)
	return err
}

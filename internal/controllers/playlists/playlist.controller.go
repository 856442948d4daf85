package playlistController

import (
	"context"
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

type PlaylistController struct {
	repos              repositories.Repository
	transactionService *services.TransactionService
	activityService    *services.ActivityService
	catalogService     *services.CatalogService
	counterService     *services.CounterService
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type CreatePlaylistRequest struct {
	Title    string `json:"title"`
	ImgURL   string `json:"imgUrl"`
	IsPublic bool   `json:"isPublic"`
}

type UpdatePlaylistRequest struct {
	Title  *string `json:"title,omitempty"`
	ImgURL *string `json:"imgUrl,omitempty"`
}

type PlaylistControllerInterface interface {
	Create(ctx context.Context, user *User, request *CreatePlaylistRequest) (*Playlist, error)
	Get(ctx context.Context, user *User, playlistID uuid.UUID) (*Playlist, error)
	ListVisible(ctx context.Context, user *User, filter repositories.PlaylistFilter) ([]*Playlist, error)
	ListByOwner(ctx context.Context, user *User, ownerID uuid.UUID, filter repositories.PlaylistFilter) ([]*Playlist, error)
	ListMine(ctx context.Context, user *User) ([]*Playlist, error)
	Update(ctx context.Context, user *User, playlistID uuid.UUID, request *UpdatePlaylistRequest) (*Playlist, error)
	SetVisibility(ctx context.Context, user *User, playlistID uuid.UUID, public bool) (*Playlist, error)
	Delete(ctx context.Context, user *User, playlistID uuid.UUID) error

	AddTrack(ctx context.Context, user *User, playlistID, trackID uuid.UUID) (*UserActivity, error)
	RemoveTrack(ctx context.Context, user *User, playlistID, trackID uuid.UUID) (*UserActivity, error)
	MoveTrack(ctx context.Context, user *User, playlistID, trackID uuid.UUID, position int) (int, error)
	Recalculate(ctx context.Context, user *User, playlistID uuid.UUID) (repositories.CollectionTotals, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) PlaylistControllerInterface {
	return &PlaylistController{
		repos:              repos,
		transactionService: services.Transaction,
		activityService:    services.Activity,
		catalogService:     services.Catalog,
		counterService:     services.Counter,
		db:                 db,
		Config:             config,
		log:                logger.New("playlistController"),
	}
}

func (c *PlaylistController) Create(
	ctx context.Context,
	user *User,
	request *CreatePlaylistRequest,
) (*Playlist, error) {
	log := c.log.Function("Create").TraceFromContext(ctx)

	title, _ := utils.CleanText(request.Title)
	if title == "" {
		return nil, types.Wrap(types.ErrValidation, "playlist title is required")
	}

	playlist := &Playlist{
		Title:    title,
		UserID:   user.ID,
		ImgURL:   request.ImgURL,
		IsPublic: request.IsPublic,
	}
	if err := c.repos.Playlist.Create(ctx, c.db.SQLWithContext(ctx), playlist); err != nil {
		return nil, err
	}

	log.Info("Playlist created", "playlistID", playlist.ID, "userID", user.ID)
	return playlist, nil
}

// Get returns the playlist with its ordered tracks. Private playlists of other
// users read as missing.
func (c *PlaylistController) Get(ctx context.Context, user *User, playlistID uuid.UUID) (*Playlist, error) {
	playlist, err := c.repos.Playlist.GetWithTracks(ctx, c.db.SQLWithContext(ctx), playlistID)
	if err != nil {
		return nil, err
	}
	if !playlist.VisibleTo(user) {
		return nil, types.Wrap(types.ErrNotFound, "playlist %s not found", playlistID)
	}
	return playlist, nil
}

func (c *PlaylistController) ListVisible(
	ctx context.Context,
	user *User,
	filter repositories.PlaylistFilter,
) ([]*Playlist, error) {
	return c.repos.Playlist.ListVisible(ctx, c.db.SQLWithContext(ctx), user, filter)
}

// ListByOwner lists another user's playlists as the caller is allowed to see
// them. Private playlists stay hidden unless the caller owns them or is an
// admin.
func (c *PlaylistController) ListByOwner(
	ctx context.Context,
	user *User,
	ownerID uuid.UUID,
	filter repositories.PlaylistFilter,
) ([]*Playlist, error) {
	tx := c.db.SQLWithContext(ctx)
	if _, err := c.repos.User.GetByID(ctx, tx, ownerID); err != nil {
		return nil, err
	}

	filter.OwnerID = &ownerID
	return c.repos.Playlist.ListVisible(ctx, tx, user, filter)
}

func (c *PlaylistController) ListMine(ctx context.Context, user *User) ([]*Playlist, error) {
	return c.repos.Playlist.ListByUser(ctx, c.db.SQLWithContext(ctx), user.ID)
}

func (c *PlaylistController) owned(
	ctx context.Context,
	tx *gorm.DB,
	user *User,
	playlistID uuid.UUID,
	allowAdmin bool,
) (*Playlist, error) {
	playlist, err := c.repos.Playlist.GetForUpdate(ctx, tx, playlistID)
	if err != nil {
		return nil, err
	}
	if playlist.UserID == user.ID || (allowAdmin && user.IsAdmin()) {
		return playlist, nil
	}
	return nil, types.Wrap(types.ErrPermission, "playlist %s is not owned by user", playlistID)
}

func (c *PlaylistController) Update(
	ctx context.Context,
	user *User,
	playlistID uuid.UUID,
	request *UpdatePlaylistRequest,
) (*Playlist, error) {
	if request.Title == nil && request.ImgURL == nil {
		return nil, types.Wrap(types.ErrValidation, "no fields to update")
	}

	var playlist *Playlist
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		playlist, err = c.owned(ctx, tx, user, playlistID, false)
		if err != nil {
			return err
		}

		if request.Title != nil {
			title, _ := utils.CleanText(*request.Title)
			if title == "" {
				return types.Wrap(types.ErrValidation, "playlist title is required")
			}
			playlist.Title = title
		}
		if request.ImgURL != nil {
			playlist.ImgURL = *request.ImgURL
		}

		return c.repos.Playlist.Update(ctx, tx, playlist)
	})
	if err != nil {
		return nil, err
	}

	return playlist, nil
}

func (c *PlaylistController) SetVisibility(
	ctx context.Context,
	user *User,
	playlistID uuid.UUID,
	public bool,
) (*Playlist, error) {
	var playlist *Playlist
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		playlist, err = c.owned(ctx, tx, user, playlistID, true)
		if err != nil {
			return err
		}
		playlist.IsPublic = public
		return c.repos.Playlist.SetVisibility(ctx, tx, playlistID, public)
	})
	if err != nil {
		return nil, err
	}

	return playlist, nil
}

func (c *PlaylistController) Delete(ctx context.Context, user *User, playlistID uuid.UUID) error {
	log := c.log.Function("Delete").TraceFromContext(ctx)

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := c.owned(ctx, tx, user, playlistID, false); err != nil {
			return err
		}
		return c.catalogService.DeletePlaylist(ctx, tx, playlistID)
	})
	if err != nil {
		return err
	}

	log.Info("Playlist deleted", "playlistID", playlistID, "userID", user.ID)
	return nil
}

func (c *PlaylistController) AddTrack(
	ctx context.Context,
	user *User,
	playlistID, trackID uuid.UUID,
) (*UserActivity, error) {
	return c.activityService.Record(ctx, user, services.ActivityInput{
		Type:       ActivityAddToPlaylist,
		TrackID:    &trackID,
		PlaylistID: &playlistID,
	})
}

func (c *PlaylistController) RemoveTrack(
	ctx context.Context,
	user *User,
	playlistID, trackID uuid.UUID,
) (*UserActivity, error) {
	return c.activityService.Record(ctx, user, services.ActivityInput{
		Type:       ActivityRemoveFromPlaylist,
		TrackID:    &trackID,
		PlaylistID: &playlistID,
	})
}

func (c *PlaylistController) MoveTrack(
	ctx context.Context,
	user *User,
	playlistID, trackID uuid.UUID,
	position int,
) (int, error) {
	var final int
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := c.owned(ctx, tx, user, playlistID, false); err != nil {
			return err
		}
		var err error
		final, err = c.repos.Position.Move(ctx, tx, repositories.PlaylistScope(playlistID), trackID, position)
		return err
	})

	return final, err
}

func (c *PlaylistController) Recalculate(
	ctx context.Context,
	user *User,
	playlistID uuid.UUID,
) (repositories.CollectionTotals, error) {
	var totals repositories.CollectionTotals
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := c.owned(ctx, tx, user, playlistID, true); err != nil {
			return err
		}
		var err error
		totals, err = c.counterService.RecalculatePlaylist(ctx, tx, playlistID)
		return err
	})

	return totals, err
}

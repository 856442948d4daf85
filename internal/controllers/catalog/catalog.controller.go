package catalogController

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

type CatalogController struct {
	repos              repositories.Repository
	transactionService *services.TransactionService
	catalogService     *services.CatalogService
	counterService     *services.CounterService
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type CatalogControllerInterface interface {
	CreateArtist(ctx context.Context, user *User, request *ArtistRequest) (*Artist, error)
	GetArtist(ctx context.Context, artistID uuid.UUID) (*Artist, error)
	ListArtists(ctx context.Context, filter repositories.ArtistFilter) ([]*Artist, error)
	UpdateArtist(ctx context.Context, user *User, artistID uuid.UUID, request *ArtistRequest) (*Artist, error)
	DeleteArtist(ctx context.Context, user *User, artistID uuid.UUID) error
	VerifyArtist(ctx context.Context, user *User, artistID uuid.UUID, verified bool) (*Artist, error)

	CreateAlbum(ctx context.Context, user *User, request *AlbumRequest) (*Album, error)
	GetAlbum(ctx context.Context, albumID uuid.UUID) (*Album, error)
	ListAlbums(ctx context.Context, filter repositories.AlbumFilter) ([]*Album, error)
	UpdateAlbum(ctx context.Context, user *User, albumID uuid.UUID, request *AlbumRequest) (*Album, error)
	DeleteAlbum(ctx context.Context, user *User, albumID uuid.UUID) error
	SetAlbumGenres(ctx context.Context, user *User, albumID uuid.UUID, genreIDs []uuid.UUID) error
	RecalculateAlbum(ctx context.Context, user *User, albumID uuid.UUID) (repositories.CollectionTotals, error)

	CreateTrack(ctx context.Context, user *User, request *TrackRequest) (*TrackResponse, error)
	GetTrack(ctx context.Context, trackID uuid.UUID) (*TrackResponse, error)
	ListTracks(ctx context.Context, filter repositories.TrackFilter) ([]*TrackResponse, error)
	UpdateTrack(ctx context.Context, user *User, trackID uuid.UUID, request *TrackRequest) (*TrackResponse, error)
	DeleteTrack(ctx context.Context, user *User, trackID uuid.UUID) error
	SetTrackGenres(ctx context.Context, user *User, trackID uuid.UUID, genreIDs []uuid.UUID) error
	SetExplicit(ctx context.Context, user *User, trackID uuid.UUID, explicit bool) (*TrackResponse, error)

	CreateGenre(ctx context.Context, user *User, request *GenreRequest) (*Genre, error)
	GetGenre(ctx context.Context, genreID uuid.UUID) (*Genre, error)
	ListGenres(ctx context.Context) ([]*Genre, error)
	ListGenreAlbums(ctx context.Context, genreID uuid.UUID, filter repositories.AlbumFilter) ([]*Album, error)
	ListGenreTracks(ctx context.Context, genreID uuid.UUID, filter repositories.TrackFilter) ([]*TrackResponse, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) CatalogControllerInterface {
	return &CatalogController{
		repos:              repos,
		transactionService: services.Transaction,
		catalogService:     services.Catalog,
		counterService:     services.Counter,
		db:                 db,
		Config:             config,
		log:                logger.New("catalogController"),
	}
}

func canManage(user *User, artist *Artist) bool {
	return user.IsAdmin() || artist.OwnedBy(user.ID)
}

func requireAdmin(user *User, action string) error {
	if !user.IsAdmin() {
		return types.Wrap(types.ErrPermission, "only admins can %s", action)
	}
	return nil
}

// manageableArtist loads the artist and checks the caller may edit its catalog.
func (c *CatalogController) manageableArtist(
	ctx context.Context,
	tx *gorm.DB,
	user *User,
	artistID uuid.UUID,
) (*Artist, error) {
	artist, err := c.repos.Artist.GetByID(ctx, tx, artistID)
	if err != nil {
		return nil, err
	}
	if !canManage(user, artist) {
		return nil, types.Wrap(types.ErrPermission, "artist %s is not managed by user", artistID)
	}
	return artist, nil
}

func (c *CatalogController) checkGenres(ctx context.Context, tx *gorm.DB, genreIDs []uuid.UUID) error {
	if len(genreIDs) == 0 {
		return nil
	}

	unique := make(map[uuid.UUID]struct{}, len(genreIDs))
	for _, id := range genreIDs {
		unique[id] = struct{}{}
	}

	found, err := c.repos.Genre.CountByIDs(ctx, tx, genreIDs)
	if err != nil {
		return err
	}
	if int(found) != len(unique) {
		return types.Wrap(types.ErrNotFound, "one or more genres do not exist")
	}
	return nil
}

func conflictOn(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return types.Wrap(types.ErrConflict, format, args...)
	}
	return err
}

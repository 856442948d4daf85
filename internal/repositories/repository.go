package repositories

import (
	"errors"
	"kaudio/config"
	"kaudio/internal/database"
	"kaudio/internal/types"
	"time"

	"gorm.io/gorm"
)

const (
	DEFAULT_LIST_LIMIT = 50
	MAX_LIST_LIMIT     = 200
)

type Repository struct {
	User         UserRepository
	Artist       ArtistRepository
	Album        AlbumRepository
	Track        TrackRepository
	Genre        GenreRepository
	Playlist     PlaylistRepository
	Position     PositionRepository
	Library      LibraryRepository
	Activity     ActivityRepository
	Review       ReviewRepository
	Counter      CounterRepository
	Stats        StatsRepository
	Subscription SubscriptionRepository
}

func New(db database.DB, config config.Config) Repository {
	return Repository{
		User:         NewUserRepository(db.Cache.User),
		Artist:       NewArtistRepository(),
		Album:        NewAlbumRepository(),
		Track:        NewTrackRepository(),
		Genre:        NewGenreRepository(),
		Playlist:     NewPlaylistRepository(),
		Position:     NewPositionRepository(),
		Library:      NewLibraryRepository(),
		Activity:     NewActivityRepository(),
		Review:       NewReviewRepository(),
		Counter:      NewCounterRepository(),
		Stats:        NewStatsRepository(db.Cache.Stats, time.Duration(config.StatsCacheTTL)*time.Second),
		Subscription: NewSubscriptionRepository(),
	}
}

// notFound maps gorm's missing-row error onto the service-wide sentinel.
func notFound(err error, entity string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.Wrap(types.ErrNotFound, "%s %v not found", entity, id)
	}
	return err
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DEFAULT_LIST_LIMIT
	}
	if limit > MAX_LIST_LIMIT {
		return MAX_LIST_LIMIT
	}
	return limit
}

package services

import (
	"context"
	. "kaudio/internal/models"
	"kaudio/internal/repositories"
	"math"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	popularityPlayCap  = 1000.0
	popularityLikeCap  = 100.0
	popularityPlayPart = 0.6
	popularityLikePart = 0.4
)

// CounterService keeps the denormalized counters in step with the rows they
// summarize. Every method runs inside the caller's transaction.
type CounterService struct {
	repos repositories.Repository
	log   logger.Logger
}

func NewCounterService(repos repositories.Repository) *CounterService {
	return &CounterService{
		repos: repos,
		log:   logger.New("CounterService"),
	}
}

// ApplyActivity performs the increments implied by a newly recorded activity.
// Playlist membership activities adjust totals in the playlist path instead.
func (s *CounterService) ApplyActivity(ctx context.Context, tx *gorm.DB, activity *UserActivity) error {
	switch activity.ActivityType {
	case ActivityPlay:
		return s.applyPlay(ctx, tx, *activity.TrackID, 1)
	case ActivityLike:
		return s.repos.Counter.Increment(ctx, tx, repositories.TrackLikesCount, *activity.TrackID, 1)
	case ActivityLikeAlbum:
		return s.repos.Counter.Increment(ctx, tx, repositories.AlbumLikesCount, *activity.AlbumID, 1)
	}
	return nil
}

// ReverseActivity undoes ApplyActivity for a deleted row. Targets that no
// longer exist are skipped.
func (s *CounterService) ReverseActivity(ctx context.Context, tx *gorm.DB, activity *UserActivity) error {
	switch activity.ActivityType {
	case ActivityPlay:
		return s.applyPlay(ctx, tx, *activity.TrackID, -1)
	case ActivityLike:
		return ignoreNotFound(s.repos.Counter.Decrement(ctx, tx, repositories.TrackLikesCount, *activity.TrackID, 1))
	case ActivityLikeAlbum:
		return ignoreNotFound(s.repos.Counter.Decrement(ctx, tx, repositories.AlbumLikesCount, *activity.AlbumID, 1))
	}
	return nil
}

// applyPlay moves the play counters by delta. Album and artist counters only
// move for tracks that belong to an album.
func (s *CounterService) applyPlay(ctx context.Context, tx *gorm.DB, trackID uuid.UUID, delta int) error {
	track, err := s.repos.Track.GetByID(ctx, tx, trackID)
	if err != nil {
		if delta < 0 {
			return ignoreNotFound(err)
		}
		return err
	}

	if err := s.repos.Counter.Adjust(ctx, tx, repositories.TrackPlayCount, track.ID, delta); err != nil {
		return err
	}

	if track.AlbumID == nil {
		return nil
	}

	if err := ignoreNotFound(s.repos.Counter.Adjust(ctx, tx, repositories.AlbumPlayCount, *track.AlbumID, delta)); err != nil {
		return err
	}

	return ignoreNotFound(s.repos.Counter.Adjust(ctx, tx, repositories.ArtistMonthlyListeners, track.ArtistID, delta))
}

// PlaylistTrackAdded and PlaylistTrackRemoved move the playlist totals for one
// member track.
func (s *CounterService) PlaylistTrackAdded(ctx context.Context, tx *gorm.DB, playlistID uuid.UUID, duration int) error {
	if err := s.repos.Counter.Increment(ctx, tx, repositories.PlaylistTotalTracks, playlistID, 1); err != nil {
		return err
	}
	return s.repos.Counter.Increment(ctx, tx, repositories.PlaylistTotalDuration, playlistID, duration)
}

func (s *CounterService) PlaylistTrackRemoved(ctx context.Context, tx *gorm.DB, playlistID uuid.UUID, duration int) error {
	if err := s.repos.Counter.Decrement(ctx, tx, repositories.PlaylistTotalTracks, playlistID, 1); err != nil {
		return err
	}
	return s.repos.Counter.Decrement(ctx, tx, repositories.PlaylistTotalDuration, playlistID, duration)
}

func (s *CounterService) AlbumTrackAdded(ctx context.Context, tx *gorm.DB, albumID uuid.UUID, duration int) error {
	if err := s.repos.Counter.Increment(ctx, tx, repositories.AlbumTotalTracks, albumID, 1); err != nil {
		return err
	}
	return s.repos.Counter.Increment(ctx, tx, repositories.AlbumTotalDuration, albumID, duration)
}

func (s *CounterService) AlbumTrackRemoved(ctx context.Context, tx *gorm.DB, albumID uuid.UUID, duration int) error {
	if err := s.repos.Counter.Decrement(ctx, tx, repositories.AlbumTotalTracks, albumID, 1); err != nil {
		return err
	}
	return s.repos.Counter.Decrement(ctx, tx, repositories.AlbumTotalDuration, albumID, duration)
}

// TrackDurationChanged applies a duration delta to the track's album and to
// every playlist that contains it.
func (s *CounterService) TrackDurationChanged(ctx context.Context, tx *gorm.DB, track *Track, delta int) error {
	log := s.log.Function("TrackDurationChanged")

	if delta == 0 {
		return nil
	}

	if track.AlbumID != nil {
		if err := s.repos.Counter.Adjust(ctx, tx, repositories.AlbumTotalDuration, *track.AlbumID, delta); err != nil {
			return err
		}
	}

	playlistIDs, err := s.repos.Playlist.ListIDsContainingTrack(ctx, tx, track.ID)
	if err != nil {
		return err
	}

	for _, playlistID := range playlistIDs {
		if err := s.repos.Counter.Adjust(ctx, tx, repositories.PlaylistTotalDuration, playlistID, delta); err != nil {
			return log.Err("failed to adjust playlist duration", err, "playlistID", playlistID)
		}
	}

	return nil
}

// RecalculateAlbum rewrites the album totals from its tracks.
func (s *CounterService) RecalculateAlbum(
	ctx context.Context,
	tx *gorm.DB,
	albumID uuid.UUID,
) (repositories.CollectionTotals, error) {
	counters, err := s.repos.Counter.RecomputeAlbum(ctx, tx, albumID)
	if err != nil {
		return repositories.CollectionTotals{}, err
	}

	totals := repositories.CollectionTotals{
		TotalTracks:   counters.TotalTracks,
		TotalDuration: counters.TotalDuration,
	}
	if err := s.repos.Counter.Set(ctx, tx, "albums", albumID, map[string]any{
		"total_tracks":   totals.TotalTracks,
		"total_duration": totals.TotalDuration,
	}); err != nil {
		return repositories.CollectionTotals{}, err
	}

	return totals, nil
}

// RecalculatePlaylist rewrites the playlist totals from its member tracks.
func (s *CounterService) RecalculatePlaylist(
	ctx context.Context,
	tx *gorm.DB,
	playlistID uuid.UUID,
) (repositories.CollectionTotals, error) {
	totals, err := s.repos.Counter.RecomputePlaylist(ctx, tx, playlistID)
	if err != nil {
		return repositories.CollectionTotals{}, err
	}

	if err := s.repos.Counter.Set(ctx, tx, "playlists", playlistID, map[string]any{
		"total_tracks":   totals.TotalTracks,
		"total_duration": totals.TotalDuration,
	}); err != nil {
		return repositories.CollectionTotals{}, err
	}

	return totals, nil
}

// RecalculateTrackRating stores the mean review rating rounded to two places,
// or NULL when the track has no reviews.
func (s *CounterService) RecalculateTrackRating(
	ctx context.Context,
	tx *gorm.DB,
	trackID uuid.UUID,
) (*decimal.Decimal, error) {
	avg, err := s.repos.Review.AverageTrackRating(ctx, tx, trackID)
	if err != nil {
		return nil, err
	}

	var rating *decimal.Decimal
	if avg != nil {
		rounded := decimal.NewFromFloat(*avg).Round(2)
		rating = &rounded
	}

	if err := s.repos.Track.SetAvgRating(ctx, tx, trackID, rating); err != nil {
		return nil, err
	}

	return rating, nil
}

// PopularityScore blends capped plays and likes into a 0..100 score.
func PopularityScore(playCount, likesCount int) float64 {
	plays := math.Min(math.Max(float64(playCount), 0)/popularityPlayCap, 1)
	likes := math.Min(math.Max(float64(likesCount), 0)/popularityLikeCap, 1)
	return (plays*popularityPlayPart + likes*popularityLikePart) * 100
}

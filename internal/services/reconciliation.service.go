package services

import (
	"context"
	"kaudio/internal/events"
	"kaudio/internal/repositories"
	"kaudio/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReconciliationService compares every denormalized counter with the value
// recomputed from the rows it summarizes, and optionally writes the recomputed
// value back.
type ReconciliationService struct {
	repos       repositories.Repository
	transaction *TransactionService
	eventBus    *events.EventBus
	log         logger.Logger
}

func NewReconciliationService(
	repos repositories.Repository,
	transaction *TransactionService,
	eventBus *events.EventBus,
) *ReconciliationService {
	return &ReconciliationService{
		repos:       repos,
		transaction: transaction,
		eventBus:    eventBus,
		log:         logger.New("ReconciliationService"),
	}
}

type counterCheck struct {
	field  string
	cached int64
	actual int64
}

func mismatches(entity string, id uuid.UUID, checks []counterCheck) []types.ConsistencyError {
	var out []types.ConsistencyError
	for _, check := range checks {
		if check.cached != check.actual {
			out = append(out, types.ConsistencyError{
				Entity: entity,
				ID:     id,
				Field:  check.field,
				Cached: check.cached,
				Actual: check.actual,
			})
		}
	}
	return out
}

func (s *ReconciliationService) CheckTrack(
	ctx context.Context,
	tx *gorm.DB,
	trackID uuid.UUID,
) ([]types.ConsistencyError, error) {
	track, err := s.repos.Track.GetByID(ctx, tx, trackID)
	if err != nil {
		return nil, err
	}

	actual, err := s.repos.Counter.RecomputeTrack(ctx, tx, trackID)
	if err != nil {
		return nil, err
	}

	return mismatches("track", trackID, []counterCheck{
		{field: "play_count", cached: int64(track.PlayCount), actual: actual.PlayCount},
		{field: "likes_count", cached: int64(track.LikesCount), actual: actual.LikesCount},
	}), nil
}

func (s *ReconciliationService) CheckAlbum(
	ctx context.Context,
	tx *gorm.DB,
	albumID uuid.UUID,
) ([]types.ConsistencyError, error) {
	album, err := s.repos.Album.GetByID(ctx, tx, albumID)
	if err != nil {
		return nil, err
	}

	actual, err := s.repos.Counter.RecomputeAlbum(ctx, tx, albumID)
	if err != nil {
		return nil, err
	}

	return mismatches("album", albumID, []counterCheck{
		{field: "play_count", cached: int64(album.PlayCount), actual: actual.PlayCount},
		{field: "likes_count", cached: int64(album.LikesCount), actual: actual.LikesCount},
		{field: "total_tracks", cached: int64(album.TotalTracks), actual: actual.TotalTracks},
		{field: "total_duration", cached: int64(album.TotalDuration), actual: actual.TotalDuration},
	}), nil
}

func (s *ReconciliationService) CheckPlaylist(
	ctx context.Context,
	tx *gorm.DB,
	playlistID uuid.UUID,
) ([]types.ConsistencyError, error) {
	playlist, err := s.repos.Playlist.GetByID(ctx, tx, playlistID)
	if err != nil {
		return nil, err
	}

	actual, err := s.repos.Counter.RecomputePlaylist(ctx, tx, playlistID)
	if err != nil {
		return nil, err
	}

	return mismatches("playlist", playlistID, []counterCheck{
		{field: "total_tracks", cached: int64(playlist.TotalTracks), actual: actual.TotalTracks},
		{field: "total_duration", cached: int64(playlist.TotalDuration), actual: actual.TotalDuration},
	}), nil
}

func (s *ReconciliationService) CheckArtist(
	ctx context.Context,
	tx *gorm.DB,
	artistID uuid.UUID,
) ([]types.ConsistencyError, error) {
	artist, err := s.repos.Artist.GetByID(ctx, tx, artistID)
	if err != nil {
		return nil, err
	}

	actual, err := s.repos.Counter.RecomputeArtistListeners(ctx, tx, artistID)
	if err != nil {
		return nil, err
	}

	return mismatches("artist", artistID, []counterCheck{
		{field: "monthly_listeners", cached: int64(artist.MonthlyListeners), actual: actual},
	}), nil
}

var entityTables = map[string]string{
	"track":    "tracks",
	"album":    "albums",
	"playlist": "playlists",
	"artist":   "artists",
}

type entityCheck struct {
	entity string
	list   func(context.Context, *gorm.DB) ([]uuid.UUID, error)
	check  func(context.Context, *gorm.DB, uuid.UUID) ([]types.ConsistencyError, error)
}

// ReconcileAll walks every track, album, playlist and artist. Mismatches are
// logged and, when repair is set, overwritten with the recomputed values in
// one transaction. Mismatches never fail the run.
func (s *ReconciliationService) ReconcileAll(ctx context.Context, repair bool) (types.ReconcileReport, error) {
	log := s.log.Function("ReconcileAll").TraceFromContext(ctx)

	report := types.ReconcileReport{Mismatches: []types.ConsistencyError{}}
	checks := []entityCheck{
		{entity: "track", list: s.repos.Track.ListIDs, check: s.CheckTrack},
		{entity: "album", list: s.repos.Album.ListIDs, check: s.CheckAlbum},
		{entity: "playlist", list: s.repos.Playlist.ListIDs, check: s.CheckPlaylist},
		{entity: "artist", list: s.repos.Artist.ListIDs, check: s.CheckArtist},
	}

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		for _, ec := range checks {
			ids, err := ec.list(ctx, tx)
			if err != nil {
				return err
			}

			for _, id := range ids {
				found, err := ec.check(ctx, tx, id)
				if err != nil {
					return err
				}
				report.Checked++

				for _, mismatch := range found {
					log.Warn("Counter mismatch",
						"entity", mismatch.Entity,
						"id", mismatch.ID,
						"field", mismatch.Field,
						"cached", mismatch.Cached,
						"actual", mismatch.Actual,
					)
				}
				report.Mismatches = append(report.Mismatches, found...)

				if repair && len(found) > 0 {
					if err := s.repair(ctx, tx, ec.entity, id, found); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return report, err
	}

	report.Repaired = repair && len(report.Mismatches) > 0
	if report.Repaired {
		s.repos.Stats.InvalidateCache(ctx)
	}

	log.Info("Reconciliation finished",
		"checked", report.Checked,
		"mismatches", len(report.Mismatches),
		"repaired", report.Repaired,
	)

	if s.eventBus != nil {
		if err := s.eventBus.PublishReconciled(map[string]any{
			"checked":    report.Checked,
			"mismatches": len(report.Mismatches),
			"repaired":   report.Repaired,
		}); err != nil {
			log.Warn("failed to publish reconciliation event", "error", err)
		}
	}

	return report, nil
}

func (s *ReconciliationService) repair(
	ctx context.Context,
	tx *gorm.DB,
	entity string,
	id uuid.UUID,
	found []types.ConsistencyError,
) error {
	values := make(map[string]any, len(found))
	for _, mismatch := range found {
		values[mismatch.Field] = mismatch.Actual
	}

	return s.repos.Counter.Set(ctx, tx, entityTables[entity], id, values)
}

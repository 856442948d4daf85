package services

import (
	"context"
	"errors"
	"kaudio/internal/database"
	"kaudio/internal/events"
	. "kaudio/internal/models"
	"kaudio/internal/repositories"
	"kaudio/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityInput struct {
	Type       ActivityType `json:"activityType"`
	TrackID    *uuid.UUID   `json:"trackId,omitempty"`
	AlbumID    *uuid.UUID   `json:"albumId,omitempty"`
	PlaylistID *uuid.UUID   `json:"playlistId,omitempty"`
	ArtistID   *uuid.UUID   `json:"artistId,omitempty"`
	Duration   *int         `json:"duration,omitempty"`
}

// ActivityService is the single write path for the activity log. Recording an
// activity applies its counter side effects in the same transaction, and the
// playlist membership activities perform the membership change itself.
type ActivityService struct {
	db          database.DB
	repos       repositories.Repository
	transaction *TransactionService
	counters    *CounterService
	eventBus    *events.EventBus
	log         logger.Logger
}

func NewActivityService(
	db database.DB,
	repos repositories.Repository,
	transaction *TransactionService,
	counters *CounterService,
	eventBus *events.EventBus,
) *ActivityService {
	return &ActivityService{
		db:          db,
		repos:       repos,
		transaction: transaction,
		counters:    counters,
		eventBus:    eventBus,
		log:         logger.New("ActivityService"),
	}
}

func (s *ActivityService) Record(ctx context.Context, user *User, input ActivityInput) (*UserActivity, error) {
	log := s.log.Function("Record").TraceFromContext(ctx)

	activity := &UserActivity{
		UserID:       user.ID,
		ActivityType: input.Type,
		TrackID:      input.TrackID,
		AlbumID:      input.AlbumID,
		PlaylistID:   input.PlaylistID,
		ArtistID:     input.ArtistID,
		Duration:     input.Duration,
	}
	if err := activity.Validate(); err != nil {
		return nil, err
	}

	existing := false
	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		existing, err = s.record(ctx, tx, user, activity)
		return err
	})

	if errors.Is(err, gorm.ErrDuplicatedKey) && activity.ActivityType == ActivityLikeAlbum {
		// A concurrent like won the insert; hand back the stored row.
		stored, getErr := s.repos.Activity.GetAlbumLike(ctx, s.db.SQLWithContext(ctx), user.ID, *activity.AlbumID)
		if getErr != nil {
			return nil, getErr
		}
		return stored, nil
	}
	if err != nil {
		return nil, err
	}

	if !existing {
		s.invalidateRollups(ctx, activity)
		s.publish(events.ACTIVITY_RECORDED, activity, log)
	}

	return activity, nil
}

// record writes the activity and its side effects. It reports true when an
// album like already existed and was returned unchanged.
func (s *ActivityService) record(ctx context.Context, tx *gorm.DB, user *User, activity *UserActivity) (bool, error) {
	switch activity.ActivityType {
	case ActivityPlay, ActivityLike:
		track, err := s.repos.Track.GetByID(ctx, tx, *activity.TrackID)
		if err != nil {
			return false, err
		}
		if activity.ActivityType == ActivityPlay && activity.Duration == nil {
			duration := track.Duration
			activity.Duration = &duration
		}

	case ActivityLikeAlbum:
		if _, err := s.repos.Album.GetByID(ctx, tx, *activity.AlbumID); err != nil {
			return false, err
		}
		stored, err := s.repos.Activity.GetAlbumLike(ctx, tx, user.ID, *activity.AlbumID)
		if err == nil {
			*activity = *stored
			return true, nil
		}
		if !errors.Is(err, types.ErrNotFound) {
			return false, err
		}

	case ActivityAddToPlaylist:
		if err := s.addToPlaylist(ctx, tx, user, *activity.PlaylistID, *activity.TrackID); err != nil {
			return false, err
		}

	case ActivityRemoveFromPlaylist:
		if err := s.removeFromPlaylist(ctx, tx, user, *activity.PlaylistID, *activity.TrackID); err != nil {
			return false, err
		}

	case ActivityFollowArtist:
		if _, err := s.repos.Artist.GetByID(ctx, tx, *activity.ArtistID); err != nil {
			return false, err
		}
	}

	if err := s.repos.Activity.Create(ctx, tx, activity); err != nil {
		return false, err
	}

	return false, s.counters.ApplyActivity(ctx, tx, activity)
}

func (s *ActivityService) lockOwnedPlaylist(
	ctx context.Context,
	tx *gorm.DB,
	user *User,
	playlistID uuid.UUID,
) (*Playlist, error) {
	playlist, err := s.repos.Playlist.GetForUpdate(ctx, tx, playlistID)
	if err != nil {
		return nil, err
	}
	if playlist.UserID != user.ID {
		return nil, types.Wrap(types.ErrPermission, "playlist %s is not owned by user", playlistID)
	}
	return playlist, nil
}

func (s *ActivityService) addToPlaylist(
	ctx context.Context,
	tx *gorm.DB,
	user *User,
	playlistID, trackID uuid.UUID,
) error {
	playlist, err := s.lockOwnedPlaylist(ctx, tx, user, playlistID)
	if err != nil {
		return err
	}

	track, err := s.repos.Track.GetByID(ctx, tx, trackID)
	if err != nil {
		return err
	}

	present, err := s.repos.Playlist.HasTrack(ctx, tx, playlist.ID, track.ID)
	if err != nil {
		return err
	}
	if present {
		return types.Wrap(types.ErrConflict, "track %s is already in playlist %s", track.ID, playlist.ID)
	}

	scope := repositories.PlaylistScope(playlist.ID)
	position, err := s.repos.Position.Next(ctx, tx, scope)
	if err != nil {
		return err
	}

	entry := &PlaylistTrack{
		BaseLinkModel: BaseLinkModel{Position: position},
		PlaylistID:    playlist.ID,
		TrackID:       track.ID,
	}
	if err := s.repos.Playlist.AddTrack(ctx, tx, entry); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return types.Wrap(types.ErrConflict, "track %s is already in playlist %s", track.ID, playlist.ID)
		}
		return err
	}

	return s.counters.PlaylistTrackAdded(ctx, tx, playlist.ID, track.Duration)
}

func (s *ActivityService) removeFromPlaylist(
	ctx context.Context,
	tx *gorm.DB,
	user *User,
	playlistID, trackID uuid.UUID,
) error {
	playlist, err := s.lockOwnedPlaylist(ctx, tx, user, playlistID)
	if err != nil {
		return err
	}

	track, err := s.repos.Track.GetByID(ctx, tx, trackID)
	if err != nil {
		return err
	}

	removed, err := s.repos.Playlist.RemoveTrack(ctx, tx, playlist.ID, track.ID)
	if err != nil {
		return err
	}
	if !removed {
		return types.Wrap(types.ErrNotFound, "track %s is not in playlist %s", track.ID, playlist.ID)
	}

	if err := s.counters.PlaylistTrackRemoved(ctx, tx, playlist.ID, track.Duration); err != nil {
		return err
	}

	return s.repos.Position.Compact(ctx, tx, repositories.PlaylistScope(playlist.ID))
}

// Delete removes one of the caller's activities and reverses its counters.
// A row that is already gone yields ErrNotFound and touches no counter.
func (s *ActivityService) Delete(ctx context.Context, user *User, id uuid.UUID) error {
	log := s.log.Function("Delete").TraceFromContext(ctx)

	var activity *UserActivity
	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		activity, err = s.repos.Activity.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if activity.UserID != user.ID {
			return types.Wrap(types.ErrPermission, "activity %s belongs to another user", id)
		}

		removed, err := s.repos.Activity.Delete(ctx, tx, id)
		if err != nil {
			return err
		}
		if !removed {
			return types.Wrap(types.ErrNotFound, "activity %s not found", id)
		}

		return s.counters.ReverseActivity(ctx, tx, activity)
	})
	if err != nil {
		return err
	}

	s.invalidateRollups(ctx, activity)
	s.publish(events.ACTIVITY_DELETED, activity, log)

	return nil
}

// DeleteAllForUser reverses and removes every activity of a user. The caller
// owns the transaction.
func (s *ActivityService) DeleteAllForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	activities, err := s.repos.Activity.ListAllByUser(ctx, tx, userID)
	if err != nil {
		return err
	}

	for _, activity := range activities {
		removed, err := s.repos.Activity.Delete(ctx, tx, activity.ID)
		if err != nil {
			return err
		}
		if !removed {
			continue
		}
		if err := s.counters.ReverseActivity(ctx, tx, activity); err != nil {
			return err
		}
	}

	return nil
}

func (s *ActivityService) List(ctx context.Context, filter repositories.ActivityFilter) ([]*UserActivity, error) {
	return s.repos.Activity.List(ctx, s.db.SQLWithContext(ctx), filter)
}

func (s *ActivityService) LikedTracks(ctx context.Context, userID uuid.UUID) ([]*Track, error) {
	return s.repos.Track.ListLikedByUser(ctx, s.db.SQLWithContext(ctx), userID)
}

// invalidateRollups drops the cached genre and artist rollups once a committed
// activity has moved the track play or like counters they are built from.
func (s *ActivityService) invalidateRollups(ctx context.Context, activity *UserActivity) {
	switch activity.ActivityType {
	case ActivityPlay, ActivityLike:
		s.repos.Stats.InvalidateCache(ctx)
	}
}

func (s *ActivityService) publish(messageType events.MessageType, activity *UserActivity, log logger.Logger) {
	if s.eventBus == nil || activity == nil {
		return
	}

	data := map[string]any{
		"activityId":   activity.ID.String(),
		"activityType": string(activity.ActivityType),
	}
	for key, id := range map[string]*uuid.UUID{
		"trackId":    activity.TrackID,
		"albumId":    activity.AlbumID,
		"playlistId": activity.PlaylistID,
		"artistId":   activity.ArtistID,
	} {
		if id != nil {
			data[key] = id.String()
		}
	}

	if err := s.eventBus.PublishActivity(messageType, activity.UserID, data); err != nil {
		log.Warn("failed to publish activity event", "activityID", activity.ID, "error", err)
	}
}

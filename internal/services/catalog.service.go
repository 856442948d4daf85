package services

import (
	"context"
	"errors"
	. "kaudio/internal/models"
	"kaudio/internal/repositories"
	"kaudio/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogService owns catalog writes whose side effects reach beyond one row:
// album totals on track changes, and the cascades that run when artists,
// albums, tracks, playlists or users are deleted. Every method runs inside the
// caller's transaction.
type CatalogService struct {
	repos      repositories.Repository
	counters   *CounterService
	activities *ActivityService
	log        logger.Logger
}

func NewCatalogService(
	repos repositories.Repository,
	counters *CounterService,
	activities *ActivityService,
) *CatalogService {
	return &CatalogService{
		repos:      repos,
		counters:   counters,
		activities: activities,
		log:        logger.New("CatalogService"),
	}
}

// CreateTrack validates the track against its album and adds it to the album
// totals.
func (s *CatalogService) CreateTrack(ctx context.Context, tx *gorm.DB, track *Track) error {
	if err := track.Validate(); err != nil {
		return err
	}

	artist, err := s.repos.Artist.GetByID(ctx, tx, track.ArtistID)
	if err != nil {
		return err
	}

	if track.AlbumID != nil {
		album, err := s.repos.Album.GetByID(ctx, tx, *track.AlbumID)
		if err != nil {
			return err
		}
		if album.ArtistID != artist.ID {
			return types.Wrap(types.ErrValidation, "album %s belongs to a different artist", album.ID)
		}
		if err := s.checkAlbumSlot(ctx, tx, track); err != nil {
			return err
		}
	}

	if err := s.repos.Track.Create(ctx, tx, track); err != nil {
		return err
	}

	if track.AlbumID == nil {
		return nil
	}

	return s.counters.AlbumTrackAdded(ctx, tx, *track.AlbumID, track.Duration)
}

// UpdateTrack writes the editable fields of updated over current. Album and
// artist never change; a duration change flows into album and playlist totals.
func (s *CatalogService) UpdateTrack(ctx context.Context, tx *gorm.DB, current, updated *Track) error {
	updated.ID = current.ID
	updated.ArtistID = current.ArtistID
	updated.AlbumID = current.AlbumID

	if err := updated.Validate(); err != nil {
		return err
	}

	if updated.AlbumID != nil {
		if err := s.checkAlbumSlot(ctx, tx, updated); err != nil {
			return err
		}
	}

	if err := s.repos.Track.Update(ctx, tx, updated); err != nil {
		return err
	}

	return s.counters.TrackDurationChanged(ctx, tx, updated, updated.Duration-current.Duration)
}

func (s *CatalogService) checkAlbumSlot(ctx context.Context, tx *gorm.DB, track *Track) error {
	taken, err := s.repos.Track.TitleTaken(ctx, tx, *track.AlbumID, track.Title, track.ID)
	if err != nil {
		return err
	}
	if taken {
		return types.Wrap(types.ErrValidation, "album already has a track titled %q", track.Title)
	}

	taken, err = s.repos.Track.NumberTaken(ctx, tx, *track.AlbumID, *track.TrackNumber, track.ID)
	if err != nil {
		return err
	}
	if taken {
		return types.Wrap(types.ErrValidation, "album already has track number %d", *track.TrackNumber)
	}

	return nil
}

// DeleteTrack detaches the track from playlists and libraries, withdraws its
// plays from the album and artist counters, and removes it.
func (s *CatalogService) DeleteTrack(ctx context.Context, tx *gorm.DB, trackID uuid.UUID) error {
	log := s.log.Function("DeleteTrack")

	track, err := s.repos.Track.GetByID(ctx, tx, trackID)
	if err != nil {
		return err
	}

	if track.AlbumID != nil {
		plays, err := s.repos.Activity.CountForTrack(ctx, tx, track.ID, ActivityPlay)
		if err != nil {
			return err
		}
		if plays > 0 {
			if err := ignoreNotFound(s.repos.Counter.Decrement(ctx, tx, repositories.AlbumPlayCount, *track.AlbumID, int(plays))); err != nil {
				return err
			}
			if err := ignoreNotFound(s.repos.Counter.Decrement(ctx, tx, repositories.ArtistMonthlyListeners, track.ArtistID, int(plays))); err != nil {
				return err
			}
		}
	}

	if err := s.repos.Activity.DeleteForTrack(ctx, tx, track.ID); err != nil {
		return err
	}
	if err := s.repos.Review.DeleteForTrack(ctx, tx, track.ID); err != nil {
		return err
	}

	playlistIDs, err := s.repos.Playlist.ListIDsContainingTrack(ctx, tx, track.ID)
	if err != nil {
		return err
	}
	for _, playlistID := range playlistIDs {
		if _, err := s.repos.Playlist.GetForUpdate(ctx, tx, playlistID); err != nil {
			return err
		}
		if _, err := s.repos.Playlist.RemoveTrack(ctx, tx, playlistID, track.ID); err != nil {
			return err
		}
		if err := s.counters.PlaylistTrackRemoved(ctx, tx, playlistID, track.Duration); err != nil {
			return err
		}
		if err := s.repos.Position.Compact(ctx, tx, repositories.PlaylistScope(playlistID)); err != nil {
			return err
		}
	}

	owners, err := s.repos.Library.DetachTrack(ctx, tx, track.ID)
	if err != nil {
		return err
	}
	for _, owner := range owners {
		if _, err := s.repos.User.GetForUpdate(ctx, tx, owner); err != nil {
			return err
		}
		if err := s.repos.Position.Compact(ctx, tx, repositories.LibraryTrackScope(owner)); err != nil {
			return err
		}
	}

	if track.AlbumID != nil {
		if err := ignoreNotFound(s.counters.AlbumTrackRemoved(ctx, tx, *track.AlbumID, track.Duration)); err != nil {
			return err
		}
	}

	if err := s.repos.Track.Delete(ctx, tx, track.ID); err != nil {
		return err
	}

	log.Info("Track deleted", "trackID", track.ID, "playlists", len(playlistIDs), "libraries", len(owners))
	return nil
}

func (s *CatalogService) DeleteAlbum(ctx context.Context, tx *gorm.DB, albumID uuid.UUID) error {
	album, err := s.repos.Album.GetByID(ctx, tx, albumID)
	if err != nil {
		return err
	}

	tracks, err := s.repos.Track.ListByAlbum(ctx, tx, album.ID)
	if err != nil {
		return err
	}
	for _, track := range tracks {
		if err := s.DeleteTrack(ctx, tx, track.ID); err != nil {
			return err
		}
	}

	if err := s.repos.Activity.DeleteForAlbum(ctx, tx, album.ID); err != nil {
		return err
	}
	if err := s.repos.Review.DeleteForAlbum(ctx, tx, album.ID); err != nil {
		return err
	}

	owners, err := s.repos.Library.DetachAlbum(ctx, tx, album.ID)
	if err != nil {
		return err
	}
	for _, owner := range owners {
		if _, err := s.repos.User.GetForUpdate(ctx, tx, owner); err != nil {
			return err
		}
		if err := s.repos.Position.Compact(ctx, tx, repositories.LibraryAlbumScope(owner)); err != nil {
			return err
		}
	}

	return s.repos.Album.Delete(ctx, tx, album.ID)
}

func (s *CatalogService) DeleteArtist(ctx context.Context, tx *gorm.DB, artistID uuid.UUID) error {
	artist, err := s.repos.Artist.GetByID(ctx, tx, artistID)
	if err != nil {
		return err
	}

	albums, err := s.repos.Album.ListByArtist(ctx, tx, artist.ID)
	if err != nil {
		return err
	}
	for _, album := range albums {
		if err := s.DeleteAlbum(ctx, tx, album.ID); err != nil {
			return err
		}
	}

	tracks, err := s.repos.Track.ListByArtist(ctx, tx, artist.ID)
	if err != nil {
		return err
	}
	for _, track := range tracks {
		if err := s.DeleteTrack(ctx, tx, track.ID); err != nil {
			return err
		}
	}

	if err := s.repos.Activity.DeleteForArtist(ctx, tx, artist.ID); err != nil {
		return err
	}

	return s.repos.Artist.Delete(ctx, tx, artist.ID)
}

func (s *CatalogService) DeletePlaylist(ctx context.Context, tx *gorm.DB, playlistID uuid.UUID) error {
	if err := s.repos.Activity.DeleteForPlaylist(ctx, tx, playlistID); err != nil {
		return err
	}

	return s.repos.Playlist.Delete(ctx, tx, playlistID)
}

// DeleteUser removes the account with everything it owns. Counters fed by the
// user's activities are reversed and ratings of reviewed tracks recalculated.
func (s *CatalogService) DeleteUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	log := s.log.Function("DeleteUser")

	user, err := s.repos.User.GetByID(ctx, tx, userID)
	if err != nil {
		return err
	}

	artist, err := s.repos.Artist.GetByUserID(ctx, tx, user.ID)
	switch {
	case err == nil:
		if err := s.DeleteArtist(ctx, tx, artist.ID); err != nil {
			return err
		}
	case !errors.Is(err, types.ErrNotFound):
		return err
	}

	playlists, err := s.repos.Playlist.ListByUser(ctx, tx, user.ID)
	if err != nil {
		return err
	}
	for _, playlist := range playlists {
		if err := s.DeletePlaylist(ctx, tx, playlist.ID); err != nil {
			return err
		}
	}

	if err := s.activities.DeleteAllForUser(ctx, tx, user.ID); err != nil {
		return err
	}

	if err := s.repos.Library.DeleteByUser(ctx, tx, user.ID); err != nil {
		return err
	}

	reviewedTracks, err := s.repos.Review.DeleteByUser(ctx, tx, user.ID)
	if err != nil {
		return err
	}
	for _, trackID := range reviewedTracks {
		if _, err := s.counters.RecalculateTrackRating(ctx, tx, trackID); err != nil {
			return err
		}
	}

	if err := s.repos.Subscription.DeleteByUser(ctx, tx, user.ID); err != nil {
		return err
	}

	if err := s.repos.User.Delete(ctx, tx, user.ID); err != nil {
		return err
	}

	log.Info("User deleted", "userID", user.ID, "playlists", len(playlists))
	return nil
}

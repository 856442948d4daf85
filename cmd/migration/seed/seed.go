package seed

import (
	"context"
	"kaudio/config"
	"kaudio/internal/database"
	"kaudio/internal/events"
	. "kaudio/internal/models"
	"kaudio/internal/repositories"
	"kaudio/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const SEED_PASSWORD = "password123"

type seedTrack struct {
	title    string
	duration int
}

// Seed fills a fresh database with development data. Everything goes through
// the services so the cached counters match the activity log.
func Seed(db database.DB, config config.Config, log logger.Logger) error {
	log = log.Function("Seed")
	log.Info("Seeding development data")

	ctx := context.Background()
	repos := repositories.New(db, config)
	svc := services.New(db, repos, config, events.New(nil))

	admin, err := svc.Auth.Register(ctx, "admin", SEED_PASSWORD, "admin@example.com")
	if err != nil {
		return log.Err("failed to create admin", err)
	}
	admin.Role = RoleAdmin
	if err := repos.User.Update(ctx, db.SQL, admin); err != nil {
		return log.Err("failed to promote admin", err)
	}

	listener, err := svc.Auth.Register(ctx, "listener", SEED_PASSWORD, "listener@example.com")
	if err != nil {
		return log.Err("failed to create listener", err)
	}

	var tracks []*Track
	var album *Album
	err = svc.Transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		genreIDs := make([]uuid.UUID, 0, 3)
		for _, title := range []string{"Rock", "Jazz", "Electronic"} {
			genre := &Genre{Title: title}
			if err := repos.Genre.Create(ctx, tx, genre); err != nil {
				return err
			}
			genreIDs = append(genreIDs, genre.ID)
		}

		artist := &Artist{Name: "The Placeholders", UserID: &admin.ID, IsVerified: true}
		if err := repos.Artist.Create(ctx, tx, artist); err != nil {
			return err
		}

		album = &Album{Title: "First Light", ArtistID: artist.ID}
		if err := repos.Album.Create(ctx, tx, album); err != nil {
			return err
		}
		if err := repos.Album.SetGenres(ctx, tx, album.ID, genreIDs[:2]); err != nil {
			return err
		}

		for i, st := range []seedTrack{
			{"Dawn", 184},
			{"Static Bloom", 243},
			{"Long Way Down", 301},
		} {
			number := i + 1
			track := &Track{
				Title:       st.title,
				ArtistID:    artist.ID,
				AlbumID:     &album.ID,
				TrackNumber: &number,
				Duration:    st.duration,
			}
			if err := svc.Catalog.CreateTrack(ctx, tx, track); err != nil {
				return err
			}
			tracks = append(tracks, track)
		}

		return nil
	})
	if err != nil {
		return log.Err("failed to seed catalog", err)
	}

	playlist := &Playlist{Title: "Morning", UserID: listener.ID, IsPublic: true}
	if err := repos.Playlist.Create(ctx, db.SQL, playlist); err != nil {
		return log.Err("failed to create playlist", err)
	}

	inputs := []services.ActivityInput{
		{Type: ActivityLikeAlbum, AlbumID: &album.ID},
		{Type: ActivityLike, TrackID: &tracks[0].ID},
	}
	for i, track := range tracks {
		inputs = append(inputs, services.ActivityInput{
			Type:       ActivityAddToPlaylist,
			TrackID:    &track.ID,
			PlaylistID: &playlist.ID,
		})
		for range len(tracks) - i {
			inputs = append(inputs, services.ActivityInput{Type: ActivityPlay, TrackID: &track.ID})
		}
	}

	for _, input := range inputs {
		if _, err := svc.Activity.Record(ctx, listener, input); err != nil {
			return log.Err("failed to record activity", err, "type", input.Type)
		}
	}

	log.Info("Seed complete", "tracks", len(tracks), "activities", len(inputs))
	return nil
}

package catalogController

import (
	"context"
	"errors"
	"kaudio/config"
	"kaudio/internal/database"
	"kaudio/internal/events"
	. "kaudio/internal/models"
	"kaudio/internal/repositories"
	"kaudio/internal/services"
	"kaudio/internal/testutil"
	"kaudio/internal/types"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalogFixture struct {
	db       database.DB
	ctl      CatalogControllerInterface
	owner    *User
	stranger *User
	admin    *User
	artist   *Artist
	album    *Album
	track    *Track
}

func newCatalogFixture(t *testing.T) catalogFixture {
	t.Helper()

	db := testutil.NewDB(t)
	cfg := config.Config{}
	repos := repositories.New(db, cfg)
	bus := events.New(nil)
	t.Cleanup(func() { _ = bus.Close() })

	owner := testutil.CreateUser(t, db.SQL, "owner")
	admin := testutil.CreateUser(t, db.SQL, "admin")
	admin.Role = RoleAdmin
	require.NoError(t, db.SQL.Model(admin).Update("role", RoleAdmin).Error)

	artist := testutil.CreateArtist(t, db.SQL, "Band", owner)
	album := testutil.CreateAlbum(t, db.SQL, "Record", artist)

	return catalogFixture{
		db:       db,
		ctl:      New(repos, services.New(db, repos, cfg, bus), cfg, db),
		owner:    owner,
		stranger: testutil.CreateUser(t, db.SQL, "stranger"),
		admin:    admin,
		artist:   artist,
		album:    album,
		track:    testutil.CreateTrack(t, db.SQL, "Single", artist, nil, 0, 200),
	}
}

func TestCatalogController_NonOwnersCannotManage(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		call func(user *User) error
	}{
		{
			name: "update artist",
			call: func(user *User) error {
				_, err := f.ctl.UpdateArtist(ctx, user, f.artist.ID, &ArtistRequest{Name: "Renamed"})
				return err
			},
		},
		{
			name: "delete artist",
			call: func(user *User) error { return f.ctl.DeleteArtist(ctx, user, f.artist.ID) },
		},
		{
			name: "create album",
			call: func(user *User) error {
				_, err := f.ctl.CreateAlbum(ctx, user, &AlbumRequest{Title: "Bootleg", ArtistID: f.artist.ID})
				return err
			},
		},
		{
			name: "update album",
			call: func(user *User) error {
				_, err := f.ctl.UpdateAlbum(ctx, user, f.album.ID, &AlbumRequest{Title: "Remaster"})
				return err
			},
		},
		{
			name: "delete album",
			call: func(user *User) error { return f.ctl.DeleteAlbum(ctx, user, f.album.ID) },
		},
		{
			name: "set album genres",
			call: func(user *User) error { return f.ctl.SetAlbumGenres(ctx, user, f.album.ID, nil) },
		},
		{
			name: "create track",
			call: func(user *User) error {
				_, err := f.ctl.CreateTrack(ctx, user, &TrackRequest{Title: "Cover", ArtistID: f.artist.ID, Duration: 100})
				return err
			},
		},
		{
			name: "update track",
			call: func(user *User) error {
				_, err := f.ctl.UpdateTrack(ctx, user, f.track.ID, &TrackRequest{Title: "Edit", Duration: 100})
				return err
			},
		},
		{
			name: "delete track",
			call: func(user *User) error { return f.ctl.DeleteTrack(ctx, user, f.track.ID) },
		},
		{
			name: "set track genres",
			call: func(user *User) error { return f.ctl.SetTrackGenres(ctx, user, f.track.ID, nil) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call(f.stranger)
			assert.True(t, errors.Is(err, types.ErrPermission), err)
		})
	}

	assert.Equal(t, "Band", testutil.Reload[Artist](t, f.db.SQL, f.artist.ID).Name)
	assert.Equal(t, "Record", testutil.Reload[Album](t, f.db.SQL, f.album.ID).Title)
	assert.Equal(t, "Single", testutil.Reload[Track](t, f.db.SQL, f.track.ID).Title)
}

func TestCatalogController_OwnerAndAdminCanManage(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	artist, err := f.ctl.UpdateArtist(ctx, f.owner, f.artist.ID, &ArtistRequest{Name: "Band Reunited"})
	require.NoError(t, err)
	assert.Equal(t, "Band Reunited", artist.Name)

	album, err := f.ctl.UpdateAlbum(ctx, f.admin, f.album.ID, &AlbumRequest{Title: "Record (Deluxe)"})
	require.NoError(t, err)
	assert.Equal(t, "Record (Deluxe)", album.Title)

	track, err := f.ctl.UpdateTrack(ctx, f.admin, f.track.ID, &TrackRequest{Title: "Single Edit", Duration: 180})
	require.NoError(t, err)
	assert.Equal(t, "3:00", track.DurationDisplay)

	require.NoError(t, f.ctl.DeleteTrack(ctx, f.owner, f.track.ID))
	_, err = f.ctl.GetTrack(ctx, f.track.ID)
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

func TestCatalogController_MissingRowsAreNotFound(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	_, err := f.ctl.UpdateArtist(ctx, f.stranger, uuid.New(), &ArtistRequest{Name: "Ghost"})
	assert.True(t, errors.Is(err, types.ErrNotFound))

	assert.True(t, errors.Is(f.ctl.DeleteAlbum(ctx, f.stranger, uuid.New()), types.ErrNotFound))
	assert.True(t, errors.Is(f.ctl.DeleteTrack(ctx, f.stranger, uuid.New()), types.ErrNotFound))
}

func TestCatalogController_AdminOnlyOperations(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	for _, user := range []*User{f.owner, f.stranger} {
		_, err := f.ctl.VerifyArtist(ctx, user, f.artist.ID, true)
		assert.True(t, errors.Is(err, types.ErrPermission), user.Username)

		_, err = f.ctl.SetExplicit(ctx, user, f.track.ID, true)
		assert.True(t, errors.Is(err, types.ErrPermission), user.Username)

		_, err = f.ctl.CreateGenre(ctx, user, &GenreRequest{Title: "Jazz"})
		assert.True(t, errors.Is(err, types.ErrPermission), user.Username)

		_, err = f.ctl.RecalculateAlbum(ctx, user, f.album.ID)
		assert.True(t, errors.Is(err, types.ErrPermission), user.Username)
	}

	artist, err := f.ctl.VerifyArtist(ctx, f.admin, f.artist.ID, true)
	require.NoError(t, err)
	assert.True(t, artist.IsVerified)

	track, err := f.ctl.SetExplicit(ctx, f.admin, f.track.ID, true)
	require.NoError(t, err)
	assert.True(t, track.IsExplicit)

	genre, err := f.ctl.CreateGenre(ctx, f.admin, &GenreRequest{Title: "Jazz"})
	require.NoError(t, err)
	assert.Equal(t, "Jazz", genre.Title)

	_, err = f.ctl.CreateGenre(ctx, f.admin, &GenreRequest{Title: "Jazz"})
	assert.True(t, errors.Is(err, types.ErrConflict))

	_, err = f.ctl.CreateGenre(ctx, f.admin, &GenreRequest{Title: "   "})
	assert.True(t, errors.Is(err, types.ErrValidation))
}

func TestCatalogController_GenreListings(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	genre := testutil.CreateGenre(t, f.db.SQL, "Jazz")
	require.NoError(t, f.ctl.SetAlbumGenres(ctx, f.owner, f.album.ID, []uuid.UUID{genre.ID}))
	require.NoError(t, f.ctl.SetTrackGenres(ctx, f.owner, f.track.ID, []uuid.UUID{genre.ID}))

	albums, err := f.ctl.ListGenreAlbums(ctx, genre.ID, repositories.AlbumFilter{})
	require.NoError(t, err)
	require.Len(t, albums, 1)
	assert.Equal(t, f.album.ID, albums[0].ID)

	tracks, err := f.ctl.ListGenreTracks(ctx, genre.ID, repositories.TrackFilter{Title: "single"})
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "3:20", tracks[0].DurationDisplay)

	_, err = f.ctl.ListGenreAlbums(ctx, uuid.New(), repositories.AlbumFilter{})
	assert.True(t, errors.Is(err, types.ErrNotFound))

	_, err = f.ctl.ListGenreTracks(ctx, uuid.New(), repositories.TrackFilter{})
	assert.True(t, errors.Is(err, types.ErrNotFound))

	err = f.ctl.SetAlbumGenres(ctx, f.owner, f.album.ID, []uuid.UUID{uuid.New()})
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

package services

import (
	"context"
	"errors"
	"kaudio/internal/models"
	"kaudio/internal/testutil"
	"kaudio/internal/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTrack(t *testing.T, svc Service, track *models.Track) error {
	t.Helper()
	return svc.Transaction.Execute(context.Background(), func(ctx context.Context, tx *gorm.DB) error {
		return svc.Catalog.CreateTrack(ctx, tx, track)
	})
}

func albumTrack(title string, artist *models.Artist, album *models.Album, number, duration int) *models.Track {
	return &models.Track{
		Title:       title,
		ArtistID:    artist.ID,
		AlbumID:     &album.ID,
		TrackNumber: &number,
		Duration:    duration,
	}
}

func TestCatalogService_CreateTrackMaintainsAlbumTotals(t *testing.T) {
	db, _, svc := newTestServices(t)

	artist := testutil.CreateArtist(t, db.SQL, "Artist", nil)
	album := testutil.CreateAlbum(t, db.SQL, "Album", artist)

	require.NoError(t, createTrack(t, svc, albumTrack("One", artist, album, 1, 180)))
	require.NoError(t, createTrack(t, svc, albumTrack("Two", artist, album, 2, 240)))

	stored := testutil.Reload[models.Album](t, db.SQL, album.ID)
	assert.Equal(t, 2, stored.TotalTracks)
	assert.Equal(t, 420, stored.TotalDuration)
}

func TestCatalogService_CreateTrackRejectsConflicts(t *testing.T) {
	db, _, svc := newTestServices(t)

	artist := testutil.CreateArtist(t, db.SQL, "Artist", nil)
	otherArtist := testutil.CreateArtist(t, db.SQL, "Other", nil)
	album := testutil.CreateAlbum(t, db.SQL, "Album", artist)

	require.NoError(t, createTrack(t, svc, albumTrack("One", artist, album, 1, 180)))

	tests := []struct {
		name  string
		track *models.Track
	}{
		{name: "duplicate title", track: albumTrack("One", artist, album, 2, 100)},
		{name: "duplicate number", track: albumTrack("Two", artist, album, 1, 100)},
		{name: "foreign artist", track: albumTrack("Three", otherArtist, album, 3, 100)},
		{name: "missing number", track: &models.Track{Title: "Four", ArtistID: artist.ID, AlbumID: &album.ID}},
		{name: "blank title", track: albumTrack("  ", artist, album, 5, 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := createTrack(t, svc, tt.track)
			assert.True(t, errors.Is(err, types.ErrValidation), "got %v", err)
		})
	}

	stored := testutil.Reload[models.Album](t, db.SQL, album.ID)
	assert.Equal(t, 1, stored.TotalTracks)
	assert.Equal(t, 180, stored.TotalDuration)
}

func TestCatalogService_UpdateTrackDurationFlowsIntoTotals(t *testing.T) {
	db, _, svc := newTestServices(t)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db.SQL, "owner")
	artist := testutil.CreateArtist(t, db.SQL, "Artist", nil)
	album := testutil.CreateAlbum(t, db.SQL, "Album", artist)
	track := albumTrack("One", artist, album, 1, 180)
	require.NoError(t, createTrack(t, svc, track))

	playlist := testutil.CreatePlaylist(t, db.SQL, "Mix", owner, false)
	_, err := svc.Activity.Record(ctx, owner, ActivityInput{
		Type:       models.ActivityAddToPlaylist,
		TrackID:    &track.ID,
		PlaylistID: &playlist.ID,
	})
	require.NoError(t, err)

	number := 1
	updated := &models.Track{Title: "One (Remastered)", TrackNumber: &number, Duration: 200}
	err = svc.Transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return svc.Catalog.UpdateTrack(ctx, tx, track, updated)
	})
	require.NoError(t, err)

	stored := testutil.Reload[models.Track](t, db.SQL, track.ID)
	assert.Equal(t, "One (Remastered)", stored.Title)
	assert.Equal(t, artist.ID, stored.ArtistID)
	require.NotNil(t, stored.AlbumID)
	assert.Equal(t, album.ID, *stored.AlbumID)

	assert.Equal(t, 200, testutil.Reload[models.Album](t, db.SQL, album.ID).TotalDuration)
	assert.Equal(t, 200, testutil.Reload[models.Playlist](t, db.SQL, playlist.ID).TotalDuration)
}

func TestCatalogService_DeleteTrackCascades(t *testing.T) {
	db, repos, svc := newTestServices(t)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db.SQL, "owner")
	artist := testutil.CreateArtist(t, db.SQL, "Artist", nil)
	album := testutil.CreateAlbum(t, db.SQL, "Album", artist)
	first := albumTrack("One", artist, album, 1, 100)
	second := albumTrack("Two", artist, album, 2, 200)
	require.NoError(t, createTrack(t, svc, first))
	require.NoError(t, createTrack(t, svc, second))

	playlist := testutil.CreatePlaylist(t, db.SQL, "Mix", owner, false)
	for _, track := range []*models.Track{first, second} {
		_, err := svc.Activity.Record(ctx, owner, ActivityInput{
			Type:       models.ActivityAddToPlaylist,
			TrackID:    &track.ID,
			PlaylistID: &playlist.ID,
		})
		require.NoError(t, err)
	}
	for range 3 {
		_, err := svc.Activity.Record(ctx, owner, ActivityInput{Type: models.ActivityPlay, TrackID: &first.ID})
		require.NoError(t, err)
	}
	_, err := svc.Activity.Record(ctx, owner, ActivityInput{Type: models.ActivityPlay, TrackID: &second.ID})
	require.NoError(t, err)

	err = svc.Transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return svc.Catalog.DeleteTrack(ctx, tx, first.ID)
	})
	require.NoError(t, err)

	_, err = repos.Track.GetByID(ctx, db.SQL, first.ID)
	assert.True(t, errors.Is(err, types.ErrNotFound))

	storedAlbum := testutil.Reload[models.Album](t, db.SQL, album.ID)
	assert.Equal(t, 1, storedAlbum.TotalTracks)
	assert.Equal(t, 200, storedAlbum.TotalDuration)
	assert.Equal(t, 1, storedAlbum.PlayCount)
	assert.Equal(t, 1, testutil.Reload[models.Artist](t, db.SQL, artist.ID).MonthlyListeners)

	storedPlaylist, err := repos.Playlist.GetWithTracks(ctx, db.SQL, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, storedPlaylist.TotalTracks)
	assert.Equal(t, 200, storedPlaylist.TotalDuration)
	require.Len(t, storedPlaylist.Tracks, 1)
	assert.Equal(t, second.ID, storedPlaylist.Tracks[0].TrackID)
	assert.Equal(t, 1, storedPlaylist.Tracks[0].Position)

	report, err := svc.Reconciliation.ReconcileAll(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, report.Mismatches)
}

func TestCatalogService_DeleteUserCascades(t *testing.T) {
	db, repos, svc := newTestServices(t)
	ctx := context.Background()

	leaving := testutil.CreateUser(t, db.SQL, "leaving")
	staying := testutil.CreateUser(t, db.SQL, "staying")
	artist := testutil.CreateArtist(t, db.SQL, "Artist", nil)
	album := testutil.CreateAlbum(t, db.SQL, "Album", artist)
	track := albumTrack("One", artist, album, 1, 100)
	require.NoError(t, createTrack(t, svc, track))

	for _, user := range []*models.User{leaving, staying} {
		_, err := svc.Activity.Record(ctx, user, ActivityInput{Type: models.ActivityPlay, TrackID: &track.ID})
		require.NoError(t, err)
		_, err = svc.Activity.Record(ctx, user, ActivityInput{Type: models.ActivityLike, TrackID: &track.ID})
		require.NoError(t, err)
	}
	testutil.CreatePlaylist(t, db.SQL, "Mine", leaving, true)

	require.NoError(t, db.SQL.Create(&models.TrackReview{UserID: leaving.ID, TrackID: track.ID, Rating: 1}).Error)
	require.NoError(t, db.SQL.Create(&models.TrackReview{UserID: staying.ID, TrackID: track.ID, Rating: 5}).Error)

	err := svc.Transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return svc.Catalog.DeleteUser(ctx, tx, leaving.ID)
	})
	require.NoError(t, err)

	_, err = repos.User.GetByID(ctx, db.SQL, leaving.ID)
	assert.True(t, errors.Is(err, types.ErrNotFound))

	stored := testutil.Reload[models.Track](t, db.SQL, track.ID)
	assert.Equal(t, 1, stored.PlayCount)
	assert.Equal(t, 1, stored.LikesCount)
	require.NotNil(t, stored.AvgRating)
	assert.Equal(t, "5", stored.AvgRating.String())

	playlists, err := repos.Playlist.ListByUser(ctx, db.SQL, leaving.ID)
	require.NoError(t, err)
	assert.Empty(t, playlists)

	report, err := svc.Reconciliation.ReconcileAll(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, report.Mismatches)
}

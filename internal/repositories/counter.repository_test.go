package repositories

import (
	"context"
	"errors"
	"kaudio/internal/models"
	"kaudio/internal/testutil"
	"kaudio/internal/types"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterRepository_IncrementDecrement(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCounterRepository()
	ctx := context.Background()

	artist := testutil.CreateArtist(t, db.SQL, "Artist", nil)
	album := testutil.CreateAlbum(t, db.SQL, "Album", artist)
	track := testutil.CreateTrack(t, db.SQL, "Song", artist, album, 1, 200)

	require.NoError(t, repo.Increment(ctx, db.SQL, TrackPlayCount, track.ID, 3))
	require.NoError(t, repo.Decrement(ctx, db.SQL, TrackPlayCount, track.ID, 1))
	assert.Equal(t, 2, testutil.Reload[models.Track](t, db.SQL, track.ID).PlayCount)

	require.NoError(t, repo.Decrement(ctx, db.SQL, TrackPlayCount, track.ID, 10))
	assert.Equal(t, 0, testutil.Reload[models.Track](t, db.SQL, track.ID).PlayCount)

	require.NoError(t, repo.Adjust(ctx, db.SQL, AlbumTotalDuration, album.ID, 120))
	require.NoError(t, repo.Adjust(ctx, db.SQL, AlbumTotalDuration, album.ID, -20))
	require.NoError(t, repo.Adjust(ctx, db.SQL, AlbumTotalDuration, album.ID, 0))
	assert.Equal(t, 100, testutil.Reload[models.Album](t, db.SQL, album.ID).TotalDuration)
}

func TestCounterRepository_MissingRow(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCounterRepository()

	err := repo.Increment(context.Background(), db.SQL, TrackLikesCount, uuid.New(), 1)
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

func TestCounterRepository_Recompute(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCounterRepository()
	ctx := context.Background()

	user := testutil.CreateUser(t, db.SQL, "listener")
	artist := testutil.CreateArtist(t, db.SQL, "Artist", nil)
	album := testutil.CreateAlbum(t, db.SQL, "Album", artist)
	first := testutil.CreateTrack(t, db.SQL, "One", artist, album, 1, 100)
	second := testutil.CreateTrack(t, db.SQL, "Two", artist, album, 2, 150)
	single := testutil.CreateTrack(t, db.SQL, "Single", artist, nil, 0, 90)
	playlist := testutil.CreatePlaylist(t, db.SQL, "Mix", user, false)

	activities := []models.UserActivity{
		{UserID: user.ID, ActivityType: models.ActivityPlay, TrackID: &first.ID},
		{UserID: user.ID, ActivityType: models.ActivityPlay, TrackID: &first.ID},
		{UserID: user.ID, ActivityType: models.ActivityPlay, TrackID: &second.ID},
		{UserID: user.ID, ActivityType: models.ActivityPlay, TrackID: &single.ID},
		{UserID: user.ID, ActivityType: models.ActivityLike, TrackID: &first.ID},
		{UserID: user.ID, ActivityType: models.ActivityLikeAlbum, AlbumID: &album.ID},
	}
	for i := range activities {
		require.NoError(t, db.SQL.Create(&activities[i]).Error)
	}
	for i, track := range []*models.Track{first, single} {
		require.NoError(t, db.SQL.Create(&models.PlaylistTrack{
			BaseLinkModel: models.BaseLinkModel{Position: i + 1},
			PlaylistID:    playlist.ID,
			TrackID:       track.ID,
		}).Error)
	}

	trackCounters, err := repo.RecomputeTrack(ctx, db.SQL, first.ID)
	require.NoError(t, err)
	assert.Equal(t, TrackCounters{PlayCount: 2, LikesCount: 1}, trackCounters)

	albumCounters, err := repo.RecomputeAlbum(ctx, db.SQL, album.ID)
	require.NoError(t, err)
	assert.Equal(t, AlbumCounters{PlayCount: 3, LikesCount: 1, TotalTracks: 2, TotalDuration: 250}, albumCounters)

	totals, err := repo.RecomputePlaylist(ctx, db.SQL, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, CollectionTotals{TotalTracks: 2, TotalDuration: 190}, totals)

	listeners, err := repo.RecomputeArtistListeners(ctx, db.SQL, artist.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), listeners)
}

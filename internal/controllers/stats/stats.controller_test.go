package statsController

import (
	"context"
	"errors"
	"kaudio/config"
	"kaudio/internal/models"
	"kaudio/internal/repositories"
	"kaudio/internal/testutil"
	"kaudio/internal/types"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsController_Ratings(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := config.Config{}
	controller := New(repositories.New(db, cfg), cfg, db)
	ctx := context.Background()

	artist := testutil.CreateArtist(t, db.SQL, "Artist", nil)
	album := testutil.CreateAlbum(t, db.SQL, "Album", artist)
	track := testutil.CreateTrack(t, db.SQL, "Song", artist, album, 1, 180)

	rating, err := controller.AlbumRating(ctx, album.ID)
	require.NoError(t, err)
	assert.Nil(t, rating.Rating)
	assert.Zero(t, rating.Reviews)

	rating, err = controller.TrackRating(ctx, track.ID)
	require.NoError(t, err)
	assert.Nil(t, rating.Rating)

	for i, score := range []int{4, 5} {
		reviewer := testutil.CreateUser(t, db.SQL, []string{"first", "second"}[i])
		require.NoError(t, db.SQL.Create(&models.AlbumReview{UserID: reviewer.ID, AlbumID: album.ID, Rating: score}).Error)
		require.NoError(t, db.SQL.Create(&models.TrackReview{UserID: reviewer.ID, TrackID: track.ID, Rating: score - 2}).Error)
	}

	rating, err = controller.AlbumRating(ctx, album.ID)
	require.NoError(t, err)
	require.NotNil(t, rating.Rating)
	assert.InDelta(t, 4.5, *rating.Rating, 0.001)
	assert.Equal(t, 2, rating.Reviews)

	rating, err = controller.TrackRating(ctx, track.ID)
	require.NoError(t, err)
	require.NotNil(t, rating.Rating)
	assert.InDelta(t, 2.5, *rating.Rating, 0.001)

	_, err = controller.AlbumRating(ctx, uuid.New())
	assert.True(t, errors.Is(err, types.ErrNotFound))

	_, err = controller.TrackRating(ctx, uuid.New())
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

func TestStatsController_TrackPopularity(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := config.Config{}
	controller := New(repositories.New(db, cfg), cfg, db)
	ctx := context.Background()

	artist := testutil.CreateArtist(t, db.SQL, "Artist", nil)
	track := testutil.CreateTrack(t, db.SQL, "Song", artist, nil, 0, 180)
	require.NoError(t, db.SQL.Model(track).UpdateColumns(map[string]any{"play_count": 500, "likes_count": 200}).Error)

	popularity, err := controller.TrackPopularity(ctx, track.ID)
	require.NoError(t, err)
	assert.Equal(t, 500, popularity.PlayCount)
	assert.InDelta(t, 70.0, popularity.Score, 0.001)

	_, err = controller.TrackPopularity(ctx, uuid.New())
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

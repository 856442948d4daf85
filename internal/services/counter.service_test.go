package services

import (
	"context"
	"kaudio/internal/models"
	"kaudio/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopularityScore(t *testing.T) {
	tests := []struct {
		name     string
		plays    int
		likes    int
		expected float64
	}{
		{name: "no activity", plays: 0, likes: 0, expected: 0},
		{name: "half of both caps", plays: 500, likes: 50, expected: 50},
		{name: "plays only at cap", plays: 1000, likes: 0, expected: 60},
		{name: "likes only at cap", plays: 0, likes: 100, expected: 40},
		{name: "beyond caps", plays: 5000, likes: 900, expected: 100},
		{name: "negative clamps", plays: -10, likes: -3, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, PopularityScore(tt.plays, tt.likes), 1e-9)
		})
	}
}

func TestCounterService_RecalculateTrackRating(t *testing.T) {
	db, _, svc := newTestServices(t)
	ctx := context.Background()

	artist := testutil.CreateArtist(t, db.SQL, "Artist", nil)
	track := testutil.CreateTrack(t, db.SQL, "Song", artist, nil, 0, 100)

	rating, err := svc.Counter.RecalculateTrackRating(ctx, db.SQL, track.ID)
	require.NoError(t, err)
	assert.Nil(t, rating)

	for i, value := range []int{5, 4, 4} {
		user := testutil.CreateUser(t, db.SQL, "reviewer"+string(rune('a'+i)))
		require.NoError(t, db.SQL.Create(&models.TrackReview{UserID: user.ID, TrackID: track.ID, Rating: value}).Error)
	}

	rating, err = svc.Counter.RecalculateTrackRating(ctx, db.SQL, track.ID)
	require.NoError(t, err)
	require.NotNil(t, rating)
	assert.Equal(t, "4.33", rating.String())
}

func TestCounterService_RecalculateCollections(t *testing.T) {
	db, _, svc := newTestServices(t)
	ctx := context.Background()

	artist := testutil.CreateArtist(t, db.SQL, "Artist", nil)
	album := testutil.CreateAlbum(t, db.SQL, "Album", artist)
	testutil.CreateTrack(t, db.SQL, "One", artist, album, 1, 100)
	testutil.CreateTrack(t, db.SQL, "Two", artist, album, 2, 50)

	totals, err := svc.Counter.RecalculateAlbum(ctx, db.SQL, album.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), totals.TotalTracks)
	assert.Equal(t, int64(150), totals.TotalDuration)

	stored := testutil.Reload[models.Album](t, db.SQL, album.ID)
	assert.Equal(t, 2, stored.TotalTracks)
	assert.Equal(t, 150, stored.TotalDuration)
}

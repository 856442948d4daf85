package repositories

import (
	"context"
	"kaudio/internal/models"
	"kaudio/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsRepository_PopularTracks(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewStatsRepository(nil, time.Minute)
	ctx := context.Background()

	artist := testutil.CreateArtist(t, db.SQL, "Artist", nil)
	short := testutil.CreateTrack(t, db.SQL, "Short", artist, nil, 0, 0)
	long := testutil.CreateTrack(t, db.SQL, "Long", artist, nil, 0, 600)
	tied := testutil.CreateTrack(t, db.SQL, "Tied", artist, nil, 0, 0)

	require.NoError(t, db.SQL.Model(short).UpdateColumns(map[string]any{"play_count": 10, "likes_count": 1}).Error)
	require.NoError(t, db.SQL.Model(long).UpdateColumns(map[string]any{"play_count": 30, "likes_count": 0}).Error)
	require.NoError(t, db.SQL.Model(tied).UpdateColumns(map[string]any{"play_count": 12, "likes_count": 0}).Error)

	tracks, err := repo.PopularTracks(ctx, db.SQL, 0)
	require.NoError(t, err)
	require.Len(t, tracks, 3)

	// short scores 12, long 30/3 = 10, tied 12 but created later
	assert.Equal(t, short.ID, tracks[0].TrackID)
	assert.Equal(t, tied.ID, tracks[1].TrackID)
	assert.Equal(t, long.ID, tracks[2].TrackID)
	assert.InDelta(t, 12.0, tracks[0].Score, 0.0001)
	assert.InDelta(t, 10.0, tracks[2].Score, 0.0001)

	limited, err := repo.PopularTracks(ctx, db.SQL, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestStatsRepository_GenreStatistics(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewStatsRepository(nil, time.Minute)
	ctx := context.Background()

	artist := testutil.CreateArtist(t, db.SQL, "Artist", nil)
	rock := testutil.CreateGenre(t, db.SQL, "Rock")
	jazz := testutil.CreateGenre(t, db.SQL, "Jazz")
	testutil.CreateGenre(t, db.SQL, "Empty")

	first := testutil.CreateTrack(t, db.SQL, "First", artist, nil, 0, 100)
	second := testutil.CreateTrack(t, db.SQL, "Second", artist, nil, 0, 200)
	require.NoError(t, db.SQL.Model(first).UpdateColumns(map[string]any{"play_count": 4, "likes_count": 2}).Error)
	require.NoError(t, db.SQL.Model(second).UpdateColumns(map[string]any{"play_count": 2, "likes_count": 0}).Error)

	links := []models.TrackGenre{
		{TrackID: first.ID, GenreID: rock.ID},
		{TrackID: second.ID, GenreID: rock.ID},
		{TrackID: first.ID, GenreID: jazz.ID},
	}
	require.NoError(t, db.SQL.Create(&links).Error)

	stats, err := repo.GenreStatistics(ctx, db.SQL)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "Rock", stats[0].Genre)
	assert.Equal(t, int64(2), stats[0].TrackCount)
	assert.Equal(t, int64(300), stats[0].TotalDuration)
	assert.InDelta(t, 3.0, stats[0].AvgPlays, 0.0001)
	assert.InDelta(t, 1.0, stats[0].AvgLikes, 0.0001)

	assert.Equal(t, "Jazz", stats[1].Genre)
	assert.Equal(t, int64(1), stats[1].TrackCount)
}

func TestStatsRepository_TopArtists(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewStatsRepository(nil, time.Minute)
	ctx := context.Background()

	long := testutil.CreateArtist(t, db.SQL, "Long Player", nil)
	short := testutil.CreateArtist(t, db.SQL, "Short Player", nil)
	testutil.CreateArtist(t, db.SQL, "Silent", nil)

	testutil.CreateTrack(t, db.SQL, "A", long, nil, 0, 300)
	testutil.CreateTrack(t, db.SQL, "B", long, nil, 0, 100)
	testutil.CreateTrack(t, db.SQL, "C", short, nil, 0, 250)

	stats, err := repo.TopArtists(ctx, db.SQL, 0)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, long.ID, stats[0].ArtistID)
	assert.Equal(t, int64(2), stats[0].TotalTracks)
	assert.Equal(t, int64(400), stats[0].TotalDuration)
	assert.InDelta(t, 200.0, stats[0].AvgDuration, 0.0001)
	assert.Equal(t, short.ID, stats[1].ArtistID)
}

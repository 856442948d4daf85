package repositories

import (
	"context"
	"kaudio/internal/models"
	"kaudio/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewRepository_AverageTrackRating(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewReviewRepository()
	ctx := context.Background()

	artist := testutil.CreateArtist(t, db.SQL, "Artist", nil)
	track := testutil.CreateTrack(t, db.SQL, "Song", artist, nil, 0, 120)

	avg, err := repo.AverageTrackRating(ctx, db.SQL, track.ID)
	require.NoError(t, err)
	assert.Nil(t, avg)

	for i, rating := range []int{4, 5, 2} {
		user := testutil.CreateUser(t, db.SQL, "reviewer"+string(rune('a'+i)))
		require.NoError(t, repo.CreateTrackReview(ctx, db.SQL, &models.TrackReview{
			UserID:  user.ID,
			TrackID: track.ID,
			Rating:  rating,
		}))
	}

	avg, err = repo.AverageTrackRating(ctx, db.SQL, track.ID)
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.InDelta(t, 11.0/3.0, *avg, 0.0001)

	reviews, err := repo.ListTrackReviews(ctx, db.SQL, track.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 3)
}

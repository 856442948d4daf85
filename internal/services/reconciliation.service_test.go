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
)

func TestReconciliationService_DetectsAndRepairs(t *testing.T) {
	db, _, svc := newTestServices(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, db.SQL, "listener")
	artist := testutil.CreateArtist(t, db.SQL, "Artist", nil)
	album := testutil.CreateAlbum(t, db.SQL, "Album", artist)
	track := albumTrack("One", artist, album, 1, 150)
	require.NoError(t, createTrack(t, svc, track))

	for range 2 {
		_, err := svc.Activity.Record(ctx, user, ActivityInput{Type: models.ActivityPlay, TrackID: &track.ID})
		require.NoError(t, err)
	}

	report, err := svc.Reconciliation.ReconcileAll(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, report.Mismatches)
	assert.Equal(t, 3, report.Checked)

	require.NoError(t, db.SQL.Model(&models.Track{}).Where("id = ?", track.ID).UpdateColumn("play_count", 40).Error)
	require.NoError(t, db.SQL.Model(&models.Album{}).Where("id = ?", album.ID).UpdateColumn("total_duration", 9).Error)

	report, err = svc.Reconciliation.ReconcileAll(ctx, false)
	require.NoError(t, err)
	require.Len(t, report.Mismatches, 2)
	assert.False(t, report.Repaired)

	mismatch := report.Mismatches[0]
	assert.Equal(t, "track", mismatch.Entity)
	assert.Equal(t, "play_count", mismatch.Field)
	assert.Equal(t, int64(40), mismatch.Cached)
	assert.Equal(t, int64(2), mismatch.Actual)
	assert.True(t, errors.Is(mismatch, types.ErrConsistency))

	assert.Equal(t, 40, testutil.Reload[models.Track](t, db.SQL, track.ID).PlayCount)

	report, err = svc.Reconciliation.ReconcileAll(ctx, true)
	require.NoError(t, err)
	assert.Len(t, report.Mismatches, 2)
	assert.True(t, report.Repaired)

	assert.Equal(t, 2, testutil.Reload[models.Track](t, db.SQL, track.ID).PlayCount)
	assert.Equal(t, 150, testutil.Reload[models.Album](t, db.SQL, album.ID).TotalDuration)

	report, err = svc.Reconciliation.ReconcileAll(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, report.Mismatches)
	assert.False(t, report.Repaired)
}

func TestReconciliationService_CheckPlaylist(t *testing.T) {
	db, _, svc := newTestServices(t)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db.SQL, "owner")
	artist := testutil.CreateArtist(t, db.SQL, "Artist", nil)
	track := testutil.CreateTrack(t, db.SQL, "Song", artist, nil, 0, 90)
	playlist := testutil.CreatePlaylist(t, db.SQL, "Mix", owner, false)

	_, err := svc.Activity.Record(ctx, owner, ActivityInput{
		Type:       models.ActivityAddToPlaylist,
		TrackID:    &track.ID,
		PlaylistID: &playlist.ID,
	})
	require.NoError(t, err)

	require.NoError(t, db.SQL.Model(&models.Playlist{}).Where("id = ?", playlist.ID).UpdateColumn("total_tracks", 0).Error)

	found, err := svc.Reconciliation.CheckPlaylist(ctx, db.SQL, playlist.ID)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "total_tracks", found[0].Field)
	assert.Equal(t, int64(1), found[0].Actual)
}

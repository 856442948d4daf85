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
	"gorm.io/gorm"
)

func seedPlaylist(t *testing.T, db *gorm.DB, trackCount int) (*models.Playlist, []*models.Track) {
	t.Helper()

	user := testutil.CreateUser(t, db, "owner")
	artist := testutil.CreateArtist(t, db, "Artist", nil)
	album := testutil.CreateAlbum(t, db, "Album", artist)
	playlist := testutil.CreatePlaylist(t, db, "Mix", user, true)

	tracks := make([]*models.Track, 0, trackCount)
	for i := range trackCount {
		track := testutil.CreateTrack(t, db, "Track "+string(rune('A'+i)), artist, album, i+1, 180)
		require.NoError(t, db.Create(&models.PlaylistTrack{
			BaseLinkModel: models.BaseLinkModel{Position: i + 1},
			PlaylistID:    playlist.ID,
			TrackID:       track.ID,
		}).Error)
		tracks = append(tracks, track)
	}

	return playlist, tracks
}

func trackOrder(t *testing.T, db *gorm.DB, playlistID uuid.UUID) []uuid.UUID {
	t.Helper()

	var ids []uuid.UUID
	require.NoError(t, db.Model(&models.PlaylistTrack{}).
		Where("playlist_id = ?", playlistID).
		Order("position ASC").
		Pluck("track_id", &ids).Error)
	return ids
}

func TestPositionRepository_Next(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPositionRepository()
	ctx := context.Background()

	empty := PlaylistScope(uuid.New())
	next, err := repo.Next(ctx, db.SQL, empty)
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	playlist, _ := seedPlaylist(t, db.SQL, 3)
	next, err = repo.Next(ctx, db.SQL, PlaylistScope(playlist.ID))
	require.NoError(t, err)
	assert.Equal(t, 4, next)
}

func TestPositionRepository_Compact(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPositionRepository()
	ctx := context.Background()

	playlist, tracks := seedPlaylist(t, db.SQL, 4)
	require.NoError(t, db.SQL.
		Where("playlist_id = ? AND track_id = ?", playlist.ID, tracks[1].ID).
		Delete(&models.PlaylistTrack{}).Error)

	require.NoError(t, repo.Compact(ctx, db.SQL, PlaylistScope(playlist.ID)))

	positions, err := repo.Positions(ctx, db.SQL, PlaylistScope(playlist.ID))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, positions)
	assert.Equal(t,
		[]uuid.UUID{tracks[0].ID, tracks[2].ID, tracks[3].ID},
		trackOrder(t, db.SQL, playlist.ID),
	)
}

func TestPositionRepository_Move(t *testing.T) {
	tests := []struct {
		name     string
		from     int
		to       int
		expected []int
		final    int
	}{
		{name: "move down", from: 0, to: 3, expected: []int{1, 2, 0, 3}, final: 3},
		{name: "move up", from: 3, to: 1, expected: []int{3, 0, 1, 2}, final: 1},
		{name: "clamp high", from: 1, to: 99, expected: []int{0, 2, 3, 1}, final: 4},
		{name: "clamp low", from: 2, to: -5, expected: []int{2, 0, 1, 3}, final: 1},
		{name: "same position", from: 2, to: 3, expected: []int{0, 1, 2, 3}, final: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.NewDB(t)
			repo := NewPositionRepository()
			ctx := context.Background()

			playlist, tracks := seedPlaylist(t, db.SQL, 4)
			scope := PlaylistScope(playlist.ID)

			final, err := repo.Move(ctx, db.SQL, scope, tracks[tt.from].ID, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.final, final)

			expected := make([]uuid.UUID, 0, len(tt.expected))
			for _, idx := range tt.expected {
				expected = append(expected, tracks[idx].ID)
			}
			assert.Equal(t, expected, trackOrder(t, db.SQL, playlist.ID))

			positions, err := repo.Positions(ctx, db.SQL, scope)
			require.NoError(t, err)
			assert.Equal(t, []int{1, 2, 3, 4}, positions)
		})
	}
}

func TestPositionRepository_MoveMissingItem(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPositionRepository()

	playlist, _ := seedPlaylist(t, db.SQL, 2)

	_, err := repo.Move(context.Background(), db.SQL, PlaylistScope(playlist.ID), uuid.New(), 1)
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

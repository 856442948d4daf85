package models

import (
	"errors"
	"kaudio/internal/types"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUserActivity_Validate(t *testing.T) {
	id := func() *uuid.UUID {
		v := uuid.New()
		return &v
	}
	negative := -5
	positive := 120

	tests := []struct {
		name        string
		activity    UserActivity
		expectError bool
	}{
		{
			name:     "play with track",
			activity: UserActivity{ActivityType: ActivityPlay, TrackID: id(), Duration: &positive},
		},
		{
			name:        "play without track",
			activity:    UserActivity{ActivityType: ActivityPlay},
			expectError: true,
		},
		{
			name:        "play with album only",
			activity:    UserActivity{ActivityType: ActivityPlay, AlbumID: id()},
			expectError: true,
		},
		{
			name:        "play with extra playlist",
			activity:    UserActivity{ActivityType: ActivityPlay, TrackID: id(), PlaylistID: id()},
			expectError: true,
		},
		{
			name:        "play with negative duration",
			activity:    UserActivity{ActivityType: ActivityPlay, TrackID: id(), Duration: &negative},
			expectError: true,
		},
		{
			name:     "like with track",
			activity: UserActivity{ActivityType: ActivityLike, TrackID: id()},
		},
		{
			name:     "like album with album",
			activity: UserActivity{ActivityType: ActivityLikeAlbum, AlbumID: id()},
		},
		{
			name:        "like album with track",
			activity:    UserActivity{ActivityType: ActivityLikeAlbum, TrackID: id()},
			expectError: true,
		},
		{
			name:     "add to playlist with both",
			activity: UserActivity{ActivityType: ActivityAddToPlaylist, TrackID: id(), PlaylistID: id()},
		},
		{
			name:        "add to playlist missing playlist",
			activity:    UserActivity{ActivityType: ActivityAddToPlaylist, TrackID: id()},
			expectError: true,
		},
		{
			name:        "remove from playlist missing track",
			activity:    UserActivity{ActivityType: ActivityRemoveFromPlaylist, PlaylistID: id()},
			expectError: true,
		},
		{
			name:     "follow artist",
			activity: UserActivity{ActivityType: ActivityFollowArtist, ArtistID: id()},
		},
		{
			name:        "follow artist without target",
			activity:    UserActivity{ActivityType: ActivityFollowArtist},
			expectError: true,
		},
		{
			name:        "unknown type",
			activity:    UserActivity{ActivityType: "share", TrackID: id()},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.activity.Validate()
			if tt.expectError {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, types.ErrValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestActivityType_Valid(t *testing.T) {
	for _, activityType := range []ActivityType{
		ActivityPlay,
		ActivityLike,
		ActivityLikeAlbum,
		ActivityAddToPlaylist,
		ActivityRemoveFromPlaylist,
		ActivityFollowArtist,
	} {
		assert.True(t, activityType.Valid(), string(activityType))
	}
	assert.False(t, ActivityType("skip").Valid())
}

package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestTrack_Validate(t *testing.T) {
	albumID := uuid.New()
	one := 1
	zero := 0

	tests := []struct {
		name        string
		track       Track
		expectError bool
	}{
		{name: "single without album", track: Track{Title: "Single", Duration: 180}},
		{name: "album track with number", track: Track{Title: "Intro", AlbumID: &albumID, TrackNumber: &one}},
		{name: "blank title", track: Track{Title: "   "}, expectError: true},
		{name: "negative duration", track: Track{Title: "Bad", Duration: -1}, expectError: true},
		{name: "album track without number", track: Track{Title: "Lost", AlbumID: &albumID}, expectError: true},
		{name: "zero track number", track: Track{Title: "Zero", TrackNumber: &zero}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.track.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUserSubscription_ActiveOn(t *testing.T) {
	start := datatypes.Date(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	end := datatypes.Date(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))

	open := UserSubscription{StartDate: start}
	closed := UserSubscription{StartDate: start, EndDate: &end}

	assert.False(t, open.ActiveOn(time.Date(2024, 1, 9, 23, 0, 0, 0, time.UTC)))
	assert.True(t, open.ActiveOn(time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)))
	assert.True(t, open.ActiveOn(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, closed.ActiveOn(time.Date(2024, 2, 10, 18, 0, 0, 0, time.UTC)))
	assert.False(t, closed.ActiveOn(time.Date(2024, 2, 11, 0, 0, 0, 0, time.UTC)))
}

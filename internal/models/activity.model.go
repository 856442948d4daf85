package models

import (
	"kaudio/internal/types"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityType string

const (
	ActivityPlay               ActivityType = "play"
	ActivityLike               ActivityType = "like"
	ActivityLikeAlbum          ActivityType = "like_album"
	ActivityAddToPlaylist      ActivityType = "add_to_playlist"
	ActivityRemoveFromPlaylist ActivityType = "remove_from_playlist"
	ActivityFollowArtist       ActivityType = "follow_artist"
)

type target uint8

const (
	targetTrack target = 1 << iota
	targetAlbum
	targetPlaylist
	targetArtist
)

var requiredTargets = map[ActivityType]target{
	ActivityPlay:               targetTrack,
	ActivityLike:               targetTrack,
	ActivityLikeAlbum:          targetAlbum,
	ActivityAddToPlaylist:      targetTrack | targetPlaylist,
	ActivityRemoveFromPlaylist: targetTrack | targetPlaylist,
	ActivityFollowArtist:       targetArtist,
}

var targetNames = []struct {
	target target
	name   string
}{
	{targetTrack, "track"},
	{targetAlbum, "album"},
	{targetPlaylist, "playlist"},
	{targetArtist, "artist"},
}

func (t ActivityType) Valid() bool {
	_, ok := requiredTargets[t]
	return ok
}

// UserActivity is written once and only ever deleted afterwards.
type UserActivity struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey"                                               json:"id"`
	UserID       uuid.UUID    `gorm:"type:uuid;not null;index:idx_user_activities_user_type,priority:1" json:"userId"`
	ActivityType ActivityType `gorm:"type:text;not null;index:idx_user_activities_user_type,priority:2" json:"activityType"`
	TrackID      *uuid.UUID   `gorm:"type:uuid;index"                                                    json:"trackId,omitempty"`
	AlbumID      *uuid.UUID   `gorm:"type:uuid;index"                                                    json:"albumId,omitempty"`
	PlaylistID   *uuid.UUID   `gorm:"type:uuid;index"                                                    json:"playlistId,omitempty"`
	ArtistID     *uuid.UUID   `gorm:"type:uuid;index"                                                    json:"artistId,omitempty"`
	Duration     *int         `gorm:"type:int"                                                           json:"duration,omitempty"`
	Timestamp    time.Time    `gorm:"not null;index:idx_user_activities_timestamp"                       json:"timestamp"`

	User     *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"     json:"-"`
	Track    *Track    `gorm:"foreignKey:TrackID;constraint:OnDelete:CASCADE"    json:"track,omitempty"`
	Album    *Album    `gorm:"foreignKey:AlbumID;constraint:OnDelete:CASCADE"    json:"album,omitempty"`
	Playlist *Playlist `gorm:"foreignKey:PlaylistID;constraint:OnDelete:CASCADE" json:"playlist,omitempty"`
	Artist   *Artist   `gorm:"foreignKey:ArtistID;constraint:OnDelete:CASCADE"   json:"artist,omitempty"`
}

func (a *UserActivity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		a.ID = id
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	}
	return nil
}

func (a *UserActivity) present() target {
	var set target
	if a.TrackID != nil {
		set |= targetTrack
	}
	if a.AlbumID != nil {
		set |= targetAlbum
	}
	if a.PlaylistID != nil {
		set |= targetPlaylist
	}
	if a.ArtistID != nil {
		set |= targetArtist
	}
	return set
}

// Validate checks that exactly the references required by the activity type
// are set.
func (a *UserActivity) Validate() error {
	required, ok := requiredTargets[a.ActivityType]
	if !ok {
		return types.Wrap(types.ErrValidation, "unknown activity type %q", a.ActivityType)
	}

	present := a.present()
	if present == 0 {
		return types.Wrap(types.ErrValidation, "at least one target is required")
	}

	for _, tn := range targetNames {
		switch {
		case required&tn.target != 0 && present&tn.target == 0:
			return types.Wrap(types.ErrValidation, "%s requires a %s", a.ActivityType, tn.name)
		case required&tn.target == 0 && present&tn.target != 0:
			return types.Wrap(types.ErrValidation, "%s does not accept a %s", a.ActivityType, tn.name)
		}
	}

	if a.Duration != nil && *a.Duration < 0 {
		return types.Wrap(types.ErrValidation, "duration cannot be negative")
	}

	return nil
}

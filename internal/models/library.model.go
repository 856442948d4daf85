package models

import "github.com/google/uuid"

type UserAlbum struct {
	BaseLinkModel
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_albums_pair,priority:1" json:"userId"`
	AlbumID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_albums_pair,priority:2;index" json:"albumId"`

	User  *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"  json:"-"`
	Album *Album `gorm:"foreignKey:AlbumID;constraint:OnDelete:CASCADE" json:"album,omitempty"`
}

type UserTrack struct {
	BaseLinkModel
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_tracks_pair,priority:1" json:"userId"`
	TrackID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_tracks_pair,priority:2;index" json:"trackId"`

	User  *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"  json:"-"`
	Track *Track `gorm:"foreignKey:TrackID;constraint:OnDelete:CASCADE" json:"track,omitempty"`
}

package models

import "github.com/google/uuid"

type Playlist struct {
	BaseUUIDModel
	Title         string    `gorm:"type:text;not null"          json:"title"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"    json:"userId"`
	ImgURL        string    `gorm:"type:text"                   json:"imgUrl,omitempty"`
	IsPublic      bool      `gorm:"type:bool;index"             json:"isPublic"`
	TotalTracks   int       `gorm:"type:int;not null;default:0" json:"totalTracks"`
	TotalDuration int       `gorm:"type:int;not null;default:0" json:"totalDuration"`

	User   *User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Tracks []PlaylistTrack `gorm:"foreignKey:PlaylistID"                         json:"tracks,omitempty"`
}

// VisibleTo reports whether the playlist can be read by the given user.
func (p *Playlist) VisibleTo(user *User) bool {
	if p.IsPublic {
		return true
	}
	return user != nil && (p.UserID == user.ID || user.IsAdmin())
}

type PlaylistTrack struct {
	BaseLinkModel
	PlaylistID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_playlist_tracks_pair,priority:1" json:"playlistId"`
	TrackID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_playlist_tracks_pair,priority:2;index" json:"trackId"`

	Playlist *Playlist `gorm:"foreignKey:PlaylistID;constraint:OnDelete:CASCADE" json:"-"`
	Track    *Track    `gorm:"foreignKey:TrackID;constraint:OnDelete:CASCADE"    json:"track,omitempty"`
}

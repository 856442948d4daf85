package models

import (
	"time"

	"github.com/google/uuid"
)

type Album struct {
	BaseUUIDModel
	Title         string     `gorm:"type:text;not null"                json:"title"`
	ArtistID      uuid.UUID  `gorm:"type:uuid;not null;index"          json:"artistId"`
	ReleaseDate   *time.Time `gorm:"type:date"                         json:"releaseDate,omitempty"`
	ImgURL        string     `gorm:"type:text"                         json:"imgUrl,omitempty"`
	TotalTracks   int        `gorm:"type:int;not null;default:0"       json:"totalTracks"`
	TotalDuration int        `gorm:"type:int;not null;default:0"       json:"totalDuration"`
	LikesCount    int        `gorm:"type:int;not null;default:0"       json:"likesCount"`
	PlayCount     int        `gorm:"type:int;not null;default:0"       json:"playCount"`

	Artist *Artist `gorm:"foreignKey:ArtistID;constraint:OnDelete:CASCADE" json:"artist,omitempty"`
	Tracks []Track `gorm:"foreignKey:AlbumID"                              json:"tracks,omitempty"`
	Genres []Genre `gorm:"many2many:album_genres"                          json:"genres,omitempty"`
}

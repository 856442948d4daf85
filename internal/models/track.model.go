package models

import (
	"kaudio/internal/types"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Track struct {
	BaseUUIDModel
	Title       string           `gorm:"type:text;not null;uniqueIndex:idx_tracks_album_title,priority:2"     json:"title"`
	ArtistID    uuid.UUID        `gorm:"type:uuid;not null;index"                                              json:"artistId"`
	AlbumID     *uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_tracks_album_title,priority:1;uniqueIndex:idx_tracks_album_number,priority:1" json:"albumId,omitempty"`
	TrackNumber *int             `gorm:"type:int;uniqueIndex:idx_tracks_album_number,priority:2"               json:"trackNumber,omitempty"`
	ReleaseDate *time.Time       `gorm:"type:date"                                                             json:"releaseDate,omitempty"`
	ImgURL      string           `gorm:"type:text"                                                             json:"imgUrl,omitempty"`
	Duration    int              `gorm:"type:int;not null;default:0"                                           json:"duration"`
	PlayCount   int              `gorm:"type:int;not null;default:0"                                           json:"playCount"`
	LikesCount  int              `gorm:"type:int;not null;default:0"                                           json:"likesCount"`
	AvgRating   *decimal.Decimal `gorm:"type:numeric(3,2)"                                                     json:"avgRating,omitempty"`
	IsExplicit  bool             `gorm:"type:bool"                                                             json:"isExplicit"`
	Lyrics      string           `gorm:"type:text"                                                             json:"lyrics,omitempty"`

	Artist *Artist `gorm:"foreignKey:ArtistID;constraint:OnDelete:CASCADE" json:"artist,omitempty"`
	Album  *Album  `gorm:"foreignKey:AlbumID;constraint:OnDelete:CASCADE"  json:"album,omitempty"`
	Genres []Genre `gorm:"many2many:track_genres"                          json:"genres,omitempty"`
}

func (t *Track) Validate() error {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return types.Wrap(types.ErrValidation, "track title is required")
	}
	if t.Duration < 0 {
		return types.Wrap(types.ErrValidation, "track duration cannot be negative")
	}
	if t.AlbumID != nil && (t.TrackNumber == nil || *t.TrackNumber <= 0) {
		return types.Wrap(types.ErrValidation, "track number is required for album tracks")
	}
	if t.TrackNumber != nil && *t.TrackNumber <= 0 {
		return types.Wrap(types.ErrValidation, "track number must be positive")
	}
	return nil
}

package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Genre struct {
	BaseUUIDModel
	Title  string `gorm:"type:text;not null;uniqueIndex" json:"title"`
	ImgURL string `gorm:"type:text"                      json:"imgUrl,omitempty"`
}

func (g *Genre) BeforeSave(tx *gorm.DB) error {
	g.Title = strings.TrimSpace(g.Title)
	return nil
}

type AlbumGenre struct {
	AlbumID uuid.UUID `gorm:"type:uuid;primaryKey"       json:"albumId"`
	GenreID uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"genreId"`
}

type TrackGenre struct {
	TrackID uuid.UUID `gorm:"type:uuid;primaryKey"       json:"trackId"`
	GenreID uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"genreId"`
}

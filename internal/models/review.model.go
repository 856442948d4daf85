package models

import "github.com/google/uuid"

const (
	MinRating = 1
	MaxRating = 5
)

type TrackReview struct {
	BaseUUIDModel
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_track_reviews_pair,priority:1" json:"userId"`
	TrackID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_track_reviews_pair,priority:2;index" json:"trackId"`
	Rating  int       `gorm:"type:int;not null" json:"rating"`
	Text    string    `gorm:"type:text"         json:"text"`

	User  *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"  json:"user,omitempty"`
	Track *Track `gorm:"foreignKey:TrackID;constraint:OnDelete:CASCADE" json:"-"`
}

type AlbumReview struct {
	BaseUUIDModel
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_album_reviews_pair,priority:1" json:"userId"`
	AlbumID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_album_reviews_pair,priority:2;index" json:"albumId"`
	Rating  int       `gorm:"type:int;not null" json:"rating"`
	Text    string    `gorm:"type:text"         json:"text"`

	User  *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"  json:"user,omitempty"`
	Album *Album `gorm:"foreignKey:AlbumID;constraint:OnDelete:CASCADE" json:"-"`
}

func ValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}

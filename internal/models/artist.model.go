package models

import "github.com/google/uuid"

type Artist struct {
	BaseUUIDModel
	UserID           *uuid.UUID `gorm:"type:uuid;uniqueIndex"     json:"userId,omitempty"`
	Name             string     `gorm:"type:text;not null"        json:"name"`
	Bio              string     `gorm:"type:text"                 json:"bio,omitempty"`
	Email            string     `gorm:"type:text"                 json:"email,omitempty"`
	ImgCoverURL      string     `gorm:"type:text"                 json:"imgCoverUrl,omitempty"`
	IsVerified       bool       `gorm:"type:bool"                 json:"isVerified"`
	MonthlyListeners int        `gorm:"type:int;not null;default:0" json:"monthlyListeners"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Albums []Album `gorm:"foreignKey:ArtistID"                           json:"albums,omitempty"`
}

// OwnedBy reports whether the artist profile is linked to the given account.
func (a *Artist) OwnedBy(userID uuid.UUID) bool {
	return a.UserID != nil && *a.UserID == userID
}

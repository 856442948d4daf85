package models

import (
	"strings"

	"gorm.io/gorm"
)

const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleUser      = "user"
)

type User struct {
	BaseUUIDModel
	Username      string  `gorm:"type:text;not null;uniqueIndex" json:"username"`
	Email         *string `gorm:"type:text;uniqueIndex"          json:"email,omitempty"`
	DisplayName   string  `gorm:"type:text"                      json:"displayName"`
	PasswordHash  string  `gorm:"type:text;not null"             json:"-"`
	Role          string  `gorm:"type:text;not null"             json:"role"`
	IsActive      bool    `gorm:"type:bool"                      json:"isActive"`
	ImgProfileURL string  `gorm:"type:text"                      json:"imgProfileUrl,omitempty"`
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Username = strings.TrimSpace(u.Username)
	if u.DisplayName == "" {
		u.DisplayName = u.Username
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	}
	return false
}

// UserProfile represents public user profile information
type UserProfile struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	DisplayName   string  `json:"displayName"`
	Email         *string `json:"email,omitempty"`
	Role          string  `json:"role"`
	IsActive      bool    `json:"isActive"`
	ImgProfileURL string  `json:"imgProfileUrl,omitempty"`
}

func (u *User) ToProfile() UserProfile {
	return UserProfile{
		ID:            u.ID.String(),
		Username:      u.Username,
		DisplayName:   u.DisplayName,
		Email:         u.Email,
		Role:          u.Role,
		IsActive:      u.IsActive,
		ImgProfileURL: u.ImgProfileURL,
	}
}

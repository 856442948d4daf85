package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUser_IsAdmin(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		expected bool
	}{
		{name: "admin role", role: RoleAdmin, expected: true},
		{name: "moderator role", role: RoleModerator, expected: false},
		{name: "user role", role: RoleUser, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{Role: tt.role}
			assert.Equal(t, tt.expected, user.IsAdmin())
		})
	}
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleModerator))
	assert.True(t, ValidRole(RoleUser))
	assert.False(t, ValidRole("superuser"))
	assert.False(t, ValidRole(""))
}

func TestUser_ToProfile(t *testing.T) {
	email := "ada@example.com"
	user := &User{
		Username:     "ada",
		Email:        &email,
		DisplayName:  "Ada Lovelace",
		PasswordHash: "secret-hash",
		Role:         RoleUser,
		IsActive:     true,
	}
	user.ID = uuid.New()

	profile := user.ToProfile()

	assert.Equal(t, user.ID.String(), profile.ID)
	assert.Equal(t, "ada", profile.Username)
	assert.Equal(t, "Ada Lovelace", profile.DisplayName)
	assert.Equal(t, &email, profile.Email)
	assert.True(t, profile.IsActive)
}

func TestPlaylist_VisibleTo(t *testing.T) {
	owner := &User{Role: RoleUser}
	owner.ID = uuid.New()
	other := &User{Role: RoleUser}
	other.ID = uuid.New()
	admin := &User{Role: RoleAdmin}
	admin.ID = uuid.New()

	private := &Playlist{UserID: owner.ID}
	public := &Playlist{UserID: owner.ID, IsPublic: true}

	assert.True(t, private.VisibleTo(owner))
	assert.False(t, private.VisibleTo(other))
	assert.False(t, private.VisibleTo(nil))
	assert.True(t, private.VisibleTo(admin))
	assert.True(t, public.VisibleTo(other))
	assert.True(t, public.VisibleTo(nil))
}

package userController

import (
	"context"
	"errors"
	"kaudio/config"
	"kaudio/internal/events"
	. "kaudio/internal/models"
	"kaudio/internal/repositories"
	"kaudio/internal/services"
	"kaudio/internal/testutil"
	"kaudio/internal/types"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserController_AdminSelfProtection(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := config.Config{}
	repos := repositories.New(db, cfg)
	bus := events.New(nil)
	t.Cleanup(func() { _ = bus.Close() })
	controller := New(repos, services.New(db, repos, cfg, bus), cfg, db)
	ctx := context.Background()

	admin := testutil.CreateUser(t, db.SQL, "root")
	admin.Role = RoleAdmin
	require.NoError(t, db.SQL.Model(admin).Update("role", RoleAdmin).Error)
	member := testutil.CreateUser(t, db.SQL, "member")

	_, err := controller.SetRole(ctx, admin, admin.ID, RoleUser)
	assert.True(t, errors.Is(err, types.ErrValidation))
	assert.Equal(t, RoleAdmin, testutil.Reload[User](t, db.SQL, admin.ID).Role)

	err = controller.Delete(ctx, admin, admin.ID)
	assert.True(t, errors.Is(err, types.ErrValidation))
	testutil.Reload[User](t, db.SQL, admin.ID)

	_, err = controller.SetRole(ctx, admin, member.ID, "superuser")
	assert.True(t, errors.Is(err, types.ErrValidation))

	_, err = controller.SetRole(ctx, admin, uuid.New(), RoleModerator)
	assert.True(t, errors.Is(err, types.ErrNotFound))

	profile, err := controller.SetRole(ctx, admin, member.ID, RoleModerator)
	require.NoError(t, err)
	assert.Equal(t, RoleModerator, profile.Role)

	profile, err = controller.SetRole(ctx, admin, admin.ID, RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, profile.Role)

	require.NoError(t, controller.Delete(ctx, admin, member.ID))
	var remaining int64
	require.NoError(t, db.SQL.Model(&User{}).Where("id = ?", member.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)

	profiles, err := controller.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "root", profiles[0].Username)
}

package activityController

import (
	"errors"
	. "kaudio/internal/models"
	"kaudio/internal/types"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFilter(t *testing.T) {
	user := &User{Role: RoleUser}
	user.ID = uuid.New()
	admin := &User{Role: RoleAdmin}
	admin.ID = uuid.New()
	other := uuid.New().String()
	five, two := 5, 2

	tests := []struct {
		name    string
		user    *User
		request ListRequest
		kind    error
	}{
		{name: "defaults to caller", user: user, request: ListRequest{}},
		{name: "type and range", user: user, request: ListRequest{
			ActivityType: "play",
			From:         "2024-01-01T00:00:00Z",
			To:           "2024-02-01T00:00:00Z",
		}},
		{name: "unknown type", user: user, request: ListRequest{ActivityType: "skip"}, kind: types.ErrValidation},
		{name: "bad time", user: user, request: ListRequest{From: "yesterday"}, kind: types.ErrValidation},
		{name: "inverted range", user: user, request: ListRequest{
			From: "2024-02-01T00:00:00Z",
			To:   "2024-01-01T00:00:00Z",
		}, kind: types.ErrValidation},
		{name: "inverted durations", user: user, request: ListRequest{MinDuration: &five, MaxDuration: &two}, kind: types.ErrValidation},
		{name: "other user as user", user: user, request: ListRequest{UserID: other}, kind: types.ErrPermission},
		{name: "other user as admin", user: admin, request: ListRequest{UserID: other}},
		{name: "bad user id", user: admin, request: ListRequest{UserID: "nope"}, kind: types.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := buildFilter(tt.user, &tt.request)
			if tt.kind != nil {
				assert.True(t, errors.Is(err, tt.kind), "got %v", err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, filter.UserID)
			if tt.request.UserID == "" {
				assert.Equal(t, tt.user.ID, *filter.UserID)
			} else {
				assert.Equal(t, tt.request.UserID, filter.UserID.String())
			}
		})
	}
}

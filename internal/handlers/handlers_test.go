package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"kaudio/config"
	"kaudio/internal/app"
	authController "kaudio/internal/controllers/auth"
	"kaudio/internal/testutil"
	"kaudio/internal/types"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *fiber.App {
	t.Helper()

	cfg := config.Config{
		GeneralVersion: "test",
		JWTSecret:      "handler-test-secret-value",
		JWTIssuer:      "kaudio-test",
	}

	a, err := app.Build(cfg, testutil.NewDB(t))
	require.NoError(t, err)

	server := fiber.New()
	require.NoError(t, Router(server, a))
	return server
}

func request(t *testing.T, server *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := server.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	decoded := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}

	return resp.StatusCode, decoded
}

func register(t *testing.T, server *fiber.App, username string) string {
	t.Helper()

	status, body := request(t, server, http.MethodPost, "/api/auth/register", "", authController.RegisterRequest{
		Username: username,
		Password: "correct horse battery",
	})
	require.Equal(t, http.StatusCreated, status, body)

	token, ok := body["token"].(string)
	require.True(t, ok)
	return token
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: types.Wrap(types.ErrValidation, "bad"), want: fiber.StatusBadRequest},
		{name: "not found", err: types.Wrap(types.ErrNotFound, "missing"), want: fiber.StatusNotFound},
		{name: "permission", err: types.Wrap(types.ErrPermission, "nope"), want: fiber.StatusForbidden},
		{name: "conflict", err: types.Wrap(types.ErrConflict, "twice"), want: fiber.StatusConflict},
		{name: "consistency", err: types.ErrConsistency, want: fiber.StatusInternalServerError},
		{name: "unknown", err: errors.New("boom"), want: fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestHealth(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Trace-ID", "trace-123")
	resp, err := server.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "trace-123", resp.Header.Get("X-Trace-ID"))
}

func TestAuthRequired(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
	}{
		{name: "no token", method: http.MethodGet, path: "/api/users/me"},
		{name: "garbage token", method: http.MethodGet, path: "/api/users/me", token: "garbage"},
		{name: "activities", method: http.MethodPost, path: "/api/activities"},
		{name: "playlists", method: http.MethodGet, path: "/api/playlists"},
		{name: "library", method: http.MethodGet, path: "/api/library/albums"},
		{name: "admin", method: http.MethodPost, path: "/api/admin/reconcile"},
		{name: "logout", method: http.MethodPost, path: "/api/auth/logout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := request(t, server, tt.method, tt.path, tt.token, nil)
			assert.Equal(t, http.StatusUnauthorized, status)
		})
	}
}

func TestAuthFlow(t *testing.T) {
	server := newTestServer(t)
	token := register(t, server, "listener")

	status, body := request(t, server, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "listener", user["username"])

	status, _ = request(t, server, http.MethodPost, "/api/auth/register", "", authController.RegisterRequest{
		Username: "listener",
		Password: "another password",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = request(t, server, http.MethodPost, "/api/auth/login", "", authController.LoginRequest{
		Username: "listener",
		Password: "wrong password",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = request(t, server, http.MethodPost, "/api/auth/login", "", authController.LoginRequest{
		Username: "listener",
		Password: "correct horse battery",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])

	status, _ = request(t, server, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestErrorMapping(t *testing.T) {
	server := newTestServer(t)
	token := register(t, server, "listener")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{
			name:   "unknown activity type",
			method: http.MethodPost,
			path:   "/api/activities",
			body:   map[string]any{"activityType": "skip"},
			want:   http.StatusBadRequest,
		},
		{
			name:   "play of unknown track",
			method: http.MethodPost,
			path:   "/api/activities",
			body:   map[string]any{"activityType": "play", "trackId": uuid.New()},
			want:   http.StatusNotFound,
		},
		{
			name:   "delete unknown activity",
			method: http.MethodDelete,
			path:   "/api/activities/" + uuid.New().String(),
			want:   http.StatusNotFound,
		},
		{
			name:   "malformed id",
			method: http.MethodGet,
			path:   "/api/tracks/not-a-uuid",
			want:   http.StatusBadRequest,
		},
		{
			name:   "admin route as user",
			method: http.MethodGet,
			path:   "/api/admin/users",
			want:   http.StatusForbidden,
		},
		{
			name:   "genre creation as user",
			method: http.MethodPost,
			path:   "/api/genres",
			body:   map[string]any{"title": "Jazz"},
			want:   http.StatusForbidden,
		},
		{
			name:   "unknown review kind",
			method: http.MethodDelete,
			path:   "/api/reviews/podcasts/" + uuid.New().String(),
			want:   http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := request(t, server, tt.method, tt.path, token, tt.body)
			assert.Equal(t, tt.want, status, body)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestPlaylistRoutes(t *testing.T) {
	server := newTestServer(t)
	owner := register(t, server, "owner")
	stranger := register(t, server, "stranger")

	status, body := request(t, server, http.MethodPost, "/api/playlists", owner, map[string]any{
		"title": "Road trip",
	})
	require.Equal(t, http.StatusCreated, status, body)
	playlist := body["playlist"].(map[string]any)
	path := "/api/playlists/" + playlist["id"].(string)

	status, _ = request(t, server, http.MethodGet, path, owner, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = request(t, server, http.MethodGet, path, stranger, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = request(t, server, http.MethodPut, path+"/visibility", stranger, map[string]any{"isPublic": true})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = request(t, server, http.MethodPut, path+"/visibility", owner, map[string]any{"isPublic": true})
	assert.Equal(t, http.StatusOK, status)

	status, _ = request(t, server, http.MethodGet, path, stranger, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = request(t, server, http.MethodDelete, path, owner, nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestUserPlaylistsRoute(t *testing.T) {
	server := newTestServer(t)
	owner := register(t, server, "curator")
	stranger := register(t, server, "visitor")

	create := func(title string, public bool) map[string]any {
		status, body := request(t, server, http.MethodPost, "/api/playlists", owner, map[string]any{
			"title":    title,
			"isPublic": public,
		})
		require.Equal(t, http.StatusCreated, status, body)
		return body["playlist"].(map[string]any)
	}
	shared := create("Morning mix", true)
	create("Secret mix", false)
	path := "/api/users/" + shared["userId"].(string) + "/playlists"

	status, body := request(t, server, http.MethodGet, path, owner, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Len(t, body["playlists"], 2)

	status, body = request(t, server, http.MethodGet, path, stranger, nil)
	require.Equal(t, http.StatusOK, status, body)
	require.Len(t, body["playlists"], 1)
	assert.Equal(t, "Morning mix", body["playlists"].([]any)[0].(map[string]any)["title"])

	status, body = request(t, server, http.MethodGet, path+"?title=SECRET", owner, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Len(t, body["playlists"], 1)

	status, _ = request(t, server, http.MethodGet, "/api/users/"+uuid.New().String()+"/playlists", owner, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = request(t, server, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestListFilterValidation(t *testing.T) {
	server := newTestServer(t)
	token := register(t, server, "filterer")

	tests := []struct {
		name string
		path string
		want int
	}{
		{name: "tracks by title and duration", path: "/api/tracks?q=song&minDuration=60&maxDuration=300", want: http.StatusOK},
		{name: "tracks ordered by plays", path: "/api/tracks?ordering=-play_count", want: http.StatusOK},
		{name: "tracks unknown ordering", path: "/api/tracks?ordering=lyrics", want: http.StatusBadRequest},
		{name: "tracks inverted duration", path: "/api/tracks?minDuration=300&maxDuration=60", want: http.StatusBadRequest},
		{name: "tracks malformed rating", path: "/api/tracks?minRating=high", want: http.StatusBadRequest},
		{name: "albums by year", path: "/api/albums?year=1999&minTracks=1", want: http.StatusOK},
		{name: "albums negative tracks", path: "/api/albums?minTracks=-1", want: http.StatusBadRequest},
		{name: "artists verified", path: "/api/artists?isVerified=true&ordering=-monthly_listeners", want: http.StatusOK},
		{name: "artists malformed flag", path: "/api/artists?isVerified=maybe", want: http.StatusBadRequest},
		{name: "playlists created window", path: "/api/playlists?createdAfter=2024-01-01&createdBefore=2024-12", want: http.StatusOK},
		{name: "playlists inverted window", path: "/api/playlists?createdAfter=2025-01-01&createdBefore=2024-01-01", want: http.StatusBadRequest},
		{name: "playlists malformed date", path: "/api/playlists?createdAfter=yesterday", want: http.StatusBadRequest},
		{name: "unknown genre albums", path: "/api/genres/" + uuid.New().String() + "/albums", want: http.StatusNotFound},
		{name: "unknown genre tracks", path: "/api/genres/" + uuid.New().String() + "/tracks", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := request(t, server, http.MethodGet, tt.path, token, nil)
			assert.Equal(t, tt.want, status, body)
		})
	}
}

package server

import (
	"context"
	"kaudio/config"
	"kaudio/internal/app"
	"kaudio/internal/testutil"
	"net/http"
	"net/http/httptest"
	"testing"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ServesHealthWithSecurityHeaders(t *testing.T) {
	a, err := app.Build(config.Config{
		GeneralVersion:   "test",
		CorsAllowOrigins: "*",
		JWTSecret:        "server-test-secret-value",
		JWTIssuer:        "kaudio-test",
	}, testutil.NewDB(t))
	require.NoError(t, err)

	appServer, err := New(a)
	require.NoError(t, err)

	resp, err := appServer.FiberApp.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))
}

func TestListen_RejectsZeroPort(t *testing.T) {
	appServer := &AppServer{log: logger.New("server")}
	assert.Error(t, appServer.Listen(0))
}

func TestNew_CorsCredentialsFollowOrigins(t *testing.T) {
	tests := []struct {
		name        string
		origins     string
		credentials bool
	}{
		{name: "wildcard", origins: "*", credentials: false},
		{name: "explicit origin", origins: "https://app.kaudio.test", credentials: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cors := corsConfig(config.Config{CorsAllowOrigins: tt.origins})
			assert.Equal(t, tt.credentials, cors.AllowCredentials)
			assert.Contains(t, cors.ExposeHeaders, "X-Trace-ID")
		})
	}
}

func TestFiberConfig(t *testing.T) {
	production := fiberConfig(config.Config{GeneralVersion: "1.2.0", Environment: "production"})
	assert.Equal(t, "kaudio/1.2.0", production.ServerHeader)
	assert.Equal(t, MAX_REQUEST_BODY, production.BodyLimit)
	assert.True(t, production.DisableStartupMessage)
	assert.False(t, production.EnablePrintRoutes)

	development := fiberConfig(config.Config{Environment: "development"})
	assert.False(t, development.DisableStartupMessage)
	assert.True(t, development.EnablePrintRoutes)
}

func TestShutdown_StopsIdleServer(t *testing.T) {
	appServer := &AppServer{FiberApp: fiber.New(), log: logger.New("server")}
	assert.NoError(t, appServer.Shutdown(context.Background()))
}

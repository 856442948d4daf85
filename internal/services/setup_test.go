package services

import (
	"kaudio/config"
	"kaudio/internal/database"
	"kaudio/internal/events"
	"kaudio/internal/repositories"
	"kaudio/internal/testutil"
	"testing"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:     "test-secret-with-enough-length",
		JWTIssuer:     "kaudio-test",
		StatsCacheTTL: 0,
	}
}

func newTestServices(t *testing.T) (database.DB, repositories.Repository, Service) {
	t.Helper()

	db := testutil.NewDB(t)
	cfg := testConfig()
	repos := repositories.New(db, cfg)
	bus := events.New(nil)
	t.Cleanup(func() { _ = bus.Close() })

	return db, repos, New(db, repos, cfg, bus)
}

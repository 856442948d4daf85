package seed

import (
	"context"
	"kaudio/config"
	"kaudio/internal/events"
	. "kaudio/internal/models"
	"kaudio/internal/repositories"
	"kaudio/internal/services"
	"kaudio/internal/testutil"
	"testing"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_CountersReconcile(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := config.Config{JWTSecret: "seed-test-secret-value", JWTIssuer: "kaudio-test"}

	require.NoError(t, Seed(db, cfg, logger.New("seed-test")))

	var playlist Playlist
	require.NoError(t, db.SQL.First(&playlist, "title = ?", "Morning").Error)
	assert.Equal(t, 3, playlist.TotalTracks)
	assert.Equal(t, 184+243+301, playlist.TotalDuration)

	var album Album
	require.NoError(t, db.SQL.First(&album, "title = ?", "First Light").Error)
	assert.Equal(t, 6, album.PlayCount)
	assert.Equal(t, 1, album.LikesCount)

	repos := repositories.New(db, cfg)
	svc := services.New(db, repos, cfg, events.New(nil))
	report, err := svc.Reconciliation.ReconcileAll(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, report.Mismatches)
}

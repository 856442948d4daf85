package jobs

import (
	"context"
	"errors"
	"kaudio/config"
	"kaudio/internal/events"
	"kaudio/internal/repositories"
	"kaudio/internal/services"
	"kaudio/internal/testutil"
	"kaudio/internal/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReconciler struct {
	repair bool
	report types.ReconcileReport
	err    error
}

func (s *stubReconciler) ReconcileAll(ctx context.Context, repair bool) (types.ReconcileReport, error) {
	s.repair = repair
	return s.report, s.err
}

func TestReconciliationJob_Execute(t *testing.T) {
	stub := &stubReconciler{report: types.ReconcileReport{Checked: 4}}
	job := NewReconciliationJob(stub, true, Hourly)

	require.NoError(t, job.Execute(context.Background()))
	assert.True(t, stub.repair)
	assert.Equal(t, "CounterReconciliation", job.Name())
	assert.Equal(t, Hourly, job.Schedule())
}

func TestReconciliationJob_ExecuteError(t *testing.T) {
	stub := &stubReconciler{err: errors.New("database gone")}
	job := NewReconciliationJob(stub, false, Hourly)

	assert.Error(t, job.Execute(context.Background()))
	assert.False(t, stub.repair)
}

func TestRegisterAllJobs(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := config.Config{SchedulerEnabled: true, JWTSecret: "test-secret-with-enough-length"}
	repos := repositories.New(db, cfg)
	svc := services.New(db, repos, cfg, events.New(nil))

	scheduler := services.NewSchedulerService()
	require.NoError(t, RegisterAllJobs(scheduler, cfg, db, svc, repos))
	assert.Equal(t, 2, scheduler.GetJobCount())

	disabled := services.NewSchedulerService()
	cfg.SchedulerEnabled = false
	require.NoError(t, RegisterAllJobs(disabled, cfg, db, svc, repos))
	assert.Equal(t, 0, disabled.GetJobCount())
}

func TestStatsCacheJob_Execute(t *testing.T) {
	db := testutil.NewDB(t)
	repos := repositories.New(db, config.Config{})

	artist := testutil.CreateArtist(t, db.SQL, "Artist", nil)
	testutil.CreateTrack(t, db.SQL, "Song", artist, nil, 0, 100)

	job := NewStatsCacheJob(db, repos.Stats, Daily)
	require.NoError(t, job.Execute(context.Background()))
}

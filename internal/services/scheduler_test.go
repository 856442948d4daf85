package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJob struct {
	name     string
	schedule Schedule
	runs     int
	err      error
}

func (j *stubJob) Name() string       { return j.name }
func (j *stubJob) Schedule() Schedule { return j.schedule }
func (j *stubJob) Execute(ctx context.Context) error {
	j.runs++
	return j.err
}

func TestSchedulerService_AddAndRunJob(t *testing.T) {
	scheduler := NewSchedulerService()
	job := &stubJob{name: "reconcile", schedule: Hourly}

	require.NoError(t, scheduler.AddJob(job))
	assert.Equal(t, 1, scheduler.GetJobCount())

	require.NoError(t, scheduler.RunJob(context.Background(), "reconcile"))
	assert.Equal(t, 1, job.runs)

	assert.Error(t, scheduler.RunJob(context.Background(), "missing"))
}

func TestSchedulerService_StartStop(t *testing.T) {
	scheduler := NewSchedulerService()
	ctx := context.Background()

	require.NoError(t, scheduler.Start(ctx))
	assert.False(t, scheduler.IsRunning(), "no jobs means no start")

	require.NoError(t, scheduler.AddJob(&stubJob{name: "nightly", schedule: Daily}))
	require.NoError(t, scheduler.Start(ctx))
	assert.True(t, scheduler.IsRunning())

	require.NoError(t, scheduler.Stop(ctx))
	assert.False(t, scheduler.IsRunning())
}

func TestSchedulerService_JobErrorPropagates(t *testing.T) {
	scheduler := NewSchedulerService()
	failure := errors.New("boom")

	require.NoError(t, scheduler.AddJob(&stubJob{name: "failing", schedule: Hourly, err: failure}))
	assert.ErrorIs(t, scheduler.RunJob(context.Background(), "failing"), failure)
}

func TestSchedulerService_UnknownSchedule(t *testing.T) {
	scheduler := NewSchedulerService()
	assert.Error(t, scheduler.AddJob(&stubJob{name: "odd", schedule: Schedule(42)}))
}

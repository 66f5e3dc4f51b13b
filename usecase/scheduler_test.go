package usecase

import (
	"context"
	"testing"
	"time"

	domainJob "github.com/AzielCF/az-autopost/domains/job"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var schedStart = time.Date(2025, 9, 16, 9, 0, 0, 0, time.UTC)

func newTestDispatcher(clock *fakeClock) *Dispatcher {
	return NewDispatcher(&RunContext{Config: testSchedulerConfig(), Clock: clock})
}

func jobAt(path string, offset time.Duration) domainJob.Job {
	return domainJob.NewJob(schedStart.Add(offset), path, "", false)
}

func TestDispatcher_TwoJobsOutOfOrder(t *testing.T) {
	clock := newFakeClock(schedStart)
	exec := &recordingExecutor{clock: clock}

	a := jobAt("/p/a.jpg", 70*time.Second)
	b := jobAt("/p/b.jpg", 5*time.Second)

	summary, err := newTestDispatcher(clock).Run(context.Background(), domainJob.Batch{a, b}, exec)
	require.NoError(t, err)

	require.Len(t, exec.calls, 2)
	assert.Equal(t, "/p/b.jpg", exec.calls[0].ContentPath)
	assert.Equal(t, "/p/a.jpg", exec.calls[1].ContentPath)
	assert.Equal(t, schedStart.Add(5*time.Second), exec.at[0])
	assert.Equal(t, schedStart.Add(70*time.Second), exec.at[1])

	assert.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second, 60 * time.Second, 5 * time.Second}, clock.Sleeps())
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 2, summary.Succeeded)
}

func TestDispatcher_CoarseThenFineWait(t *testing.T) {
	clock := newFakeClock(schedStart)
	exec := &recordingExecutor{clock: clock}

	_, err := newTestDispatcher(clock).Run(context.Background(), domainJob.Batch{jobAt("/p/a.jpg", 150*time.Second)}, exec)
	require.NoError(t, err)

	assert.Equal(t, []time.Duration{
		30 * time.Second, 30 * time.Second, 30 * time.Second, 60 * time.Second, 5 * time.Second,
	}, clock.Sleeps())
	assert.Equal(t, schedStart.Add(150*time.Second), exec.at[0])
}

func TestDispatcher_FinalSleepHasFloor(t *testing.T) {
	clock := newFakeClock(schedStart)
	exec := &recordingExecutor{clock: clock}

	_, err := newTestDispatcher(clock).Run(context.Background(), domainJob.Batch{jobAt("/p/a.jpg", 200*time.Millisecond)}, exec)
	require.NoError(t, err)

	sleeps := clock.Sleeps()
	require.Len(t, sleeps, 2)
	assert.Equal(t, 500*time.Millisecond, sleeps[0])
	assert.False(t, exec.at[0].Before(schedStart.Add(200*time.Millisecond)))
}

func TestDispatcher_ImmediateJobsDoNotWait(t *testing.T) {
	clock := newFakeClock(schedStart)
	exec := &recordingExecutor{clock: clock}

	now := domainJob.NewJob(schedStart, "/p/now.jpg", "", true)
	past := jobAt("/p/past.jpg", -time.Hour)

	_, err := newTestDispatcher(clock).Run(context.Background(), domainJob.Batch{now, past}, exec)
	require.NoError(t, err)

	assert.Equal(t, schedStart, exec.at[0])
	assert.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second}, clock.Sleeps())
	assert.Equal(t, "/p/past.jpg", exec.calls[0].ContentPath)
}

func TestDispatcher_FailuresDoNotBlockLaterJobs(t *testing.T) {
	clock := newFakeClock(schedStart)
	exec := &recordingExecutor{clock: clock, failOn: map[string]bool{"/p/b.jpg": true}}

	batch := domainJob.Batch{
		jobAt("/p/c.jpg", 3*time.Minute),
		jobAt("/p/a.jpg", time.Minute),
		jobAt("/p/b.jpg", 2*time.Minute),
	}
	summary, err := newTestDispatcher(clock).Run(context.Background(), batch, exec)
	require.NoError(t, err)

	require.Len(t, exec.calls, 3)
	assert.Equal(t, []string{"/p/a.jpg", "/p/b.jpg", "/p/c.jpg"},
		[]string{exec.calls[0].ContentPath, exec.calls[1].ContentPath, exec.calls[2].ContentPath})
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	for i := range exec.at {
		assert.False(t, exec.at[i].Before(exec.calls[i].TargetTime), "job %d ran early", i)
	}
}

func TestDispatcher_Cancellation(t *testing.T) {
	clock := newFakeClock(schedStart)
	exec := &recordingExecutor{clock: clock}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The first job runs immediately; cancel while waiting for the second.
	clock.onSleep = func(n int) {
		if n == 2 {
			cancel()
		}
	}

	batch := domainJob.Batch{jobAt("/p/a.jpg", 0), jobAt("/p/b.jpg", 10*time.Minute), jobAt("/p/c.jpg", 20*time.Minute)}
	summary, err := newTestDispatcher(clock).Run(ctx, batch, exec)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, exec.calls, 1)
	assert.Equal(t, 1, summary.Total)
}

func TestDispatcher_DoesNotReorderCallerBatch(t *testing.T) {
	clock := newFakeClock(schedStart)
	exec := &recordingExecutor{clock: clock}
	batch := domainJob.Batch{jobAt("/p/b.jpg", 2*time.Second), jobAt("/p/a.jpg", time.Second)}

	_, err := newTestDispatcher(clock).Run(context.Background(), batch, exec)
	require.NoError(t, err)
	assert.Equal(t, "/p/b.jpg", batch[0].ContentPath)
}

func TestNewDispatcher_Defaults(t *testing.T) {
	d := NewDispatcher(&RunContext{})
	assert.Equal(t, DefaultCoarseThreshold, d.cfg.CoarseThreshold)
	assert.Equal(t, DefaultCoarseInterval, d.cfg.CoarseInterval)
	assert.Equal(t, DefaultFineMinimum, d.cfg.FineMinimum)
	assert.Equal(t, DefaultInterJobDelay, d.cfg.InterJobDelay)
}

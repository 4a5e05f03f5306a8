package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vunguyen00/Netflix/pkg/clock"
	"github.com/vunguyen00/Netflix/pkg/config"
)

type fakeOrders struct {
	calledWith time.Time
	err        error
}

func (f *fakeOrders) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	f.calledWith = now
	return 2, f.err
}

type fakePool struct{ n int64 }

func (f fakePool) CountAvailable(ctx context.Context) (int64, error) { return f.n, nil }

type fakeClaims struct{ cutoff time.Time }

func (f *fakeClaims) ReleaseStale(ctx context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return 1, nil
}

type fakeAlerter struct{ alerts []int64 }

func (f *fakeAlerter) LowStock(ctx context.Context, available int64, threshold int) error {
	f.alerts = append(f.alerts, available)
	return nil
}

func jobByName(t *testing.T, ts *TaskScheduler, name string) ScheduledJob {
	t.Helper()
	for _, j := range ts.GetJobs() {
		if j.Name == name {
			return j
		}
	}
	t.Fatalf("job %s not scheduled", name)
	return ScheduledJob{}
}

func TestSchedulerJobs(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	orders := &fakeOrders{}
	alerter := &fakeAlerter{}

	ts, err := NewTaskScheduler(context.Background(), config.NewSchedulerConfig(), Dependencies{
		Orders:  orders,
		Pool:    fakePool{n: 1},
		Alerter: alerter,
		Clock:   clock.NewFixed(now),
	})
	require.NoError(t, err)
	require.Len(t, ts.GetJobs(), 2)

	expire := jobByName(t, ts, JobExpireOrders)
	require.NoError(t, ts.RunJob(expire.ID))
	assert.True(t, orders.calledWith.Equal(now))

	job, err := ts.GetJob(expire.ID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusCompleted, job.Status)

	stock := jobByName(t, ts, JobStockCheck)
	require.NoError(t, ts.RunJob(stock.ID))
	assert.Equal(t, []int64{1}, alerter.alerts)
}

func TestSchedulerJobFailure(t *testing.T) {
	orders := &fakeOrders{err: errors.New("db down")}
	ts, err := NewTaskScheduler(context.Background(), config.NewSchedulerConfig(), Dependencies{Orders: orders})
	require.NoError(t, err)

	job := jobByName(t, ts, JobExpireOrders)
	assert.Error(t, ts.RunJob(job.ID))

	got, err := ts.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusFailed, got.Status)
	assert.Contains(t, got.LastErr, "db down")
}

func TestStockCheckAboveThreshold(t *testing.T) {
	alerter := &fakeAlerter{}
	require.NoError(t, stockCheck(fakePool{n: 10}, alerter, 5)(context.Background()))
	assert.Empty(t, alerter.alerts)
}

func TestReleaseClaimsJob(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	claims := &fakeClaims{}
	cfg := config.NewSchedulerConfig()
	cfg.StaleClaimMinutes = 45

	ts, err := NewTaskScheduler(context.Background(), cfg, Dependencies{
		Claims: claims,
		Clock:  clock.NewFixed(now),
	})
	require.NoError(t, err)

	job := jobByName(t, ts, JobReleaseClaims)
	require.NoError(t, ts.RunJob(job.ID))
	assert.True(t, claims.cutoff.Equal(now.Add(-45*time.Minute)))
}

func TestAddJobRequiresUniqueID(t *testing.T) {
	ts, err := NewTaskScheduler(context.Background(), config.NewSchedulerConfig(), Dependencies{Orders: &fakeOrders{}})
	require.NoError(t, err)

	noop := func(ctx context.Context) error { return nil }
	assert.Error(t, ts.AddJob(&ScheduledJob{Name: "anonymous", Cron: "* * * * *", run: noop}))
	assert.Error(t, ts.AddJob(&ScheduledJob{ID: JobExpireOrders, Name: "again", Cron: "* * * * *", run: noop}))
	assert.Len(t, ts.GetJobs(), 1)
}

func TestRemoveJob(t *testing.T) {
	ts, err := NewTaskScheduler(context.Background(), config.NewSchedulerConfig(), Dependencies{Orders: &fakeOrders{}})
	require.NoError(t, err)

	job := jobByName(t, ts, JobExpireOrders)
	require.NoError(t, ts.RemoveJob(job.ID))
	assert.ErrorIs(t, ts.RemoveJob(job.ID), ErrJobNotFound)
	assert.ErrorIs(t, ts.RunJob(job.ID), ErrJobNotFound)
}

func TestShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ts, err := NewTaskScheduler(ctx, config.NewSchedulerConfig(), Dependencies{})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		_ = ts.Start()
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), time.Second)
	defer cancelShutdown()
	assert.NoError(t, ts.Shutdown(shutdownCtx))
}

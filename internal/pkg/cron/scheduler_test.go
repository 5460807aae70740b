package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSweeper struct {
	idle  time.Duration
	ended int
	err   error
}

func (f *fakeSweeper) Sweep(ctx context.Context, idle time.Duration) (int, error) {
	f.idle = idle
	return f.ended, f.err
}

type fakePruner struct{ calls int }

func (f *fakePruner) PruneRevoked() int {
	f.calls++
	return 2
}

func TestScheduler_RunOnce(t *testing.T) {
	sweeper := &fakeSweeper{ended: 3}
	pruner := &fakePruner{}

	s := NewScheduler()
	NewPortalJobs(sweeper, pruner, 8*time.Hour).Register(s, time.Minute)

	require.NoError(t, s.RunOnce(context.Background()))
	assert.Equal(t, 8*time.Hour, sweeper.idle)
	assert.Equal(t, 1, pruner.calls)
}

func TestScheduler_RunOnceReportsFailures(t *testing.T) {
	boom := errors.New("slot down")
	s := NewScheduler()
	NewPortalJobs(&fakeSweeper{err: boom}, &fakePruner{}, time.Hour).Register(s, time.Minute)

	err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestScheduler_StartStop(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler()
	s.AddJob("tick", 5*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()

	after := runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}

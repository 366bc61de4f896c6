package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingCoordinator counts SyncNow calls; the rest of the interface is unused.
type countingCoordinator struct {
	SyncCoordinator
	calls atomic.Int32
	err   error
}

func (c *countingCoordinator) SyncNow(context.Context) (bool, error) {
	c.calls.Add(1)
	return true, c.err
}

func TestNewClientSyncJob_DefaultInterval(t *testing.T) {
	job := NewClientSyncJob(&countingCoordinator{}, 0).(*clientSyncJob)
	assert.Equal(t, defaultSyncInterval, job.interval)

	job = NewClientSyncJob(&countingCoordinator{}, time.Minute).(*clientSyncJob)
	assert.Equal(t, time.Minute, job.interval)
}

func TestSyncJob_RunTicksUntilCancelled(t *testing.T) {
	c := &countingCoordinator{err: errors.New("flush failed")}
	job := NewClientSyncJob(c, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(testContext())
	done := make(chan error, 1)
	go func() { done <- job.Run(ctx) }()

	require.Eventually(t, func() bool { return c.calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSyncJob_StartStop(t *testing.T) {
	c := &countingCoordinator{}
	job := NewClientSyncJob(c, time.Hour)

	job.Start(testContext(), 5*time.Millisecond)
	require.Eventually(t, func() bool { return c.calls.Load() >= 2 }, time.Second, time.Millisecond)

	job.Stop()
	stopped := c.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, c.calls.Load())

	// second stop is a no-op
	job.Stop()
}

func TestSyncJob_RestartReplacesRunner(t *testing.T) {
	c := &countingCoordinator{}
	job := NewClientSyncJob(c, time.Hour)

	job.Start(testContext(), time.Hour)
	job.Start(testContext(), 5*time.Millisecond)
	require.Eventually(t, func() bool { return c.calls.Load() >= 1 }, time.Second, time.Millisecond)

	job.Stop()
}

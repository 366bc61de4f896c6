// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/scribe-keeper/internal/logger"
)

// defaultSyncInterval is used when the job is given a non-positive interval.
const defaultSyncInterval = 30 * time.Second

type clientSyncJob struct {
	coordinator SyncCoordinator
	interval    time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewClientSyncJob creates a job that calls coordinator.SyncNow every
// interval. The job is idle until Run or Start is called.
func NewClientSyncJob(coordinator SyncCoordinator, interval time.Duration) ClientSyncJob {
	if interval <= 0 {
		interval = defaultSyncInterval
	}
	return &clientSyncJob{coordinator: coordinator, interval: interval}
}

// Run implements [ClientSyncJob]. Ticks while offline or while another drain
// is running are skipped by the coordinator itself.
func (j *clientSyncJob) Run(ctx context.Context) error {
	t := time.NewTicker(j.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if _, err := j.coordinator.SyncNow(ctx); err != nil {
				logger.FromContext(ctx).Err(err).
					Str("func", "clientSyncJob.Run").
					Msg("periodic sync failed")
			}
		}
	}
}

// Start implements [ClientSyncJob]. A positive interval replaces the one
// given at construction.
func (j *clientSyncJob) Start(ctx context.Context, interval time.Duration) {
	j.Stop()

	j.mu.Lock()
	if interval > 0 {
		j.interval = interval
	}
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		_ = j.Run(jobCtx)
	}()
}

// Stop implements [ClientSyncJob]. Safe to call when the job is not running.
func (j *clientSyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

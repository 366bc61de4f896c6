// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/MKhiriev/scribe-keeper/internal/logger"
	"github.com/MKhiriev/scribe-keeper/internal/metrics"
	"github.com/MKhiriev/scribe-keeper/internal/session"
	"github.com/MKhiriev/scribe-keeper/internal/store"
	"github.com/MKhiriev/scribe-keeper/models"
)

type syncCoordinator struct {
	localStore  *store.ClientStorages
	syncService ClientSyncService
	session     *session.Session
	metrics     *metrics.SyncMetrics

	mu      sync.Mutex
	offline bool
	pending int
	// syncing holds the users whose queue is being drained.
	syncing map[string]struct{}
}

func NewSyncCoordinator(localStore *store.ClientStorages, syncService ClientSyncService, sess *session.Session, syncMetrics *metrics.SyncMetrics) SyncCoordinator {
	if syncMetrics == nil {
		syncMetrics = metrics.NewSyncMetrics(nil)
	}
	return &syncCoordinator{
		localStore:  localStore,
		syncService: syncService,
		session:     sess,
		metrics:     syncMetrics,
		syncing:     make(map[string]struct{}),
	}
}

// Watch implements [SyncCoordinator]. Going online only refreshes the pending
// count; draining is left to the caller.
func (c *syncCoordinator) Watch(ctx context.Context, source NetworkStatusSource) func() {
	c.SetOffline(!source.IsOnline())

	return source.Subscribe(func(online bool) {
		c.SetOffline(!online)
		if !online {
			return
		}
		if _, err := c.RefreshPendingCount(ctx); err != nil {
			logger.FromContext(ctx).Err(err).
				Str("func", "syncCoordinator.Watch").
				Msg("failed to refresh pending count")
		}
	})
}

// SyncNow implements [SyncCoordinator].
func (c *syncCoordinator) SyncNow(ctx context.Context) (bool, error) {
	userID, err := c.session.UserID()
	if err != nil {
		return false, nil
	}

	c.mu.Lock()
	if c.offline {
		c.mu.Unlock()
		return false, nil
	}
	if _, running := c.syncing[userID]; running {
		c.mu.Unlock()
		return false, nil
	}
	c.syncing[userID] = struct{}{}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.syncing, userID)
		c.mu.Unlock()
	}()

	flushErr := c.syncService.Flush(ctx, userID)
	if _, err = c.RefreshPendingCount(context.WithoutCancel(ctx)); err != nil && flushErr == nil {
		return true, err
	}
	if flushErr != nil {
		return true, fmt.Errorf("flush sync queue: %w", flushErr)
	}

	return true, nil
}

// RefreshPendingCount implements [SyncCoordinator].
func (c *syncCoordinator) RefreshPendingCount(ctx context.Context) (int, error) {
	count := 0

	userID, err := c.session.UserID()
	if err == nil {
		if count, err = c.localStore.SyncQueue.Count(ctx, userID); err != nil {
			c.setPending(0)
			return 0, fmt.Errorf("count pending items: %w", err)
		}
	}

	c.setPending(count)
	return count, nil
}

func (c *syncCoordinator) setPending(n int) {
	c.mu.Lock()
	c.pending = n
	c.mu.Unlock()
	c.metrics.SetPending(n)
}

func (c *syncCoordinator) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

func (c *syncCoordinator) IsOffline() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offline
}

func (c *syncCoordinator) SetOffline(offline bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offline = offline
}

// IsSyncing reports whether a drain for the active user is running.
func (c *syncCoordinator) IsSyncing() bool {
	userID, err := c.session.UserID()
	if err != nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, running := c.syncing[userID]
	return running
}

// Status implements [SyncCoordinator].
func (c *syncCoordinator) Status(ctx context.Context) (models.SyncStatus, error) {
	pending, err := c.RefreshPendingCount(ctx)
	if err != nil {
		return models.SyncStatus{}, err
	}

	status := models.SyncStatus{
		Offline:      c.IsOffline(),
		PendingCount: pending,
		Syncing:      c.IsSyncing(),
	}

	userID, err := c.session.UserID()
	if err != nil {
		return status, nil
	}

	dirty, err := c.localStore.Entries.ListDirty(ctx, userID)
	if err != nil {
		return models.SyncStatus{}, fmt.Errorf("list unsynced entries: %w", err)
	}
	status.DirtyEntries = len(dirty)

	head, err := c.localStore.SyncQueue.Next(ctx, userID)
	if err != nil {
		return models.SyncStatus{}, fmt.Errorf("read queue head: %w", err)
	}
	if head != nil {
		status.LastError = head.LastError
	}

	return status, nil
}

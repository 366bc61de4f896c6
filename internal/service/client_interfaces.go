// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/scribe-keeper/internal/utils"
	"github.com/MKhiriev/scribe-keeper/models"
)

// NetworkStatusSource reports connectivity and notifies on transitions.
type NetworkStatusSource interface {
	IsOnline() bool
	// Subscribe registers fn for every online/offline transition and returns
	// a function that removes it.
	Subscribe(fn func(online bool)) (unsubscribe func())
}

// ClientSyncService drains the sync queue against the remote API.
type ClientSyncService interface {
	// Flush processes the user's queue in FIFO order until it is empty or an
	// item fails. A failing item is updated in place (retry count, attempt
	// time, last error) and the drain halts with a nil error: only a failure
	// to record the failure is returned. A cancelled ctx stops the drain
	// between items, also with a nil error.
	Flush(ctx context.Context, userID string) error
}

// SyncCoordinator tracks connectivity and the pending count of the active
// user, and guards the sync engine so that at most one drain runs per user.
type SyncCoordinator interface {
	// Watch initialises the offline flag from source and follows its
	// transitions. The returned function stops watching.
	Watch(ctx context.Context, source NetworkStatusSource) (stop func())

	// SyncNow drains the active user's queue. It reports false without doing
	// anything when offline, without an active user, or when a drain for the
	// user is already running.
	SyncNow(ctx context.Context) (bool, error)

	// RefreshPendingCount re-reads the queue size of the active user; 0 when
	// there is none.
	RefreshPendingCount(ctx context.Context) (int, error)

	PendingCount() int
	IsOffline() bool
	SetOffline(offline bool)
	IsSyncing() bool

	// Status returns a fresh snapshot including the head item's last error.
	Status(ctx context.Context) (models.SyncStatus, error)
}

// PullResult summarises one [ClientEntryService.Pull].
type PullResult struct {
	Fetched int
	Removed int
	Skipped int
}

// ClientEntryService is the read and write path for diary entries. Writes go
// to the local store first and are queued for sync.
type ClientEntryService interface {
	// Save encrypts draft, stores it locally as dirty and queues an upsert in
	// one transaction. It returns the storage path, allocating one for new
	// entries.
	Save(ctx context.Context, draft models.EntryDraft) (string, error)

	// Delete soft-deletes the entry and queues a remote delete.
	Delete(ctx context.Context, storagePath string) error

	// Get returns the decrypted entry, reading through to the server when it
	// is not cached and the client is online.
	Get(ctx context.Context, storagePath string) (models.DecryptedEntry, error)

	// List returns decrypted summaries from the local cache.
	List(ctx context.Context) ([]models.EntryListItem, error)

	// Pull refreshes the local cache from the server without touching dirty
	// or soft-deleted records.
	Pull(ctx context.Context) (PullResult, error)

	Analyze(ctx context.Context, text string) (models.AnalysisResponse, error)
	Recommend(ctx context.Context, text string) (models.RecommendationResponse, error)
}

// ClientAuthService manages the account session of the client.
type ClientAuthService interface {
	// Register creates an account, persists the session and makes it active.
	// The session starts locked.
	Register(ctx context.Context, creds models.Credentials) (models.User, error)

	// Login authenticates, persists the session and makes it active. The
	// session starts locked.
	Login(ctx context.Context, creds models.Credentials) (models.User, error)

	// Restore activates the most recently stored session without contacting
	// the server.
	Restore(ctx context.Context) (models.User, error)

	// Unlock derives the encryption key from passphrase and the session's
	// e2ee parameters and installs it.
	Unlock(ctx context.Context, passphrase string) error

	// Lock drops the encryption key.
	Lock()

	// Logout drops the key, the token and the stored session.
	Logout(ctx context.Context) error

	// TokenInfo describes the active session's access token.
	TokenInfo() (utils.TokenInfo, error)
}

// ClientSyncJob periodically asks the coordinator to drain the queue.
type ClientSyncJob interface {
	// Run blocks, syncing every interval, until ctx is done.
	Run(ctx context.Context) error

	// Start launches Run in the background. Any previously running job is
	// stopped first.
	Start(ctx context.Context, interval time.Duration)

	// Stop cancels the background job and waits for it to exit.
	Stop()
}

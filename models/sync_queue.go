// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// SyncOperation is the kind of mutation recorded in the sync queue.
type SyncOperation string

const (
	SyncOperationUpsert SyncOperation = "upsert"
	SyncOperationDelete SyncOperation = "delete"
)

// SyncQueueItem is one pending mutation. ID is assigned by the store and
// defines FIFO order within a user's queue.
type SyncQueueItem struct {
	ID          int64
	UserID      string
	Op          SyncOperation
	StoragePath string
	// Payload is present for upserts only.
	Payload       *EntryRequest
	EnqueuedAt    LocalDateTime
	RetryCount    uint32
	LastAttemptAt LocalDateTime
	LastError     *string
}

// SyncStatus is a snapshot of the sync coordinator state.
type SyncStatus struct {
	Offline      bool
	PendingCount int
	// DirtyEntries counts cached entries with local edits not yet confirmed
	// by the server.
	DirtyEntries int
	Syncing      bool
	// LastError is the lastError of the head queue item, if any.
	LastError *string
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/scribe-keeper/models"
)

// ListOptions tunes [LocalEntryRepository.List].
type ListOptions struct {
	// IncludeDeleted also returns soft-deleted records.
	IncludeDeleted bool
}

// LocalEntryRepository is the local cache of encrypted diary entries, keyed
// by (userID, storagePath).
type LocalEntryRepository interface {
	// Upsert inserts the record or overwrites the one with the same key.
	Upsert(ctx context.Context, record models.EntryRecord) error
	// Get returns the record, or nil when there is none.
	Get(ctx context.Context, userID, storagePath string) (*models.EntryRecord, error)
	// List returns the user's records, most recently updated first. Records
	// without timestamps sort last; ties are broken by storage path.
	List(ctx context.Context, userID string, opts ListOptions) ([]models.EntryRecord, error)
	// ListDirty returns records whose local edits are not yet synced.
	ListDirty(ctx context.Context, userID string) ([]models.EntryRecord, error)
	// Remove physically deletes the record. Removing a missing record is not an error.
	Remove(ctx context.Context, userID, storagePath string) error
}

// LocalSyncQueueRepository is the durable FIFO of pending mutations.
type LocalSyncQueueRepository interface {
	// Enqueue appends item and returns the id assigned by the store. item.ID is ignored.
	Enqueue(ctx context.Context, item models.SyncQueueItem) (int64, error)
	// EnqueueDelete appends a delete for storagePath.
	EnqueueDelete(ctx context.Context, userID, storagePath string, enqueuedAt models.LocalDateTime) (int64, error)
	// List returns the user's queue in ascending id order.
	List(ctx context.Context, userID string) ([]models.SyncQueueItem, error)
	// Next returns the oldest item of the user's queue, or nil when it is empty.
	Next(ctx context.Context, userID string) (*models.SyncQueueItem, error)
	// Update overwrites the item with item.ID. Fails with ErrMissingID when ID is zero.
	Update(ctx context.Context, item models.SyncQueueItem) error
	// Remove deletes the item with the given id.
	Remove(ctx context.Context, id int64) error
	// Count returns the number of pending items of the user.
	Count(ctx context.Context, userID string) (int, error)
	// CountForPath counts the user's items for storagePath other than excludeID.
	CountForPath(ctx context.Context, userID, storagePath string, excludeID int64) (int, error)
	// RetargetPath moves the user's pending items from oldPath to newPath,
	// rewriting upsert payloads as well. It returns the number of moved items.
	RetargetPath(ctx context.Context, userID, oldPath, newPath string) (int64, error)
}

// LocalSessionRepository persists the non-secret part of a login so the
// client can start offline. It never stores the encryption key.
type LocalSessionRepository interface {
	Save(ctx context.Context, session models.StoredSession) error
	// Latest returns the most recently saved session, or nil when there is none.
	Latest(ctx context.Context) (*models.StoredSession, error)
	Delete(ctx context.Context, userID string) error
}

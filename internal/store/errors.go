// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by the local store. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrStoreUnavailable is returned when the SQLite database cannot be
	// opened, pinged or migrated.
	ErrStoreUnavailable = errors.New("local store is unavailable")

	// ErrStoreTransaction is returned when a transaction cannot be started
	// or committed. Nothing written inside it is visible afterwards.
	ErrStoreTransaction = errors.New("local store transaction failed")

	// ErrMissingID is returned by the sync queue when an item without an id
	// is passed to Update.
	ErrMissingID = errors.New("sync queue item has no id")

	// ErrSyncItemNotFound is returned by Update when the item has already
	// been removed from the queue.
	ErrSyncItemNotFound = errors.New("sync queue item not found")
)

// Low-level database operation errors. These are wrapped by repository
// methods when a SQL-level operation fails before any domain logic applies.
var (
	// ErrBuildingSQLQuery is returned when constructing a SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when an INSERT, UPDATE or DELETE fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a single result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when multi-row iteration fails.
	ErrScanningRows = errors.New("failed to scan rows")

	// ErrEncodingPayload is returned when a queue payload cannot be
	// converted to or from JSON.
	ErrEncodingPayload = errors.New("failed to encode sync payload")
)

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MKhiriev/scribe-keeper/internal/config"
	"github.com/MKhiriev/scribe-keeper/internal/logger"
)

// ClientStorages groups all client-side repositories over one SQLite
// database.
type ClientStorages struct {
	db *DB

	// Entries is the local cache of encrypted diary entries.
	Entries LocalEntryRepository
	// SyncQueue is the durable queue of pending mutations.
	SyncQueue LocalSyncQueueRepository
	// Sessions holds the persisted login used for offline start.
	Sessions LocalSessionRepository
}

// NewClientStorages initialises the client storage layer:
//  1. Opens the SQLite database named by cfg.DB.DSN, creating its directory
//     when needed.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Wires the repositories to the pooled connection.
//
// Failures are reported as [ErrStoreUnavailable].
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return newClientStorages(db), nil
}

func newClientStorages(db *DB) *ClientStorages {
	return &ClientStorages{
		db:        db,
		Entries:   NewLocalEntryRepository(db.DB),
		SyncQueue: NewLocalSyncQueueRepository(db.DB),
		Sessions:  NewLocalSessionRepository(db.DB),
	}
}

// InTransaction runs fn with entry and queue repositories bound to a single
// read-write transaction, so that a multi-table change either fully commits
// or fully aborts.
//
// fn must only use the repositories it receives: the pool holds one
// connection, so calling the pooled repositories from inside fn blocks.
func (s *ClientStorages) InTransaction(ctx context.Context, fn func(entries LocalEntryRepository, queue LocalSyncQueueRepository) error) error {
	return s.db.WithTransaction(ctx, TxReadWrite, func(tx *sql.Tx) error {
		return fn(NewLocalEntryRepository(tx), NewLocalSyncQueueRepository(tx))
	})
}

// Close releases the database.
func (s *ClientStorages) Close() error {
	return s.db.Close()
}

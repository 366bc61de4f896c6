// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/scribe-keeper/internal/logger"
	"github.com/MKhiriev/scribe-keeper/migrations"
)

// TxMode selects the access mode of a transaction.
type TxMode int

const (
	TxReadOnly TxMode = iota
	TxReadWrite
)

// execer is the subset of *sql.DB and *sql.Tx the repositories need. A
// repository built on a *sql.Tx takes part in that transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Transactions that hit lock contention are attempted this many extra times.
const (
	txMaxRetries   = 3
	txRetryBackoff = 25 * time.Millisecond
)

type DB struct {
	*sql.DB
	logger             *logger.Logger
	errorClassificator ErrorClassificator
}

// Migrate applies pending schema migrations.
func (db *DB) Migrate() error {
	if err := migrations.Migrate(db.DB); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	version, err := migrations.Version(db.DB)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	db.logger.Debug().Str("func", "DB.Migrate").Int64("schema_version", version).Msg("local schema is up to date")
	return nil
}

// WithTransaction runs fn inside one transaction. The transaction is
// committed when fn returns nil and rolled back when fn returns an error or
// panics; a panic is re-raised after the rollback.
//
// Begin and commit failures are reported as [ErrStoreTransaction]. Errors
// returned by fn are passed through unchanged. When the classifier marks a
// failure as [Retryable], the whole transaction, fn included, is attempted
// again with exponential backoff.
func (db *DB) WithTransaction(ctx context.Context, mode TxMode, fn func(tx *sql.Tx) error) error {
	if db.errorClassificator == nil {
		return db.withTransaction(ctx, mode, fn)
	}

	backoff := retry.WithMaxRetries(txMaxRetries, retry.NewExponential(txRetryBackoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := db.withTransaction(ctx, mode, fn)
		if db.errorClassificator.Classify(err) == Retryable {
			logger.FromContext(ctx).Warn().Err(err).
				Str("func", "DB.WithTransaction").
				Msg("database is busy, retrying transaction")
			return retry.RetryableError(err)
		}
		return err
	})
}

func (db *DB) withTransaction(ctx context.Context, mode TxMode, fn func(tx *sql.Tx) error) (err error) {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, &sql.TxOptions{ReadOnly: mode == TxReadOnly})
	if err != nil {
		log.Err(err).Str("func", "DB.WithTransaction").Msg("failed to begin transaction")
		return fmt.Errorf("%w: begin: %w", ErrStoreTransaction, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Err(rbErr).Str("func", "DB.WithTransaction").Msg("failed to roll back transaction")
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "DB.WithTransaction").Msg("failed to commit transaction")
		return fmt.Errorf("%w: commit: %w", ErrStoreTransaction, err)
	}

	return nil
}

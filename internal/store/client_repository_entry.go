// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/scribe-keeper/internal/logger"
	"github.com/MKhiriev/scribe-keeper/models"
)

type localEntryRepository struct {
	db execer
}

// NewLocalEntryRepository returns a [LocalEntryRepository] working on db,
// which is either the pooled *sql.DB or an open *sql.Tx.
func NewLocalEntryRepository(db execer) LocalEntryRepository {
	return &localEntryRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (models.EntryRecord, error) {
	var r models.EntryRecord
	err := row.Scan(
		&r.UserID,
		&r.StoragePath,
		&r.CreatedAt,
		&r.UpdatedAt,
		&r.TitleCiphertext,
		&r.TitleIV,
		&r.BodyCiphertext,
		&r.BodyIV,
		&r.Algo,
		&r.Version,
		&r.Dirty,
		&r.DeletedAt,
	)
	return r, err
}

func (l *localEntryRepository) Upsert(ctx context.Context, record models.EntryRecord) error {
	log := logger.FromContext(ctx)

	_, err := l.db.ExecContext(ctx, upsertEntry,
		record.UserID,
		record.StoragePath,
		record.CreatedAt,
		record.UpdatedAt,
		record.TitleCiphertext,
		record.TitleIV,
		record.BodyCiphertext,
		record.BodyIV,
		record.Algo,
		record.Version,
		record.Dirty,
		record.DeletedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "localEntryRepository.Upsert").
			Str("user_id", record.UserID).
			Str("storage_path", record.StoragePath).
			Msg("failed to execute upsert for entry")
		return fmt.Errorf("%w: failed to upsert entry (storage_path=%s): %w", ErrExecutingStatement, record.StoragePath, err)
	}

	return nil
}

func (l *localEntryRepository) Get(ctx context.Context, userID, storagePath string) (*models.EntryRecord, error) {
	log := logger.FromContext(ctx)

	record, err := scanEntry(l.db.QueryRowContext(ctx, getEntry, userID, storagePath))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Err(err).
			Str("func", "localEntryRepository.Get").
			Str("user_id", userID).
			Str("storage_path", storagePath).
			Msg("failed to get entry")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return &record, nil
}

func (l *localEntryRepository) List(ctx context.Context, userID string, opts ListOptions) ([]models.EntryRecord, error) {
	query := sq.Select(entryColumns...).
		From("entries").
		Where(sq.Eq{"user_id": userID})
	if !opts.IncludeDeleted {
		query = query.Where(sq.Eq{"deleted_at": nil})
	}

	return l.list(ctx, "localEntryRepository.List", userID, query)
}

func (l *localEntryRepository) ListDirty(ctx context.Context, userID string) ([]models.EntryRecord, error) {
	query := sq.Select(entryColumns...).
		From("entries").
		Where(sq.Eq{"user_id": userID, "dirty": true})

	return l.list(ctx, "localEntryRepository.ListDirty", userID, query)
}

func (l *localEntryRepository) list(ctx context.Context, funcName, userID string, query sq.SelectBuilder) ([]models.EntryRecord, error) {
	log := logger.FromContext(ctx)

	sqlQuery, args, err := query.
		OrderBy(entryOrder, "storage_path ASC").
		PlaceholderFormat(sq.Question).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to build entries query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := l.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		log.Err(err).
			Str("func", funcName).
			Str("user_id", userID).
			Msg("failed to execute query for listing entries")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	records := make([]models.EntryRecord, 0)
	for rows.Next() {
		record, scanErr := scanEntry(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", funcName).
				Str("user_id", userID).
				Msg("failed to scan entry row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}
		records = append(records, record)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", funcName).
			Str("user_id", userID).
			Msg("error during entries iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return records, nil
}

func (l *localEntryRepository) Remove(ctx context.Context, userID, storagePath string) error {
	log := logger.FromContext(ctx)

	if _, err := l.db.ExecContext(ctx, removeEntry, userID, storagePath); err != nil {
		log.Err(err).
			Str("func", "localEntryRepository.Remove").
			Str("user_id", userID).
			Str("storage_path", storagePath).
			Msg("failed to remove entry")
		return fmt.Errorf("%w: failed to remove entry (storage_path=%s): %w", ErrExecutingStatement, storagePath, err)
	}

	return nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/scribe-keeper/internal/logger"
	"github.com/MKhiriev/scribe-keeper/models"
)

type localSyncQueueRepository struct {
	db execer
}

// NewLocalSyncQueueRepository returns a [LocalSyncQueueRepository] working
// on db, which is either the pooled *sql.DB or an open *sql.Tx.
func NewLocalSyncQueueRepository(db execer) LocalSyncQueueRepository {
	return &localSyncQueueRepository{db: db}
}

func encodePayload(payload *models.EntryRequest) (sql.NullString, error) {
	if payload == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("%w: %w", ErrEncodingPayload, err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func scanSyncItem(row rowScanner) (models.SyncQueueItem, error) {
	var (
		item    models.SyncQueueItem
		payload sql.NullString
	)
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.Op,
		&item.StoragePath,
		&payload,
		&item.EnqueuedAt,
		&item.RetryCount,
		&item.LastAttemptAt,
		&item.LastError,
	)
	if err != nil {
		return models.SyncQueueItem{}, err
	}

	if payload.Valid {
		item.Payload = new(models.EntryRequest)
		if err = json.Unmarshal([]byte(payload.String), item.Payload); err != nil {
			return models.SyncQueueItem{}, fmt.Errorf("%w: %w", ErrEncodingPayload, err)
		}
	}
	return item, nil
}

func (q *localSyncQueueRepository) Enqueue(ctx context.Context, item models.SyncQueueItem) (int64, error) {
	log := logger.FromContext(ctx)

	payload, err := encodePayload(item.Payload)
	if err != nil {
		return 0, err
	}

	res, err := q.db.ExecContext(ctx, enqueueSyncItem,
		item.UserID,
		item.Op,
		item.StoragePath,
		payload,
		item.EnqueuedAt,
		item.RetryCount,
		item.LastAttemptAt,
		item.LastError,
	)
	if err != nil {
		log.Err(err).
			Str("func", "localSyncQueueRepository.Enqueue").
			Str("user_id", item.UserID).
			Str("op", string(item.Op)).
			Str("storage_path", item.StoragePath).
			Msg("failed to enqueue sync item")
		return 0, fmt.Errorf("%w: failed to enqueue sync item: %w", ErrExecutingStatement, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		log.Err(err).Str("func", "localSyncQueueRepository.Enqueue").Msg("failed to read assigned id")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return id, nil
}

func (q *localSyncQueueRepository) EnqueueDelete(ctx context.Context, userID, storagePath string, enqueuedAt models.LocalDateTime) (int64, error) {
	return q.Enqueue(ctx, models.SyncQueueItem{
		UserID:      userID,
		Op:          models.SyncOperationDelete,
		StoragePath: storagePath,
		EnqueuedAt:  enqueuedAt,
	})
}

func (q *localSyncQueueRepository) List(ctx context.Context, userID string) ([]models.SyncQueueItem, error) {
	log := logger.FromContext(ctx)

	rows, err := q.db.QueryContext(ctx, listSyncItems, userID)
	if err != nil {
		log.Err(err).
			Str("func", "localSyncQueueRepository.List").
			Str("user_id", userID).
			Msg("failed to execute query for listing sync items")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	items := make([]models.SyncQueueItem, 0)
	for rows.Next() {
		item, scanErr := scanSyncItem(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "localSyncQueueRepository.List").
				Str("user_id", userID).
				Msg("failed to scan sync item row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}
		items = append(items, item)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "localSyncQueueRepository.List").
			Str("user_id", userID).
			Msg("error during sync items iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return items, nil
}

func (q *localSyncQueueRepository) Next(ctx context.Context, userID string) (*models.SyncQueueItem, error) {
	log := logger.FromContext(ctx)

	item, err := scanSyncItem(q.db.QueryRowContext(ctx, nextSyncItem, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Err(err).
			Str("func", "localSyncQueueRepository.Next").
			Str("user_id", userID).
			Msg("failed to get next sync item")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return &item, nil
}

func (q *localSyncQueueRepository) Update(ctx context.Context, item models.SyncQueueItem) error {
	log := logger.FromContext(ctx)

	if item.ID == 0 {
		return ErrMissingID
	}

	payload, err := encodePayload(item.Payload)
	if err != nil {
		return err
	}

	result, err := q.db.ExecContext(ctx, updateSyncItem,
		item.UserID,
		item.Op,
		item.StoragePath,
		payload,
		item.EnqueuedAt,
		item.RetryCount,
		item.LastAttemptAt,
		item.LastError,
		item.ID,
	)
	if err != nil {
		log.Err(err).
			Str("func", "localSyncQueueRepository.Update").
			Int64("id", item.ID).
			Msg("failed to update sync item")
		return fmt.Errorf("%w: failed to update sync item (id=%d): %w", ErrExecutingStatement, item.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to update sync item (id=%d): %w", ErrExecutingStatement, item.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w (id=%d)", ErrSyncItemNotFound, item.ID)
	}

	return nil
}

func (q *localSyncQueueRepository) Remove(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)

	if _, err := q.db.ExecContext(ctx, removeSyncItem, id); err != nil {
		log.Err(err).
			Str("func", "localSyncQueueRepository.Remove").
			Int64("id", id).
			Msg("failed to remove sync item")
		return fmt.Errorf("%w: failed to remove sync item (id=%d): %w", ErrExecutingStatement, id, err)
	}

	return nil
}

func (q *localSyncQueueRepository) Count(ctx context.Context, userID string) (int, error) {
	return q.count(ctx, "localSyncQueueRepository.Count", countSyncItems, userID)
}

func (q *localSyncQueueRepository) CountForPath(ctx context.Context, userID, storagePath string, excludeID int64) (int, error) {
	return q.count(ctx, "localSyncQueueRepository.CountForPath", countSyncItemsForPath, userID, storagePath, excludeID)
}

func (q *localSyncQueueRepository) count(ctx context.Context, funcName, query string, args ...any) (int, error) {
	log := logger.FromContext(ctx)

	var n int
	if err := q.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to count sync items")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return n, nil
}

func (q *localSyncQueueRepository) RetargetPath(ctx context.Context, userID, oldPath, newPath string) (int64, error) {
	log := logger.FromContext(ctx)

	res, err := q.db.ExecContext(ctx, retargetSyncItems, newPath, newPath, userID, oldPath)
	if err != nil {
		log.Err(err).
			Str("func", "localSyncQueueRepository.RetargetPath").
			Str("user_id", userID).
			Str("old_path", oldPath).
			Str("new_path", newPath).
			Msg("failed to retarget sync items")
		return 0, fmt.Errorf("%w: failed to retarget sync items: %w", ErrExecutingStatement, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return n, nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/scribe-keeper/internal/adapter"
	"github.com/MKhiriev/scribe-keeper/internal/logger"
	"github.com/MKhiriev/scribe-keeper/internal/metrics"
	"github.com/MKhiriev/scribe-keeper/internal/store"
	"github.com/MKhiriev/scribe-keeper/models"
)

type clientSyncService struct {
	localStore *store.ClientStorages
	adapter    adapter.ServerAdapter
	metrics    *metrics.SyncMetrics

	now func() time.Time
}

func NewClientSyncService(localStore *store.ClientStorages, serverAdapter adapter.ServerAdapter, syncMetrics *metrics.SyncMetrics) ClientSyncService {
	if syncMetrics == nil {
		syncMetrics = metrics.NewSyncMetrics(nil)
	}
	return &clientSyncService{
		localStore: localStore,
		adapter:    serverAdapter,
		metrics:    syncMetrics,
		now:        time.Now,
	}
}

// Flush implements [ClientSyncService].
func (s *clientSyncService) Flush(ctx context.Context, userID string) error {
	log := logger.FromContext(ctx)
	defer s.metrics.ObserveFlush(s.now())

	for {
		if ctx.Err() != nil {
			// remaining items stay queued untouched for the next drain
			log.Debug().Str("func", "clientSyncService.Flush").Msg("drain interrupted")
			return nil
		}

		item, err := s.localStore.SyncQueue.Next(ctx, userID)
		if err != nil {
			return fmt.Errorf("get next sync item: %w", err)
		}
		if item == nil {
			return nil
		}

		if err = s.process(ctx, *item); err != nil {
			s.metrics.ObserveItem(string(item.Op), metrics.OutcomeFailed)
			log.Warn().Err(err).
				Str("func", "clientSyncService.Flush").
				Int64("item_id", item.ID).
				Str("op", string(item.Op)).
				Str("storage_path", item.StoragePath).
				Msg("sync halted on failing item")

			if err = s.markFailure(ctx, *item, err); err != nil {
				return err
			}
			return nil
		}
	}
}

func (s *clientSyncService) process(ctx context.Context, item models.SyncQueueItem) error {
	switch item.Op {
	case models.SyncOperationUpsert:
		return s.upsert(ctx, item)
	case models.SyncOperationDelete:
		return s.delete(ctx, item)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOperation, item.Op)
	}
}

func (s *clientSyncService) upsert(ctx context.Context, item models.SyncQueueItem) error {
	if item.Payload == nil {
		return ErrMissingPayload
	}

	outcome := metrics.OutcomeSynced
	resp, err := s.adapter.UpdateEntry(ctx, *item.Payload)
	if errors.Is(err, adapter.ErrNotFound) {
		// TODO: a 404 here cannot tell "deleted on another device" from "never
		// created"; both recreate the entry until the API exposes tombstones.
		outcome = metrics.OutcomeCreated
		resp, err = s.adapter.CreateEntry(ctx, *item.Payload)
	}
	if err != nil {
		return err
	}

	if err = s.reconcileUpsert(ctx, item, resp); err != nil {
		return fmt.Errorf("reconcile upsert: %w", err)
	}

	s.metrics.ObserveItem(string(item.Op), outcome)
	return nil
}

// reconcileUpsert writes the server's view of the entry into the cache and
// removes the queue item in one transaction.
func (s *clientSyncService) reconcileUpsert(ctx context.Context, item models.SyncQueueItem, resp models.EntryResponse) error {
	return s.localStore.InTransaction(ctx, func(entries store.LocalEntryRepository, queue store.LocalSyncQueueRepository) error {
		serverPath := resp.StoragePath
		if serverPath == "" {
			serverPath = item.StoragePath
		}
		moved := serverPath != item.StoragePath

		prior, err := entries.Get(ctx, item.UserID, item.StoragePath)
		if err != nil {
			return err
		}
		if prior == nil && moved {
			if prior, err = entries.Get(ctx, item.UserID, serverPath); err != nil {
				return err
			}
		}

		var priorCreatedAt models.LocalDateTime
		if prior != nil {
			priorCreatedAt = prior.CreatedAt
		}

		record := models.EntryRecord{
			UserID:            item.UserID,
			StoragePath:       serverPath,
			CreatedAt:         resp.CreatedAt.Or(priorCreatedAt).Or(item.Payload.CreatedAt),
			UpdatedAt:         resp.UpdatedAt,
			EncryptedEnvelope: resp.EncryptedEnvelope,
		}

		if moved {
			if err = entries.Remove(ctx, item.UserID, item.StoragePath); err != nil {
				return err
			}
			if _, err = queue.RetargetPath(ctx, item.UserID, item.StoragePath, serverPath); err != nil {
				return err
			}
		}

		pending, err := queue.CountForPath(ctx, item.UserID, serverPath, item.ID)
		if err != nil {
			return err
		}
		if pending > 0 && prior != nil {
			// later local edits win until their own items are confirmed
			record.EncryptedEnvelope = prior.EncryptedEnvelope
			record.Dirty = prior.Dirty
			record.DeletedAt = prior.DeletedAt
		}

		if err = entries.Upsert(ctx, record); err != nil {
			return err
		}
		return queue.Remove(ctx, item.ID)
	})
}

func (s *clientSyncService) delete(ctx context.Context, item models.SyncQueueItem) error {
	if _, err := s.adapter.DeleteEntry(ctx, item.StoragePath); err != nil {
		return err
	}

	err := s.localStore.InTransaction(ctx, func(entries store.LocalEntryRepository, queue store.LocalSyncQueueRepository) error {
		if err := entries.Remove(ctx, item.UserID, item.StoragePath); err != nil {
			return err
		}
		return queue.Remove(ctx, item.ID)
	})
	if err != nil {
		return fmt.Errorf("reconcile delete: %w", err)
	}

	s.metrics.ObserveItem(string(item.Op), metrics.OutcomeSynced)
	return nil
}

// markFailure records cause on item. It runs even when ctx is already
// cancelled so that an interrupted drain still leaves a trace.
func (s *clientSyncService) markFailure(ctx context.Context, item models.SyncQueueItem, cause error) error {
	message := adapter.Message(cause)

	item.RetryCount++
	item.LastAttemptAt = models.NewLocalDateTime(s.now())
	item.LastError = &message

	err := s.localStore.SyncQueue.Update(context.WithoutCancel(ctx), item)
	if errors.Is(err, store.ErrSyncItemNotFound) {
		// retired meanwhile by another process sharing the database
		logger.FromContext(ctx).Info().
			Str("func", "clientSyncService.markFailure").
			Int64("id", item.ID).
			Msg("sync item already retired, failure not recorded")
		return nil
	}
	if err != nil {
		return fmt.Errorf("record sync failure: %w", err)
	}
	return nil
}

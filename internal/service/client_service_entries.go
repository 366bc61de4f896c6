// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/scribe-keeper/internal/adapter"
	"github.com/MKhiriev/scribe-keeper/internal/crypto"
	"github.com/MKhiriev/scribe-keeper/internal/logger"
	"github.com/MKhiriev/scribe-keeper/internal/session"
	"github.com/MKhiriev/scribe-keeper/internal/store"
	"github.com/MKhiriev/scribe-keeper/internal/utils"
	"github.com/MKhiriev/scribe-keeper/models"
)

// UndecryptableTitle replaces titles that fail to decrypt in listings.
const UndecryptableTitle = "Unable to decrypt"

type clientEntryService struct {
	localStore  *store.ClientStorages
	adapter     adapter.ServerAdapter
	crypto      crypto.KeyChainService
	session     *session.Session
	coordinator SyncCoordinator
	paths       *utils.UUIDGenerator

	now func() time.Time
}

func NewClientEntryService(
	localStore *store.ClientStorages,
	serverAdapter adapter.ServerAdapter,
	keyChain crypto.KeyChainService,
	sess *session.Session,
	coordinator SyncCoordinator,
) ClientEntryService {
	return &clientEntryService{
		localStore:  localStore,
		adapter:     serverAdapter,
		crypto:      keyChain,
		session:     sess,
		coordinator: coordinator,
		paths:       utils.NewUUIDGenerator(),
		now:         time.Now,
	}
}

// Save implements [ClientEntryService].
func (s *clientEntryService) Save(ctx context.Context, draft models.EntryDraft) (string, error) {
	userID, key, err := s.unlocked()
	if err != nil {
		return "", err
	}

	storagePath := draft.StoragePath
	if storagePath == "" {
		storagePath = s.paths.NewStoragePath()
	}

	envelope, err := s.crypto.EncryptEnvelope(draft.Title, draft.Body, key)
	if err != nil {
		return "", fmt.Errorf("encrypt entry: %w", err)
	}

	now := models.NewLocalDateTime(s.now())
	err = s.localStore.InTransaction(ctx, func(entries store.LocalEntryRepository, queue store.LocalSyncQueueRepository) error {
		createdAt := draft.CreatedAt
		if createdAt.IsZero() {
			existing, err := entries.Get(ctx, userID, storagePath)
			if err != nil {
				return err
			}
			if existing != nil {
				createdAt = existing.CreatedAt
			}
		}
		createdAt = createdAt.Or(now)

		record := models.EntryRecord{
			UserID:            userID,
			StoragePath:       storagePath,
			CreatedAt:         createdAt,
			UpdatedAt:         now,
			EncryptedEnvelope: envelope,
			Dirty:             true,
		}
		if err := entries.Upsert(ctx, record); err != nil {
			return err
		}

		path := storagePath
		_, err := queue.Enqueue(ctx, models.SyncQueueItem{
			UserID:      userID,
			Op:          models.SyncOperationUpsert,
			StoragePath: storagePath,
			Payload: &models.EntryRequest{
				StoragePath:       &path,
				CreatedAt:         createdAt,
				EncryptedEnvelope: envelope,
			},
			EnqueuedAt: now,
		})
		return err
	})
	if err != nil {
		return "", fmt.Errorf("save entry locally: %w", err)
	}

	s.afterWrite(ctx)
	return storagePath, nil
}

// Delete implements [ClientEntryService].
func (s *clientEntryService) Delete(ctx context.Context, storagePath string) error {
	userID, err := s.session.UserID()
	if err != nil {
		return err
	}

	now := models.NewLocalDateTime(s.now())
	err = s.localStore.InTransaction(ctx, func(entries store.LocalEntryRepository, queue store.LocalSyncQueueRepository) error {
		record, err := entries.Get(ctx, userID, storagePath)
		if err != nil {
			return err
		}
		if record == nil || record.IsDeleted() {
			return ErrEntryNotFound
		}

		record.DeletedAt = now
		record.Dirty = true
		if err = entries.Upsert(ctx, *record); err != nil {
			return err
		}

		_, err = queue.EnqueueDelete(ctx, userID, storagePath, now)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return err
		}
		return fmt.Errorf("delete entry locally: %w", err)
	}

	s.afterWrite(ctx)
	return nil
}

// afterWrite refreshes the pending count and drains opportunistically. The
// write itself already succeeded, so failures are only logged.
func (s *clientEntryService) afterWrite(ctx context.Context) {
	log := logger.FromContext(ctx)

	if _, err := s.coordinator.RefreshPendingCount(ctx); err != nil {
		log.Err(err).Str("func", "clientEntryService.afterWrite").Msg("failed to refresh pending count")
	}
	if s.coordinator.IsOffline() {
		return
	}
	if _, err := s.coordinator.SyncNow(ctx); err != nil {
		log.Err(err).Str("func", "clientEntryService.afterWrite").Msg("opportunistic sync failed")
	}
}

// Get implements [ClientEntryService]. A cached record is returned as is;
// freshness is the job of Pull.
func (s *clientEntryService) Get(ctx context.Context, storagePath string) (models.DecryptedEntry, error) {
	userID, key, err := s.unlocked()
	if err != nil {
		return models.DecryptedEntry{}, err
	}

	record, err := s.localStore.Entries.Get(ctx, userID, storagePath)
	if err != nil {
		return models.DecryptedEntry{}, fmt.Errorf("read cached entry: %w", err)
	}
	if record != nil && record.IsDeleted() {
		return models.DecryptedEntry{}, ErrEntryNotFound
	}

	if record == nil {
		if s.coordinator.IsOffline() {
			return models.DecryptedEntry{}, ErrEntryNotFound
		}

		resp, err := s.adapter.GetEntryByPath(ctx, storagePath)
		if err != nil {
			return models.DecryptedEntry{}, mapAdapterError(err)
		}

		fetched := cleanRecord(userID, resp)
		if err = s.localStore.Entries.Upsert(ctx, fetched); err != nil {
			return models.DecryptedEntry{}, fmt.Errorf("cache fetched entry: %w", err)
		}
		record = &fetched
	}

	plain, err := s.crypto.DecryptEnvelope(record.EncryptedEnvelope, key)
	if err != nil {
		return models.DecryptedEntry{}, fmt.Errorf("decrypt entry %q: %w", storagePath, err)
	}

	return models.DecryptedEntry{
		StoragePath: record.StoragePath,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
		Title:       plain.Title,
		Body:        plain.Body,
		Dirty:       record.Dirty,
	}, nil
}

// List implements [ClientEntryService].
func (s *clientEntryService) List(ctx context.Context) ([]models.EntryListItem, error) {
	userID, key, err := s.unlocked()
	if err != nil {
		return nil, err
	}

	records, err := s.localStore.Entries.List(ctx, userID, store.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list cached entries: %w", err)
	}

	items := make([]models.EntryListItem, 0, len(records))
	for _, r := range records {
		item := models.EntryListItem{
			StoragePath: r.StoragePath,
			CreatedAt:   r.CreatedAt,
			UpdatedAt:   r.UpdatedAt,
			Dirty:       r.Dirty,
		}

		title, err := s.crypto.DecryptTitle(r.EncryptedEnvelope, key)
		if err != nil {
			item.Title = UndecryptableTitle
			item.DecryptFailed = true
		} else {
			item.Title = title
		}

		items = append(items, item)
	}

	return items, nil
}

// Pull implements [ClientEntryService].
func (s *clientEntryService) Pull(ctx context.Context) (PullResult, error) {
	userID, err := s.session.UserID()
	if err != nil {
		return PullResult{}, err
	}
	if s.coordinator.IsOffline() {
		return PullResult{}, ErrOffline
	}

	summaries, err := s.adapter.ListEntries(ctx)
	if err != nil {
		return PullResult{}, mapAdapterError(err)
	}

	cached, err := s.localStore.Entries.List(ctx, userID, store.ListOptions{IncludeDeleted: true})
	if err != nil {
		return PullResult{}, fmt.Errorf("list cached entries: %w", err)
	}
	local := make(map[string]models.EntryRecord, len(cached))
	for _, r := range cached {
		local[r.StoragePath] = r
	}

	var result PullResult
	remote := make(map[string]struct{}, len(summaries))
	for _, summary := range summaries {
		remote[summary.StoragePath] = struct{}{}

		if r, ok := local[summary.StoragePath]; ok {
			if r.Dirty || r.IsDeleted() || !olderThan(r.UpdatedAt, summary.UpdatedAt) {
				result.Skipped++
				continue
			}
		}

		resp, err := s.adapter.GetEntryByPath(ctx, summary.StoragePath)
		if errors.Is(err, adapter.ErrNotFound) {
			// deleted between list and fetch
			result.Skipped++
			continue
		}
		if err != nil {
			return result, mapAdapterError(err)
		}

		if err = s.localStore.Entries.Upsert(ctx, cleanRecord(userID, resp)); err != nil {
			return result, fmt.Errorf("cache pulled entry: %w", err)
		}
		result.Fetched++
	}

	for _, r := range cached {
		if _, ok := remote[r.StoragePath]; ok || r.Dirty || r.IsDeleted() {
			continue
		}
		if err = s.localStore.Entries.Remove(ctx, userID, r.StoragePath); err != nil {
			return result, fmt.Errorf("remove stale entry: %w", err)
		}
		result.Removed++
	}

	return result, nil
}

// Analyze implements [ClientEntryService].
func (s *clientEntryService) Analyze(ctx context.Context, text string) (models.AnalysisResponse, error) {
	if s.coordinator.IsOffline() {
		return models.AnalysisResponse{}, ErrOffline
	}
	resp, err := s.adapter.AnalyzeText(ctx, text)
	if err != nil {
		return models.AnalysisResponse{}, mapAdapterError(err)
	}
	return resp, nil
}

// Recommend implements [ClientEntryService].
func (s *clientEntryService) Recommend(ctx context.Context, text string) (models.RecommendationResponse, error) {
	if s.coordinator.IsOffline() {
		return models.RecommendationResponse{}, ErrOffline
	}
	resp, err := s.adapter.GetRecommendations(ctx, text)
	if err != nil {
		return models.RecommendationResponse{}, mapAdapterError(err)
	}
	return resp, nil
}

func (s *clientEntryService) unlocked() (string, *crypto.EncryptionKey, error) {
	userID, err := s.session.UserID()
	if err != nil {
		return "", nil, err
	}
	key, err := s.session.Key()
	if err != nil {
		return "", nil, err
	}
	return userID, key, nil
}

func cleanRecord(userID string, resp models.EntryResponse) models.EntryRecord {
	return models.EntryRecord{
		UserID:            userID,
		StoragePath:       resp.StoragePath,
		CreatedAt:         resp.CreatedAt,
		UpdatedAt:         resp.UpdatedAt,
		EncryptedEnvelope: resp.EncryptedEnvelope,
	}
}

// olderThan reports whether local predates remote. An unparsable or missing
// remote timestamp never counts as newer.
func olderThan(local, remote models.LocalDateTime) bool {
	if remote.IsZero() {
		return false
	}
	if local.IsZero() {
		return true
	}

	lt, lerr := local.Time()
	rt, rerr := remote.Time()
	if lerr != nil || rerr != nil {
		return local < remote
	}
	return lt.Before(rt)
}

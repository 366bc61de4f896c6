// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"time"

	"github.com/MKhiriev/scribe-keeper/internal/adapter"
	"github.com/MKhiriev/scribe-keeper/internal/crypto"
	"github.com/MKhiriev/scribe-keeper/internal/metrics"
	"github.com/MKhiriev/scribe-keeper/internal/session"
	"github.com/MKhiriev/scribe-keeper/internal/store"
)

type ClientServices struct {
	AuthService  ClientAuthService
	EntryService ClientEntryService
	SyncService  ClientSyncService
	Coordinator  SyncCoordinator
	SyncJob      ClientSyncJob
}

func NewClientServices(
	localStore *store.ClientStorages,
	serverAdapter adapter.ServerAdapter,
	sess *session.Session,
	syncMetrics *metrics.SyncMetrics,
	syncInterval time.Duration,
) *ClientServices {
	keyChain := crypto.NewKeyChainService()
	syncSvc := NewClientSyncService(localStore, serverAdapter, syncMetrics)
	coordinator := NewSyncCoordinator(localStore, syncSvc, sess, syncMetrics)

	return &ClientServices{
		AuthService:  NewClientAuthService(localStore, serverAdapter, keyChain, sess),
		EntryService: NewClientEntryService(localStore, serverAdapter, keyChain, sess, coordinator),
		SyncService:  syncSvc,
		Coordinator:  coordinator,
		SyncJob:      NewClientSyncJob(coordinator, syncInterval),
	}
}

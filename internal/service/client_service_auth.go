// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
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

type clientAuthService struct {
	localStore *store.ClientStorages
	adapter    adapter.ServerAdapter
	crypto     crypto.KeyChainService
	session    *session.Session

	now func() time.Time
}

func NewClientAuthService(localStore *store.ClientStorages, serverAdapter adapter.ServerAdapter, keyChain crypto.KeyChainService, sess *session.Session) ClientAuthService {
	return &clientAuthService{
		localStore: localStore,
		adapter:    serverAdapter,
		crypto:     keyChain,
		session:    sess,
		now:        time.Now,
	}
}

func (a *clientAuthService) Register(ctx context.Context, creds models.Credentials) (models.User, error) {
	resp, err := a.adapter.Register(ctx, creds)
	if err != nil {
		return models.User{}, fmt.Errorf("register on server: %w", mapAuthError(err))
	}

	return a.begin(ctx, resp)
}

func (a *clientAuthService) Login(ctx context.Context, creds models.Credentials) (models.User, error) {
	resp, err := a.adapter.Login(ctx, creds)
	if err != nil {
		return models.User{}, fmt.Errorf("login on server: %w", mapAuthError(err))
	}

	return a.begin(ctx, resp)
}

// begin persists the issued session and activates it locked.
func (a *clientAuthService) begin(ctx context.Context, resp models.AuthTokenResponse) (models.User, error) {
	stored := models.StoredSession{
		User:    resp.User,
		Token:   resp.AccessToken,
		E2ee:    resp.E2ee,
		SavedAt: models.NewLocalDateTime(a.now()),
	}

	if err := a.localStore.Sessions.Save(ctx, stored); err != nil {
		return models.User{}, fmt.Errorf("persist session: %w", err)
	}

	a.activate(stored)

	logger.FromContext(ctx).Info().
		Str("func", "clientAuthService.begin").
		Str("user_id", stored.User.ID).
		Msg("session started")

	return stored.User, nil
}

func (a *clientAuthService) activate(stored models.StoredSession) {
	a.adapter.SetToken(stored.Token)
	a.session.Begin(stored)
}

func (a *clientAuthService) Restore(ctx context.Context) (models.User, error) {
	stored, err := a.localStore.Sessions.Latest(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("load stored session: %w", err)
	}
	if stored == nil {
		return models.User{}, ErrNoStoredSession
	}

	a.activate(*stored)
	return stored.User, nil
}

func (a *clientAuthService) Unlock(ctx context.Context, passphrase string) error {
	if _, err := a.session.UserID(); err != nil {
		return err
	}

	key, err := a.crypto.DeriveKey(ctx, passphrase, a.session.E2ee())
	if err != nil {
		return fmt.Errorf("derive key: %w", err)
	}

	return a.session.Unlock(key)
}

func (a *clientAuthService) Lock() {
	a.session.Lock()
}

// Logout keeps cached entries and pending queue items: they belong to the
// user and are synced on the next login.
func (a *clientAuthService) Logout(ctx context.Context) error {
	userID, err := a.session.UserID()
	if err != nil {
		return err
	}

	if err = a.localStore.Sessions.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete stored session: %w", err)
	}

	a.adapter.SetToken("")
	a.session.Logout()
	return nil
}

func (a *clientAuthService) TokenInfo() (utils.TokenInfo, error) {
	token := a.session.Token()
	if token == "" {
		return utils.TokenInfo{}, ErrNoActiveUser
	}
	return utils.ParseTokenInfo(token)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session holds the in-memory state of the signed-in user: identity,
// bearer token, e2ee parameters and, once unlocked, the encryption key.
//
// There is exactly one holder per process. The key never leaves memory and is
// dropped on Lock and Logout.
package session

import (
	"errors"
	"sync"

	"github.com/MKhiriev/scribe-keeper/internal/crypto"
	"github.com/MKhiriev/scribe-keeper/models"
)

var (
	// ErrLocked is returned when an operation needs the encryption key and
	// none is installed.
	ErrLocked = errors.New("session locked: passphrase required")
	// ErrNoActiveUser is returned when no user is signed in.
	ErrNoActiveUser = errors.New("no active user")
)

type Session struct {
	mu sync.RWMutex

	active bool
	user   models.User
	token  string
	e2ee   models.E2eeParams
	key    *crypto.EncryptionKey
}

func New() *Session {
	return &Session{}
}

// Begin makes stored the active session. Any previously installed key is
// dropped: the new session starts locked.
func (s *Session) Begin(stored models.StoredSession) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = true
	s.user = stored.User
	s.token = stored.Token
	s.e2ee = stored.E2ee
	s.key = nil
}

// Unlock installs key, replacing any previous one.
func (s *Session) Unlock(key *crypto.EncryptionKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return ErrNoActiveUser
	}
	s.key = key
	return nil
}

// Lock drops the key and keeps the identity.
func (s *Session) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = nil
}

// Logout clears everything.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = false
	s.user = models.User{}
	s.token = ""
	s.e2ee = models.E2eeParams{}
	s.key = nil
}

func (s *Session) Key() (*crypto.EncryptionKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.active {
		return nil, ErrNoActiveUser
	}
	if s.key == nil {
		return nil, ErrLocked
	}
	return s.key, nil
}

func (s *Session) UserID() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.active || s.user.ID == "" {
		return "", ErrNoActiveUser
	}
	return s.user.ID, nil
}

func (s *Session) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.active
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) E2ee() models.E2eeParams {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.e2ee
}

func (s *Session) IsUnlocked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active && s.key != nil
}

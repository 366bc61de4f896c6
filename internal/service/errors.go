package service

import (
	"errors"

	"github.com/MKhiriev/scribe-keeper/internal/session"
)

var (
	// ErrUnknownOperation is recorded on a queue item whose op is neither
	// upsert nor delete.
	ErrUnknownOperation = errors.New("unknown sync operation")
	// ErrMissingPayload is recorded on an upsert item without a payload.
	ErrMissingPayload = errors.New("sync queue upsert item is missing payload")

	ErrEntryNotFound   = errors.New("entry not found")
	ErrOffline         = errors.New("offline")
	ErrNoStoredSession = errors.New("no stored session")
	ErrSessionExpired  = errors.New("session expired")
	ErrUsernameTaken   = errors.New("username already exists")
	ErrWrongPassword   = errors.New("wrong username or password")

	// ErrLocked and ErrNoActiveUser are re-exported so callers of this
	// package do not need to import session.
	ErrLocked       = session.ErrLocked
	ErrNoActiveUser = session.ErrNoActiveUser
)

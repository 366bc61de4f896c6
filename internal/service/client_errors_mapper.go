// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/scribe-keeper/internal/adapter"
)

// mapAdapterError translates a remote failure on an interactive call into a
// service business error. The original error stays in the chain.
func mapAdapterError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, adapter.ErrUnauthorized):
		return fmt.Errorf("%w: %w", ErrSessionExpired, err)
	case errors.Is(err, adapter.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrEntryNotFound, err)
	case errors.Is(err, adapter.ErrUnreachable):
		return fmt.Errorf("%w: %w", ErrOffline, err)
	}

	return err
}

// mapAuthError is mapAdapterError for the register and login calls, where a
// 401 means bad credentials rather than an expired token.
func mapAuthError(err error) error {
	switch {
	case errors.Is(err, adapter.ErrUnauthorized):
		return fmt.Errorf("%w: %w", ErrWrongPassword, err)
	case errors.Is(err, adapter.ErrConflict):
		return fmt.Errorf("%w: %w", ErrUsernameTaken, err)
	}
	return mapAdapterError(err)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/scribe-keeper/internal/logger"
	"github.com/MKhiriev/scribe-keeper/models"
)

type localSessionRepository struct {
	db execer
}

func NewLocalSessionRepository(db execer) LocalSessionRepository {
	return &localSessionRepository{db: db}
}

func (s *localSessionRepository) Save(ctx context.Context, session models.StoredSession) error {
	log := logger.FromContext(ctx)

	_, err := s.db.ExecContext(ctx, saveSession,
		session.User.ID,
		session.User.Username,
		session.Token,
		session.E2ee.KDF,
		session.E2ee.Salt,
		session.E2ee.Iterations,
		session.SavedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "localSessionRepository.Save").
			Str("user_id", session.User.ID).
			Msg("failed to save session")
		return fmt.Errorf("%w: failed to save session: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *localSessionRepository) Latest(ctx context.Context) (*models.StoredSession, error) {
	log := logger.FromContext(ctx)

	var session models.StoredSession
	err := s.db.QueryRowContext(ctx, latestSession).Scan(
		&session.User.ID,
		&session.User.Username,
		&session.Token,
		&session.E2ee.KDF,
		&session.E2ee.Salt,
		&session.E2ee.Iterations,
		&session.SavedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Err(err).Str("func", "localSessionRepository.Latest").Msg("failed to load session")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return &session, nil
}

func (s *localSessionRepository) Delete(ctx context.Context, userID string) error {
	log := logger.FromContext(ctx)

	if _, err := s.db.ExecContext(ctx, deleteSession, userID); err != nil {
		log.Err(err).
			Str("func", "localSessionRepository.Delete").
			Str("user_id", userID).
			Msg("failed to delete session")
		return fmt.Errorf("%w: failed to delete session: %w", ErrExecutingStatement, err)
	}

	return nil
}

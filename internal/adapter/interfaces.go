// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport layer between the scribe-keeper
// client and the remote diary API.
//
// The primary abstraction is [ServerAdapter], which decouples the sync engine
// and the entry services from HTTP. Non-2xx responses are returned as
// [*RemoteError] values that match [ErrRemote] and a status sentinel
// ([ErrNotFound] for 404, [ErrUnauthorized] for 401, ...) under [errors.Is].
// Transport failures match [ErrRemote] and [ErrUnreachable].
package adapter

import (
	"context"

	"github.com/MKhiriev/scribe-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines communication with the remote diary API. The server
// only ever sees ciphertext: every entry payload crossing this interface is
// already encrypted.
type ServerAdapter interface {
	// SetToken stores the bearer token attached to every authenticated request.
	SetToken(token string)

	// Token returns the bearer token currently held, or "".
	Token() string

	// Register creates an account and returns the issued token together with
	// the account's e2ee parameters.
	Register(ctx context.Context, creds models.Credentials) (models.AuthTokenResponse, error)

	// Login authenticates an existing account.
	Login(ctx context.Context, creds models.Credentials) (models.AuthTokenResponse, error)

	// ListEntries returns the summaries of every entry the server holds for
	// the authenticated user.
	ListEntries(ctx context.Context) ([]models.EntrySummary, error)

	// GetEntryByPath fetches one full entry. A missing entry yields an error
	// matching [ErrNotFound].
	GetEntryByPath(ctx context.Context, storagePath string) (models.EntryResponse, error)

	// CreateEntry stores a new entry. The server may assign a storage path
	// that differs from the requested one.
	CreateEntry(ctx context.Context, req models.EntryRequest) (models.EntryResponse, error)

	// UpdateEntry overwrites an existing entry. A missing entry yields an
	// error matching [ErrNotFound].
	UpdateEntry(ctx context.Context, req models.EntryRequest) (models.EntryResponse, error)

	// DeleteEntry removes the entry at storagePath.
	DeleteEntry(ctx context.Context, storagePath string) (models.DeleteResponse, error)

	// AnalyzeText extracts keywords from plaintext the user chose to share.
	AnalyzeText(ctx context.Context, text string) (models.AnalysisResponse, error)

	// GetRecommendations returns songs and movies matched to text.
	GetRecommendations(ctx context.Context, text string) (models.RecommendationResponse, error)

	// Ping reports whether the server answers at all. Any HTTP response,
	// including an error status, counts as reachable.
	Ping(ctx context.Context) error
}

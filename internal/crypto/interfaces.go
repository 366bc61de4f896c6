// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"context"

	"github.com/MKhiriev/scribe-keeper/models"
)

// KeyChainService owns all client-side cryptography of the diary.
// It knows nothing about the network, the local store or users.
//
// Flow:
//
//	key      = DeriveKey(ctx, passphrase, e2eeParams)   (on unlock)
//	envelope = EncryptEnvelope(title, body, key)         (on save)
//	plain    = DecryptEnvelope(envelope, key)            (on read)
type KeyChainService interface {
	// DeriveKey turns a passphrase into an AES-256-GCM key using the
	// server-issued params. Only "PBKDF2-SHA256" is supported; any other
	// kdf tag fails with ErrUnsupportedKdf. The derivation honours ctx.
	DeriveKey(ctx context.Context, passphrase string, params models.E2eeParams) (*EncryptionKey, error)

	// EncryptEnvelope encrypts title and body independently, each under its
	// own fresh IV, and stamps algo "AES-GCM" and version 1.
	EncryptEnvelope(title, body string, key *EncryptionKey) (models.EncryptedEnvelope, error)

	// DecryptEnvelope checks algo and version, then decrypts both fields.
	// It never returns a partial result.
	DecryptEnvelope(envelope models.EncryptedEnvelope, key *EncryptionKey) (models.DecryptedEnvelope, error)

	// DecryptTitle decrypts only the title of an envelope. Used by listings.
	DecryptTitle(envelope models.EncryptedEnvelope, key *EncryptionKey) (string, error)
}

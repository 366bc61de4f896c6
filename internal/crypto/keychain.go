// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"context"
	"fmt"

	"github.com/MKhiriev/scribe-keeper/models"
)

// keyChainService is the private implementation of [KeyChainService].
type keyChainService struct{}

// NewKeyChainService constructs a [KeyChainService] backed by PBKDF2-SHA256
// key derivation and AES-256-GCM envelopes.
func NewKeyChainService() KeyChainService {
	return &keyChainService{}
}

// DeriveKey implements [KeyChainService].
func (k *keyChainService) DeriveKey(ctx context.Context, passphrase string, params models.E2eeParams) (*EncryptionKey, error) {
	return deriveKeyContext(ctx, passphrase, params)
}

// EncryptEnvelope implements [KeyChainService].
func (k *keyChainService) EncryptEnvelope(title, body string, key *EncryptionKey) (models.EncryptedEnvelope, error) {
	return encryptEnvelope(title, body, key)
}

// DecryptEnvelope implements [KeyChainService].
func (k *keyChainService) DecryptEnvelope(envelope models.EncryptedEnvelope, key *EncryptionKey) (models.DecryptedEnvelope, error) {
	return decryptEnvelope(envelope, key)
}

// DecryptTitle implements [KeyChainService]. Algo and version are checked the
// same way as in [keyChainService.DecryptEnvelope].
func (k *keyChainService) DecryptTitle(envelope models.EncryptedEnvelope, key *EncryptionKey) (string, error) {
	if err := checkSuite(envelope.Algo, envelope.Version); err != nil {
		return "", err
	}
	title, err := decryptField(envelope.TitleCiphertext, envelope.TitleIV, key)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt title: %w", err)
	}
	return title, nil
}

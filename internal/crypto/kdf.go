// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/MKhiriev/scribe-keeper/models"
	"golang.org/x/crypto/pbkdf2"
)

// KdfPBKDF2SHA256 is the only key-derivation tag the client understands.
const KdfPBKDF2SHA256 = "PBKDF2-SHA256"

// deriveKey runs PBKDF2-HMAC-SHA256 and wraps the result in an [EncryptionKey].
func deriveKey(passphrase string, params models.E2eeParams) (*EncryptionKey, error) {
	if params.KDF != KdfPBKDF2SHA256 {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKdf, params.KDF)
	}
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}
	if params.Iterations == 0 {
		return nil, fmt.Errorf("%w: iterations must be positive", ErrInvalidKdfParams)
	}

	salt, err := DecodeBase64(params.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}

	raw := pbkdf2.Key([]byte(passphrase), salt, int(params.Iterations), KeySize, sha256.New)
	return newEncryptionKey(raw)
}

// deriveKeyContext runs deriveKey in its own goroutine so that a slow
// derivation never holds the caller past ctx's deadline. An abandoned
// derivation finishes in the background and its result is dropped.
func deriveKeyContext(ctx context.Context, passphrase string, params models.E2eeParams) (*EncryptionKey, error) {
	type result struct {
		key *EncryptionKey
		err error
	}

	done := make(chan result, 1)
	go func() {
		key, err := deriveKey(passphrase, params)
		done <- result{key: key, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		return res.key, res.err
	}
}

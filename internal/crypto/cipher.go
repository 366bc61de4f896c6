// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32
	// IVSize is the GCM nonce length in bytes.
	IVSize = 12
	// TagSize is the GCM authentication tag length appended to every ciphertext.
	TagSize = 16
)

// EncryptionKey is an opaque handle over an AES-256-GCM cipher.
//
// The raw key bytes are consumed when the handle is built and cannot be read
// back. The handle is safe for concurrent use.
type EncryptionKey struct {
	aead cipher.AEAD
}

// newEncryptionKey builds a key handle from raw and wipes raw afterwards.
func newEncryptionKey(raw []byte) (*EncryptionKey, error) {
	defer clear(raw)

	if len(raw) != KeySize {
		return nil, fmt.Errorf("%w: key must be %d bytes", ErrInvalidKdfParams, KeySize)
	}

	block, err := aes.NewCipher(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, IVSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &EncryptionKey{aead: gcm}, nil
}

// String never reveals key material.
func (k *EncryptionKey) String() string {
	return "EncryptionKey(AES-256-GCM)"
}

// Encrypt seals plaintext with key and returns ciphertext‖tag and the IV used.
//
// When iv is omitted a fresh 12-byte IV is read from crypto/rand. An explicit
// IV must be exactly [IVSize] bytes and must never be reused with the same key.
func Encrypt(plaintext []byte, key *EncryptionKey, iv ...[]byte) (ciphertext, usedIV []byte, err error) {
	if key == nil {
		return nil, nil, ErrNoKey
	}

	switch {
	case len(iv) > 0 && iv[0] != nil:
		if len(iv[0]) != IVSize {
			return nil, nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidIV, len(iv[0]), IVSize)
		}
		usedIV = append([]byte(nil), iv[0]...)
	default:
		usedIV = make([]byte, IVSize)
		if _, err = io.ReadFull(rand.Reader, usedIV); err != nil {
			return nil, nil, fmt.Errorf("failed to generate iv: %w", err)
		}
	}

	return key.aead.Seal(nil, usedIV, plaintext, nil), usedIV, nil
}

// Decrypt opens ciphertext‖tag with key and iv. Any failure, including a
// wrong key, a flipped bit or an IV of the wrong length, yields [ErrDecryption].
func Decrypt(ciphertext, iv []byte, key *EncryptionKey) ([]byte, error) {
	if key == nil {
		return nil, ErrNoKey
	}
	if len(iv) != IVSize {
		return nil, fmt.Errorf("%w: iv must be %d bytes", ErrDecryption, IVSize)
	}
	if len(ciphertext) < TagSize {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrDecryption)
	}

	plaintext, err := key.aead.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryption, err)
	}
	return plaintext, nil
}

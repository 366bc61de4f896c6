// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "errors"

var (
	// ErrDecode is returned when a base64 field is malformed.
	ErrDecode = errors.New("malformed base64 input")

	// ErrUnsupportedKdf is returned when E2EE params name a KDF other than PBKDF2-SHA256.
	ErrUnsupportedKdf = errors.New("unsupported key derivation function")

	// ErrInvalidKdfParams is returned when the salt or the iteration count cannot be used.
	ErrInvalidKdfParams = errors.New("invalid key derivation parameters")

	// ErrEmptyPassphrase is returned when key derivation is requested for an empty passphrase.
	ErrEmptyPassphrase = errors.New("passphrase is empty")

	// ErrDecryption is returned on AEAD authentication failure, a wrong key,
	// tampered ciphertext or a malformed IV.
	ErrDecryption = errors.New("decryption failed")

	// ErrInvalidIV is returned when an explicit IV of the wrong length is passed to Encrypt.
	ErrInvalidIV = errors.New("invalid iv length")

	// ErrNoKey is returned when a nil key is passed to the cipher.
	ErrNoKey = errors.New("encryption key is not set")

	ErrUnsupportedAlgorithm = errors.New("unsupported envelope algorithm")
	ErrUnsupportedVersion   = errors.New("unsupported envelope version")
)

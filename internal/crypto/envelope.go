// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"fmt"

	"github.com/MKhiriev/scribe-keeper/models"
)

const (
	// EnvelopeAlgo is stamped on every envelope produced by this package.
	EnvelopeAlgo = "AES-GCM"
	// EnvelopeVersion is the only envelope layout version this package reads.
	EnvelopeVersion uint32 = 1
)

func encryptField(plaintext string, key *EncryptionKey) (ciphertextB64, ivB64 string, err error) {
	ciphertext, iv, err := Encrypt([]byte(plaintext), key)
	if err != nil {
		return "", "", err
	}
	return EncodeBase64(ciphertext), EncodeBase64(iv), nil
}

func decryptField(ciphertextB64, ivB64 string, key *EncryptionKey) (string, error) {
	ciphertext, err := DecodeBase64(ciphertextB64)
	if err != nil {
		return "", err
	}
	iv, err := DecodeBase64(ivB64)
	if err != nil {
		return "", err
	}
	plaintext, err := Decrypt(ciphertext, iv, key)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

func checkSuite(algo string, version uint32) error {
	if algo != EnvelopeAlgo {
		return fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algo)
	}
	if version != EnvelopeVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	return nil
}

func encryptEnvelope(title, body string, key *EncryptionKey) (models.EncryptedEnvelope, error) {
	titleCT, titleIV, err := encryptField(title, key)
	if err != nil {
		return models.EncryptedEnvelope{}, fmt.Errorf("failed to encrypt title: %w", err)
	}
	bodyCT, bodyIV, err := encryptField(body, key)
	if err != nil {
		return models.EncryptedEnvelope{}, fmt.Errorf("failed to encrypt body: %w", err)
	}

	return models.EncryptedEnvelope{
		TitleCiphertext: titleCT,
		TitleIV:         titleIV,
		BodyCiphertext:  bodyCT,
		BodyIV:          bodyIV,
		Algo:            EnvelopeAlgo,
		Version:         EnvelopeVersion,
	}, nil
}

func decryptEnvelope(envelope models.EncryptedEnvelope, key *EncryptionKey) (models.DecryptedEnvelope, error) {
	if err := checkSuite(envelope.Algo, envelope.Version); err != nil {
		return models.DecryptedEnvelope{}, err
	}

	title, err := decryptField(envelope.TitleCiphertext, envelope.TitleIV, key)
	if err != nil {
		return models.DecryptedEnvelope{}, fmt.Errorf("failed to decrypt title: %w", err)
	}
	body, err := decryptField(envelope.BodyCiphertext, envelope.BodyIV, key)
	if err != nil {
		return models.DecryptedEnvelope{}, fmt.Errorf("failed to decrypt body: %w", err)
	}

	return models.DecryptedEnvelope{Title: title, Body: body}, nil
}

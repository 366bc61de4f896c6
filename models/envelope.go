// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// EncryptedEnvelope bundles the independently encrypted title and body of a
// diary entry. All byte fields are standard base64.
type EncryptedEnvelope struct {
	TitleCiphertext string `json:"titleCiphertext"`
	TitleIV         string `json:"titleIv"`
	BodyCiphertext  string `json:"bodyCiphertext"`
	BodyIV          string `json:"bodyIv"`

	// Algo and Version identify the cipher suite; decoders reject anything
	// they do not support.
	Algo    string `json:"algo"`
	Version uint32 `json:"version"`
}

// DecryptedEnvelope is the plaintext counterpart of [EncryptedEnvelope].
type DecryptedEnvelope struct {
	Title string
	Body  string
}

// E2eeParams are the key-derivation parameters issued by the server at
// login/register. They are not secret but must never change for an account.
type E2eeParams struct {
	KDF        string `json:"kdf"`
	Salt       string `json:"salt"`
	Iterations uint32 `json:"iterations"`
}

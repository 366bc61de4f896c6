// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var strictStdEncoding = base64.StdEncoding.Strict()

// EncodeBase64 encodes b with the standard padded alphabet.
func EncodeBase64(b []byte) string {
	return strictStdEncoding.EncodeToString(b)
}

var errLineBreak = errors.New("line break in input")

// DecodeBase64 decodes a standard padded base64 string. Invalid characters,
// bad padding and non-zero trailing bits are rejected with [ErrDecode].
// Line breaks, which strict mode still skips, are rejected too.
func DecodeBase64(s string) ([]byte, error) {
	if strings.ContainsAny(s, "\r\n") {
		return nil, fmt.Errorf("%w: %v", ErrDecode, errLineBreak)
	}
	b, err := strictStdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return b, nil
}

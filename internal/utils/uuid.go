// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import "github.com/google/uuid"

// StoragePathExt is appended to generated storage paths.
const StoragePathExt = ".txt"

type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}

// NewStoragePath allocates a storage path for an entry created on this
// device before the server has seen it.
func (g *UUIDGenerator) NewStoragePath() string {
	return g.Generate() + StoragePathExt
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// EntryRecord is the locally cached, encrypted form of a diary entry.
// It is keyed by (UserID, StoragePath).
type EntryRecord struct {
	UserID      string
	StoragePath string
	CreatedAt   LocalDateTime
	UpdatedAt   LocalDateTime

	EncryptedEnvelope

	// Dirty is true while a local edit has not been confirmed by the server.
	Dirty bool
	// DeletedAt is set on a local delete that is still waiting for sync.
	DeletedAt LocalDateTime
}

// SortKey is the ordering key used when listing entries: the update time,
// falling back to the creation time, falling back to "".
func (r EntryRecord) SortKey() LocalDateTime {
	return r.UpdatedAt.Or(r.CreatedAt)
}

// IsDeleted reports whether the record is soft-deleted.
func (r EntryRecord) IsDeleted() bool {
	return !r.DeletedAt.IsZero()
}

// EntryRequest is the body of create/update calls. A nil StoragePath asks the
// server to assign one.
type EntryRequest struct {
	StoragePath *string       `json:"storagePath"`
	CreatedAt   LocalDateTime `json:"createdAt"`
	EncryptedEnvelope
}

// EntryResponse is the server's authoritative view of one entry.
type EntryResponse struct {
	StoragePath string        `json:"storagePath"`
	CreatedAt   LocalDateTime `json:"createdAt"`
	UpdatedAt   LocalDateTime `json:"updatedAt"`
	EncryptedEnvelope
}

// EntrySummary is one element of the entry listing. The body is not included.
type EntrySummary struct {
	StoragePath     string        `json:"storagePath"`
	CreatedAt       LocalDateTime `json:"createdAt"`
	UpdatedAt       LocalDateTime `json:"updatedAt"`
	TitleCiphertext string        `json:"titleCiphertext"`
	TitleIV         string        `json:"titleIv"`
	Algo            string        `json:"algo"`
	Version         uint32        `json:"version"`
}

// DeleteResponse is returned by the delete endpoint.
type DeleteResponse struct {
	Deleted     bool   `json:"deleted"`
	StoragePath string `json:"storagePath"`
}

// EntryDraft is a plaintext entry about to be saved locally.
// An empty StoragePath creates a new entry.
type EntryDraft struct {
	StoragePath string
	Title       string
	Body        string
	CreatedAt   LocalDateTime
}

// DecryptedEntry is a fully decrypted entry ready for display.
type DecryptedEntry struct {
	StoragePath string
	CreatedAt   LocalDateTime
	UpdatedAt   LocalDateTime
	Title       string
	Body        string
	Dirty       bool
}

// EntryListItem is a decrypted listing row. When the title cannot be
// decrypted, Title holds a placeholder and DecryptFailed is set.
type EntryListItem struct {
	StoragePath   string
	CreatedAt     LocalDateTime
	UpdatedAt     LocalDateTime
	Title         string
	Dirty         bool
	DecryptFailed bool
}

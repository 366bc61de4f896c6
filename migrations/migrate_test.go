// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package migrations

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_DBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	_ = mock // goose talks to the DB itself; every call fails

	err = Migrate(db)
	if err == nil {
		t.Fatal("expected error from Migrate, got nil")
	}

	if !strings.Contains(err.Error(), "migration error") {
		t.Errorf("expected wrapped migration error, got: %v", err)
	}
}

func TestMigrate_NilDB(t *testing.T) {
	var db *sql.DB

	err := Migrate(db)
	if err == nil {
		t.Fatal("expected error when db is nil, got nil")
	}

	if !strings.Contains(err.Error(), "db is nil") {
		t.Errorf("expected 'db is nil' error, got: %v", err)
	}
}

func TestMigrate_CreatesSchemaAndIsReentrant(t *testing.T) {
	db := openMemory(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	v, err := Version(db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	for _, name := range []string{
		"entries", "sync_queue", "sessions",
		"idx_entries_user_id", "idx_entries_user_updated", "idx_entries_user_dirty",
		"idx_sync_queue_user_id",
	} {
		var found string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE name = ?`, name).Scan(&found)
		require.NoError(t, err, name)
	}
}

func TestMigrate_KeepsExistingRows(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, Migrate(db))

	_, err := db.Exec(`INSERT INTO sync_queue (user_id, op, storage_path, enqueued_at) VALUES ('u', 'delete', 'a.txt', '2026-01-01T00:00:00')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sync_queue`).Scan(&n))
	assert.Equal(t, 1, n)
}

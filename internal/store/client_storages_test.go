package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/scribe-keeper/internal/config"
	"github.com/MKhiriev/scribe-keeper/internal/logger"
	"github.com/MKhiriev/scribe-keeper/models"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}

// newTestStorages opens a migrated in-memory SQLite database.
func newTestStorages(t *testing.T) *ClientStorages {
	t.Helper()
	db, err := NewConnectSQLite(testContext(), config.ClientDB{DSN: ":memory:"}, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { db.Close() })
	return newClientStorages(db)
}

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newDBFromSQL(db *sql.DB) *DB {
	return &DB{DB: db, logger: logger.Nop()}
}

func testRecord(userID, path string) models.EntryRecord {
	return models.EntryRecord{
		UserID:      userID,
		StoragePath: path,
		CreatedAt:   "2026-01-01T10:00:00",
		EncryptedEnvelope: models.EncryptedEnvelope{
			TitleCiphertext: "dGl0bGU=",
			TitleIV:         "aXZpdml2aXZpdml2",
			BodyCiphertext:  "Ym9keQ==",
			BodyIV:          "aXZpdml2aXZpdmlW",
			Algo:            "AES-GCM",
			Version:         1,
		},
	}
}

// ── NewClientStorages ─────────────────────────────────────────────────────────

func TestDB_MigrateLogsSchemaVersion(t *testing.T) {
	var buf bytes.Buffer
	log := &logger.Logger{Logger: zerolog.New(&buf).Level(zerolog.DebugLevel)}

	db, err := NewConnectSQLite(testContext(), config.ClientDB{DSN: ":memory:"}, log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate())
	assert.Contains(t, buf.String(), `"schema_version":2`)
}

func TestNewClientStorages_FileDatabase(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nested", "diary.db")

	s, err := NewClientStorages(testContext(), config.ClientStorage{DB: config.ClientDB{DSN: dsn}}, logger.Nop())
	require.NoError(t, err)

	require.NoError(t, s.Entries.Upsert(testContext(), testRecord("u1", "a.txt")))
	require.NoError(t, s.Close())

	// reopening sees the data and does not re-run migrations destructively
	s, err = NewClientStorages(testContext(), config.ClientStorage{DB: config.ClientDB{DSN: dsn}}, logger.Nop())
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Entries.Get(testContext(), "u1", "a.txt")
	require.NoError(t, err)
	require.NotNil(t, got)

	var mode string
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestNewClientStorages_Unavailable(t *testing.T) {
	// the parent "directory" is a regular file
	parent := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(parent, []byte("x"), 0o600))
	dsn := filepath.Join(parent, "diary.db")

	_, err := NewClientStorages(testContext(), config.ClientStorage{DB: config.ClientDB{DSN: dsn}}, logger.Nop())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

// ── WithTransaction / InTransaction ───────────────────────────────────────────

func TestWithTransaction_Commit(t *testing.T) {
	sqlDB, mock := newTestDB(t)
	db := newDBFromSQL(sqlDB)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM entries").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := db.WithTransaction(testContext(), TxReadWrite, func(tx *sql.Tx) error {
		return NewLocalEntryRepository(tx).Remove(testContext(), "u1", "a.txt")
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_RollbackOnError(t *testing.T) {
	sqlDB, mock := newTestDB(t)
	db := newDBFromSQL(sqlDB)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := db.WithTransaction(testContext(), TxReadWrite, func(tx *sql.Tx) error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, ErrStoreTransaction)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_RollbackOnPanic(t *testing.T) {
	sqlDB, mock := newTestDB(t)
	db := newDBFromSQL(sqlDB)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "boom", func() {
		_ = db.WithTransaction(testContext(), TxReadWrite, func(tx *sql.Tx) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_BeginAndCommitFailures(t *testing.T) {
	t.Run("begin", func(t *testing.T) {
		sqlDB, mock := newTestDB(t)
		mock.ExpectBegin().WillReturnError(errors.New("locked"))

		err := newDBFromSQL(sqlDB).WithTransaction(testContext(), TxReadOnly, func(tx *sql.Tx) error {
			t.Fatal("fn must not run")
			return nil
		})
		assert.ErrorIs(t, err, ErrStoreTransaction)
	})

	t.Run("commit", func(t *testing.T) {
		sqlDB, mock := newTestDB(t)
		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("disk full"))

		err := newDBFromSQL(sqlDB).WithTransaction(testContext(), TxReadWrite, func(tx *sql.Tx) error {
			return nil
		})
		assert.ErrorIs(t, err, ErrStoreTransaction)
	})
}

func TestWithTransaction_RetriesWhenBusy(t *testing.T) {
	sqlDB, mock := newTestDB(t)
	db := newDBFromSQL(sqlDB)
	db.errorClassificator = NewSQLiteErrorClassifier()

	mock.ExpectBegin().WillReturnError(sqlite3.Error{Code: sqlite3.ErrBusy})
	mock.ExpectBegin()
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectCommit()

	attempts := 0
	err := db.WithTransaction(testContext(), TxReadWrite, func(tx *sql.Tx) error {
		attempts++
		if attempts == 1 {
			return fmt.Errorf("upsert: %w", sqlite3.Error{Code: sqlite3.ErrLocked})
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_GivesUpWhenStillBusy(t *testing.T) {
	sqlDB, mock := newTestDB(t)
	db := newDBFromSQL(sqlDB)
	db.errorClassificator = NewSQLiteErrorClassifier()

	for range txMaxRetries + 1 {
		mock.ExpectBegin().WillReturnError(sqlite3.Error{Code: sqlite3.ErrBusy})
	}

	err := db.WithTransaction(testContext(), TxReadWrite, func(tx *sql.Tx) error {
		t.Fatal("fn must not run")
		return nil
	})

	assert.ErrorIs(t, err, ErrStoreTransaction)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_NoRetryForOtherErrors(t *testing.T) {
	sqlDB, mock := newTestDB(t)
	db := newDBFromSQL(sqlDB)
	db.errorClassificator = NewSQLiteErrorClassifier()

	mock.ExpectBegin()
	mock.ExpectRollback()

	attempts := 0
	err := db.WithTransaction(testContext(), TxReadWrite, func(tx *sql.Tx) error {
		attempts++
		return sqlite3.Error{Code: sqlite3.ErrConstraint}
	})

	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTransaction_AtomicAcrossTables(t *testing.T) {
	s := newTestStorages(t)
	ctx := testContext()

	err := s.InTransaction(ctx, func(entries LocalEntryRepository, queue LocalSyncQueueRepository) error {
		if err := entries.Upsert(ctx, testRecord("u1", "a.txt")); err != nil {
			return err
		}
		if _, err := queue.EnqueueDelete(ctx, "u1", "a.txt", "2026-01-01T00:00:00"); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	got, err := s.Entries.Get(ctx, "u1", "a.txt")
	require.NoError(t, err)
	assert.Nil(t, got, "entry write must be rolled back")

	n, err := s.SyncQueue.Count(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, n, "queue write must be rolled back")

	err = s.InTransaction(ctx, func(entries LocalEntryRepository, queue LocalSyncQueueRepository) error {
		if err := entries.Upsert(ctx, testRecord("u1", "a.txt")); err != nil {
			return err
		}
		_, err := queue.EnqueueDelete(ctx, "u1", "a.txt", "2026-01-01T00:00:00")
		return err
	})
	require.NoError(t, err)

	n, err = s.SyncQueue.Count(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

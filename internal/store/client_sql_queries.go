// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

// entryColumns is the column order every entry query selects and scans.
var entryColumns = []string{
	"user_id",
	"storage_path",
	"created_at",
	"updated_at",
	"title_ciphertext",
	"title_iv",
	"body_ciphertext",
	"body_iv",
	"algo",
	"version",
	"dirty",
	"deleted_at",
}

const (
	upsertEntry = `
		INSERT INTO entries (
			user_id,
			storage_path,
			created_at,
			updated_at,
			title_ciphertext,
			title_iv,
			body_ciphertext,
			body_iv,
			algo,
			version,
			dirty,
			deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, storage_path) DO UPDATE SET
			created_at       = excluded.created_at,
			updated_at       = excluded.updated_at,
			title_ciphertext = excluded.title_ciphertext,
			title_iv         = excluded.title_iv,
			body_ciphertext  = excluded.body_ciphertext,
			body_iv          = excluded.body_iv,
			algo             = excluded.algo,
			version          = excluded.version,
			dirty            = excluded.dirty,
			deleted_at       = excluded.deleted_at;`

	getEntry = `
		SELECT
			user_id,
			storage_path,
			created_at,
			updated_at,
			title_ciphertext,
			title_iv,
			body_ciphertext,
			body_iv,
			algo,
			version,
			dirty,
			deleted_at
		FROM entries
		WHERE user_id = ? AND storage_path = ?;`

	removeEntry = `
		DELETE FROM entries
		WHERE user_id = ? AND storage_path = ?;`

	// entryOrder sorts most recent first; records without timestamps sort last.
	entryOrder = "COALESCE(updated_at, created_at, '') DESC"
)

const (
	enqueueSyncItem = `
		INSERT INTO sync_queue (
			user_id,
			op,
			storage_path,
			payload,
			enqueued_at,
			retry_count,
			last_attempt_at,
			last_error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?);`

	// updateSyncItem overwrites the row with the given id. A removed row stays
	// removed.
	updateSyncItem = `
		UPDATE sync_queue SET
			user_id         = ?,
			op              = ?,
			storage_path    = ?,
			payload         = ?,
			enqueued_at     = ?,
			retry_count     = ?,
			last_attempt_at = ?,
			last_error      = ?
		WHERE id = ?;`

	listSyncItems = `
		SELECT
			id,
			user_id,
			op,
			storage_path,
			payload,
			enqueued_at,
			retry_count,
			last_attempt_at,
			last_error
		FROM sync_queue
		WHERE user_id = ?
		ORDER BY id ASC;`

	nextSyncItem = `
		SELECT
			id,
			user_id,
			op,
			storage_path,
			payload,
			enqueued_at,
			retry_count,
			last_attempt_at,
			last_error
		FROM sync_queue
		WHERE user_id = ?
		ORDER BY id ASC
		LIMIT 1;`

	removeSyncItem = `
		DELETE FROM sync_queue
		WHERE id = ?;`

	countSyncItems = `
		SELECT COUNT(*)
		FROM sync_queue
		WHERE user_id = ?;`

	countSyncItemsForPath = `
		SELECT COUNT(*)
		FROM sync_queue
		WHERE user_id = ? AND storage_path = ? AND id <> ?;`

	retargetSyncItems = `
		UPDATE sync_queue SET
			storage_path = ?,
			payload      = CASE
				WHEN payload IS NULL THEN NULL
				ELSE json_set(payload, '$.storagePath', ?)
			END
		WHERE user_id = ? AND storage_path = ?;`
)

const (
	saveSession = `
		INSERT INTO sessions (
			user_id,
			username,
			token,
			kdf,
			kdf_salt,
			kdf_iterations,
			saved_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			username       = excluded.username,
			token          = excluded.token,
			kdf            = excluded.kdf,
			kdf_salt       = excluded.kdf_salt,
			kdf_iterations = excluded.kdf_iterations,
			saved_at       = excluded.saved_at;`

	latestSession = `
		SELECT
			user_id,
			username,
			token,
			kdf,
			kdf_salt,
			kdf_iterations,
			saved_at
		FROM sessions
		ORDER BY saved_at DESC, rowid DESC
		LIMIT 1;`

	deleteSession = `
		DELETE FROM sessions
		WHERE user_id = ?;`
)

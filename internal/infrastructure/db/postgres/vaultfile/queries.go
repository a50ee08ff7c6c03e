package vaultfile

const fileColumns = `
		  uuid, owner_id, filename, mime_type, content_locator, integrity_tag, size_bytes, tags,
		  version, version_group_id, integrity_verified, malware_scan_passed, dlp_flagged,
		  expiry, lifecycle_state, deleted_at, deleted_by, created_at`

const (
	InsertFile = `
		INSERT INTO vault_files (
		  uuid, owner_id, filename, mime_type, content_locator, integrity_tag, size_bytes, tags,
		  version, version_group_id, integrity_verified, malware_scan_passed, dlp_flagged, expiry, lifecycle_state
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1, $1, $9, $10, $11, $12, 'active')
		RETURNING` + fileColumns

	// InsertVersion computes the next version number inside the statement.
	// Hard-deleted rows stay in the lineage so numbers are never reused, and
	// the HAVING clause enforces the lineage ceiling. The unique index on
	// (version_group_id, version) turns a race into a 23505, which the
	// repository retries once.
	InsertVersion = `
		INSERT INTO vault_files (
		  uuid, owner_id, filename, mime_type, content_locator, integrity_tag, size_bytes, tags,
		  version, version_group_id, integrity_verified, malware_scan_passed, dlp_flagged, lifecycle_state
		)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, MAX(version) + 1, $9, $10, $11, $12, 'active'
		FROM vault_files
		WHERE version_group_id = $9
		HAVING COUNT(*) > 0 AND COUNT(*) < $13
		RETURNING` + fileColumns

	SelectByID = `
		SELECT` + fileColumns + `
		FROM vault_files
		WHERE uuid = $1 AND lifecycle_state <> 'hard_deleted'
	`
	SelectByIDs = `
		SELECT` + fileColumns + `
		FROM vault_files
		WHERE uuid = ANY($1) AND lifecycle_state <> 'hard_deleted'
	`
	SelectOwned = `
		SELECT` + fileColumns + `
		FROM vault_files
		WHERE owner_id = $1 AND lifecycle_state <> 'hard_deleted'
		ORDER BY created_at DESC
		LIMIT 50 OFFSET ( ($2 - 1) * 50 )
	`
	SelectLineage = `
		SELECT` + fileColumns + `
		FROM vault_files
		WHERE version_group_id = $1 AND lifecycle_state <> 'hard_deleted'
		ORDER BY version DESC
	`
	UpdateTagsExpiry = `
		UPDATE vault_files
		SET tags = $2, expiry = $3
		WHERE uuid = $1 AND lifecycle_state <> 'hard_deleted'
		RETURNING` + fileColumns

	SoftDeleteFile = `
		UPDATE vault_files
		SET lifecycle_state = 'soft_deleted', deleted_at = now(), deleted_by = $2
		WHERE uuid = $1 AND lifecycle_state = 'active'
		RETURNING` + fileColumns

	RestoreFile = `
		UPDATE vault_files
		SET lifecycle_state = 'active', deleted_at = NULL, deleted_by = NULL
		WHERE uuid = $1 AND lifecycle_state = 'soft_deleted'
		RETURNING` + fileColumns

	HardDeleteFile = `
		UPDATE vault_files
		SET lifecycle_state = 'hard_deleted', deleted_at = now(), deleted_by = $2
		WHERE uuid = $1 AND lifecycle_state = 'soft_deleted'
		RETURNING` + fileColumns
)

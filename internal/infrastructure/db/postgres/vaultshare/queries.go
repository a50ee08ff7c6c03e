package vaultshare

const shareColumns = `
		  uuid, owner_id, file_ids, token, expires_at, access_limit, access_count, revoked, message, created_at`

const (
	InsertShare = `
		INSERT INTO vault_shares (uuid, owner_id, file_ids, token, expires_at, access_limit, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING` + shareColumns

	SelectByToken = `
		SELECT` + shareColumns + `
		FROM vault_shares
		WHERE token = $1
	`
	SelectOwned = `
		SELECT` + shareColumns + `
		FROM vault_shares
		WHERE owner_id = $1 AND NOT revoked
		ORDER BY created_at DESC
	`
	// ConsumeShare is the atomic read-check-increment: the WHERE clause is
	// the whole liveness check, so under concurrency the access count can
	// never pass access_limit.
	ConsumeShare = `
		UPDATE vault_shares
		SET access_count = access_count + 1
		WHERE token = $1 AND NOT revoked AND expires_at > now() AND access_count < access_limit
		RETURNING` + shareColumns

	RevokeShare = `
		UPDATE vault_shares
		SET revoked = TRUE
		WHERE token = $1
	`
)

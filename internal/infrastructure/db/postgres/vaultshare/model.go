package vaultshare

import (
	"time"

	"github.com/google/uuid"
)

type (
	// VaultShare mirrors the vault_shares table.
	VaultShare struct {
		UUID    uuid.UUID
		OwnerID uuid.UUID
		FileIDs []uuid.UUID

		Token       string
		ExpiresAt   time.Time
		AccessLimit int
		AccessCount int
		Revoked     bool
		Message     string

		CreatedAt time.Time
	}
)

package vaultfile

import (
	"time"

	"github.com/google/uuid"
)

type (
	// VaultFile mirrors the vault_files table.
	VaultFile struct {
		UUID    uuid.UUID
		OwnerID uuid.UUID

		Filename       string
		MimeType       string
		ContentLocator string
		IntegrityTag   string
		SizeBytes      uint64
		Tags           []string

		Version        int
		VersionGroupID uuid.UUID

		IntegrityVerified bool
		MalwareScanPassed bool
		DLPFlagged        bool

		Expiry         *time.Time
		LifecycleState string
		DeletedAt      *time.Time
		DeletedBy      *uuid.UUID

		CreatedAt time.Time
	}
)

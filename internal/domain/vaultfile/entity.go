package vaultfile

import (
	"time"

	"github.com/google/uuid"
)

// LifecycleState of a vault file. HardDeleted is terminal.
type LifecycleState string

const (
	StateActive      LifecycleState = "active"
	StateSoftDeleted LifecycleState = "soft_deleted"
	StateHardDeleted LifecycleState = "hard_deleted"
)

// MaxVersions caps how many versions a single lineage may hold.
const MaxVersions = 10

type (
	// SecurityStatus carries the verdicts of the external scanners. The vault
	// only stores them; scanning itself happens elsewhere.
	SecurityStatus struct {
		IntegrityVerified bool
		MalwareScanPassed bool
		DLPFlagged        bool
	}

	// VaultFile is one version of an encrypted document. Versions sharing a
	// VersionGroupID form a lineage; the lineage id is the UUID of version 1.
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

		SecurityStatus SecurityStatus

		Expiry         *time.Time
		LifecycleState LifecycleState
		DeletedAt      *time.Time
		DeletedBy      *uuid.UUID

		CreatedAt time.Time
	}
	VaultFiles []*VaultFile
)

// Visible reports whether the record still shows up anywhere.
func (f *VaultFile) Visible() bool {
	return f.LifecycleState != StateHardDeleted
}

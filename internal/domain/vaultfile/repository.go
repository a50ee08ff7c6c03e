package vaultfile

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the metadata store for file versions. Implementations must
// make every conditional mutation atomic: two racing InsertVersion calls for
// one lineage may never produce the same version number, and lifecycle
// transitions only succeed from the state they name. On a miss they return
// the domain sentinels from internal/domain/vault.
type Repository interface {
	// CreateFile persists version 1 of a new lineage.
	CreateFile(ctx context.Context, f *VaultFile) (*VaultFile, error)

	// InsertVersion persists the next version of an existing lineage. The
	// version number is computed inside the statement as max(existing)+1 and
	// the MaxVersions ceiling is enforced there too.
	InsertVersion(ctx context.Context, f *VaultFile) (*VaultFile, error)

	// FetchByID returns a single non-hard-deleted record.
	FetchByID(ctx context.Context, id uuid.UUID) (*VaultFile, error)

	// FetchByIDs returns the non-hard-deleted records among ids, in no
	// particular order. Missing ids are simply absent from the result.
	FetchByIDs(ctx context.Context, ids []uuid.UUID) (VaultFiles, error)

	// FetchOwned lists Active and SoftDeleted records of one owner.
	FetchOwned(ctx context.Context, ownerID uuid.UUID, page int) (VaultFiles, error)

	// FetchLineage lists all non-hard-deleted versions of a lineage,
	// descending by version.
	FetchLineage(ctx context.Context, groupID uuid.UUID) (VaultFiles, error)

	// UpdateTagsExpiry replaces tags and/or expiry of a non-deleted record.
	UpdateTagsExpiry(ctx context.Context, id uuid.UUID, tags []string, expiry *time.Time) (*VaultFile, error)

	// SoftDelete transitions Active -> SoftDeleted.
	SoftDelete(ctx context.Context, id, deletedBy uuid.UUID) (*VaultFile, error)

	// Restore transitions SoftDeleted -> Active.
	Restore(ctx context.Context, id uuid.UUID) (*VaultFile, error)

	// HardDelete transitions SoftDeleted -> HardDeleted and returns the final
	// record so the caller can drop its content locator.
	HardDelete(ctx context.Context, id, deletedBy uuid.UUID) (*VaultFile, error)
}

package services

import (
	"fmt"

	"vault-api/internal/domain/vault"
	"vault-api/internal/domain/vaultfile"
)

// Authorization rules shared by both managers. The disguise rule: a caller
// who is neither owner nor admin must not learn the record exists, so denial
// is ErrNotFound. ErrForbidden is reserved for callers who already proved
// they know the record (an owner attempting an admin-only operation).

func authorizeRecord(f *vaultfile.VaultFile, caller vault.Caller) error {
	if caller.IsAdmin() || f.OwnerID == caller.ID {
		return nil
	}
	return fmt.Errorf("file %s: %w", f.UUID, vault.ErrNotFound)
}

func authorizeHardDelete(f *vaultfile.VaultFile, caller vault.Caller) error {
	if !caller.IsAdmin() {
		if f.OwnerID == caller.ID {
			return fmt.Errorf("hard delete requires admin: %w", vault.ErrForbidden)
		}
		return fmt.Errorf("file %s: %w", f.UUID, vault.ErrNotFound)
	}
	if f.LifecycleState != vaultfile.StateSoftDeleted {
		return fmt.Errorf("file %s must be soft-deleted first: %w", f.UUID, vault.ErrConflict)
	}
	return nil
}

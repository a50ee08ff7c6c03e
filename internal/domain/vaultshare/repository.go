package vaultshare

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the metadata store for shares. Consume is the one operation
// whose atomicity carries the access-limit invariant: under N concurrent
// calls against a share with limit k, exactly k may succeed.
type Repository interface {
	Create(ctx context.Context, s *VaultShare) (*VaultShare, error)

	// FetchByToken returns the share regardless of revocation or exhaustion;
	// vault.ErrNotFound when the token was never issued.
	FetchByToken(ctx context.Context, token string) (*VaultShare, error)

	// FetchOwned lists the non-revoked shares of one owner, newest first.
	FetchOwned(ctx context.Context, ownerID uuid.UUID) (VaultShares, error)

	// Consume performs the atomic read-check-increment of the access count.
	// It returns the share after the increment, vault.ErrGone when the link
	// is revoked, expired or exhausted, and vault.ErrNotFound for unknown
	// tokens.
	Consume(ctx context.Context, token string) (*VaultShare, error)

	// Revoke sets revoked = true. Idempotent: revoking an already revoked
	// share succeeds silently.
	Revoke(ctx context.Context, token string) error
}

package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"vault-api/internal/domain/vault"
	"vault-api/internal/domain/vaultfile"
	"vault-api/internal/domain/vaultshare"
)

type (
	CreateShareInput struct {
		FileIDs     []uuid.UUID
		ExpiresAt   *time.Time
		AccessLimit int
		Message     string
	}

	// ShareResolution is what a token holder gets back: the share plus the
	// still-existing files it references.
	ShareResolution struct {
		Share *vaultshare.VaultShare
		Files vaultfile.VaultFiles
	}

	// BulkRevokeResult lists what a best-effort bulk revoke touched.
	BulkRevokeResult struct {
		Revoked  []string
		NotFound []string
	}
)

// ShareService is the sharing manager. Resolve and DownloadShared each
// consume one unit of the share's access budget atomically.
type ShareService interface {
	Create(ctx context.Context, caller vault.Caller, in CreateShareInput) (*vaultshare.VaultShare, error)
	ListOwned(ctx context.Context, caller vault.Caller) (vaultshare.VaultShares, error)
	Resolve(ctx context.Context, token string) (*ShareResolution, error)
	DownloadShared(ctx context.Context, token string, fileID uuid.UUID) (*DownloadResult, error)
	Revoke(ctx context.Context, caller vault.Caller, token string) error
	BulkRevoke(ctx context.Context, caller vault.Caller, tokens []string) (*BulkRevokeResult, error)
}

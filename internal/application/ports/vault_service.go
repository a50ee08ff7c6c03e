package ports

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"vault-api/internal/domain/vault"
	"vault-api/internal/domain/vaultfile"
)

type (
	// UploadInput carries one incoming document. Content is consumed once;
	// the controller bounds its size before handing it over.
	UploadInput struct {
		Filename string
		MimeType string
		Size     int64
		Tags     []string
		Content  io.Reader
	}

	UpdateInput struct {
		Tags   []string
		Expiry *time.Time
	}

	// DownloadResult is decrypted content plus what the client needs to
	// serve it.
	DownloadResult struct {
		Filename string
		MimeType string
		Content  []byte
	}

	// BulkDeleteResult lists what a best-effort bulk soft-delete touched.
	BulkDeleteResult struct {
		Deleted  []uuid.UUID
		NotFound []uuid.UUID
	}
)

// VaultService is the versioning manager behind the file endpoints. Every
// method authorizes the caller first; unauthorized access to records the
// caller should not know about comes back as vault.ErrNotFound.
type VaultService interface {
	Upload(ctx context.Context, caller vault.Caller, in UploadInput) (*vaultfile.VaultFile, error)
	List(ctx context.Context, caller vault.Caller, page int) (vaultfile.VaultFiles, error)
	Download(ctx context.Context, caller vault.Caller, id uuid.UUID) (*DownloadResult, error)
	Update(ctx context.Context, caller vault.Caller, id uuid.UUID, in UpdateInput) (*vaultfile.VaultFile, error)
	Delete(ctx context.Context, caller vault.Caller, id uuid.UUID, hard bool) (*vaultfile.VaultFile, error)
	Restore(ctx context.Context, caller vault.Caller, id uuid.UUID) (*vaultfile.VaultFile, error)
	AddVersion(ctx context.Context, caller vault.Caller, parentID uuid.UUID, in UploadInput) (*vaultfile.VaultFile, error)
	ListVersions(ctx context.Context, caller vault.Caller, id uuid.UUID) (vaultfile.VaultFiles, error)
	BulkDelete(ctx context.Context, caller vault.Caller, ids []uuid.UUID) (*BulkDeleteResult, error)
}

package ports

import (
	"context"
	"io"
)

// ContentStore is the durable blob host. Keys are opaque locators; the store
// never sees plaintext, only sealed boxes. Get returns vault.ErrNotFound for
// unknown locators and vault.ErrStorageUnavailable for transport failures.
type ContentStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	GetBucket() string
}

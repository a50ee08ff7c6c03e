package ports

import "context"

// ContentCipher seals and opens content boxes with authenticated encryption.
// Open fails with vault.ErrIntegrity when the box was tampered with.
type ContentCipher interface {
	Seal(plain []byte) ([]byte, error)
	Open(box []byte) ([]byte, error)
}

// BlobVault is the crypto + content-store boundary: raw bytes never cross it
// unencrypted in either direction.
type BlobVault interface {
	// StoreEncrypted seals plain, writes it under key and returns the
	// integrity tag to persist alongside the locator.
	StoreEncrypted(ctx context.Context, key string, plain []byte) (tag string, err error)
	// RetrieveDecrypted reads key, opens the box and verifies it against tag.
	RetrieveDecrypted(ctx context.Context, key, tag string) ([]byte, error)
	// Discard removes the sealed box under key.
	Discard(ctx context.Context, key string) error
}

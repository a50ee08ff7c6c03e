package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"

	"vault-api/internal/application/ports"
	"vault-api/internal/domain/vault"
)

// BlobService is the crypto + content-store boundary. Plaintext exists only
// inside its methods: content goes to the store sealed and comes back only
// after the box authenticates and the integrity tag matches.
type BlobService struct {
	store  ports.ContentStore
	cipher ports.ContentCipher
}

func NewBlobService(store ports.ContentStore, cipher ports.ContentCipher) ports.BlobVault {
	return &BlobService{
		store:  store,
		cipher: cipher,
	}
}

func (bs *BlobService) StoreEncrypted(ctx context.Context, key string, plain []byte) (string, error) {
	tag := integrityTag(plain)

	box, err := bs.cipher.Seal(plain)
	if err != nil {
		return "", fmt.Errorf("seal content: %w", err)
	}

	if err = bs.store.Put(ctx, key, bytes.NewReader(box), int64(len(box))); err != nil {
		return "", err
	}

	return tag, nil
}

func (bs *BlobService) RetrieveDecrypted(ctx context.Context, key, tag string) ([]byte, error) {
	rc, err := bs.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	box, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %q: %v: %w", key, err, vault.ErrStorageUnavailable)
	}

	plain, err := bs.cipher.Open(box)
	if err != nil {
		return nil, err
	}

	got := integrityTag(plain)
	if subtle.ConstantTimeCompare([]byte(got), []byte(tag)) != 1 {
		return nil, fmt.Errorf("tag mismatch for %q: %w", key, vault.ErrIntegrity)
	}

	return plain, nil
}

func (bs *BlobService) Discard(ctx context.Context, key string) error {
	return bs.store.Delete(ctx, key)
}

func integrityTag(plain []byte) string {
	sum := sha256.Sum256(plain)
	return hex.EncodeToString(sum[:])
}

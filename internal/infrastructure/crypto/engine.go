package crypto

import (
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"

	"vault-api/internal/domain/vault"
)

// Engine seals vault content with XChaCha20-Poly1305. The random nonce is
// prefixed to the box, so a box is self-contained: nonce || ciphertext || tag.
type Engine struct {
	aead cipher.AEAD
}

func New(key []byte) (*Engine, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("init content cipher: %w", err)
	}
	return &Engine{aead: aead}, nil
}

func (e *Engine) Seal(plain []byte) ([]byte, error) {
	nonce := make([]byte, e.aead.NonceSize(), e.aead.NonceSize()+len(plain)+e.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}
	return e.aead.Seal(nonce, nonce, plain, nil), nil
}

func (e *Engine) Open(box []byte) ([]byte, error) {
	if len(box) < e.aead.NonceSize()+e.aead.Overhead() {
		return nil, fmt.Errorf("box too short: %w", vault.ErrIntegrity)
	}
	nonce, sealed := box[:e.aead.NonceSize()], box[e.aead.NonceSize():]
	plain, err := e.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("open box: %w", vault.ErrIntegrity)
	}
	return plain, nil
}

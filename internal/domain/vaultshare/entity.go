package vaultshare

import (
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultTTL is applied when the owner requests no expiry.
	DefaultTTL = 7 * 24 * time.Hour
	// MaxTTL clamps any requested expiry.
	MaxTTL = 30 * 24 * time.Hour
	// DefaultAccessLimit is applied when the owner requests no limit.
	DefaultAccessLimit = 5
)

type (
	// VaultShare is a time- and access-limited link over a set of files.
	// Shares are never hard-deleted; exhausted and revoked ones are kept for
	// the audit trail.
	VaultShare struct {
		UUID    uuid.UUID
		OwnerID uuid.UUID
		FileIDs []uuid.UUID

		Token       string
		ExpiresAt   time.Time
		AccessLimit int
		AccessCount int
		Revoked     bool
		Message     string

		CreatedAt time.Time
	}
	VaultShares []*VaultShare
)

// Exhausted reports whether the link stopped working, for whichever reason.
func (s *VaultShare) Exhausted(now time.Time) bool {
	return s.Revoked || now.After(s.ExpiresAt) || s.AccessCount >= s.AccessLimit
}

// Contains reports whether the file belongs to this share's set.
func (s *VaultShare) Contains(fileID uuid.UUID) bool {
	for _, id := range s.FileIDs {
		if id == fileID {
			return true
		}
	}

	return false
}

package vault

import "errors"

// Terminal outcomes every vault operation can end in. Controllers map these
// to HTTP statuses with errors.Is; services wrap them with context via
// fmt.Errorf("...: %w", err).
var (
	// ErrValidation - malformed input (bad tag, unparsable expiry, missing field).
	ErrValidation = errors.New("invalid input")
	// ErrNotFound - record or token absent. Also returned instead of
	// ErrForbidden when the caller has no business knowing the record exists.
	ErrNotFound = errors.New("not found")
	// ErrForbidden - authenticated but not allowed, where existence of the
	// record is already known to the caller.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict - a concurrent mutation raced the caller.
	ErrConflict = errors.New("conflict")
	// ErrIntegrity - stored content failed authentication on decrypt.
	ErrIntegrity = errors.New("content integrity check failed")
	// ErrGone - share token expired, revoked or access-exhausted.
	ErrGone = errors.New("gone")
	// ErrVersionLimit - lineage already holds the maximum number of versions.
	ErrVersionLimit = errors.New("version limit exceeded")
	// ErrStorageUnavailable - content store failure; safe to retry.
	ErrStorageUnavailable = errors.New("content storage unavailable")
)

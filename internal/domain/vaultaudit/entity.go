package vaultaudit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Outcome of an audited attempt.
const (
	StatusSuccess = "success"
	StatusDenied  = "denied"
	StatusFailed  = "failed"
)

type (
	// Entry records who did what, when, and how it ended. Denials and
	// failures are recorded the same as successes.
	Entry struct {
		ActorID    uuid.UUID
		ActorRole  string
		Action     string
		TargetType string
		TargetID   string
		Status     string
		Detail     string
		CreatedAt  time.Time
	}
	Entries []*Entry
)

// Repository is the append-only audit sink. Record must never fail the
// operation it describes; implementations log write errors and move on.
type Repository interface {
	Record(ctx context.Context, e Entry)
	FetchRecent(ctx context.Context, limit int) (Entries, error)
}

package services

import (
	"context"
	"errors"

	"vault-api/internal/domain/vault"
	"vault-api/internal/domain/vaultaudit"
)

const (
	targetFile  = "vault_file"
	targetShare = "vault_share"
)

// recordAudit appends one attempt to the audit trail, denials included.
func recordAudit(
	ctx context.Context,
	repo vaultaudit.Repository,
	caller vault.Caller,
	action, targetType, targetID string,
	err error,
) {
	status := vaultaudit.StatusSuccess
	detail := ""
	switch {
	case err == nil:
	case errors.Is(err, vault.ErrNotFound),
		errors.Is(err, vault.ErrForbidden),
		errors.Is(err, vault.ErrGone):
		status = vaultaudit.StatusDenied
		detail = err.Error()
	default:
		status = vaultaudit.StatusFailed
		detail = err.Error()
	}

	repo.Record(ctx, vaultaudit.Entry{
		ActorID:    caller.ID,
		ActorRole:  caller.Role,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Status:     status,
		Detail:     detail,
	})
}

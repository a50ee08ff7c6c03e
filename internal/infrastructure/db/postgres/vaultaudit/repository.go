package vaultaudit

import (
	"context"

	"go.uber.org/zap"

	domain "vault-api/internal/domain/vaultaudit"
	"vault-api/internal/infrastructure/db/postgres"
)

const (
	InsertEntry = `
		INSERT INTO vault_audit (actor_id, actor_role, action, target_type, target_id, status, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	SelectRecent = `
		SELECT actor_id, actor_role, action, target_type, target_id, status, detail, created_at
		FROM vault_audit
		ORDER BY created_at DESC
		LIMIT $1
	`
)

// Repository appends to the vault_audit table. Writes are best-effort: a
// failed audit insert is logged and swallowed so it can never fail the
// operation it describes.
type Repository struct {
	db  postgres.DB
	log *zap.Logger
}

func NewRepository(db postgres.DB, logger *zap.Logger) domain.Repository {
	return &Repository{db: db, log: logger}
}

func (r *Repository) Record(ctx context.Context, e domain.Entry) {
	_, err := r.db.Exec(
		ctx,
		InsertEntry,
		e.ActorID, e.ActorRole, e.Action, e.TargetType, e.TargetID, e.Status, e.Detail,
	)
	if err != nil {
		// alert
		r.log.Error("audit write failed",
			zap.String("action", e.Action),
			zap.String("target_id", e.TargetID),
			zap.Error(err),
		)
	}
}

func (r *Repository) FetchRecent(ctx context.Context, limit int) (domain.Entries, error) {
	rows, err := r.db.Query(ctx, SelectRecent, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var es domain.Entries
	for rows.Next() {
		e := new(domain.Entry)
		if err = rows.Scan(
			&e.ActorID,
			&e.ActorRole,
			&e.Action,
			&e.TargetType,
			&e.TargetID,
			&e.Status,
			&e.Detail,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		es = append(es, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return es, nil
}

package vaultshare

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"vault-api/internal/domain/vault"
	domain "vault-api/internal/domain/vaultshare"
	"vault-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) domain.Repository {
	return &Repository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanShare(row scanner) (*domain.VaultShare, error) {
	s := new(VaultShare)

	if err := row.Scan(
		&s.UUID,
		&s.OwnerID,
		&s.FileIDs,

		&s.Token,
		&s.ExpiresAt,
		&s.AccessLimit,
		&s.AccessCount,
		&s.Revoked,
		&s.Message,

		&s.CreatedAt,
	); err != nil {
		return nil, err
	}

	return fromDBModel(s), nil
}

func (r *Repository) Create(ctx context.Context, req *domain.VaultShare) (*domain.VaultShare, error) {
	row := r.db.QueryRow(
		ctx,
		InsertShare,
		req.UUID, req.OwnerID, req.FileIDs, req.Token, req.ExpiresAt, req.AccessLimit, req.Message,
	)

	return scanShare(row)
}

func (r *Repository) FetchByToken(ctx context.Context, token string) (*domain.VaultShare, error) {
	s, err := scanShare(r.db.QueryRow(ctx, SelectByToken, token))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("share token: %w", vault.ErrNotFound)
	}

	return s, err
}

func (r *Repository) FetchOwned(ctx context.Context, ownerID uuid.UUID) (domain.VaultShares, error) {
	rows, err := r.db.Query(ctx, SelectOwned, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ss domain.VaultShares
	for rows.Next() {
		s, err := scanShare(rows)
		if err != nil {
			return nil, err
		}
		ss = append(ss, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return ss, nil
}

func (r *Repository) Consume(ctx context.Context, token string) (*domain.VaultShare, error) {
	s, err := scanShare(r.db.QueryRow(ctx, ConsumeShare, token))
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// the guarded update missed: unknown token or dead link
	if _, ferr := r.FetchByToken(ctx, token); ferr != nil {
		return nil, ferr
	}

	return nil, fmt.Errorf("share revoked, expired or exhausted: %w", vault.ErrGone)
}

func (r *Repository) Revoke(ctx context.Context, token string) error {
	tag, err := r.db.Exec(ctx, RevokeShare, token)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("share token: %w", vault.ErrNotFound)
	}

	return nil
}

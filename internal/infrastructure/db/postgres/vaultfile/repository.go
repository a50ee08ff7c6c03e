package vaultfile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"vault-api/internal/domain/vault"
	domain "vault-api/internal/domain/vaultfile"
	"vault-api/internal/infrastructure/db/postgres"
)

// Postgres error code for unique_violation.
const codeUniqueViolation = "23505"

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) domain.Repository {
	return &Repository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFile(row scanner) (*domain.VaultFile, error) {
	f := new(VaultFile)

	if err := row.Scan(
		&f.UUID,
		&f.OwnerID,

		&f.Filename,
		&f.MimeType,
		&f.ContentLocator,
		&f.IntegrityTag,
		&f.SizeBytes,
		&f.Tags,

		&f.Version,
		&f.VersionGroupID,
		&f.IntegrityVerified,
		&f.MalwareScanPassed,
		&f.DLPFlagged,

		&f.Expiry,
		&f.LifecycleState,
		&f.DeletedAt,
		&f.DeletedBy,

		&f.CreatedAt,
	); err != nil {
		return nil, err
	}

	return fromDBModel(f), nil
}

func (r *Repository) scanFiles(ctx context.Context, query string, args ...any) (domain.VaultFiles, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fs domain.VaultFiles
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		fs = append(fs, f)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fs, nil
}

func (r *Repository) CreateFile(ctx context.Context, req *domain.VaultFile) (*domain.VaultFile, error) {
	row := r.db.QueryRow(
		ctx,
		InsertFile,
		req.UUID, req.OwnerID, req.Filename, req.MimeType, req.ContentLocator, req.IntegrityTag,
		req.SizeBytes, req.Tags,
		req.SecurityStatus.IntegrityVerified, req.SecurityStatus.MalwareScanPassed, req.SecurityStatus.DLPFlagged,
		req.Expiry,
	)

	return scanFile(row)
}

func (r *Repository) InsertVersion(ctx context.Context, req *domain.VaultFile) (*domain.VaultFile, error) {
	f, err := r.insertVersionOnce(ctx, req)
	if err == nil {
		return f, nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
		// lost the race for the next version number, retry once
		if f, err = r.insertVersionOnce(ctx, req); err == nil {
			return f, nil
		}
		if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
			return nil, fmt.Errorf("version race for lineage %s: %w", req.VersionGroupID, vault.ErrConflict)
		}
	}

	return nil, err
}

func (r *Repository) insertVersionOnce(ctx context.Context, req *domain.VaultFile) (*domain.VaultFile, error) {
	row := r.db.QueryRow(
		ctx,
		InsertVersion,
		req.UUID, req.OwnerID, req.Filename, req.MimeType, req.ContentLocator, req.IntegrityTag,
		req.SizeBytes, req.Tags,
		req.VersionGroupID,
		req.SecurityStatus.IntegrityVerified, req.SecurityStatus.MalwareScanPassed, req.SecurityStatus.DLPFlagged,
		domain.MaxVersions,
	)

	f, err := scanFile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		// the lineage exists (callers resolve it first), so an empty insert
		// means the ceiling was hit
		return nil, fmt.Errorf("lineage %s: %w", req.VersionGroupID, vault.ErrVersionLimit)
	}

	return f, err
}

func (r *Repository) FetchByID(ctx context.Context, id uuid.UUID) (*domain.VaultFile, error) {
	f, err := scanFile(r.db.QueryRow(ctx, SelectByID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("file %s: %w", id, vault.ErrNotFound)
	}

	return f, err
}

func (r *Repository) FetchByIDs(ctx context.Context, ids []uuid.UUID) (domain.VaultFiles, error) {
	return r.scanFiles(ctx, SelectByIDs, ids)
}

func (r *Repository) FetchOwned(ctx context.Context, ownerID uuid.UUID, page int) (domain.VaultFiles, error) {
	return r.scanFiles(ctx, SelectOwned, ownerID, page)
}

func (r *Repository) FetchLineage(ctx context.Context, groupID uuid.UUID) (domain.VaultFiles, error) {
	return r.scanFiles(ctx, SelectLineage, groupID)
}

func (r *Repository) UpdateTagsExpiry(ctx context.Context, id uuid.UUID, tags []string, expiry *time.Time) (*domain.VaultFile, error) {
	f, err := scanFile(r.db.QueryRow(ctx, UpdateTagsExpiry, id, tags, expiry))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("file %s: %w", id, vault.ErrNotFound)
	}

	return f, err
}

func (r *Repository) SoftDelete(ctx context.Context, id, deletedBy uuid.UUID) (*domain.VaultFile, error) {
	return r.transition(ctx, SoftDeleteFile, id, deletedBy)
}

func (r *Repository) Restore(ctx context.Context, id uuid.UUID) (*domain.VaultFile, error) {
	f, err := scanFile(r.db.QueryRow(ctx, RestoreFile, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("file %s not soft-deleted: %w", id, vault.ErrConflict)
	}

	return f, err
}

func (r *Repository) HardDelete(ctx context.Context, id, deletedBy uuid.UUID) (*domain.VaultFile, error) {
	return r.transition(ctx, HardDeleteFile, id, deletedBy)
}

// transition runs a guarded lifecycle update. Zero rows means the record was
// not in the state the statement requires, typically because a concurrent
// call won.
func (r *Repository) transition(ctx context.Context, query string, id, deletedBy uuid.UUID) (*domain.VaultFile, error) {
	f, err := scanFile(r.db.QueryRow(ctx, query, id, deletedBy))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("file %s changed state: %w", id, vault.ErrConflict)
	}

	return f, err
}

package vaultfile

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vault-api/internal/domain/vault"
	domain "vault-api/internal/domain/vaultfile"
)

var fileCols = []string{
	"uuid", "owner_id", "filename", "mime_type", "content_locator", "integrity_tag", "size_bytes", "tags",
	"version", "version_group_id", "integrity_verified", "malware_scan_passed", "dlp_flagged",
	"expiry", "lifecycle_state", "deleted_at", "deleted_by", "created_at",
}

func newMock(t *testing.T) (pgxmock.PgxPoolIface, domain.Repository) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock, NewRepository(mock)
}

func fileRow(id, ownerID, groupID uuid.UUID, version int, state string) *pgxmock.Rows {
	return pgxmock.NewRows(fileCols).AddRow(
		id, ownerID, "report.pdf", "application/pdf", "vault/x/y/report.pdf", "deadbeef", uint64(42), []string{"finance"},
		version, groupID, true, true, false,
		(*time.Time)(nil), state, (*time.Time)(nil), (*uuid.UUID)(nil), time.Now(),
	)
}

func TestRepository_FetchByID(t *testing.T) {
	id := uuid.New()
	owner := uuid.New()

	t.Run("maps a row onto the domain record", func(t *testing.T) {
		mock, repo := newMock(t)
		mock.ExpectQuery(SelectByID).WithArgs(id).WillReturnRows(fileRow(id, owner, id, 1, "active"))

		f, err := repo.FetchByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, f.UUID)
		assert.Equal(t, owner, f.OwnerID)
		assert.Equal(t, domain.StateActive, f.LifecycleState)
		assert.Equal(t, domain.SecurityStatus{IntegrityVerified: true, MalwareScanPassed: true}, f.SecurityStatus)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no row becomes not found", func(t *testing.T) {
		mock, repo := newMock(t)
		mock.ExpectQuery(SelectByID).WithArgs(id).WillReturnError(pgx.ErrNoRows)

		_, err := repo.FetchByID(context.Background(), id)
		require.ErrorIs(t, err, vault.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_InsertVersion(t *testing.T) {
	owner := uuid.New()
	groupID := uuid.New()

	req := &domain.VaultFile{
		UUID:           uuid.New(),
		OwnerID:        owner,
		Filename:       "report.pdf",
		MimeType:       "application/pdf",
		ContentLocator: "vault/x/y/report.pdf",
		IntegrityTag:   "deadbeef",
		SizeBytes:      42,
		Tags:           []string{"finance"},
		VersionGroupID: groupID,
		SecurityStatus: domain.SecurityStatus{IntegrityVerified: true, MalwareScanPassed: true},
	}

	t.Run("empty insert means the ceiling was hit", func(t *testing.T) {
		mock, repo := newMock(t)
		mock.ExpectQuery(InsertVersion).WillReturnError(pgx.ErrNoRows)

		_, err := repo.InsertVersion(context.Background(), req)
		require.ErrorIs(t, err, vault.ErrVersionLimit)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation is retried once", func(t *testing.T) {
		mock, repo := newMock(t)
		mock.ExpectQuery(InsertVersion).WillReturnError(&pgconn.PgError{Code: "23505"})
		mock.ExpectQuery(InsertVersion).WillReturnRows(fileRow(req.UUID, owner, groupID, 3, "active"))

		f, err := repo.InsertVersion(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 3, f.Version)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("losing the race twice is a conflict", func(t *testing.T) {
		mock, repo := newMock(t)
		mock.ExpectQuery(InsertVersion).WillReturnError(&pgconn.PgError{Code: "23505"})
		mock.ExpectQuery(InsertVersion).WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := repo.InsertVersion(context.Background(), req)
		require.ErrorIs(t, err, vault.ErrConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_LifecycleTransitions(t *testing.T) {
	id := uuid.New()
	actor := uuid.New()

	t.Run("soft delete returns the transitioned record", func(t *testing.T) {
		mock, repo := newMock(t)
		mock.ExpectQuery(SoftDeleteFile).WithArgs(id, actor).
			WillReturnRows(fileRow(id, actor, id, 1, "soft_deleted"))

		f, err := repo.SoftDelete(context.Background(), id, actor)
		require.NoError(t, err)
		assert.Equal(t, domain.StateSoftDeleted, f.LifecycleState)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("guard miss on soft delete is a conflict", func(t *testing.T) {
		mock, repo := newMock(t)
		mock.ExpectQuery(SoftDeleteFile).WithArgs(id, actor).WillReturnError(pgx.ErrNoRows)

		_, err := repo.SoftDelete(context.Background(), id, actor)
		require.ErrorIs(t, err, vault.ErrConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("restore of a non-deleted record is a conflict", func(t *testing.T) {
		mock, repo := newMock(t)
		mock.ExpectQuery(RestoreFile).WithArgs(id).WillReturnError(pgx.ErrNoRows)

		_, err := repo.Restore(context.Background(), id)
		require.ErrorIs(t, err, vault.ErrConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("hard delete returns the final record", func(t *testing.T) {
		mock, repo := newMock(t)
		mock.ExpectQuery(HardDeleteFile).WithArgs(id, actor).
			WillReturnRows(fileRow(id, actor, id, 1, "hard_deleted"))

		f, err := repo.HardDelete(context.Background(), id, actor)
		require.NoError(t, err)
		assert.Equal(t, domain.StateHardDeleted, f.LifecycleState)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_UpdateTagsExpiry_NotFound(t *testing.T) {
	mock, repo := newMock(t)
	id := uuid.New()
	mock.ExpectQuery(UpdateTagsExpiry).WithArgs(id, []string{"x"}, (*time.Time)(nil)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.UpdateTagsExpiry(context.Background(), id, []string{"x"}, nil)
	require.ErrorIs(t, err, vault.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

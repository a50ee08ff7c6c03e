package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"vault-api/internal/application/ports"
	"vault-api/internal/domain/vault"
	"vault-api/internal/domain/vaultaudit"
	"vault-api/internal/domain/vaultfile"
	"vault-api/internal/domain/vaultshare"
	"vault-api/internal/infrastructure/mq"
	sharedto "vault-api/internal/interface/api/rest/dto/vaultshare"
)

const shareTokenBytes = 32

// ShareService is the sharing manager: it mints capability tokens over file
// sets and meters every resolution against the share's access budget.
type ShareService struct {
	shareRepository vaultshare.Repository
	fileRepository  vaultfile.Repository
	blob            ports.BlobVault
	auditRepository vaultaudit.Repository
	mq              ports.RabbitMQ
	mCounter        *prometheus.CounterVec
}

func NewShareService(
	shareRepository vaultshare.Repository,
	fileRepository vaultfile.Repository,
	blob ports.BlobVault,
	auditRepository vaultaudit.Repository,
	rabbit ports.RabbitMQ,
	mCounter *prometheus.CounterVec,
) ports.ShareService {
	return &ShareService{
		shareRepository: shareRepository,
		fileRepository:  fileRepository,
		blob:            blob,
		auditRepository: auditRepository,
		mq:              rabbit,
		mCounter:        mCounter,
	}
}

func (ss *ShareService) Create(ctx context.Context, caller vault.Caller, in ports.CreateShareInput) (*vaultshare.VaultShare, error) {
	s, err := ss.doCreate(ctx, caller, in)
	recordAudit(ctx, ss.auditRepository, caller, mq.ActionCreateShare, targetShare, shareID(s), err)
	if err != nil {
		return nil, err
	}

	ss.emit(mq.ActionCreateShare, caller.ID.String(), sharedto.ToResponseShare(*s))
	ss.mCounter.WithLabelValues("vault_shares_created_total").Inc()

	return s, nil
}

func (ss *ShareService) doCreate(ctx context.Context, caller vault.Caller, in ports.CreateShareInput) (*vaultshare.VaultShare, error) {
	if len(in.FileIDs) == 0 {
		return nil, fmt.Errorf("file_ids required: %w", vault.ErrValidation)
	}
	if in.AccessLimit < 0 {
		return nil, fmt.Errorf("access_limit must be positive: %w", vault.ErrValidation)
	}

	files, err := ss.fileRepository.FetchByIDs(ctx, in.FileIDs)
	if err != nil {
		return nil, err
	}
	if len(files) != len(in.FileIDs) {
		return nil, fmt.Errorf("unknown file in share: %w", vault.ErrNotFound)
	}
	for _, f := range files {
		// only the owner's own live documents are shareable; a file the
		// caller cannot see stays invisible
		if f.OwnerID != caller.ID {
			return nil, fmt.Errorf("file %s: %w", f.UUID, vault.ErrNotFound)
		}
		if f.LifecycleState != vaultfile.StateActive {
			return nil, fmt.Errorf("file %s is deleted: %w", f.UUID, vault.ErrConflict)
		}
	}

	now := time.Now()
	expiresAt := now.Add(vaultshare.DefaultTTL)
	if in.ExpiresAt != nil {
		if in.ExpiresAt.Before(now) {
			return nil, fmt.Errorf("expires_at in the past: %w", vault.ErrValidation)
		}
		expiresAt = *in.ExpiresAt
	}
	if max := now.Add(vaultshare.MaxTTL); expiresAt.After(max) {
		expiresAt = max
	}

	accessLimit := in.AccessLimit
	if accessLimit == 0 {
		accessLimit = vaultshare.DefaultAccessLimit
	}

	token, err := genShareToken()
	if err != nil {
		return nil, err
	}

	return ss.shareRepository.Create(ctx, &vaultshare.VaultShare{
		UUID:        uuid.New(),
		OwnerID:     caller.ID,
		FileIDs:     in.FileIDs,
		Token:       token,
		ExpiresAt:   expiresAt,
		AccessLimit: accessLimit,
		Message:     in.Message,
	})
}

func (ss *ShareService) ListOwned(ctx context.Context, caller vault.Caller) (vaultshare.VaultShares, error) {
	return ss.shareRepository.FetchOwned(ctx, caller.ID)
}

// Resolve consumes one access unit and returns the share with its surviving
// files. Files hard-deleted since the share was minted drop out silently.
func (ss *ShareService) Resolve(ctx context.Context, token string) (*ports.ShareResolution, error) {
	res, err := ss.doResolve(ctx, token)
	recordAudit(ctx, ss.auditRepository, vault.Caller{}, mq.ActionResolveShare, targetShare, resolutionID(res), err)
	if err != nil {
		return nil, err
	}

	ss.emit(mq.ActionResolveShare, "", sharedto.ToResolution(*res.Share, res.Files))
	ss.mCounter.WithLabelValues("vault_shares_resolved_total").Inc()

	return res, nil
}

func (ss *ShareService) doResolve(ctx context.Context, token string) (*ports.ShareResolution, error) {
	s, err := ss.shareRepository.Consume(ctx, token)
	if err != nil {
		return nil, err
	}

	files, err := ss.fileRepository.FetchByIDs(ctx, s.FileIDs)
	if err != nil {
		return nil, err
	}

	visible := make(vaultfile.VaultFiles, 0, len(files))
	for _, f := range files {
		if f.LifecycleState == vaultfile.StateHardDeleted {
			continue
		}
		visible = append(visible, f)
	}

	return &ports.ShareResolution{Share: s, Files: visible}, nil
}

// DownloadShared serves one file through a share link, consuming one access
// unit for the attempt whether or not the decrypt succeeds.
func (ss *ShareService) DownloadShared(ctx context.Context, token string, fileID uuid.UUID) (*ports.DownloadResult, error) {
	res, err := ss.doDownloadShared(ctx, token, fileID)
	recordAudit(ctx, ss.auditRepository, vault.Caller{}, mq.ActionDownload, targetFile, fileID.String(), err)
	if err != nil {
		return nil, err
	}

	ss.mCounter.WithLabelValues("vault_shared_downloads_total").Inc()

	return res, nil
}

func (ss *ShareService) doDownloadShared(ctx context.Context, token string, fileID uuid.UUID) (*ports.DownloadResult, error) {
	s, err := ss.shareRepository.Consume(ctx, token)
	if err != nil {
		return nil, err
	}

	if !s.Contains(fileID) {
		return nil, fmt.Errorf("file %s not in share: %w", fileID, vault.ErrNotFound)
	}

	f, err := ss.fileRepository.FetchByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if f.LifecycleState == vaultfile.StateHardDeleted {
		return nil, fmt.Errorf("file %s: %w", fileID, vault.ErrNotFound)
	}

	content, err := ss.blob.RetrieveDecrypted(ctx, f.ContentLocator, f.IntegrityTag)
	if err != nil {
		return nil, err
	}

	return &ports.DownloadResult{
		Filename: f.Filename,
		MimeType: contentType(f.MimeType, content),
		Content:  content,
	}, nil
}

func (ss *ShareService) Revoke(ctx context.Context, caller vault.Caller, token string) error {
	err := ss.doRevoke(ctx, caller, token)
	recordAudit(ctx, ss.auditRepository, caller, mq.ActionRevokeShare, targetShare, token, err)
	if err != nil {
		return err
	}

	ss.emit(mq.ActionRevokeShare, caller.ID.String(), struct {
		Token string `json:"token"`
	}{token})
	ss.mCounter.WithLabelValues("vault_shares_revoked_total").Inc()

	return nil
}

func (ss *ShareService) doRevoke(ctx context.Context, caller vault.Caller, token string) error {
	s, err := ss.shareRepository.FetchByToken(ctx, token)
	if err != nil {
		return err
	}
	// a valid token already proves the share exists, so a non-owner gets a
	// plain denial rather than a not-found disguise
	if s.OwnerID != caller.ID && !caller.IsAdmin() {
		return fmt.Errorf("share %s: %w", s.UUID, vault.ErrForbidden)
	}

	return ss.shareRepository.Revoke(ctx, token)
}

func (ss *ShareService) BulkRevoke(ctx context.Context, caller vault.Caller, tokens []string) (*ports.BulkRevokeResult, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("tokens required: %w", vault.ErrValidation)
	}

	res := new(ports.BulkRevokeResult)
	for _, token := range tokens {
		if err := ss.Revoke(ctx, caller, token); err != nil {
			res.NotFound = append(res.NotFound, token)
			continue
		}
		res.Revoked = append(res.Revoked, token)
	}

	return res, nil
}

func genShareToken() (string, error) {
	raw := make([]byte, shareTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate share token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func shareID(s *vaultshare.VaultShare) string {
	if s == nil {
		return ""
	}
	return s.UUID.String()
}

func resolutionID(res *ports.ShareResolution) string {
	if res == nil || res.Share == nil {
		return ""
	}
	return res.Share.UUID.String()
}

func (ss *ShareService) emit(action, actorID string, payload any) {
	select {
	case ss.mq.GetInputChan() <- mq.Event{
		Id:      uuid.New(),
		TS:      time.Now(),
		Action:  action,
		ActorID: actorID,
		Payload: payload,
	}:
	default:
	}
}

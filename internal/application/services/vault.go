package services

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"vault-api/internal/application/ports"
	"vault-api/internal/domain/vault"
	"vault-api/internal/domain/vaultaudit"
	domain "vault-api/internal/domain/vaultfile"
	"vault-api/internal/infrastructure/mq"
	filedto "vault-api/internal/interface/api/rest/dto/vaultfile"
)

// VaultService is the versioning manager: it owns uploads, lineages,
// tag/expiry updates and the two-step delete. Every entry point authorizes
// the caller and reports the outcome to the audit trail and the event sink.
type VaultService struct {
	fileRepository  domain.Repository
	blob            ports.BlobVault
	auditRepository vaultaudit.Repository
	mq              ports.RabbitMQ
	mCounter        *prometheus.CounterVec
}

func NewVaultService(
	fileRepository domain.Repository,
	blob ports.BlobVault,
	auditRepository vaultaudit.Repository,
	rabbit ports.RabbitMQ,
	mCounter *prometheus.CounterVec,
) ports.VaultService {
	return &VaultService{
		fileRepository:  fileRepository,
		blob:            blob,
		auditRepository: auditRepository,
		mq:              rabbit,
		mCounter:        mCounter,
	}
}

func (vs *VaultService) Upload(ctx context.Context, caller vault.Caller, in ports.UploadInput) (*domain.VaultFile, error) {
	f, err := vs.doUpload(ctx, caller, in)
	recordAudit(ctx, vs.auditRepository, caller, mq.ActionUpload, targetFile, fileID(f), err)
	if err != nil {
		return nil, err
	}

	vs.emit(mq.ActionUpload, caller, filedto.ToSummary(*f))
	vs.mCounter.WithLabelValues("vault_files_uploaded_total").Inc()

	return f, nil
}

func (vs *VaultService) doUpload(ctx context.Context, caller vault.Caller, in ports.UploadInput) (*domain.VaultFile, error) {
	content, filename, mimeType, tags, err := vs.readUpload(in)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	locator := genStorageKey(filename, mimeType, id)

	// content must be durable before any metadata exists: an aborted upload
	// leaves at worst an orphaned box, never a dangling record
	tag, err := vs.blob.StoreEncrypted(ctx, locator, content)
	if err != nil {
		return nil, err
	}

	f, err := vs.fileRepository.CreateFile(ctx, &domain.VaultFile{
		UUID:           id,
		OwnerID:        caller.ID,
		Filename:       filename,
		MimeType:       mimeType,
		ContentLocator: locator,
		IntegrityTag:   tag,
		SizeBytes:      uint64(len(content)),
		Tags:           tags,
		VersionGroupID: id,
		SecurityStatus: scannerVerdicts(),
	})
	if err != nil {
		_ = vs.blob.Discard(ctx, locator)
		return nil, err
	}

	return f, nil
}

func (vs *VaultService) List(ctx context.Context, caller vault.Caller, page int) (domain.VaultFiles, error) {
	return vs.fileRepository.FetchOwned(ctx, caller.ID, page)
}

func (vs *VaultService) Download(ctx context.Context, caller vault.Caller, id uuid.UUID) (*ports.DownloadResult, error) {
	res, err := vs.doDownload(ctx, caller, id)
	recordAudit(ctx, vs.auditRepository, caller, mq.ActionDownload, targetFile, id.String(), err)
	if err != nil {
		return nil, err
	}

	vs.emit(mq.ActionDownload, caller, struct {
		ID       uuid.UUID `json:"id"`
		Filename string    `json:"filename"`
	}{id, res.Filename})
	vs.mCounter.WithLabelValues("vault_files_downloaded_total").Inc()

	return res, nil
}

func (vs *VaultService) doDownload(ctx context.Context, caller vault.Caller, id uuid.UUID) (*ports.DownloadResult, error) {
	f, err := vs.fileRepository.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = authorizeRecord(f, caller); err != nil {
		return nil, err
	}

	content, err := vs.blob.RetrieveDecrypted(ctx, f.ContentLocator, f.IntegrityTag)
	if err != nil {
		return nil, err
	}

	return &ports.DownloadResult{
		Filename: f.Filename,
		MimeType: contentType(f.MimeType, content),
		Content:  content,
	}, nil
}

func (vs *VaultService) Update(ctx context.Context, caller vault.Caller, id uuid.UUID, in ports.UpdateInput) (*domain.VaultFile, error) {
	f, err := vs.doUpdate(ctx, caller, id, in)
	recordAudit(ctx, vs.auditRepository, caller, mq.ActionUpdate, targetFile, id.String(), err)
	if err != nil {
		return nil, err
	}

	vs.emit(mq.ActionUpdate, caller, filedto.ToSummary(*f))
	vs.mCounter.WithLabelValues("vault_files_updated_total").Inc()

	return f, nil
}

func (vs *VaultService) doUpdate(ctx context.Context, caller vault.Caller, id uuid.UUID, in ports.UpdateInput) (*domain.VaultFile, error) {
	f, err := vs.fileRepository.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = authorizeRecord(f, caller); err != nil {
		return nil, err
	}

	tags := f.Tags
	if in.Tags != nil {
		if tags, err = normalizeTags(in.Tags); err != nil {
			return nil, err
		}
	}
	expiry := f.Expiry
	if in.Expiry != nil {
		// past timestamps are allowed: the record becomes pre-expired
		expiry = in.Expiry
	}

	return vs.fileRepository.UpdateTagsExpiry(ctx, id, tags, expiry)
}

func (vs *VaultService) Delete(ctx context.Context, caller vault.Caller, id uuid.UUID, hard bool) (*domain.VaultFile, error) {
	f, err := vs.doDelete(ctx, caller, id, hard)
	recordAudit(ctx, vs.auditRepository, caller, mq.ActionDelete, targetFile, id.String(), err)
	if err != nil {
		return nil, err
	}

	vs.emit(mq.ActionDelete, caller, struct {
		ID         uuid.UUID `json:"id"`
		HardDelete bool      `json:"hard_delete"`
	}{id, hard})
	vs.mCounter.WithLabelValues("vault_files_deleted_total").Inc()

	return f, nil
}

func (vs *VaultService) doDelete(ctx context.Context, caller vault.Caller, id uuid.UUID, hard bool) (*domain.VaultFile, error) {
	f, err := vs.fileRepository.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if hard {
		if err = authorizeHardDelete(f, caller); err != nil {
			return nil, err
		}
		deleted, err := vs.fileRepository.HardDelete(ctx, id, caller.ID)
		if err != nil {
			return nil, err
		}
		// each version owns its locator, so only this version's bytes go;
		// a failed store delete leaves an unreachable box behind
		_ = vs.blob.Discard(ctx, deleted.ContentLocator)
		return deleted, nil
	}

	if err = authorizeRecord(f, caller); err != nil {
		return nil, err
	}
	if f.LifecycleState != domain.StateActive {
		return nil, fmt.Errorf("file %s already deleted: %w", id, vault.ErrConflict)
	}

	return vs.fileRepository.SoftDelete(ctx, id, caller.ID)
}

func (vs *VaultService) Restore(ctx context.Context, caller vault.Caller, id uuid.UUID) (*domain.VaultFile, error) {
	f, err := vs.doRestore(ctx, caller, id)
	recordAudit(ctx, vs.auditRepository, caller, mq.ActionRestore, targetFile, id.String(), err)
	if err != nil {
		return nil, err
	}

	vs.emit(mq.ActionRestore, caller, filedto.ToSummary(*f))
	vs.mCounter.WithLabelValues("vault_files_restored_total").Inc()

	return f, nil
}

func (vs *VaultService) doRestore(ctx context.Context, caller vault.Caller, id uuid.UUID) (*domain.VaultFile, error) {
	f, err := vs.fileRepository.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = authorizeRecord(f, caller); err != nil {
		return nil, err
	}

	return vs.fileRepository.Restore(ctx, id)
}

func (vs *VaultService) AddVersion(ctx context.Context, caller vault.Caller, parentID uuid.UUID, in ports.UploadInput) (*domain.VaultFile, error) {
	f, err := vs.doAddVersion(ctx, caller, parentID, in)
	recordAudit(ctx, vs.auditRepository, caller, mq.ActionUploadVersion, targetFile, fileID(f), err)
	if err != nil {
		return nil, err
	}

	vs.emit(mq.ActionUploadVersion, caller, filedto.ToSummary(*f))
	vs.mCounter.WithLabelValues("vault_versions_added_total").Inc()

	return f, nil
}

func (vs *VaultService) doAddVersion(ctx context.Context, caller vault.Caller, parentID uuid.UUID, in ports.UploadInput) (*domain.VaultFile, error) {
	parent, err := vs.fileRepository.FetchByID(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if err = authorizeRecord(parent, caller); err != nil {
		return nil, err
	}

	lineage, err := vs.fileRepository.FetchLineage(ctx, parent.VersionGroupID)
	if err != nil {
		return nil, err
	}
	if len(lineage) >= domain.MaxVersions {
		return nil, fmt.Errorf("lineage %s: %w", parent.VersionGroupID, vault.ErrVersionLimit)
	}

	content, filename, mimeType, tags, err := vs.readUpload(in)
	if err != nil {
		return nil, err
	}
	if in.Tags == nil && len(lineage) > 0 {
		// inherit from the latest surviving version
		tags = lineage[0].Tags
	}

	id := uuid.New()
	locator := genStorageKey(filename, mimeType, id)

	tag, err := vs.blob.StoreEncrypted(ctx, locator, content)
	if err != nil {
		return nil, err
	}

	f, err := vs.fileRepository.InsertVersion(ctx, &domain.VaultFile{
		UUID:    id,
		OwnerID: parent.OwnerID,

		Filename:       filename,
		MimeType:       mimeType,
		ContentLocator: locator,
		IntegrityTag:   tag,
		SizeBytes:      uint64(len(content)),
		Tags:           tags,

		VersionGroupID: parent.VersionGroupID,
		SecurityStatus: scannerVerdicts(),
	})
	if err != nil {
		_ = vs.blob.Discard(ctx, locator)
		return nil, err
	}

	return f, nil
}

func (vs *VaultService) ListVersions(ctx context.Context, caller vault.Caller, id uuid.UUID) (domain.VaultFiles, error) {
	f, err := vs.fileRepository.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = authorizeRecord(f, caller); err != nil {
		return nil, err
	}

	return vs.fileRepository.FetchLineage(ctx, f.VersionGroupID)
}

func (vs *VaultService) BulkDelete(ctx context.Context, caller vault.Caller, ids []uuid.UUID) (*ports.BulkDeleteResult, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("file_ids required: %w", vault.ErrValidation)
	}

	res := new(ports.BulkDeleteResult)
	for _, id := range ids {
		if _, err := vs.Delete(ctx, caller, id, false); err != nil {
			res.NotFound = append(res.NotFound, id)
			continue
		}
		res.Deleted = append(res.Deleted, id)
	}

	return res, nil
}

// readUpload drains and validates one incoming document.
func (vs *VaultService) readUpload(in ports.UploadInput) ([]byte, string, string, []string, error) {
	content, err := io.ReadAll(in.Content)
	if err != nil {
		return nil, "", "", nil, fmt.Errorf("read upload: %w", err)
	}
	if len(content) == 0 {
		return nil, "", "", nil, fmt.Errorf("empty file: %w", vault.ErrValidation)
	}

	filename := sanitizeFileName(in.Filename)
	mimeType := in.MimeType
	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(filename))
	}

	tags, err := normalizeTags(in.Tags)
	if err != nil {
		return nil, "", "", nil, err
	}

	return content, filename, mimeType, tags, nil
}

// scannerVerdicts stands in for the malware/DLP pipeline: the vault only
// stores the booleans, scanning happens upstream of it.
func scannerVerdicts() domain.SecurityStatus {
	return domain.SecurityStatus{
		IntegrityVerified: true,
		MalwareScanPassed: true,
		DLPFlagged:        false,
	}
}

func normalizeTags(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if len(t) > 64 {
			return nil, fmt.Errorf("tag too long: %w", vault.ErrValidation)
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	return out, nil
}

func contentType(stored string, content []byte) string {
	if stored != "" {
		return stored
	}
	return http.DetectContentType(content)
}

func fileID(f *domain.VaultFile) string {
	if f == nil {
		return ""
	}
	return f.UUID.String()
}

func (vs *VaultService) emit(action string, caller vault.Caller, payload any) {
	select {
	case vs.mq.GetInputChan() <- mq.Event{
		Id:      uuid.New(),
		TS:      time.Now(),
		Action:  action,
		ActorID: caller.ID.String(),
		Payload: payload,
	}:
	default:
		// sink backed up; delivery is fire-and-forget
	}
}

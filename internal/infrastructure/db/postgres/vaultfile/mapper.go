package vaultfile

import (
	domain "vault-api/internal/domain/vaultfile"
)

func fromDBModel(model *VaultFile) *domain.VaultFile {
	var f = &domain.VaultFile{
		UUID:    model.UUID,
		OwnerID: model.OwnerID,

		Filename:       model.Filename,
		MimeType:       model.MimeType,
		ContentLocator: model.ContentLocator,
		IntegrityTag:   model.IntegrityTag,
		SizeBytes:      model.SizeBytes,
		Tags:           model.Tags,

		Version:        model.Version,
		VersionGroupID: model.VersionGroupID,

		SecurityStatus: domain.SecurityStatus{
			IntegrityVerified: model.IntegrityVerified,
			MalwareScanPassed: model.MalwareScanPassed,
			DLPFlagged:        model.DLPFlagged,
		},

		Expiry:         model.Expiry,
		LifecycleState: domain.LifecycleState(model.LifecycleState),
		DeletedAt:      model.DeletedAt,
		DeletedBy:      model.DeletedBy,

		CreatedAt: model.CreatedAt,
	}

	return f
}

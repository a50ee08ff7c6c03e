package vaultshare

import (
	domain "vault-api/internal/domain/vaultshare"
)

func fromDBModel(model *VaultShare) *domain.VaultShare {
	var s = &domain.VaultShare{
		UUID:    model.UUID,
		OwnerID: model.OwnerID,
		FileIDs: model.FileIDs,

		Token:       model.Token,
		ExpiresAt:   model.ExpiresAt,
		AccessLimit: model.AccessLimit,
		AccessCount: model.AccessCount,
		Revoked:     model.Revoked,
		Message:     model.Message,

		CreatedAt: model.CreatedAt,
	}

	return s
}

package vaultshare

import (
	"time"

	"github.com/google/uuid"

	"vault-api/internal/application/ports"
	"vault-api/internal/domain/vaultfile"
	"vault-api/internal/domain/vaultshare"
	filedto "vault-api/internal/interface/api/rest/dto/vaultfile"
)

func ToResponseShare(sDomain vaultshare.VaultShare) Share {
	var s = Share{
		ID:          sDomain.UUID,
		Token:       sDomain.Token,
		FileIDs:     sDomain.FileIDs,
		ExpiresAt:   sDomain.ExpiresAt,
		AccessLimit: sDomain.AccessLimit,
		AccessCount: sDomain.AccessCount,
		Revoked:     sDomain.Revoked,
		Message:     sDomain.Message,
		CreatedAt:   sDomain.CreatedAt,
	}

	return s
}

func ToResponseShares(ssDomain vaultshare.VaultShares) Shares {
	ss := make(Shares, len(ssDomain))
	for idx, s := range ssDomain {
		ss[idx] = ToResponseShare(*s)
	}

	return ss
}

func ToCreateInput(req CreateRequest) (ports.CreateShareInput, error) {
	ids := make([]uuid.UUID, 0, len(req.FileIDs))
	for _, raw := range req.FileIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return ports.CreateShareInput{}, err
		}
		ids = append(ids, id)
	}

	in := ports.CreateShareInput{
		FileIDs:     ids,
		AccessLimit: req.AccessLimit,
		Message:     req.Message,
	}
	if req.ExpiresAt != nil {
		t, err := time.Parse(time.RFC3339, *req.ExpiresAt)
		if err != nil {
			return ports.CreateShareInput{}, err
		}
		in.ExpiresAt = &t
	}

	return in, nil
}

func ToResolution(sDomain vaultshare.VaultShare, files vaultfile.VaultFiles) Resolution {
	return Resolution{
		Files:     filedto.ToSummaries(files),
		Message:   sDomain.Message,
		ExpiresAt: sDomain.ExpiresAt,
	}
}

package vaultfile

import (
	"time"

	"vault-api/internal/application/ports"
	"vault-api/internal/domain/vaultfile"
)

func ToSummary(fDomain vaultfile.VaultFile) Summary {
	var s = Summary{
		ID:             fDomain.UUID,
		Filename:       fDomain.Filename,
		MimeType:       fDomain.MimeType,
		SizeBytes:      fDomain.SizeBytes,
		Tags:           fDomain.Tags,
		Version:        fDomain.Version,
		VersionGroupID: fDomain.VersionGroupID,
		LifecycleState: string(fDomain.LifecycleState),
		SecurityStatus: SecurityStatus{
			IntegrityVerified: fDomain.SecurityStatus.IntegrityVerified,
			MalwareScanPassed: fDomain.SecurityStatus.MalwareScanPassed,
			DLPFlagged:        fDomain.SecurityStatus.DLPFlagged,
		},
		Expiry:    fDomain.Expiry,
		CreatedAt: fDomain.CreatedAt,
	}

	return s
}

func ToSummaries(fsDomain vaultfile.VaultFiles) Summaries {
	ss := make(Summaries, len(fsDomain))
	for idx, f := range fsDomain {
		ss[idx] = ToSummary(*f)
	}

	return ss
}

func ToUpdateInput(req UpdateRequest) (ports.UpdateInput, error) {
	var in ports.UpdateInput
	if req.Tags != nil {
		tags := *req.Tags
		if tags == nil {
			tags = []string{}
		}
		in.Tags = tags
	}
	if req.Expiry != nil {
		t, err := time.Parse(time.RFC3339, *req.Expiry)
		if err != nil {
			return in, err
		}
		in.Expiry = &t
	}

	return in, nil
}

package vaultfile

import (
	"time"

	"github.com/google/uuid"
)

type (
	SecurityStatus struct {
		IntegrityVerified bool `json:"integrity_verified"`
		MalwareScanPassed bool `json:"malware_scan_passed"`
		DLPFlagged        bool `json:"dlp_flagged"`
	}
	// Summary is the metadata view of one file version. Content itself is
	// only ever served by the download endpoints.
	Summary struct {
		ID             uuid.UUID      `json:"id"`
		Filename       string         `json:"filename"`
		MimeType       string         `json:"mime_type"`
		SizeBytes      uint64         `json:"size_bytes"`
		Tags           []string       `json:"tags"`
		Version        int            `json:"version"`
		VersionGroupID uuid.UUID      `json:"version_group_id"`
		LifecycleState string         `json:"lifecycle_state"`
		SecurityStatus SecurityStatus `json:"security_status"`
		Expiry         *time.Time     `json:"expiry,omitempty"`
		CreatedAt      time.Time      `json:"created_at"`
	}
	Summaries    []Summary
	ResponseData struct {
		Data Summaries `json:"data"`
	}
)

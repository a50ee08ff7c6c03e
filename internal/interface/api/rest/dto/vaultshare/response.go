package vaultshare

import (
	"time"

	"github.com/google/uuid"

	filedto "vault-api/internal/interface/api/rest/dto/vaultfile"
)

type (
	Share struct {
		ID          uuid.UUID   `json:"id"`
		Token       string      `json:"token"`
		FileIDs     []uuid.UUID `json:"file_ids"`
		ExpiresAt   time.Time   `json:"expires_at"`
		AccessLimit int         `json:"access_limit"`
		AccessCount int         `json:"access_count"`
		Revoked     bool        `json:"revoked"`
		Message     string      `json:"message,omitempty"`
		CreatedAt   time.Time   `json:"created_at"`
	}
	Shares       []Share
	ResponseData struct {
		Data Shares `json:"data"`
	}
	// Resolution is what a token holder sees: file summaries, never tokens
	// or owner identity.
	Resolution struct {
		Files     filedto.Summaries `json:"files"`
		Message   string            `json:"message,omitempty"`
		ExpiresAt time.Time         `json:"expires_at"`
	}
)

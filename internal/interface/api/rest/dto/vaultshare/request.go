package vaultshare

type (
	CreateRequest struct {
		FileIDs     []string `json:"file_ids"`
		ExpiresAt   *string  `json:"expires_at"`
		AccessLimit int      `json:"access_limit"`
		Message     string   `json:"message"`
	}

	BulkRevokeRequest struct {
		Tokens []string `json:"tokens"`
	}
	BulkRevokeResponse struct {
		Revoked  []string `json:"revoked"`
		NotFound []string `json:"not_found"`
	}
)

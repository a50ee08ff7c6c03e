package vaultfile

import "github.com/google/uuid"

type (
	// UpdateRequest patches metadata only. A nil field is left untouched;
	// an empty tags array clears the tags.
	UpdateRequest struct {
		Tags   *[]string `json:"tags"`
		Expiry *string   `json:"expiry"`
	}

	BulkDeleteRequest struct {
		FileIDs []string `json:"file_ids"`
	}
	BulkDeleteResponse struct {
		Deleted  []uuid.UUID `json:"deleted"`
		NotFound []uuid.UUID `json:"not_found"`
	}
)

package validator

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	filedto "vault-api/internal/interface/api/rest/dto/vaultfile"
	sharedto "vault-api/internal/interface/api/rest/dto/vaultshare"
)

const (
	maxTags       = 20
	maxTagLen     = 64
	maxMessageLen = 500
	maxBulkItems  = 100
)

func ValidatePage(page string) (int, error) {
	p := 1
	if page != "" {
		p, err := strconv.Atoi(page)
		if err != nil || p < 1 {
			return p, errors.New("invalid page")
		}
		return p, nil
	}

	return p, nil
}

func IsUUID(s string) (bool, uuid.UUID) {
	id, err := uuid.Parse(s)
	return err == nil, id
}

// ValidateTags checks a tag set before it reaches the metadata store.
func ValidateTags(tags []string) map[string]string {
	errs := make(map[string]string)

	if len(tags) > maxTags {
		errs["tags"] = "at most 20 tags allowed"
	}
	for _, t := range tags {
		if utf8.RuneCountInString(strings.TrimSpace(t)) > maxTagLen {
			errs["tags"] = "tag length must be at most 64 characters"
			break
		}
	}

	if len(errs) == 0 {
		return nil
	}

	return errs
}

func ValidateUpdateFile(r filedto.UpdateRequest) map[string]string {
	errs := make(map[string]string)

	if r.Tags == nil && r.Expiry == nil {
		errs["body"] = "at least one of tags, expiry is required"
	}
	if r.Tags != nil {
		for k, v := range ValidateTags(*r.Tags) {
			errs[k] = v
		}
	}
	if r.Expiry != nil {
		if _, err := time.Parse(time.RFC3339, *r.Expiry); err != nil {
			errs["expiry"] = "must be RFC 3339 (e.g., 2026-01-02T15:04:05Z)"
		}
	}

	if len(errs) == 0 {
		return nil
	}

	return errs
}

func ValidateCreateShare(r sharedto.CreateRequest) map[string]string {
	errs := make(map[string]string)

	if len(r.FileIDs) == 0 {
		errs["file_ids"] = "file_ids is required"
	} else if len(r.FileIDs) > maxBulkItems {
		errs["file_ids"] = "at most 100 files per share"
	} else {
		for _, raw := range r.FileIDs {
			if ok, _ := IsUUID(raw); !ok {
				errs["file_ids"] = "every file id must be a valid UUID"
				break
			}
		}
	}

	if r.ExpiresAt != nil {
		if t, err := time.Parse(time.RFC3339, *r.ExpiresAt); err != nil {
			errs["expires_at"] = "must be RFC 3339 (e.g., 2026-01-02T15:04:05Z)"
		} else if t.Before(time.Now()) {
			errs["expires_at"] = "must be in the future"
		}
	}
	if r.AccessLimit < 0 {
		errs["access_limit"] = "must be a positive number"
	}
	if utf8.RuneCountInString(r.Message) > maxMessageLen {
		errs["message"] = "message length must be at most 500 characters"
	}

	if len(errs) == 0 {
		return nil
	}

	return errs
}

// ValidateIDList checks bulk request payloads of UUID strings.
func ValidateIDList(ids []string) ([]uuid.UUID, map[string]string) {
	errs := make(map[string]string)

	if len(ids) == 0 {
		errs["file_ids"] = "file_ids is required"
		return nil, errs
	}
	if len(ids) > maxBulkItems {
		errs["file_ids"] = "at most 100 items per request"
		return nil, errs
	}

	out := make([]uuid.UUID, 0, len(ids))
	for _, raw := range ids {
		ok, id := IsUUID(raw)
		if !ok {
			errs["file_ids"] = "every file id must be a valid UUID"
			return nil, errs
		}
		out = append(out, id)
	}

	return out, nil
}

// ValidateLimit parses an optional ?limit= query, bounded to keep audit
// reads cheap.
func ValidateLimit(limit string, def, max int) (int, error) {
	if limit == "" {
		return def, nil
	}
	l, err := strconv.Atoi(limit)
	if err != nil || l < 1 || l > max {
		return 0, errors.New("invalid limit")
	}

	return l, nil
}

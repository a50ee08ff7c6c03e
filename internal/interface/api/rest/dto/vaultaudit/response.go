package vaultaudit

import (
	"time"

	"github.com/google/uuid"
)

type (
	Entry struct {
		ActorID    uuid.UUID `json:"actor_id"`
		ActorRole  string    `json:"actor_role,omitempty"`
		Action     string    `json:"action"`
		TargetType string    `json:"target_type"`
		TargetID   string    `json:"target_id,omitempty"`
		Status     string    `json:"status"`
		Detail     string    `json:"detail,omitempty"`
		CreatedAt  time.Time `json:"created_at"`
	}
	Entries      []Entry
	ResponseData struct {
		Data Entries `json:"data"`
	}
)

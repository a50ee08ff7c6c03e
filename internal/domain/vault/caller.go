package vault

import "github.com/google/uuid"

const RoleAdmin = "admin"

// Caller is the authenticated principal extracted from the request JWT.
type Caller struct {
	ID   uuid.UUID
	Role string
}

func (c Caller) IsAdmin() bool { return c.Role == RoleAdmin }

package auth

import (
	"strings"

	"github.com/google/uuid"

	"medcamp/internal/model"
)

// Identity is the caller of a request, resolved from the access token and the stored
// user record. It is the only identity object services accept.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

// Policy decides capabilities for an Identity. It runs server-side at the data-access
// boundary; nothing sent by a client can change its answer.
type Policy struct {
	adminEmail string
}

// NewPolicy returns a policy granting admin to model.RoleAdmin and to adminEmail.
func NewPolicy(adminEmail string) *Policy {
	return &Policy{adminEmail: strings.TrimSpace(adminEmail)}
}

// IsAdmin reports whether id may view all submissions and change their status.
func (p *Policy) IsAdmin(id Identity) bool {
	if id.UserID == uuid.Nil {
		return false
	}
	if id.Role == model.RoleAdmin {
		return true
	}
	return p.adminEmail != "" && strings.EqualFold(strings.TrimSpace(id.Email), p.adminEmail)
}

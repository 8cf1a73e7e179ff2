package models

import (
	"encoding/json"
	"time"
)

// Audit actions recorded explicitly by services
const (
	AuditCompanyReview   = "company.review"
	AuditCompanyDelete   = "company.delete"
	AuditEventModerate   = "event.moderate"
	AuditEventCancel     = "event.cancel"
	AuditUserStatus      = "user.status"
	AuditInternshipClose = "internship.close"
)

// AuditLog is an append-only record of an action taken on the platform
type AuditLog struct {
	ID         int64           `json:"id" db:"id"`
	ActorID    *int64          `json:"actorId,omitempty" db:"actor_id"`
	ActorEmail string          `json:"actorEmail" db:"actor_email"`
	ActorRole  string          `json:"actorRole" db:"actor_role"`
	Action     string          `json:"action" db:"action"`
	EntityType string          `json:"entityType" db:"entity_type"`
	EntityID   *string         `json:"entityId,omitempty" db:"entity_id"`
	Details    json.RawMessage `json:"details,omitempty" db:"details"`
	IPAddress  string          `json:"ipAddress" db:"ip_address"`
	UserAgent  string          `json:"userAgent" db:"user_agent"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
}

// Actor identifies who performed an action
type Actor struct {
	ID        int64
	Email     string
	Role      RoleType
	IPAddress string
	UserAgent string
}

// IsAdmin reports whether the actor has the ADMIN role
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// AuditFilter narrows audit log listings and exports
type AuditFilter struct {
	ActorID    *int64
	ActorEmail string
	Action     string
	EntityType string
	EntityID   string
	From       *time.Time // inclusive
	To         *time.Time // exclusive
	Search     string
	SortAsc    bool
	Page       int
	Size       int
}

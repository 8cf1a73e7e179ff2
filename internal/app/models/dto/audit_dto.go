package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
)

// AuditFilterRequest holds audit log list and export query parameters
type AuditFilterRequest struct {
	ActorID    *int64 `form:"actorId" binding:"omitempty,min=1"`
	ActorEmail string `form:"actorEmail" binding:"max=254"`
	Action     string `form:"action" binding:"max=100"`
	EntityType string `form:"entityType" binding:"max=100"`
	EntityID   string `form:"entityId" binding:"max=100"`
	From       string `form:"from"`
	To         string `form:"to"`
	Search     string `form:"search" binding:"max=100"`
	Sort       string `form:"sort" binding:"omitempty,oneof=asc desc"`
}

// ToFilter parses dates and checks the range. from is inclusive, to is exclusive.
func (r AuditFilterRequest) ToFilter(page, size int) (models.AuditFilter, error) {
	filter := models.AuditFilter{
		ActorID:    r.ActorID,
		ActorEmail: strings.TrimSpace(r.ActorEmail),
		Action:     strings.TrimSpace(r.Action),
		EntityType: strings.TrimSpace(r.EntityType),
		EntityID:   strings.TrimSpace(r.EntityID),
		Search:     strings.TrimSpace(r.Search),
		SortAsc:    r.Sort == "asc",
		Page:       page,
		Size:       size,
	}

	var err error
	if filter.From, err = parseFilterTime("from", r.From); err != nil {
		return filter, err
	}
	if filter.To, err = parseFilterTime("to", r.To); err != nil {
		return filter, err
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return filter, apperrors.NewValidationError("from must not be after to")
	}
	return filter, nil
}

// parseFilterTime accepts RFC 3339 timestamps or plain dates (midnight UTC).
func parseFilterTime(name, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		t = t.UTC()
		return &t, nil
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return &t, nil
	}
	return nil, apperrors.NewValidationError(fmt.Sprintf("%s must be an RFC 3339 timestamp or a YYYY-MM-DD date", name))
}

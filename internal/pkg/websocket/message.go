package websocket

import (
	"strconv"
	"time"

	"github.com/yigit/eventhub/internal/app/models"
)

// Live message types
const (
	TypeAudit      = "audit"
	TypeModeration = "moderation"
)

// LiveMessage is the JSON frame pushed to admin live feed clients
type LiveMessage struct {
	Type       string    `json:"type"`
	Action     string    `json:"action"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityId,omitempty"`
	ActorEmail string    `json:"actorEmail,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewAuditMessage builds a live message for a recorded audit entry
func NewAuditMessage(entry *models.AuditLog) LiveMessage {
	msg := LiveMessage{
		Type:       TypeAudit,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		ActorEmail: entry.ActorEmail,
		Timestamp:  entry.CreatedAt,
	}
	if entry.EntityID != nil {
		msg.EntityID = *entry.EntityID
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	return msg
}

// NewModerationMessage builds a live message for a moderation decision
func NewModerationMessage(entry *models.ModerationLog, actorEmail string) LiveMessage {
	ts := entry.CreatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return LiveMessage{
		Type:       TypeModeration,
		Action:     string(entry.Action),
		EntityType: "event",
		EntityID:   strconv.FormatInt(entry.EventID, 10),
		ActorEmail: actorEmail,
		Timestamp:  ts,
	}
}

package models

import "time"

// ModerationLog is an append-only record of an admin review action on an event
type ModerationLog struct {
	ID          int64            `json:"id" db:"id"`
	EventID     int64            `json:"eventId" db:"event_id"`
	ModeratorID int64            `json:"moderatorId" db:"moderator_id"`
	Action      ModerationAction `json:"action" db:"action"`
	FromStatus  EventStatus      `json:"fromStatus" db:"from_status"`
	ToStatus    EventStatus      `json:"toStatus" db:"to_status"`
	Reason      *string          `json:"reason,omitempty" db:"reason"`
	CreatedAt   time.Time        `json:"createdAt" db:"created_at"`

	ModeratorEmail string `json:"moderatorEmail,omitempty" db:"-"`
}

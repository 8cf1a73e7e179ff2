package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/yigit/eventhub/internal/pkg/apperrors"
)

// EventType classifies an event
type EventType string

const (
	EventTypeEvent     EventType = "EVENT"
	EventTypeHackathon EventType = "HACKATHON"
	EventTypeWorkshop  EventType = "WORKSHOP"
)

// IsValid reports whether t is a known event type
func (t EventType) IsValid() bool {
	switch t {
	case EventTypeEvent, EventTypeHackathon, EventTypeWorkshop:
		return true
	}
	return false
}

// EventMode says where an event takes place
type EventMode string

const (
	EventModeOnline  EventMode = "ONLINE"
	EventModeOffline EventMode = "OFFLINE"
	EventModeHybrid  EventMode = "HYBRID"
)

// IsValid reports whether m is a known event mode
func (m EventMode) IsValid() bool {
	switch m {
	case EventModeOnline, EventModeOffline, EventModeHybrid:
		return true
	}
	return false
}

// EventStatus is the moderation state of an event
type EventStatus string

const (
	EventPending          EventStatus = "PENDING"
	EventApproved         EventStatus = "APPROVED"
	EventRejected         EventStatus = "REJECTED"
	EventChangesRequested EventStatus = "CHANGES_REQUESTED"
	EventCancelled        EventStatus = "CANCELLED"
)

// IsValid reports whether s is a known event status
func (s EventStatus) IsValid() bool {
	switch s {
	case EventPending, EventApproved, EventRejected, EventChangesRequested, EventCancelled:
		return true
	}
	return false
}

// ModerationAction is an admin review action on an event
type ModerationAction string

const (
	ModerationApprove        ModerationAction = "APPROVE"
	ModerationReject         ModerationAction = "REJECT"
	ModerationRequestChanges ModerationAction = "REQUEST_CHANGES"
)

// IsValid reports whether a is a known moderation action
func (a ModerationAction) IsValid() bool {
	switch a {
	case ModerationApprove, ModerationReject, ModerationRequestChanges:
		return true
	}
	return false
}

// RequiresReason reports whether the action must carry a reason
func (a ModerationAction) RequiresReason() bool {
	return a == ModerationReject || a == ModerationRequestChanges
}

var moderationTargets = map[ModerationAction]EventStatus{
	ModerationApprove:        EventApproved,
	ModerationReject:         EventRejected,
	ModerationRequestChanges: EventChangesRequested,
}

var moderationAllowed = map[EventStatus][]ModerationAction{
	EventPending:          {ModerationApprove, ModerationReject, ModerationRequestChanges},
	EventChangesRequested: {ModerationApprove, ModerationReject},
	EventApproved:         {ModerationReject, ModerationRequestChanges},
	EventRejected:         {ModerationApprove},
}

// NextEventStatus returns the status an event moves to when action is applied to current.
func NextEventStatus(current EventStatus, action ModerationAction) (EventStatus, error) {
	for _, allowed := range moderationAllowed[current] {
		if allowed == action {
			return moderationTargets[action], nil
		}
	}
	return "", apperrors.NewCustomError(apperrors.ErrInvalidStatusTransition,
		fmt.Sprintf("cannot %s an event in status %s", strings.ToLower(strings.ReplaceAll(string(action), "_", " ")), current))
}

// StatusAfterOwnerEdit returns the status an event takes when its owner edits it.
// Reviewed events go back to the moderation queue; cancelled events are frozen.
func StatusAfterOwnerEdit(current EventStatus) (EventStatus, error) {
	switch current {
	case EventCancelled:
		return "", apperrors.NewConflictError("cancelled events cannot be edited")
	case EventApproved, EventRejected, EventChangesRequested:
		return EventPending, nil
	default:
		return current, nil
	}
}

// Event represents an event, hackathon or workshop hosted by a company
type Event struct {
	ID                   int64       `json:"id" db:"id"`
	CompanyID            int64       `json:"companyId" db:"company_id"`
	CreatedBy            int64       `json:"createdBy" db:"created_by"`
	Title                string      `json:"title" db:"title"`
	Description          string      `json:"description" db:"description"`
	Type                 EventType   `json:"type" db:"type"`
	Mode                 EventMode   `json:"mode" db:"mode"`
	Location             string      `json:"location" db:"location"`
	StartAt              time.Time   `json:"startAt" db:"start_at"`
	EndAt                time.Time   `json:"endAt" db:"end_at"`
	RegistrationDeadline *time.Time  `json:"registrationDeadline,omitempty" db:"registration_deadline"`
	Capacity             *int        `json:"capacity,omitempty" db:"capacity"`
	BannerFileID         *int64      `json:"bannerFileId,omitempty" db:"banner_file_id"`
	Status               EventStatus `json:"status" db:"status"`
	Tags                 []string    `json:"tags" db:"tags"`
	PrizePool            *string     `json:"prizePool,omitempty" db:"prize_pool"`
	MaxTeamSize          *int        `json:"maxTeamSize,omitempty" db:"max_team_size"`
	CreatedAt            time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time   `json:"updatedAt" db:"updated_at"`

	// Populated by list queries
	CompanyName string `json:"companyName,omitempty" db:"-"`
}

// Validate checks the schedule and shape rules of an event
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return apperrors.NewValidationError("title is required")
	}
	if !e.Type.IsValid() {
		return apperrors.NewValidationError("type must be one of EVENT, HACKATHON, WORKSHOP")
	}
	if !e.Mode.IsValid() {
		return apperrors.NewValidationError("mode must be one of ONLINE, OFFLINE, HYBRID")
	}
	if !e.EndAt.After(e.StartAt) {
		return apperrors.NewValidationError("endAt must be after startAt")
	}
	if e.RegistrationDeadline != nil && e.RegistrationDeadline.After(e.StartAt) {
		return apperrors.NewValidationError("registrationDeadline must not be after startAt")
	}
	if e.Capacity != nil && *e.Capacity < 1 {
		return apperrors.NewValidationError("capacity must be at least 1")
	}
	if e.MaxTeamSize != nil {
		if e.Type != EventTypeHackathon {
			return apperrors.NewValidationError("maxTeamSize is only allowed for hackathons")
		}
		if *e.MaxTeamSize < 1 {
			return apperrors.NewValidationError("maxTeamSize must be at least 1")
		}
	}
	if e.Mode != EventModeOnline && strings.TrimSpace(e.Location) == "" {
		return apperrors.NewValidationError("location is required for offline and hybrid events")
	}
	return nil
}

// RegistrationClosesAt is the deadline when set, otherwise the start time
func (e *Event) RegistrationClosesAt() time.Time {
	if e.RegistrationDeadline != nil {
		return *e.RegistrationDeadline
	}
	return e.StartAt
}

// IsRegistrationOpen reports whether attendees may register at now
func (e *Event) IsRegistrationOpen(now time.Time) bool {
	return e.Status == EventApproved && now.Before(e.RegistrationClosesAt())
}

// IsFull reports whether taken seats reach the capacity. Events without capacity never fill up.
func (e *Event) IsFull(taken int) bool {
	return e.Capacity != nil && taken >= *e.Capacity
}

// EventFilter narrows event listings
type EventFilter struct {
	Type      *EventType
	Mode      *EventMode
	CompanyID *int64
	Statuses  []EventStatus
	Search    string
	Tag       string
	Upcoming  bool
	Now       time.Time
	Page      int
	Size      int
}

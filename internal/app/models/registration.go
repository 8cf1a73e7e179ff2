package models

import "time"

// RegistrationStatus is the state of an attendee's registration
type RegistrationStatus string

const (
	RegistrationRegistered RegistrationStatus = "REGISTERED"
	RegistrationCancelled  RegistrationStatus = "CANCELLED"
	RegistrationAttended   RegistrationStatus = "ATTENDED"
)

// IsValid reports whether s is a known registration status
func (s RegistrationStatus) IsValid() bool {
	switch s {
	case RegistrationRegistered, RegistrationCancelled, RegistrationAttended:
		return true
	}
	return false
}

// Registration links a user to an event
type Registration struct {
	ID        int64              `json:"id" db:"id"`
	EventID   int64              `json:"eventId" db:"event_id"`
	UserID    int64              `json:"userId" db:"user_id"`
	Status    RegistrationStatus `json:"status" db:"status"`
	TeamName  *string            `json:"teamName,omitempty" db:"team_name"`
	Notes     *string            `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time          `json:"updatedAt" db:"updated_at"`
}

// RegistrationWithEvent is a registration joined with its event for "my registrations"
type RegistrationWithEvent struct {
	Registration
	EventTitle   string      `json:"eventTitle"`
	EventStartAt time.Time   `json:"eventStartAt"`
	EventStatus  EventStatus `json:"eventStatus"`
}

// RegistrationWithUser is a registration joined with the attendee for organizer views
type RegistrationWithUser struct {
	Registration
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// RegistrationFilter narrows the attendee list of an event
type RegistrationFilter struct {
	Status *RegistrationStatus
	Search string
	Page   int
	Size   int
}

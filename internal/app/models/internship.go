package models

import "time"

// InternshipStatus is whether an internship accepts applications
type InternshipStatus string

const (
	InternshipOpen   InternshipStatus = "OPEN"
	InternshipClosed InternshipStatus = "CLOSED"
)

// Internship is a position posted by a verified company
type Internship struct {
	ID            int64            `json:"id" db:"id"`
	CompanyID     int64            `json:"companyId" db:"company_id"`
	Title         string           `json:"title" db:"title"`
	Description   string           `json:"description" db:"description"`
	Location      string           `json:"location" db:"location"`
	Remote        bool             `json:"remote" db:"remote"`
	Stipend       *string          `json:"stipend,omitempty" db:"stipend"`
	DurationWeeks *int             `json:"durationWeeks,omitempty" db:"duration_weeks"`
	ApplyURL      string           `json:"applyUrl" db:"apply_url"`
	Deadline      *time.Time       `json:"deadline,omitempty" db:"deadline"`
	Status        InternshipStatus `json:"status" db:"status"`
	CreatedAt     time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time        `json:"updatedAt" db:"updated_at"`

	CompanyName string `json:"companyName,omitempty" db:"-"`
}

// InternshipFilter narrows internship listings
type InternshipFilter struct {
	CompanyID *int64
	Remote    *bool
	Search    string
	// PublicOnly restricts to OPEN internships of verified companies whose deadline has not passed
	PublicOnly bool
	Now        time.Time
	Page       int
	Size       int
}

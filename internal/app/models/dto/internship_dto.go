package dto

import (
	"strings"
	"time"

	"github.com/yigit/eventhub/internal/app/models"
)

// InternshipRequest is the body of internship create and update calls
type InternshipRequest struct {
	Title         string     `json:"title" binding:"required,max=200"`
	Description   string     `json:"description" binding:"max=10000"`
	Location      string     `json:"location" binding:"max=200"`
	Remote        bool       `json:"remote"`
	Stipend       *string    `json:"stipend" binding:"omitempty,max=100"`
	DurationWeeks *int       `json:"durationWeeks" binding:"omitempty,min=1,max=104"`
	ApplyURL      string     `json:"applyUrl" binding:"required,max=500,weburl"`
	Deadline      *time.Time `json:"deadline"`
}

// Apply copies the request fields onto an internship
func (r InternshipRequest) Apply(i *models.Internship) {
	i.Title = strings.TrimSpace(r.Title)
	i.Description = r.Description
	i.Location = strings.TrimSpace(r.Location)
	i.Remote = r.Remote
	i.Stipend = r.Stipend
	i.DurationWeeks = r.DurationWeeks
	i.ApplyURL = strings.TrimSpace(r.ApplyURL)
	i.Deadline = nil
	if r.Deadline != nil {
		d := r.Deadline.UTC()
		i.Deadline = &d
	}
}

// InternshipFilterRequest holds internship list query parameters
type InternshipFilterRequest struct {
	CompanyID *int64 `form:"companyId" binding:"omitempty,min=1"`
	Remote    *bool  `form:"remote"`
	Search    string `form:"search" binding:"max=100"`
}

// ToFilter converts query parameters into a repository filter
func (r InternshipFilterRequest) ToFilter(page, size int) models.InternshipFilter {
	return models.InternshipFilter{
		CompanyID: r.CompanyID,
		Remote:    r.Remote,
		Search:    r.Search,
		Page:      page,
		Size:      size,
	}
}

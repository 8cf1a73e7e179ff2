package dto

import "github.com/yigit/eventhub/internal/app/models"

// RegisterForEventRequest is the optional body of an event registration
type RegisterForEventRequest struct {
	TeamName *string `json:"teamName" binding:"omitempty,max=100"`
	Notes    *string `json:"notes" binding:"omitempty,max=1000"`
}

// RegistrationFilterRequest holds attendee list query parameters
type RegistrationFilterRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=REGISTERED CANCELLED ATTENDED"`
	Search string `form:"search" binding:"max=100"`
}

// ToFilter converts query parameters into a repository filter
func (r RegistrationFilterRequest) ToFilter(page, size int) models.RegistrationFilter {
	filter := models.RegistrationFilter{Search: r.Search, Page: page, Size: size}
	if r.Status != "" {
		status := models.RegistrationStatus(r.Status)
		filter.Status = &status
	}
	return filter
}

package dto

import (
	"strings"
	"time"

	"github.com/yigit/eventhub/internal/app/models"
)

// EventRequest is the body of event create and update calls
type EventRequest struct {
	Title                string     `json:"title" binding:"required,max=200"`
	Description          string     `json:"description" binding:"max=10000"`
	Type                 string     `json:"type" binding:"required,oneof=EVENT HACKATHON WORKSHOP"`
	Mode                 string     `json:"mode" binding:"required,oneof=ONLINE OFFLINE HYBRID"`
	Location             string     `json:"location" binding:"max=300"`
	StartAt              time.Time  `json:"startAt" binding:"required"`
	EndAt                time.Time  `json:"endAt" binding:"required"`
	RegistrationDeadline *time.Time `json:"registrationDeadline"`
	Capacity             *int       `json:"capacity"`
	Tags                 []string   `json:"tags" binding:"max=10,dive,max=40"`
	PrizePool            *string    `json:"prizePool" binding:"omitempty,max=200"`
	MaxTeamSize          *int       `json:"maxTeamSize"`
}

// Apply copies the request fields onto an event, normalizing tags
func (r EventRequest) Apply(e *models.Event) {
	e.Title = strings.TrimSpace(r.Title)
	e.Description = r.Description
	e.Type = models.EventType(r.Type)
	e.Mode = models.EventMode(r.Mode)
	e.Location = strings.TrimSpace(r.Location)
	e.StartAt = r.StartAt.UTC()
	e.EndAt = r.EndAt.UTC()
	e.RegistrationDeadline = nil
	if r.RegistrationDeadline != nil {
		d := r.RegistrationDeadline.UTC()
		e.RegistrationDeadline = &d
	}
	e.Capacity = r.Capacity
	e.PrizePool = r.PrizePool
	e.MaxTeamSize = r.MaxTeamSize
	e.Tags = normalizeTags(r.Tags)
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// EventFilterRequest holds event list query parameters
type EventFilterRequest struct {
	Type      string `form:"type" binding:"omitempty,oneof=EVENT HACKATHON WORKSHOP"`
	Mode      string `form:"mode" binding:"omitempty,oneof=ONLINE OFFLINE HYBRID"`
	CompanyID *int64 `form:"companyId" binding:"omitempty,min=1"`
	Status    string `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED CHANGES_REQUESTED CANCELLED"`
	Search    string `form:"search" binding:"max=100"`
	Tag       string `form:"tag" binding:"max=40"`
	Upcoming  bool   `form:"upcoming"`
}

// ToFilter converts query parameters into a repository filter. Status visibility is decided by the service.
func (r EventFilterRequest) ToFilter(page, size int) models.EventFilter {
	filter := models.EventFilter{
		CompanyID: r.CompanyID,
		Search:    r.Search,
		Tag:       strings.ToLower(strings.TrimSpace(r.Tag)),
		Upcoming:  r.Upcoming,
		Page:      page,
		Size:      size,
	}
	if r.Type != "" {
		t := models.EventType(r.Type)
		filter.Type = &t
	}
	if r.Mode != "" {
		m := models.EventMode(r.Mode)
		filter.Mode = &m
	}
	if r.Status != "" {
		filter.Statuses = []models.EventStatus{models.EventStatus(r.Status)}
	}
	return filter
}

// ModerateEventRequest carries an admin moderation action
type ModerateEventRequest struct {
	Action models.ModerationAction `json:"action" binding:"required,oneof=APPROVE REJECT REQUEST_CHANGES"`
	Reason string                  `json:"reason" binding:"max=2000"`
}

// EventResponse is an event with its banner URL resolved
type EventResponse struct {
	*models.Event
	BannerURL string `json:"bannerUrl,omitempty"`
}

// ModerationResult is returned after a moderation action
type ModerationResult struct {
	Event *models.Event         `json:"event"`
	Log   *models.ModerationLog `json:"log"`
}

package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
)

func intPtr(v int) *int { return &v }

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Acme Corp":            "acme-corp",
		"  Hello,  World!  ":   "hello-world",
		"Ünicode Çompany 2025": "nicode-ompany-2025",
		"---":                  "",
		"Already-slugged-name": "already-slugged-name",
		"Tabs\tand\nnewlines":  "tabs-and-newlines",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}

func TestNextCompanyStatus(t *testing.T) {
	tests := []struct {
		from     CompanyStatus
		decision ReviewDecision
		want     CompanyStatus
		ok       bool
	}{
		{CompanyPending, ReviewApprove, CompanyVerified, true},
		{CompanyPending, ReviewReject, CompanyRejected, true},
		{CompanyRejected, ReviewApprove, CompanyVerified, true},
		{CompanyVerified, ReviewSuspend, CompanySuspended, true},
		{CompanySuspended, ReviewReinstate, CompanyVerified, true},
		{CompanyPending, ReviewSuspend, "", false},
		{CompanyVerified, ReviewApprove, "", false},
		{CompanyRejected, ReviewReject, "", false},
		{CompanySuspended, ReviewApprove, "", false},
	}

	for _, tt := range tests {
		got, err := NextCompanyStatus(tt.from, tt.decision)
		if tt.ok {
			require.NoError(t, err, "%s + %s", tt.from, tt.decision)
			assert.Equal(t, tt.want, got)
			continue
		}
		assert.True(t, errors.Is(err, apperrors.ErrInvalidStatusTransition), "%s + %s", tt.from, tt.decision)
	}
}

func TestNextEventStatus(t *testing.T) {
	allActions := []ModerationAction{ModerationApprove, ModerationReject, ModerationRequestChanges}
	allowed := map[EventStatus][]ModerationAction{
		EventPending:          allActions,
		EventChangesRequested: {ModerationApprove, ModerationReject},
		EventApproved:         {ModerationReject, ModerationRequestChanges},
		EventRejected:         {ModerationApprove},
		EventCancelled:        nil,
	}

	for from, actions := range allowed {
		for _, action := range allActions {
			got, err := NextEventStatus(from, action)
			if containsAction(actions, action) {
				require.NoError(t, err, "%s + %s", from, action)
				assert.Equal(t, moderationTargets[action], got)
			} else {
				assert.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition, "%s + %s", from, action)
			}
		}
	}
}

func containsAction(list []ModerationAction, a ModerationAction) bool {
	for _, v := range list {
		if v == a {
			return true
		}
	}
	return false
}

func TestStatusAfterOwnerEdit(t *testing.T) {
	for _, s := range []EventStatus{EventApproved, EventRejected, EventChangesRequested} {
		got, err := StatusAfterOwnerEdit(s)
		require.NoError(t, err)
		assert.Equal(t, EventPending, got)
	}

	got, err := StatusAfterOwnerEdit(EventPending)
	require.NoError(t, err)
	assert.Equal(t, EventPending, got)

	_, err = StatusAfterOwnerEdit(EventCancelled)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func validEvent() *Event {
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	return &Event{
		Title:    "Spring Hack",
		Type:     EventTypeHackathon,
		Mode:     EventModeOffline,
		StartAt:  start,
		EndAt:    start.Add(48 * time.Hour),
		Location: "Istanbul",
	}
}

func TestEventValidate(t *testing.T) {
	require.NoError(t, validEvent().Validate())

	tests := []struct {
		name   string
		mutate func(e *Event)
	}{
		{"end before start", func(e *Event) { e.EndAt = e.StartAt.Add(-time.Hour) }},
		{"end equals start", func(e *Event) { e.EndAt = e.StartAt }},
		{"deadline after start", func(e *Event) { d := e.StartAt.Add(time.Minute); e.RegistrationDeadline = &d }},
		{"zero capacity", func(e *Event) { e.Capacity = intPtr(0) }},
		{"team size for workshop", func(e *Event) { e.Type = EventTypeWorkshop; e.MaxTeamSize = intPtr(4) }},
		{"zero team size", func(e *Event) { e.MaxTeamSize = intPtr(0) }},
		{"offline without location", func(e *Event) { e.Location = " " }},
		{"hybrid without location", func(e *Event) { e.Mode = EventModeHybrid; e.Location = "" }},
		{"unknown type", func(e *Event) { e.Type = "MEETUP" }},
		{"blank title", func(e *Event) { e.Title = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEvent()
			tt.mutate(e)
			assert.ErrorIs(t, e.Validate(), apperrors.ErrValidationFailed)
		})
	}

	online := validEvent()
	online.Mode = EventModeOnline
	online.Location = ""
	deadline := online.StartAt
	online.RegistrationDeadline = &deadline
	online.Capacity = intPtr(1)
	online.MaxTeamSize = intPtr(5)
	assert.NoError(t, online.Validate())
}

func TestEventRegistrationWindow(t *testing.T) {
	e := validEvent()
	e.Status = EventApproved

	assert.True(t, e.IsRegistrationOpen(e.StartAt.Add(-time.Second)))
	assert.False(t, e.IsRegistrationOpen(e.StartAt))

	deadline := e.StartAt.Add(-24 * time.Hour)
	e.RegistrationDeadline = &deadline
	assert.False(t, e.IsRegistrationOpen(deadline.Add(time.Second)))
	assert.True(t, e.IsRegistrationOpen(deadline.Add(-time.Second)))

	e.Status = EventPending
	assert.False(t, e.IsRegistrationOpen(deadline.Add(-time.Hour)))
}

func TestEventIsFull(t *testing.T) {
	e := validEvent()
	assert.False(t, e.IsFull(1000))

	e.Capacity = intPtr(2)
	assert.False(t, e.IsFull(1))
	assert.True(t, e.IsFull(2))
}

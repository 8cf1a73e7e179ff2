package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/app/models/dto"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
	"github.com/yigit/eventhub/internal/pkg/websocket"
)

type moderationFixture struct {
	events  *mockEventStore
	logs    *mockModerationLogStore
	audit   *recordingAudit
	hub     *recordingHub
	tx      *fakeTx
	service ModerationService
}

func newModerationFixture() *moderationFixture {
	f := &moderationFixture{
		events: new(mockEventStore),
		logs:   new(mockModerationLogStore),
		audit:  &recordingAudit{},
		hub:    &recordingHub{},
		tx:     &fakeTx{},
	}
	f.service = NewModerationService(f.events, new(mockCompanyStore), f.logs, f.audit, f.hub, f.tx, zerolog.Nop())
	return f
}

var adminActor = models.Actor{ID: 1, Email: "admin@example.com", Role: models.RoleAdmin}

func TestModerate_Approve(t *testing.T) {
	f := newModerationFixture()
	pending := &models.Event{ID: 7, CompanyID: 3, Status: models.EventPending}
	f.events.On("LockByID", mock.Anything, mock.Anything, int64(7)).Return(pending, nil)
	f.events.On("UpdateStatus", mock.Anything, mock.Anything, int64(7), models.EventApproved).Return(nil)
	f.logs.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(l *models.ModerationLog) bool {
		return l.FromStatus == models.EventPending && l.ToStatus == models.EventApproved && l.Reason == nil
	})).Return(nil)

	res, err := f.service.Moderate(context.Background(), adminActor, 7, &dto.ModerateEventRequest{Action: models.ModerationApprove})

	require.NoError(t, err)
	assert.Equal(t, models.EventApproved, res.Event.Status)
	assert.Equal(t, "admin@example.com", res.Log.ModeratorEmail)
	assert.Equal(t, []string{models.AuditEventModerate}, f.audit.actions)
	require.Len(t, f.hub.messages, 1)
	assert.Equal(t, websocket.TypeModeration, f.hub.messages[0].Type)
	assert.Equal(t, "7", f.hub.messages[0].EntityID)
	f.events.AssertExpectations(t)
	f.logs.AssertExpectations(t)
}

func TestModerate_RejectRequiresReason(t *testing.T) {
	f := newModerationFixture()

	_, err := f.service.Moderate(context.Background(), adminActor, 7, &dto.ModerateEventRequest{Action: models.ModerationReject, Reason: "   "})

	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Zero(t, f.tx.calls)
}

func TestModerate_InvalidTransitionLeavesNoTrace(t *testing.T) {
	f := newModerationFixture()
	rejected := &models.Event{ID: 7, Status: models.EventRejected}
	f.events.On("LockByID", mock.Anything, mock.Anything, int64(7)).Return(rejected, nil)

	_, err := f.service.Moderate(context.Background(), adminActor, 7, &dto.ModerateEventRequest{Action: models.ModerationReject, Reason: "spam"})

	assert.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition)
	f.events.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.logs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.audit.actions)
	assert.Empty(t, f.hub.messages)
}

func TestModerate_NonAdminForbidden(t *testing.T) {
	f := newModerationFixture()
	owner := models.Actor{ID: 5, Role: models.RoleCompany}

	_, err := f.service.Moderate(context.Background(), owner, 7, &dto.ModerateEventRequest{Action: models.ModerationApprove})

	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestListQueue_AdminOnly(t *testing.T) {
	f := newModerationFixture()
	f.events.On("ListQueue", mock.Anything, 1, 20).Return([]*models.Event{{ID: 1}}, int64(1), nil)

	_, _, err := f.service.ListQueue(context.Background(), models.Actor{ID: 9, Role: models.RoleUser}, 1, 20)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	events, total, err := f.service.ListQueue(context.Background(), adminActor, 1, 20)
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, int64(1), total)
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/app/models/dto"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
)

type eventFixture struct {
	events        *mockEventStore
	companies     *mockCompanyStore
	registrations *mockRegistrationStore
	audit         *recordingAudit
	tx            *fakeTx
	service       EventService
}

func newEventFixture(t *testing.T) *eventFixture {
	fixClock(t, testNow)
	f := &eventFixture{
		events:        new(mockEventStore),
		companies:     new(mockCompanyStore),
		registrations: new(mockRegistrationStore),
		audit:         &recordingAudit{},
		tx:            &fakeTx{},
	}
	f.service = NewEventService(f.events, f.companies, f.registrations, nil, f.audit, f.tx, zerolog.Nop())
	return f
}

var ownerActor = models.Actor{ID: 5, Email: "owner@acme.io", Role: models.RoleCompany}

func eventRequest(capacity *int) *dto.EventRequest {
	return &dto.EventRequest{
		Title:    "Go Meetup",
		Type:     string(models.EventTypeEvent),
		Mode:     string(models.EventModeOnline),
		StartAt:  testNow.Add(48 * time.Hour),
		EndAt:    testNow.Add(50 * time.Hour),
		Capacity: capacity,
		Tags:     []string{" Go ", "go", "Backend"},
	}
}

func TestCreateEvent_RequiresVerifiedCompany(t *testing.T) {
	f := newEventFixture(t)
	f.companies.On("GetByOwnerID", mock.Anything, int64(5)).
		Return(&models.Company{ID: 3, OwnerID: 5, VerificationStatus: models.CompanyPending}, nil)

	_, err := f.service.Create(context.Background(), ownerActor, eventRequest(nil))

	assert.ErrorIs(t, err, apperrors.ErrCompanyNotVerified)
	f.events.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateEvent_SubmitsPending(t *testing.T) {
	f := newEventFixture(t)
	f.companies.On("GetByOwnerID", mock.Anything, int64(5)).
		Return(&models.Company{ID: 3, OwnerID: 5, Name: "Acme", VerificationStatus: models.CompanyVerified}, nil)
	f.events.On("Create", mock.Anything, mock.MatchedBy(func(e *models.Event) bool {
		return e.Status == models.EventPending && e.CompanyID == 3 && e.CreatedBy == 5
	})).Return(nil)

	resp, err := f.service.Create(context.Background(), ownerActor, eventRequest(nil))

	require.NoError(t, err)
	assert.Equal(t, "Acme", resp.Event.CompanyName)
	assert.Equal(t, []string{"go", "backend"}, resp.Event.Tags)
}

func TestGetEvent_PendingHiddenFromPublic(t *testing.T) {
	f := newEventFixture(t)
	f.events.On("GetByID", mock.Anything, int64(7)).Return(&models.Event{ID: 7, CompanyID: 3, Status: models.EventPending}, nil)

	_, err := f.service.Get(context.Background(), models.Actor{}, 7)

	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
}

func TestUpdateEvent_OwnerEditSendsBackToModeration(t *testing.T) {
	f := newEventFixture(t)
	approved := approvedEvent(nil)
	locked := approvedEvent(nil)
	f.events.On("GetByID", mock.Anything, int64(7)).Return(approved, nil)
	f.companies.On("GetByID", mock.Anything, int64(3)).Return(&models.Company{ID: 3, OwnerID: 5}, nil)
	f.events.On("LockByID", mock.Anything, mock.Anything, int64(7)).Return(locked, nil)
	f.registrations.On("CountTaken", mock.Anything, mock.Anything, int64(7)).Return(4, nil)
	f.events.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	resp, err := f.service.Update(context.Background(), ownerActor, 7, eventRequest(intPtr(20)))

	require.NoError(t, err)
	assert.Equal(t, models.EventPending, resp.Event.Status)
}

func TestUpdateEvent_AdminEditKeepsStatus(t *testing.T) {
	f := newEventFixture(t)
	f.events.On("GetByID", mock.Anything, int64(7)).Return(approvedEvent(nil), nil)
	f.events.On("LockByID", mock.Anything, mock.Anything, int64(7)).Return(approvedEvent(nil), nil)
	f.events.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	resp, err := f.service.Update(context.Background(), adminActor, 7, eventRequest(nil))

	require.NoError(t, err)
	assert.Equal(t, models.EventApproved, resp.Event.Status)
	f.registrations.AssertNotCalled(t, "CountTaken", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateEvent_CapacityBelowTakenSeats(t *testing.T) {
	f := newEventFixture(t)
	f.events.On("GetByID", mock.Anything, int64(7)).Return(approvedEvent(nil), nil)
	f.events.On("LockByID", mock.Anything, mock.Anything, int64(7)).Return(approvedEvent(nil), nil)
	f.registrations.On("CountTaken", mock.Anything, mock.Anything, int64(7)).Return(12, nil)

	_, err := f.service.Update(context.Background(), adminActor, 7, eventRequest(intPtr(10)))

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	f.events.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelEvent(t *testing.T) {
	f := newEventFixture(t)
	f.events.On("GetByID", mock.Anything, int64(7)).Return(approvedEvent(nil), nil)
	f.events.On("LockByID", mock.Anything, mock.Anything, int64(7)).Return(approvedEvent(nil), nil)
	f.events.On("UpdateStatus", mock.Anything, mock.Anything, int64(7), models.EventCancelled).Return(nil)

	resp, err := f.service.Cancel(context.Background(), adminActor, 7)

	require.NoError(t, err)
	assert.Equal(t, models.EventCancelled, resp.Event.Status)
	assert.Equal(t, []string{models.AuditEventCancel}, f.audit.actions)
}

func TestCancelEvent_AlreadyCancelled(t *testing.T) {
	f := newEventFixture(t)
	cancelled := approvedEvent(nil)
	cancelled.Status = models.EventCancelled
	f.events.On("GetByID", mock.Anything, int64(7)).Return(cancelled, nil)
	f.events.On("LockByID", mock.Anything, mock.Anything, int64(7)).Return(cancelled, nil)

	_, err := f.service.Cancel(context.Background(), adminActor, 7)

	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

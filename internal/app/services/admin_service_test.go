package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
)

type adminFixture struct {
	users         *mockUserStore
	tokens        *mockTokenStore
	companies     *mockCompanyStore
	events        *mockEventStore
	registrations *mockRegistrationStore
	audit         *recordingAudit
	service       AdminService
}

func newAdminFixture(t *testing.T) *adminFixture {
	fixClock(t, testNow)
	f := &adminFixture{
		users:         new(mockUserStore),
		tokens:        new(mockTokenStore),
		companies:     new(mockCompanyStore),
		events:        new(mockEventStore),
		registrations: new(mockRegistrationStore),
		audit:         &recordingAudit{},
	}
	f.service = NewAdminService(f.users, f.tokens, f.companies, f.events, f.registrations, f.audit, zerolog.Nop())
	return f
}

func TestDashboard(t *testing.T) {
	f := newAdminFixture(t)
	f.users.On("CountByRole", mock.Anything).Return(map[string]int64{"USER": 10, "COMPANY": 2, "ADMIN": 1}, nil)
	f.companies.On("CountByStatus", mock.Anything).Return(map[string]int64{"VERIFIED": 2}, nil)
	f.events.On("CountByStatus", mock.Anything).Return(map[string]int64{"APPROVED": 4, "PENDING": 1}, nil)
	f.registrations.On("CountAll", mock.Anything, time.Time{}).Return(int64(30), nil)
	f.registrations.On("CountAll", mock.Anything, testNow.Add(-7*24*time.Hour)).Return(int64(6), nil)
	f.events.On("CountUpcomingApproved", mock.Anything, testNow).Return(int64(3), nil)
	f.events.On("CountPending", mock.Anything).Return(int64(1), nil)

	stats, err := f.service.Dashboard(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.UsersByRole["USER"])
	assert.Equal(t, int64(2), stats.CompaniesByStatus["VERIFIED"])
	assert.Equal(t, int64(4), stats.EventsByStatus["APPROVED"])
	assert.Equal(t, int64(30), stats.RegistrationsTotal)
	assert.Equal(t, int64(6), stats.RegistrationsLast7Days)
	assert.Equal(t, int64(3), stats.UpcomingApprovedEvents)
	assert.Equal(t, int64(1), stats.PendingModeration)
}

func TestDashboard_PropagatesFailure(t *testing.T) {
	f := newAdminFixture(t)
	boom := errors.New("db down")
	f.users.On("CountByRole", mock.Anything).Return(nil, boom)
	f.companies.On("CountByStatus", mock.Anything).Return(map[string]int64{}, nil).Maybe()
	f.events.On("CountByStatus", mock.Anything).Return(map[string]int64{}, nil).Maybe()
	f.registrations.On("CountAll", mock.Anything, mock.Anything).Return(int64(0), nil).Maybe()
	f.events.On("CountUpcomingApproved", mock.Anything, mock.Anything).Return(int64(0), nil).Maybe()
	f.events.On("CountPending", mock.Anything).Return(int64(0), nil).Maybe()

	_, err := f.service.Dashboard(context.Background())

	assert.ErrorIs(t, err, boom)
}

func TestSetUserStatus_DeactivateRevokesTokens(t *testing.T) {
	f := newAdminFixture(t)
	f.users.On("GetByID", mock.Anything, int64(42)).Return(&models.User{ID: 42, Email: "ada@example.com", IsActive: true}, nil)
	f.users.On("SetActive", mock.Anything, int64(42), false).Return(nil)
	f.tokens.On("RevokeAllUserTokens", mock.Anything, int64(42)).Return(nil)

	user, err := f.service.SetUserStatus(context.Background(), adminActor, 42, false)

	require.NoError(t, err)
	assert.False(t, user.IsActive)
	assert.Equal(t, []string{models.AuditUserStatus}, f.audit.actions)
	f.tokens.AssertExpectations(t)
}

func TestSetUserStatus_NoChange(t *testing.T) {
	f := newAdminFixture(t)
	f.users.On("GetByID", mock.Anything, int64(42)).Return(&models.User{ID: 42, IsActive: true}, nil)

	_, err := f.service.SetUserStatus(context.Background(), adminActor, 42, true)

	require.NoError(t, err)
	f.users.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.audit.actions)
}

func TestSetUserStatus_CannotDeactivateSelf(t *testing.T) {
	f := newAdminFixture(t)

	_, err := f.service.SetUserStatus(context.Background(), adminActor, adminActor.ID, false)

	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

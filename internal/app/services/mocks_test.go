package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/db"
	"github.com/yigit/eventhub/internal/pkg/llm"
	"github.com/yigit/eventhub/internal/pkg/websocket"
)

// ret returns the i-th mocked value as T, or T's zero value when it was nil
func ret[T any](args mock.Arguments, i int) T {
	v, _ := args.Get(i).(T)
	return v
}

// fakeTx runs the function without a real transaction
type fakeTx struct {
	calls int
}

func (f *fakeTx) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	f.calls++
	return fn(ctx, pgx.Tx(nil))
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	return ret[*models.User](args, 0), args.Error(1)
}
func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	return ret[*models.User](args, 0), args.Error(1)
}
func (m *mockUserStore) UpdateProfile(ctx context.Context, id int64, firstName, lastName string) error {
	return m.Called(ctx, id, firstName, lastName).Error(0)
}
func (m *mockUserStore) UpdateAvatar(ctx context.Context, id int64, fileID *int64) error {
	return m.Called(ctx, id, fileID).Error(0)
}
func (m *mockUserStore) UpdateLastLogin(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockUserStore) SetActive(ctx context.Context, id int64, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}
func (m *mockUserStore) List(ctx context.Context, filter models.UserFilter) ([]*models.User, int64, error) {
	args := m.Called(ctx, filter)
	return ret[[]*models.User](args, 0), ret[int64](args, 1), args.Error(2)
}
func (m *mockUserStore) CountByRole(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	return ret[map[string]int64](args, 0), args.Error(1)
}

type mockTokenStore struct{ mock.Mock }

func (m *mockTokenStore) CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error {
	return m.Called(ctx, token, userID, expiryDate).Error(0)
}
func (m *mockTokenStore) GetToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	args := m.Called(ctx, token)
	return ret[*models.RefreshToken](args, 0), args.Error(1)
}
func (m *mockTokenStore) RotateToken(ctx context.Context, oldToken, newToken string, expiryDate time.Time) error {
	return m.Called(ctx, oldToken, newToken, expiryDate).Error(0)
}
func (m *mockTokenStore) RevokeToken(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}
func (m *mockTokenStore) RevokeAllUserTokens(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

type mockCompanyStore struct{ mock.Mock }

func (m *mockCompanyStore) Create(ctx context.Context, c *models.Company) error {
	return m.Called(ctx, c).Error(0)
}
func (m *mockCompanyStore) GetByID(ctx context.Context, id int64) (*models.Company, error) {
	args := m.Called(ctx, id)
	return ret[*models.Company](args, 0), args.Error(1)
}
func (m *mockCompanyStore) GetByOwnerID(ctx context.Context, ownerID int64) (*models.Company, error) {
	args := m.Called(ctx, ownerID)
	return ret[*models.Company](args, 0), args.Error(1)
}
func (m *mockCompanyStore) Update(ctx context.Context, c *models.Company) error {
	return m.Called(ctx, c).Error(0)
}
func (m *mockCompanyStore) UpdateVerification(ctx context.Context, c *models.Company, from models.CompanyStatus) error {
	return m.Called(ctx, c, from).Error(0)
}
func (m *mockCompanyStore) SetLogo(ctx context.Context, id int64, fileID *int64) error {
	return m.Called(ctx, id, fileID).Error(0)
}
func (m *mockCompanyStore) SetBanner(ctx context.Context, id int64, fileID *int64) error {
	return m.Called(ctx, id, fileID).Error(0)
}
func (m *mockCompanyStore) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockCompanyStore) List(ctx context.Context, filter models.CompanyFilter) ([]*models.Company, int64, error) {
	args := m.Called(ctx, filter)
	return ret[[]*models.Company](args, 0), ret[int64](args, 1), args.Error(2)
}
func (m *mockCompanyStore) CountByStatus(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	return ret[map[string]int64](args, 0), args.Error(1)
}

type mockEventStore struct{ mock.Mock }

func (m *mockEventStore) Create(ctx context.Context, e *models.Event) error {
	return m.Called(ctx, e).Error(0)
}
func (m *mockEventStore) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	args := m.Called(ctx, id)
	return ret[*models.Event](args, 0), args.Error(1)
}
func (m *mockEventStore) LockByID(ctx context.Context, tx db.DBTX, id int64) (*models.Event, error) {
	args := m.Called(ctx, tx, id)
	return ret[*models.Event](args, 0), args.Error(1)
}
func (m *mockEventStore) Update(ctx context.Context, tx db.DBTX, e *models.Event) error {
	return m.Called(ctx, tx, e).Error(0)
}
func (m *mockEventStore) UpdateStatus(ctx context.Context, tx db.DBTX, id int64, status models.EventStatus) error {
	return m.Called(ctx, tx, id, status).Error(0)
}
func (m *mockEventStore) SetBanner(ctx context.Context, id int64, fileID *int64) error {
	return m.Called(ctx, id, fileID).Error(0)
}
func (m *mockEventStore) List(ctx context.Context, filter models.EventFilter) ([]*models.Event, int64, error) {
	args := m.Called(ctx, filter)
	return ret[[]*models.Event](args, 0), ret[int64](args, 1), args.Error(2)
}
func (m *mockEventStore) ListQueue(ctx context.Context, page, size int) ([]*models.Event, int64, error) {
	args := m.Called(ctx, page, size)
	return ret[[]*models.Event](args, 0), ret[int64](args, 1), args.Error(2)
}
func (m *mockEventStore) CountByStatus(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	return ret[map[string]int64](args, 0), args.Error(1)
}
func (m *mockEventStore) CountUpcomingApproved(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return ret[int64](args, 0), args.Error(1)
}
func (m *mockEventStore) CountPending(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return ret[int64](args, 0), args.Error(1)
}

type mockRegistrationStore struct{ mock.Mock }

func (m *mockRegistrationStore) CountTaken(ctx context.Context, tx db.DBTX, eventID int64) (int, error) {
	args := m.Called(ctx, tx, eventID)
	return ret[int](args, 0), args.Error(1)
}
func (m *mockRegistrationStore) GetByEventAndUser(ctx context.Context, tx db.DBTX, eventID, userID int64) (*models.Registration, error) {
	args := m.Called(ctx, tx, eventID, userID)
	return ret[*models.Registration](args, 0), args.Error(1)
}
func (m *mockRegistrationStore) Create(ctx context.Context, tx db.DBTX, reg *models.Registration) error {
	return m.Called(ctx, tx, reg).Error(0)
}
func (m *mockRegistrationStore) Reactivate(ctx context.Context, tx db.DBTX, reg *models.Registration) error {
	return m.Called(ctx, tx, reg).Error(0)
}
func (m *mockRegistrationStore) Cancel(ctx context.Context, eventID, userID int64) error {
	return m.Called(ctx, eventID, userID).Error(0)
}
func (m *mockRegistrationStore) MarkAttended(ctx context.Context, eventID, registrationID int64) error {
	return m.Called(ctx, eventID, registrationID).Error(0)
}
func (m *mockRegistrationStore) ListByUser(ctx context.Context, userID int64, page, size int) ([]*models.RegistrationWithEvent, int64, error) {
	args := m.Called(ctx, userID, page, size)
	return ret[[]*models.RegistrationWithEvent](args, 0), ret[int64](args, 1), args.Error(2)
}
func (m *mockRegistrationStore) ListByEvent(ctx context.Context, eventID int64, filter models.RegistrationFilter) ([]*models.RegistrationWithUser, int64, error) {
	args := m.Called(ctx, eventID, filter)
	return ret[[]*models.RegistrationWithUser](args, 0), ret[int64](args, 1), args.Error(2)
}
func (m *mockRegistrationStore) ForEachByEvent(ctx context.Context, eventID int64, fn func(*models.RegistrationWithUser) error) error {
	args := m.Called(ctx, eventID, fn)
	for _, r := range ret[[]*models.RegistrationWithUser](args, 0) {
		if err := fn(r); err != nil {
			return err
		}
	}
	return args.Error(1)
}
func (m *mockRegistrationStore) CountAll(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return ret[int64](args, 0), args.Error(1)
}

type mockModerationLogStore struct{ mock.Mock }

func (m *mockModerationLogStore) Create(ctx context.Context, tx db.DBTX, entry *models.ModerationLog) error {
	return m.Called(ctx, tx, entry).Error(0)
}
func (m *mockModerationLogStore) ListByEvent(ctx context.Context, eventID int64) ([]*models.ModerationLog, error) {
	args := m.Called(ctx, eventID)
	return ret[[]*models.ModerationLog](args, 0), args.Error(1)
}

type mockResumeStore struct{ mock.Mock }

func (m *mockResumeStore) LockOwner(ctx context.Context, tx db.DBTX, userID int64) error {
	return m.Called(ctx, tx, userID).Error(0)
}
func (m *mockResumeStore) Create(ctx context.Context, tx db.DBTX, res *models.Resume) error {
	return m.Called(ctx, tx, res).Error(0)
}
func (m *mockResumeStore) GetByID(ctx context.Context, id int64) (*models.Resume, error) {
	args := m.Called(ctx, id)
	return ret[*models.Resume](args, 0), args.Error(1)
}
func (m *mockResumeStore) ListByUser(ctx context.Context, userID int64) ([]*models.Resume, error) {
	args := m.Called(ctx, userID)
	return ret[[]*models.Resume](args, 0), args.Error(1)
}
func (m *mockResumeStore) CountByUser(ctx context.Context, tx db.DBTX, userID int64) (int, error) {
	args := m.Called(ctx, tx, userID)
	return ret[int](args, 0), args.Error(1)
}
func (m *mockResumeStore) Update(ctx context.Context, res *models.Resume) error {
	return m.Called(ctx, res).Error(0)
}
func (m *mockResumeStore) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockAuditStore struct{ mock.Mock }

func (m *mockAuditStore) Create(ctx context.Context, entry *models.AuditLog) error {
	return m.Called(ctx, entry).Error(0)
}
func (m *mockAuditStore) GetByID(ctx context.Context, id int64) (*models.AuditLog, error) {
	args := m.Called(ctx, id)
	return ret[*models.AuditLog](args, 0), args.Error(1)
}
func (m *mockAuditStore) List(ctx context.Context, filter models.AuditFilter) ([]*models.AuditLog, int64, error) {
	args := m.Called(ctx, filter)
	return ret[[]*models.AuditLog](args, 0), ret[int64](args, 1), args.Error(2)
}
func (m *mockAuditStore) ForEach(ctx context.Context, filter models.AuditFilter, limit uint64, fn func(*models.AuditLog) error) error {
	args := m.Called(ctx, filter, limit, fn)
	for _, e := range ret[[]*models.AuditLog](args, 0) {
		if err := fn(e); err != nil {
			return err
		}
	}
	return args.Error(1)
}

// recordingAudit captures Record calls
type recordingAudit struct {
	AuditService
	actions []string
}

func (r *recordingAudit) Record(_ context.Context, _ models.Actor, action, _, _ string, _ any) error {
	r.actions = append(r.actions, action)
	return nil
}

type recordingHub struct {
	messages []websocket.LiveMessage
}

func (h *recordingHub) Broadcast(msg websocket.LiveMessage) {
	h.messages = append(h.messages, msg)
}

type stubProvider struct {
	reply    string
	err      error
	received []llm.Message
	system   string
}

func (p *stubProvider) Name() string  { return "stub" }
func (p *stubProvider) Model() string { return "stub-1" }
func (p *stubProvider) Chat(_ context.Context, systemPrompt string, messages []llm.Message) (string, error) {
	p.system = systemPrompt
	p.received = messages
	return p.reply, p.err
}

// fixClock pins timeNow for the duration of a test
func fixClock(t interface{ Cleanup(func()) }, now time.Time) {
	prev := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = prev })
}

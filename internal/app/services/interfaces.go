package services

import (
	"context"
	"time"

	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/db"
	"github.com/yigit/eventhub/internal/pkg/websocket"
)

// The store interfaces below are the subsets of the repositories each service needs.

// UserStore persists accounts
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, firstName, lastName string) error
	UpdateAvatar(ctx context.Context, id int64, fileID *int64) error
	UpdateLastLogin(ctx context.Context, id int64) error
	SetActive(ctx context.Context, id int64, active bool) error
	List(ctx context.Context, filter models.UserFilter) ([]*models.User, int64, error)
	CountByRole(ctx context.Context) (map[string]int64, error)
}

// TokenStore persists refresh tokens
type TokenStore interface {
	CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error
	GetToken(ctx context.Context, token string) (*models.RefreshToken, error)
	RotateToken(ctx context.Context, oldToken, newToken string, expiryDate time.Time) error
	RevokeToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID int64) error
}

// FileStore persists file metadata
type FileStore interface {
	Create(ctx context.Context, f *models.File) error
	GetByID(ctx context.Context, id int64) (*models.File, error)
	ListByResource(ctx context.Context, resourceType models.FileResourceType, resourceID int64, kind string) ([]*models.File, error)
	ListByResourceAll(ctx context.Context, resourceType models.FileResourceType, resourceID int64) ([]*models.File, error)
	ListForCompanyEvents(ctx context.Context, companyID int64) ([]*models.File, error)
	Delete(ctx context.Context, id int64) error
}

// CompanyStore persists companies
type CompanyStore interface {
	Create(ctx context.Context, c *models.Company) error
	GetByID(ctx context.Context, id int64) (*models.Company, error)
	GetByOwnerID(ctx context.Context, ownerID int64) (*models.Company, error)
	Update(ctx context.Context, c *models.Company) error
	UpdateVerification(ctx context.Context, c *models.Company, from models.CompanyStatus) error
	SetLogo(ctx context.Context, id int64, fileID *int64) error
	SetBanner(ctx context.Context, id int64, fileID *int64) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter models.CompanyFilter) ([]*models.Company, int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// EventStore persists events
type EventStore interface {
	Create(ctx context.Context, e *models.Event) error
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	LockByID(ctx context.Context, tx db.DBTX, id int64) (*models.Event, error)
	Update(ctx context.Context, tx db.DBTX, e *models.Event) error
	UpdateStatus(ctx context.Context, tx db.DBTX, id int64, status models.EventStatus) error
	SetBanner(ctx context.Context, id int64, fileID *int64) error
	List(ctx context.Context, filter models.EventFilter) ([]*models.Event, int64, error)
	ListQueue(ctx context.Context, page, size int) ([]*models.Event, int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountUpcomingApproved(ctx context.Context, now time.Time) (int64, error)
	CountPending(ctx context.Context) (int64, error)
}

// RegistrationStore persists event registrations
type RegistrationStore interface {
	CountTaken(ctx context.Context, tx db.DBTX, eventID int64) (int, error)
	GetByEventAndUser(ctx context.Context, tx db.DBTX, eventID, userID int64) (*models.Registration, error)
	Create(ctx context.Context, tx db.DBTX, reg *models.Registration) error
	Reactivate(ctx context.Context, tx db.DBTX, reg *models.Registration) error
	Cancel(ctx context.Context, eventID, userID int64) error
	MarkAttended(ctx context.Context, eventID, registrationID int64) error
	ListByUser(ctx context.Context, userID int64, page, size int) ([]*models.RegistrationWithEvent, int64, error)
	ListByEvent(ctx context.Context, eventID int64, filter models.RegistrationFilter) ([]*models.RegistrationWithUser, int64, error)
	ForEachByEvent(ctx context.Context, eventID int64, fn func(*models.RegistrationWithUser) error) error
	CountAll(ctx context.Context, since time.Time) (int64, error)
}

// ModerationLogStore appends and reads moderation history
type ModerationLogStore interface {
	Create(ctx context.Context, tx db.DBTX, entry *models.ModerationLog) error
	ListByEvent(ctx context.Context, eventID int64) ([]*models.ModerationLog, error)
}

// InternshipStore persists internships
type InternshipStore interface {
	Create(ctx context.Context, i *models.Internship) error
	GetByID(ctx context.Context, id int64) (*models.Internship, error)
	Update(ctx context.Context, i *models.Internship) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter models.InternshipFilter) ([]*models.Internship, int64, error)
}

// ResumeStore persists resumes
type ResumeStore interface {
	LockOwner(ctx context.Context, tx db.DBTX, userID int64) error
	Create(ctx context.Context, tx db.DBTX, res *models.Resume) error
	GetByID(ctx context.Context, id int64) (*models.Resume, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Resume, error)
	CountByUser(ctx context.Context, tx db.DBTX, userID int64) (int, error)
	Update(ctx context.Context, res *models.Resume) error
	Delete(ctx context.Context, id int64) error
}

// AuditStore appends and queries audit entries
type AuditStore interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	GetByID(ctx context.Context, id int64) (*models.AuditLog, error)
	List(ctx context.Context, filter models.AuditFilter) ([]*models.AuditLog, int64, error)
	ForEach(ctx context.Context, filter models.AuditFilter, limit uint64, fn func(*models.AuditLog) error) error
}

// Broadcaster pushes messages to the admin live feed
type Broadcaster interface {
	Broadcast(msg websocket.LiveMessage)
}

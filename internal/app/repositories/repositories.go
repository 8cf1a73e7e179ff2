package repositories

import "github.com/yigit/eventhub/internal/db"

// Repositories bundles every repository built on one connection pool
type Repositories struct {
	Users         *UserRepository
	Tokens        *TokenRepository
	Files         *FileRepository
	Companies     *CompanyRepository
	Events        *EventRepository
	Registrations *RegistrationRepository
	Moderation    *ModerationLogRepository
	Internships   *InternshipRepository
	Resumes       *ResumeRepository
	AuditLogs     *AuditLogRepository
}

// NewRepositories creates all repositories
func NewRepositories(conn db.DBTX) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(conn),
		Tokens:        NewTokenRepository(conn),
		Files:         NewFileRepository(conn),
		Companies:     NewCompanyRepository(conn),
		Events:        NewEventRepository(conn),
		Registrations: NewRegistrationRepository(conn),
		Moderation:    NewModerationLogRepository(conn),
		Internships:   NewInternshipRepository(conn),
		Resumes:       NewResumeRepository(conn),
		AuditLogs:     NewAuditLogRepository(conn),
	}
}

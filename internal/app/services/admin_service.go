package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/app/models/dto"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
	"golang.org/x/sync/errgroup"
)

// AdminService serves the admin dashboard and user management
type AdminService interface {
	Dashboard(ctx context.Context) (*dto.DashboardStats, error)
	ListUsers(ctx context.Context, filter models.UserFilter) ([]*models.User, int64, error)
	SetUserStatus(ctx context.Context, actor models.Actor, userID int64, active bool) (*models.User, error)
}

type adminServiceImpl struct {
	users         UserStore
	tokens        TokenStore
	companies     CompanyStore
	events        EventStore
	registrations RegistrationStore
	audit         AuditService
	logger        zerolog.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(
	users UserStore,
	tokens TokenStore,
	companies CompanyStore,
	events EventStore,
	registrations RegistrationStore,
	audit AuditService,
	logger zerolog.Logger,
) AdminService {
	return &adminServiceImpl{
		users:         users,
		tokens:        tokens,
		companies:     companies,
		events:        events,
		registrations: registrations,
		audit:         audit,
		logger:        logger,
	}
}

// Dashboard runs the platform counters concurrently; the first failure cancels the rest
func (s *adminServiceImpl) Dashboard(ctx context.Context) (*dto.DashboardStats, error) {
	var stats dto.DashboardStats
	now := timeNow()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.UsersByRole, err = s.users.CountByRole(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.CompaniesByStatus, err = s.companies.CountByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.EventsByStatus, err = s.events.CountByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.RegistrationsTotal, err = s.registrations.CountAll(gctx, time.Time{})
		return err
	})
	g.Go(func() (err error) {
		stats.RegistrationsLast7Days, err = s.registrations.CountAll(gctx, now.Add(-7*24*time.Hour))
		return err
	})
	g.Go(func() (err error) {
		stats.UpcomingApprovedEvents, err = s.events.CountUpcomingApproved(gctx, now)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingModeration, err = s.events.CountPending(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("Failed to build dashboard")
		return nil, err
	}
	return &stats, nil
}

func (s *adminServiceImpl) ListUsers(ctx context.Context, filter models.UserFilter) ([]*models.User, int64, error) {
	return s.users.List(ctx, filter)
}

// SetUserStatus activates or deactivates an account. Deactivation revokes its refresh tokens.
func (s *adminServiceImpl) SetUserStatus(ctx context.Context, actor models.Actor, userID int64, active bool) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only admins can change account status")
	}
	if userID == actor.ID && !active {
		return nil, apperrors.NewBadRequestError("you cannot deactivate your own account")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsActive == active {
		return user, nil
	}

	if err := s.users.SetActive(ctx, userID, active); err != nil {
		return nil, err
	}
	if !active {
		if err := s.tokens.RevokeAllUserTokens(ctx, userID); err != nil {
			s.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to revoke tokens of deactivated user")
		}
	}
	user.IsActive = active

	recordBestEffort(ctx, s.audit, s.logger, actor, models.AuditUserStatus, "user", userID, map[string]any{
		"email":    user.Email,
		"isActive": active,
	})
	s.logger.Info().Int64("userID", userID).Bool("active", active).Int64("adminID", actor.ID).Msg("User status changed")
	return user, nil
}

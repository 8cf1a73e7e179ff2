package services

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/app/models/dto"
	"github.com/yigit/eventhub/internal/db"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
	"github.com/yigit/eventhub/internal/pkg/helpers"
)

// RegistrationExportHeader is the column layout of attendee CSV exports
var RegistrationExportHeader = []string{
	"registration_id", "first_name", "last_name", "email", "status", "team_name", "registered_at",
}

// RegistrationService manages attendee registrations
type RegistrationService interface {
	Register(ctx context.Context, actor models.Actor, eventID int64, req *dto.RegisterForEventRequest) (*models.Registration, error)
	Cancel(ctx context.Context, actor models.Actor, eventID int64) error
	MarkAttended(ctx context.Context, actor models.Actor, eventID, registrationID int64) error
	ListMine(ctx context.Context, actor models.Actor, page, size int) ([]*models.RegistrationWithEvent, int64, error)
	ListForEvent(ctx context.Context, actor models.Actor, eventID int64, filter models.RegistrationFilter) ([]*models.RegistrationWithUser, int64, error)
	Export(ctx context.Context, actor models.Actor, eventID int64, w io.Writer) error
}

type registrationServiceImpl struct {
	companyAccess
	events        EventStore
	registrations RegistrationStore
	tx            db.Transactor
	logger        zerolog.Logger
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(
	events EventStore,
	companies CompanyStore,
	registrations RegistrationStore,
	tx db.Transactor,
	logger zerolog.Logger,
) RegistrationService {
	return &registrationServiceImpl{
		companyAccess: companyAccess{companies: companies},
		events:        events,
		registrations: registrations,
		tx:            tx,
		logger:        logger,
	}
}

// checkOpen reports why an event does not accept registrations at now
func checkOpen(event *models.Event, now time.Time) error {
	switch event.Status {
	case models.EventApproved:
	case models.EventCancelled:
		return apperrors.NewCustomError(apperrors.ErrRegistrationClosed, "event has been cancelled")
	default:
		return apperrors.ErrEventNotFound
	}
	if !event.IsRegistrationOpen(now) {
		return apperrors.NewCustomError(apperrors.ErrRegistrationClosed, "registration for this event is closed")
	}
	return nil
}

// Register signs the actor up. The event row is locked while seats are counted so
// concurrent registrations cannot overfill it. A cancelled registration is reactivated.
func (s *registrationServiceImpl) Register(ctx context.Context, actor models.Actor, eventID int64, req *dto.RegisterForEventRequest) (*models.Registration, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	now := timeNow()
	if err := checkOpen(event, now); err != nil {
		return nil, err
	}

	teamName := trimmedOrNil(req.TeamName)
	if teamName != nil && event.Type != models.EventTypeHackathon {
		return nil, apperrors.NewValidationError("teamName is only allowed for hackathons")
	}
	notes := trimmedOrNil(req.Notes)

	var reg *models.Registration
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		locked, err := s.events.LockByID(ctx, tx, eventID)
		if err != nil {
			return err
		}
		if err := checkOpen(locked, now); err != nil {
			return err
		}

		existing, err := s.registrations.GetByEventAndUser(ctx, tx, eventID, actor.ID)
		if err != nil && !errors.Is(err, apperrors.ErrRegistrationNotFound) {
			return err
		}
		if existing != nil && existing.Status != models.RegistrationCancelled {
			return apperrors.NewCustomError(apperrors.ErrAlreadyRegistered, "you are already registered for this event")
		}

		taken, err := s.registrations.CountTaken(ctx, tx, eventID)
		if err != nil {
			return err
		}
		if locked.IsFull(taken) {
			return apperrors.NewCustomError(apperrors.ErrEventFull, "event is full")
		}

		if existing != nil {
			existing.TeamName = teamName
			existing.Notes = notes
			if err := s.registrations.Reactivate(ctx, tx, existing); err != nil {
				return err
			}
			reg = existing
			return nil
		}

		reg = &models.Registration{
			EventID:  eventID,
			UserID:   actor.ID,
			Status:   models.RegistrationRegistered,
			TeamName: teamName,
			Notes:    notes,
		}
		return s.registrations.Create(ctx, tx, reg)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("eventID", eventID).Int64("userID", actor.ID).Msg("User registered for event")
	return reg, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	return helpers.NullableString(*s)
}

func (s *registrationServiceImpl) Cancel(ctx context.Context, actor models.Actor, eventID int64) error {
	return s.registrations.Cancel(ctx, eventID, actor.ID)
}

func (s *registrationServiceImpl) MarkAttended(ctx context.Context, actor models.Actor, eventID, registrationID int64) error {
	if err := s.authorize(ctx, actor, eventID); err != nil {
		return err
	}
	return s.registrations.MarkAttended(ctx, eventID, registrationID)
}

func (s *registrationServiceImpl) ListMine(ctx context.Context, actor models.Actor, page, size int) ([]*models.RegistrationWithEvent, int64, error) {
	return s.registrations.ListByUser(ctx, actor.ID, page, size)
}

func (s *registrationServiceImpl) ListForEvent(ctx context.Context, actor models.Actor, eventID int64, filter models.RegistrationFilter) ([]*models.RegistrationWithUser, int64, error) {
	if err := s.authorize(ctx, actor, eventID); err != nil {
		return nil, 0, err
	}
	return s.registrations.ListByEvent(ctx, eventID, filter)
}

// Export writes every registration of the event as CSV
func (s *registrationServiceImpl) Export(ctx context.Context, actor models.Actor, eventID int64, w io.Writer) error {
	if err := s.authorize(ctx, actor, eventID); err != nil {
		return err
	}

	csvw, err := helpers.NewCSVWriter(w, RegistrationExportHeader)
	if err != nil {
		return err
	}
	err = s.registrations.ForEachByEvent(ctx, eventID, func(r *models.RegistrationWithUser) error {
		return csvw.Write([]string{
			strconv.FormatInt(r.ID, 10),
			r.FirstName,
			r.LastName,
			r.Email,
			string(r.Status),
			strings.TrimSpace(helpers.StringValue(r.TeamName)),
			r.CreatedAt.UTC().Format(time.RFC3339),
		})
	})
	if err != nil {
		return err
	}
	return csvw.Flush()
}

// authorize requires the actor to manage the event's company
func (s *registrationServiceImpl) authorize(ctx context.Context, actor models.Actor, eventID int64) error {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if actor.IsAdmin() || s.ownsCompany(ctx, actor, event.CompanyID) {
		return nil
	}
	return apperrors.ErrEventNotFound
}

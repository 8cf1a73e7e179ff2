package services

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/app/models/dto"
	"github.com/yigit/eventhub/internal/db"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
	"github.com/yigit/eventhub/internal/pkg/helpers"
	"github.com/yigit/eventhub/internal/pkg/websocket"
)

// ModerationService reviews submitted events
type ModerationService interface {
	Moderate(ctx context.Context, actor models.Actor, eventID int64, req *dto.ModerateEventRequest) (*dto.ModerationResult, error)
	ListLogs(ctx context.Context, actor models.Actor, eventID int64) ([]*models.ModerationLog, error)
	ListQueue(ctx context.Context, actor models.Actor, page, size int) ([]*models.Event, int64, error)
}

type moderationServiceImpl struct {
	companyAccess
	events EventStore
	logs   ModerationLogStore
	audit  AuditService
	hub    Broadcaster
	tx     db.Transactor
	logger zerolog.Logger
}

// NewModerationService creates a new ModerationService. hub may be nil.
func NewModerationService(
	events EventStore,
	companies CompanyStore,
	logs ModerationLogStore,
	audit AuditService,
	hub Broadcaster,
	tx db.Transactor,
	logger zerolog.Logger,
) ModerationService {
	return &moderationServiceImpl{
		companyAccess: companyAccess{companies: companies},
		events:        events,
		logs:          logs,
		audit:         audit,
		hub:           hub,
		tx:            tx,
		logger:        logger,
	}
}

// Moderate changes the event status and appends the log entry in one transaction
func (s *moderationServiceImpl) Moderate(ctx context.Context, actor models.Actor, eventID int64, req *dto.ModerateEventRequest) (*dto.ModerationResult, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only admins can moderate events")
	}
	if !req.Action.IsValid() {
		return nil, apperrors.NewValidationError("action must be one of APPROVE, REJECT, REQUEST_CHANGES")
	}
	reason := strings.TrimSpace(req.Reason)
	if req.Action.RequiresReason() && reason == "" {
		return nil, apperrors.NewValidationError("reason is required for this action")
	}

	var (
		event *models.Event
		entry *models.ModerationLog
	)
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		event, err = s.events.LockByID(ctx, tx, eventID)
		if err != nil {
			return err
		}

		next, err := models.NextEventStatus(event.Status, req.Action)
		if err != nil {
			return err
		}
		if err := s.events.UpdateStatus(ctx, tx, eventID, next); err != nil {
			return err
		}

		entry = &models.ModerationLog{
			EventID:     eventID,
			ModeratorID: actor.ID,
			Action:      req.Action,
			FromStatus:  event.Status,
			ToStatus:    next,
			Reason:      helpers.NullableString(reason),
		}
		if err := s.logs.Create(ctx, tx, entry); err != nil {
			return err
		}
		event.Status = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	entry.ModeratorEmail = actor.Email

	recordBestEffort(ctx, s.audit, s.logger, actor, models.AuditEventModerate, "event", eventID, map[string]any{
		"action": req.Action,
		"from":   entry.FromStatus,
		"to":     entry.ToStatus,
		"reason": reason,
	})
	if s.hub != nil {
		s.hub.Broadcast(websocket.NewModerationMessage(entry, actor.Email))
	}

	s.logger.Info().
		Int64("eventID", eventID).
		Str("action", string(req.Action)).
		Str("from", string(entry.FromStatus)).
		Str("to", string(entry.ToStatus)).
		Msg("Event moderated")
	return &dto.ModerationResult{Event: event, Log: entry}, nil
}

// ListLogs returns the moderation history of an event to its owner or an admin
func (s *moderationServiceImpl) ListLogs(ctx context.Context, actor models.Actor, eventID int64) ([]*models.ModerationLog, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !s.ownsCompany(ctx, actor, event.CompanyID) {
		return nil, apperrors.ErrEventNotFound
	}
	return s.logs.ListByEvent(ctx, eventID)
}

// ListQueue returns PENDING events, oldest submission first
func (s *moderationServiceImpl) ListQueue(ctx context.Context, actor models.Actor, page, size int) ([]*models.Event, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, apperrors.NewForbiddenError("only admins can view the moderation queue")
	}
	return s.events.ListQueue(ctx, page, size)
}

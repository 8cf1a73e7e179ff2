package services

import (
	"context"
	"io"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/app/models/dto"
	"github.com/yigit/eventhub/internal/db"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
	"github.com/yigit/eventhub/internal/pkg/filestorage"
)

// EventService manages events, hackathons and workshops
type EventService interface {
	Create(ctx context.Context, actor models.Actor, req *dto.EventRequest) (*dto.EventResponse, error)
	Get(ctx context.Context, actor models.Actor, id int64) (*dto.EventResponse, error)
	List(ctx context.Context, actor models.Actor, filter models.EventFilter) ([]*dto.EventResponse, int64, error)
	ListCompanyEvents(ctx context.Context, actor models.Actor, companyID int64, page, size int) ([]*dto.EventResponse, int64, error)
	Update(ctx context.Context, actor models.Actor, id int64, req *dto.EventRequest) (*dto.EventResponse, error)
	Cancel(ctx context.Context, actor models.Actor, id int64) (*dto.EventResponse, error)
	UploadBanner(ctx context.Context, actor models.Actor, id int64, fileName string, content io.Reader) (*dto.EventResponse, error)
}

type eventServiceImpl struct {
	companyAccess
	events        EventStore
	registrations RegistrationStore
	files         FileService
	audit         AuditService
	tx            db.Transactor
	logger        zerolog.Logger
}

// NewEventService creates a new EventService
func NewEventService(
	events EventStore,
	companies CompanyStore,
	registrations RegistrationStore,
	files FileService,
	audit AuditService,
	tx db.Transactor,
	logger zerolog.Logger,
) EventService {
	return &eventServiceImpl{
		companyAccess: companyAccess{companies: companies},
		events:        events,
		registrations: registrations,
		files:         files,
		audit:         audit,
		tx:            tx,
		logger:        logger,
	}
}

// Create submits a new event for moderation. The actor must own a verified company.
func (s *eventServiceImpl) Create(ctx context.Context, actor models.Actor, req *dto.EventRequest) (*dto.EventResponse, error) {
	company, err := s.verifiedOwned(ctx, actor)
	if err != nil {
		return nil, err
	}

	event := &models.Event{CompanyID: company.ID, CreatedBy: actor.ID, Status: models.EventPending}
	req.Apply(event)
	if err := event.Validate(); err != nil {
		return nil, err
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	event.CompanyName = company.Name

	s.logger.Info().Int64("eventID", event.ID).Int64("companyID", company.ID).Msg("Event submitted")
	return s.response(ctx, event), nil
}

// canManage reports whether the actor is an admin or owns the event's company
func (s *eventServiceImpl) canManage(ctx context.Context, actor models.Actor, event *models.Event) bool {
	return actor.IsAdmin() || s.ownsCompany(ctx, actor, event.CompanyID)
}

// Get returns an event. Anything but APPROVED is hidden from the public.
func (s *eventServiceImpl) Get(ctx context.Context, actor models.Actor, id int64) (*dto.EventResponse, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.Status != models.EventApproved && !s.canManage(ctx, actor, event) {
		return nil, apperrors.ErrEventNotFound
	}
	return s.response(ctx, event), nil
}

// List pages through events by start time. Non-approved events are listed only for
// admins and for owners filtering on their own company.
func (s *eventServiceImpl) List(ctx context.Context, actor models.Actor, filter models.EventFilter) ([]*dto.EventResponse, int64, error) {
	seesAll := actor.IsAdmin() ||
		(filter.CompanyID != nil && s.ownsCompany(ctx, actor, *filter.CompanyID))
	if !seesAll {
		filter.Statuses = []models.EventStatus{models.EventApproved}
	}
	if filter.Now.IsZero() {
		filter.Now = timeNow()
	}

	events, total, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return s.responses(ctx, events), total, nil
}

// ListCompanyEvents lists every event of a company for its dashboard
func (s *eventServiceImpl) ListCompanyEvents(ctx context.Context, actor models.Actor, companyID int64, page, size int) ([]*dto.EventResponse, int64, error) {
	if _, err := s.manageable(ctx, actor, companyID); err != nil {
		return nil, 0, err
	}
	events, total, err := s.events.List(ctx, models.EventFilter{CompanyID: &companyID, Page: page, Size: size})
	if err != nil {
		return nil, 0, err
	}
	return s.responses(ctx, events), total, nil
}

// Update edits an event. Owner edits of reviewed events send them back to moderation,
// and capacity cannot drop below the seats already taken.
func (s *eventServiceImpl) Update(ctx context.Context, actor models.Actor, id int64, req *dto.EventRequest) (*dto.EventResponse, error) {
	current, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canManage(ctx, actor, current) {
		return nil, apperrors.ErrEventNotFound
	}

	var updated *models.Event
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		event, err := s.events.LockByID(ctx, tx, id)
		if err != nil {
			return err
		}

		next, err := models.StatusAfterOwnerEdit(event.Status)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() {
			event.Status = next
		}

		req.Apply(event)
		if err := event.Validate(); err != nil {
			return err
		}

		if event.Capacity != nil {
			taken, err := s.registrations.CountTaken(ctx, tx, id)
			if err != nil {
				return err
			}
			if taken > *event.Capacity {
				return apperrors.NewConflictError("capacity cannot be lower than the number of registered attendees")
			}
		}

		if err := s.events.Update(ctx, tx, event); err != nil {
			return err
		}
		updated = event
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("eventID", id).Str("status", string(updated.Status)).Msg("Event updated")
	return s.response(ctx, updated), nil
}

// Cancel moves an event to CANCELLED. Registrations are kept.
func (s *eventServiceImpl) Cancel(ctx context.Context, actor models.Actor, id int64) (*dto.EventResponse, error) {
	current, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canManage(ctx, actor, current) {
		return nil, apperrors.ErrEventNotFound
	}

	var from models.EventStatus
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		event, err := s.events.LockByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if event.Status == models.EventCancelled {
			return apperrors.NewConflictError("event is already cancelled")
		}
		from = event.Status
		return s.events.UpdateStatus(ctx, tx, id, models.EventCancelled)
	})
	if err != nil {
		return nil, err
	}

	current.Status = models.EventCancelled
	if actor.IsAdmin() {
		recordBestEffort(ctx, s.audit, s.logger, actor, models.AuditEventCancel, "event", id,
			map[string]any{"from": from, "to": models.EventCancelled})
	}
	s.logger.Info().Int64("eventID", id).Int64("actorID", actor.ID).Msg("Event cancelled")
	return s.response(ctx, current), nil
}

// UploadBanner replaces the banner image of an event
func (s *eventServiceImpl) UploadBanner(ctx context.Context, actor models.Actor, id int64, fileName string, content io.Reader) (*dto.EventResponse, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canManage(ctx, actor, event) {
		return nil, apperrors.ErrEventNotFound
	}

	file, err := s.files.Upload(ctx, Upload{
		Kind:         filestorage.KindEventBanner,
		FileName:     fileName,
		Content:      content,
		ResourceType: models.FileResourceEvent,
		ResourceID:   id,
		UploadedBy:   actor.ID,
	})
	if err != nil {
		return nil, err
	}

	if err := s.events.SetBanner(ctx, id, &file.ID); err != nil {
		s.files.DeleteQuietly(ctx, &file.ID)
		return nil, err
	}
	s.files.DeleteQuietly(ctx, event.BannerFileID)

	event.BannerFileID = &file.ID
	return s.response(ctx, event), nil
}

func (s *eventServiceImpl) responses(ctx context.Context, events []*models.Event) []*dto.EventResponse {
	items := make([]*dto.EventResponse, 0, len(events))
	for _, e := range events {
		items = append(items, s.response(ctx, e))
	}
	return items
}

func (s *eventServiceImpl) response(ctx context.Context, e *models.Event) *dto.EventResponse {
	resp := &dto.EventResponse{Event: e}
	if e.BannerFileID == nil {
		return resp
	}
	if file, err := s.files.Get(ctx, *e.BannerFileID); err == nil {
		resp.BannerURL, _ = s.files.URL(file)
	}
	return resp
}

package services

import (
	"context"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/pkg/helpers"
	"github.com/yigit/eventhub/internal/pkg/websocket"
)

// AuditExportHeader is the column layout of audit CSV exports
var AuditExportHeader = []string{
	"id", "created_at", "actor_id", "actor_email", "actor_role", "action",
	"entity_type", "entity_id", "ip_address", "user_agent", "details",
}

// AuditService records and queries the audit trail
type AuditService interface {
	Record(ctx context.Context, actor models.Actor, action, entityType, entityID string, details any) error
	List(ctx context.Context, filter models.AuditFilter) ([]*models.AuditLog, int64, error)
	Get(ctx context.Context, id int64) (*models.AuditLog, error)
	Export(ctx context.Context, filter models.AuditFilter, w io.Writer) error
}

type auditServiceImpl struct {
	store         AuditStore
	hub           Broadcaster
	maxExportRows int
	logger        zerolog.Logger
}

// NewAuditService creates a new AuditService. hub may be nil.
func NewAuditService(store AuditStore, hub Broadcaster, maxExportRows int, logger zerolog.Logger) AuditService {
	if maxExportRows <= 0 {
		maxExportRows = 10000
	}
	return &auditServiceImpl{store: store, hub: hub, maxExportRows: maxExportRows, logger: logger}
}

// Record appends an entry and pushes it to the live feed
func (s *auditServiceImpl) Record(ctx context.Context, actor models.Actor, action, entityType, entityID string, details any) error {
	entry := &models.AuditLog{
		ActorEmail: actor.Email,
		ActorRole:  string(actor.Role),
		Action:     action,
		EntityType: entityType,
		EntityID:   helpers.NullableString(entityID),
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
	}
	if actor.ID != 0 {
		id := actor.ID
		entry.ActorID = &id
	}
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			return err
		}
		entry.Details = raw
	}

	if err := s.store.Create(ctx, entry); err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.Broadcast(websocket.NewAuditMessage(entry))
	}
	return nil
}

// recordBestEffort records an audit entry and only logs failures
func recordBestEffort(ctx context.Context, audit AuditService, logger zerolog.Logger, actor models.Actor, action, entityType string, entityID int64, details any) {
	if audit == nil {
		return
	}
	if err := audit.Record(ctx, actor, action, entityType, strconv.FormatInt(entityID, 10), details); err != nil {
		logger.Error().Err(err).Str("action", action).Int64("entityID", entityID).Msg("Failed to record audit entry")
	}
}

func (s *auditServiceImpl) List(ctx context.Context, filter models.AuditFilter) ([]*models.AuditLog, int64, error) {
	return s.store.List(ctx, filter)
}

func (s *auditServiceImpl) Get(ctx context.Context, id int64) (*models.AuditLog, error) {
	return s.store.GetByID(ctx, id)
}

// Export writes the entries matching filter as CSV, capped at the configured row limit
func (s *auditServiceImpl) Export(ctx context.Context, filter models.AuditFilter, w io.Writer) error {
	csvw, err := helpers.NewCSVWriter(w, AuditExportHeader)
	if err != nil {
		return err
	}

	rows := 0
	err = s.store.ForEach(ctx, filter, uint64(s.maxExportRows), func(entry *models.AuditLog) error {
		rows++
		actorID := ""
		if entry.ActorID != nil {
			actorID = strconv.FormatInt(*entry.ActorID, 10)
		}
		return csvw.Write([]string{
			strconv.FormatInt(entry.ID, 10),
			entry.CreatedAt.UTC().Format(time.RFC3339),
			actorID,
			entry.ActorEmail,
			entry.ActorRole,
			entry.Action,
			entry.EntityType,
			helpers.StringValue(entry.EntityID),
			entry.IPAddress,
			entry.UserAgent,
			string(entry.Details),
		})
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int("rows", rows).Msg("Exported audit log")
	return csvw.Flush()
}

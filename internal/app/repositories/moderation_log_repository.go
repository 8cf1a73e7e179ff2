package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/db"
	"github.com/yigit/eventhub/internal/pkg/logger"
)

// ModerationLogRepository appends and reads event moderation history
type ModerationLogRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewModerationLogRepository creates a new ModerationLogRepository
func NewModerationLogRepository(conn db.DBTX) *ModerationLogRepository {
	return &ModerationLogRepository{db: conn, sb: newStatementBuilder()}
}

// Create appends a log entry inside tx
func (r *ModerationLogRepository) Create(ctx context.Context, tx db.DBTX, entry *models.ModerationLog) error {
	sql, args, err := r.sb.Insert("moderation_logs").
		Columns("event_id", "moderator_id", "action", "from_status", "to_status", "reason").
		Values(entry.EventID, entry.ModeratorID, entry.Action, entry.FromStatus, entry.ToStatus, entry.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create moderation log query: %w", err)
	}

	if err := tx.QueryRow(ctx, sql, args...).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		logger.Error().Err(err).Int64("eventID", entry.EventID).Msg("Error creating moderation log")
		return fmt.Errorf("error creating moderation log: %w", err)
	}
	return nil
}

// ListByEvent returns the moderation history of an event, newest first
func (r *ModerationLogRepository) ListByEvent(ctx context.Context, eventID int64) ([]*models.ModerationLog, error) {
	sql, args, err := r.sb.Select(
		"m.id", "m.event_id", "COALESCE(m.moderator_id, 0)", "m.action", "m.from_status", "m.to_status",
		"m.reason", "m.created_at", "COALESCE(u.email, '')").
		From("moderation_logs m").
		LeftJoin("users u ON u.id = m.moderator_id").
		Where(squirrel.Eq{"m.event_id": eventID}).
		OrderBy("m.created_at DESC", "m.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list moderation logs query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("eventID", eventID).Msg("Error listing moderation logs")
		return nil, fmt.Errorf("failed to list moderation logs: %w", err)
	}
	defer rows.Close()

	logs := []*models.ModerationLog{}
	for rows.Next() {
		var m models.ModerationLog
		if err := rows.Scan(&m.ID, &m.EventID, &m.ModeratorID, &m.Action, &m.FromStatus, &m.ToStatus,
			&m.Reason, &m.CreatedAt, &m.ModeratorEmail); err != nil {
			return nil, fmt.Errorf("failed to scan moderation log row: %w", err)
		}
		logs = append(logs, &m)
	}
	return logs, rows.Err()
}

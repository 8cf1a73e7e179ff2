package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/db"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
	"github.com/yigit/eventhub/internal/pkg/helpers"
	"github.com/yigit/eventhub/internal/pkg/logger"
)

var auditColumns = []string{
	"id", "actor_id", "actor_email", "actor_role", "action", "entity_type", "entity_id",
	"details", "ip_address", "user_agent", "created_at",
}

// AuditLogRepository appends and queries audit entries
type AuditLogRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewAuditLogRepository creates a new AuditLogRepository
func NewAuditLogRepository(conn db.DBTX) *AuditLogRepository {
	return &AuditLogRepository{db: conn, sb: newStatementBuilder()}
}

func scanAuditLog(row rowScanner) (*models.AuditLog, error) {
	var a models.AuditLog
	var details []byte
	err := row.Scan(&a.ID, &a.ActorID, &a.ActorEmail, &a.ActorRole, &a.Action, &a.EntityType, &a.EntityID,
		&details, &a.IPAddress, &a.UserAgent, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(details) > 0 {
		a.Details = details
	}
	return &a, nil
}

// Create appends an audit entry
func (r *AuditLogRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	var details any
	if len(entry.Details) > 0 {
		details = string(entry.Details)
	}
	sql, args, err := r.sb.Insert("audit_logs").
		Columns("actor_id", "actor_email", "actor_role", "action", "entity_type", "entity_id",
			"details", "ip_address", "user_agent").
		Values(entry.ActorID, entry.ActorEmail, entry.ActorRole, entry.Action, entry.EntityType, entry.EntityID,
			squirrel.Expr("?::jsonb", details), entry.IPAddress, entry.UserAgent).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create audit log query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		logger.Error().Err(err).Str("action", entry.Action).Msg("Error creating audit log")
		return fmt.Errorf("error creating audit log: %w", err)
	}
	return nil
}

// GetByID retrieves one audit entry
func (r *AuditLogRepository) GetByID(ctx context.Context, id int64) (*models.AuditLog, error) {
	sql, args, err := r.sb.Select(auditColumns...).
		From("audit_logs").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get audit log query: %w", err)
	}

	a, err := scanAuditLog(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrAuditLogNotFound
		}
		logger.Error().Err(err).Int64("auditID", id).Msg("Error getting audit log")
		return nil, fmt.Errorf("error retrieving audit log: %w", err)
	}
	return a, nil
}

// buildAuditCondition turns a filter into a WHERE clause. From is inclusive, To exclusive.
func buildAuditCondition(filter models.AuditFilter) squirrel.And {
	where := squirrel.And{}
	if filter.ActorID != nil {
		where = append(where, squirrel.Eq{"actor_id": *filter.ActorID})
	}
	if filter.ActorEmail != "" {
		where = append(where, squirrel.ILike{"actor_email": helpers.ContainsPattern(filter.ActorEmail)})
	}
	if filter.Action != "" {
		where = append(where, squirrel.Eq{"action": filter.Action})
	}
	if filter.EntityType != "" {
		where = append(where, squirrel.Eq{"entity_type": filter.EntityType})
	}
	if filter.EntityID != "" {
		where = append(where, squirrel.Eq{"entity_id": filter.EntityID})
	}
	if filter.From != nil {
		where = append(where, squirrel.GtOrEq{"created_at": *filter.From})
	}
	if filter.To != nil {
		where = append(where, squirrel.Lt{"created_at": *filter.To})
	}
	if filter.Search != "" {
		pattern := helpers.ContainsPattern(filter.Search)
		where = append(where, squirrel.Or{
			squirrel.ILike{"action": pattern},
			squirrel.ILike{"entity_type": pattern},
			squirrel.ILike{"actor_email": pattern},
			squirrel.Expr("details::text ILIKE ?", pattern),
		})
	}
	return where
}

func auditOrder(filter models.AuditFilter) []string {
	if filter.SortAsc {
		return []string{"created_at ASC", "id ASC"}
	}
	return []string{"created_at DESC", "id DESC"}
}

// buildAuditQuery returns the paginated select for a filter
func (r *AuditLogRepository) buildAuditQuery(filter models.AuditFilter) squirrel.SelectBuilder {
	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.Size)
	return r.sb.Select(auditColumns...).
		From("audit_logs").
		Where(buildAuditCondition(filter)).
		OrderBy(auditOrder(filter)...).
		Limit(limit).
		Offset(offset)
}

// List returns a page of audit entries matching filter
func (r *AuditLogRepository) List(ctx context.Context, filter models.AuditFilter) ([]*models.AuditLog, int64, error) {
	total, err := countRows(ctx, r.db,
		r.sb.Select("COUNT(*)").From("audit_logs").Where(buildAuditCondition(filter)),
		"audit logs")
	if err != nil || total == 0 {
		return []*models.AuditLog{}, total, err
	}

	sql, args, err := r.buildAuditQuery(filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list audit logs query: %w", err)
	}

	entries, err := r.query(ctx, sql, args)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// ForEach streams at most limit entries matching filter to fn
func (r *AuditLogRepository) ForEach(ctx context.Context, filter models.AuditFilter, limit uint64, fn func(*models.AuditLog) error) error {
	sql, args, err := r.sb.Select(auditColumns...).
		From("audit_logs").
		Where(buildAuditCondition(filter)).
		OrderBy(auditOrder(filter)...).
		Limit(limit).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build export audit logs query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error exporting audit logs")
		return fmt.Errorf("failed to export audit logs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		entry, err := scanAuditLog(rows)
		if err != nil {
			return fmt.Errorf("failed to scan audit log row: %w", err)
		}
		if err := fn(entry); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *AuditLogRepository) query(ctx context.Context, sql string, args []any) ([]*models.AuditLog, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing audit logs")
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	entries := []*models.AuditLog{}
	for rows.Next() {
		entry, err := scanAuditLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log row: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

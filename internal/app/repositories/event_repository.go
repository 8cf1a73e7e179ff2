package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/db"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
	"github.com/yigit/eventhub/internal/pkg/helpers"
	"github.com/yigit/eventhub/internal/pkg/logger"
)

var eventColumns = []string{
	"e.id", "e.company_id", "e.created_by", "e.title", "e.description", "e.type", "e.mode",
	"e.location", "e.start_at", "e.end_at", "e.registration_deadline", "e.capacity",
	"e.banner_file_id", "e.status", "e.tags", "e.prize_pool", "e.max_team_size",
	"e.created_at", "e.updated_at", "c.name",
}

// EventRepository handles event database operations
type EventRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(conn db.DBTX) *EventRepository {
	return &EventRepository{db: conn, sb: newStatementBuilder()}
}

func scanEvent(row rowScanner) (*models.Event, error) {
	var e models.Event
	var createdBy *int64
	err := row.Scan(
		&e.ID, &e.CompanyID, &createdBy, &e.Title, &e.Description, &e.Type, &e.Mode,
		&e.Location, &e.StartAt, &e.EndAt, &e.RegistrationDeadline, &e.Capacity,
		&e.BannerFileID, &e.Status, &e.Tags, &e.PrizePool, &e.MaxTeamSize,
		&e.CreatedAt, &e.UpdatedAt, &e.CompanyName,
	)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		e.CreatedBy = *createdBy
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	return &e, nil
}

func (r *EventRepository) selectEvents() squirrel.SelectBuilder {
	return r.sb.Select(eventColumns...).
		From("events e").
		Join("companies c ON c.id = e.company_id")
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Create inserts an event
func (r *EventRepository) Create(ctx context.Context, e *models.Event) error {
	e.Tags = normalizeTags(e.Tags)
	sql, args, err := r.sb.Insert("events").
		Columns("company_id", "created_by", "title", "description", "type", "mode", "location",
			"start_at", "end_at", "registration_deadline", "capacity", "status", "tags",
			"prize_pool", "max_team_size").
		Values(e.CompanyID, e.CreatedBy, e.Title, e.Description, e.Type, e.Mode, e.Location,
			e.StartAt, e.EndAt, e.RegistrationDeadline, e.Capacity, e.Status, e.Tags,
			e.PrizePool, e.MaxTeamSize).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create event query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		logger.Error().Err(err).Int64("companyID", e.CompanyID).Msg("Error creating event")
		return fmt.Errorf("error creating event: %w", err)
	}
	return nil
}

// GetByID retrieves an event with its company name
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	return r.getByID(ctx, r.db, id, false)
}

// LockByID retrieves an event inside tx and locks the row until the transaction ends
func (r *EventRepository) LockByID(ctx context.Context, tx db.DBTX, id int64) (*models.Event, error) {
	return r.getByID(ctx, tx, id, true)
}

func (r *EventRepository) getByID(ctx context.Context, conn db.DBTX, id int64, lock bool) (*models.Event, error) {
	q := r.selectEvents().Where(squirrel.Eq{"e.id": id})
	if lock {
		q = q.Suffix("FOR UPDATE OF e")
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get event query: %w", err)
	}

	e, err := scanEvent(conn.QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrEventNotFound
		}
		logger.Error().Err(err).Int64("eventID", id).Msg("Error getting event")
		return nil, fmt.Errorf("error retrieving event: %w", err)
	}
	return e, nil
}

// Update writes the editable fields and status of an event inside tx
func (r *EventRepository) Update(ctx context.Context, tx db.DBTX, e *models.Event) error {
	e.Tags = normalizeTags(e.Tags)
	e.UpdatedAt = time.Now()
	sql, args, err := r.sb.Update("events").
		SetMap(map[string]any{
			"title":                 e.Title,
			"description":           e.Description,
			"type":                  e.Type,
			"mode":                  e.Mode,
			"location":              e.Location,
			"start_at":              e.StartAt,
			"end_at":                e.EndAt,
			"registration_deadline": e.RegistrationDeadline,
			"capacity":              e.Capacity,
			"status":                e.Status,
			"tags":                  e.Tags,
			"prize_pool":            e.PrizePool,
			"max_team_size":         e.MaxTeamSize,
			"updated_at":            e.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": e.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update event query: %w", err)
	}

	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("eventID", e.ID).Msg("Error updating event")
		return fmt.Errorf("error updating event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

// UpdateStatus sets the status of an event inside tx
func (r *EventRepository) UpdateStatus(ctx context.Context, tx db.DBTX, id int64, status models.EventStatus) error {
	sql, args, err := r.sb.Update("events").
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update event status query: %w", err)
	}

	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("eventID", id).Msg("Error updating event status")
		return fmt.Errorf("error updating event status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

// SetBanner points the event at a banner file
func (r *EventRepository) SetBanner(ctx context.Context, id int64, fileID *int64) error {
	sql, args, err := r.sb.Update("events").
		Set("banner_file_id", fileID).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set event banner query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating event banner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

func eventFilterCondition(filter models.EventFilter) squirrel.And {
	where := squirrel.And{}
	if filter.Type != nil {
		where = append(where, squirrel.Eq{"e.type": *filter.Type})
	}
	if filter.Mode != nil {
		where = append(where, squirrel.Eq{"e.mode": *filter.Mode})
	}
	if filter.CompanyID != nil {
		where = append(where, squirrel.Eq{"e.company_id": *filter.CompanyID})
	}
	if len(filter.Statuses) > 0 {
		where = append(where, squirrel.Eq{"e.status": filter.Statuses})
	}
	if filter.Upcoming {
		now := filter.Now
		if now.IsZero() {
			now = time.Now()
		}
		where = append(where, squirrel.Gt{"e.start_at": now})
	}
	if t := strings.ToLower(strings.TrimSpace(filter.Tag)); t != "" {
		where = append(where, squirrel.Expr("? = ANY(e.tags)", t))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := helpers.ContainsPattern(s)
		where = append(where, squirrel.Or{
			squirrel.ILike{"e.title": pattern},
			squirrel.ILike{"e.description": pattern},
			squirrel.ILike{"e.location": pattern},
		})
	}
	return where
}

// List returns a page of events ordered by start time
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]*models.Event, int64, error) {
	return r.list(ctx, filter, "e.start_at ASC", "e.id ASC")
}

// ListQueue returns PENDING events in submission order
func (r *EventRepository) ListQueue(ctx context.Context, page, size int) ([]*models.Event, int64, error) {
	filter := models.EventFilter{Statuses: []models.EventStatus{models.EventPending}, Page: page, Size: size}
	return r.list(ctx, filter, "e.created_at ASC", "e.id ASC")
}

func (r *EventRepository) list(ctx context.Context, filter models.EventFilter, orderBy ...string) ([]*models.Event, int64, error) {
	where := eventFilterCondition(filter)

	total, err := countRows(ctx, r.db, r.sb.Select("COUNT(*)").From("events e").Where(where), "events")
	if err != nil || total == 0 {
		return []*models.Event{}, total, err
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.Size)
	sql, args, err := r.selectEvents().
		Where(where).
		OrderBy(orderBy...).
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list events query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing events")
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := make([]*models.Event, 0, limit)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}

// CountByStatus returns the number of events per status
func (r *EventRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countGrouped(ctx, r.db,
		r.sb.Select("status", "COUNT(*)").From("events").GroupBy("status"),
		"events by status")
}

// CountUpcomingApproved counts APPROVED events that start after now
func (r *EventRepository) CountUpcomingApproved(ctx context.Context, now time.Time) (int64, error) {
	return countRows(ctx, r.db,
		r.sb.Select("COUNT(*)").From("events").
			Where(squirrel.Eq{"status": models.EventApproved}).
			Where(squirrel.Gt{"start_at": now}),
		"upcoming events")
}

// CountPending counts events waiting for moderation
func (r *EventRepository) CountPending(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db,
		r.sb.Select("COUNT(*)").From("events").Where(squirrel.Eq{"status": models.EventPending}),
		"pending events")
}

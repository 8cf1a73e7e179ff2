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
	"github.com/yigit/eventhub/internal/pkg/dberrors"
	"github.com/yigit/eventhub/internal/pkg/helpers"
	"github.com/yigit/eventhub/internal/pkg/logger"
)

var registrationColumns = []string{
	"r.id", "r.event_id", "r.user_id", "r.status", "r.team_name", "r.notes", "r.created_at", "r.updated_at",
}

// RegistrationRepository handles event registration database operations
type RegistrationRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewRegistrationRepository creates a new RegistrationRepository
func NewRegistrationRepository(conn db.DBTX) *RegistrationRepository {
	return &RegistrationRepository{db: conn, sb: newStatementBuilder()}
}

func registrationDest(reg *models.Registration) []any {
	return []any{&reg.ID, &reg.EventID, &reg.UserID, &reg.Status, &reg.TeamName, &reg.Notes, &reg.CreatedAt, &reg.UpdatedAt}
}

// CountTaken counts REGISTERED and ATTENDED rows of an event inside tx
func (r *RegistrationRepository) CountTaken(ctx context.Context, tx db.DBTX, eventID int64) (int, error) {
	total, err := countRows(ctx, tx,
		r.sb.Select("COUNT(*)").From("registrations").
			Where(squirrel.Eq{
				"event_id": eventID,
				"status":   []models.RegistrationStatus{models.RegistrationRegistered, models.RegistrationAttended},
			}),
		"taken seats")
	return int(total), err
}

// GetByEventAndUser returns the registration of a user for an event
func (r *RegistrationRepository) GetByEventAndUser(ctx context.Context, tx db.DBTX, eventID, userID int64) (*models.Registration, error) {
	sql, args, err := r.sb.Select(registrationColumns...).
		From("registrations r").
		Where(squirrel.Eq{"r.event_id": eventID, "r.user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get registration query: %w", err)
	}

	var reg models.Registration
	if err := tx.QueryRow(ctx, sql, args...).Scan(registrationDest(&reg)...); err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		logger.Error().Err(err).Int64("eventID", eventID).Int64("userID", userID).Msg("Error getting registration")
		return nil, fmt.Errorf("error retrieving registration: %w", err)
	}
	return &reg, nil
}

// Create inserts a registration inside tx
func (r *RegistrationRepository) Create(ctx context.Context, tx db.DBTX, reg *models.Registration) error {
	sql, args, err := r.sb.Insert("registrations").
		Columns("event_id", "user_id", "status", "team_name", "notes").
		Values(reg.EventID, reg.UserID, reg.Status, reg.TeamName, reg.Notes).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create registration query: %w", err)
	}

	if err := tx.QueryRow(ctx, sql, args...).Scan(&reg.ID, &reg.CreatedAt, &reg.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "registrations_event_user_key") {
			return apperrors.ErrAlreadyRegistered
		}
		logger.Error().Err(err).Int64("eventID", reg.EventID).Msg("Error creating registration")
		return fmt.Errorf("error creating registration: %w", err)
	}
	return nil
}

// Reactivate turns a cancelled registration back into REGISTERED inside tx
func (r *RegistrationRepository) Reactivate(ctx context.Context, tx db.DBTX, reg *models.Registration) error {
	reg.Status = models.RegistrationRegistered
	reg.UpdatedAt = time.Now()
	sql, args, err := r.sb.Update("registrations").
		Set("status", reg.Status).
		Set("team_name", reg.TeamName).
		Set("notes", reg.Notes).
		Set("updated_at", reg.UpdatedAt).
		Where(squirrel.Eq{"id": reg.ID, "status": models.RegistrationCancelled}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build reactivate registration query: %w", err)
	}

	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error reactivating registration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAlreadyRegistered
	}
	return nil
}

func (r *RegistrationRepository) transition(ctx context.Context, where squirrel.Eq, to models.RegistrationStatus) error {
	sql, args, err := r.sb.Update("registrations").
		Set("status", to).
		Set("updated_at", time.Now()).
		Where(where).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build registration status query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("to", string(to)).Msg("Error updating registration status")
		return fmt.Errorf("error updating registration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrRegistrationNotFound
	}
	return nil
}

// Cancel moves the user's REGISTERED row to CANCELLED
func (r *RegistrationRepository) Cancel(ctx context.Context, eventID, userID int64) error {
	return r.transition(ctx, squirrel.Eq{
		"event_id": eventID,
		"user_id":  userID,
		"status":   models.RegistrationRegistered,
	}, models.RegistrationCancelled)
}

// MarkAttended moves a REGISTERED row of the event to ATTENDED
func (r *RegistrationRepository) MarkAttended(ctx context.Context, eventID, registrationID int64) error {
	return r.transition(ctx, squirrel.Eq{
		"id":       registrationID,
		"event_id": eventID,
		"status":   models.RegistrationRegistered,
	}, models.RegistrationAttended)
}

// ListByUser returns a user's registrations with event details, next events first
func (r *RegistrationRepository) ListByUser(ctx context.Context, userID int64, page, size int) ([]*models.RegistrationWithEvent, int64, error) {
	where := squirrel.Eq{"r.user_id": userID}

	total, err := countRows(ctx, r.db, r.sb.Select("COUNT(*)").From("registrations r").Where(where), "user registrations")
	if err != nil || total == 0 {
		return []*models.RegistrationWithEvent{}, total, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	sql, args, err := r.sb.Select(append(registrationColumns, "e.title", "e.start_at", "e.status")...).
		From("registrations r").
		Join("events e ON e.id = r.event_id").
		Where(where).
		OrderBy("e.start_at DESC", "r.id DESC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list user registrations query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error listing user registrations")
		return nil, 0, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	items := make([]*models.RegistrationWithEvent, 0, limit)
	for rows.Next() {
		var item models.RegistrationWithEvent
		dest := append(registrationDest(&item.Registration), &item.EventTitle, &item.EventStartAt, &item.EventStatus)
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, fmt.Errorf("failed to scan registration row: %w", err)
		}
		items = append(items, &item)
	}
	return items, total, rows.Err()
}

func eventRegistrationCondition(eventID int64, filter models.RegistrationFilter) squirrel.And {
	where := squirrel.And{squirrel.Eq{"r.event_id": eventID}}
	if filter.Status != nil {
		where = append(where, squirrel.Eq{"r.status": *filter.Status})
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := helpers.ContainsPattern(s)
		where = append(where, squirrel.Or{
			squirrel.ILike{"u.email": pattern},
			squirrel.Expr("(u.first_name || ' ' || u.last_name) ILIKE ?", pattern),
			squirrel.ILike{"r.team_name": pattern},
		})
	}
	return where
}

func (r *RegistrationRepository) selectWithUsers() squirrel.SelectBuilder {
	return r.sb.Select(append(registrationColumns, "u.first_name", "u.last_name", "u.email")...).
		From("registrations r").
		Join("users u ON u.id = r.user_id")
}

func scanRegistrationWithUser(row rowScanner) (*models.RegistrationWithUser, error) {
	var item models.RegistrationWithUser
	dest := append(registrationDest(&item.Registration), &item.FirstName, &item.LastName, &item.Email)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &item, nil
}

// ListByEvent returns a page of an event's registrations with attendee details
func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID int64, filter models.RegistrationFilter) ([]*models.RegistrationWithUser, int64, error) {
	where := eventRegistrationCondition(eventID, filter)

	total, err := countRows(ctx, r.db,
		r.sb.Select("COUNT(*)").From("registrations r").Join("users u ON u.id = r.user_id").Where(where),
		"event registrations")
	if err != nil || total == 0 {
		return []*models.RegistrationWithUser{}, total, err
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.Size)
	sql, args, err := r.selectWithUsers().
		Where(where).
		OrderBy("r.created_at ASC", "r.id ASC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list event registrations query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("eventID", eventID).Msg("Error listing event registrations")
		return nil, 0, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	items := make([]*models.RegistrationWithUser, 0, limit)
	for rows.Next() {
		item, err := scanRegistrationWithUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan registration row: %w", err)
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

// ForEachByEvent streams every registration of an event in registration order
func (r *RegistrationRepository) ForEachByEvent(ctx context.Context, eventID int64, fn func(*models.RegistrationWithUser) error) error {
	sql, args, err := r.selectWithUsers().
		Where(squirrel.Eq{"r.event_id": eventID}).
		OrderBy("r.created_at ASC", "r.id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build export registrations query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("eventID", eventID).Msg("Error exporting registrations")
		return fmt.Errorf("failed to export registrations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanRegistrationWithUser(rows)
		if err != nil {
			return fmt.Errorf("failed to scan registration row: %w", err)
		}
		if err := fn(item); err != nil {
			return err
		}
	}
	return rows.Err()
}

// CountAll counts all registrations; since filters by creation time when non-zero
func (r *RegistrationRepository) CountAll(ctx context.Context, since time.Time) (int64, error) {
	q := r.sb.Select("COUNT(*)").From("registrations")
	if !since.IsZero() {
		q = q.Where(squirrel.GtOrEq{"created_at": since})
	}
	return countRows(ctx, r.db, q, "registrations")
}

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

var internshipColumns = []string{
	"i.id", "i.company_id", "i.title", "i.description", "i.location", "i.remote", "i.stipend",
	"i.duration_weeks", "i.apply_url", "i.deadline", "i.status", "i.created_at", "i.updated_at", "c.name",
}

// InternshipRepository handles internship database operations
type InternshipRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewInternshipRepository creates a new InternshipRepository
func NewInternshipRepository(conn db.DBTX) *InternshipRepository {
	return &InternshipRepository{db: conn, sb: newStatementBuilder()}
}

func scanInternship(row rowScanner) (*models.Internship, error) {
	var i models.Internship
	err := row.Scan(&i.ID, &i.CompanyID, &i.Title, &i.Description, &i.Location, &i.Remote, &i.Stipend,
		&i.DurationWeeks, &i.ApplyURL, &i.Deadline, &i.Status, &i.CreatedAt, &i.UpdatedAt, &i.CompanyName)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// Create inserts an internship
func (r *InternshipRepository) Create(ctx context.Context, i *models.Internship) error {
	sql, args, err := r.sb.Insert("internships").
		Columns("company_id", "title", "description", "location", "remote", "stipend",
			"duration_weeks", "apply_url", "deadline", "status").
		Values(i.CompanyID, i.Title, i.Description, i.Location, i.Remote, i.Stipend,
			i.DurationWeeks, i.ApplyURL, i.Deadline, i.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create internship query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt); err != nil {
		logger.Error().Err(err).Int64("companyID", i.CompanyID).Msg("Error creating internship")
		return fmt.Errorf("error creating internship: %w", err)
	}
	return nil
}

// GetByID retrieves an internship with its company name
func (r *InternshipRepository) GetByID(ctx context.Context, id int64) (*models.Internship, error) {
	sql, args, err := r.sb.Select(internshipColumns...).
		From("internships i").
		Join("companies c ON c.id = i.company_id").
		Where(squirrel.Eq{"i.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get internship query: %w", err)
	}

	i, err := scanInternship(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrInternshipNotFound
		}
		logger.Error().Err(err).Int64("internshipID", id).Msg("Error getting internship")
		return nil, fmt.Errorf("error retrieving internship: %w", err)
	}
	return i, nil
}

// Update writes the editable fields and status of an internship
func (r *InternshipRepository) Update(ctx context.Context, i *models.Internship) error {
	i.UpdatedAt = time.Now()
	sql, args, err := r.sb.Update("internships").
		SetMap(map[string]any{
			"title":          i.Title,
			"description":    i.Description,
			"location":       i.Location,
			"remote":         i.Remote,
			"stipend":        i.Stipend,
			"duration_weeks": i.DurationWeeks,
			"apply_url":      i.ApplyURL,
			"deadline":       i.Deadline,
			"status":         i.Status,
			"updated_at":     i.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": i.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update internship query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("internshipID", i.ID).Msg("Error updating internship")
		return fmt.Errorf("error updating internship: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInternshipNotFound
	}
	return nil
}

// Delete removes an internship
func (r *InternshipRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("internships").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete internship query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting internship: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInternshipNotFound
	}
	return nil
}

func internshipFilterCondition(filter models.InternshipFilter) squirrel.And {
	where := squirrel.And{}
	if filter.CompanyID != nil {
		where = append(where, squirrel.Eq{"i.company_id": *filter.CompanyID})
	}
	if filter.Remote != nil {
		where = append(where, squirrel.Eq{"i.remote": *filter.Remote})
	}
	if filter.PublicOnly {
		now := filter.Now
		if now.IsZero() {
			now = time.Now()
		}
		where = append(where,
			squirrel.Eq{"i.status": models.InternshipOpen, "c.verification_status": models.CompanyVerified},
			squirrel.Or{squirrel.Eq{"i.deadline": nil}, squirrel.Gt{"i.deadline": now}},
		)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := helpers.ContainsPattern(s)
		where = append(where, squirrel.Or{
			squirrel.ILike{"i.title": pattern},
			squirrel.ILike{"i.description": pattern},
			squirrel.ILike{"i.location": pattern},
			squirrel.ILike{"c.name": pattern},
		})
	}
	return where
}

// List returns a page of internships, newest first
func (r *InternshipRepository) List(ctx context.Context, filter models.InternshipFilter) ([]*models.Internship, int64, error) {
	where := internshipFilterCondition(filter)

	total, err := countRows(ctx, r.db,
		r.sb.Select("COUNT(*)").From("internships i").Join("companies c ON c.id = i.company_id").Where(where),
		"internships")
	if err != nil || total == 0 {
		return []*models.Internship{}, total, err
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.Size)
	sql, args, err := r.sb.Select(internshipColumns...).
		From("internships i").
		Join("companies c ON c.id = i.company_id").
		Where(where).
		OrderBy("i.created_at DESC", "i.id DESC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list internships query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing internships")
		return nil, 0, fmt.Errorf("failed to list internships: %w", err)
	}
	defer rows.Close()

	items := make([]*models.Internship, 0, limit)
	for rows.Next() {
		i, err := scanInternship(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan internship row: %w", err)
		}
		items = append(items, i)
	}
	return items, total, rows.Err()
}

package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/db"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
	"github.com/yigit/eventhub/internal/pkg/logger"
)

var resumeColumns = []string{"id", "user_id", "title", "template", "data", "created_at", "updated_at"}

// ResumeRepository handles resume database operations. Data is stored as jsonb.
type ResumeRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewResumeRepository creates a new ResumeRepository
func NewResumeRepository(conn db.DBTX) *ResumeRepository {
	return &ResumeRepository{db: conn, sb: newStatementBuilder()}
}

func scanResume(row rowScanner) (*models.Resume, error) {
	var res models.Resume
	var data []byte
	if err := row.Scan(&res.ID, &res.UserID, &res.Title, &res.Template, &data, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return nil, err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &res.Data); err != nil {
			return nil, fmt.Errorf("failed to decode resume data: %w", err)
		}
	}
	return &res, nil
}

// LockOwner locks the owning user row inside tx so concurrent creates for that user serialize
func (r *ResumeRepository) LockOwner(ctx context.Context, tx db.DBTX, userID int64) error {
	sql, args, err := r.sb.Select("id").From("users").Where(squirrel.Eq{"id": userID}).Suffix("FOR UPDATE").ToSql()
	if err != nil {
		return fmt.Errorf("failed to build lock user query: %w", err)
	}

	var id int64
	if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if isNoRows(err) {
			return apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error locking resume owner")
		return fmt.Errorf("error locking user: %w", err)
	}
	return nil
}

// Create inserts a resume inside tx
func (r *ResumeRepository) Create(ctx context.Context, tx db.DBTX, res *models.Resume) error {
	data, err := json.Marshal(res.Data)
	if err != nil {
		return fmt.Errorf("failed to encode resume data: %w", err)
	}

	sql, args, err := r.sb.Insert("resumes").
		Columns("user_id", "title", "template", "data").
		Values(res.UserID, res.Title, res.Template, squirrel.Expr("?::jsonb", string(data))).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create resume query: %w", err)
	}

	if err := tx.QueryRow(ctx, sql, args...).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt); err != nil {
		logger.Error().Err(err).Int64("userID", res.UserID).Msg("Error creating resume")
		return fmt.Errorf("error creating resume: %w", err)
	}
	return nil
}

// GetByID retrieves a resume
func (r *ResumeRepository) GetByID(ctx context.Context, id int64) (*models.Resume, error) {
	sql, args, err := r.sb.Select(resumeColumns...).From("resumes").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get resume query: %w", err)
	}

	res, err := scanResume(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrResumeNotFound
		}
		logger.Error().Err(err).Int64("resumeID", id).Msg("Error getting resume")
		return nil, fmt.Errorf("error retrieving resume: %w", err)
	}
	return res, nil
}

// ListByUser returns all resumes of a user, last edited first
func (r *ResumeRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Resume, error) {
	sql, args, err := r.sb.Select(resumeColumns...).
		From("resumes").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("updated_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list resumes query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error listing resumes")
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	resumes := []*models.Resume{}
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume row: %w", err)
		}
		resumes = append(resumes, res)
	}
	return resumes, rows.Err()
}

// CountByUser counts the resumes a user keeps
func (r *ResumeRepository) CountByUser(ctx context.Context, tx db.DBTX, userID int64) (int, error) {
	total, err := countRows(ctx, tx,
		r.sb.Select("COUNT(*)").From("resumes").Where(squirrel.Eq{"user_id": userID}),
		"resumes")
	return int(total), err
}

// Update writes the title, template and data of a resume
func (r *ResumeRepository) Update(ctx context.Context, res *models.Resume) error {
	data, err := json.Marshal(res.Data)
	if err != nil {
		return fmt.Errorf("failed to encode resume data: %w", err)
	}

	res.UpdatedAt = time.Now()
	sql, args, err := r.sb.Update("resumes").
		Set("title", res.Title).
		Set("template", res.Template).
		Set("data", squirrel.Expr("?::jsonb", string(data))).
		Set("updated_at", res.UpdatedAt).
		Where(squirrel.Eq{"id": res.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update resume query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("resumeID", res.ID).Msg("Error updating resume")
		return fmt.Errorf("error updating resume: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResumeNotFound
	}
	return nil
}

// Delete removes a resume
func (r *ResumeRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("resumes").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete resume query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting resume: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResumeNotFound
	}
	return nil
}

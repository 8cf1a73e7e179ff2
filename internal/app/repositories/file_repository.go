package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/db"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
	"github.com/yigit/eventhub/internal/pkg/logger"
)

var fileColumns = []string{
	"id", "file_name", "storage_key", "public_url", "file_size", "mime_type", "kind",
	"resource_type", "resource_id", "COALESCE(uploaded_by, 0)", "visibility", "created_at",
}

// FileRepository handles database operations for file metadata
type FileRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewFileRepository creates a new FileRepository
func NewFileRepository(conn db.DBTX) *FileRepository {
	return &FileRepository{db: conn, sb: newStatementBuilder()}
}

func scanFile(row rowScanner) (*models.File, error) {
	var f models.File
	err := row.Scan(&f.ID, &f.FileName, &f.StorageKey, &f.PublicURL, &f.FileSize, &f.MimeType, &f.Kind,
		&f.ResourceType, &f.ResourceID, &f.UploadedBy, &f.Visibility, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Create inserts a file row
func (r *FileRepository) Create(ctx context.Context, f *models.File) error {
	sql, args, err := r.sb.Insert("files").
		Columns("file_name", "storage_key", "public_url", "file_size", "mime_type", "kind",
			"resource_type", "resource_id", "uploaded_by", "visibility").
		Values(f.FileName, f.StorageKey, f.PublicURL, f.FileSize, f.MimeType, f.Kind,
			f.ResourceType, f.ResourceID, f.UploadedBy, f.Visibility).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create file query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&f.ID, &f.CreatedAt); err != nil {
		logger.Error().Err(err).Str("storageKey", f.StorageKey).Msg("Error creating file")
		return fmt.Errorf("error creating file: %w", err)
	}
	return nil
}

// GetByID retrieves a file by ID
func (r *FileRepository) GetByID(ctx context.Context, id int64) (*models.File, error) {
	sql, args, err := r.sb.Select(fileColumns...).From("files").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get file query: %w", err)
	}

	f, err := scanFile(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrFileNotFound
		}
		logger.Error().Err(err).Int64("fileID", id).Msg("Error getting file")
		return nil, fmt.Errorf("error getting file: %w", err)
	}
	return f, nil
}

// ListByResource returns the files of one kind attached to a record, newest first
func (r *FileRepository) ListByResource(ctx context.Context, resourceType models.FileResourceType, resourceID int64, kind string) ([]*models.File, error) {
	sql, args, err := r.sb.Select(fileColumns...).
		From("files").
		Where(squirrel.Eq{"resource_type": resourceType, "resource_id": resourceID, "kind": kind}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list files query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("resourceID", resourceID).Msg("Error listing files")
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	files := []*models.File{}
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file row: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// ListByResourceAll returns every file attached to a record regardless of kind
func (r *FileRepository) ListByResourceAll(ctx context.Context, resourceType models.FileResourceType, resourceID int64) ([]*models.File, error) {
	sql, args, err := r.sb.Select(fileColumns...).
		From("files").
		Where(squirrel.Eq{"resource_type": resourceType, "resource_id": resourceID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list files query: %w", err)
	}

	return r.query(ctx, sql, args)
}

func (r *FileRepository) query(ctx context.Context, sql string, args []any) ([]*models.File, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	files := []*models.File{}
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file row: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// ListForCompanyEvents returns the files attached to any event of a company
func (r *FileRepository) ListForCompanyEvents(ctx context.Context, companyID int64) ([]*models.File, error) {
	sql, args, err := r.sb.Select(fileColumns...).
		From("files").
		Where(squirrel.Eq{"resource_type": models.FileResourceEvent}).
		Where(squirrel.Expr("resource_id IN (SELECT id FROM events WHERE company_id = ?)", companyID)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list event files query: %w", err)
	}
	return r.query(ctx, sql, args)
}

// Delete deletes a file row
func (r *FileRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("files").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete file query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("fileID", id).Msg("Error deleting file")
		return fmt.Errorf("error deleting file: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrFileNotFound
	}
	return nil
}

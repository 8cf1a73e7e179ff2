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

var companyColumns = []string{
	"id", "owner_id", "name", "slug", "description", "website", "email", "phone",
	"industry", "size", "location", "logo_file_id", "banner_file_id",
	"verification_status", "verification_notes", "verified_by", "verified_at",
	"created_at", "updated_at",
}

// CompanyRepository handles company database operations
type CompanyRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewCompanyRepository creates a new CompanyRepository
func NewCompanyRepository(conn db.DBTX) *CompanyRepository {
	return &CompanyRepository{db: conn, sb: newStatementBuilder()}
}

func scanCompany(row rowScanner) (*models.Company, error) {
	var c models.Company
	err := row.Scan(
		&c.ID, &c.OwnerID, &c.Name, &c.Slug, &c.Description, &c.Website, &c.Email, &c.Phone,
		&c.Industry, &c.Size, &c.Location, &c.LogoFileID, &c.BannerFileID,
		&c.VerificationStatus, &c.VerificationNotes, &c.VerifiedBy, &c.VerifiedAt,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func companyWriteError(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, "companies_owner_id_key"):
		return apperrors.ErrOwnerAlreadyHasCompany
	case dberrors.IsDuplicateConstraintError(err, "companies_slug_key"):
		return apperrors.ErrCompanyAlreadyExists
	}
	return nil
}

// Create inserts a company
func (r *CompanyRepository) Create(ctx context.Context, c *models.Company) error {
	sql, args, err := r.sb.Insert("companies").
		Columns("owner_id", "name", "slug", "description", "website", "email", "phone",
			"industry", "size", "location", "verification_status").
		Values(c.OwnerID, c.Name, c.Slug, c.Description, c.Website, c.Email, c.Phone,
			c.Industry, c.Size, c.Location, c.VerificationStatus).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create company query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if mapped := companyWriteError(err); mapped != nil {
			return mapped
		}
		logger.Error().Err(err).Int64("ownerID", c.OwnerID).Msg("Error creating company")
		return fmt.Errorf("error creating company: %w", err)
	}
	return nil
}

func (r *CompanyRepository) getBy(ctx context.Context, where squirrel.Sqlizer) (*models.Company, error) {
	sql, args, err := r.sb.Select(companyColumns...).
		From("companies").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get company query: %w", err)
	}

	c, err := scanCompany(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrCompanyNotFound
		}
		logger.Error().Err(err).Msg("Error getting company")
		return nil, fmt.Errorf("error retrieving company: %w", err)
	}
	return c, nil
}

// GetByID retrieves a company by ID
func (r *CompanyRepository) GetByID(ctx context.Context, id int64) (*models.Company, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByOwnerID retrieves the company owned by a user
func (r *CompanyRepository) GetByOwnerID(ctx context.Context, ownerID int64) (*models.Company, error) {
	return r.getBy(ctx, squirrel.Eq{"owner_id": ownerID})
}

// Update writes the profile fields and status of a company
func (r *CompanyRepository) Update(ctx context.Context, c *models.Company) error {
	c.UpdatedAt = time.Now()
	sql, args, err := r.sb.Update("companies").
		SetMap(map[string]any{
			"name":                c.Name,
			"slug":                c.Slug,
			"description":         c.Description,
			"website":             c.Website,
			"email":               c.Email,
			"phone":               c.Phone,
			"industry":            c.Industry,
			"size":                c.Size,
			"location":            c.Location,
			"verification_status": c.VerificationStatus,
			"updated_at":          c.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": c.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update company query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if mapped := companyWriteError(err); mapped != nil {
			return mapped
		}
		logger.Error().Err(err).Int64("companyID", c.ID).Msg("Error updating company")
		return fmt.Errorf("error updating company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCompanyNotFound
	}
	return nil
}

// UpdateVerification stores a review decision. The row is only updated while it is
// still in status from; otherwise a concurrent review won and ErrInvalidStatusTransition is returned.
func (r *CompanyRepository) UpdateVerification(ctx context.Context, c *models.Company, from models.CompanyStatus) error {
	c.UpdatedAt = time.Now()
	sql, args, err := r.buildVerificationUpdate(c, from).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update verification query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("companyID", c.ID).Msg("Error updating company verification")
		return fmt.Errorf("error updating company verification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewCustomError(apperrors.ErrInvalidStatusTransition,
			"the company was reviewed concurrently, reload and try again")
	}
	return nil
}

func (r *CompanyRepository) buildVerificationUpdate(c *models.Company, from models.CompanyStatus) squirrel.UpdateBuilder {
	return r.sb.Update("companies").
		Set("verification_status", c.VerificationStatus).
		Set("verification_notes", c.VerificationNotes).
		Set("verified_by", c.VerifiedBy).
		Set("verified_at", c.VerifiedAt).
		Set("updated_at", c.UpdatedAt).
		Where(squirrel.Eq{"id": c.ID, "verification_status": from})
}

// SetLogo points the company at a logo file
func (r *CompanyRepository) SetLogo(ctx context.Context, id int64, fileID *int64) error {
	return r.setFile(ctx, id, "logo_file_id", fileID)
}

// SetBanner points the company at a banner file
func (r *CompanyRepository) SetBanner(ctx context.Context, id int64, fileID *int64) error {
	return r.setFile(ctx, id, "banner_file_id", fileID)
}

func (r *CompanyRepository) setFile(ctx context.Context, id int64, column string, fileID *int64) error {
	sql, args, err := r.sb.Update("companies").
		Set(column, fileID).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set company file query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating company %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCompanyNotFound
	}
	return nil
}

// Delete removes a company; events and internships cascade
func (r *CompanyRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("companies").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete company query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("companyID", id).Msg("Error deleting company")
		return fmt.Errorf("error deleting company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCompanyNotFound
	}
	return nil
}

func companyFilterCondition(filter models.CompanyFilter) squirrel.And {
	where := squirrel.And{}
	if filter.Status != nil {
		where = append(where, squirrel.Eq{"verification_status": *filter.Status})
	}
	if s := strings.TrimSpace(filter.Industry); s != "" {
		where = append(where, squirrel.ILike{"industry": s})
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := helpers.ContainsPattern(s)
		where = append(where, squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"industry": pattern},
			squirrel.ILike{"location": pattern},
		})
	}
	return where
}

// List returns a page of companies ordered by name
func (r *CompanyRepository) List(ctx context.Context, filter models.CompanyFilter) ([]*models.Company, int64, error) {
	where := companyFilterCondition(filter)

	total, err := countRows(ctx, r.db, r.sb.Select("COUNT(*)").From("companies").Where(where), "companies")
	if err != nil || total == 0 {
		return []*models.Company{}, total, err
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.Size)
	sql, args, err := r.sb.Select(companyColumns...).
		From("companies").
		Where(where).
		OrderBy("name ASC", "id ASC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list companies query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing companies")
		return nil, 0, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	companies := make([]*models.Company, 0, limit)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan company row: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, total, rows.Err()
}

// CountByStatus returns the number of companies per verification status
func (r *CompanyRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countGrouped(ctx, r.db,
		r.sb.Select("verification_status", "COUNT(*)").From("companies").GroupBy("verification_status"),
		"companies by status")
}

package services

import (
	"context"
	"errors"

	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
)

// companyAccess answers ownership questions shared by the company, event,
// registration and internship services.
type companyAccess struct {
	companies CompanyStore
}

// manageable loads a company the actor may manage: its owner or an admin.
func (a companyAccess) manageable(ctx context.Context, actor models.Actor, companyID int64) (*models.Company, error) {
	company, err := a.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() || (actor.ID != 0 && company.OwnerID == actor.ID) {
		return company, nil
	}
	return nil, apperrors.NewForbiddenError("you do not manage this company")
}

// verifiedOwned returns the actor's own company and requires it to be VERIFIED.
func (a companyAccess) verifiedOwned(ctx context.Context, actor models.Actor) (*models.Company, error) {
	if actor.Role != models.RoleCompany {
		return nil, apperrors.NewForbiddenError("only company accounts can publish")
	}
	company, err := a.companies.GetByOwnerID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrCompanyNotFound) {
			return nil, apperrors.NewForbiddenError("register a company first")
		}
		return nil, err
	}
	if !company.IsVerified() {
		return nil, apperrors.NewCustomError(apperrors.ErrCompanyNotVerified, "your company must be verified first")
	}
	return company, nil
}

// ownsCompany reports whether the actor owns companyID, ignoring lookup failures
func (a companyAccess) ownsCompany(ctx context.Context, actor models.Actor, companyID int64) bool {
	if actor.ID == 0 || actor.Role != models.RoleCompany {
		return false
	}
	company, err := a.companies.GetByID(ctx, companyID)
	return err == nil && company.OwnerID == actor.ID
}

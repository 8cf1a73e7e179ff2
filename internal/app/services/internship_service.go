package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/app/models/dto"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
)

// InternshipService manages internship postings
type InternshipService interface {
	Create(ctx context.Context, actor models.Actor, req *dto.InternshipRequest) (*models.Internship, error)
	Get(ctx context.Context, actor models.Actor, id int64) (*models.Internship, error)
	List(ctx context.Context, actor models.Actor, filter models.InternshipFilter) ([]*models.Internship, int64, error)
	Update(ctx context.Context, actor models.Actor, id int64, req *dto.InternshipRequest) (*models.Internship, error)
	Close(ctx context.Context, actor models.Actor, id int64) (*models.Internship, error)
	Delete(ctx context.Context, actor models.Actor, id int64) error
}

type internshipServiceImpl struct {
	companyAccess
	internships InternshipStore
	audit       AuditService
	logger      zerolog.Logger
}

// NewInternshipService creates a new InternshipService
func NewInternshipService(internships InternshipStore, companies CompanyStore, audit AuditService, logger zerolog.Logger) InternshipService {
	return &internshipServiceImpl{
		companyAccess: companyAccess{companies: companies},
		internships:   internships,
		audit:         audit,
		logger:        logger,
	}
}

func (s *internshipServiceImpl) Create(ctx context.Context, actor models.Actor, req *dto.InternshipRequest) (*models.Internship, error) {
	company, err := s.verifiedOwned(ctx, actor)
	if err != nil {
		return nil, err
	}

	internship := &models.Internship{CompanyID: company.ID, Status: models.InternshipOpen}
	req.Apply(internship)
	if err := s.internships.Create(ctx, internship); err != nil {
		return nil, err
	}
	internship.CompanyName = company.Name

	s.logger.Info().Int64("internshipID", internship.ID).Int64("companyID", company.ID).Msg("Internship posted")
	return internship, nil
}

// Get returns an internship. Postings of unverified companies are hidden from the public.
func (s *internshipServiceImpl) Get(ctx context.Context, actor models.Actor, id int64) (*models.Internship, error) {
	internship, err := s.internships.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() {
		return internship, nil
	}

	company, err := s.companies.GetByID(ctx, internship.CompanyID)
	if err != nil {
		return nil, err
	}
	if company.IsVerified() || (actor.ID != 0 && company.OwnerID == actor.ID) {
		return internship, nil
	}
	return nil, apperrors.ErrInternshipNotFound
}

// List shows open postings of verified companies; admins and owners browsing their own company see everything
func (s *internshipServiceImpl) List(ctx context.Context, actor models.Actor, filter models.InternshipFilter) ([]*models.Internship, int64, error) {
	filter.PublicOnly = !actor.IsAdmin() &&
		!(filter.CompanyID != nil && s.ownsCompany(ctx, actor, *filter.CompanyID))
	filter.Now = timeNow()
	return s.internships.List(ctx, filter)
}

// editable loads an internship the actor may change: admins always, owners only while verified
func (s *internshipServiceImpl) editable(ctx context.Context, actor models.Actor, id int64) (*models.Internship, error) {
	internship, err := s.internships.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() {
		return internship, nil
	}

	company, err := s.verifiedOwned(ctx, actor)
	if err != nil {
		return nil, err
	}
	if company.ID != internship.CompanyID {
		return nil, apperrors.ErrInternshipNotFound
	}
	return internship, nil
}

func (s *internshipServiceImpl) Update(ctx context.Context, actor models.Actor, id int64, req *dto.InternshipRequest) (*models.Internship, error) {
	internship, err := s.editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	req.Apply(internship)
	if err := s.internships.Update(ctx, internship); err != nil {
		return nil, err
	}
	return internship, nil
}

// Close stops accepting applications. Closing a closed internship is a no-op.
func (s *internshipServiceImpl) Close(ctx context.Context, actor models.Actor, id int64) (*models.Internship, error) {
	internship, err := s.editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if internship.Status == models.InternshipClosed {
		return internship, nil
	}

	internship.Status = models.InternshipClosed
	if err := s.internships.Update(ctx, internship); err != nil {
		return nil, err
	}
	if actor.IsAdmin() {
		recordBestEffort(ctx, s.audit, s.logger, actor, models.AuditInternshipClose, "internship", id, nil)
	}
	return internship, nil
}

func (s *internshipServiceImpl) Delete(ctx context.Context, actor models.Actor, id int64) error {
	if _, err := s.editable(ctx, actor, id); err != nil {
		return err
	}
	return s.internships.Delete(ctx, id)
}

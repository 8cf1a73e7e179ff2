package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/app/models/dto"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
	"github.com/yigit/eventhub/internal/pkg/email"
	"github.com/yigit/eventhub/internal/pkg/filestorage"
	"github.com/yigit/eventhub/internal/pkg/helpers"
	"github.com/yigit/eventhub/internal/pkg/validation"
)

// CompanyService manages company profiles and their verification
type CompanyService interface {
	Register(ctx context.Context, actor models.Actor, req *dto.CompanyRequest) (*dto.CompanyResponse, error)
	Get(ctx context.Context, actor models.Actor, id int64) (*dto.CompanyResponse, error)
	GetMine(ctx context.Context, actor models.Actor) (*dto.CompanyResponse, error)
	List(ctx context.Context, actor models.Actor, filter models.CompanyFilter) ([]*dto.CompanyResponse, int64, error)
	Update(ctx context.Context, actor models.Actor, id int64, req *dto.CompanyRequest) (*dto.CompanyResponse, error)
	Delete(ctx context.Context, actor models.Actor, id int64) error
	UploadImage(ctx context.Context, actor models.Actor, id int64, kind filestorage.UploadKind, fileName string, content io.Reader) (*dto.CompanyResponse, error)
	UploadDocument(ctx context.Context, actor models.Actor, id int64, fileName string, content io.Reader) (*dto.FileResponse, error)
	ListDocuments(ctx context.Context, actor models.Actor, id int64) ([]dto.FileResponse, error)
	Review(ctx context.Context, actor models.Actor, id int64, req *dto.ReviewCompanyRequest) (*dto.CompanyResponse, error)
}

type companyServiceImpl struct {
	companyAccess
	users  UserStore
	fileDB FileStore
	files  FileService
	audit  AuditService
	mailer email.EmailService
	logger zerolog.Logger
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(
	companies CompanyStore,
	users UserStore,
	fileDB FileStore,
	files FileService,
	audit AuditService,
	mailer email.EmailService,
	logger zerolog.Logger,
) CompanyService {
	return &companyServiceImpl{
		companyAccess: companyAccess{companies: companies},
		users:         users,
		fileDB:        fileDB,
		files:         files,
		audit:         audit,
		mailer:        mailer,
		logger:        logger,
	}
}

func applyCompanyRequest(req *dto.CompanyRequest, c *models.Company) error {
	trimmed := *req
	trimmed.Name = strings.TrimSpace(req.Name)
	trimmed.Website = strings.TrimSpace(req.Website)
	trimmed.Email = strings.ToLower(strings.TrimSpace(req.Email))
	trimmed.Phone = strings.TrimSpace(req.Phone)
	trimmed.Industry = strings.TrimSpace(req.Industry)
	trimmed.Size = strings.TrimSpace(req.Size)
	trimmed.Location = strings.TrimSpace(req.Location)

	n := utf8.RuneCountInString(trimmed.Name)
	if n < validation.NameMinLength || n > validation.NameMaxLength {
		return apperrors.NewValidationError("name must be between 2 and 150 characters")
	}
	slug := models.Slugify(trimmed.Name)
	if slug == "" {
		return apperrors.NewValidationError("name must contain letters or digits")
	}
	if trimmed.Website != "" && !validation.IsHTTPURL(trimmed.Website) {
		return apperrors.NewValidationError("website must be a valid http(s) URL")
	}

	trimmed.Apply(c)
	c.Slug = slug
	return nil
}

// Register creates the actor's company in PENDING status. An owner has at most one company.
func (s *companyServiceImpl) Register(ctx context.Context, actor models.Actor, req *dto.CompanyRequest) (*dto.CompanyResponse, error) {
	if actor.Role != models.RoleCompany {
		return nil, apperrors.NewForbiddenError("only company accounts can register a company")
	}

	company := &models.Company{OwnerID: actor.ID, VerificationStatus: models.CompanyPending}
	if err := applyCompanyRequest(req, company); err != nil {
		return nil, err
	}

	if err := s.companies.Create(ctx, company); err != nil {
		return nil, conflictMessage(err)
	}

	s.logger.Info().Int64("companyID", company.ID).Int64("ownerID", actor.ID).Msg("Company registered")
	return s.response(ctx, company), nil
}

func conflictMessage(err error) error {
	switch {
	case errors.Is(err, apperrors.ErrOwnerAlreadyHasCompany):
		return apperrors.NewCustomError(apperrors.ErrOwnerAlreadyHasCompany, "you already have a company")
	case errors.Is(err, apperrors.ErrCompanyAlreadyExists):
		return apperrors.NewCustomError(apperrors.ErrCompanyAlreadyExists, "a company with this name already exists")
	}
	return err
}

// Get returns a company. Unverified companies are visible to their owner and admins only.
func (s *companyServiceImpl) Get(ctx context.Context, actor models.Actor, id int64) (*dto.CompanyResponse, error) {
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !company.IsVerified() && !actor.IsAdmin() && (actor.ID == 0 || company.OwnerID != actor.ID) {
		return nil, apperrors.ErrCompanyNotFound
	}
	return s.response(ctx, company), nil
}

func (s *companyServiceImpl) GetMine(ctx context.Context, actor models.Actor) (*dto.CompanyResponse, error) {
	company, err := s.companies.GetByOwnerID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return s.response(ctx, company), nil
}

// List pages through companies. Only admins may see or filter by other statuses.
func (s *companyServiceImpl) List(ctx context.Context, actor models.Actor, filter models.CompanyFilter) ([]*dto.CompanyResponse, int64, error) {
	if !actor.IsAdmin() {
		verified := models.CompanyVerified
		filter.Status = &verified
	}

	companies, total, err := s.companies.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.CompanyResponse, 0, len(companies))
	for _, c := range companies {
		items = append(items, s.response(ctx, c))
	}
	return items, total, nil
}

// Update edits the profile. An owner editing a rejected company resubmits it for review.
func (s *companyServiceImpl) Update(ctx context.Context, actor models.Actor, id int64, req *dto.CompanyRequest) (*dto.CompanyResponse, error) {
	company, err := s.manageable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := applyCompanyRequest(req, company); err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && company.VerificationStatus == models.CompanyRejected {
		company.VerificationStatus = models.CompanyPending
	}

	if err := s.companies.Update(ctx, company); err != nil {
		return nil, conflictMessage(err)
	}
	return s.response(ctx, company), nil
}

// Delete removes the company and the files of the company and its events
func (s *companyServiceImpl) Delete(ctx context.Context, actor models.Actor, id int64) error {
	company, err := s.manageable(ctx, actor, id)
	if err != nil {
		return err
	}

	files, err := s.fileDB.ListByResourceAll(ctx, models.FileResourceCompany, id)
	if err != nil {
		return err
	}
	eventFiles, err := s.fileDB.ListForCompanyEvents(ctx, id)
	if err != nil {
		return err
	}

	if err := s.companies.Delete(ctx, id); err != nil {
		return err
	}

	for _, f := range append(files, eventFiles...) {
		if err := s.files.Delete(ctx, f); err != nil {
			s.logger.Warn().Err(err).Int64("fileID", f.ID).Msg("Could not delete company file")
		}
	}

	if actor.IsAdmin() {
		recordBestEffort(ctx, s.audit, s.logger, actor, models.AuditCompanyDelete, "company", id,
			map[string]any{"name": company.Name})
	}
	s.logger.Info().Int64("companyID", id).Int64("actorID", actor.ID).Msg("Company deleted")
	return nil
}

// UploadImage replaces the logo or banner of a company
func (s *companyServiceImpl) UploadImage(ctx context.Context, actor models.Actor, id int64, kind filestorage.UploadKind, fileName string, content io.Reader) (*dto.CompanyResponse, error) {
	if kind != filestorage.KindCompanyLogo && kind != filestorage.KindCompanyBanner {
		return nil, apperrors.NewBadRequestError("kind must be COMPANY_LOGO or COMPANY_BANNER")
	}
	company, err := s.manageable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	file, err := s.files.Upload(ctx, Upload{
		Kind:         kind,
		FileName:     fileName,
		Content:      content,
		ResourceType: models.FileResourceCompany,
		ResourceID:   id,
		UploadedBy:   actor.ID,
	})
	if err != nil {
		return nil, err
	}

	previous := company.LogoFileID
	set := s.companies.SetLogo
	if kind == filestorage.KindCompanyBanner {
		previous = company.BannerFileID
		set = s.companies.SetBanner
	}
	if err := set(ctx, id, &file.ID); err != nil {
		s.files.DeleteQuietly(ctx, &file.ID)
		return nil, err
	}
	s.files.DeleteQuietly(ctx, previous)

	if kind == filestorage.KindCompanyBanner {
		company.BannerFileID = &file.ID
	} else {
		company.LogoFileID = &file.ID
	}
	return s.response(ctx, company), nil
}

// UploadDocument stores a private verification document. Only the owner uploads documents.
func (s *companyServiceImpl) UploadDocument(ctx context.Context, actor models.Actor, id int64, fileName string, content io.Reader) (*dto.FileResponse, error) {
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company.OwnerID != actor.ID {
		return nil, apperrors.NewForbiddenError("only the company owner can upload verification documents")
	}

	file, err := s.files.Upload(ctx, Upload{
		Kind:         filestorage.KindCompanyDocument,
		FileName:     fileName,
		Content:      content,
		ResourceType: models.FileResourceCompany,
		ResourceID:   id,
		UploadedBy:   actor.ID,
	})
	if err != nil {
		return nil, err
	}

	resp, err := s.files.Response(file)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListDocuments returns verification documents with freshly signed download URLs
func (s *companyServiceImpl) ListDocuments(ctx context.Context, actor models.Actor, id int64) ([]dto.FileResponse, error) {
	if _, err := s.manageable(ctx, actor, id); err != nil {
		return nil, err
	}

	files, err := s.fileDB.ListByResource(ctx, models.FileResourceCompany, id, string(filestorage.KindCompanyDocument))
	if err != nil {
		return nil, err
	}

	docs := make([]dto.FileResponse, 0, len(files))
	for _, f := range files {
		resp, err := s.files.Response(f)
		if err != nil {
			return nil, err
		}
		docs = append(docs, resp)
	}
	return docs, nil
}

// Review applies an admin verification decision, audits it and notifies the company
func (s *companyServiceImpl) Review(ctx context.Context, actor models.Actor, id int64, req *dto.ReviewCompanyRequest) (*dto.CompanyResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only admins can review companies")
	}

	notes := strings.TrimSpace(req.Notes)
	if req.Decision.RequiresNotes() && notes == "" {
		return nil, apperrors.NewValidationError("notes are required when rejecting or suspending a company")
	}

	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := company.VerificationStatus
	next, err := models.NextCompanyStatus(from, req.Decision)
	if err != nil {
		return nil, err
	}

	company.VerificationStatus = next
	company.VerificationNotes = helpers.NullableString(notes)
	if next == models.CompanyVerified {
		now := timeNow()
		reviewer := actor.ID
		company.VerifiedBy = &reviewer
		company.VerifiedAt = &now
	}
	if err := s.companies.UpdateVerification(ctx, company, from); err != nil {
		return nil, err
	}

	recordBestEffort(ctx, s.audit, s.logger, actor, models.AuditCompanyReview, "company", id, map[string]any{
		"decision": req.Decision,
		"from":     from,
		"to":       next,
		"notes":    notes,
	})

	s.notifyReview(ctx, company)

	s.logger.Info().
		Int64("companyID", id).
		Str("from", string(from)).
		Str("to", string(next)).
		Int64("adminID", actor.ID).
		Msg("Company reviewed")
	return s.response(ctx, company), nil
}

// notifyReview emails the decision in the background. Failures are only logged.
func (s *companyServiceImpl) notifyReview(ctx context.Context, company *models.Company) {
	if s.mailer == nil {
		return
	}

	msg := email.CompanyReviewMessage{
		ToEmail:     company.Email,
		CompanyName: company.Name,
		CompanyID:   company.ID,
		Status:      string(company.VerificationStatus),
		Notes:       helpers.StringValue(company.VerificationNotes),
	}
	if owner, err := s.users.GetByID(ctx, company.OwnerID); err == nil {
		msg.ToName = owner.FullName()
		if msg.ToEmail == "" {
			msg.ToEmail = owner.Email
		}
	}
	if msg.ToEmail == "" {
		s.logger.Warn().Int64("companyID", company.ID).Msg("No recipient for review email")
		return
	}

	go func() {
		if err := s.mailer.SendCompanyReviewEmail(msg); err != nil {
			s.logger.Error().Err(err).Int64("companyID", msg.CompanyID).Msg("Failed to send review email")
		}
	}()
}

func (s *companyServiceImpl) response(ctx context.Context, c *models.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		Company:   c,
		LogoURL:   s.imageURL(ctx, c.LogoFileID),
		BannerURL: s.imageURL(ctx, c.BannerFileID),
	}
}

func (s *companyServiceImpl) imageURL(ctx context.Context, fileID *int64) string {
	if fileID == nil {
		return ""
	}
	file, err := s.files.Get(ctx, *fileID)
	if err != nil {
		return ""
	}
	u, err := s.files.URL(file)
	if err != nil {
		return ""
	}
	return u
}

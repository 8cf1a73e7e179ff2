package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/app/models/dto"
	"github.com/yigit/eventhub/internal/db"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
)

// ResumeService manages the resume builder documents of a user
type ResumeService interface {
	Create(ctx context.Context, userID int64, req *dto.ResumeRequest) (*models.Resume, error)
	Get(ctx context.Context, userID, id int64) (*models.Resume, error)
	List(ctx context.Context, userID int64) ([]*models.Resume, error)
	Update(ctx context.Context, userID, id int64, req *dto.ResumeRequest) (*models.Resume, error)
	Delete(ctx context.Context, userID, id int64) error
	RenderMarkdown(ctx context.Context, userID, id int64) (string, error)
}

type resumeServiceImpl struct {
	resumes ResumeStore
	tx      db.Transactor
	logger  zerolog.Logger
}

// NewResumeService creates a new ResumeService
func NewResumeService(resumes ResumeStore, tx db.Transactor, logger zerolog.Logger) ResumeService {
	return &resumeServiceImpl{resumes: resumes, tx: tx, logger: logger}
}

func applyResumeRequest(req *dto.ResumeRequest, res *models.Resume) error {
	res.Title = strings.TrimSpace(req.Title)
	if res.Title == "" {
		return apperrors.NewValidationError("title is required")
	}
	res.Template = models.ResumeTemplate(req.Template)
	if res.Template == "" {
		res.Template = models.TemplateClassic
	}
	if res.Template != models.TemplateClassic && res.Template != models.TemplateModern {
		return apperrors.NewValidationError("template must be classic or modern")
	}
	res.Data = req.Data
	return nil
}

// Create stores a new resume. The owner row is locked while counting so the per-user cap holds under concurrent creates.
func (s *resumeServiceImpl) Create(ctx context.Context, userID int64, req *dto.ResumeRequest) (*models.Resume, error) {
	res := &models.Resume{UserID: userID}
	if err := applyResumeRequest(req, res); err != nil {
		return nil, err
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.resumes.LockOwner(ctx, tx, userID); err != nil {
			return err
		}
		count, err := s.resumes.CountByUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		if count >= models.MaxResumesPerUser {
			return apperrors.NewCustomError(apperrors.ErrResumeLimitReached,
				fmt.Sprintf("you can keep at most %d resumes", models.MaxResumesPerUser))
		}
		return s.resumes.Create(ctx, tx, res)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Get returns one of the user's resumes. Other users' resumes look missing.
func (s *resumeServiceImpl) Get(ctx context.Context, userID, id int64) (*models.Resume, error) {
	res, err := s.resumes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.UserID != userID {
		return nil, apperrors.ErrResumeNotFound
	}
	return res, nil
}

func (s *resumeServiceImpl) List(ctx context.Context, userID int64) ([]*models.Resume, error) {
	return s.resumes.ListByUser(ctx, userID)
}

func (s *resumeServiceImpl) Update(ctx context.Context, userID, id int64, req *dto.ResumeRequest) (*models.Resume, error) {
	res, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := applyResumeRequest(req, res); err != nil {
		return nil, err
	}
	if err := s.resumes.Update(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *resumeServiceImpl) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.resumes.Delete(ctx, id)
}

func (s *resumeServiceImpl) RenderMarkdown(ctx context.Context, userID, id int64) (string, error) {
	res, err := s.Get(ctx, userID, id)
	if err != nil {
		return "", err
	}
	return RenderResumeMarkdown(res), nil
}

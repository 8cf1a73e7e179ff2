package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/app/models/dto"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
)

func newCompanyService(companies *mockCompanyStore, audit AuditService) CompanyService {
	return NewCompanyService(companies, new(mockUserStore), nil, nil, audit, nil, zerolog.Nop())
}

func TestCompanyReviewTransitions(t *testing.T) {
	admin := models.Actor{ID: 1, Email: "admin@example.com", Role: models.RoleAdmin}

	tests := []struct {
		name     string
		from     models.CompanyStatus
		decision models.ReviewDecision
		notes    string
		want     models.CompanyStatus
		wantErr  error
	}{
		{"approve pending", models.CompanyPending, models.ReviewApprove, "", models.CompanyVerified, nil},
		{"reject pending", models.CompanyPending, models.ReviewReject, "missing documents", models.CompanyRejected, nil},
		{"suspend verified", models.CompanyVerified, models.ReviewSuspend, "spam", models.CompanySuspended, nil},
		{"reinstate suspended", models.CompanySuspended, models.ReviewReinstate, "", models.CompanyVerified, nil},
		{"approve rejected", models.CompanyRejected, models.ReviewApprove, "", models.CompanyVerified, nil},
		{"approve verified", models.CompanyVerified, models.ReviewApprove, "", "", apperrors.ErrInvalidStatusTransition},
		{"reinstate pending", models.CompanyPending, models.ReviewReinstate, "", "", apperrors.ErrInvalidStatusTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixClock(t, testNow)
			companies := new(mockCompanyStore)
			audit := &recordingAudit{}
			svc := newCompanyService(companies, audit)

			companies.On("GetByID", mock.Anything, int64(3)).
				Return(&models.Company{ID: 3, OwnerID: 8, Name: "Acme", VerificationStatus: tt.from}, nil).Once()
			if tt.wantErr == nil {
				companies.On("UpdateVerification", mock.Anything, mock.AnythingOfType("*models.Company"), tt.from).Return(nil).Once()
			}

			resp, err := svc.Review(context.Background(), admin, 3, &dto.ReviewCompanyRequest{Decision: tt.decision, Notes: tt.notes})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, audit.actions)
				companies.AssertNotCalled(t, "UpdateVerification", mock.Anything, mock.Anything, mock.Anything)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Company.VerificationStatus)
			assert.Equal(t, []string{models.AuditCompanyReview}, audit.actions)
			if tt.want == models.CompanyVerified {
				require.NotNil(t, resp.Company.VerifiedBy)
				assert.Equal(t, int64(1), *resp.Company.VerifiedBy)
				require.NotNil(t, resp.Company.VerifiedAt)
				assert.True(t, resp.Company.VerifiedAt.Equal(testNow))
			}
			companies.AssertExpectations(t)
		})
	}
}

func TestCompanyReviewLosesConcurrentReview(t *testing.T) {
	companies := new(mockCompanyStore)
	audit := &recordingAudit{}
	svc := newCompanyService(companies, audit)
	admin := models.Actor{ID: 1, Role: models.RoleAdmin}

	companies.On("GetByID", mock.Anything, int64(3)).
		Return(&models.Company{ID: 3, OwnerID: 8, Name: "Acme", VerificationStatus: models.CompanyPending}, nil).Once()
	companies.On("UpdateVerification", mock.Anything, mock.Anything, models.CompanyPending).
		Return(apperrors.NewCustomError(apperrors.ErrInvalidStatusTransition, "reviewed concurrently")).Once()

	_, err := svc.Review(context.Background(), admin, 3, &dto.ReviewCompanyRequest{Decision: models.ReviewApprove})
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition)
	assert.Empty(t, audit.actions)
	companies.AssertExpectations(t)
}

func TestCompanyReviewRequiresNotes(t *testing.T) {
	companies := new(mockCompanyStore)
	svc := newCompanyService(companies, &recordingAudit{})
	admin := models.Actor{ID: 1, Role: models.RoleAdmin}

	for _, decision := range []models.ReviewDecision{models.ReviewReject, models.ReviewSuspend} {
		_, err := svc.Review(context.Background(), admin, 3, &dto.ReviewCompanyRequest{Decision: decision, Notes: "   "})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed, string(decision))
	}
	companies.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCompanyReviewAdminOnly(t *testing.T) {
	svc := newCompanyService(new(mockCompanyStore), &recordingAudit{})
	owner := models.Actor{ID: 8, Role: models.RoleCompany}

	_, err := svc.Review(context.Background(), owner, 3, &dto.ReviewCompanyRequest{Decision: models.ReviewApprove})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestCompanyRegister(t *testing.T) {
	companies := new(mockCompanyStore)
	svc := newCompanyService(companies, nil)
	owner := models.Actor{ID: 8, Role: models.RoleCompany}

	companies.On("Create", mock.Anything, mock.MatchedBy(func(c *models.Company) bool {
		return c.OwnerID == 8 && c.Slug == "acme-labs" && c.VerificationStatus == models.CompanyPending
	})).Return(nil).Once()

	resp, err := svc.Register(context.Background(), owner, &dto.CompanyRequest{Name: "  Acme Labs! "})
	require.NoError(t, err)
	assert.Equal(t, "Acme Labs!", resp.Company.Name)
	companies.AssertExpectations(t)

	t.Run("second company", func(t *testing.T) {
		companies := new(mockCompanyStore)
		svc := newCompanyService(companies, nil)
		companies.On("Create", mock.Anything, mock.Anything).Return(apperrors.ErrOwnerAlreadyHasCompany).Once()

		_, err := svc.Register(context.Background(), owner, &dto.CompanyRequest{Name: "Acme"})
		assert.ErrorIs(t, err, apperrors.ErrOwnerAlreadyHasCompany)
	})

	t.Run("attendee account", func(t *testing.T) {
		_, err := svc.Register(context.Background(), models.Actor{ID: 9, Role: models.RoleUser}, &dto.CompanyRequest{Name: "Acme"})
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})
}

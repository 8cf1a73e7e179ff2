package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/yigit/eventhub/internal/pkg/apperrors"
)

// CompanyStatus is the verification state of a company
type CompanyStatus string

const (
	CompanyPending   CompanyStatus = "PENDING"
	CompanyVerified  CompanyStatus = "VERIFIED"
	CompanyRejected  CompanyStatus = "REJECTED"
	CompanySuspended CompanyStatus = "SUSPENDED"
)

// IsValid reports whether s is a known company status
func (s CompanyStatus) IsValid() bool {
	switch s {
	case CompanyPending, CompanyVerified, CompanyRejected, CompanySuspended:
		return true
	}
	return false
}

// ReviewDecision is an admin decision on a company
type ReviewDecision string

const (
	ReviewApprove   ReviewDecision = "APPROVE"
	ReviewReject    ReviewDecision = "REJECT"
	ReviewSuspend   ReviewDecision = "SUSPEND"
	ReviewReinstate ReviewDecision = "REINSTATE"
)

// RequiresNotes reports whether the decision must carry reviewer notes
func (d ReviewDecision) RequiresNotes() bool {
	return d == ReviewReject || d == ReviewSuspend
}

var companyTransitions = map[CompanyStatus]map[ReviewDecision]CompanyStatus{
	CompanyPending: {
		ReviewApprove: CompanyVerified,
		ReviewReject:  CompanyRejected,
	},
	CompanyRejected: {
		ReviewApprove: CompanyVerified,
	},
	CompanyVerified: {
		ReviewSuspend: CompanySuspended,
	},
	CompanySuspended: {
		ReviewReinstate: CompanyVerified,
	},
}

// NextCompanyStatus returns the status a company moves to when decision is applied to current.
func NextCompanyStatus(current CompanyStatus, decision ReviewDecision) (CompanyStatus, error) {
	next, ok := companyTransitions[current][decision]
	if !ok {
		return "", apperrors.NewCustomError(apperrors.ErrInvalidStatusTransition,
			fmt.Sprintf("cannot %s a company in status %s", strings.ToLower(string(decision)), current))
	}
	return next, nil
}

// Company represents an organization hosting events and internships
type Company struct {
	ID                 int64         `json:"id" db:"id"`
	OwnerID            int64         `json:"ownerId" db:"owner_id"`
	Name               string        `json:"name" db:"name"`
	Slug               string        `json:"slug" db:"slug"`
	Description        string        `json:"description" db:"description"`
	Website            string        `json:"website" db:"website"`
	Email              string        `json:"email" db:"email"`
	Phone              string        `json:"phone" db:"phone"`
	Industry           string        `json:"industry" db:"industry"`
	Size               string        `json:"size" db:"size"`
	Location           string        `json:"location" db:"location"`
	LogoFileID         *int64        `json:"logoFileId,omitempty" db:"logo_file_id"`
	BannerFileID       *int64        `json:"bannerFileId,omitempty" db:"banner_file_id"`
	VerificationStatus CompanyStatus `json:"verificationStatus" db:"verification_status"`
	VerificationNotes  *string       `json:"verificationNotes,omitempty" db:"verification_notes"`
	VerifiedBy         *int64        `json:"verifiedBy,omitempty" db:"verified_by"`
	VerifiedAt         *time.Time    `json:"verifiedAt,omitempty" db:"verified_at"`
	CreatedAt          time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time     `json:"updatedAt" db:"updated_at"`
}

// IsVerified reports whether the company may publish events and internships
func (c *Company) IsVerified() bool {
	return c.VerificationStatus == CompanyVerified
}

// CompanyFilter narrows company listings
type CompanyFilter struct {
	Status   *CompanyStatus
	Search   string
	Industry string
	Page     int
	Size     int
}

package dto

import (
	"github.com/yigit/eventhub/internal/app/models"
)

// CompanyRequest is the body of company create and update calls
type CompanyRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=150"`
	Description string `json:"description" binding:"max=5000"`
	Website     string `json:"website" binding:"max=300,weburl"`
	Email       string `json:"email" binding:"omitempty,email,max=254"`
	Phone       string `json:"phone" binding:"max=50,phone"`
	Industry    string `json:"industry" binding:"max=100"`
	Size        string `json:"size" binding:"max=50"`
	Location    string `json:"location" binding:"max=200"`
}

// Apply copies the request fields onto a company
func (r CompanyRequest) Apply(c *models.Company) {
	c.Name = r.Name
	c.Description = r.Description
	c.Website = r.Website
	c.Email = r.Email
	c.Phone = r.Phone
	c.Industry = r.Industry
	c.Size = r.Size
	c.Location = r.Location
}

// ReviewCompanyRequest carries an admin verification decision
type ReviewCompanyRequest struct {
	Decision models.ReviewDecision `json:"decision" binding:"required,oneof=APPROVE REJECT SUSPEND REINSTATE"`
	Notes    string                `json:"notes" binding:"max=2000"`
}

// CompanyFilterRequest holds company list query parameters
type CompanyFilterRequest struct {
	Status   string `form:"status" binding:"omitempty,oneof=PENDING VERIFIED REJECTED SUSPENDED"`
	Search   string `form:"search" binding:"max=100"`
	Industry string `form:"industry" binding:"max=100"`
}

// ToFilter converts query parameters into a repository filter
func (r CompanyFilterRequest) ToFilter(page, size int) models.CompanyFilter {
	filter := models.CompanyFilter{Search: r.Search, Industry: r.Industry, Page: page, Size: size}
	if r.Status != "" {
		status := models.CompanyStatus(r.Status)
		filter.Status = &status
	}
	return filter
}

// CompanyResponse is a company with its image URLs resolved
type CompanyResponse struct {
	*models.Company
	LogoURL   string `json:"logoUrl,omitempty"`
	BannerURL string `json:"bannerUrl,omitempty"`
}

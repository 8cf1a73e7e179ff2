package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/eventhub/internal/app/models/dto"
	"github.com/yigit/eventhub/internal/app/services"
	"github.com/yigit/eventhub/internal/middleware"
	"github.com/yigit/eventhub/internal/pkg/filestorage"
	"github.com/yigit/eventhub/internal/pkg/helpers"
)

// CompanyController handles company profiles, their media and verification
type CompanyController struct {
	companyService services.CompanyService
	eventService   services.EventService
	logger         zerolog.Logger
}

// NewCompanyController creates a new CompanyController
func NewCompanyController(companyService services.CompanyService, eventService services.EventService, logger zerolog.Logger) *CompanyController {
	return &CompanyController{companyService: companyService, eventService: eventService, logger: logger}
}

// Register creates the caller's company profile
// @Summary Register company profile
// @Description A COMPANY account may own exactly one profile. It starts PENDING until an admin verifies it.
// @Tags companies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CompanyRequest true "Company data"
// @Success 201 {object} dto.APIResponse{data=dto.CompanyResponse}
// @Failure 409 {object} dto.ErrorResponse "Profile already exists"
// @Router /companies [post]
func (c *CompanyController) Register(ctx *gin.Context) {
	var req dto.CompanyRequest
	if !bindJSON(ctx, &req) {
		return
	}

	company, err := c.companyService.Register(ctx.Request.Context(), middleware.Actor(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(company))
}

// List returns companies. Non-admins only see verified companies.
// @Summary List companies
// @Tags companies
// @Produce json
// @Param status query string false "Status (admin only)"
// @Param search query string false "Name search"
// @Param industry query string false "Industry"
// @Param page query int false "Page" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /companies [get]
func (c *CompanyController) List(ctx *gin.Context) {
	var req dto.CompanyFilterRequest
	if !bindQuery(ctx, &req) {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	items, total, err := c.companyService.List(ctx.Request.Context(), middleware.Actor(ctx), req.ToFilter(page, size))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, items, total, page, size)
}

// Get returns a company
// @Summary Get company
// @Tags companies
// @Produce json
// @Param id path int true "Company ID"
// @Success 200 {object} dto.APIResponse{data=dto.CompanyResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /companies/{id} [get]
func (c *CompanyController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	company, err := c.companyService.Get(ctx.Request.Context(), middleware.Actor(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(company))
}

// GetMine returns the caller's company
// @Summary Get my company
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CompanyResponse}
// @Router /companies/me [get]
func (c *CompanyController) GetMine(ctx *gin.Context) {
	company, err := c.companyService.GetMine(ctx.Request.Context(), middleware.Actor(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(company))
}

// Update modifies a company profile
// @Summary Update company
// @Tags companies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID"
// @Param request body dto.CompanyRequest true "Company data"
// @Success 200 {object} dto.APIResponse{data=dto.CompanyResponse}
// @Router /companies/{id} [put]
func (c *CompanyController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req dto.CompanyRequest
	if !bindJSON(ctx, &req) {
		return
	}

	company, err := c.companyService.Update(ctx.Request.Context(), middleware.Actor(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(company))
}

// Delete removes a company
// @Summary Delete company
// @Tags companies
// @Security BearerAuth
// @Param id path int true "Company ID"
// @Success 204
// @Router /companies/{id} [delete]
func (c *CompanyController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	if err := c.companyService.Delete(ctx.Request.Context(), middleware.Actor(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// UploadLogo replaces the company logo
// @Summary Upload company logo
// @Tags companies
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID"
// @Param file formData file true "Image"
// @Success 200 {object} dto.APIResponse{data=dto.CompanyResponse}
// @Router /companies/{id}/logo [post]
func (c *CompanyController) UploadLogo(ctx *gin.Context) {
	c.uploadImage(ctx, filestorage.KindCompanyLogo)
}

// UploadBanner replaces the company banner
// @Summary Upload company banner
// @Tags companies
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID"
// @Param file formData file true "Image"
// @Success 200 {object} dto.APIResponse{data=dto.CompanyResponse}
// @Router /companies/{id}/banner [post]
func (c *CompanyController) UploadBanner(ctx *gin.Context) {
	c.uploadImage(ctx, filestorage.KindCompanyBanner)
}

func (c *CompanyController) uploadImage(ctx *gin.Context, kind filestorage.UploadKind) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	header, file, ok := uploadedFile(ctx)
	if !ok {
		return
	}
	defer file.Close()

	company, err := c.companyService.UploadImage(ctx.Request.Context(), middleware.Actor(ctx), id, kind, header.Filename, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(company))
}

// UploadDocument attaches a verification document
// @Summary Upload verification document
// @Tags companies
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID"
// @Param file formData file true "PDF or image"
// @Success 201 {object} dto.APIResponse{data=dto.FileResponse}
// @Router /companies/{id}/documents [post]
func (c *CompanyController) UploadDocument(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	header, file, ok := uploadedFile(ctx)
	if !ok {
		return
	}
	defer file.Close()

	doc, err := c.companyService.UploadDocument(ctx.Request.Context(), middleware.Actor(ctx), id, header.Filename, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(doc))
}

// ListDocuments lists verification documents with signed download URLs
// @Summary List verification documents
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.FileResponse}
// @Router /companies/{id}/documents [get]
func (c *CompanyController) ListDocuments(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	docs, err := c.companyService.ListDocuments(ctx.Request.Context(), middleware.Actor(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(docs))
}

// ListEvents lists a company's events visible to the caller
// @Summary List company events
// @Tags companies
// @Produce json
// @Param id path int true "Company ID"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /companies/{id}/events [get]
func (c *CompanyController) ListEvents(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	items, total, err := c.eventService.ListCompanyEvents(ctx.Request.Context(), middleware.Actor(ctx), id, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, items, total, page, size)
}

// Review applies an admin verification decision
// @Summary Review company
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID"
// @Param request body dto.ReviewCompanyRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=dto.CompanyResponse}
// @Failure 409 {object} dto.ErrorResponse "Decision not allowed from the current status"
// @Router /admin/companies/{id}/review [post]
func (c *CompanyController) Review(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req dto.ReviewCompanyRequest
	if !bindJSON(ctx, &req) {
		return
	}

	company, err := c.companyService.Review(ctx.Request.Context(), middleware.Actor(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Int64("companyID", id).Str("decision", string(req.Decision)).Msg("Company reviewed")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(company))
}

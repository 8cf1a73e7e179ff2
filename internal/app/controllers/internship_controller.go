package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/eventhub/internal/app/models/dto"
	"github.com/yigit/eventhub/internal/app/services"
	"github.com/yigit/eventhub/internal/middleware"
	"github.com/yigit/eventhub/internal/pkg/helpers"
)

// InternshipController handles internship postings
type InternshipController struct {
	internshipService services.InternshipService
}

// NewInternshipController creates a new InternshipController
func NewInternshipController(internshipService services.InternshipService) *InternshipController {
	return &InternshipController{internshipService: internshipService}
}

// Create posts an internship for the caller's verified company
// @Summary Create internship
// @Tags internships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.InternshipRequest true "Internship data"
// @Success 201 {object} dto.APIResponse{data=models.Internship}
// @Router /internships [post]
func (c *InternshipController) Create(ctx *gin.Context) {
	var req dto.InternshipRequest
	if !bindJSON(ctx, &req) {
		return
	}

	internship, err := c.internshipService.Create(ctx.Request.Context(), middleware.Actor(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(internship))
}

// List returns internships
// @Summary List internships
// @Tags internships
// @Produce json
// @Param companyId query int false "Company"
// @Param remote query bool false "Remote only"
// @Param search query string false "Title search"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /internships [get]
func (c *InternshipController) List(ctx *gin.Context) {
	var req dto.InternshipFilterRequest
	if !bindQuery(ctx, &req) {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	items, total, err := c.internshipService.List(ctx.Request.Context(), middleware.Actor(ctx), req.ToFilter(page, size))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, items, total, page, size)
}

// Get returns an internship
// @Summary Get internship
// @Tags internships
// @Produce json
// @Param id path int true "Internship ID"
// @Success 200 {object} dto.APIResponse{data=models.Internship}
// @Router /internships/{id} [get]
func (c *InternshipController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	internship, err := c.internshipService.Get(ctx.Request.Context(), middleware.Actor(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(internship))
}

// Update modifies an internship
// @Summary Update internship
// @Tags internships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Internship ID"
// @Param request body dto.InternshipRequest true "Internship data"
// @Success 200 {object} dto.APIResponse{data=models.Internship}
// @Router /internships/{id} [put]
func (c *InternshipController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req dto.InternshipRequest
	if !bindJSON(ctx, &req) {
		return
	}

	internship, err := c.internshipService.Update(ctx.Request.Context(), middleware.Actor(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(internship))
}

// Close stops accepting applications
// @Summary Close internship
// @Tags internships
// @Produce json
// @Security BearerAuth
// @Param id path int true "Internship ID"
// @Success 200 {object} dto.APIResponse{data=models.Internship}
// @Router /internships/{id}/close [post]
func (c *InternshipController) Close(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	internship, err := c.internshipService.Close(ctx.Request.Context(), middleware.Actor(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(internship))
}

// Delete removes an internship
// @Summary Delete internship
// @Tags internships
// @Security BearerAuth
// @Param id path int true "Internship ID"
// @Success 204
// @Router /internships/{id} [delete]
func (c *InternshipController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	if err := c.internshipService.Delete(ctx.Request.Context(), middleware.Actor(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

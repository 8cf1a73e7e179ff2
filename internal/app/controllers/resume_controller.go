package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/eventhub/internal/app/models/dto"
	"github.com/yigit/eventhub/internal/app/services"
	"github.com/yigit/eventhub/internal/middleware"
)

// ResumeController manages the caller's resumes. Resumes are never visible to other users.
type ResumeController struct {
	resumeService services.ResumeService
}

// NewResumeController creates a new ResumeController
func NewResumeController(resumeService services.ResumeService) *ResumeController {
	return &ResumeController{resumeService: resumeService}
}

// Create stores a new resume
// @Summary Create resume
// @Tags resumes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ResumeRequest true "Resume"
// @Success 201 {object} dto.APIResponse{data=models.Resume}
// @Failure 409 {object} dto.ErrorResponse "Resume limit reached"
// @Router /resumes [post]
func (c *ResumeController) Create(ctx *gin.Context) {
	var req dto.ResumeRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resume, err := c.resumeService.Create(ctx.Request.Context(), middleware.Actor(ctx).ID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resume))
}

// List returns the caller's resumes
// @Summary List my resumes
// @Tags resumes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Resume}
// @Router /resumes [get]
func (c *ResumeController) List(ctx *gin.Context) {
	resumes, err := c.resumeService.List(ctx.Request.Context(), middleware.Actor(ctx).ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resumes))
}

// Get returns one resume
// @Summary Get resume
// @Tags resumes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resume ID"
// @Success 200 {object} dto.APIResponse{data=models.Resume}
// @Router /resumes/{id} [get]
func (c *ResumeController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	resume, err := c.resumeService.Get(ctx.Request.Context(), middleware.Actor(ctx).ID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resume))
}

// Update replaces a resume
// @Summary Update resume
// @Tags resumes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resume ID"
// @Param request body dto.ResumeRequest true "Resume"
// @Success 200 {object} dto.APIResponse{data=models.Resume}
// @Router /resumes/{id} [put]
func (c *ResumeController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req dto.ResumeRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resume, err := c.resumeService.Update(ctx.Request.Context(), middleware.Actor(ctx).ID, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resume))
}

// Delete removes a resume
// @Summary Delete resume
// @Tags resumes
// @Security BearerAuth
// @Param id path int true "Resume ID"
// @Success 204
// @Router /resumes/{id} [delete]
func (c *ResumeController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	if err := c.resumeService.Delete(ctx.Request.Context(), middleware.Actor(ctx).ID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// Markdown renders a resume with its template
// @Summary Render resume as Markdown
// @Tags resumes
// @Produce text/markdown
// @Security BearerAuth
// @Param id path int true "Resume ID"
// @Param download query bool false "Send as attachment"
// @Success 200 {string} string
// @Router /resumes/{id}/markdown [get]
func (c *ResumeController) Markdown(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	md, err := c.resumeService.RenderMarkdown(ctx.Request.Context(), middleware.Actor(ctx).ID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if ctx.Query("download") == "true" {
		ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("resume-%d.md", id)))
	}
	ctx.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
}

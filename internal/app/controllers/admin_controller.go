package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/app/models/dto"
	"github.com/yigit/eventhub/internal/app/services"
	"github.com/yigit/eventhub/internal/middleware"
	"github.com/yigit/eventhub/internal/pkg/helpers"
)

// AdminController serves the administration console
type AdminController struct {
	adminService      services.AdminService
	moderationService services.ModerationService
	auditService      services.AuditService
	logger            zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(
	adminService services.AdminService,
	moderationService services.ModerationService,
	auditService services.AuditService,
	logger zerolog.Logger,
) *AdminController {
	return &AdminController{
		adminService:      adminService,
		moderationService: moderationService,
		auditService:      auditService,
		logger:            logger,
	}
}

// Dashboard returns platform counters
// @Summary Admin dashboard
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DashboardStats}
// @Router /admin/dashboard [get]
func (c *AdminController) Dashboard(ctx *gin.Context) {
	stats, err := c.adminService.Dashboard(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats))
}

// ListUsers lists accounts
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param role query string false "USER, COMPANY or ADMIN"
// @Param isActive query bool false "Active flag"
// @Param search query string false "Name or email search"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /admin/users [get]
func (c *AdminController) ListUsers(ctx *gin.Context) {
	var req dto.UserFilterRequest
	if !bindQuery(ctx, &req) {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	users, total, err := c.adminService.ListUsers(ctx.Request.Context(), req.ToFilter(page, size))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, dto.NewUserResponse(u, ""))
	}
	respondPage(ctx, items, total, page, size)
}

// SetUserStatus activates or deactivates an account
// @Summary Set user status
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.UpdateUserStatusRequest true "Status"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Router /admin/users/{id}/status [put]
func (c *AdminController) SetUserStatus(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateUserStatusRequest
	if !bindJSON(ctx, &req) {
		return
	}

	user, err := c.adminService.SetUserStatus(ctx.Request.Context(), middleware.Actor(ctx), id, *req.IsActive)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewUserResponse(user, "")))
}

// Queue lists events awaiting moderation, oldest first
// @Summary Moderation queue
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /admin/moderation/queue [get]
func (c *AdminController) Queue(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	events, total, err := c.moderationService.ListQueue(ctx.Request.Context(), middleware.Actor(ctx), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, events, total, page, size)
}

// Moderate applies a moderation action to an event
// @Summary Moderate event
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.ModerateEventRequest true "Action"
// @Success 200 {object} dto.APIResponse{data=dto.ModerationResult}
// @Failure 409 {object} dto.ErrorResponse "Transition not allowed"
// @Router /admin/events/{id}/moderate [post]
func (c *AdminController) Moderate(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req dto.ModerateEventRequest
	if !bindJSON(ctx, &req) {
		return
	}

	result, err := c.moderationService.Moderate(ctx.Request.Context(), middleware.Actor(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Int64("eventID", id).Str("action", string(req.Action)).Msg("Event moderated")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// ListAudit searches the audit log
// @Summary Search audit log
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param actorId query int false "Actor"
// @Param action query string false "Action"
// @Param entityType query string false "Entity type"
// @Param from query string false "RFC 3339 or YYYY-MM-DD, inclusive"
// @Param to query string false "RFC 3339 or YYYY-MM-DD, exclusive"
// @Param sort query string false "asc or desc"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /admin/audit-logs [get]
func (c *AdminController) ListAudit(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	filter, ok := c.auditFilter(ctx, page, size)
	if !ok {
		return
	}

	logs, total, err := c.auditService.List(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, logs, total, page, size)
}

// GetAudit returns one audit entry
// @Summary Get audit entry
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Audit log ID"
// @Success 200 {object} dto.APIResponse{data=models.AuditLog}
// @Router /admin/audit-logs/{id} [get]
func (c *AdminController) GetAudit(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	entry, err := c.auditService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(entry))
}

// ExportAudit downloads matching audit entries as CSV
// @Summary Export audit log
// @Tags admin
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file
// @Router /admin/audit-logs/export [get]
func (c *AdminController) ExportAudit(ctx *gin.Context) {
	filter, ok := c.auditFilter(ctx, 1, 0)
	if !ok {
		return
	}

	sendAttachment(ctx, "text/csv; charset=utf-8", "audit-logs.csv", func(w io.Writer) error {
		return c.auditService.Export(ctx.Request.Context(), filter, w)
	})
}

func (c *AdminController) auditFilter(ctx *gin.Context, page, size int) (models.AuditFilter, bool) {
	var req dto.AuditFilterRequest
	if !bindQuery(ctx, &req) {
		return models.AuditFilter{}, false
	}
	filter, err := req.ToFilter(page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return models.AuditFilter{}, false
	}
	return filter, true
}

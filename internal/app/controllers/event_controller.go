package controllers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/eventhub/internal/app/models/dto"
	"github.com/yigit/eventhub/internal/app/services"
	"github.com/yigit/eventhub/internal/middleware"
	"github.com/yigit/eventhub/internal/pkg/helpers"
)

// EventController handles events and their registrations
type EventController struct {
	eventService        services.EventService
	registrationService services.RegistrationService
	moderationService   services.ModerationService
}

// NewEventController creates a new EventController
func NewEventController(
	eventService services.EventService,
	registrationService services.RegistrationService,
	moderationService services.ModerationService,
) *EventController {
	return &EventController{
		eventService:        eventService,
		registrationService: registrationService,
		moderationService:   moderationService,
	}
}

// Create submits a new event for moderation
// @Summary Create event
// @Description Only verified companies may create events. New events start PENDING.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EventRequest true "Event data"
// @Success 201 {object} dto.APIResponse{data=dto.EventResponse}
// @Failure 403 {object} dto.ErrorResponse "Company not verified"
// @Router /events [post]
func (c *EventController) Create(ctx *gin.Context) {
	var req dto.EventRequest
	if !bindJSON(ctx, &req) {
		return
	}

	event, err := c.eventService.Create(ctx.Request.Context(), middleware.Actor(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(event))
}

// List returns events visible to the caller
// @Summary List events
// @Tags events
// @Produce json
// @Param type query string false "EVENT, HACKATHON or WORKSHOP"
// @Param mode query string false "ONLINE, OFFLINE or HYBRID"
// @Param companyId query int false "Company"
// @Param status query string false "Status (owners and admins)"
// @Param search query string false "Title search"
// @Param tag query string false "Tag"
// @Param upcoming query bool false "Only events that have not started"
// @Param page query int false "Page" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /events [get]
func (c *EventController) List(ctx *gin.Context) {
	var req dto.EventFilterRequest
	if !bindQuery(ctx, &req) {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	items, total, err := c.eventService.List(ctx.Request.Context(), middleware.Actor(ctx), req.ToFilter(page, size))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, items, total, page, size)
}

// Get returns an event
// @Summary Get event
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /events/{id} [get]
func (c *EventController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	event, err := c.eventService.Get(ctx.Request.Context(), middleware.Actor(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(event))
}

// Update modifies an event
// @Summary Update event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.EventRequest true "Event data"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse}
// @Failure 409 {object} dto.ErrorResponse "Capacity below registered seats"
// @Router /events/{id} [put]
func (c *EventController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req dto.EventRequest
	if !bindJSON(ctx, &req) {
		return
	}

	event, err := c.eventService.Update(ctx.Request.Context(), middleware.Actor(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(event))
}

// Cancel cancels an event
// @Summary Cancel event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse}
// @Router /events/{id}/cancel [post]
func (c *EventController) Cancel(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	event, err := c.eventService.Cancel(ctx.Request.Context(), middleware.Actor(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(event))
}

// UploadBanner replaces the event banner
// @Summary Upload event banner
// @Tags events
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param file formData file true "Image"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse}
// @Router /events/{id}/banner [post]
func (c *EventController) UploadBanner(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	header, file, ok := uploadedFile(ctx)
	if !ok {
		return
	}
	defer file.Close()

	event, err := c.eventService.UploadBanner(ctx.Request.Context(), middleware.Actor(ctx), id, header.Filename, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(event))
}

// ModerationLogs returns the moderation history of an event
// @Summary Event moderation history
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=[]models.ModerationLog}
// @Router /events/{id}/moderation-logs [get]
func (c *EventController) ModerationLogs(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	logs, err := c.moderationService.ListLogs(ctx.Request.Context(), middleware.Actor(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(logs))
}

// Register signs the caller up for an event
// @Summary Register for event
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.RegisterForEventRequest false "Team name (hackathons) and notes"
// @Success 201 {object} dto.APIResponse{data=models.Registration}
// @Failure 409 {object} dto.ErrorResponse "Full, closed or already registered"
// @Router /events/{id}/registrations [post]
func (c *EventController) Register(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req dto.RegisterForEventRequest
	if ctx.Request.ContentLength != 0 && !bindJSON(ctx, &req) {
		return
	}

	reg, err := c.registrationService.Register(ctx.Request.Context(), middleware.Actor(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(reg))
}

// CancelRegistration withdraws the caller's registration
// @Summary Cancel my registration
// @Tags registrations
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 204
// @Router /events/{id}/registrations/me [delete]
func (c *EventController) CancelRegistration(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	if err := c.registrationService.Cancel(ctx.Request.Context(), middleware.Actor(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ListRegistrations lists an event's registrations for its owner or an admin
// @Summary List event registrations
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param status query string false "REGISTERED, CANCELLED or ATTENDED"
// @Param search query string false "Name or email search"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /events/{id}/registrations [get]
func (c *EventController) ListRegistrations(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req dto.RegistrationFilterRequest
	if !bindQuery(ctx, &req) {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	items, total, err := c.registrationService.ListForEvent(ctx.Request.Context(), middleware.Actor(ctx), id, req.ToFilter(page, size))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, items, total, page, size)
}

// ExportRegistrations downloads an event's registrations as CSV
// @Summary Export registrations
// @Tags registrations
// @Produce text/csv
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {file} file
// @Router /events/{id}/registrations/export [get]
func (c *EventController) ExportRegistrations(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	actor := middleware.Actor(ctx)
	sendAttachment(ctx, "text/csv; charset=utf-8", fmt.Sprintf("event-%d-registrations.csv", id), func(w io.Writer) error {
		return c.registrationService.Export(ctx.Request.Context(), actor, id, w)
	})
}

// MarkAttended marks a registration as attended
// @Summary Mark attendance
// @Tags registrations
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param registrationId path int true "Registration ID"
// @Success 204
// @Router /events/{id}/registrations/{registrationId}/attend [post]
func (c *EventController) MarkAttended(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	regID, ok := parseID(ctx, "registrationId")
	if !ok {
		return
	}

	if err := c.registrationService.MarkAttended(ctx.Request.Context(), middleware.Actor(ctx), id, regID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

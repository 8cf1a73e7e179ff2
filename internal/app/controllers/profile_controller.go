package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/eventhub/internal/app/models/dto"
	"github.com/yigit/eventhub/internal/app/services"
	"github.com/yigit/eventhub/internal/middleware"
	"github.com/yigit/eventhub/internal/pkg/helpers"
)

// ProfileController serves the authenticated user's own profile
type ProfileController struct {
	profileService      services.ProfileService
	registrationService services.RegistrationService
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService services.ProfileService, registrationService services.RegistrationService) *ProfileController {
	return &ProfileController{profileService: profileService, registrationService: registrationService}
}

// GetMe returns the current user
// @Summary Get my profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Router /users/me [get]
func (c *ProfileController) GetMe(ctx *gin.Context) {
	user, err := c.profileService.GetMe(ctx.Request.Context(), middleware.Actor(ctx).ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(user))
}

// UpdateMe updates the current user's name
// @Summary Update my profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile data"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Router /users/me [put]
func (c *ProfileController) UpdateMe(ctx *gin.Context) {
	var req dto.UpdateProfileRequest
	if !bindJSON(ctx, &req) {
		return
	}

	user, err := c.profileService.UpdateMe(ctx.Request.Context(), middleware.Actor(ctx).ID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(user))
}

// UploadAvatar replaces the current user's avatar
// @Summary Upload avatar
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image (jpeg, png, webp; max 2 MB)"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 413 {object} dto.ErrorResponse
// @Failure 415 {object} dto.ErrorResponse
// @Router /users/me/avatar [post]
func (c *ProfileController) UploadAvatar(ctx *gin.Context) {
	header, file, ok := uploadedFile(ctx)
	if !ok {
		return
	}
	defer file.Close()

	user, err := c.profileService.UploadAvatar(ctx.Request.Context(), middleware.Actor(ctx).ID, header.Filename, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(user))
}

// MyRegistrations lists the current user's event registrations
// @Summary My registrations
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /users/me/registrations [get]
func (c *ProfileController) MyRegistrations(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	items, total, err := c.registrationService.ListMine(ctx.Request.Context(), middleware.Actor(ctx), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, items, total, page, size)
}

// Package controllers handles HTTP request handling
package controllers

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/eventhub/internal/app/models/dto"
	"github.com/yigit/eventhub/internal/middleware"
	"github.com/yigit/eventhub/internal/pkg/helpers"
)

// uploadField is the multipart field carrying uploaded files
const uploadField = "file"

// parseID reads a positive int64 path parameter, writing a 400 when it is malformed
func parseID(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name).
			WithDetails(name + " must be a positive number")
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return 0, false
	}
	return id, true
}

// bindJSON binds and validates the request body
func bindJSON(ctx *gin.Context, obj any) bool {
	if err := ctx.ShouldBindJSON(obj); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}

// bindQuery binds and validates query parameters
func bindQuery(ctx *gin.Context, obj any) bool {
	if err := ctx.ShouldBindQuery(obj); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}

// uploadedFile opens the multipart file of the request. The caller closes it.
func uploadedFile(ctx *gin.Context) (*multipart.FileHeader, multipart.File, bool) {
	header, err := ctx.FormFile(uploadField)
	if err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "File is required").
			WithField(uploadField).
			WithDetails("send the file as multipart/form-data in the \"" + uploadField + "\" field")
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return nil, nil, false
	}
	file, err := header.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return nil, nil, false
	}
	return header, file, true
}

func respondPage(ctx *gin.Context, items any, total int64, page, size int) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(helpers.NewPaginatedResponse(items, total, page, size)))
}

// sendAttachment renders into a buffer first so a failure halfway still gets a JSON error
func sendAttachment(ctx *gin.Context, contentType, fileName string, render func(w io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	ctx.Data(http.StatusOK, contentType, buf.Bytes())
}

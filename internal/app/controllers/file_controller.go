package controllers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/eventhub/internal/app/services"
	"github.com/yigit/eventhub/internal/middleware"
)

// FileController streams stored files
type FileController struct {
	fileService services.FileService
	logger      zerolog.Logger
}

// NewFileController creates a new FileController
func NewFileController(fileService services.FileService, logger zerolog.Logger) *FileController {
	return &FileController{fileService: fileService, logger: logger}
}

// Download streams a file. Private files require the signed token issued with their URL.
// @Summary Download file
// @Tags files
// @Produce octet-stream
// @Param id path int true "File ID"
// @Param token query string false "Signed download token"
// @Success 200 {file} file
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse
// @Router /files/{id}/download [get]
func (c *FileController) Download(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	file, rc, err := c.fileService.Open(ctx.Request.Context(), id, ctx.Query("token"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer rc.Close()

	ctx.Header("Content-Type", file.MimeType)
	ctx.Header("Content-Length", strconv.FormatInt(file.FileSize, 10))
	ctx.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", file.FileName))
	ctx.Header("Cache-Control", "private, no-store")
	ctx.Status(http.StatusOK)
	if _, err := io.Copy(ctx.Writer, rc); err != nil {
		c.logger.Warn().Err(err).Int64("fileID", id).Msg("File download interrupted")
	}
}

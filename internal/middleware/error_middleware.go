package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/eventhub/internal/app/models/dto"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
	"github.com/yigit/eventhub/internal/pkg/logger"
)

// errorMapping is the HTTP rendering of a sentinel error
type errorMapping struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
}

// Order matters: the first matching target wins, so specific sentinels come before generic ones.
var errorMappings = []errorMapping{
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid email or password"},
	{apperrors.ErrAccountDisabled, http.StatusUnauthorized, dto.ErrorCodeAccountDisabled, "Account is disabled"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{apperrors.ErrTokenRevoked, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Token revoked"},
	{apperrors.ErrTokenNotFound, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{apperrors.ErrInvalidFormat, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token format"},

	{apperrors.ErrCompanyNotVerified, http.StatusForbidden, dto.ErrorCodeForbidden, "Company is not verified"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},

	{apperrors.ErrUserNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found"},
	{apperrors.ErrCompanyNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Company not found"},
	{apperrors.ErrEventNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Event not found"},
	{apperrors.ErrRegistrationNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Registration not found"},
	{apperrors.ErrInternshipNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Internship not found"},
	{apperrors.ErrResumeNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resume not found"},
	{apperrors.ErrFileNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "File not found"},
	{apperrors.ErrAuditLogNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Audit log entry not found"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},

	{apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists"},
	{apperrors.ErrCompanyAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Company already exists"},
	{apperrors.ErrOwnerAlreadyHasCompany, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "You already own a company"},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{apperrors.ErrAlreadyRegistered, http.StatusConflict, dto.ErrorCodeConflict, "Already registered for this event"},
	{apperrors.ErrEventFull, http.StatusConflict, dto.ErrorCodeConflict, "Event is full"},
	{apperrors.ErrRegistrationClosed, http.StatusConflict, dto.ErrorCodeConflict, "Registration is closed"},
	{apperrors.ErrInvalidStatusTransition, http.StatusConflict, dto.ErrorCodeConflict, "Invalid status transition"},
	{apperrors.ErrResumeLimitReached, http.StatusConflict, dto.ErrorCodeConflict, "Resume limit reached"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict, "Conflict"},

	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeResourceInvalid, "Bad request"},
	{apperrors.ErrPayloadTooLarge, http.StatusRequestEntityTooLarge, dto.ErrorCodePayloadTooLarge, "File too large"},
	{apperrors.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType, dto.ErrorCodeUnsupportedMediaType, "Unsupported file type"},

	{apperrors.ErrUpstreamFailure, http.StatusBadGateway, dto.ErrorCodeExternalServiceError, "Upstream service failed"},
	{apperrors.ErrServiceUnavailable, http.StatusServiceUnavailable, dto.ErrorCodeExternalServiceError, "Service unavailable"},
}

// StatusFor returns the HTTP status and error detail for err. Unknown errors become 500.
func StatusFor(err error) (int, *dto.ErrorDetail) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			message := m.message
			if msg, ok := apperrors.UserMessage(err); ok {
				message = msg
			}
			return m.status, dto.NewErrorDetail(m.code, message)
		}
	}
	return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
		WithSeverity(dto.ErrorSeverityCritical)
}

// HandleAPIError writes the error response for err and aborts the request
func HandleAPIError(c *gin.Context, err error) {
	status, detail := StatusFor(err)

	event := logger.Debug()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).
		Int("status", status).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("Request failed")

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

// Recovery turns panics into a 500 response and logs the stack
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error().
			Interface("panic", recovered).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	})
}

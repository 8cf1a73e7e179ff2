package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/app/models/dto"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
	"github.com/yigit/eventhub/internal/pkg/auth"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		code    dto.ErrorCode
		message string
	}{
		{apperrors.ErrEventNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Event not found"},
		{apperrors.NewCustomError(apperrors.ErrCompanyNotVerified, "verify first"), http.StatusForbidden, dto.ErrorCodeForbidden, "verify first"},
		{apperrors.NewForbiddenError("not yours"), http.StatusForbidden, dto.ErrorCodeForbidden, "not yours"},
		{apperrors.NewCustomError(apperrors.ErrEventFull, "event is full"), http.StatusConflict, dto.ErrorCodeConflict, "event is full"},
		{apperrors.ErrRegistrationClosed, http.StatusConflict, dto.ErrorCodeConflict, "Registration is closed"},
		{apperrors.ErrInvalidStatusTransition, http.StatusConflict, dto.ErrorCodeConflict, "Invalid status transition"},
		{apperrors.NewValidationError("title is required"), http.StatusBadRequest, dto.ErrorCodeValidationFailed, "title is required"},
		{apperrors.NewCustomError(apperrors.ErrPayloadTooLarge, "too big"), http.StatusRequestEntityTooLarge, dto.ErrorCodePayloadTooLarge, "too big"},
		{apperrors.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType, dto.ErrorCodeUnsupportedMediaType, "Unsupported file type"},
		{fmt.Errorf("chat: %w", apperrors.ErrUpstreamFailure), http.StatusBadGateway, dto.ErrorCodeExternalServiceError, "Upstream service failed"},
		{apperrors.ErrServiceUnavailable, http.StatusServiceUnavailable, dto.ErrorCodeExternalServiceError, "Service unavailable"},
		{apperrors.ErrAccountDisabled, http.StatusUnauthorized, dto.ErrorCodeAccountDisabled, "Account is disabled"},
		{fmt.Errorf("%w: bad signature", apperrors.ErrTokenInvalid), http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
		{errors.New("pq: connection refused"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, detail := StatusFor(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, detail.Code)
			assert.Equal(t, tt.message, detail.Message)
		})
	}
}

func TestHandleAPIError_WritesEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/events/9", nil)

	HandleAPIError(c, apperrors.ErrEventNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.True(t, c.IsAborted())
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, dto.ErrorCodeResourceNotFound, body.Error.Code)
}

func newTestJWT() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: time.Hour,
		TokenIssuer:     "eventhub.test",
	})
}

func accessToken(t *testing.T, jwt *auth.JWTService, role models.RoleType) string {
	t.Helper()
	pair, err := jwt.GenerateTokenPair(&models.User{ID: 7, Email: "ada@example.com", RoleType: role})
	require.NoError(t, err)
	return pair.AccessToken
}

func newAuthRouter(jwt *auth.JWTService) *gin.Engine {
	m := NewAuthMiddleware(jwt)
	r := gin.New()
	whoami := func(c *gin.Context) {
		actor := Actor(c)
		c.JSON(http.StatusOK, gin.H{"id": actor.ID, "role": actor.Role})
	}
	r.GET("/private", m.JWTAuth(), whoami)
	r.GET("/admin", m.JWTAuth(), m.RoleRequired(models.RoleAdmin), whoami)
	r.GET("/public", m.OptionalAuth(), whoami)
	return r
}

func TestJWTAuth(t *testing.T) {
	jwt := newTestJWT()
	r := newAuthRouter(jwt)
	token := accessToken(t, jwt, models.RoleUser)

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"missing token", "/private", "", http.StatusUnauthorized},
		{"garbage token", "/private", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "/private", "Bearer " + token, http.StatusOK},
		{"query token ignored without upgrade", "/private?token=" + token, "", http.StatusUnauthorized},
		{"wrong role", "/admin", "Bearer " + token, http.StatusForbidden},
		{"anonymous public", "/public", "", http.StatusOK},
		{"invalid token on public", "/public", "Bearer nope", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestJWTAuth_WebsocketQueryToken(t *testing.T) {
	jwt := newTestJWT()
	r := newAuthRouter(jwt)

	req := httptest.NewRequest(http.MethodGet, "/private?token="+accessToken(t, jwt, models.RoleAdmin), nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7,"role":"ADMIN"}`, w.Body.String())
}

type auditCall struct {
	actor  models.Actor
	action string
	entity string
}

type chanRecorder chan auditCall

func (r chanRecorder) Record(_ context.Context, actor models.Actor, action, _, entityID string, _ any) error {
	r <- auditCall{actor: actor, action: action, entity: entityID}
	return nil
}

func TestAdminAudit(t *testing.T) {
	calls := make(chanRecorder, 4)
	r := gin.New()
	asRole := func(role models.RoleType) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set(ContextUserID, int64(1))
			c.Set(ContextRole, role)
		}
	}
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	fail := func(c *gin.Context) { c.Status(http.StatusConflict) }
	audit := AdminAudit(calls, zerolog.Nop())
	r.POST("/admin/users/:id/status", asRole(models.RoleAdmin), audit, ok)
	r.POST("/admin/fail", asRole(models.RoleAdmin), audit, fail)
	r.GET("/admin/users", asRole(models.RoleAdmin), audit, ok)
	r.POST("/events", asRole(models.RoleCompany), audit, ok)

	for _, path := range []string{"/admin/fail", "/events"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, path, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/admin/users", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/admin/users/5/status", nil))

	select {
	case call := <-calls:
		assert.Equal(t, "http.post", call.action)
		assert.Equal(t, "/admin/users/:id/status", call.entity)
		assert.Equal(t, int64(1), call.actor.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("admin request was not audited")
	}

	select {
	case call := <-calls:
		t.Fatalf("unexpected audit entry %q for %q", call.action, call.entity)
	case <-time.After(50 * time.Millisecond):
	}
}

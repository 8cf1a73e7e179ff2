package middleware

import (
	"errors"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/app/models/dto"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
	"github.com/yigit/eventhub/internal/pkg/auth"
)

// Context keys set by the authentication middleware
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextRole   = "roleType"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// tokenFrom reads the access token from the Authorization header. Browsers cannot set
// headers on websocket upgrades, so those may pass it as the token query parameter.
func tokenFrom(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		token, err := auth.ExtractBearerToken(header)
		if err != nil {
			return ""
		}
		return token
	}
	if websocket.IsWebSocketUpgrade(c.Request) {
		return c.Query("token")
	}
	return ""
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, details string) {
	detail := dto.NewErrorDetail(code, "Authentication required").WithDetails(details)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
}

func (m *AuthMiddleware) authenticate(c *gin.Context, token string) bool {
	claims, err := m.jwtService.ValidateToken(token)
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenExpired) {
			abortUnauthorized(c, dto.ErrorCodeExpiredToken, "Token has expired")
		} else {
			abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Invalid token")
		}
		return false
	}

	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextEmail, claims.Email)
	c.Set(ContextRole, claims.Role())
	return true
}

// JWTAuth requires a valid access token
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFrom(c)
		if token == "" {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authorization header missing")
			return
		}
		if !m.authenticate(c, token) {
			return
		}
		c.Next()
	}
}

// OptionalAuth identifies the caller when a token is present and lets anonymous requests through.
// A present but invalid token is still rejected.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := tokenFrom(c); token != "" && !m.authenticate(c, token) {
			return
		}
		c.Next()
	}
}

// RoleRequired allows only callers holding one of roles. JWTAuth must run first.
func (m *AuthMiddleware) RoleRequired(roles ...models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(ContextRole)
		if !ok {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "User role not found")
			return
		}

		if r, ok := role.(models.RoleType); !ok || !slices.Contains(roles, r) {
			detail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
				WithDetails("You don't have sufficient permissions for this operation")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(detail))
			return
		}
		c.Next()
	}
}

// Actor builds the caller identity from the request. Anonymous callers get a zero ID.
func Actor(c *gin.Context) models.Actor {
	actor := models.Actor{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if id, ok := c.Get(ContextUserID); ok {
		actor.ID, _ = id.(int64)
	}
	actor.Email = c.GetString(ContextEmail)
	if role, ok := c.Get(ContextRole); ok {
		actor.Role, _ = role.(models.RoleType)
	}
	return actor
}

package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/eventhub/internal/app/models"
)

// AuditRecorder is the part of the audit service the middleware needs
type AuditRecorder interface {
	Record(ctx context.Context, actor models.Actor, action, entityType, entityID string, details any) error
}

const auditTimeout = 5 * time.Second

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// AdminAudit records every successful mutating request made by an admin as http.<method>.
// The entry is written after the response so the request never waits for it.
func AdminAudit(audit AuditRecorder, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if !isMutation(c.Request.Method) || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		actor := Actor(c)
		if !actor.IsAdmin() {
			return
		}

		action := "http." + strings.ToLower(c.Request.Method)
		route := c.FullPath()
		params := make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			params[p.Key] = p.Value
		}
		details := map[string]any{
			"path":   c.Request.URL.Path,
			"route":  route,
			"params": params,
			"status": c.Writer.Status(),
		}
		ctx := context.WithoutCancel(c.Request.Context())

		go func() {
			ctx, cancel := context.WithTimeout(ctx, auditTimeout)
			defer cancel()
			if err := audit.Record(ctx, actor, action, "http", route, details); err != nil {
				log.Error().Err(err).Str("action", action).Str("route", route).Msg("Failed to record admin request")
			}
		}()
	}
}

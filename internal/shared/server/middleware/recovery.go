package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 error response. Panics after the
// response has started are only logged.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			metrics.IncHTTPPanics()
			telemetry.Error("http.panic", map[string]any{
				"request_id":  RequestIDFromContext(c),
				"user_id":     UserIDFromContext(c),
				"form_action": c.GetString("formAction"),
				"error":       rec,
				"stack":       string(debug.Stack()),
				"route":       c.FullPath(),
				"method":      c.Request.Method,
			})
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "Unexpected server error", nil)
		}()
		c.Next()
	}
}

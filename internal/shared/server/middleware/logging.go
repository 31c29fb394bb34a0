package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/telemetry"
)

// quietRoutes are polled by load balancers and scrapers.
var quietRoutes = map[string]bool{"/metrics": true, "/api/v1/health": true}

// Logging writes one "request.complete" line per request with the guest,
// the form action and the layout or export the handler touched.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		status := c.Writer.Status()
		if quietRoutes[route] && status < http.StatusBadRequest {
			return
		}

		isGuest, _ := c.Get("isGuest")
		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       route,
			"status":      status,
			"bytes_out":   c.Writer.Size(),
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000.0,
			"user_id":     UserIDFromContext(c),
			"is_guest":    isGuest,
			"form_action": c.GetString("formAction"),
			"template":    c.GetString("template"),
			"export_id":   c.GetString("exportId"),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if status >= http.StatusInternalServerError {
			telemetry.Error("request.complete", fields)
			return
		}
		telemetry.Info("request.complete", fields)
	}
}

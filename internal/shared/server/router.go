package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/exports"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/workspace"
)

const exportRateLimitGroup = "EXPORT"

// RouterDeps are the handlers the router mounts. Nil handlers are skipped.
type RouterDeps struct {
	Config           config.Config
	WorkspaceHandler *workspace.Handler
	ExportHandler    *exports.Handler
	RateLimiter      *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Guest(deps.Config.Env),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    rateLimitRules(deps.Config),
			GroupFor: rateLimitGroup,
			Limiter:  deps.RateLimiter,
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	registerMeRoutes(api)
	if deps.WorkspaceHandler != nil {
		deps.WorkspaceHandler.RegisterRoutes(api)
	}
	if deps.ExportHandler != nil {
		deps.ExportHandler.RegisterRoutes(api)
	}

	return r
}

func rateLimitRules(cfg config.Config) map[string]middleware.RateLimitRule {
	rules := map[string]middleware.RateLimitRule{}
	if cfg.ExportRate > 0 && cfg.ExportBurst > 0 {
		rules[exportRateLimitGroup] = middleware.RateLimitRule{Rate: cfg.ExportRate, Burst: cfg.ExportBurst}
	}
	return rules
}

// rateLimitGroup puts export creation in its own bucket. Everything else
// falls in the default group, which has no rule.
func rateLimitGroup(c *gin.Context) string {
	if c.Request.Method == http.MethodPost && strings.TrimSuffix(c.Request.URL.Path, "/") == "/api/v1/exports" {
		return exportRateLimitGroup
	}
	return ""
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}

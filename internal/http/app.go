package http

import (
	"context"
	"net/http"
	"strings"

	"estateportal_backend/platform/config"
	"estateportal_backend/platform/httpkit"
	"estateportal_backend/platform/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the fully initialized application dependencies.
// Populated by main.go (the composition root) and passed to NewRouter.
type App struct {
	// Config holds the HTTP server and CORS settings.
	Config config.HTTPConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health is pinged by the readiness endpoint; nil disables the check.
	Health HealthChecker
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}

// NewRouter builds the gin engine: recovery, request id, logging, security
// headers, CORS, per-IP rate limiting, health endpoints, and every module's
// routes under /api/v1 behind the bearer-token middleware.
func NewRouter(app *App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(corsMiddleware(app.Config))

	limiter := httpkit.NewIPRateLimiter(rate.Limit(50), 100, app.Logger)
	engine.Use(limiter.RateLimit())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/readyz", func(c *gin.Context) {
		if app.Health != nil {
			if err := app.Health.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	v1 := engine.Group("/api/v1")
	protected := v1.Group("")
	protected.Use(httpkit.RequireBearer())

	ctx := &RouterContext{
		Engine:    engine,
		V1:        v1,
		Protected: protected,
	}

	for _, m := range app.Modules {
		m.RegisterRoutes(ctx)
		app.Logger.Info("module routes registered", "module", m.Name())
	}

	return engine
}

func corsMiddleware(cfg config.HTTPConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: cfg.GetCORSAllowCreds(),
	}

	if cfg.GetCORSAllowAll() {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		origins := cfg.GetCORSOrigins()
		if len(origins) == 0 {
			origins = []string{"http://localhost:3000"}
		}
		for i, o := range origins {
			origins[i] = strings.TrimRight(o, "/")
		}
		corsCfg.AllowOrigins = origins
	}

	return cors.New(corsCfg)
}

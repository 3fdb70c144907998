package v1

import (
	"net/http"
	"strings"
	"time"
	"trial-intake-api/config"
	"trial-intake-api/internal/delivery/http/middleware"
	"trial-intake-api/internal/delivery/http/response"
	"trial-intake-api/internal/domain"
	"trial-intake-api/internal/usecase"
	"trial-intake-api/pkg/apperror"
	"trial-intake-api/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	TrialUC  domain.TrialUsecase
	HealthUC usecase.HealthUsecase
	Events   *security.SecurityLogger
	Config   *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{}
	}

	// Global Middlewares
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware(middleware.CORSConfig{
		Origins:       cfg.AllowedOrigins,
		DevOrigins:    middleware.DefaultDevOrigins,
		PreviewPrefix: "signals",
		Production:    cfg.IsProduction(),
	}))
	r.Use(middleware.Metrics())
	r.Use(middleware.ErrorHandler())

	r.NoMethod(methodNotAllowed(r, deps.Events))
	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "Not found")
	})

	// Public intake endpoint, same path the landing page posts to
	limitCfg := middleware.TrialRateLimitConfig(
		cfg.RateLimitTrialThreshold,
		time.Duration(cfg.RateLimitWindowSeconds)*time.Second,
	)
	limitCfg.Events = deps.Events
	NewTrialHandler(r, deps.TrialUC, middleware.RateLimitMiddleware(limitCfg))

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		if deps.HealthUC == nil {
			response.Data(c, http.StatusOK, gin.H{"status": "ok"})
			return
		}
		response.Data(c, http.StatusOK, deps.HealthUC.Check(c.Request.Context()))
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// methodNotAllowed answers 405 and advertises the methods registered for the path.
func methodNotAllowed(r *gin.Engine, events *security.SecurityLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var allowed []string
		for _, route := range r.Routes() {
			if route.Path == c.Request.URL.Path {
				allowed = append(allowed, route.Method)
			}
		}
		if len(allowed) > 0 {
			c.Header("Allow", strings.Join(allowed, ", "))
		}

		meta := security.MetaFromContext(c.Request.Context())
		events.Log(c.Request.Context(), security.SecurityEvent{
			Event:     security.EventMethodNotAllowed,
			IP:        meta.IP,
			UserAgent: meta.UserAgent,
			RequestID: meta.RequestID,
			Details:   map[string]interface{}{"method": c.Request.Method, "path": c.Request.URL.Path},
		})

		_ = c.Error(apperror.MethodNotAllowed())
		c.Abort()
	}
}

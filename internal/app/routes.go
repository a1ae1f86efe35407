package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/staffdesk/internal/cache"
	"github.com/simp-lee/staffdesk/internal/middleware"
)

// RouteDeps holds all dependencies needed to register routes.
type RouteDeps struct {
	// Public modules are mounted under /api without authentication.
	Public []Module
	// Modules are mounted under /api behind the bearer token middleware.
	Modules  []Module
	Verifier middleware.TokenVerifier
	DB       *gorm.DB
	// Cache is nil when caching is disabled.
	Cache   *cache.Store
	Metrics *middleware.Metrics
}

// RegisterRoutes registers all application routes on the given gin.Engine.
func RegisterRoutes(r *gin.Engine, deps *RouteDeps) error {
	if r == nil {
		return errors.New("router is nil")
	}
	if deps == nil {
		return errors.New("route dependencies are nil")
	}
	if len(deps.Public)+len(deps.Modules) == 0 {
		return errors.New("at least one module is required")
	}
	if len(deps.Modules) > 0 && deps.Verifier == nil {
		return errors.New("token verifier is required for protected modules")
	}

	r.GET("/health", healthHandler(deps.DB, deps.Cache))
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := r.Group("/api")
	for i, m := range deps.Public {
		if m == nil {
			return fmt.Errorf("public module at index %d is nil", i)
		}
		m.RegisterRoutes(api)
	}

	protected := api.Group("")
	protected.Use(middleware.Auth(deps.Verifier))
	for i, m := range deps.Modules {
		if m == nil {
			return fmt.Errorf("module at index %d is nil", i)
		}
		m.RegisterRoutes(protected)
	}

	r.NoRoute(noRouteHandler())

	return nil
}

// healthHandler pings the database and, when configured, every redis alias.
// Any failing component degrades the report to 503.
func healthHandler(db *gorm.DB, store *cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		components := gin.H{"database": "ok", "cache": "disabled"}
		healthy := true

		if err := pingDatabase(ctx, db); err != nil {
			slog.WarnContext(ctx, "health check: database unavailable", slog.Any("error", err))
			components["database"] = "error"
			healthy = false
		}

		if store != nil {
			components["cache"] = "ok"
			if err := store.Ping(ctx); err != nil {
				slog.WarnContext(ctx, "health check: cache unavailable", slog.Any("error", err))
				components["cache"] = "error"
				healthy = false
			}
		}

		status, code := "ok", http.StatusOK
		if !healthy {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "components": components})
	}
}

func pingDatabase(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return errors.New("database is not configured")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageza/recetario/backend/internal/database"
	"github.com/pageza/recetario/backend/internal/middleware"
	"github.com/pageza/recetario/backend/internal/service"
)

// Version is reported by the health endpoint
const Version = "v1.0.0"

// Services groups everything the HTTP layer depends on
type Services struct {
	DB             *gorm.DB
	Ingredients    service.IIngredientService
	Images         service.IImageService
	UploadLimiter  *middleware.RateLimiter
	SeedLimiter    *middleware.RateLimiter
	// MaxUploadBytes caps the request body of an upload; 0 disables the cap
	MaxUploadBytes int64
}

// HealthCheck returns a handler reporting API and database health
func HealthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := database.HealthCheck(ctx, db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": err.Error(),
				"version":  Version,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Recetario API is running",
			"version": Version,
		})
	}
}

// RegisterRoutes registers all API routes on router.
// They are served both at the root and under /api.
func RegisterRoutes(router *gin.Engine, svc Services) {
	ingredientHandler := NewIngredientHandler(svc.Ingredients, svc.SeedLimiter)
	uploadHandler := NewUploadHandler(svc.Images, svc.UploadLimiter, svc.MaxUploadBytes)

	for _, group := range []*gin.RouterGroup{router.Group(""), router.Group("/api")} {
		group.GET("/health", HealthCheck(svc.DB))
		ingredientHandler.RegisterRoutes(group)
		uploadHandler.RegisterRoutes(group)
		RegisterRateLimitRoutes(group, svc.UploadLimiter, svc.SeedLimiter)
	}
}

// RegisterRateLimitRoutes registers endpoints reporting the caller's remaining quota
func RegisterRateLimitRoutes(router *gin.RouterGroup, uploadLimiter, seedLimiter *middleware.RateLimiter) {
	rateLimits := router.Group("/rate-limits")
	{
		rateLimits.GET("/upload", rateLimitStatus(uploadLimiter))
		rateLimits.GET("/seed", rateLimitStatus(seedLimiter))
	}
}

func rateLimitStatus(limiter *middleware.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Enabled() {
			c.JSON(http.StatusOK, gin.H{"enabled": false})
			return
		}

		remaining, resetTime, err := limiter.GetRemainingRequests(c.Request.Context(), c.ClientIP())
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "failed to check rate limit", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo consultar el límite de solicitudes"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"enabled":    true,
			"limit":      limiter.Limit(),
			"remaining":  remaining,
			"reset_time": resetTime.Unix(),
			"window":     limiter.Window().String(),
		})
	}
}

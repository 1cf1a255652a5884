package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/keingkrai/process-tax-ocr/internal/config"
	"github.com/keingkrai/process-tax-ocr/internal/presentation/http/handler"
	"github.com/keingkrai/process-tax-ocr/internal/presentation/http/middleware"
	"github.com/keingkrai/process-tax-ocr/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Document *handler.DocumentHandler
	Process  *handler.ProcessHandler
	Company  *handler.CompanyHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager *utils.JWTManager
	Cfg        *config.Config
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-employee rate limiter
		rateLimiter := middleware.NewEmployeeRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleAuth)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	// Profile
	protected.GET("/profile", h.Auth.GetProfile)

	// Documents
	documents := protected.Group("/documents")
	{
		documents.POST("/process", h.Process.Process)
		documents.GET("", h.Document.List)
		documents.GET("/:id", h.Document.Get)
		documents.DELETE("/:id", h.Document.Delete)
		documents.GET("/:id/history", h.Document.History)
		documents.GET("/:id/file", h.Document.Download)
	}

	// Company registry (Admin)
	companies := protected.Group("/companies")
	companies.Use(middleware.RequireRole("admin"))
	{
		companies.POST("", h.Company.Upsert)
	}
}

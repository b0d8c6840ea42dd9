package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"lambda-router/internal/middleware"
)

// ServiceVersion is reported by the health and version endpoints
const ServiceVersion = "1.0.0"

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	AuthService *middleware.AuthService
	TokenTTL    time.Duration
	SessionTTL  time.Duration
}

// SetupRoutes configures all framework routes. Authentication and request
// validation run earlier, in the lambda router's middleware.
func SetupRoutes(router *gin.Engine, config *RouterConfig) {
	appHandler := NewAppHandler(config.SessionTTL)
	authHandler := NewAuthHandler(config.AuthService, config.TokenTTL)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "lambda-router",
			"version": ServiceVersion,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/echo", appHandler.Echo)
		v1.POST("/echo", appHandler.Echo)
		v1.POST("/session", appHandler.CreateSession)
		v1.GET("/assets/pixel.png", appHandler.Pixel)
		v1.GET("/me", authHandler.GetCurrentUser)

		auth := v1.Group("/auth")
		{
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/validate", authHandler.ValidateToken)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "Not Found",
			Message: "No route for " + c.Request.Method + " " + c.Request.URL.Path,
		})
	})
}

// SetupDevelopmentRoutes adds development-only routes
func SetupDevelopmentRoutes(router *gin.Engine, config *RouterConfig) {
	authHandler := NewAuthHandler(config.AuthService, config.TokenTTL)

	dev := router.Group("/dev")
	{
		// Generate demo token for testing
		dev.POST("/token", authHandler.IssueDevToken)
	}
}

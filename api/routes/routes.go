package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/spinmate/wheel-backend/internal/config"
	"github.com/spinmate/wheel-backend/internal/handlers"
	"github.com/spinmate/wheel-backend/internal/middleware"
)

// HandlerDependencies bundles the handlers the router wires up
type HandlerDependencies struct {
	SpinHandler  *handlers.SpinHandler
	WheelHandler *handlers.WheelHandler
	AuthHandler  *handlers.AuthHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// Add middleware
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		// Health check
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
			})
		})

		// Auth routes
		auth := public.Group("/auth")
		{
			auth.POST("/login", deps.AuthHandler.Login)
		}

		// Frontend routes
		public.GET("/status/:userId", deps.SpinHandler.GetStatus)
		public.POST("/spin", deps.SpinHandler.Spin)
		public.POST("/leads", deps.SpinHandler.SubmitLead)
		public.GET("/spins/:userId", deps.SpinHandler.GetSpinHistory)
		public.GET("/wheel", deps.WheelHandler.GetWheel)
	}

	// Protected routes
	protected := router.Group("/api/v1/admin")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		protected.PUT("/wheel", deps.WheelHandler.SetWheel)
	}

	return router
}

package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-holdings-reconciler/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, auth *middleware.Authenticator) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Holdings (public read access)
		v1.GET("/holdings/:address", handler.GetHoldings)

		// Vesting of one token (public read access)
		v1.GET("/vesting/:token_id", handler.GetVesting)

		// Vesting of a token set (requires authentication)
		v1.POST("/vesting", middleware.Auth(auth), handler.BatchVesting)

		// Contract call queue state (public read access)
		v1.GET("/queue", handler.GetQueueStats)
	}
}

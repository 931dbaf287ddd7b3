package routes

import (
	"github.com/gin-gonic/gin"
	coreport "github.com/poolworks/pool-ledger/internal/domain/port/core"
	"github.com/poolworks/pool-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/poolworks/pool-ledger/internal/infrastructure/adapter/api/middleware"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	userHandler *handler.UserHandler,
	payoutHandler *handler.PayoutHandler,
	wsHandler *handler.WSHandler,
) {
	api := router.Group("/api")
	{
		// POST /api/register
		api.POST("/register", userHandler.Register)

		// POST /api/login
		api.POST("/login", userHandler.Login)

		// GET /api/users/:userId/balance
		api.GET("/users/:userId/balance", userHandler.GetBalance)

		// GET /api/users/:userId/payouts
		api.GET("/users/:userId/payouts", userHandler.GetPayoutHistory)

		// POST /api/payout
		api.POST("/payout", payoutHandler.Distribute)
	}

	// GET /ws: miner WebSocket endpoint
	router.GET("/ws", wsHandler.Serve)
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	// Apply middlewares in the correct order
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())
}

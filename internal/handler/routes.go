package handler

import (
	"github.com/dafibh/fortuna/fortuna-ledger/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, authLimiter *middleware.RateLimiter, authHandler *AuthHandler, transactionHandler *TransactionHandler, wsHandler *WebSocketHandler) {
	api := e.Group("/api")

	// Credential routes (public, rate limited per client IP)
	rateLimit := middleware.RateLimitMiddleware(authLimiter)
	api.POST("/register", authHandler.Register, rateLimit)
	api.POST("/login", authHandler.Login, rateLimit)

	// Transaction routes (protected)
	transactions := api.Group("/transactions")
	transactions.Use(authMiddleware.Authenticate())
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Change stream authenticates with the token query parameter
	if wsHandler != nil {
		api.GET("/ws", wsHandler.HandleWS)
	}
}

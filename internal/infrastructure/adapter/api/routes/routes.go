package routes

import (
	"time"

	coreport "github.com/amirhossein-jamali/flash-sale/internal/domain/port/core"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/api/middleware"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/auth"
	"github.com/gin-gonic/gin"
)

// Rate limit key prefix shared by every limiter backend
const rateLimitKeyPrefix = "rate_limit:flash_sale:"

// Handlers groups the API handlers
type Handlers struct {
	Sale   *handler.SaleHandler
	Admin  *handler.AdminHandler
	Health *handler.HealthHandler
}

// Throttling configures request throttling. Nil limiters disable it.
type Throttling struct {
	Global         middleware.Limiter
	GlobalWindow   time.Duration
	Purchase       middleware.Limiter
	PurchaseWindow time.Duration
}

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	handlers Handlers,
	throttling Throttling,
	tokens *auth.TokenManager,
	logger coreport.Logger,
) {
	router.GET("/health", handlers.Health.Check)

	api := router.Group("/api/v1/flash-sales")
	if throttling.Global != nil {
		api.Use(middleware.RateLimit(throttling.Global, middleware.ClientIPKey(rateLimitKeyPrefix+"global:"), throttling.GlobalWindow, logger))
	}
	{
		// GET /api/v1/flash-sales/current
		api.GET("/current", handlers.Sale.GetCurrentSale)

		// POST /api/v1/flash-sales/current/purchase
		purchaseChain := []gin.HandlerFunc{}
		if throttling.Purchase != nil {
			purchaseChain = append(purchaseChain,
				middleware.RateLimit(throttling.Purchase, middleware.PurchaseKey(rateLimitKeyPrefix), throttling.PurchaseWindow, logger))
		}
		purchaseChain = append(purchaseChain, handlers.Sale.AttemptPurchase)
		api.POST("/current/purchase", purchaseChain...)

		// GET /api/v1/flash-sales/current/purchase?userId=
		api.GET("/current/purchase", handlers.Sale.CheckUserPurchase)

		// POST /api/v1/flash-sales/admin/reset
		api.POST("/admin/reset", middleware.RequireAdmin(tokens, logger), handlers.Admin.ResetSale)
	}

	router.NoRoute(middleware.NotFound())
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, idGenerator coreport.IDGenerator, logger coreport.Logger) {
	// Correlation first so every later log line and error body carries the id
	router.Use(middleware.Correlation(idGenerator))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.ErrorHandler(logger))
}

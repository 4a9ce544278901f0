package handler

import (
	"net/http"
	"time"

	errs "github.com/amirhossein-jamali/flash-sale/internal/domain/error"
	coreport "github.com/amirhossein-jamali/flash-sale/internal/domain/port/core"
	"github.com/amirhossein-jamali/flash-sale/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// AdminHandler handles sale management
type AdminHandler struct {
	saleAdmin usecase.SaleAdminUseCase
	defaults  usecase.SeedOptions
	logger    coreport.Logger
}

// NewAdminHandler creates a new admin handler. defaults fill the fields a
// reset request leaves empty.
func NewAdminHandler(saleAdmin usecase.SaleAdminUseCase, defaults usecase.SeedOptions, logger coreport.Logger) *AdminHandler {
	return &AdminHandler{
		saleAdmin: saleAdmin,
		defaults:  defaults,
		logger:    logger,
	}
}

// ResetSale handles POST /api/v1/flash-sales/admin/reset
func (h *AdminHandler) ResetSale(c *gin.Context) {
	var req dto.ResetSaleRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, h.logger, "reset_sale", errs.NewValidationError("Invalid reset request."))
			return
		}
	}

	opts := h.defaults
	if req.ProductName != "" {
		opts.ProductName = req.ProductName
	}
	if req.TotalStock > 0 {
		opts.TotalStock = req.TotalStock
	}
	if req.DurationMinutes > 0 {
		opts.Duration = time.Duration(req.DurationMinutes) * time.Minute
	}
	opts.StartDelay = time.Duration(req.StartDelaySeconds) * time.Second

	sale, err := h.saleAdmin.SeedOrReset(c.Request.Context(), opts)
	if err != nil {
		respondError(c, h.logger, "reset_sale", err)
		return
	}

	h.logger.Info("Sale reset by admin", map[string]any{
		"sale_id":        sale.ID,
		"admin":          middleware.AdminSubject(c),
		"correlation_id": middleware.CorrelationID(c),
	})

	c.JSON(http.StatusOK, dto.DataResponse{Data: dto.NewSaleResponse(sale)})
}

package handler

import (
	"net/http"

	errs "github.com/amirhossein-jamali/flash-sale/internal/domain/error"
	coreport "github.com/amirhossein-jamali/flash-sale/internal/domain/port/core"
	"github.com/amirhossein-jamali/flash-sale/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/flash-sale/internal/domain/usecase/purchase"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// SaleHandler handles the buyer-facing flash sale endpoints
type SaleHandler struct {
	purchaseUseCase usecase.PurchaseUseCase
	logger          coreport.Logger
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(purchaseUseCase usecase.PurchaseUseCase, logger coreport.Logger) *SaleHandler {
	return &SaleHandler{
		purchaseUseCase: purchaseUseCase,
		logger:          logger,
	}
}

// GetCurrentSale handles GET /api/v1/flash-sales/current
func (h *SaleHandler) GetCurrentSale(c *gin.Context) {
	view, err := h.purchaseUseCase.GetCurrentSale(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "get_current_sale", err)
		return
	}

	c.JSON(http.StatusOK, dto.DataResponse{Data: dto.NewFlashSaleResponse(view)})
}

// AttemptPurchase handles POST /api/v1/flash-sales/current/purchase
func (h *SaleHandler) AttemptPurchase(c *gin.Context) {
	var req dto.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, "attempt_purchase", errs.NewValidationError("Request body must be a JSON object."))
		return
	}

	var userID string
	switch v := req.UserID.(type) {
	case nil:
		respondError(c, h.logger, "attempt_purchase", errs.NewValidationError(purchase.MsgUserIDEmpty))
		return
	case string:
		userID = v
	default:
		respondError(c, h.logger, "attempt_purchase", errs.NewValidationError(purchase.MsgUserIDNotString))
		return
	}

	result, err := h.purchaseUseCase.AttemptPurchase(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, "attempt_purchase", err)
		return
	}

	c.JSON(http.StatusCreated, dto.DataResponse{Data: dto.NewPurchaseResultResponse(result)})
}

// CheckUserPurchase handles GET /api/v1/flash-sales/current/purchase?userId=
func (h *SaleHandler) CheckUserPurchase(c *gin.Context) {
	check, err := h.purchaseUseCase.CheckUserPurchase(c.Request.Context(), c.Query("userId"))
	if err != nil {
		respondError(c, h.logger, "check_user_purchase", err)
		return
	}

	c.JSON(http.StatusOK, dto.DataResponse{Data: dto.NewUserPurchaseCheckResponse(check)})
}

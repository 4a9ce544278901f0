package usecase

import (
	"context"

	"github.com/amirhossein-jamali/flash-sale/internal/domain/entity"
)

// PurchaseUseCase defines the buyer-facing operations of the flash sale
type PurchaseUseCase interface {
	// AttemptPurchase tries to allocate one unit of the current sale to the user
	AttemptPurchase(ctx context.Context, userID string) (*entity.PurchaseResult, error)

	// GetCurrentSale returns the current sale with its status and believed stock
	GetCurrentSale(ctx context.Context) (*entity.SaleView, error)

	// CheckUserPurchase reports whether the user holds a confirmed purchase in the current sale
	CheckUserPurchase(ctx context.Context, userID string) (*entity.UserPurchaseCheck, error)
}

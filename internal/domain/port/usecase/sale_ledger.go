package usecase

import (
	"context"

	"github.com/amirhossein-jamali/flash-sale/internal/domain/entity"
)

// SaleLedger is the durable system of record for stock and purchases
type SaleLedger interface {
	// GetCurrentSale returns the most recently created sale, or nil when none exists
	GetCurrentSale(ctx context.Context) (*entity.Sale, error)

	// FindConfirmedPurchase returns the user's confirmed purchase, or nil
	FindConfirmedPurchase(ctx context.Context, saleID, userID string) (*entity.Purchase, error)

	// CommitPurchase serializes on the sale, re-checks for a duplicate, decrements
	// stock with a non-negative guard and inserts a confirmed purchase, all in one transaction.
	//
	// Possible errors:
	// - ErrSaleNotFound, ErrAlreadyPurchased, ErrSoldOut
	// - any storage error, unchanged
	CommitPurchase(ctx context.Context, saleID, userID string) (*entity.Purchase, error)
}

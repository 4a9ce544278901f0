package persistence

import (
	"context"

	"github.com/amirhossein-jamali/flash-sale/internal/domain/entity"
)

// PurchaseRepository defines methods to interact with purchase data
type PurchaseRepository interface {
	// FindConfirmed returns the confirmed purchase of a user in a sale, or nil
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	FindConfirmed(ctx context.Context, saleID, userID string) (*entity.Purchase, error)

	// Create inserts a purchase
	//
	// Possible errors:
	// - ErrAlreadyPurchased: If a confirmed purchase for (sale, user) already exists
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, purchase *entity.Purchase) error

	// CountConfirmed returns the number of confirmed purchases of a sale
	CountConfirmed(ctx context.Context, saleID string) (int64, error)

	// DeleteBySale removes every purchase of a sale; used when a sale is reset
	DeleteBySale(ctx context.Context, saleID string) error
}

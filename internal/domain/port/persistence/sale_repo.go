package persistence

import (
	"context"

	"github.com/amirhossein-jamali/flash-sale/internal/domain/entity"
)

// SaleRepository defines the methods the ledger and the seed tool need on sales
type SaleRepository interface {
	// GetCurrent returns the most recently created sale, or nil when none exists
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	GetCurrent(ctx context.Context) (*entity.Sale, error)

	// GetByID retrieves a sale by ID
	//
	// Possible errors:
	// - ErrSaleNotFound: If sale with specified ID doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	GetByID(ctx context.Context, id string) (*entity.Sale, error)

	// Create persists a new sale
	//
	// Possible errors:
	// - ErrConstraintViolation: If stock values break the table constraints
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, sale *entity.Sale) error

	// Reset overwrites the window and the remaining stock of an existing sale
	//
	// Possible errors:
	// - ErrSaleNotFound: If sale doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	Reset(ctx context.Context, sale *entity.Sale) error

	// LockForPurchase takes the per-sale serialization lock inside the current
	// transaction and returns the locked row
	//
	// Possible errors:
	// - ErrSaleNotFound: If sale doesn't exist
	// - ErrLockTimeout: If the row lock could not be acquired
	// - ErrDatabaseConnection: If database connection fails
	LockForPurchase(ctx context.Context, id string) (*entity.Sale, error)

	// DecrementRemaining subtracts one unit only while remaining stock is positive.
	// Returns false when the guarded update affected no rows.
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	DecrementRemaining(ctx context.Context, id string) (bool, error)
}

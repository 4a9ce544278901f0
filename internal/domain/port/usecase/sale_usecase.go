package usecase

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/flash-sale/internal/domain/entity"
)

// SeedOptions controls how the current sale is created or reset
type SeedOptions struct {
	ProductName string
	TotalStock  int64
	StartDelay  time.Duration // zero opens the sale immediately
	Duration    time.Duration
}

// SaleAdminUseCase defines out-of-band sale management
type SaleAdminUseCase interface {
	// SeedOrReset resets the current sale or creates one, then clears the gate
	SeedOrReset(ctx context.Context, opts SeedOptions) (*entity.Sale, error)
}

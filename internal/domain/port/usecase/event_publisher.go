package usecase

import (
	"context"

	"github.com/amirhossein-jamali/flash-sale/internal/domain/entity"
)

// PurchaseEventPublisher announces committed purchases to downstream consumers
type PurchaseEventPublisher interface {
	PublishPurchaseConfirmed(ctx context.Context, event entity.PurchaseConfirmed) error
	Close() error
}

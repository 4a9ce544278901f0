package event

import (
	"context"

	"github.com/amirhossein-jamali/flash-sale/internal/domain/entity"
	"github.com/amirhossein-jamali/flash-sale/internal/domain/port/usecase"
)

// NoopPublisher drops every event; used when Kafka is disabled
type NoopPublisher struct{}

var _ usecase.PurchaseEventPublisher = NoopPublisher{}

// PublishPurchaseConfirmed does nothing
func (NoopPublisher) PublishPurchaseConfirmed(context.Context, entity.PurchaseConfirmed) error {
	return nil
}

// Close does nothing
func (NoopPublisher) Close() error { return nil }

package usecase

import (
	"context"
	"errors"
)

// ErrGateCold is returned by Decrement and Increment when the sale has no
// counter, for example after an invalidation or a TTL expiry. The counter is
// not created; the caller re-seeds it from the ledger.
var ErrGateCold = errors.New("stock gate counter not initialized")

// StockGate is the fast admission counter kept per sale. Its value is a
// disposable belief about remaining stock and may be stale, absent, or
// transiently negative; the ledger stays authoritative.
type StockGate interface {
	// Read returns the believed stock; ok is false when the counter is not initialized
	Read(ctx context.Context, saleID string) (value int64, ok bool, err error)

	// Initialize sets the counter only if it is not set yet
	Initialize(ctx context.Context, saleID string, value int64) error

	// Decrement atomically subtracts one and returns the result, which may be
	// negative. Returns ErrGateCold when the counter does not exist.
	Decrement(ctx context.Context, saleID string) (int64, error)

	// Increment atomically adds one and returns the result. Returns
	// ErrGateCold when the counter does not exist.
	Increment(ctx context.Context, saleID string) (int64, error)

	// Invalidate drops the counter so the next reader re-seeds it from the ledger
	Invalidate(ctx context.Context, saleID string) error
}

package gate

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/amirhossein-jamali/flash-sale/internal/domain/port/usecase"
)

// MemoryGate keeps one atomic counter per sale in process memory.
// It is only correct for a single service instance.
type MemoryGate struct {
	counters sync.Map // map[string]*atomic.Int64
}

// NewMemoryGate creates an empty MemoryGate
func NewMemoryGate() *MemoryGate {
	return &MemoryGate{}
}

var _ usecase.StockGate = (*MemoryGate)(nil)

// Read returns the counter value, or ok=false when it was never initialized
func (g *MemoryGate) Read(_ context.Context, saleID string) (int64, bool, error) {
	counter, ok := g.counters.Load(saleID)
	if !ok {
		return 0, false, nil
	}
	return counter.(*atomic.Int64).Load(), true, nil
}

// Initialize installs the value only if no counter exists yet
func (g *MemoryGate) Initialize(_ context.Context, saleID string, value int64) error {
	counter := new(atomic.Int64)
	counter.Store(value)
	g.counters.LoadOrStore(saleID, counter)
	return nil
}

// Decrement subtracts one. An absent counter is reported, not created.
func (g *MemoryGate) Decrement(_ context.Context, saleID string) (int64, error) {
	return g.add(saleID, -1)
}

// Increment adds one. An absent counter is reported, not created.
func (g *MemoryGate) Increment(_ context.Context, saleID string) (int64, error) {
	return g.add(saleID, 1)
}

// Invalidate drops the counter
func (g *MemoryGate) Invalidate(_ context.Context, saleID string) error {
	g.counters.Delete(saleID)
	return nil
}

func (g *MemoryGate) add(saleID string, delta int64) (int64, error) {
	counter, ok := g.counters.Load(saleID)
	if !ok {
		return 0, usecase.ErrGateCold
	}
	return counter.(*atomic.Int64).Add(delta), nil
}

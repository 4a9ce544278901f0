package sale

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/flash-sale/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/flash-sale/internal/domain/port/core"
	"github.com/amirhossein-jamali/flash-sale/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/flash-sale/internal/domain/port/usecase"
)

// Defaults used when SeedOptions leave a field empty
const (
	DefaultProductName = "Limited Edition Mechanical Keyboard"
	DefaultTotalStock  = 100
	DefaultDuration    = 30 * time.Minute
)

// Seeder creates or resets the current sale out of band
type Seeder struct {
	uow          persistence.UnitOfWork
	gate         usecase.StockGate
	idGenerator  coreport.IDGenerator
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewSeeder creates a new Seeder
func NewSeeder(
	uow persistence.UnitOfWork,
	gate usecase.StockGate,
	idGenerator coreport.IDGenerator,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Seeder {
	return &Seeder{
		uow:          uow,
		gate:         gate,
		idGenerator:  idGenerator,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

var _ usecase.SaleAdminUseCase = (*Seeder)(nil)

// SeedOrReset resets the current sale to full stock with a fresh window, or
// creates one when none exists. The gate counter is dropped afterwards so the
// next reader re-seeds it from the ledger.
func (s *Seeder) SeedOrReset(ctx context.Context, opts usecase.SeedOptions) (sale *entity.Sale, err error) {
	opts = withDefaults(opts)
	now := s.timeProvider.Now().UTC()
	start := now.Add(opts.StartDelay)
	end := start.Add(opts.Duration)

	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rbErr := s.uow.Rollback(txCtx); rbErr != nil {
				s.logger.Warn("Failed to roll back seed transaction", map[string]any{"error": rbErr.Error()})
			}
		}
	}()

	sales := s.uow.GetSaleRepository(txCtx)
	current, err := sales.GetCurrent(txCtx)
	if err != nil {
		return nil, err
	}

	var cleared int64
	if current != nil {
		if err = current.Reset(start, end, now); err != nil {
			return nil, err
		}
		if err = sales.Reset(txCtx, current); err != nil {
			return nil, err
		}
		purchases := s.uow.GetPurchaseRepository(txCtx)
		if cleared, err = purchases.CountConfirmed(txCtx, current.ID); err != nil {
			return nil, err
		}
		if err = purchases.DeleteBySale(txCtx, current.ID); err != nil {
			return nil, err
		}
		sale = current
	} else {
		sale, err = entity.NewSale(s.idGenerator.NewID(), opts.ProductName, opts.TotalStock, start, end, now)
		if err != nil {
			return nil, err
		}
		if err = sales.Create(txCtx, sale); err != nil {
			return nil, err
		}
	}

	// Return the row as stored so callers see the same values later reads will
	if sale, err = sales.GetByID(txCtx, sale.ID); err != nil {
		return nil, err
	}

	if err = s.uow.Commit(txCtx); err != nil {
		return nil, err
	}

	// The ledger change is already committed; a stale gate only delays visibility.
	if gateErr := s.gate.Invalidate(ctx, sale.ID); gateErr != nil {
		s.logger.Warn("Failed to clear stock gate after seeding", map[string]any{
			"sale_id": sale.ID,
			"error":   gateErr.Error(),
		})
	}

	s.logger.Info("Flash sale seeded", map[string]any{
		"sale_id":      sale.ID,
		"product_name": sale.ProductName,
		"total_stock":  sale.TotalStock,
		"start_time":   sale.StartTime,
		"end_time":     sale.EndTime,
		"reset":        current != nil,
		"cleared":      cleared,
	})

	return sale, nil
}

func withDefaults(opts usecase.SeedOptions) usecase.SeedOptions {
	if opts.ProductName == "" {
		opts.ProductName = DefaultProductName
	}
	if opts.TotalStock <= 0 {
		opts.TotalStock = DefaultTotalStock
	}
	if opts.Duration <= 0 {
		opts.Duration = DefaultDuration
	}
	if opts.StartDelay < 0 {
		opts.StartDelay = 0
	}
	return opts
}

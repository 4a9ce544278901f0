package ledger

import (
	"context"

	"github.com/amirhossein-jamali/flash-sale/internal/domain/entity"
	errs "github.com/amirhossein-jamali/flash-sale/internal/domain/error"
	coreport "github.com/amirhossein-jamali/flash-sale/internal/domain/port/core"
	"github.com/amirhossein-jamali/flash-sale/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/flash-sale/internal/domain/port/usecase"
)

// Ledger is the transactional system of record for stock and purchases
type Ledger struct {
	uow          persistence.UnitOfWork
	idGenerator  coreport.IDGenerator
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewLedger creates a new Ledger
func NewLedger(
	uow persistence.UnitOfWork,
	idGenerator coreport.IDGenerator,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Ledger {
	return &Ledger{
		uow:          uow,
		idGenerator:  idGenerator,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

var _ usecase.SaleLedger = (*Ledger)(nil)

// GetCurrentSale returns the most recently created sale, or nil
func (l *Ledger) GetCurrentSale(ctx context.Context) (*entity.Sale, error) {
	return l.uow.GetSaleRepository(ctx).GetCurrent(ctx)
}

// FindConfirmedPurchase returns the user's confirmed purchase in the sale, or nil
func (l *Ledger) FindConfirmedPurchase(ctx context.Context, saleID, userID string) (*entity.Purchase, error) {
	return l.uow.GetPurchaseRepository(ctx).FindConfirmed(ctx, saleID, userID)
}

// CommitPurchase allocates one unit to the user inside a single transaction.
// The sale row lock serializes every commit for the same sale; the duplicate
// check and the guarded decrement both run under it.
func (l *Ledger) CommitPurchase(ctx context.Context, saleID, userID string) (purchase *entity.Purchase, err error) {
	txCtx, err := l.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err == nil {
			return
		}
		if rbErr := l.uow.Rollback(txCtx); rbErr != nil {
			l.logger.Warn("Failed to roll back purchase transaction", map[string]any{
				"sale_id": saleID,
				"user_id": userID,
				"error":   rbErr.Error(),
			})
		}
	}()

	sales := l.uow.GetSaleRepository(txCtx)
	purchases := l.uow.GetPurchaseRepository(txCtx)

	if _, err = sales.LockForPurchase(txCtx, saleID); err != nil {
		return nil, err
	}

	existing, err := purchases.FindConfirmed(txCtx, saleID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		err = errs.NewAlreadyPurchasedError()
		return nil, err
	}

	decremented, err := sales.DecrementRemaining(txCtx, saleID)
	if err != nil {
		return nil, err
	}
	if !decremented {
		err = errs.NewSoldOutError()
		return nil, err
	}

	purchase = entity.NewConfirmedPurchase(l.idGenerator.NewID(), saleID, userID, l.timeProvider.Now().UTC())
	if err = purchases.Create(txCtx, purchase); err != nil {
		return nil, err
	}

	if err = l.uow.Commit(txCtx); err != nil {
		return nil, err
	}

	l.logger.Debug("Purchase committed", map[string]any{
		"sale_id":     saleID,
		"user_id":     userID,
		"purchase_id": purchase.ID,
	})

	return purchase, nil
}

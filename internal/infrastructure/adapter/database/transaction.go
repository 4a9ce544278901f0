package database

import (
	"context"
	"database/sql"
	"errors"

	coreport "github.com/amirhossein-jamali/flash-sale/internal/domain/port/core"
	"github.com/amirhossein-jamali/flash-sale/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/repository"
	"gorm.io/gorm"
)

type txKey struct{}

// errNoTransaction is returned by Commit and Rollback without a prior Begin
var errNoTransaction = errors.New("no transaction found in context")

// UnitOfWork scopes the sale and purchase repositories to one gorm
// transaction carried in the context. Transactions run at the driver's
// default isolation; purchases are serialized by the sale row lock.
type UnitOfWork struct {
	db           *gorm.DB
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
	errorMapper  *ErrorMapper
	metrics      *MetricsCollector
}

// NewUnitOfWork creates a new UnitOfWork instance
func NewUnitOfWork(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) *UnitOfWork {
	return &UnitOfWork{
		db:           db,
		logger:       logger,
		timeProvider: timeProvider,
		errorMapper:  NewErrorMapper(),
		metrics:      NewMetricsCollector(logger, timeProvider, DefaultSlowCommitThreshold),
	}
}

var _ persistence.UnitOfWork = (*UnitOfWork)(nil)

func txFrom(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	return tx, ok && tx != nil
}

func (u *UnitOfWork) fields(ctx context.Context) map[string]any {
	if id := coreport.CorrelationIDFrom(ctx); id != "" {
		return map[string]any{"correlation_id": id}
	}
	return nil
}

// Begin opens a transaction and returns a context carrying it
func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if _, nested := txFrom(ctx); nested {
		return ctx, errors.New("transaction already open in context")
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		u.logger.Error("Failed to begin purchase transaction", withError(u.fields(ctx), tx.Error))
		return ctx, u.errorMapper.MapError(tx.Error, "begin transaction")
	}

	u.logger.Debug("Purchase transaction opened", u.fields(ctx))
	return context.WithValue(ctx, txKey{}, tx), nil
}

// Commit commits the transaction carried by ctx, timing the commit
func (u *UnitOfWork) Commit(ctx context.Context) error {
	tx, ok := txFrom(ctx)
	if !ok {
		return errNoTransaction
	}

	_, err := u.metrics.Measure(ctx, "commit", func() error {
		return tx.Commit().Error
	})
	if err != nil {
		u.logger.Error("Failed to commit purchase transaction", withError(u.fields(ctx), err))
		return u.errorMapper.MapError(err, "commit transaction")
	}
	return nil
}

// Rollback aborts the transaction carried by ctx. A transaction that is
// already finished is left alone.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	tx, ok := txFrom(ctx)
	if !ok {
		return errNoTransaction
	}

	err := tx.Rollback().Error
	switch {
	case err == nil:
		u.logger.Debug("Purchase transaction rolled back", u.fields(ctx))
		return nil
	case errors.Is(err, sql.ErrTxDone):
		return nil
	default:
		u.logger.Error("Failed to roll back purchase transaction", withError(u.fields(ctx), err))
		return u.errorMapper.MapError(err, "rollback transaction")
	}
}

// GetSaleRepository returns a sale repository bound to ctx's transaction, if any
func (u *UnitOfWork) GetSaleRepository(ctx context.Context) persistence.SaleRepository {
	return repository.NewSaleRepository(u.conn(ctx), u.timeProvider, u.logger)
}

// GetPurchaseRepository returns a purchase repository bound to ctx's transaction, if any
func (u *UnitOfWork) GetPurchaseRepository(ctx context.Context) persistence.PurchaseRepository {
	return repository.NewPurchaseRepository(u.conn(ctx), u.logger)
}

func (u *UnitOfWork) conn(ctx context.Context) *gorm.DB {
	if tx, ok := txFrom(ctx); ok {
		return tx.WithContext(ctx)
	}
	return u.db.WithContext(ctx)
}

func withError(fields map[string]any, err error) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["error"] = err.Error()
	return out
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirhossein-jamali/flash-sale/internal/domain/entity"
	errs "github.com/amirhossein-jamali/flash-sale/internal/domain/error"
	coreport "github.com/amirhossein-jamali/flash-sale/internal/domain/port/core"
	"github.com/amirhossein-jamali/flash-sale/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaleRepository implements SaleRepository interface using GORM
type SaleRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewSaleRepository creates a new SaleRepository instance
func NewSaleRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *SaleRepository {
	return &SaleRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

var _ persistence.SaleRepository = (*SaleRepository)(nil)

// handleDatabaseError standardizes database error handling
func (r *SaleRepository) handleDatabaseError(operation string, err error, saleID string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewSaleNotFoundError()
	}

	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"sale_id": saleID,
		"error":   err.Error(),
	})

	switch r.errorClassifier.Classify(err) {
	case LockError:
		return fmt.Errorf("%w: %s", errs.ErrLockTimeout, err.Error())
	case ConstraintError, DuplicateKeyError:
		return fmt.Errorf("%w: %s", errs.ErrConstraintViolation, err.Error())
	case ConnectionError, TransientError:
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}
	return fmt.Errorf("%s: %w", operation, err)
}

// GetCurrent returns the most recently created sale, or nil when none exists
func (r *SaleRepository) GetCurrent(ctx context.Context) (*entity.Sale, error) {
	var sales []model.Sale
	result := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(1).
		Find(&sales)
	if result.Error != nil {
		return nil, r.handleDatabaseError("getting current sale", result.Error, "")
	}
	if len(sales) == 0 {
		return nil, nil
	}
	return sales[0].ToEntity(), nil
}

// GetByID retrieves a sale by ID
func (r *SaleRepository) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	var saleModel model.Sale
	if err := r.db.WithContext(ctx).First(&saleModel, "id = ?", id).Error; err != nil {
		return nil, r.handleDatabaseError("getting sale", err, id)
	}
	return saleModel.ToEntity(), nil
}

// Create persists a new sale
func (r *SaleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	saleModel := model.SaleFromEntity(sale)
	if err := r.db.WithContext(ctx).Create(saleModel).Error; err != nil {
		return r.handleDatabaseError("creating sale", err, sale.ID)
	}

	r.logger.Info("Sale created successfully", map[string]any{
		"sale_id":     sale.ID,
		"total_stock": sale.TotalStock,
	})
	return nil
}

// Reset overwrites the window and remaining stock of an existing sale
func (r *SaleRepository) Reset(ctx context.Context, sale *entity.Sale) error {
	result := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("id = ?", sale.ID).
		Updates(map[string]any{
			"start_time":      sale.StartTime,
			"end_time":        sale.EndTime,
			"remaining_stock": sale.RemainingStock,
			"updated_at":      sale.UpdatedAt,
		})
	if result.Error != nil {
		return r.handleDatabaseError("resetting sale", result.Error, sale.ID)
	}
	if result.RowsAffected == 0 {
		return errs.NewSaleNotFoundError()
	}
	return nil
}

// LockForPurchase selects the sale row FOR UPDATE inside the current
// transaction. SQLite has no row locks; there the immediate transaction
// already holds the database write lock.
func (r *SaleRepository) LockForPurchase(ctx context.Context, id string) (*entity.Sale, error) {
	var saleModel model.Sale
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&saleModel, "id = ?", id).Error
	if err != nil {
		return nil, r.handleDatabaseError("locking sale", err, id)
	}
	return saleModel.ToEntity(), nil
}

// DecrementRemaining subtracts one unit with a remaining_stock > 0 guard.
// It reports false when the guard matched no row.
func (r *SaleRepository) DecrementRemaining(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("id = ? AND remaining_stock > 0", id).
		Updates(map[string]any{
			"remaining_stock": gorm.Expr("remaining_stock - 1"),
			"updated_at":      r.timeProvider.Now().UTC(),
		})
	if result.Error != nil {
		return false, r.handleDatabaseError("decrementing stock", result.Error, id)
	}
	return result.RowsAffected == 1, nil
}

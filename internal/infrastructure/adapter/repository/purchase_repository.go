package repository

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/flash-sale/internal/domain/entity"
	errs "github.com/amirhossein-jamali/flash-sale/internal/domain/error"
	coreport "github.com/amirhossein-jamali/flash-sale/internal/domain/port/core"
	"github.com/amirhossein-jamali/flash-sale/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// PurchaseRepository implements PurchaseRepository interface using GORM
type PurchaseRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewPurchaseRepository creates a new PurchaseRepository instance
func NewPurchaseRepository(db *gorm.DB, logger coreport.Logger) *PurchaseRepository {
	return &PurchaseRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

var _ persistence.PurchaseRepository = (*PurchaseRepository)(nil)

// FindConfirmed returns the confirmed purchase of a user in a sale, or nil
func (r *PurchaseRepository) FindConfirmed(ctx context.Context, saleID, userID string) (*entity.Purchase, error) {
	var purchases []model.Purchase
	err := r.db.WithContext(ctx).
		Where("sale_id = ? AND user_id = ? AND status = ?", saleID, userID, string(entity.PurchaseStatusConfirmed)).
		Limit(1).
		Find(&purchases).Error
	if err != nil {
		r.logger.Error("Database error when finding purchase", map[string]any{
			"sale_id": saleID,
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("finding purchase: %w", err)
	}
	if len(purchases) == 0 {
		return nil, nil
	}
	return purchases[0].ToEntity(), nil
}

// Create inserts a purchase. A violation of the confirmed-purchase unique
// index is reported as a duplicate purchase.
func (r *PurchaseRepository) Create(ctx context.Context, purchase *entity.Purchase) error {
	err := r.db.WithContext(ctx).Omit("Sale").Create(model.PurchaseFromEntity(purchase)).Error
	if err == nil {
		return nil
	}

	if r.errorClassifier.IsDuplicateKeyError(err) {
		r.logger.Warn("Duplicate purchase rejected by unique index", map[string]any{
			"sale_id": purchase.SaleID,
			"user_id": purchase.UserID,
		})
		return errs.NewAlreadyPurchasedError()
	}

	r.logger.Error("Database error when creating purchase", map[string]any{
		"sale_id": purchase.SaleID,
		"user_id": purchase.UserID,
		"error":   err.Error(),
	})
	return fmt.Errorf("creating purchase: %w", err)
}

// CountConfirmed returns the number of confirmed purchases of a sale
func (r *PurchaseRepository) CountConfirmed(ctx context.Context, saleID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Where("sale_id = ? AND status = ?", saleID, string(entity.PurchaseStatusConfirmed)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting purchases: %w", err)
	}
	return count, nil
}

// DeleteBySale removes every purchase of a sale
func (r *PurchaseRepository) DeleteBySale(ctx context.Context, saleID string) error {
	result := r.db.WithContext(ctx).Where("sale_id = ?", saleID).Delete(&model.Purchase{})
	if result.Error != nil {
		return fmt.Errorf("deleting purchases: %w", result.Error)
	}
	r.logger.Info("Purchases cleared for sale", map[string]any{
		"sale_id": saleID,
		"deleted": result.RowsAffected,
	})
	return nil
}


package migration

import (
	"context"

	coreport "github.com/amirhossein-jamali/flash-sale/internal/domain/port/core"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// ConfirmedPurchaseIndex allows at most one confirmed purchase per (sale, user)
const ConfirmedPurchaseIndex = "idx_purchases_confirmed_unique"

func createBaseSchema(_ context.Context, db *gorm.DB, _ coreport.Logger) error {
	return db.AutoMigrate(&model.Sale{}, &model.Purchase{})
}

// The partial index syntax is shared by PostgreSQL and SQLite.
func addConfirmedPurchaseIndex(_ context.Context, db *gorm.DB, logger coreport.Logger) error {
	if db.Migrator().HasIndex(&model.Purchase{}, ConfirmedPurchaseIndex) {
		logger.Debug("Confirmed purchase index already present", nil)
		return nil
	}

	return db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS ` + ConfirmedPurchaseIndex + `
		ON purchases (sale_id, user_id)
		WHERE status = 'confirmed'
	`).Error
}

// tunePostgres adds reporting indexes SQLite cannot express. Storage settings
// are best effort.
func tunePostgres(_ context.Context, db *gorm.DB, logger coreport.Logger) error {
	// Confirmed purchases per sale, newest first
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_purchases_confirmed_by_sale
		ON purchases (sale_id, created_at DESC)
		WHERE status = 'confirmed'
	`).Error; err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_purchases_created_at_brin
		ON purchases USING BRIN (created_at)
		WITH (pages_per_range = 32)
	`).Error; err != nil {
		return err
	}

	// The sale row is rewritten once per purchase; leave room for HOT updates
	if err := db.Exec(`ALTER TABLE flash_sales SET (fillfactor = 70)`).Error; err != nil {
		logger.Warn("Failed to set fillfactor for flash_sales", map[string]any{"error": err.Error()})
	}
	if err := db.Exec(`ALTER TABLE purchases ALTER COLUMN user_id SET STATISTICS 1000`).Error; err != nil {
		logger.Warn("Failed to set statistics target for purchases.user_id", map[string]any{"error": err.Error()})
	}
	return nil
}

package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/amirhossein-jamali/flash-sale/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/flash-sale/internal/domain/port/core"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/model"
	timeprovider "github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/time"
)

// TestDBManager provides utilities for testing against a migrated SQLite file
type TestDBManager struct {
	Manager      *Manager
	Config       *Config
	Logger       coreport.Logger
	TimeProvider coreport.TimeProvider
}

// NewTestDBManager creates a connected and migrated test database in t.TempDir().
// The connection is closed on test cleanup.
func NewTestDBManager(t *testing.T, logger coreport.Logger) *TestDBManager {
	t.Helper()

	timeProvider := timeprovider.NewRealTimeProvider()

	config := &Config{
		Driver:          DriverSQLite,
		SQLitePath:      filepath.Join(t.TempDir(), "flash_sale_test.db"),
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: time.Hour,
		QueryTimeout:    5 * time.Second,
		LogLevel:        "silent",
		RetryAttempts:   1,
	}

	manager := NewManager(config, logger, timeProvider)
	ctx := context.Background()

	if _, err := manager.Connect(ctx); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() {
		if err := manager.Close(); err != nil {
			t.Logf("Warning: Failed to close test database connection: %v", err)
		}
	})

	if err := manager.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return &TestDBManager{
		Manager:      manager,
		Config:       config,
		Logger:       logger,
		TimeProvider: timeProvider,
	}
}

// TruncateAllTables removes every purchase and sale
func (m *TestDBManager) TruncateAllTables(t *testing.T) {
	t.Helper()

	db := m.Manager.DB()
	if err := db.Exec("DELETE FROM purchases").Error; err != nil {
		t.Fatalf("Failed to truncate purchases: %v", err)
	}
	if err := db.Exec("DELETE FROM flash_sales").Error; err != nil {
		t.Fatalf("Failed to truncate flash_sales: %v", err)
	}
}

// CreateTestSale inserts a sale with the given stock whose window is open at now
func (m *TestDBManager) CreateTestSale(t *testing.T, id string, totalStock int64, now time.Time) *entity.Sale {
	t.Helper()

	sale, err := entity.NewSale(id, "Test Keyboard", totalStock, now.Add(-time.Minute), now.Add(30*time.Minute), now)
	if err != nil {
		t.Fatalf("Failed to build test sale: %v", err)
	}

	if err := m.Manager.DB().Create(model.SaleFromEntity(sale)).Error; err != nil {
		t.Fatalf("Failed to create test sale: %v", err)
	}
	return sale
}

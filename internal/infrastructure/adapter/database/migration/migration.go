package migration

import (
	"context"
	"errors"
	"fmt"
	"slices"

	coreport "github.com/amirhossein-jamali/flash-sale/internal/domain/port/core"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// step is one schema version. Pending steps run in order and each one is
// recorded in schema_versions once applied.
type step struct {
	version     string
	description string
	dialects    []string // empty means every dialect
	apply       func(ctx context.Context, db *gorm.DB, logger coreport.Logger) error
}

var steps = []step{
	{"1.0.0", "flash_sales and purchases tables", nil, createBaseSchema},
	{"1.1.0", "one confirmed purchase per sale and user", nil, addConfirmedPurchaseIndex},
	{"1.2.0", "reporting indexes and storage settings", []string{"postgres"}, tunePostgres},
}

// CurrentSchemaVersion is the version of the newest step
var CurrentSchemaVersion = steps[len(steps)-1].version

// ErrUnknownSchemaVersion is returned when the database records a version this build does not know
var ErrUnknownSchemaVersion = errors.New("unknown schema version")

// MigrationManager manages database migrations
type MigrationManager struct {
	db           *gorm.DB
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) *MigrationManager {
	return &MigrationManager{
		db:           db,
		logger:       logger,
		timeProvider: timeProvider,
	}
}

// MigrateAll applies every step newer than the recorded schema version
func (m *MigrationManager) MigrateAll(ctx context.Context) error {
	dialect := m.db.Dialector.Name()

	if err := m.db.WithContext(ctx).AutoMigrate(&model.SchemaVersion{}); err != nil {
		return fmt.Errorf("create migration version table: %w", err)
	}

	currentVersion, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	pending, err := pendingSteps(currentVersion)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		m.logger.Info("Database schema up to date", map[string]any{"version": currentVersion})
		return nil
	}

	m.logger.Info("Starting database migrations", map[string]any{
		"from":    currentVersion,
		"to":      CurrentSchemaVersion,
		"dialect": dialect,
		"steps":   len(pending),
	})

	for _, s := range pending {
		details := s.description
		if len(s.dialects) > 0 && !slices.Contains(s.dialects, dialect) {
			details += " (skipped on " + dialect + ")"
		} else if err := s.apply(ctx, m.db.WithContext(ctx), m.logger); err != nil {
			m.logger.Error("Migration step failed", map[string]any{
				"version": s.version,
				"error":   err.Error(),
			})
			return fmt.Errorf("migration %s: %w", s.version, err)
		}

		if err := m.setVersion(ctx, s.version, details); err != nil {
			return fmt.Errorf("record schema version %s: %w", s.version, err)
		}
		m.logger.Info("Migration step applied", map[string]any{"version": s.version, "details": details})
	}

	return nil
}

// GetCurrentVersion returns the last recorded schema version, or "" for a fresh database
func (m *MigrationManager) GetCurrentVersion(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	var versions []model.SchemaVersion
	err := m.db.WithContext(ctx).Order("applied_at desc").Order("id desc").Limit(1).Find(&versions).Error
	if err != nil {
		return "", err
	}
	if len(versions) == 0 {
		return "", nil
	}
	return versions[0].Version, nil
}

func (m *MigrationManager) setVersion(ctx context.Context, version string, details string) error {
	return m.db.WithContext(ctx).Create(&model.SchemaVersion{
		Version:     version,
		Dialect:     m.db.Dialector.Name(),
		Description: details,
		AppliedAt:   m.timeProvider.Now().UTC(),
	}).Error
}

func pendingSteps(currentVersion string) ([]step, error) {
	if currentVersion == "" {
		return steps, nil
	}
	idx := slices.IndexFunc(steps, func(s step) bool { return s.version == currentVersion })
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSchemaVersion, currentVersion)
	}
	return steps[idx+1:], nil
}

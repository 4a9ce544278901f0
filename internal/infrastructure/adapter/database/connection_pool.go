package database

import (
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	coreport "github.com/amirhossein-jamali/flash-sale/internal/domain/port/core"
	"gorm.io/gorm"
)

// saturationThreshold is the in-use share above which new waits are reported
const saturationThreshold = 0.8

// ConnectionPoolMetrics is one sample of the ledger's connection pool
type ConnectionPoolMetrics struct {
	sql.DBStats
	SampledAt time.Time
}

// Utilisation returns the share of the pool in use when sampled
func (m ConnectionPoolMetrics) Utilisation() float64 {
	if m.MaxOpenConnections <= 0 {
		return 0
	}
	return float64(m.InUse) / float64(m.MaxOpenConnections)
}

// ConnectionPoolMonitor samples pool stats periodically. Purchases queue on
// the pool during a burst, so new waits on a busy pool are logged as warnings.
type ConnectionPoolMonitor struct {
	db       *gorm.DB
	logger   coreport.Logger
	last     atomic.Pointer[ConnectionPoolMetrics]
	stop     chan struct{}
	stopOnce sync.Once
}

// NewConnectionPoolMonitor creates a monitor; call Start to begin sampling
func NewConnectionPoolMonitor(db *gorm.DB, logger coreport.Logger) *ConnectionPoolMonitor {
	return &ConnectionPoolMonitor{db: db, logger: logger, stop: make(chan struct{})}
}

// Start takes a first sample and keeps sampling every interval until Stop
func (m *ConnectionPoolMonitor) Start(interval time.Duration) error {
	if err := m.sample(); err != nil {
		return err
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := m.sample(); err != nil {
					m.logger.Warn("Connection pool sample failed", map[string]any{"error": err.Error()})
				}
			case <-m.stop:
				return
			}
		}
	}()
	return nil
}

// Stop ends sampling; safe to call more than once
func (m *ConnectionPoolMonitor) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

// GetMetrics returns the latest sample, or zero values before the first one
func (m *ConnectionPoolMonitor) GetMetrics() ConnectionPoolMetrics {
	if last := m.last.Load(); last != nil {
		return *last
	}
	return ConnectionPoolMetrics{}
}

func (m *ConnectionPoolMonitor) sample() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("pool stats: %w", err)
	}

	current := &ConnectionPoolMetrics{DBStats: sqlDB.Stats(), SampledAt: time.Now().UTC()}
	previous := m.last.Swap(current)

	var newWaits int64
	if previous != nil {
		newWaits = current.WaitCount - previous.WaitCount
	}
	fields := map[string]any{
		"in_use":      current.InUse,
		"max_open":    current.MaxOpenConnections,
		"new_waits":   newWaits,
		"wait_time":   current.WaitDuration.String(),
		"utilisation": fmt.Sprintf("%.2f", current.Utilisation()),
	}
	if newWaits > 0 && current.Utilisation() >= saturationThreshold {
		m.logger.Warn("Purchases are waiting for database connections", fields)
		return nil
	}
	m.logger.Debug("Connection pool sampled", fields)
	return nil
}

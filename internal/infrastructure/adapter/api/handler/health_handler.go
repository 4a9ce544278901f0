package handler

import (
	"context"
	"net/http"
	"time"

	coreport "github.com/amirhossein-jamali/flash-sale/internal/domain/port/core"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/database"
	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// PoolReporter exposes connection pool usage; optional on the Pinger
type PoolReporter interface {
	PoolMetrics() database.ConnectionPoolMetrics
}

const healthTimeout = 2 * time.Second

// HealthHandler serves the health check
type HealthHandler struct {
	db     Pinger
	logger coreport.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db Pinger, logger coreport.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

// Check handles GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("Health check failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusServiceUnavailable, dto.HealthResponse{Status: "unavailable", Database: "down"})
		return
	}

	resp := dto.HealthResponse{Status: "ok", Database: "up"}
	if r, ok := h.db.(PoolReporter); ok {
		m := r.PoolMetrics()
		resp.Pool = &dto.PoolStatus{
			InUse:     m.InUse,
			Idle:      m.Idle,
			MaxOpen:   m.MaxOpenConnections,
			WaitCount: m.WaitCount,
		}
	}
	c.JSON(http.StatusOK, resp)
}

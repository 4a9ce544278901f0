package dto

import (
	"time"

	"github.com/amirhossein-jamali/flash-sale/internal/domain/entity"
)

// ResetSaleRequest optionally overrides the seeding defaults
type ResetSaleRequest struct {
	ProductName       string `json:"productName"`
	TotalStock        int64  `json:"totalStock" binding:"gte=0"`
	DurationMinutes   int    `json:"durationMinutes" binding:"gte=0"`
	StartDelaySeconds int    `json:"startDelaySeconds" binding:"gte=0"`
}

// SaleResponse is the admin view of a seeded sale
type SaleResponse struct {
	ID             string    `json:"id"`
	ProductName    string    `json:"productName"`
	TotalStock     int64     `json:"totalStock"`
	RemainingStock int64     `json:"remainingStock"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
}

// NewSaleResponse maps a sale to its admin response
func NewSaleResponse(sale *entity.Sale) SaleResponse {
	return SaleResponse{
		ID:             sale.ID,
		ProductName:    sale.ProductName,
		TotalStock:     sale.TotalStock,
		RemainingStock: sale.RemainingStock,
		StartTime:      sale.StartTime.UTC(),
		EndTime:        sale.EndTime.UTC(),
	}
}

// HealthResponse reports service health
type HealthResponse struct {
	Status   string      `json:"status"`
	Database string      `json:"database,omitempty"`
	Pool     *PoolStatus `json:"pool,omitempty"`
}

// PoolStatus is the last sampled database connection pool usage
type PoolStatus struct {
	InUse     int   `json:"inUse"`
	Idle      int   `json:"idle"`
	MaxOpen   int   `json:"maxOpen"`
	WaitCount int64 `json:"waitCount"`
}

package dto

import (
	"time"

	"github.com/amirhossein-jamali/flash-sale/internal/domain/entity"
)

// DataResponse wraps every successful payload
type DataResponse struct {
	Data any `json:"data"`
}

// FlashSaleResponse is the client view of the current sale
type FlashSaleResponse struct {
	ID             string    `json:"id"`
	ProductName    string    `json:"productName"`
	TotalStock     int64     `json:"totalStock"`
	RemainingStock int64     `json:"remainingStock"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
	Status         string    `json:"status"`
}

// NewFlashSaleResponse maps a sale view to its response
func NewFlashSaleResponse(view *entity.SaleView) FlashSaleResponse {
	return FlashSaleResponse{
		ID:             view.ID,
		ProductName:    view.ProductName,
		TotalStock:     view.TotalStock,
		RemainingStock: view.RemainingStock,
		StartTime:      view.StartTime.UTC(),
		EndTime:        view.EndTime.UTC(),
		Status:         string(view.Status),
	}
}

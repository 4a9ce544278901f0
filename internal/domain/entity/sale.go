package entity

import (
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/flash-sale/internal/domain/error"
)

// SaleStatus is derived from the sale window and the current instant; it is never stored
type SaleStatus string

// Sale statuses
const (
	SaleStatusUpcoming SaleStatus = "upcoming"
	SaleStatusActive   SaleStatus = "active"
	SaleStatusEnded    SaleStatus = "ended"
)

// IsValid reports whether s is one of the known statuses
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusUpcoming, SaleStatusActive, SaleStatusEnded:
		return true
	}
	return false
}

// ComputeSaleStatus classifies now against the closed window [start, end].
// Both boundary instants count as active.
func ComputeSaleStatus(start, end, now time.Time) SaleStatus {
	if now.Before(start) {
		return SaleStatusUpcoming
	}
	if now.After(end) {
		return SaleStatusEnded
	}
	return SaleStatusActive
}

// Sale is a single timed offer of a limited quantity of one product
type Sale struct {
	ID             string
	ProductName    string
	TotalStock     int64
	RemainingStock int64 // authoritative count, mutated only by the ledger
	StartTime      time.Time
	EndTime        time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewSale creates a sale with all stock remaining
func NewSale(id, productName string, totalStock int64, start, end, createdAt time.Time) (*Sale, error) {
	productName = strings.TrimSpace(productName)
	if id == "" {
		return nil, errs.NewValidationError("sale id must not be empty.")
	}
	if productName == "" {
		return nil, errs.NewValidationError("productName must not be empty.")
	}
	if totalStock < 0 {
		return nil, errs.NewValidationError("totalStock must not be negative.")
	}
	if end.Before(start) {
		return nil, errs.NewValidationError("endTime must not be before startTime.")
	}

	return &Sale{
		ID:             id,
		ProductName:    productName,
		TotalStock:     totalStock,
		RemainingStock: totalStock,
		StartTime:      start,
		EndTime:        end,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}, nil
}

// StatusAt returns the sale status at the given instant
func (s *Sale) StatusAt(now time.Time) SaleStatus {
	return ComputeSaleStatus(s.StartTime, s.EndTime, now)
}

// Reset restores full stock and moves the window
func (s *Sale) Reset(start, end, now time.Time) error {
	if end.Before(start) {
		return errs.NewValidationError("endTime must not be before startTime.")
	}
	s.StartTime = start
	s.EndTime = end
	s.RemainingStock = s.TotalStock
	s.UpdatedAt = now
	return nil
}

// SaleView is the client-facing projection of a sale
type SaleView struct {
	ID             string
	ProductName    string
	TotalStock     int64
	RemainingStock int64
	StartTime      time.Time
	EndTime        time.Time
	Status         SaleStatus
}

// NewSaleView projects a sale with the given believed stock, clamped at zero
func NewSaleView(sale *Sale, believedStock int64, now time.Time) SaleView {
	return SaleView{
		ID:             sale.ID,
		ProductName:    sale.ProductName,
		TotalStock:     sale.TotalStock,
		RemainingStock: max(0, believedStock),
		StartTime:      sale.StartTime,
		EndTime:        sale.EndTime,
		Status:         sale.StatusAt(now),
	}
}

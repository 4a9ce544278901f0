package model

import (
	"time"

	"github.com/amirhossein-jamali/flash-sale/internal/domain/entity"
)

// Sale represents the database model for flash sales
type Sale struct {
	ID             string    `gorm:"primaryKey;size:64"`
	ProductName    string    `gorm:"not null;size:255"`
	TotalStock     int64     `gorm:"not null;check:chk_flash_sales_total_stock,total_stock >= 0"`
	RemainingStock int64     `gorm:"not null;check:chk_flash_sales_remaining_stock,remaining_stock >= 0 AND remaining_stock <= total_stock"`
	StartTime      time.Time `gorm:"not null"`
	EndTime        time.Time `gorm:"not null"`
	CreatedAt      time.Time `gorm:"not null;index:idx_flash_sales_created_at"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName specifies the table name for Sale
func (Sale) TableName() string {
	return "flash_sales"
}

// ToEntity converts the model to the domain entity
func (m *Sale) ToEntity() *entity.Sale {
	return &entity.Sale{
		ID:             m.ID,
		ProductName:    m.ProductName,
		TotalStock:     m.TotalStock,
		RemainingStock: m.RemainingStock,
		StartTime:      m.StartTime,
		EndTime:        m.EndTime,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// SaleFromEntity converts a domain sale to its model
func SaleFromEntity(s *entity.Sale) *Sale {
	return &Sale{
		ID:             s.ID,
		ProductName:    s.ProductName,
		TotalStock:     s.TotalStock,
		RemainingStock: s.RemainingStock,
		StartTime:      s.StartTime,
		EndTime:        s.EndTime,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

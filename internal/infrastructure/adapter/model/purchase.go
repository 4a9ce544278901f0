package model

import (
	"time"

	"github.com/amirhossein-jamali/flash-sale/internal/domain/entity"
)

// Purchase represents the database model for purchases
type Purchase struct {
	ID        string    `gorm:"primaryKey;size:64"`
	SaleID    string    `gorm:"not null;size:64;index:idx_purchases_sale_user,priority:1"`
	UserID    string    `gorm:"not null;size:255;index:idx_purchases_sale_user,priority:2"`
	Status    string    `gorm:"not null;size:20"`
	CreatedAt time.Time `gorm:"not null"`

	Sale Sale `gorm:"foreignKey:SaleID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Purchase
func (Purchase) TableName() string {
	return "purchases"
}

// ToEntity converts the model to the domain entity
func (m *Purchase) ToEntity() *entity.Purchase {
	return &entity.Purchase{
		ID:        m.ID,
		SaleID:    m.SaleID,
		UserID:    m.UserID,
		Status:    entity.PurchaseStatus(m.Status),
		CreatedAt: m.CreatedAt,
	}
}

// PurchaseFromEntity converts a domain purchase to its model
func PurchaseFromEntity(p *entity.Purchase) *Purchase {
	return &Purchase{
		ID:        p.ID,
		SaleID:    p.SaleID,
		UserID:    p.UserID,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
	}
}

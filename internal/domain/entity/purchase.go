package entity

import "time"

// PurchaseStatus is the lifecycle state of a purchase row
type PurchaseStatus string

// Purchase statuses; only confirmed purchases exist today
const (
	PurchaseStatusConfirmed PurchaseStatus = "confirmed"
)

// Purchase is one unit of a sale allocated to a user
type Purchase struct {
	ID        string
	SaleID    string
	UserID    string
	Status    PurchaseStatus
	CreatedAt time.Time
}

// NewConfirmedPurchase creates a confirmed purchase
func NewConfirmedPurchase(id, saleID, userID string, createdAt time.Time) *Purchase {
	return &Purchase{
		ID:        id,
		SaleID:    saleID,
		UserID:    userID,
		Status:    PurchaseStatusConfirmed,
		CreatedAt: createdAt,
	}
}

// IsConfirmed reports whether the purchase holds a unit
func (p *Purchase) IsConfirmed() bool {
	return p != nil && p.Status == PurchaseStatusConfirmed
}

// PurchaseResult is returned to the buyer after a successful purchase
type PurchaseResult struct {
	PurchaseID  string
	UserID      string
	ProductName string
	Status      PurchaseStatus
	PurchasedAt time.Time
}

// NewPurchaseResult builds the success result for a committed purchase
func NewPurchaseResult(p *Purchase, productName string) PurchaseResult {
	return PurchaseResult{
		PurchaseID:  p.ID,
		UserID:      p.UserID,
		ProductName: productName,
		Status:      p.Status,
		PurchasedAt: p.CreatedAt,
	}
}

// UserPurchaseCheck answers whether a user already bought in the current sale
type UserPurchaseCheck struct {
	Purchased   bool
	PurchaseID  string
	PurchasedAt *time.Time
}

// NewUserPurchaseCheck builds the check result; p may be nil
func NewUserPurchaseCheck(p *Purchase) UserPurchaseCheck {
	if !p.IsConfirmed() {
		return UserPurchaseCheck{}
	}
	at := p.CreatedAt
	return UserPurchaseCheck{Purchased: true, PurchaseID: p.ID, PurchasedAt: &at}
}

// PurchaseConfirmed is published after a purchase commits
type PurchaseConfirmed struct {
	PurchaseID    string    `json:"purchaseId"`
	SaleID        string    `json:"saleId"`
	UserID        string    `json:"userId"`
	ProductName   string    `json:"productName"`
	PurchasedAt   time.Time `json:"purchasedAt"`
	CorrelationID string    `json:"correlationId,omitempty"`
}

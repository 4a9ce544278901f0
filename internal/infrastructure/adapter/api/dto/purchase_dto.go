package dto

import (
	"time"

	"github.com/amirhossein-jamali/flash-sale/internal/domain/entity"
)

// PurchaseRequest is the body of POST /current/purchase. UserID stays
// untyped so a non-string id can be reported as a validation error.
type PurchaseRequest struct {
	UserID any `json:"userId"`
}

// PurchaseResultResponse represents a confirmed purchase
type PurchaseResultResponse struct {
	PurchaseID  string    `json:"purchaseId"`
	UserID      string    `json:"userId"`
	ProductName string    `json:"productName"`
	Status      string    `json:"status"`
	PurchasedAt time.Time `json:"purchasedAt"`
}

// NewPurchaseResultResponse maps a purchase result to its response
func NewPurchaseResultResponse(result *entity.PurchaseResult) PurchaseResultResponse {
	return PurchaseResultResponse{
		PurchaseID:  result.PurchaseID,
		UserID:      result.UserID,
		ProductName: result.ProductName,
		Status:      string(result.Status),
		PurchasedAt: result.PurchasedAt.UTC(),
	}
}

// UserPurchaseCheckResponse tells whether a user already bought
type UserPurchaseCheckResponse struct {
	Purchased   bool       `json:"purchased"`
	PurchaseID  string     `json:"purchaseId,omitempty"`
	PurchasedAt *time.Time `json:"purchasedAt,omitempty"`
}

// NewUserPurchaseCheckResponse maps a check result to its response
func NewUserPurchaseCheckResponse(check *entity.UserPurchaseCheck) UserPurchaseCheckResponse {
	resp := UserPurchaseCheckResponse{
		Purchased:  check.Purchased,
		PurchaseID: check.PurchaseID,
	}
	if check.PurchasedAt != nil {
		at := check.PurchasedAt.UTC()
		resp.PurchasedAt = &at
	}
	return resp
}

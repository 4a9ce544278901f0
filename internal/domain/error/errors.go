package error

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the stable machine-readable code surfaced to clients
type Kind string

// Error kinds for standardized API responses
const (
	// Expected rejections
	KindValidation        Kind = "VALIDATION_ERROR"
	KindSaleNotFound      Kind = "SALE_NOT_FOUND"
	KindSaleNotActive     Kind = "SALE_NOT_ACTIVE"
	KindSoldOut           Kind = "SOLD_OUT"
	KindAlreadyPurchased  Kind = "ALREADY_PURCHASED"
	KindRateLimitExceeded Kind = "RATE_LIMIT_EXCEEDED"
	KindUnauthorized      Kind = "UNAUTHORIZED"

	// Unexpected failures
	KindInternal Kind = "INTERNAL_ERROR"
)

// Boundary tells which side of the sale window a SALE_NOT_ACTIVE rejection missed
type Boundary string

const (
	BoundaryNone     Boundary = ""
	BoundaryUpcoming Boundary = "upcoming"
	BoundaryEnded    Boundary = "ended"
)

// User-facing messages
const (
	MsgSaleNotFound      = "No flash sale found."
	MsgSaleNotStarted    = "The sale has not started yet."
	MsgSaleEnded         = "The sale has ended."
	MsgSoldOut           = "All items have been sold."
	MsgAlreadyPurchased  = "You have already purchased this item."
	MsgRateLimitExceeded = "Slow down! You are making too many requests. Please wait a moment."
	MsgUnauthorized      = "Authentication required."
	MsgInternal          = "An unexpected error occurred."
)

// Base error types
var (
	// ErrValidation is returned when a request carries malformed input
	ErrValidation = errors.New("validation error")

	// ErrSaleNotFound is returned when no sale exists
	ErrSaleNotFound = errors.New("sale not found")

	// ErrSaleNotActive is returned when a purchase is attempted outside the sale window
	ErrSaleNotActive = errors.New("sale not active")

	// ErrSoldOut is returned when the stock is exhausted
	ErrSoldOut = errors.New("sold out")

	// ErrAlreadyPurchased is returned when the user already holds a confirmed purchase
	ErrAlreadyPurchased = errors.New("already purchased")

	// ErrRateLimitExceeded is returned by the rate limiter, never by the purchase core
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrUnauthorized is returned when an admin operation lacks valid credentials
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInternal is returned for unexpected server-side errors
	ErrInternal = errors.New("internal error")

	// ErrDatabaseConnection is returned when there's a problem connecting to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrConstraintViolation is returned when a database constraint is violated
	ErrConstraintViolation = errors.New("database constraint violation")

	// ErrLockTimeout is returned when the per-sale lock could not be acquired in time
	ErrLockTimeout = errors.New("lock acquisition timed out")
)

var kindSentinels = map[Kind]error{
	KindValidation:        ErrValidation,
	KindSaleNotFound:      ErrSaleNotFound,
	KindSaleNotActive:     ErrSaleNotActive,
	KindSoldOut:           ErrSoldOut,
	KindAlreadyPurchased:  ErrAlreadyPurchased,
	KindRateLimitExceeded: ErrRateLimitExceeded,
	KindUnauthorized:      ErrUnauthorized,
	KindInternal:          ErrInternal,
}

// FlashSaleError is a classified error carrying its kind and user-facing message
type FlashSaleError struct {
	Kind     Kind
	Message  string
	Boundary Boundary
	Err      error
}

// Error implements the error interface for FlashSaleError
func (e *FlashSaleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *FlashSaleError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind
func (e *FlashSaleError) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && target == sentinel
}

// LogFields returns a map of fields for structured logging
func (e *FlashSaleError) LogFields() map[string]any {
	fields := map[string]any{
		"error_type": "flash_sale_error",
		"error_code": string(e.Kind),
		"message":    e.Message,
	}
	if e.Boundary != BoundaryNone {
		fields["boundary"] = string(e.Boundary)
	}
	if e.Err != nil {
		fields["error"] = e.Err.Error()
	}
	return fields
}

// NewValidationError creates a validation error with the given message
func NewValidationError(message string) error {
	return &FlashSaleError{Kind: KindValidation, Message: message}
}

// NewSaleNotFoundError creates a SALE_NOT_FOUND error
func NewSaleNotFoundError() error {
	return &FlashSaleError{Kind: KindSaleNotFound, Message: MsgSaleNotFound}
}

// NewSaleNotActiveError creates a SALE_NOT_ACTIVE error for the violated boundary
func NewSaleNotActiveError(boundary Boundary) error {
	msg := MsgSaleEnded
	if boundary == BoundaryUpcoming {
		msg = MsgSaleNotStarted
	}
	return &FlashSaleError{Kind: KindSaleNotActive, Message: msg, Boundary: boundary}
}

// NewSoldOutError creates a SOLD_OUT error
func NewSoldOutError() error {
	return &FlashSaleError{Kind: KindSoldOut, Message: MsgSoldOut}
}

// NewAlreadyPurchasedError creates an ALREADY_PURCHASED error
func NewAlreadyPurchasedError() error {
	return &FlashSaleError{Kind: KindAlreadyPurchased, Message: MsgAlreadyPurchased}
}

// NewRateLimitError creates a RATE_LIMIT_EXCEEDED error
func NewRateLimitError() error {
	return &FlashSaleError{Kind: KindRateLimitExceeded, Message: MsgRateLimitExceeded}
}

// NewUnauthorizedError creates an UNAUTHORIZED error wrapping the cause
func NewUnauthorizedError(err error) error {
	return &FlashSaleError{Kind: KindUnauthorized, Message: MsgUnauthorized, Err: err}
}

// KindOf classifies any error; unclassified errors are INTERNAL_ERROR
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var fsErr *FlashSaleError
	if errors.As(err, &fsErr) {
		return fsErr.Kind
	}
	for kind, sentinel := range kindSentinels {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return KindInternal
}

// MessageOf returns the user-facing message for an error
func MessageOf(err error) string {
	var fsErr *FlashSaleError
	if errors.As(err, &fsErr) && fsErr.Kind != KindInternal {
		return fsErr.Message
	}
	switch KindOf(err) {
	case KindSaleNotFound:
		return MsgSaleNotFound
	case KindSoldOut:
		return MsgSoldOut
	case KindAlreadyPurchased:
		return MsgAlreadyPurchased
	case KindRateLimitExceeded:
		return MsgRateLimitExceeded
	case KindUnauthorized:
		return MsgUnauthorized
	default:
		return MsgInternal
	}
}

// HTTPStatus maps an error kind to its response status
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindSaleNotFound:
		return http.StatusNotFound
	case KindSaleNotActive, KindSoldOut, KindAlreadyPurchased:
		return http.StatusConflict
	case KindRateLimitExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// IsRejection reports whether err is an expected domain outcome rather than a failure
func IsRejection(err error) bool {
	kind := KindOf(err)
	return kind != "" && kind != KindInternal
}

// IsSoldOutError checks if the error is a sold out error
func IsSoldOutError(err error) bool {
	return errors.Is(err, ErrSoldOut)
}

// IsAlreadyPurchasedError checks if the error is a duplicate purchase error
func IsAlreadyPurchasedError(err error) bool {
	return errors.Is(err, ErrAlreadyPurchased)
}

// IsSaleNotFoundError checks if the error is a sale not found error
func IsSaleNotFoundError(err error) bool {
	return errors.Is(err, ErrSaleNotFound)
}

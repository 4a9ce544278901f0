package database

import (
	"context"
	"errors"
	"fmt"

	domainErr "github.com/amirhossein-jamali/flash-sale/internal/domain/error"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/repository"
	"gorm.io/gorm"
)

// ErrorMapper maps transaction-level database errors to domain errors
type ErrorMapper struct {
	classifier *repository.ErrorClassifier
}

// NewErrorMapper creates a new ErrorMapper
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{classifier: repository.NewErrorClassifier()}
}

// MapError maps a database error to a domain error. Unclassified errors are
// wrapped with the operation name so they surface as INTERNAL_ERROR.
func (m *ErrorMapper) MapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domainErr.NewSaleNotFoundError()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %s operation: %v", domainErr.ErrDatabaseConnection, operation, err)
	}

	switch m.classifier.Classify(err) {
	case repository.DuplicateKeyError:
		return domainErr.NewAlreadyPurchasedError()
	case repository.LockError:
		return fmt.Errorf("%w: %s: %v", domainErr.ErrLockTimeout, operation, err)
	case repository.ConstraintError:
		return fmt.Errorf("%w: %s: %v", domainErr.ErrConstraintViolation, operation, err)
	case repository.ConnectionError, repository.TransientError:
		return fmt.Errorf("%w: %s: %v", domainErr.ErrDatabaseConnection, operation, err)
	default:
		return fmt.Errorf("%s: %w", operation, err)
	}
}

// IsRetryable reports whether a failed connection attempt is worth repeating
func (m *ErrorMapper) IsRetryable(err error) bool {
	return m.classifier.IsConnectionError(err) || m.classifier.IsLockError(err)
}

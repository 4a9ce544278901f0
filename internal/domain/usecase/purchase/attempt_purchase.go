package purchase

import (
	"context"
	"errors"

	"github.com/amirhossein-jamali/flash-sale/internal/domain/entity"
	errs "github.com/amirhossein-jamali/flash-sale/internal/domain/error"
	"github.com/amirhossein-jamali/flash-sale/internal/domain/port/usecase"
)

// AttemptPurchase tries to allocate one unit of the current sale to the user.
//
// Checks run in a fixed order: input, sale existence, sale window, duplicate
// pre-check, stock gate, ledger commit. The first four have no side effects.
// Once the gate has been decremented the request runs to completion even if
// the caller goes away, and every failure after that point gives the unit
// back to the gate before returning.
func (s *Service) AttemptPurchase(ctx context.Context, rawUserID string) (*entity.PurchaseResult, error) {
	correlationID := s.correlationID(ctx)

	userID, err := ValidateUserID(rawUserID)
	if err != nil {
		s.logFailure("attemptPurchase", correlationID, err, nil)
		return nil, err
	}
	fields := map[string]any{"user_id": userID}

	sale, err := s.ledger.GetCurrentSale(ctx)
	if err != nil {
		s.logFailure("attemptPurchase", correlationID, err, fields)
		return nil, err
	}
	if sale == nil {
		err = errs.NewSaleNotFoundError()
		s.logFailure("attemptPurchase", correlationID, err, fields)
		return nil, err
	}
	fields["sale_id"] = sale.ID

	switch sale.StatusAt(s.timeProvider.Now()) {
	case entity.SaleStatusUpcoming:
		err = errs.NewSaleNotActiveError(errs.BoundaryUpcoming)
	case entity.SaleStatusEnded:
		err = errs.NewSaleNotActiveError(errs.BoundaryEnded)
	}
	if err != nil {
		s.logFailure("attemptPurchase", correlationID, err, fields)
		return nil, err
	}

	// Early duplicate check; the ledger repeats it under the sale lock.
	existing, err := s.ledger.FindConfirmedPurchase(ctx, sale.ID, userID)
	if err != nil {
		s.logFailure("attemptPurchase", correlationID, err, fields)
		return nil, err
	}
	if existing != nil {
		err = errs.NewAlreadyPurchasedError()
		s.logFailure("attemptPurchase", correlationID, err, fields)
		return nil, err
	}

	// From here on a gate unit may be held, so caller cancellation is ignored.
	ctx = context.WithoutCancel(ctx)

	remaining, held, err := s.takeUnit(ctx, sale, correlationID)
	if err != nil {
		s.logFailure("attemptPurchase", correlationID, err, fields)
		return nil, err
	}
	if held && remaining < 0 {
		s.compensate(ctx, sale.ID, correlationID)
		err = errs.NewSoldOutError()
		s.logFailure("attemptPurchase", correlationID, err, fields)
		return nil, err
	}

	purchase, err := s.ledger.CommitPurchase(ctx, sale.ID, userID)
	if err != nil {
		if held {
			s.compensate(ctx, sale.ID, correlationID)
		}
		s.logFailure("attemptPurchase", correlationID, err, fields)
		return nil, err
	}

	result := entity.NewPurchaseResult(purchase, sale.ProductName)

	s.logger.Info("Purchase confirmed", map[string]any{
		"correlation_id": correlationID,
		"sale_id":        sale.ID,
		"user_id":        userID,
		"purchase_id":    purchase.ID,
	})

	s.publishConfirmed(ctx, sale, purchase, correlationID)

	return &result, nil
}

// takeUnit seeds the gate if needed and decrements it. When the counter was
// invalidated between the seed and the decrement it is re-seeded from a fresh
// ledger read and decremented once more. If it is cold again, held is false
// and the ledger alone decides the purchase.
func (s *Service) takeUnit(ctx context.Context, sale *entity.Sale, correlationID string) (remaining int64, held bool, err error) {
	if _, err = s.syncGate(ctx, sale); err != nil {
		return 0, false, err
	}
	remaining, err = s.gate.Decrement(ctx, sale.ID)
	if !errors.Is(err, usecase.ErrGateCold) {
		return remaining, err == nil, err
	}

	s.logger.Warn("Stock gate cleared before decrement, re-seeding", map[string]any{
		"correlation_id": correlationID,
		"sale_id":        sale.ID,
	})
	seed := sale
	if fresh, loadErr := s.ledger.GetCurrentSale(ctx); loadErr == nil && fresh != nil && fresh.ID == sale.ID {
		seed = fresh
	}
	if _, err = s.syncGate(ctx, seed); err != nil {
		return 0, false, err
	}
	remaining, err = s.gate.Decrement(ctx, sale.ID)
	if errors.Is(err, usecase.ErrGateCold) {
		s.logger.Warn("Stock gate still cold, committing against the ledger only", map[string]any{
			"correlation_id": correlationID,
			"sale_id":        sale.ID,
		})
		return 0, false, nil
	}
	return remaining, err == nil, err
}

// compensate returns a speculatively taken unit to the gate. A counter that
// disappeared meanwhile is left absent so the next reader re-seeds it. A
// failure here is logged and never replaces the error that triggered it.
func (s *Service) compensate(ctx context.Context, saleID, correlationID string) {
	_, err := s.gate.Increment(ctx, saleID)
	if errors.Is(err, usecase.ErrGateCold) {
		s.logger.Debug("Stock gate cleared before compensation, nothing to return", map[string]any{
			"correlation_id": correlationID,
			"sale_id":        saleID,
		})
		return
	}
	if err != nil {
		s.logger.Error("Failed to compensate stock gate", map[string]any{
			"correlation_id": correlationID,
			"sale_id":        saleID,
			"error":          err.Error(),
		})
	}
}

func (s *Service) publishConfirmed(ctx context.Context, sale *entity.Sale, purchase *entity.Purchase, correlationID string) {
	if s.publisher == nil {
		return
	}

	event := entity.PurchaseConfirmed{
		PurchaseID:    purchase.ID,
		SaleID:        sale.ID,
		UserID:        purchase.UserID,
		ProductName:   sale.ProductName,
		PurchasedAt:   purchase.CreatedAt,
		CorrelationID: correlationID,
	}
	if err := s.publisher.PublishPurchaseConfirmed(ctx, event); err != nil {
		s.logger.Warn("Failed to publish purchase event", map[string]any{
			"correlation_id": correlationID,
			"purchase_id":    purchase.ID,
			"error":          err.Error(),
		})
	}
}

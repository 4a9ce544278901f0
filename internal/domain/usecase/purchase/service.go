package purchase

import (
	"context"

	"github.com/amirhossein-jamali/flash-sale/internal/domain/entity"
	errs "github.com/amirhossein-jamali/flash-sale/internal/domain/error"
	coreport "github.com/amirhossein-jamali/flash-sale/internal/domain/port/core"
	"github.com/amirhossein-jamali/flash-sale/internal/domain/port/usecase"
)

// Service coordinates the status check, the stock gate and the ledger
type Service struct {
	ledger       usecase.SaleLedger
	gate         usecase.StockGate
	publisher    usecase.PurchaseEventPublisher
	idGenerator  coreport.IDGenerator
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a new purchase Service. publisher may be nil.
func NewService(
	ledger usecase.SaleLedger,
	gate usecase.StockGate,
	publisher usecase.PurchaseEventPublisher,
	idGenerator coreport.IDGenerator,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		ledger:       ledger,
		gate:         gate,
		publisher:    publisher,
		idGenerator:  idGenerator,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

var _ usecase.PurchaseUseCase = (*Service)(nil)

// GetCurrentSale returns the current sale with the gate's believed stock.
// A cold gate is seeded from the ledger on the way through.
func (s *Service) GetCurrentSale(ctx context.Context) (*entity.SaleView, error) {
	correlationID := s.correlationID(ctx)

	sale, err := s.ledger.GetCurrentSale(ctx)
	if err != nil {
		s.logFailure("getCurrentSale", correlationID, err, nil)
		return nil, err
	}
	if sale == nil {
		return nil, errs.NewSaleNotFoundError()
	}

	believed, err := s.syncGate(ctx, sale)
	if err != nil {
		s.logger.Warn("Stock gate unavailable, serving ledger stock", map[string]any{
			"correlation_id": correlationID,
			"sale_id":        sale.ID,
			"error":          err.Error(),
		})
		believed = sale.RemainingStock
	}

	view := entity.NewSaleView(sale, believed, s.timeProvider.Now())
	return &view, nil
}

// CheckUserPurchase reports whether the user holds a confirmed purchase in the current sale
func (s *Service) CheckUserPurchase(ctx context.Context, rawUserID string) (*entity.UserPurchaseCheck, error) {
	correlationID := s.correlationID(ctx)

	userID, err := ValidateUserID(rawUserID)
	if err != nil {
		return nil, err
	}

	sale, err := s.ledger.GetCurrentSale(ctx)
	if err != nil {
		s.logFailure("checkUserPurchase", correlationID, err, map[string]any{"user_id": userID})
		return nil, err
	}
	if sale == nil {
		return nil, errs.NewSaleNotFoundError()
	}

	existing, err := s.ledger.FindConfirmedPurchase(ctx, sale.ID, userID)
	if err != nil {
		s.logFailure("checkUserPurchase", correlationID, err, map[string]any{
			"sale_id": sale.ID,
			"user_id": userID,
		})
		return nil, err
	}

	check := entity.NewUserPurchaseCheck(existing)
	return &check, nil
}

// syncGate returns the gate's believed stock, seeding it from the ledger when absent
func (s *Service) syncGate(ctx context.Context, sale *entity.Sale) (int64, error) {
	value, ok, err := s.gate.Read(ctx, sale.ID)
	if err != nil {
		return 0, err
	}
	if ok {
		return value, nil
	}

	if err := s.gate.Initialize(ctx, sale.ID, sale.RemainingStock); err != nil {
		return 0, err
	}
	s.logger.Debug("Stock gate seeded from ledger", map[string]any{
		"sale_id": sale.ID,
		"stock":   sale.RemainingStock,
	})
	return sale.RemainingStock, nil
}

func (s *Service) correlationID(ctx context.Context) string {
	if id := coreport.CorrelationIDFrom(ctx); id != "" {
		return id
	}
	return s.idGenerator.NewID()
}

// logFailure records a failure with its correlation id. Expected rejections are
// logged at debug; anything else is an error.
func (s *Service) logFailure(operation, correlationID string, err error, extra map[string]any) {
	fields := map[string]any{
		"correlation_id": correlationID,
		"operation":      operation,
		"error_code":     string(errs.KindOf(err)),
		"error":          err.Error(),
	}
	for k, v := range extra {
		fields[k] = v
	}

	if errs.IsRejection(err) {
		s.logger.Debug("Purchase request rejected", fields)
		return
	}
	s.logger.Error("Purchase request failed", fields)
}

package purchase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amirhossein-jamali/flash-sale/internal/domain/entity"
	errs "github.com/amirhossein-jamali/flash-sale/internal/domain/error"
	coreport "github.com/amirhossein-jamali/flash-sale/internal/domain/port/core"
	mcore "github.com/amirhossein-jamali/flash-sale/mocks/port/core"
	muse "github.com/amirhossein-jamali/flash-sale/mocks/port/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	saleStart  = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	saleEnd    = time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	duringSale = saleStart.Add(5 * time.Minute)
)

func testSale(remaining int64) *entity.Sale {
	return &entity.Sale{
		ID:             "sale-1",
		ProductName:    "Limited Edition Mechanical Keyboard",
		TotalStock:     100,
		RemainingStock: remaining,
		StartTime:      saleStart,
		EndTime:        saleEnd,
		CreatedAt:      saleStart.Add(-time.Hour),
	}
}

type serviceMocks struct {
	ledger    *muse.MockSaleLedger
	gate      *muse.MockStockGate
	publisher *muse.MockPurchaseEventPublisher
	ids       *mcore.MockIDGenerator
	clock     *mcore.MockTimeProvider
	logger    *mcore.MockLogger
}

func newServiceMocks() *serviceMocks {
	m := &serviceMocks{
		ledger:    new(muse.MockSaleLedger),
		gate:      new(muse.MockStockGate),
		publisher: new(muse.MockPurchaseEventPublisher),
		ids:       new(mcore.MockIDGenerator),
		clock:     new(mcore.MockTimeProvider),
		logger:    new(mcore.MockLogger),
	}
	m.ids.On("NewID").Return("corr-generated").Maybe()
	m.logger.On("Info", mock.Anything, mock.Anything).Maybe()
	m.logger.On("Debug", mock.Anything, mock.Anything).Maybe()
	m.logger.On("Warn", mock.Anything, mock.Anything).Maybe()
	m.logger.On("Error", mock.Anything, mock.Anything).Maybe()
	return m
}

func (m *serviceMocks) service() *Service {
	return NewService(m.ledger, m.gate, m.publisher, m.ids, m.clock, m.logger)
}

func (m *serviceMocks) assertExpectations(t *testing.T) {
	m.ledger.AssertExpectations(t)
	m.gate.AssertExpectations(t)
	m.publisher.AssertExpectations(t)
}

func TestAttemptPurchase(t *testing.T) {
	ctx := coreport.WithCorrelationID(context.Background(), "corr-1")
	purchasedAt := duringSale.Add(time.Second)
	dbErr := errors.New("pq: connection refused")

	tests := []struct {
		name          string
		userID        string
		setupMocks    func(m *serviceMocks)
		expectedError error
		expectedKind  errs.Kind
	}{
		{
			name:   "Successful purchase",
			userID: "alice",
			setupMocks: func(m *serviceMocks) {
				m.ledger.On("GetCurrentSale", mock.Anything).Return(testSale(5), nil)
				m.clock.On("Now").Return(duringSale)
				m.ledger.On("FindConfirmedPurchase", mock.Anything, "sale-1", "alice").Return(nil, nil)
				m.gate.On("Read", mock.Anything, "sale-1").Return(int64(5), true, nil)
				m.gate.On("Decrement", mock.Anything, "sale-1").Return(int64(4), nil)
				m.ledger.On("CommitPurchase", mock.Anything, "sale-1", "alice").
					Return(entity.NewConfirmedPurchase("purchase-1", "sale-1", "alice", purchasedAt), nil)
				m.publisher.On("PublishPurchaseConfirmed", mock.Anything, mock.MatchedBy(func(e entity.PurchaseConfirmed) bool {
					return e.PurchaseID == "purchase-1" && e.CorrelationID == "corr-1"
				})).Return(nil)
			},
		},
		{
			name:          "Invalid user id has no side effects",
			userID:        "ab",
			setupMocks:    func(m *serviceMocks) {},
			expectedError: errs.ErrValidation,
			expectedKind:  errs.KindValidation,
		},
		{
			name:   "No sale",
			userID: "alice",
			setupMocks: func(m *serviceMocks) {
				m.ledger.On("GetCurrentSale", mock.Anything).Return(nil, nil)
			},
			expectedError: errs.ErrSaleNotFound,
			expectedKind:  errs.KindSaleNotFound,
		},
		{
			name:   "Sale not started",
			userID: "alice",
			setupMocks: func(m *serviceMocks) {
				m.ledger.On("GetCurrentSale", mock.Anything).Return(testSale(5), nil)
				m.clock.On("Now").Return(saleStart.Add(-time.Second))
			},
			expectedError: errs.ErrSaleNotActive,
			expectedKind:  errs.KindSaleNotActive,
		},
		{
			name:   "Ended and sold out reports not active",
			userID: "alice",
			setupMocks: func(m *serviceMocks) {
				m.ledger.On("GetCurrentSale", mock.Anything).Return(testSale(0), nil)
				m.clock.On("Now").Return(saleEnd.Add(time.Second))
			},
			expectedError: errs.ErrSaleNotActive,
			expectedKind:  errs.KindSaleNotActive,
		},
		{
			name:   "Early duplicate check",
			userID: "alice",
			setupMocks: func(m *serviceMocks) {
				m.ledger.On("GetCurrentSale", mock.Anything).Return(testSale(5), nil)
				m.clock.On("Now").Return(duringSale)
				m.ledger.On("FindConfirmedPurchase", mock.Anything, "sale-1", "alice").
					Return(entity.NewConfirmedPurchase("purchase-0", "sale-1", "alice", saleStart), nil)
			},
			expectedError: errs.ErrAlreadyPurchased,
			expectedKind:  errs.KindAlreadyPurchased,
		},
		{
			name:   "Gate veto undoes its decrement",
			userID: "alice",
			setupMocks: func(m *serviceMocks) {
				m.ledger.On("GetCurrentSale", mock.Anything).Return(testSale(0), nil)
				m.clock.On("Now").Return(duringSale)
				m.ledger.On("FindConfirmedPurchase", mock.Anything, "sale-1", "alice").Return(nil, nil)
				m.gate.On("Read", mock.Anything, "sale-1").Return(int64(0), true, nil)
				m.gate.On("Decrement", mock.Anything, "sale-1").Return(int64(-1), nil)
				m.gate.On("Increment", mock.Anything, "sale-1").Return(int64(0), nil).Once()
			},
			expectedError: errs.ErrSoldOut,
			expectedKind:  errs.KindSoldOut,
		},
		{
			name:   "Cold gate is seeded before decrement",
			userID: "alice",
			setupMocks: func(m *serviceMocks) {
				m.ledger.On("GetCurrentSale", mock.Anything).Return(testSale(3), nil)
				m.clock.On("Now").Return(duringSale)
				m.ledger.On("FindConfirmedPurchase", mock.Anything, "sale-1", "alice").Return(nil, nil)
				m.gate.On("Read", mock.Anything, "sale-1").Return(int64(0), false, nil)
				m.gate.On("Initialize", mock.Anything, "sale-1", int64(3)).Return(nil).Once()
				m.gate.On("Decrement", mock.Anything, "sale-1").Return(int64(2), nil)
				m.ledger.On("CommitPurchase", mock.Anything, "sale-1", "alice").
					Return(entity.NewConfirmedPurchase("purchase-1", "sale-1", "alice", purchasedAt), nil)
				m.publisher.On("PublishPurchaseConfirmed", mock.Anything, mock.Anything).Return(nil)
			},
		},
		{
			name:   "Ledger duplicate compensates",
			userID: "alice",
			setupMocks: func(m *serviceMocks) {
				m.ledger.On("GetCurrentSale", mock.Anything).Return(testSale(5), nil)
				m.clock.On("Now").Return(duringSale)
				m.ledger.On("FindConfirmedPurchase", mock.Anything, "sale-1", "alice").Return(nil, nil)
				m.gate.On("Read", mock.Anything, "sale-1").Return(int64(5), true, nil)
				m.gate.On("Decrement", mock.Anything, "sale-1").Return(int64(4), nil)
				m.ledger.On("CommitPurchase", mock.Anything, "sale-1", "alice").Return(nil, errs.NewAlreadyPurchasedError())
				m.gate.On("Increment", mock.Anything, "sale-1").Return(int64(5), nil).Once()
			},
			expectedError: errs.ErrAlreadyPurchased,
			expectedKind:  errs.KindAlreadyPurchased,
		},
		{
			name:   "Ledger sold out compensates",
			userID: "alice",
			setupMocks: func(m *serviceMocks) {
				m.ledger.On("GetCurrentSale", mock.Anything).Return(testSale(1), nil)
				m.clock.On("Now").Return(duringSale)
				m.ledger.On("FindConfirmedPurchase", mock.Anything, "sale-1", "alice").Return(nil, nil)
				m.gate.On("Read", mock.Anything, "sale-1").Return(int64(1), true, nil)
				m.gate.On("Decrement", mock.Anything, "sale-1").Return(int64(0), nil)
				m.ledger.On("CommitPurchase", mock.Anything, "sale-1", "alice").Return(nil, errs.NewSoldOutError())
				m.gate.On("Increment", mock.Anything, "sale-1").Return(int64(1), nil).Once()
			},
			expectedError: errs.ErrSoldOut,
			expectedKind:  errs.KindSoldOut,
		},
		{
			name:   "Unexpected ledger error compensates and is returned unchanged",
			userID: "alice",
			setupMocks: func(m *serviceMocks) {
				m.ledger.On("GetCurrentSale", mock.Anything).Return(testSale(5), nil)
				m.clock.On("Now").Return(duringSale)
				m.ledger.On("FindConfirmedPurchase", mock.Anything, "sale-1", "alice").Return(nil, nil)
				m.gate.On("Read", mock.Anything, "sale-1").Return(int64(5), true, nil)
				m.gate.On("Decrement", mock.Anything, "sale-1").Return(int64(4), nil)
				m.ledger.On("CommitPurchase", mock.Anything, "sale-1", "alice").Return(nil, dbErr)
				m.gate.On("Increment", mock.Anything, "sale-1").Return(int64(5), nil).Once()
			},
			expectedError: dbErr,
			expectedKind:  errs.KindInternal,
		},
		{
			name:   "Compensation failure keeps original error",
			userID: "alice",
			setupMocks: func(m *serviceMocks) {
				m.ledger.On("GetCurrentSale", mock.Anything).Return(testSale(5), nil)
				m.clock.On("Now").Return(duringSale)
				m.ledger.On("FindConfirmedPurchase", mock.Anything, "sale-1", "alice").Return(nil, nil)
				m.gate.On("Read", mock.Anything, "sale-1").Return(int64(5), true, nil)
				m.gate.On("Decrement", mock.Anything, "sale-1").Return(int64(4), nil)
				m.ledger.On("CommitPurchase", mock.Anything, "sale-1", "alice").Return(nil, errs.NewSoldOutError())
				m.gate.On("Increment", mock.Anything, "sale-1").Return(int64(0), errors.New("redis: connection pool timeout"))
			},
			expectedError: errs.ErrSoldOut,
			expectedKind:  errs.KindSoldOut,
		},
		{
			name:   "Ledger read failure",
			userID: "alice",
			setupMocks: func(m *serviceMocks) {
				m.ledger.On("GetCurrentSale", mock.Anything).Return(nil, dbErr)
			},
			expectedError: dbErr,
			expectedKind:  errs.KindInternal,
		},
		{
			name:   "Gate unavailable before decrement fails without compensation",
			userID: "alice",
			setupMocks: func(m *serviceMocks) {
				m.ledger.On("GetCurrentSale", mock.Anything).Return(testSale(5), nil)
				m.clock.On("Now").Return(duringSale)
				m.ledger.On("FindConfirmedPurchase", mock.Anything, "sale-1", "alice").Return(nil, nil)
				m.gate.On("Read", mock.Anything, "sale-1").Return(int64(0), false, errors.New("redis: i/o timeout"))
			},
			expectedKind: errs.KindInternal,
		},
		{
			name:   "Publish failure does not fail the purchase",
			userID: "alice",
			setupMocks: func(m *serviceMocks) {
				m.ledger.On("GetCurrentSale", mock.Anything).Return(testSale(5), nil)
				m.clock.On("Now").Return(duringSale)
				m.ledger.On("FindConfirmedPurchase", mock.Anything, "sale-1", "alice").Return(nil, nil)
				m.gate.On("Read", mock.Anything, "sale-1").Return(int64(5), true, nil)
				m.gate.On("Decrement", mock.Anything, "sale-1").Return(int64(4), nil)
				m.ledger.On("CommitPurchase", mock.Anything, "sale-1", "alice").
					Return(entity.NewConfirmedPurchase("purchase-1", "sale-1", "alice", purchasedAt), nil)
				m.publisher.On("PublishPurchaseConfirmed", mock.Anything, mock.Anything).Return(errors.New("kafka: broker unavailable"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newServiceMocks()
			tt.setupMocks(m)

			result, err := m.service().AttemptPurchase(ctx, tt.userID)

			if tt.expectedKind == "" {
				require.NoError(t, err)
				assert.Equal(t, "purchase-1", result.PurchaseID)
				assert.Equal(t, "alice", result.UserID)
				assert.Equal(t, "Limited Edition Mechanical Keyboard", result.ProductName)
				assert.Equal(t, entity.PurchaseStatusConfirmed, result.Status)
				assert.Equal(t, purchasedAt, result.PurchasedAt)
				m.gate.AssertNotCalled(t, "Increment", mock.Anything, mock.Anything)
			} else {
				assert.Nil(t, result)
				assert.Equal(t, tt.expectedKind, errs.KindOf(err))
				if tt.expectedError != nil {
					assert.ErrorIs(t, err, tt.expectedError)
				}
				if tt.expectedKind == errs.KindInternal {
					m.logger.AssertCalled(t, "Error", "Purchase request failed", mock.MatchedBy(func(f map[string]any) bool {
						return f["correlation_id"] == "corr-1" && f["error_code"] == "INTERNAL_ERROR"
					}))
				}
			}

			m.assertExpectations(t)
		})
	}
}

func TestAttemptPurchase_StatusCheckedBeforeDuplicateAndStock(t *testing.T) {
	m := newServiceMocks()
	m.ledger.On("GetCurrentSale", mock.Anything).Return(testSale(0), nil)
	m.clock.On("Now").Return(saleEnd.Add(time.Second))

	_, err := m.service().AttemptPurchase(context.Background(), "alice")

	assert.ErrorIs(t, err, errs.ErrSaleNotActive)
	var fsErr *errs.FlashSaleError
	require.ErrorAs(t, err, &fsErr)
	assert.Equal(t, errs.BoundaryEnded, fsErr.Boundary)
	m.ledger.AssertNotCalled(t, "FindConfirmedPurchase", mock.Anything, mock.Anything, mock.Anything)
	m.gate.AssertNotCalled(t, "Decrement", mock.Anything, mock.Anything)
}

func TestAttemptPurchase_CancelledCallerStillCompensates(t *testing.T) {
	m := newServiceMocks()
	ctx, cancel := context.WithCancel(context.Background())

	m.ledger.On("GetCurrentSale", mock.Anything).Return(testSale(5), nil)
	m.clock.On("Now").Return(duringSale)
	m.ledger.On("FindConfirmedPurchase", mock.Anything, "sale-1", "alice").Return(nil, nil)
	m.gate.On("Read", mock.Anything, "sale-1").Return(int64(5), true, nil)
	m.gate.On("Decrement", mock.Anything, "sale-1").Run(func(mock.Arguments) {
		cancel()
	}).Return(int64(4), nil)
	m.ledger.On("CommitPurchase", mock.MatchedBy(func(c context.Context) bool {
		return c.Err() == nil
	}), "sale-1", "alice").Return(nil, errors.New("deadlock detected"))
	m.gate.On("Increment", mock.MatchedBy(func(c context.Context) bool {
		return c.Err() == nil
	}), "sale-1").Return(int64(5), nil).Once()

	_, err := m.service().AttemptPurchase(ctx, "alice")

	assert.Error(t, err)
	m.assertExpectations(t)
}

func TestAttemptPurchase_GeneratesCorrelationID(t *testing.T) {
	m := newServiceMocks()
	m.ledger.On("GetCurrentSale", mock.Anything).Return(nil, errors.New("boom"))

	_, err := m.service().AttemptPurchase(context.Background(), "alice")

	assert.Error(t, err)
	m.logger.AssertCalled(t, "Error", "Purchase request failed", mock.MatchedBy(func(f map[string]any) bool {
		return f["correlation_id"] == "corr-generated"
	}))
}

func TestGetCurrentSale(t *testing.T) {
	ctx := context.Background()

	t.Run("Seeds cold gate from ledger", func(t *testing.T) {
		m := newServiceMocks()
		m.ledger.On("GetCurrentSale", ctx).Return(testSale(7), nil)
		m.gate.On("Read", ctx, "sale-1").Return(int64(0), false, nil)
		m.gate.On("Initialize", ctx, "sale-1", int64(7)).Return(nil).Once()
		m.clock.On("Now").Return(duringSale)

		view, err := m.service().GetCurrentSale(ctx)

		require.NoError(t, err)
		assert.Equal(t, int64(7), view.RemainingStock)
		assert.Equal(t, entity.SaleStatusActive, view.Status)
		m.assertExpectations(t)
	})

	t.Run("Clamps negative gate value", func(t *testing.T) {
		m := newServiceMocks()
		m.ledger.On("GetCurrentSale", ctx).Return(testSale(0), nil)
		m.gate.On("Read", ctx, "sale-1").Return(int64(-4), true, nil)
		m.clock.On("Now").Return(duringSale)

		view, err := m.service().GetCurrentSale(ctx)

		require.NoError(t, err)
		assert.Equal(t, int64(0), view.RemainingStock)
		m.gate.AssertNotCalled(t, "Initialize", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Reports gate value over ledger value", func(t *testing.T) {
		m := newServiceMocks()
		m.ledger.On("GetCurrentSale", ctx).Return(testSale(10), nil)
		m.gate.On("Read", ctx, "sale-1").Return(int64(6), true, nil)
		m.clock.On("Now").Return(saleStart.Add(-time.Minute))

		view, err := m.service().GetCurrentSale(ctx)

		require.NoError(t, err)
		assert.Equal(t, int64(6), view.RemainingStock)
		assert.Equal(t, entity.SaleStatusUpcoming, view.Status)
	})

	t.Run("Falls back to ledger when gate fails", func(t *testing.T) {
		m := newServiceMocks()
		m.ledger.On("GetCurrentSale", ctx).Return(testSale(9), nil)
		m.gate.On("Read", ctx, "sale-1").Return(int64(0), false, errors.New("redis down"))
		m.clock.On("Now").Return(duringSale)

		view, err := m.service().GetCurrentSale(ctx)

		require.NoError(t, err)
		assert.Equal(t, int64(9), view.RemainingStock)
	})

	t.Run("No sale", func(t *testing.T) {
		m := newServiceMocks()
		m.ledger.On("GetCurrentSale", ctx).Return(nil, nil)

		_, err := m.service().GetCurrentSale(ctx)

		assert.ErrorIs(t, err, errs.ErrSaleNotFound)
	})
}

func TestCheckUserPurchase(t *testing.T) {
	ctx := context.Background()

	t.Run("Purchased", func(t *testing.T) {
		m := newServiceMocks()
		m.ledger.On("GetCurrentSale", ctx).Return(testSale(4), nil)
		m.ledger.On("FindConfirmedPurchase", ctx, "sale-1", "alice").
			Return(entity.NewConfirmedPurchase("purchase-1", "sale-1", "alice", duringSale), nil)

		check, err := m.service().CheckUserPurchase(ctx, " alice ")

		require.NoError(t, err)
		assert.True(t, check.Purchased)
		assert.Equal(t, "purchase-1", check.PurchaseID)
		require.NotNil(t, check.PurchasedAt)
		assert.Equal(t, duringSale, *check.PurchasedAt)
		m.gate.AssertNotCalled(t, "Read", mock.Anything, mock.Anything)
	})

	t.Run("Not purchased", func(t *testing.T) {
		m := newServiceMocks()
		m.ledger.On("GetCurrentSale", ctx).Return(testSale(4), nil)
		m.ledger.On("FindConfirmedPurchase", ctx, "sale-1", "alice").Return(nil, nil)

		check, err := m.service().CheckUserPurchase(ctx, "alice")

		require.NoError(t, err)
		assert.False(t, check.Purchased)
	})

	t.Run("Invalid user id", func(t *testing.T) {
		m := newServiceMocks()

		_, err := m.service().CheckUserPurchase(ctx, "")

		assert.ErrorIs(t, err, errs.ErrValidation)
		m.ledger.AssertNotCalled(t, "GetCurrentSale", mock.Anything)
	})

	t.Run("No sale", func(t *testing.T) {
		m := newServiceMocks()
		m.ledger.On("GetCurrentSale", ctx).Return(nil, nil)

		_, err := m.service().CheckUserPurchase(ctx, "alice")

		assert.ErrorIs(t, err, errs.ErrSaleNotFound)
	})
}

package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amirhossein-jamali/flash-sale/internal/domain/entity"
	errs "github.com/amirhossein-jamali/flash-sale/internal/domain/error"
	mcore "github.com/amirhossein-jamali/flash-sale/mocks/port/core"
	mpers "github.com/amirhossein-jamali/flash-sale/mocks/port/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type contextKey string

const txKey contextKey = "tx"

func TestCommitPurchase(t *testing.T) {
	ctx := context.Background()
	txCtx := context.WithValue(ctx, txKey, "mockTransaction")
	now := time.Date(2025, 6, 1, 10, 5, 0, 0, time.UTC)
	dbErr := errors.New("connection reset by peer")

	tests := []struct {
		name          string
		setupMocks    func(*mpers.MockUnitOfWork, *mpers.MockSaleRepository, *mpers.MockPurchaseRepository, *mcore.MockIDGenerator, *mcore.MockTimeProvider)
		expectedError error
	}{
		{
			name: "Commits purchase",
			setupMocks: func(uow *mpers.MockUnitOfWork, sales *mpers.MockSaleRepository, purchases *mpers.MockPurchaseRepository, ids *mcore.MockIDGenerator, clock *mcore.MockTimeProvider) {
				uow.On("Begin", ctx).Return(txCtx, nil)
				sales.On("LockForPurchase", txCtx, "sale-1").Return(&entity.Sale{ID: "sale-1", RemainingStock: 3}, nil)
				purchases.On("FindConfirmed", txCtx, "sale-1", "alice").Return(nil, nil)
				sales.On("DecrementRemaining", txCtx, "sale-1").Return(true, nil)
				ids.On("NewID").Return("purchase-1")
				clock.On("Now").Return(now)
				purchases.On("Create", txCtx, mock.MatchedBy(func(p *entity.Purchase) bool {
					return p.ID == "purchase-1" && p.SaleID == "sale-1" && p.UserID == "alice" && p.IsConfirmed()
				})).Return(nil)
				uow.On("Commit", txCtx).Return(nil)
			},
		},
		{
			name: "Duplicate found under lock",
			setupMocks: func(uow *mpers.MockUnitOfWork, sales *mpers.MockSaleRepository, purchases *mpers.MockPurchaseRepository, ids *mcore.MockIDGenerator, clock *mcore.MockTimeProvider) {
				uow.On("Begin", ctx).Return(txCtx, nil)
				sales.On("LockForPurchase", txCtx, "sale-1").Return(&entity.Sale{ID: "sale-1"}, nil)
				purchases.On("FindConfirmed", txCtx, "sale-1", "alice").
					Return(entity.NewConfirmedPurchase("purchase-0", "sale-1", "alice", now), nil)
				uow.On("Rollback", txCtx).Return(nil)
			},
			expectedError: errs.ErrAlreadyPurchased,
		},
		{
			name: "Guarded decrement affects no rows",
			setupMocks: func(uow *mpers.MockUnitOfWork, sales *mpers.MockSaleRepository, purchases *mpers.MockPurchaseRepository, ids *mcore.MockIDGenerator, clock *mcore.MockTimeProvider) {
				uow.On("Begin", ctx).Return(txCtx, nil)
				sales.On("LockForPurchase", txCtx, "sale-1").Return(&entity.Sale{ID: "sale-1"}, nil)
				purchases.On("FindConfirmed", txCtx, "sale-1", "alice").Return(nil, nil)
				sales.On("DecrementRemaining", txCtx, "sale-1").Return(false, nil)
				uow.On("Rollback", txCtx).Return(nil)
			},
			expectedError: errs.ErrSoldOut,
		},
		{
			name: "Sale missing at lock",
			setupMocks: func(uow *mpers.MockUnitOfWork, sales *mpers.MockSaleRepository, purchases *mpers.MockPurchaseRepository, ids *mcore.MockIDGenerator, clock *mcore.MockTimeProvider) {
				uow.On("Begin", ctx).Return(txCtx, nil)
				sales.On("LockForPurchase", txCtx, "sale-1").Return(nil, errs.NewSaleNotFoundError())
				uow.On("Rollback", txCtx).Return(nil)
			},
			expectedError: errs.ErrSaleNotFound,
		},
		{
			name: "Insert fails and error is returned unchanged",
			setupMocks: func(uow *mpers.MockUnitOfWork, sales *mpers.MockSaleRepository, purchases *mpers.MockPurchaseRepository, ids *mcore.MockIDGenerator, clock *mcore.MockTimeProvider) {
				uow.On("Begin", ctx).Return(txCtx, nil)
				sales.On("LockForPurchase", txCtx, "sale-1").Return(&entity.Sale{ID: "sale-1"}, nil)
				purchases.On("FindConfirmed", txCtx, "sale-1", "alice").Return(nil, nil)
				sales.On("DecrementRemaining", txCtx, "sale-1").Return(true, nil)
				ids.On("NewID").Return("purchase-1")
				clock.On("Now").Return(now)
				purchases.On("Create", txCtx, mock.Anything).Return(dbErr)
				uow.On("Rollback", txCtx).Return(nil)
			},
			expectedError: dbErr,
		},
		{
			name: "Commit fails",
			setupMocks: func(uow *mpers.MockUnitOfWork, sales *mpers.MockSaleRepository, purchases *mpers.MockPurchaseRepository, ids *mcore.MockIDGenerator, clock *mcore.MockTimeProvider) {
				uow.On("Begin", ctx).Return(txCtx, nil)
				sales.On("LockForPurchase", txCtx, "sale-1").Return(&entity.Sale{ID: "sale-1"}, nil)
				purchases.On("FindConfirmed", txCtx, "sale-1", "alice").Return(nil, nil)
				sales.On("DecrementRemaining", txCtx, "sale-1").Return(true, nil)
				ids.On("NewID").Return("purchase-1")
				clock.On("Now").Return(now)
				purchases.On("Create", txCtx, mock.Anything).Return(nil)
				uow.On("Commit", txCtx).Return(dbErr)
				uow.On("Rollback", txCtx).Return(nil)
			},
			expectedError: dbErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUow := new(mpers.MockUnitOfWork)
			mockSales := new(mpers.MockSaleRepository)
			mockPurchases := new(mpers.MockPurchaseRepository)
			mockIDs := new(mcore.MockIDGenerator)
			mockTime := new(mcore.MockTimeProvider)
			mockLogger := new(mcore.MockLogger)

			mockUow.On("GetSaleRepository", mock.Anything).Return(mockSales).Maybe()
			mockUow.On("GetPurchaseRepository", mock.Anything).Return(mockPurchases).Maybe()
			mockLogger.On("Debug", mock.Anything, mock.Anything).Maybe()
			mockLogger.On("Warn", mock.Anything, mock.Anything).Maybe()
			tt.setupMocks(mockUow, mockSales, mockPurchases, mockIDs, mockTime)

			l := NewLedger(mockUow, mockIDs, mockTime, mockLogger)
			purchase, err := l.CommitPurchase(ctx, "sale-1", "alice")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, purchase)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "purchase-1", purchase.ID)
				assert.Equal(t, now, purchase.CreatedAt)
				mockUow.AssertNotCalled(t, "Rollback", mock.Anything)
			}

			mockUow.AssertExpectations(t)
			mockSales.AssertExpectations(t)
			mockPurchases.AssertExpectations(t)
		})
	}
}

func TestCommitPurchase_BeginFails(t *testing.T) {
	ctx := context.Background()
	mockUow := mpers.NewMockUnitOfWork(t)
	mockLogger := new(mcore.MockLogger)

	beginErr := errors.New("too many connections")
	mockUow.On("Begin", ctx).Return(ctx, beginErr)

	l := NewLedger(mockUow, new(mcore.MockIDGenerator), new(mcore.MockTimeProvider), mockLogger)
	_, err := l.CommitPurchase(ctx, "sale-1", "alice")

	assert.ErrorIs(t, err, beginErr)
	mockUow.AssertNotCalled(t, "Rollback", mock.Anything)
}

func TestLedgerReads(t *testing.T) {
	ctx := context.Background()
	mockUow := mpers.NewMockUnitOfWork(t)
	mockSales := mpers.NewMockSaleRepository(t)
	mockPurchases := mpers.NewMockPurchaseRepository(t)

	sale := &entity.Sale{ID: "sale-1", ProductName: "Keyboard"}
	mockUow.On("GetSaleRepository", ctx).Return(mockSales)
	mockUow.On("GetPurchaseRepository", ctx).Return(mockPurchases)
	mockSales.On("GetCurrent", ctx).Return(sale, nil)
	mockPurchases.On("FindConfirmed", ctx, "sale-1", "bob").Return(nil, nil)

	l := NewLedger(mockUow, new(mcore.MockIDGenerator), new(mcore.MockTimeProvider), new(mcore.MockLogger))

	got, err := l.GetCurrentSale(ctx)
	require.NoError(t, err)
	assert.Same(t, sale, got)

	purchase, err := l.FindConfirmedPurchase(ctx, "sale-1", "bob")
	require.NoError(t, err)
	assert.Nil(t, purchase)
}

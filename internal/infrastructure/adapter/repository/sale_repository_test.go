package repository_test

import (
	"context"
	"testing"
	"time"

	errs "github.com/amirhossein-jamali/flash-sale/internal/domain/error"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSaleRepo(t *testing.T) (*repository.SaleRepository, *database.TestDBManager) {
	t.Helper()
	log := logger.NewNoopLogger()
	tdb := database.NewTestDBManager(t, log)
	return repository.NewSaleRepository(tdb.Manager.DB(), tdb.TimeProvider, log), tdb
}

func TestSaleRepository_GetCurrent(t *testing.T) {
	ctx := context.Background()
	repo, tdb := newSaleRepo(t)

	t.Run("EmptyTableReturnsNil", func(t *testing.T) {
		sale, err := repo.GetCurrent(ctx)
		require.NoError(t, err)
		assert.Nil(t, sale)
	})

	t.Run("ReturnsMostRecentlyCreated", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Second)
		tdb.CreateTestSale(t, "older", 10, now.Add(-time.Hour))
		tdb.CreateTestSale(t, "newer", 20, now)

		sale, err := repo.GetCurrent(ctx)
		require.NoError(t, err)
		require.NotNil(t, sale)
		assert.Equal(t, "newer", sale.ID)
		assert.Equal(t, int64(20), sale.RemainingStock)
	})
}

func TestSaleRepository_GetByID_NotFound(t *testing.T) {
	repo, _ := newSaleRepo(t)

	_, err := repo.GetByID(context.Background(), "missing")

	assert.True(t, errs.IsSaleNotFoundError(err))
}

func TestSaleRepository_DecrementRemaining(t *testing.T) {
	ctx := context.Background()
	repo, tdb := newSaleRepo(t)
	tdb.CreateTestSale(t, "sale-1", 2, time.Now().UTC())

	for i := 0; i < 2; i++ {
		ok, err := repo.DecrementRemaining(ctx, "sale-1")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := repo.DecrementRemaining(ctx, "sale-1")
	require.NoError(t, err)
	assert.False(t, ok, "guard must stop the decrement at zero")

	sale, err := repo.GetByID(ctx, "sale-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), sale.RemainingStock)
}

func TestSaleRepository_Reset(t *testing.T) {
	ctx := context.Background()
	repo, tdb := newSaleRepo(t)
	now := time.Now().UTC().Truncate(time.Second)
	sale := tdb.CreateTestSale(t, "sale-1", 5, now)

	_, err := repo.DecrementRemaining(ctx, "sale-1")
	require.NoError(t, err)

	later := now.Add(time.Hour)
	require.NoError(t, sale.Reset(later, later.Add(30*time.Minute), later))
	require.NoError(t, repo.Reset(ctx, sale))

	stored, err := repo.GetByID(ctx, "sale-1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), stored.RemainingStock)
	assert.True(t, stored.StartTime.Equal(later))

	sale.ID = "missing"
	assert.True(t, errs.IsSaleNotFoundError(repo.Reset(ctx, sale)))
}

func TestSaleRepository_LockForPurchase(t *testing.T) {
	ctx := context.Background()
	repo, tdb := newSaleRepo(t)
	tdb.CreateTestSale(t, "sale-1", 3, time.Now().UTC())

	sale, err := repo.LockForPurchase(ctx, "sale-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), sale.RemainingStock)

	_, err = repo.LockForPurchase(ctx, "missing")
	assert.True(t, errs.IsSaleNotFoundError(err))
}

package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellora/pos-service/internal/apperrors"
	"github.com/sellora/pos-service/internal/model"
	"github.com/sellora/pos-service/internal/stock"
	"github.com/sellora/pos-service/internal/stock/dto"
	"github.com/sellora/pos-service/pkg/logger"
)

func setup(t *testing.T) (stock.UseCase, *mockStockRepository, *mockLocker) {
	t.Helper()
	repo := &mockStockRepository{stocks: map[string]*model.Stock{}}
	locker := &mockLocker{available: true}
	log := logger.NewZapLogger(&logger.ZapLoggerConfig{IsDevelopment: true, Encoding: "console", Level: "error"})
	return NewStockUseCase(repo, locker, log), repo, locker
}

func seed(repo *mockStockRepository, productID, sellerID string, qty int64) *model.Stock {
	st := &model.Stock{
		BaseModel: model.BaseModel{ID: "stock-" + productID},
		ProductID: productID,
		SellerID:  sellerID,
		Quantity:  qty,
	}
	repo.stocks[stockKey(productID, sellerID)] = st
	return st
}

func TestReplenishAdd(t *testing.T) {
	uc, repo, _ := setup(t)
	seed(repo, "p1", "s1", 10)

	st, err := uc.Replenish(context.Background(), &dto.ReplenishInput{
		AdminID:   "admin-1",
		SellerID:  "s1",
		ProductID: "p1",
		Action:    model.StockActionAdd,
		Quantity:  5,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(15), st.Quantity)

	require.Len(t, repo.histories, 1)
	h := repo.histories[0]
	assert.Equal(t, int64(5), h.Delta)
	assert.Equal(t, model.StockActionAdd, h.Action)
	assert.Equal(t, "admin-1", h.AdminID)
	assert.Equal(t, st.ID, h.StockID)
	assert.Nil(t, h.PosID)
}

func TestReplenishRemove(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		uc, repo, _ := setup(t)
		seed(repo, "p1", "s1", 10)

		st, err := uc.Replenish(context.Background(), &dto.ReplenishInput{
			AdminID:   "admin-1",
			SellerID:  "s1",
			ProductID: "p1",
			PosID:     "pos-1",
			Action:    model.StockActionRemove,
			Quantity:  4,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(6), st.Quantity)
		require.Len(t, repo.histories, 1)
		assert.Equal(t, int64(-4), repo.histories[0].Delta)
		require.NotNil(t, repo.histories[0].PosID)
		assert.Equal(t, "pos-1", *repo.histories[0].PosID)
	})

	t.Run("Fail when quantity would go negative", func(t *testing.T) {
		uc, repo, _ := setup(t)
		seed(repo, "p1", "s1", 3)

		_, err := uc.Replenish(context.Background(), &dto.ReplenishInput{
			AdminID:   "admin-1",
			SellerID:  "s1",
			ProductID: "p1",
			Action:    model.StockActionRemove,
			Quantity:  5,
		})

		assert.ErrorIs(t, err, apperrors.ErrNegativeQuantity)
		// No write, no audit entry.
		assert.Equal(t, int64(3), repo.stocks[stockKey("p1", "s1")].Quantity)
		assert.Empty(t, repo.histories)
	})

	t.Run("Fail when stock row does not exist", func(t *testing.T) {
		uc, repo, _ := setup(t)

		_, err := uc.Replenish(context.Background(), &dto.ReplenishInput{
			AdminID:   "admin-1",
			SellerID:  "s1",
			ProductID: "missing",
			Action:    model.StockActionRemove,
			Quantity:  1,
		})

		assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
		assert.Empty(t, repo.histories)
	})
}

func TestReplenishCreatesStockLazily(t *testing.T) {
	uc, repo, _ := setup(t)

	st, err := uc.Replenish(context.Background(), &dto.ReplenishInput{
		AdminID:   "admin-1",
		SellerID:  "s1",
		ProductID: "p-new",
		Action:    model.StockActionAdd,
		Quantity:  7,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, st.ID)
	assert.Equal(t, int64(7), st.Quantity)

	saved := repo.stocks[stockKey("p-new", "s1")]
	require.NotNil(t, saved)
	assert.Equal(t, int64(7), saved.Quantity)
}

func TestReplenishLockBusy(t *testing.T) {
	uc, repo, locker := setup(t)
	locker.available = false
	seed(repo, "p1", "s1", 10)

	_, err := uc.Replenish(context.Background(), &dto.ReplenishInput{
		AdminID:   "admin-1",
		SellerID:  "s1",
		ProductID: "p1",
		Action:    model.StockActionAdd,
		Quantity:  1,
	})

	require.Error(t, err)
	assert.Empty(t, repo.histories)
	assert.GreaterOrEqual(t, locker.acquireCalls, 3)
}

func TestReplenishReleasesLock(t *testing.T) {
	uc, repo, locker := setup(t)
	seed(repo, "p1", "s1", 10)

	_, err := uc.Replenish(context.Background(), &dto.ReplenishInput{
		AdminID:   "admin-1",
		SellerID:  "s1",
		ProductID: "p1",
		Action:    model.StockActionAdd,
		Quantity:  1,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, locker.releaseCalls)
}

func stockKey(productID, sellerID string) string {
	return productID + "/" + sellerID
}

type mockStockRepository struct {
	stocks    map[string]*model.Stock
	histories []*model.StockHistory
}

func (m *mockStockRepository) GetByProduct(_ context.Context, productID, sellerID string) (*model.Stock, error) {
	if st, ok := m.stocks[stockKey(productID, sellerID)]; ok {
		clone := *st
		return &clone, nil
	}
	return nil, nil
}

func (m *mockStockRepository) BatchGetByProducts(_ context.Context, sellerID string, productIDs []string) ([]model.Stock, error) {
	var out []model.Stock
	for _, pid := range productIDs {
		if st, ok := m.stocks[stockKey(pid, sellerID)]; ok {
			out = append(out, *st)
		}
	}
	return out, nil
}

func (m *mockStockRepository) GetBySeller(_ context.Context, sellerID string) ([]model.Stock, error) {
	var out []model.Stock
	for _, st := range m.stocks {
		if st.SellerID == sellerID {
			out = append(out, *st)
		}
	}
	return out, nil
}

func (m *mockStockRepository) SaveWithHistory(_ context.Context, st *model.Stock, history *model.StockHistory) error {
	clone := *st
	m.stocks[stockKey(st.ProductID, st.SellerID)] = &clone
	m.histories = append(m.histories, history)
	return nil
}

func (m *mockStockRepository) ListHistories(_ context.Context, _ *dto.HistoryFilters) ([]model.StockHistory, int, error) {
	var out []model.StockHistory
	for _, h := range m.histories {
		out = append(out, *h)
	}
	return out, len(out), nil
}

type mockLocker struct {
	available    bool
	acquireCalls int
	releaseCalls int
}

func (m *mockLocker) AcquireLock(_ context.Context, _, _ string, _ time.Duration) (bool, error) {
	m.acquireCalls++
	return m.available, nil
}

func (m *mockLocker) ReleaseLock(_ context.Context, _, _ string) (bool, error) {
	m.releaseCalls++
	return true, nil
}

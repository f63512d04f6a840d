package stock

import (
	"context"
	"time"

	"github.com/sellora/pos-service/internal/model"
	"github.com/sellora/pos-service/internal/stock/dto"
)

type UseCase interface {
	GetStockByProduct(ctx context.Context, productID, sellerID string) (*model.Stock, error)
	GetStocksOfSeller(ctx context.Context, sellerID string) ([]model.Stock, error)
	Replenish(ctx context.Context, input *dto.ReplenishInput) (*model.Stock, error)
	ListHistories(ctx context.Context, filters *dto.HistoryFilters) ([]model.StockHistory, int, error)
}

// Locker serializes read-modify-write cycles on one stock row across
// processes. Satisfied by cache.RedisClient.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) (bool, error)
}

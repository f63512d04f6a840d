package stock

import (
	"context"

	"github.com/sellora/pos-service/internal/model"
	"github.com/sellora/pos-service/internal/stock/dto"
)

type Repository interface {
	GetByProduct(ctx context.Context, productID, sellerID string) (*model.Stock, error)
	BatchGetByProducts(ctx context.Context, sellerID string, productIDs []string) ([]model.Stock, error)
	GetBySeller(ctx context.Context, sellerID string) ([]model.Stock, error)

	// SaveWithHistory upserts the stock row and appends the history record in
	// one transaction, so a ledger write is never observed without its audit
	// entry.
	SaveWithHistory(ctx context.Context, st *model.Stock, history *model.StockHistory) error

	ListHistories(ctx context.Context, filters *dto.HistoryFilters) ([]model.StockHistory, int, error)
}

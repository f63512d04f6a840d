package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sellora/pos-service/internal/apperrors"
	"github.com/sellora/pos-service/internal/model"
	"github.com/sellora/pos-service/internal/stock"
	"github.com/sellora/pos-service/internal/stock/dto"
	"github.com/sellora/pos-service/pkg/logger"
)

type stockUseCase struct {
	repo   stock.Repository
	locker stock.Locker
	logger logger.ZapLogger
}

func NewStockUseCase(repo stock.Repository, locker stock.Locker, log logger.ZapLogger) stock.UseCase {
	return &stockUseCase{
		repo:   repo,
		locker: locker,
		logger: log,
	}
}

func (uc *stockUseCase) GetStockByProduct(ctx context.Context, productID, sellerID string) (*model.Stock, error) {
	return uc.repo.GetByProduct(ctx, productID, sellerID)
}

func (uc *stockUseCase) GetStocksOfSeller(ctx context.Context, sellerID string) ([]model.Stock, error) {
	return uc.repo.GetBySeller(ctx, sellerID)
}

func (uc *stockUseCase) Replenish(ctx context.Context, input *dto.ReplenishInput) (*model.Stock, error) {
	// Lock per (product, seller) so two concurrent adjustments cannot both
	// read the same starting quantity and lose an update.
	lockKey := fmt.Sprintf("lock:stock:%s:%s", input.ProductID, input.SellerID)
	lockValue := uuid.New().String()

	acquired := false
	for i := 0; i < 3; i++ {
		ok, err := uc.locker.AcquireLock(ctx, lockKey, lockValue, 5*time.Second)
		if err != nil {
			uc.logger.Error("failed to acquire lock redis error", zap.Error(err))
		}
		if ok {
			acquired = true
			break
		}
		time.Sleep(100 * time.Millisecond) // wait before retry
	}

	if !acquired {
		return nil, errors.New("system busy, please try again later (lock)")
	}

	defer uc.locker.ReleaseLock(ctx, lockKey, lockValue)

	st, err := uc.repo.GetByProduct(ctx, input.ProductID, input.SellerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	if st == nil {
		// Cannot subtract from a stock row that was never created.
		if input.Action == model.StockActionRemove {
			return nil, apperrors.ErrInsufficientStock
		}
		st = &model.Stock{
			BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now},
			ProductID: input.ProductID,
			SellerID:  input.SellerID,
			Quantity:  0,
		}
	}

	delta := input.Quantity
	if input.Action == model.StockActionRemove {
		delta = -delta
	}

	newQuantity := st.Quantity + delta
	if newQuantity < 0 {
		return nil, apperrors.ErrNegativeQuantity
	}

	st.Quantity = newQuantity
	st.UpdatedAt = now

	var posID *string
	if input.PosID != "" {
		posID = &input.PosID
	}
	history := &model.StockHistory{
		ID:        uuid.New().String(),
		StockID:   st.ID,
		Delta:     delta,
		Action:    input.Action,
		SellerID:  input.SellerID,
		AdminID:   input.AdminID,
		PosID:     posID,
		CreatedAt: now,
	}

	if err := uc.repo.SaveWithHistory(ctx, st, history); err != nil {
		return nil, errors.Wrap(err, "save stock with history")
	}

	return st, nil
}

func (uc *stockUseCase) ListHistories(ctx context.Context, filters *dto.HistoryFilters) ([]model.StockHistory, int, error) {
	return uc.repo.ListHistories(ctx, filters)
}

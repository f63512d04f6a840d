package pos

import (
	"context"

	"github.com/sellora/pos-service/internal/model"
	"github.com/sellora/pos-service/internal/pos/dto"
)

type UseCase interface {
	CreatePointOfSale(ctx context.Context, input *dto.CreatePointOfSaleInput) (*model.PointOfSale, error)
	GetPointOfSale(ctx context.Context, id string) (*model.PointOfSale, error)
	ListPointsOfSale(ctx context.Context) ([]model.PointOfSale, error)
	UpdatePointOfSale(ctx context.Context, input *dto.UpdatePointOfSaleInput) (*model.PointOfSale, error)
	DeletePointOfSale(ctx context.Context, id string) error
}

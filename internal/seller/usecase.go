package seller

import (
	"context"

	"github.com/sellora/pos-service/internal/model"
	"github.com/sellora/pos-service/internal/seller/dto"
)

type UseCase interface {
	CreateSeller(ctx context.Context, input *dto.CreateSellerInput) (*model.Seller, error)
	GetSeller(ctx context.Context, id string) (*model.Seller, error)
	ListSellers(ctx context.Context, filters *dto.SellerFilters) ([]model.Seller, int, error)
	UpdateSeller(ctx context.Context, input *dto.UpdateSellerInput) (*model.Seller, error)
	DeleteSeller(ctx context.Context, id string) error
}

package seller

import (
	"context"

	"github.com/sellora/pos-service/internal/model"
	"github.com/sellora/pos-service/internal/seller/dto"
)

type Repository interface {
	Create(ctx context.Context, s *model.Seller) error
	FindByID(ctx context.Context, id string) (*model.Seller, error)
	FindAll(ctx context.Context, filters *dto.SellerFilters) ([]model.Seller, int, error)
	Update(ctx context.Context, s *model.Seller) error
	Delete(ctx context.Context, id string) error
	IsUsernameUnique(ctx context.Context, username, excludeID string) (bool, error)
	IsEmailUnique(ctx context.Context, email, excludeID string) (bool, error)
}

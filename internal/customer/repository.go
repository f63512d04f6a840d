package customer

import (
	"context"

	"github.com/sellora/pos-service/internal/customer/dto"
	"github.com/sellora/pos-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, id string) (*model.Customer, error)
	FindAll(ctx context.Context, filters *dto.CustomerFilters) ([]model.Customer, int, error)
	Update(ctx context.Context, c *model.Customer) error
	Delete(ctx context.Context, id string) error
}

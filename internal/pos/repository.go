package pos

import (
	"context"

	"github.com/sellora/pos-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, p *model.PointOfSale) error
	FindByID(ctx context.Context, id string) (*model.PointOfSale, error)
	FindAll(ctx context.Context) ([]model.PointOfSale, error)
	Update(ctx context.Context, p *model.PointOfSale) error
	Delete(ctx context.Context, id string) error
}

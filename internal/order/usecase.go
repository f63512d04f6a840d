package order

import (
	"context"

	"github.com/sellora/pos-service/internal/model"
	"github.com/sellora/pos-service/internal/order/dto"
)

type UseCase interface {
	PlaceOrder(ctx context.Context, input *dto.PlaceOrderInput) (*model.Order, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	UpdateOrder(ctx context.Context, input *dto.UpdateOrderInput) (*model.Order, error)
	DeleteOrder(ctx context.Context, id, actorID string) error
}

// EventPublisher pushes order lifecycle events to downstream consumers
// (invoicing, notifications). Satisfied by broker.KafkaProducer.
type EventPublisher interface {
	Publish(ctx context.Context, key, value []byte) error
}

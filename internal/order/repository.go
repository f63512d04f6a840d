package order

import (
	"context"

	"github.com/sellora/pos-service/internal/model"
	"github.com/sellora/pos-service/internal/order/dto"
)

// Repository writes orders together with their stock effects. Every method
// that touches stock runs in one transaction and decrements with a
// quantity >= requested guard, so a concurrent sale can make the whole
// transaction fail but never drive a quantity negative.
type Repository interface {
	// CreateWithDetails inserts the order and its lines, applies one guarded
	// decrement per line against the seller's stock, and appends the history
	// records. A non-nil cust is an ad hoc customer inserted in the same
	// transaction, so a failed order never leaves a customer row behind.
	// Fails with apperrors.ErrInsufficientStock if any guard misses.
	CreateWithDetails(ctx context.Context, o *model.Order, cust *model.Customer, details []model.OrderDetail, histories []model.StockHistory) error

	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindDetails(ctx context.Context, orderID string) ([]model.OrderDetail, error)
	FindAll(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)

	// UpdateWithDetails restores stock for the order's previous lines,
	// replaces the detail set wholesale, applies guarded decrements for the
	// new lines, and appends the history records.
	UpdateWithDetails(ctx context.Context, o *model.Order, restores, details []model.OrderDetail, histories []model.StockHistory) error

	// DeleteWithRestore returns the order's quantities to stock, appends the
	// history records, then deletes the order and its lines.
	DeleteWithRestore(ctx context.Context, o *model.Order, restores []model.OrderDetail, histories []model.StockHistory) error
}

package model

import "github.com/shopspring/decimal"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

type Order struct {
	BaseModel
	CustomerID      *string         `db:"customer_id" json:"customer_id"` // Nullable, walk-in sale
	SellerID        string          `db:"seller_id" json:"seller_id"`
	TotalAmount     decimal.Decimal `db:"total_amount" json:"total_amount"`
	SalesCommission decimal.Decimal `db:"sales_commission" json:"sales_commission"`
	Status          OrderStatus     `db:"status" json:"status"`

	Details []OrderDetail `db:"-" json:"details,omitempty"`
}

// OrderDetail captures the unit price at time of sale, denormalized from
// Product so later price changes don't rewrite history.
type OrderDetail struct {
	ID        string          `db:"id" json:"id"`
	OrderID   string          `db:"order_id" json:"order_id"`
	ProductID string          `db:"product_id" json:"product_id"`
	Quantity  int64           `db:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
}

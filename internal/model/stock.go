package model

import "time"

type StockAction string

const (
	StockActionAdd    StockAction = "ADD"
	StockActionRemove StockAction = "REMOVE"
)

func (a StockAction) Valid() bool {
	return a == StockActionAdd || a == StockActionRemove
}

// Stock is the current on-hand quantity of one product attributed to one
// seller. One row per (product, seller) pair, created lazily on first
// replenishment; quantity never goes below zero.
type Stock struct {
	BaseModel
	ProductID string `db:"product_id" json:"product_id"`
	SellerID  string `db:"seller_id" json:"seller_id"`
	Quantity  int64  `db:"quantity" json:"quantity"`

	Product *Product `db:"-" json:"product,omitempty"` // Joined data
}

// StockHistory is the append-only audit record of a stock change. Rows are
// never updated or deleted.
type StockHistory struct {
	ID        string      `db:"id" json:"id"`
	StockID   string      `db:"stock_id" json:"stock_id"`
	Delta     int64       `db:"delta" json:"delta"` // signed: +q for ADD, -q for REMOVE
	Action    StockAction `db:"action" json:"action"`
	SellerID  string      `db:"seller_id" json:"seller_id"`
	AdminID   string      `db:"admin_id" json:"admin_id"`
	PosID     *string     `db:"pos_id" json:"pos_id"` // nil for order deductions
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}

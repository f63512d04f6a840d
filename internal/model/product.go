package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	CategoryID     *string         `db:"category_id" json:"category_id"` // Nullable
	Name           string          `db:"name" json:"name"`
	Price          decimal.Decimal `db:"price" json:"price"`
	CommissionRate decimal.Decimal `db:"commission_rate" json:"commission_rate"`
	Category       *Category       `db:"-" json:"category,omitempty"` // Joined data
}

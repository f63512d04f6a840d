package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	CategoryID     string // optional
	Name           string
	Price          decimal.Decimal
	CommissionRate decimal.Decimal
}

type UpdateProductInput struct {
	ID             string
	CategoryID     string
	Name           string
	Price          decimal.Decimal
	CommissionRate decimal.Decimal
}

package dto

import "github.com/sellora/pos-service/internal/model"

type ReplenishInput struct {
	AdminID   string
	SellerID  string
	ProductID string
	PosID     string
	Action    model.StockAction
	Quantity  int64 // always positive; Action carries the sign
}

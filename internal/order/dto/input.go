package dto

import "github.com/sellora/pos-service/internal/model"

type OrderLineInput struct {
	ProductID   string
	ProductName string // for error messages attributed to this line
	Quantity    int64
}

type CustomerInput struct {
	Name    string
	Address *string
	Phone   *string
	Email   *string
}

type PlaceOrderInput struct {
	SellerID   string
	CustomerID *string
	Customer   *CustomerInput // ad hoc customer created with the order
	Details    []OrderLineInput
}

type UpdateOrderInput struct {
	ID         string
	ActorID    string
	CustomerID *string
	Status     model.OrderStatus
	Details    []OrderLineInput
}

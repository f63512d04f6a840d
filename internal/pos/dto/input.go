package dto

import "github.com/sellora/pos-service/internal/model"

type CreatePointOfSaleInput struct {
	Name        string
	Address     string
	Phone       string
	Description string
	Status      model.PosStatus
}

type UpdatePointOfSaleInput struct {
	ID          string
	Name        string
	Address     string
	Phone       string
	Description string
	Status      model.PosStatus
}

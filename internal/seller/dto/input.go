package dto

import "github.com/sellora/pos-service/internal/model"

type CreateSellerInput struct {
	Name     string
	Username string
	Email    string
	Phone    *string
	Role     model.Role
}

type UpdateSellerInput struct {
	ID       string
	Name     string
	Username string
	Email    string
	Phone    *string
	Role     model.Role
}

type SellerFilters struct {
	Role        model.Role
	SearchQuery string
	Page        int
	PageSize    int
}

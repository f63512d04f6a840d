package dto

type CreateCustomerInput struct {
	Name    string
	Address *string
	Phone   *string
	Email   *string
}

type UpdateCustomerInput struct {
	ID      string
	Name    string
	Address *string
	Phone   *string
	Email   *string
}

type CustomerFilters struct {
	SearchQuery string
	Page        int
	PageSize    int
}

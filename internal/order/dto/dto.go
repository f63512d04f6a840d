package dto

type OrderFilters struct {
	SellerID string
	Status   string
	Page     int
	PageSize int
}

package dto

type HistoryFilters struct {
	SellerID  string
	ProductID string
	Action    string
	Page      int
	PageSize  int
}

package dto

type ProductFilters struct {
	CategoryID  string
	SearchQuery string
	Page        int
	PageSize    int
}

package models

// Pagination is the page block returned with every list endpoint.
// Pages are zero-based.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
	PageSize    int   `json:"pageSize"`
}

// Page is one page of a list endpoint.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}

package shared

import "math"

// PageSize is the fixed page size for paginated listings.
const PageSize = 10

// Pagination contains metadata for paginated listings.
type Pagination struct {
	TotalPages   int `json:"totalPages"`
	TotalResults int `json:"totalResults"`
}

// NewPagination computes pagination metadata for a total row count.
func NewPagination(total int) Pagination {
	if total < 0 {
		total = 0
	}
	return Pagination{
		TotalPages:   int(math.Ceil(float64(total) / float64(PageSize))),
		TotalResults: total,
	}
}

// PageOffset converts a 1-based page number to a row offset.
func PageOffset(page int) int {
	if page <= 1 {
		return 0
	}
	return (page - 1) * PageSize
}

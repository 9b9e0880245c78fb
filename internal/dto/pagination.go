package dto

// Pagination is the common list query shape
type Pagination struct {
	Page    int `form:"page"`
	PerPage int `form:"perPage"`
}

// Normalize applies defaults and bounds
func (p *Pagination) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = 10
	}
	if p.PerPage > 100 {
		p.PerPage = 100
	}
}

// Limit returns the SQL limit
func (p Pagination) Limit() int {
	return p.PerPage
}

// Offset returns the SQL offset
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// PageMeta describes a page of results
type PageMeta struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"currentPage"`
	PerPage     int   `json:"perPage"`
	LastPage    int   `json:"lastPage"`
}

// Paginated wraps a list payload with paging metadata
type Paginated[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

// NewPaginated builds a Paginated response
func NewPaginated[T any](data []T, total int64, p Pagination) Paginated[T] {
	if data == nil {
		data = []T{}
	}
	lastPage := int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	if lastPage < 1 {
		lastPage = 1
	}
	return Paginated[T]{
		Data: data,
		Meta: PageMeta{
			Total:       total,
			CurrentPage: p.Page,
			PerPage:     p.PerPage,
			LastPage:    lastPage,
		},
	}
}

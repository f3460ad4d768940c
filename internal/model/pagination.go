package model

import "errors"

// Pagination is page-number pagination metadata. Count is the total number
// of matching rows, not the page length.
type Pagination struct {
	Count        int  `json:"count"`
	Page         int  `json:"page"`
	PageSize     int  `json:"page_size"`
	TotalPages   int  `json:"total_pages"`
	HasNext      bool `json:"has_next"`
	HasPrevious  bool `json:"has_previous"`
	NextPage     *int `json:"next_page,omitempty"`
	PreviousPage *int `json:"previous_page,omitempty"`
}

// ErrInvalidPage is returned when the requested page is out of range.
var ErrInvalidPage = errors.New("page out of range")

// NewPagination computes metadata for the given total/page/size. An empty
// result set still has exactly one valid page, so page 1 never fails.
func NewPagination(total, page, pageSize int) (Pagination, error) {
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	if page < 1 || page > totalPages {
		return Pagination{}, ErrInvalidPage
	}

	p := Pagination{
		Count:       total,
		Page:        page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
	if p.HasNext {
		next := page + 1
		p.NextPage = &next
	}
	if p.HasPrevious {
		prev := page - 1
		p.PreviousPage = &prev
	}
	return p, nil
}

// Offset returns the row offset for this page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

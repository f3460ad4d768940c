package model

import (
	"errors"
	"testing"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		page       int
		pageSize   int
		wantErr    bool
		totalPages int
		hasNext    bool
		hasPrev    bool
		offset     int
	}{
		{"empty set page 1", 0, 1, 10, false, 1, false, false, 0},
		{"empty set page 2", 0, 2, 10, true, 0, false, false, 0},
		{"single page", 7, 1, 10, false, 1, false, false, 0},
		{"exact multiple", 20, 2, 10, false, 2, false, true, 10},
		{"middle page", 45, 3, 10, false, 5, true, true, 20},
		{"last page", 45, 5, 10, false, 5, false, true, 40},
		{"past the end", 45, 6, 10, true, 0, false, false, 0},
		{"page zero", 45, 0, 10, true, 0, false, false, 0},
		{"negative page", 45, -1, 10, true, 0, false, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPagination(tt.total, tt.page, tt.pageSize)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPage) {
					t.Fatalf("expected ErrInvalidPage, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}

			if p.TotalPages != tt.totalPages {
				t.Errorf("total pages = %d, want %d", p.TotalPages, tt.totalPages)
			}
			if p.HasNext != tt.hasNext || p.HasPrevious != tt.hasPrev {
				t.Errorf("has_next/has_previous = %v/%v, want %v/%v", p.HasNext, p.HasPrevious, tt.hasNext, tt.hasPrev)
			}
			if p.Offset() != tt.offset {
				t.Errorf("offset = %d, want %d", p.Offset(), tt.offset)
			}
			if p.Count != tt.total {
				t.Errorf("count = %d, want %d", p.Count, tt.total)
			}
		})
	}
}

func TestPaginationLinks(t *testing.T) {
	p, err := NewPagination(30, 2, 10)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if p.NextPage == nil || *p.NextPage != 3 {
		t.Errorf("next page = %v, want 3", p.NextPage)
	}
	if p.PreviousPage == nil || *p.PreviousPage != 1 {
		t.Errorf("previous page = %v, want 1", p.PreviousPage)
	}

	first, err := NewPagination(30, 1, 10)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if first.PreviousPage != nil {
		t.Errorf("first page must not link backwards, got %v", first.PreviousPage)
	}
}

package model

import (
	"fmt"
	"strings"
)

// Paging defaults applied when the client does not ask for anything else.
const (
	DefaultPageSize = 20
	MaxPageSize     = 2000
)

// Sort orders a page by a single property.
type Sort struct {
	Property   string
	Descending bool
}

// Pageable is a request for a bounded, offset-addressable slice of a result set.
type Pageable struct {
	Page int
	Size int
	Sort []Sort
}

// DefaultPageable returns the first page with the default size and no sort.
func DefaultPageable() Pageable {
	return Pageable{Page: 0, Size: DefaultPageSize}
}

// Offset returns the number of rows to skip.
func (p Pageable) Offset() int {
	return p.Page * p.Size
}

// ParseSort parses a "property[,asc|desc]" expression.
func ParseSort(expr string) (Sort, error) {
	parts := strings.Split(expr, ",")
	prop := strings.TrimSpace(parts[0])
	if prop == "" {
		return Sort{}, ErrInvalidSort
	}

	s := Sort{Property: prop}
	if len(parts) > 2 {
		return Sort{}, ErrInvalidSort
	}
	if len(parts) == 2 {
		switch strings.ToLower(strings.TrimSpace(parts[1])) {
		case "", "asc":
		case "desc":
			s.Descending = true
		default:
			return Sort{}, ErrInvalidSort
		}
	}
	return s, nil
}

// String renders the sort the way it is accepted on the query string.
func (s Sort) String() string {
	if s.Descending {
		return fmt.Sprintf("%s,desc", s.Property)
	}
	return fmt.Sprintf("%s,asc", s.Property)
}

// Page is one slice of a larger result set.
type Page[T any] struct {
	Content  []T
	Total    int64
	Pageable Pageable
}

// TotalPages returns the number of pages needed to hold Total items.
func (p *Page[T]) TotalPages() int {
	if p.Pageable.Size <= 0 {
		return 1
	}
	return int((p.Total + int64(p.Pageable.Size) - 1) / int64(p.Pageable.Size))
}

// HasNext reports whether a page follows this one.
func (p *Page[T]) HasNext() bool {
	return p.Pageable.Page+1 < p.TotalPages()
}

// HasPrevious reports whether a page precedes this one.
func (p *Page[T]) HasPrevious() bool {
	return p.Pageable.Page > 0
}

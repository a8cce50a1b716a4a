package services

import "strconv"

// PageSize is the fixed number of items per page across every listing.
const PageSize = 10

// Page is one bounded window over an ordered collection plus paging metadata.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Number     int  `json:"page"`
	TotalPages int  `json:"total_pages"`
	HasPrev    bool `json:"has_prev"`
	HasNext    bool `json:"has_next"`
}

// Paginate slices items into the requested page of PageSize entries.
//
// Page numbers are 1-based. A number below 1 serves page 1, a number beyond
// the last page serves the last page rather than an empty one. An empty
// collection yields an empty page numbered 1 with zero total pages.
func Paginate[T any](items []T, pageNumber int) Page[T] {
	total := (len(items) + PageSize - 1) / PageSize
	if total == 0 {
		return Page[T]{Items: nil, Number: 1, TotalPages: 0}
	}

	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageNumber > total {
		pageNumber = total
	}

	start := (pageNumber - 1) * PageSize
	end := start + PageSize
	if end > len(items) {
		end = len(items)
	}

	return Page[T]{
		Items:      items[start:end],
		Number:     pageNumber,
		TotalPages: total,
		HasPrev:    pageNumber > 1,
		HasNext:    pageNumber < total,
	}
}

// ParsePageNumber converts a raw query value to a page number, defaulting to 1.
func ParsePageNumber(raw string) int {
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return n
	}
	return 1
}

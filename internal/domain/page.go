package domain

import "errors"

// DefaultPageSize is used when a caller does not supply size.
const DefaultPageSize = 10

var (
	ErrNegativeFrom    = errors.New("from must not be negative")
	ErrNonPositiveSize = errors.New("size must be positive")
)

// Page selects a window of results by from (an element index) and size.
// The window starts at the page containing from, so from is rounded down to a multiple of size.
type Page struct {
	From int
	Size int
}

// NewPage validates from and size.
func NewPage(from, size int) (Page, error) {
	if from < 0 {
		return Page{}, ErrNegativeFrom
	}
	if size <= 0 {
		return Page{}, ErrNonPositiveSize
	}
	return Page{From: from, Size: size}, nil
}

// Limit is the page size.
func (p Page) Limit() int {
	return p.Size
}

// Offset is the index of the first element of the page.
func (p Page) Offset() int {
	if p.Size <= 0 {
		return 0
	}
	return (p.From / p.Size) * p.Size
}

// Window returns the bounds of the page over a slice of length n.
func (p Page) Window(n int) (start, end int) {
	start = p.Offset()
	if start > n {
		start = n
	}
	end = start + p.Limit()
	if end > n {
		end = n
	}
	return start, end
}

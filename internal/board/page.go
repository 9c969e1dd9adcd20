package board

import (
	"fmt"
	"strings"
)

// maxPageSize caps the size query parameter.
const maxPageSize = 100

// Direction is a sort direction.
type Direction string

const (
	// Asc sorts in ascending order.
	Asc Direction = "asc"
	// Desc sorts in descending order.
	Desc Direction = "desc"
)

// Order is one sort key.
type Order struct {
	// Property is the public property name, e.g. "createdAt".
	Property string
	// Direction is the sort direction for Property.
	Direction Direction
}

// PageRequest describes which page of a listing to return.
type PageRequest struct {
	// Page is the zero-based page number.
	Page int
	// Size is the number of items per page.
	Size int
	// Sort lists the sort keys in priority order.
	Sort []Order
}

// Offset returns the number of rows to skip.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// Page is one page of a listing.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// NewPage assembles a Page from a slice of rows and the total row count.
func NewPage[T any](content []T, req PageRequest, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		First:         req.Page == 0,
		Last:          req.Page >= totalPages-1,
	}
}

// ParseOrder parses a sort parameter of the form "property[,asc|desc]".
// The direction defaults to ascending.
func ParseOrder(raw string) (Order, error) {
	property, dir, _ := strings.Cut(raw, ",")
	property = strings.TrimSpace(property)
	if property == "" {
		return Order{}, fmt.Errorf("%w: empty sort property", ErrInvalidInput)
	}
	switch Direction(strings.ToLower(strings.TrimSpace(dir))) {
	case "", Asc:
		return Order{Property: property, Direction: Asc}, nil
	case Desc:
		return Order{Property: property, Direction: Desc}, nil
	default:
		return Order{}, fmt.Errorf("%w: unknown sort direction %q", ErrInvalidInput, dir)
	}
}

package pagination

import (
	"errors"
	"fmt"
	"strings"
)

// Sort orders and limits.
const (
	DefaultSortField = "name"
	SortOrderAsc     = "asc"
	SortOrderDesc    = "desc"
	MaxLimit         = 10000
)

// Validation errors.
var (
	ErrInvalidLimit      = fmt.Errorf("limit must be between 0 and %d", MaxLimit)
	ErrInvalidOffset     = errors.New("offset must be non-negative")
	ErrInvalidSortOrder  = errors.New("sort order must be 'asc' or 'desc'")
	ErrInvalidSortFormat = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'owner:desc')")
	ErrEmptySortField    = errors.New("sort field cannot be empty")
	ErrInvalidSortField  = errors.New("invalid sort field")
)

// Params holds the scan paging flags. A zero Limit prints every row.
type Params struct {
	Limit     int
	Offset    int
	SortField string
	SortOrder string
}

// NewParams returns params that sort by name and print everything.
func NewParams() Params {
	return Params{SortField: DefaultSortField, SortOrder: SortOrderAsc}
}

// Validate checks bounds and the sort field.
func (p Params) Validate() error {
	if p.Limit < 0 || p.Limit > MaxLimit {
		return fmt.Errorf("%w: got %d", ErrInvalidLimit, p.Limit)
	}
	if p.Offset < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidOffset, p.Offset)
	}
	if !IsValidField(p.SortField) {
		return fmt.Errorf("%w: %q (valid: %s)", ErrInvalidSortField, p.SortField,
			strings.Join(ValidFields(), ", "))
	}
	if p.SortOrder != SortOrderAsc && p.SortOrder != SortOrderDesc {
		return fmt.Errorf("%w: got %q", ErrInvalidSortOrder, p.SortOrder)
	}
	return nil
}

const sortPartsMax = 2

// ParseSort parses "field" or "field:order". An empty string selects the
// default field in ascending order.
//
//nolint:nonamedreturns // field and order read better named.
func ParseSort(sortStr string) (field, order string, err error) {
	if sortStr == "" {
		return DefaultSortField, SortOrderAsc, nil
	}

	parts := strings.Split(sortStr, ":")
	switch len(parts) {
	case 1:
		field = strings.TrimSpace(parts[0])
		order = SortOrderAsc
	case sortPartsMax:
		field = strings.TrimSpace(parts[0])
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	default:
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, sortStr)
	}

	if field == "" {
		return "", "", ErrEmptySortField
	}
	if order != SortOrderAsc && order != SortOrderDesc {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}
	return strings.ToLower(field), order, nil
}

package engine

import (
	"fmt"

	"github.com/google/uuid"
)

// StatusPlaceholder is shown in the status line before the first refresh
// after a region change.
const StatusPlaceholder = "Listed/Pending/Total"

// Row is one displayed search result.
type Row struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Owner       string    `json:"owner"`
	Group       string    `json:"group"`
}

// Key returns the identity used to keep a row selected across rebuilds.
func (r Row) Key() string {
	return r.ID.String()
}

// Column returns the text shown for a field.
func (r Row) Column(f Field) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldDescription:
		return r.Description
	case FieldOwner:
		return r.Owner
	case FieldGroup:
		return r.Group
	default:
		return ""
	}
}

// Status holds the counters shown under the result list.
type Status struct {
	Listed  int `json:"listed"`
	Pending int `json:"pending"`
	Total   int `json:"total"`
}

// String renders the status line, e.g. "3 listed/1 pending/12 total".
// Counts are printed without digit grouping.
func (s Status) String() string {
	return fmt.Sprintf("%d listed/%d pending/%d total", s.Listed, s.Pending, s.Total)
}

// Result is the outcome of one refresh pass.
type Result struct {
	Rows   []Row  `json:"rows"`
	Status Status `json:"status"`
}

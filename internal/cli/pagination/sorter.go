package pagination

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/rshade/areasearch/internal/engine"
)

var sortKeys = map[string]func(engine.Row) string{
	"name":        func(r engine.Row) string { return r.Name },
	"description": func(r engine.Row) string { return r.Description },
	"owner":       func(r engine.Row) string { return r.Owner },
	"group":       func(r engine.Row) string { return r.Group },
}

// IsValidField reports whether rows can be sorted by field.
func IsValidField(field string) bool {
	_, ok := sortKeys[field]
	return ok
}

// ValidFields lists the sortable fields in a stable order.
func ValidFields() []string {
	fields := make([]string, 0, len(sortKeys))
	for f := range sortKeys {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Apply returns a sorted copy of rows cut to the requested page. Ties are
// broken by object key so output is deterministic.
func (p Params) Apply(rows []engine.Row) []engine.Row {
	key, ok := sortKeys[p.SortField]
	if !ok {
		key = sortKeys[DefaultSortField]
	}

	sorted := make([]engine.Row, len(rows))
	copy(sorted, rows)

	col := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if p.SortOrder == SortOrderDesc {
			a, b = b, a
		}
		if c := col.CompareString(key(a), key(b)); c != 0 {
			return c < 0
		}
		return a.ID.String() < b.ID.String()
	})

	if p.Offset >= len(sorted) {
		return []engine.Row{}
	}
	end := len(sorted)
	if p.Limit > 0 && p.Offset+p.Limit < end {
		end = p.Offset + p.Limit
	}
	return sorted[p.Offset:end]
}

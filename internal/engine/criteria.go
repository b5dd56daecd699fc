package engine

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultFilterMinLength is the text length a filter must exceed to be active.
const DefaultFilterMinLength = 3

// Field identifies one of the four search filters.
type Field int

const (
	// FieldName filters on the object name.
	FieldName Field = iota
	// FieldDescription filters on the object description.
	FieldDescription
	// FieldOwner filters on the owner's resolved full name.
	FieldOwner
	// FieldGroup filters on the group's resolved name.
	FieldGroup

	numFields
)

// Fields lists every filter field in display order.
//
//nolint:gochecknoglobals // Fixed lookup table.
var Fields = [numFields]Field{FieldName, FieldDescription, FieldOwner, FieldGroup}

// String returns the column label for the field.
func (f Field) String() string {
	switch f {
	case FieldName:
		return "Name"
	case FieldDescription:
		return "Description"
	case FieldOwner:
		return "Owner"
	case FieldGroup:
		return "Group"
	default:
		return fmt.Sprintf("unknown(%d)", int(f))
	}
}

// Filter is one search box: its last text and whether it takes part in
// matching.
type Filter struct {
	Text   string
	Active bool
}

// Criteria holds the four search filters.
type Criteria struct {
	filters   [numFields]Filter
	minLength int
}

// NewCriteria creates empty criteria. Filters become active when their text
// is longer than minLength runes. A non-positive minLength selects
// DefaultFilterMinLength.
func NewCriteria(minLength int) Criteria {
	if minLength <= 0 {
		minLength = DefaultFilterMinLength
	}
	return Criteria{minLength: minLength}
}

// Set stores the text for a field and reports whether the filter is now
// active. Shorter text deactivates the filter but is still stored.
func (c *Criteria) Set(f Field, text string) bool {
	if f < 0 || f >= numFields {
		return false
	}
	active := utf8.RuneCountInString(text) > c.minLength
	c.filters[f] = Filter{Text: text, Active: active}
	return active
}

// Get returns the filter for a field.
func (c Criteria) Get(f Field) Filter {
	if f < 0 || f >= numFields {
		return Filter{}
	}
	return c.filters[f]
}

// Any reports whether at least one filter is active.
func (c Criteria) Any() bool {
	for _, f := range c.filters {
		if f.Active {
			return true
		}
	}
	return false
}

// Reset clears every filter.
func (c *Criteria) Reset() {
	c.filters = [numFields]Filter{}
}

// candidate is the text an object is matched against. An unresolved owner or
// group name has its have flag unset.
type candidate struct {
	name, description string
	owner, group      string
	haveOwner         bool
	haveGroup         bool
}

// match reports whether every active filter is a case-sensitive substring of
// the matching candidate field. An unresolved name never matches.
func (c Criteria) match(d candidate) bool {
	if f := c.filters[FieldName]; f.Active && !strings.Contains(d.name, f.Text) {
		return false
	}
	if f := c.filters[FieldDescription]; f.Active && !strings.Contains(d.description, f.Text) {
		return false
	}
	if f := c.filters[FieldOwner]; f.Active && (!d.haveOwner || !strings.Contains(d.owner, f.Text)) {
		return false
	}
	if f := c.filters[FieldGroup]; f.Active && (!d.haveGroup || !strings.Contains(d.group, f.Text)) {
		return false
	}
	return true
}

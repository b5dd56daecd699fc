package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCriteria_Set(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantActive bool
	}{
		{name: "empty", text: "", wantActive: false},
		{name: "at threshold", text: "box", wantActive: false},
		{name: "past threshold", text: "boxy", wantActive: true},
		{name: "multibyte counts runes", text: "äöü", wantActive: false},
		{name: "multibyte past threshold", text: "äöüß", wantActive: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCriteria(DefaultFilterMinLength)
			assert.Equal(t, tt.wantActive, c.Set(FieldName, tt.text))
			assert.Equal(t, Filter{Text: tt.text, Active: tt.wantActive}, c.Get(FieldName))
		})
	}
}

func TestCriteria_ToggleKeepsText(t *testing.T) {
	c := NewCriteria(0)

	assert.True(t, c.Set(FieldOwner, "Jane"))
	assert.True(t, c.Any())
	assert.False(t, c.Set(FieldOwner, "Jan"))
	assert.False(t, c.Any())
	assert.Equal(t, "Jan", c.Get(FieldOwner).Text)

	c.Reset()
	assert.Equal(t, Filter{}, c.Get(FieldOwner))
	assert.False(t, c.Set(Field(42), "whatever"))
	assert.Equal(t, Filter{}, c.Get(Field(42)))
}

func TestCriteria_Match(t *testing.T) {
	d := candidate{
		name:        "Alpha Box",
		description: "a plain cube",
		owner:       "Jane Resident",
		group:       "Builders",
		haveOwner:   true,
		haveGroup:   true,
	}

	tests := []struct {
		name    string
		filters map[Field]string
		cand    candidate
		want    bool
	}{
		{name: "no filters", want: true, cand: d},
		{name: "case-sensitive miss", filters: map[Field]string{FieldName: "alph"}, cand: d, want: false},
		{name: "exact substring", filters: map[Field]string{FieldName: "Alpha"}, cand: d, want: true},
		{name: "inactive filter ignored", filters: map[Field]string{FieldName: "zz"}, cand: d, want: true},
		{
			name:    "all match",
			filters: map[Field]string{FieldName: "Box", FieldDescription: "plain", FieldOwner: "Resident", FieldGroup: "Build"},
			cand:    d,
			want:    true,
		},
		{
			name:    "one field fails",
			filters: map[Field]string{FieldDescription: "plain", FieldGroup: "Sailors"},
			cand:    d,
			want:    false,
		},
		{
			name:    "unresolved owner",
			filters: map[Field]string{FieldOwner: "Jane"},
			cand:    candidate{name: "Alpha Box", owner: "Jane Resident"},
			want:    false,
		},
		{
			name:    "unresolved group",
			filters: map[Field]string{FieldGroup: "Build"},
			cand:    candidate{name: "Alpha Box", group: "Builders", haveOwner: true},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCriteria(DefaultFilterMinLength)
			for f, text := range tt.filters {
				c.Set(f, text)
			}
			assert.Equal(t, tt.want, c.match(tt.cand))
		})
	}
}

func TestField_String(t *testing.T) {
	assert.Equal(t, "Name", FieldName.String())
	assert.Equal(t, "Description", FieldDescription.String())
	assert.Equal(t, "Owner", FieldOwner.String())
	assert.Equal(t, "Group", FieldGroup.String())
	assert.Equal(t, "unknown(9)", Field(9).String())
}

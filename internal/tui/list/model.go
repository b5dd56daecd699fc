package listview

import (
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// columnGap separates rendered cells.
const columnGap = " "

// Column describes one rendered and sortable column.
type Column[T any] struct {
	Title string
	Width int
	Value func(T) string
}

// KeyFunc identifies an item across SetItems calls.
type KeyFunc[T any] func(T) string

// Styles used by View. The zero value renders unstyled text.
type Styles struct {
	Header   lipgloss.Style
	Row      lipgloss.Style
	Selected lipgloss.Style
}

// Model is a keyed list with a viewport, a selection and a sort column.
type Model[T any] struct {
	columns []Column[T]
	key     KeyFunc[T]
	items   []T

	// selected is the index of the selected item, or -1.
	selected int

	// offset is the first visible item index.
	offset int

	// height is the viewport height in rows, excluding the header.
	// 0 shows every row.
	height int

	sortCol  int
	collator *collate.Collator
	styles   Styles
}

// New creates an empty list sorted by its first column.
func New[T any](columns []Column[T], key KeyFunc[T], height int) *Model[T] {
	return &Model[T]{
		columns:  columns,
		key:      key,
		selected: -1,
		height:   max(height, 0),
		collator: collate.New(language.English, collate.IgnoreCase),
	}
}

// SetStyles replaces the render styles.
func (m *Model[T]) SetStyles(s Styles) { m.styles = s }

// Init implements tea.Model.
func (m *Model[T]) Init() tea.Cmd { return nil }

// Update handles navigation keys and resizes.
func (m *Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.HandleKey(msg)
	case tea.WindowSizeMsg:
		m.SetHeight(msg.Height)
	}
	return m, nil
}

// HandleKey applies a navigation key and reports whether it was one.
//
//nolint:exhaustive // Only navigation keys are handled.
func (m *Model[T]) HandleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyUp:
		m.move(-1)
	case tea.KeyDown:
		m.move(1)
	case tea.KeyPgUp:
		m.move(-m.page())
	case tea.KeyPgDown:
		m.move(m.page())
	case tea.KeyHome:
		m.SetSelected(0)
	case tea.KeyEnd:
		m.SetSelected(len(m.items) - 1)
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return false
		}
		switch msg.Runes[0] {
		case 'j':
			m.move(1)
		case 'k':
			m.move(-1)
		default:
			return false
		}
	default:
		return false
	}
	return true
}

func (m *Model[T]) page() int {
	if m.height == 0 {
		return len(m.items)
	}
	return m.height
}

func (m *Model[T]) move(delta int) {
	if len(m.items) == 0 {
		return
	}
	if m.selected < 0 {
		m.SetSelected(0)
		return
	}
	m.SetSelected(m.selected + delta)
}

// SetItems replaces the items. The list re-sorts by its current column,
// keeps the previously selected key selected when it is still present and
// keeps the scroll offset when it is still in range.
func (m *Model[T]) SetItems(items []T) {
	selectedKey, hadSelection := m.SelectedKey()

	m.items = append(m.items[:0:0], items...)
	m.sort()

	m.selected = -1
	if hadSelection {
		m.SelectKey(selectedKey)
	}
	m.clampOffset()
}

// Clear removes every item and the selection.
func (m *Model[T]) Clear() {
	m.items = nil
	m.selected = -1
	m.offset = 0
}

// Len returns the number of items.
func (m *Model[T]) Len() int { return len(m.items) }

// Items returns the items in display order.
func (m *Model[T]) Items() []T { return m.items }

// Selected returns the selected item.
func (m *Model[T]) Selected() (T, bool) {
	if m.selected < 0 || m.selected >= len(m.items) {
		var zero T
		return zero, false
	}
	return m.items[m.selected], true
}

// SelectedKey returns the key of the selected item.
func (m *Model[T]) SelectedKey() (string, bool) {
	item, ok := m.Selected()
	if !ok {
		return "", false
	}
	return m.key(item), true
}

// SelectKey selects the item with key k and reports whether it exists.
func (m *Model[T]) SelectKey(k string) bool {
	for i, item := range m.items {
		if m.key(item) == k {
			m.selected = i
			m.ensureVisible()
			return true
		}
	}
	return false
}

// SetSelected selects the item at index, clamped to the valid range.
func (m *Model[T]) SetSelected(index int) {
	if len(m.items) == 0 {
		m.selected = -1
		return
	}
	m.selected = min(max(index, 0), len(m.items)-1)
	m.ensureVisible()
}

// ScrollPos returns the first visible item index.
func (m *Model[T]) ScrollPos() int { return m.offset }

// SetScrollPos scrolls so that item pos is the first visible row.
func (m *Model[T]) SetScrollPos(pos int) {
	m.offset = pos
	m.clampOffset()
}

// SetHeight changes the viewport height.
func (m *Model[T]) SetHeight(h int) {
	m.height = max(h, 0)
	m.clampOffset()
	m.ensureVisible()
}

func (m *Model[T]) clampOffset() {
	limit := len(m.items) - m.page()
	m.offset = min(m.offset, max(limit, 0))
	m.offset = max(m.offset, 0)
}

func (m *Model[T]) ensureVisible() {
	if m.selected < 0 || m.height == 0 {
		return
	}
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+m.height {
		m.offset = m.selected - m.height + 1
	}
}

// SortColumn returns the index of the sort column.
func (m *Model[T]) SortColumn() int { return m.sortCol }

// SortBy sorts ascending by column col, keeping the selection.
func (m *Model[T]) SortBy(col int) {
	if col < 0 || col >= len(m.columns) {
		return
	}
	m.sortCol = col
	selectedKey, ok := m.SelectedKey()
	m.sort()
	if ok {
		m.SelectKey(selectedKey)
	}
}

// CycleSort moves the sort to the next column and returns its index.
func (m *Model[T]) CycleSort() int {
	if len(m.columns) > 0 {
		m.SortBy((m.sortCol + 1) % len(m.columns))
	}
	return m.sortCol
}

func (m *Model[T]) sort() {
	if len(m.columns) == 0 {
		return
	}
	value := m.columns[m.sortCol].Value
	sort.SliceStable(m.items, func(i, j int) bool {
		a, b := m.items[i], m.items[j]
		if c := m.collator.CompareString(value(a), value(b)); c != 0 {
			return c < 0
		}
		return m.key(a) < m.key(b)
	})
}

// View renders the header and the visible rows.
func (m *Model[T]) View() string {
	lines := make([]string, 0, m.page()+1)

	headers := make([]string, len(m.columns))
	for i, c := range m.columns {
		title := c.Title
		if i == m.sortCol {
			title += " ▲"
		}
		headers[i] = cell(title, c.Width)
	}
	lines = append(lines, m.styles.Header.Render(strings.Join(headers, columnGap)))

	end := min(m.offset+m.page(), len(m.items))
	for i := m.offset; i < end; i++ {
		cells := make([]string, len(m.columns))
		for j, c := range m.columns {
			cells[j] = cell(c.Value(m.items[i]), c.Width)
		}
		row := strings.Join(cells, columnGap)
		if i == m.selected {
			row = m.styles.Selected.Render(row)
		} else {
			row = m.styles.Row.Render(row)
		}
		lines = append(lines, row)
	}
	return strings.Join(lines, "\n")
}

// cell pads or truncates s to width terminal cells. A width of 0 leaves s
// as is.
func cell(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.FillRight(runewidth.Truncate(s, width, ""), width)
}

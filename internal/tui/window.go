package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rshade/areasearch/internal/engine"
	"github.com/rshade/areasearch/internal/scene"
	listview "github.com/rshade/areasearch/internal/tui/list"
)

const (
	labelWidth       = 13
	filterCharLimit  = 64
	defaultListRows  = 10
	nameColumnWidth  = 24
	descColumnWidth  = 28
	ownerColumnWidth = 18
	groupColumnWidth = 16
)

// Window is one area search panel: four filter inputs, the result list and
// the status line, backed by its own engine.Session.
type Window struct {
	session *engine.Session
	keys    keyMap
	logger  zerolog.Logger

	inputs [len(engine.Fields)]textinput.Model
	focus  int
	list   *listview.Model[engine.Row]
	status string

	visible bool
}

// newWindow builds a visible window around a fresh session.
func newWindow(session *engine.Session, listRows int, logger zerolog.Logger) *Window {
	if listRows <= 0 {
		listRows = defaultListRows
	}

	w := &Window{
		session: session,
		keys:    defaultKeyMap(),
		logger:  logger,
		list:    listview.New(resultColumns(), engine.Row.Key, listRows),
		status:  engine.StatusPlaceholder,
		visible: true,
	}
	w.list.SetStyles(listview.Styles{Header: TableHeaderStyle, Selected: TableSelectedStyle})

	for i, f := range engine.Fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = f.String()
		ti.CharLimit = filterCharLimit
		ti.SetValue(session.Filter(f).Text)
		w.inputs[i] = ti
	}
	w.inputs[0].Focus()
	return w
}

func resultColumns() []listview.Column[engine.Row] {
	widths := [len(engine.Fields)]int{nameColumnWidth, descColumnWidth, ownerColumnWidth, groupColumnWidth}
	cols := make([]listview.Column[engine.Row], 0, len(engine.Fields))
	for i, f := range engine.Fields {
		cols = append(cols, listview.Column[engine.Row]{
			Title: f.String(),
			Width: widths[i],
			Value: func(r engine.Row) string { return r.Column(f) },
		})
	}
	return cols
}

// Visible reports whether the window is shown.
func (w *Window) Visible() bool { return w.visible }

// Status returns the status line.
func (w *Window) Status() string { return w.status }

// Rows returns the displayed rows in display order.
func (w *Window) Rows() []engine.Row { return w.list.Items() }

// Session returns the window's search session.
func (w *Window) Session() *engine.Session { return w.session }

// CheckRegion clears the displayed rows when the agent changed region.
func (w *Window) CheckRegion() bool {
	if !w.session.CheckRegion() {
		return false
	}
	w.list.Clear()
	w.status = engine.StatusPlaceholder
	return true
}

// Refresh rebuilds the rows. It does nothing while the window is hidden or
// while the session throttles.
func (w *Window) Refresh(ctx context.Context) {
	if !w.visible {
		return
	}
	res, ran := w.session.Refresh(ctx)
	if !ran {
		return
	}
	w.list.SetItems(res.Rows)
	w.status = res.Status.String()
}

// Search runs a region check followed by a refresh.
func (w *Window) Search(ctx context.Context) {
	w.CheckRegion()
	w.Refresh(ctx)
}

// HandleEvent applies a host event to the session and refreshes.
func (w *Window) HandleEvent(ctx context.Context, ev scene.Event) {
	if w.session.Dispatch(ctx, ev) {
		w.list.Clear()
		w.status = engine.StatusPlaceholder
	}
	w.Refresh(ctx)
}

// Track follows the selected row in the host tracker.
func (w *Window) Track() bool {
	row, ok := w.list.Selected()
	if !ok {
		return false
	}
	return w.trackID(row.ID)
}

func (w *Window) trackID(id uuid.UUID) bool {
	if !w.session.Track(id) {
		w.logger.Debug().Stringer("object_id", id).Msg("selected object is gone")
		return false
	}
	return true
}

// Reset clears every filter input and the session criteria.
func (w *Window) Reset() {
	w.session.ResetCriteria()
	for i := range w.inputs {
		w.inputs[i].SetValue("")
	}
}

// SetListHeight resizes the result list viewport.
func (w *Window) SetListHeight(rows int) {
	w.list.SetHeight(max(rows, 1))
}

// HandleKey processes a key press for the focused window.
func (w *Window) HandleKey(ctx context.Context, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, w.keys.Refresh):
		w.Search(ctx)
		return nil
	case key.Matches(msg, w.keys.Track):
		w.Track()
		return nil
	case key.Matches(msg, w.keys.Sort):
		w.list.CycleSort()
		return nil
	case key.Matches(msg, w.keys.NextField):
		return w.setFocus(w.focus + 1)
	case key.Matches(msg, w.keys.PrevField):
		return w.setFocus(w.focus - 1)
	}

	// Letters belong to the inputs; only non-rune keys navigate the list.
	if msg.Type != tea.KeyRunes && w.list.HandleKey(msg) {
		return nil
	}

	return w.typeInto(ctx, msg)
}

func (w *Window) setFocus(i int) tea.Cmd {
	n := len(w.inputs)
	w.inputs[w.focus].Blur()
	w.focus = ((i % n) + n) % n
	return w.inputs[w.focus].Focus()
}

// typeInto forwards a key to the focused input and runs the keystroke
// handling when its text changed.
func (w *Window) typeInto(ctx context.Context, msg tea.KeyMsg) tea.Cmd {
	before := w.inputs[w.focus].Value()

	var cmd tea.Cmd
	w.inputs[w.focus], cmd = w.inputs[w.focus].Update(msg)

	if text := w.inputs[w.focus].Value(); text != before {
		w.Keystroke(ctx, engine.Fields[w.focus], text)
	}
	return cmd
}

// Keystroke stores filter text and searches when the filter is active.
func (w *Window) Keystroke(ctx context.Context, f engine.Field, text string) {
	if w.session.SetFilter(f, text) {
		w.Search(ctx)
	}
}

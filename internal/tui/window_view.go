package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/areasearch/internal/engine"
)

// View renders the window.
func (w *Window) View(width int) string {
	var sections []string

	sections = append(sections, HeaderStyle.Render(fmt.Sprintf("Area Search  region %s", w.session.Region())))
	sections = append(sections, w.renderInputs())
	sections = append(sections, w.list.View())
	sections = append(sections, SubtleStyle.Render(w.status))
	sections = append(sections, SubtleStyle.Render(helpLine(
		w.keys.Refresh, w.keys.Stop, w.keys.Track, w.keys.Sort, w.keys.NextField, w.keys.Hide,
	)))

	box := BoxStyle
	if width > 0 {
		box = box.Width(width - BoxStyle.GetHorizontalFrameSize())
	}
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (w *Window) renderInputs() string {
	lines := make([]string, 0, len(w.inputs))
	for i, f := range engine.Fields {
		label := LabelStyle
		if i == w.focus {
			label = FocusedLabelStyle
		}
		line := label.Render(f.String()+":") + w.inputs[i].View()
		if w.session.Filter(f).Active {
			line += SubtleStyle.Render("  (active)")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

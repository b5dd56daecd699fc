package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
const (
	colorAccent  = lipgloss.Color("39")
	colorSubtle  = lipgloss.Color("241")
	colorWarning = lipgloss.Color("214")
	colorSelBg   = lipgloss.Color("57")
	colorText    = lipgloss.Color("252")
)

//nolint:gochecknoglobals // Shared lipgloss styles.
var (
	// HeaderStyle renders the panel title.
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	// LabelStyle renders input labels.
	LabelStyle = lipgloss.NewStyle().Foreground(colorSubtle).Width(labelWidth)

	// FocusedLabelStyle renders the label of the focused input.
	FocusedLabelStyle = LabelStyle.Foreground(colorAccent).Bold(true)

	// SubtleStyle renders help and the status line.
	SubtleStyle = lipgloss.NewStyle().Foreground(colorSubtle)

	// WarningStyle renders errors.
	WarningStyle = lipgloss.NewStyle().Foreground(colorWarning)

	// BoxStyle frames the panel.
	BoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent).Padding(0, 1)

	// TableHeaderStyle renders the result list header.
	TableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorText).Underline(true)

	// TableSelectedStyle renders the selected result row.
	TableSelectedStyle = lipgloss.NewStyle().Foreground(colorText).Background(colorSelBg)
)

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// keyMap holds the shell and window bindings.
type keyMap struct {
	Toggle    key.Binding
	Teleport  key.Binding
	Quit      key.Binding
	Refresh   key.Binding
	Stop      key.Binding
	Hide      key.Binding
	Track     key.Binding
	Sort      key.Binding
	NextField key.Binding
	PrevField key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle:    key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "toggle search")),
		Teleport:  key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "teleport")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Refresh:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
		Stop:      key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "stop")),
		Hide:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "hide")),
		Track:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "track")),
		Sort:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "sort")),
		NextField: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab")),
	}
}

// helpLine renders the short help for the given bindings.
func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, "  ")
}

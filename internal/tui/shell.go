// Package tui is the interactive area search panel: a Bubble Tea shell that
// owns an optional search Window and feeds it host events.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/rshade/areasearch/internal/engine"
	"github.com/rshade/areasearch/internal/logging"
	"github.com/rshade/areasearch/internal/scene"
)

// windowChrome is the number of terminal rows the window uses besides the
// result list.
const windowChrome = 13

// Host is everything the shell needs from the viewer.
type Host struct {
	engine.Deps

	// Events delivers property and name responses.
	Events <-chan scene.Event

	// Teleport moves the agent to another region. Optional.
	Teleport func() scene.RegionHandle
}

// Options configure a Shell.
type Options struct {
	// Session is used for every window's session. Its Metrics value is
	// shared between them.
	Session engine.Options

	// AutoRefresh is the periodic refresh interval. 0 disables it.
	AutoRefresh time.Duration

	// ListRows is the initial result list height.
	ListRows int

	// Open builds and shows the window on start.
	Open bool
}

// hostEventMsg carries one host event into the update loop.
type hostEventMsg struct{ event scene.Event }

// hostClosedMsg reports that the host event channel closed.
type hostClosedMsg struct{}

// autoRefreshMsg is the periodic refresh tick.
type autoRefreshMsg time.Time

// Shell is the Bubble Tea model standing in for the viewer application. It
// owns at most one search Window.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type Shell struct {
	ctx    context.Context
	host   Host
	opts   Options
	keys   keyMap
	logger zerolog.Logger

	window *Window
	height int
	width  int
	err    error

	quitting bool
}

// NewShell creates the shell. When opts.Open is set the window is built
// immediately.
func NewShell(ctx context.Context, host Host, opts Options) (Shell, error) {
	if opts.Session.Metrics == nil {
		opts.Session.Metrics = engine.NewMetrics(nil)
	}
	logger := logging.ComponentLogger(*logging.FromContext(ctx), "tui")

	s := Shell{
		ctx:    ctx,
		host:   host,
		opts:   opts,
		keys:   defaultKeyMap(),
		logger: logger,
	}
	if opts.Open {
		if err := s.Toggle(); err != nil {
			return Shell{}, err
		}
	}
	return s, nil
}

// Window returns the current window, or nil.
func (s Shell) Window() *Window { return s.window }

// Toggle builds the window when there is none, hides it when visible and
// shows it after a region check when hidden.
func (s *Shell) Toggle() error {
	switch {
	case s.window == nil:
		session, err := engine.NewSession(s.host.Deps, s.opts.Session)
		if err != nil {
			return fmt.Errorf("creating search session: %w", err)
		}
		s.window = newWindow(session, s.listRows(), s.logger)
		s.logger.Debug().Msg("search window created")
	case s.window.visible:
		s.window.visible = false
	default:
		s.window.CheckRegion()
		s.window.visible = true
	}
	return nil
}

// Close hides the window, or destroys it with its session when the
// application is closing.
func (s *Shell) Close(appClosing bool) {
	if s.window == nil {
		return
	}
	if appClosing {
		s.window = nil
		s.logger.Debug().Msg("search window destroyed")
		return
	}
	s.window.visible = false
}

// Stop runs a region check, destroys the window and clears the search
// criteria.
func (s *Shell) Stop() {
	if s.window == nil {
		return
	}
	s.window.CheckRegion()
	s.window.Reset()
	s.Close(true)
}

func (s *Shell) listRows() int {
	if s.height > windowChrome {
		return s.height - windowChrome
	}
	return s.opts.ListRows
}

// Init starts the event pump and the auto-refresh tick.
func (s Shell) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, s.waitForEvent(), s.tick())
}

func (s Shell) waitForEvent() tea.Cmd {
	events := s.host.Events
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return hostClosedMsg{}
		}
		return hostEventMsg{event: ev}
	}
}

func (s Shell) tick() tea.Cmd {
	if s.opts.AutoRefresh <= 0 {
		return nil
	}
	return tea.Tick(s.opts.AutoRefresh, func(t time.Time) tea.Msg { return autoRefreshMsg(t) })
}

// Update handles messages (Bubble Tea interface).
func (s Shell) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		if s.window != nil {
			s.window.SetListHeight(s.listRows())
		}
		return s, nil
	case hostEventMsg:
		if s.window != nil {
			s.window.HandleEvent(s.ctx, msg.event)
		}
		return s, s.waitForEvent()
	case hostClosedMsg:
		s.logger.Warn().Msg("host event channel closed")
		return s, nil
	case autoRefreshMsg:
		if s.window != nil {
			s.window.Search(s.ctx)
		}
		return s, s.tick()
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s Shell) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, s.keys.Quit):
		s.Close(true)
		s.quitting = true
		return s, tea.Quit
	case key.Matches(msg, s.keys.Toggle):
		s.err = s.Toggle()
		if s.err != nil {
			s.logger.Error().Err(s.err).Msg("toggle failed")
		}
		return s, nil
	case key.Matches(msg, s.keys.Teleport):
		if s.host.Teleport == nil {
			return s, nil
		}
		to := s.host.Teleport()
		s.logger.Info().Stringer("region", to).Msg("agent teleported")
		if s.window != nil {
			s.window.Search(s.ctx)
		}
		return s, nil
	}

	if s.window == nil || !s.window.visible {
		return s, nil
	}

	switch {
	case key.Matches(msg, s.keys.Stop):
		s.Stop()
		return s, nil
	case key.Matches(msg, s.keys.Hide):
		s.Close(false)
		return s, nil
	}
	return s, s.window.HandleKey(s.ctx, msg)
}

// View renders the shell (Bubble Tea interface).
func (s Shell) View() string {
	if s.quitting {
		return ""
	}
	if s.window != nil && s.window.visible {
		return s.window.View(s.width)
	}

	out := HeaderStyle.Render("areasearch") + "\n"
	if s.err != nil {
		out += WarningStyle.Render("Error: "+s.err.Error()) + "\n"
	}
	if s.host.Agent != nil {
		out += SubtleStyle.Render(fmt.Sprintf("region %s  ", s.host.Agent.Region()))
	}
	return out + SubtleStyle.Render(helpLine(s.keys.Toggle, s.keys.Teleport, s.keys.Quit))
}

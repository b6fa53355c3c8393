// Package tui renders a playback session in the terminal and turns key,
// mouse and focus input into session events.
package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gigurra/midnight/cmd/play/session"
)

// Display implements session.Display. Render never blocks the session loop:
// it keeps the latest View and wakes the TUI, which picks it up on its own
// goroutine. Views rendered in between are coalesced.
type Display struct {
	mu     sync.Mutex
	latest session.View
	wake   chan struct{}
}

func NewDisplay() *Display {
	return &Display{wake: make(chan struct{}, 1)}
}

func (d *Display) Render(v session.View) {
	d.mu.Lock()
	d.latest = v
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Latest returns the most recently rendered View.
func (d *Display) Latest() session.View {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.latest
}

type viewMsg struct {
	view session.View
}

// wait blocks until the next Render and delivers its View.
func (d *Display) wait() tea.Cmd {
	return func() tea.Msg {
		<-d.wake
		return viewMsg{view: d.Latest()}
	}
}

// Package tui owns the terminal screen for the annotation view: lifecycle,
// event polling and token-row drawing.
package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/redmarkhq/redmark/internal/theme"
)

// TUI wraps the tcell screen behind the handful of calls the app loop needs.
type TUI struct {
	screen tcell.Screen
}

// New opens the terminal screen and paints it with the active theme's
// default style.
func New() (*TUI, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("screen creation failed: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("screen init failed: %w", err)
	}
	s.SetStyle(theme.GetCurrentTheme().GetStyle("Default"))
	return &TUI{screen: s}, nil
}

// Close restores the terminal. Safe to call on a partially built TUI.
func (t *TUI) Close() {
	if t.screen != nil {
		t.screen.Fini()
	}
}

// PollEvent blocks until the next terminal event.
func (t *TUI) PollEvent() tcell.Event {
	return t.screen.PollEvent()
}

// Clear erases the pending screen contents.
func (t *TUI) Clear() {
	t.screen.Clear()
}

// Show flushes pending cells to the terminal.
func (t *TUI) Show() {
	t.screen.Show()
}

// Size reports the terminal dimensions in cells.
func (t *TUI) Size() (int, int) {
	return t.screen.Size()
}

// Screen exposes the underlying tcell screen for callers that draw cells
// themselves, like the status bar.
func (t *TUI) Screen() tcell.Screen {
	return t.screen
}

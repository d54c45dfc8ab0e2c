// internal/statusbar/statusbar.go
package statusbar

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg" // For proper Unicode width calculation
)

// Config defines the appearance and behavior of the status bar.
type Config struct {
	StyleDefault   tcell.Style // Default background/foreground
	StyleMessage   tcell.Style // Style for temporary messages
	StylePrompt    tcell.Style // Style for inline prompt input
	MessageTimeout time.Duration
}

// DefaultConfig provides sensible defaults.
func DefaultConfig() Config {
	return Config{
		StyleDefault:   tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorBlue),
		StyleMessage:   tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlue).Bold(true),
		StylePrompt:    tcell.StyleDefault.Foreground(tcell.ColorGreen).Background(tcell.ColorBlue).Bold(true),
		MessageTimeout: 4 * time.Second,
	}
}

// StatusBar represents the UI component for the status line.
type StatusBar struct {
	config Config
	mu     sync.RWMutex // Protect access to text fields

	// Content fields (updated externally)
	filePath  string
	selection string
	edits     int
	dirty     bool

	// Temporary message state
	tempMessage     string
	tempMessageTime time.Time

	// Prompt state; when active the whole bar shows the prompt line
	promptPrefix string
	promptInput  string
	promptActive bool
}

// New creates a new StatusBar with the given configuration.
func New(config Config) *StatusBar {
	return &StatusBar{
		config: config,
	}
}

// SetFileInfo updates the file path shown in the status bar.
func (sb *StatusBar) SetFileInfo(path string, dirty bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.filePath = path
	sb.dirty = dirty
}

// SetSelectionInfo updates the selection summary shown.
func (sb *StatusBar) SetSelectionInfo(text string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.selection = text
}

// SetEditCount updates the displayed number of annotations.
func (sb *StatusBar) SetEditCount(n int) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.edits = n
}

// SetTemporaryMessage displays a message for a configured duration.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...interface{}) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = fmt.Sprintf(format, args...)
	sb.tempMessageTime = time.Now()
}

// ResetTemporaryMessage clears any temporary message being displayed
func (sb *StatusBar) ResetTemporaryMessage() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = ""
	sb.tempMessageTime = time.Time{}
}

// SetPrompt shows an inline prompt. The bar renders prefix plus input
// until ClearPrompt.
func (sb *StatusBar) SetPrompt(prefix, input string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.promptPrefix = prefix
	sb.promptInput = input
	sb.promptActive = true
}

// ClearPrompt ends prompt display.
func (sb *StatusBar) ClearPrompt() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.promptActive = false
	sb.promptPrefix = ""
	sb.promptInput = ""
}

// getDefaultDisplayText builds the default status line text.
func (sb *StatusBar) getDefaultDisplayText() string {
	fPath := sb.filePath
	if fPath == "" {
		fPath = "[No Name]"
	}
	dirtyIndicator := ""
	if sb.dirty {
		dirtyIndicator = " [Modified]"
	}

	selIndicator := ""
	if sb.selection != "" {
		selIndicator = fmt.Sprintf(" -- %s", sb.selection)
	}

	return fmt.Sprintf("%s%s -- Edits: %d%s", fPath, dirtyIndicator, sb.edits, selIndicator)
}

// Draw renders the status bar onto the screen using visual widths.
func (sb *StatusBar) Draw(screen tcell.Screen, width, height int) {
	if height <= 0 || width <= 0 {
		return
	}
	y := height - 1 // Status bar is always the last line

	sb.mu.Lock()
	// Clear expired temporary message *before* getting display text
	isTempMsgActive := !sb.tempMessageTime.IsZero() && time.Since(sb.tempMessageTime) <= sb.config.MessageTimeout
	if !sb.tempMessageTime.IsZero() && !isTempMsgActive {
		sb.tempMessage = ""
		sb.tempMessageTime = time.Time{}
	}

	var style tcell.Style
	var text string

	switch {
	case sb.promptActive:
		text = sb.promptPrefix + sb.promptInput
		style = sb.config.StylePrompt
	case isTempMsgActive:
		text = sb.tempMessage
		style = sb.config.StyleMessage
	default:
		text = sb.getDefaultDisplayText()
		style = sb.config.StyleDefault
	}

	sb.mu.Unlock()

	// Fill background first
	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}

	// Draw text using uniseg for width calculation
	gr := uniseg.NewGraphemes(text)
	currentX := 0
	for gr.Next() {
		clusterWidth := gr.Width()
		if currentX+clusterWidth > width {
			break // Stop if cluster doesn't fit
		}

		runes := gr.Runes()
		if len(runes) > 0 {
			mainRune := runes[0]
			var combiningRunes []rune
			if len(runes) > 1 {
				combiningRunes = runes[1:]
			}
			screen.SetContent(currentX, y, mainRune, combiningRunes, style)
		}

		currentX += clusterWidth
	}
}

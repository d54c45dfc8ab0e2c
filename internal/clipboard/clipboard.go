// Package clipboard hands export reports to the system clipboard, falling
// back to an internal register when the system clipboard is disabled or
// unavailable.
package clipboard

import (
	"sync"

	"github.com/atotto/clipboard"

	"github.com/redmarkhq/redmark/internal/logger"
)

// Manager wraps the system clipboard behind an internal register so reads
// keep working on headless systems.
type Manager struct {
	mu       sync.Mutex
	system   bool
	register string
}

// NewManager creates a clipboard manager. When system is true, writes go
// to the OS clipboard as well as the internal register.
func NewManager(system bool) *Manager {
	return &Manager{system: system}
}

// Write stores text in the register and, when enabled, the system
// clipboard. A system clipboard failure is logged and the write still
// succeeds against the register.
func (m *Manager) Write(text string) error {
	m.mu.Lock()
	m.register = text
	system := m.system
	m.mu.Unlock()

	if !system {
		return nil
	}
	if err := clipboard.WriteAll(text); err != nil {
		logger.Warnf("Clipboard: system write failed, kept internal copy: %v", err)
		return nil
	}
	logger.Debugf("Clipboard: wrote %d bytes to system clipboard", len(text))
	return nil
}

// Read returns the system clipboard contents when enabled, otherwise the
// internal register.
func (m *Manager) Read() (string, error) {
	m.mu.Lock()
	system := m.system
	register := m.register
	m.mu.Unlock()

	if system {
		text, err := clipboard.ReadAll()
		if err == nil {
			return text, nil
		}
		logger.Warnf("Clipboard: system read failed, using internal copy: %v", err)
	}
	return register, nil
}

// Package history provides the undo/redo stacks over editor states.
package history

import (
	"sync"

	"github.com/redmarkhq/redmark/internal/engine"
	"github.com/redmarkhq/redmark/internal/logger"
)

const DefaultMaxHistory = 100

// Action is one editing transition. It receives the normalized present
// state and reports whether it changed anything; unchanged states are
// never pushed onto history.
type Action func(engine.PresentState) (engine.PresentState, bool)

// Manager holds the past/present/future snapshot stacks. Every committed
// action normalizes the incoming present, applies, normalizes the result
// and pushes the prior present onto the past; transient actions mutate the
// present in place so abandoned insertions never appear in undo history.
type Manager struct {
	mu         sync.Mutex
	eng        *engine.Engine
	past       []engine.PresentState
	present    engine.PresentState
	future     []engine.PresentState
	maxHistory int
}

// NewManager creates a history manager seeded with the initial state.
func NewManager(eng *engine.Engine, initial engine.PresentState, maxHistory int) *Manager {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	return &Manager{
		eng:        eng,
		present:    eng.Normalize(initial),
		maxHistory: maxHistory,
	}
}

// Present returns the current state. Callers must treat it as read-only;
// transitions go through Commit and Transient.
func (m *Manager) Present() engine.PresentState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.present
}

// Commit runs a committed action: normalize, apply, normalize again, push
// the prior present onto the past and clear the future. Returns false (and
// leaves everything untouched) when the action reports no change.
func (m *Manager) Commit(name string, action Action) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	normalized := m.eng.Normalize(m.present)
	next, changed := action(normalized)
	if !changed {
		logger.DebugTagf("history", "action %s: no change", name)
		return false
	}
	next = m.eng.Normalize(next)

	m.past = append(m.past, m.present)
	if len(m.past) > m.maxHistory {
		m.past = m.past[len(m.past)-m.maxHistory:]
	}
	m.present = next
	m.future = nil

	logger.DebugTagf("history", "committed %s (past=%d)", name, len(m.past))
	return true
}

// Transient runs an action that must not appear in undo history, such as
// beginning or canceling an insertion.
func (m *Manager) Transient(name string, action Action) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	normalized := m.eng.Normalize(m.present)
	next, changed := action(normalized)
	if !changed {
		logger.DebugTagf("history", "transient %s: no change", name)
		return false
	}
	m.present = m.eng.Normalize(next)
	return true
}

// Undo shifts the present one step into the past. No-op when the past is
// empty.
func (m *Manager) Undo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.past) == 0 {
		logger.DebugTagf("history", "nothing to undo")
		return false
	}
	prior := m.past[len(m.past)-1]
	m.past = m.past[:len(m.past)-1]
	m.future = append([]engine.PresentState{m.present}, m.future...)
	m.present = prior
	return true
}

// Redo reapplies the most recently undone state. No-op when the future is
// empty.
func (m *Manager) Redo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.future) == 0 {
		logger.DebugTagf("history", "nothing to redo")
		return false
	}
	next := m.future[0]
	m.future = m.future[1:]
	m.past = append(m.past, m.present)
	m.present = next
	return true
}

// CanUndo reports whether Undo would change state.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.past) > 0
}

// CanRedo reports whether Redo would change state.
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.future) > 0
}

// Clear resets the stacks around the current present. Call on session load.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.past = nil
	m.future = nil
}

// internal/engine/state.go
package engine

import (
	"github.com/redmarkhq/redmark/internal/token"
)

// PresentState is one editable snapshot: the frozen original sequence, the
// current token view, and the canonical operation log. Original is owned by
// the session and shared across snapshots; Tokens and Operations are
// value-cloned on every transition so history snapshots never alias.
type PresentState struct {
	Original   []token.Token
	Tokens     []token.Token
	Operations []Operation
}

// Clone copies the mutable parts of the state. Original is shared: it is
// frozen at session start and never mutated.
func (s PresentState) Clone() PresentState {
	return PresentState{
		Original:   s.Original,
		Tokens:     token.CloneTokens(s.Tokens),
		Operations: CloneOperations(s.Operations),
	}
}

// Engine transforms between the token view and the operation log. The id
// source is injected so sessions control identity minting; ids are unique
// and monotonic within a session.
type Engine struct {
	ids token.IDSource
}

// New creates an engine with the given id source, defaulting to a
// sequential source when nil.
func New(ids token.IDSource) *Engine {
	if ids == nil {
		ids = token.NewSeqSource("t")
	}
	return &Engine{ids: ids}
}

// IDs exposes the engine's id source for collaborators that mint ids of
// their own (cards, payload fragments).
func (e *Engine) IDs() token.IDSource { return e.ids }

// NewSession tokenizes raw text into a fresh normalized state.
func (e *Engine) NewSession(text string) PresentState {
	original := token.NewOriginal(token.Tokenize(text), e.ids)
	return PresentState{
		Original: original,
		Tokens:   token.CloneTokens(original),
	}
}

// Normalize re-derives the canonical operation log from the token view.
// When unresolved move ids are present the existing log is kept as-is:
// moves live only at the token level and deriving through them would tear
// the paired spans apart. Normalize is idempotent.
func (e *Engine) Normalize(s PresentState) PresentState {
	out := s.Clone()
	if hasMoveIDs(out.Tokens) {
		return out
	}
	out.Operations = e.Derive(out.Original, out.Tokens)
	return out
}

func hasMoveIDs(tokens []token.Token) bool {
	for _, t := range tokens {
		if t.MoveID != "" {
			return true
		}
	}
	return false
}

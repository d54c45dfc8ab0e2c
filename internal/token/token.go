// Package token defines the token data model shared by the editing engine,
// the exporter and the payload builder. A token is the atomic display unit
// of a text under annotation; edited tokens carry the span they replaced as
// a rooted history chain so any correction can be unwound to the exact
// original tokens.
package token

import "strings"

// Kind classifies a token for display and export purposes.
type Kind string

const (
	KindWord    Kind = "word"
	KindPunct   Kind = "punct"
	KindEmpty   Kind = "empty" // placeholder marking removed content
	KindSpecial Kind = "special"
)

// Placeholder is the display text of an empty-kind token.
const Placeholder = "⬚"

// Origin records whether a token (or fragment) descends from the original
// text or was typed in by the annotator.
type Origin string

const (
	OriginBase     Origin = "base"
	OriginInserted Origin = "inserted"
)

// State is the edit state of a token, derived from its optional fields.
// Apply and derive switch over it exhaustively instead of probing the
// fields directly.
type State int

const (
	StateBase State = iota
	StateInserted
	StateMovePlaceholder
	StateMoveDestination
)

// Token is a leaf unit of text.
//
// Previous is the ordered list of strictly older tokens this token
// replaced; links only ever point to older state, so the chain is a
// bounded rooted tree, never a cycle. An empty-kind token with no history
// is redundant and may be dropped.
type Token struct {
	ID          string
	Text        string
	Kind        Kind
	SpaceBefore bool
	GroupID     string
	MoveID      string
	Origin      Origin // empty for base tokens
	BaseIndex   int    // index into the original sequence, -1 when none
	Unconfirmed bool   // transient insertion awaiting confirmation
	Previous    []Token
}

// Fragment is one piece of an operation's replacement text as it travels
// through the operation log and the save payload.
type Fragment struct {
	ID          string `json:"id,omitempty"`
	Text        string `json:"text"`
	Origin      Origin `json:"origin"`
	SourceID    string `json:"source_id,omitempty"`
	SpaceBefore *bool  `json:"space_before,omitempty"`
}

// State reports the token's edit state.
func (t Token) State() State {
	switch {
	case t.MoveID != "" && t.Kind == KindEmpty:
		return StateMovePlaceholder
	case t.MoveID != "":
		return StateMoveDestination
	case t.Origin == OriginInserted:
		return StateInserted
	default:
		return StateBase
	}
}

// IsEmpty reports whether the token is a placeholder.
func (t Token) IsEmpty() bool { return t.Kind == KindEmpty }

// Visible reports whether the token contributes to the visible text.
func (t Token) Visible() bool { return t.Kind != KindEmpty }

// HasHistory reports whether the token replaced earlier tokens.
func (t Token) HasHistory() bool { return len(t.Previous) > 0 }

// Redundant reports whether the token can be dropped without losing
// information: an empty placeholder that carries no history.
func (t Token) Redundant() bool { return t.IsEmpty() && !t.HasHistory() && t.MoveID == "" }

// Clone returns a deep copy; history chains never alias across snapshots.
func (t Token) Clone() Token {
	c := t
	c.Previous = CloneTokens(t.Previous)
	return c
}

// CloneTokens deep-copies a token slice.
func CloneTokens(tokens []Token) []Token {
	if tokens == nil {
		return nil
	}
	out := make([]Token, len(tokens))
	for i, t := range tokens {
		out[i] = t.Clone()
	}
	return out
}

// VisibleTexts returns the display texts of all visible tokens, in order.
func VisibleTexts(tokens []Token) []string {
	texts := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t.Visible() {
			texts = append(texts, t.Text)
		}
	}
	return texts
}

// JoinVisible joins visible token texts with single spaces.
func JoinVisible(tokens []Token) string {
	return strings.Join(VisibleTexts(tokens), " ")
}

// NewOriginal builds the frozen original sequence from tokenized text,
// assigning ids and base indices. The result is owned by the session and
// never mutated afterwards.
func NewOriginal(tokens []Token, ids IDSource) []Token {
	out := make([]Token, len(tokens))
	for i, t := range tokens {
		t.ID = ids.Next()
		t.BaseIndex = i
		out[i] = t
	}
	return out
}

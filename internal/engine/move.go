// internal/engine/move.go
package engine

import (
	"sort"

	"github.com/redmarkhq/redmark/internal/logger"
	"github.com/redmarkhq/redmark/internal/token"
)

// MoveMarker describes one live move: the placeholder gap left at the
// source and the destination run, both as indices into the current token
// array. Markers are derived on demand and never stored.
type MoveMarker struct {
	ID        string
	FromStart int
	FromEnd   int
	ToStart   int
	ToEnd     int
}

const (
	moveSrcPrefix  = "move-src-"
	moveDestPrefix = "move-dest-"
)

// DeriveMoveMarkers scans the token array once, bucketing tokens by move
// id. Within a bucket the empty-kind members bound the source gap and the
// visible members bound the destination; incomplete buckets are discarded.
// Marker indices are in visible-token coordinates: a placeholder reports
// the gap position among visible tokens, so callers can address the marker
// against the rendered text.
func DeriveMoveMarkers(tokens []token.Token) []MoveMarker {
	type bucket struct {
		fromStart, fromEnd int
		toStart, toEnd     int
		hasFrom, hasTo     bool
	}
	buckets := make(map[string]*bucket)
	var order []string
	visIdx := 0
	for _, t := range tokens {
		pos := visIdx
		if t.Visible() {
			visIdx++
		}
		if t.MoveID == "" {
			continue
		}
		b := buckets[t.MoveID]
		if b == nil {
			b = &bucket{}
			buckets[t.MoveID] = b
			order = append(order, t.MoveID)
		}
		if t.Kind == token.KindEmpty {
			if !b.hasFrom || pos < b.fromStart {
				b.fromStart = pos
			}
			if !b.hasFrom || pos > b.fromEnd {
				b.fromEnd = pos
			}
			b.hasFrom = true
		} else {
			if !b.hasTo || pos < b.toStart {
				b.toStart = pos
			}
			if !b.hasTo || pos > b.toEnd {
				b.toEnd = pos
			}
			b.hasTo = true
		}
	}

	var markers []MoveMarker
	for _, id := range order {
		b := buckets[id]
		if !b.hasFrom || !b.hasTo {
			continue
		}
		markers = append(markers, MoveMarker{
			ID:        id,
			FromStart: b.fromStart,
			FromEnd:   b.fromEnd,
			ToStart:   b.toStart,
			ToEnd:     b.toEnd,
		})
	}
	sort.SliceStable(markers, func(i, j int) bool { return markers[i].ToStart < markers[j].ToStart })
	return markers
}

// Move relocates the span [start, end] so it begins at dest (an index into
// the current token array, interpreted before removal). The span is
// replaced in place by one placeholder carrying the moved tokens as
// history; the moved tokens reappear at the destination sharing the same
// move id. Re-dragging an existing destination reuses its move id instead
// of nesting moves. Dropping inside the span itself, or inside the source
// placeholder, is rejected.
func (e *Engine) Move(s PresentState, start, end, dest int) (PresentState, bool) {
	if start < 0 || end >= len(s.Tokens) || end < start {
		return s, false
	}
	if dest >= start && dest <= end+1 {
		return s, false
	}

	out := s.Clone()

	// Re-drag: the selected span is an existing destination.
	if id := destinationMoveID(out.Tokens[start : end+1]); id != "" {
		return e.redragMove(out, id, start, end, dest)
	}

	for _, t := range out.Tokens[start : end+1] {
		if t.State() == token.StateMovePlaceholder {
			logger.DebugTagf("engine", "refusing to move a span containing a move placeholder")
			return s, false
		}
	}

	moveID := e.ids.Next()
	moved := token.CloneTokens(out.Tokens[start : end+1])
	for i := range moved {
		moved[i].MoveID = moveID
		moved[i].GroupID = moveDestPrefix + moveID
	}

	placeholder := token.Token{
		ID:          e.ids.Next(),
		Text:        token.Placeholder,
		Kind:        token.KindEmpty,
		SpaceBefore: leadingSpaceAt(out.Tokens, start),
		GroupID:     moveSrcPrefix + moveID,
		MoveID:      moveID,
		BaseIndex:   -1,
		Previous:    token.CloneTokens(out.Tokens[start : end+1]),
	}

	rest := append([]token.Token{placeholder}, out.Tokens[end+1:]...)
	out.Tokens = append(out.Tokens[:start], rest...)

	// The span collapsed to one placeholder; re-aim the drop index.
	insertAt := dest
	if insertAt > start {
		insertAt -= (end - start + 1) - 1
	}
	if insertAt < 0 || insertAt > len(out.Tokens) {
		return s, false
	}
	if len(moved) > 0 {
		moved[0].SpaceBefore = leadingSpaceAt(out.Tokens, insertAt)
	}
	out.Tokens = append(out.Tokens[:insertAt], append(moved, out.Tokens[insertAt:]...)...)
	return out, true
}

// redragMove relocates an existing destination run, keeping its move id.
func (e *Engine) redragMove(out PresentState, moveID string, start, end, dest int) (PresentState, bool) {
	// Reject drops inside the source placeholder span.
	for i, t := range out.Tokens {
		if t.MoveID == moveID && t.State() == token.StateMovePlaceholder && dest == i {
			return out, false
		}
	}

	moved := token.CloneTokens(out.Tokens[start : end+1])
	out.Tokens = append(out.Tokens[:start], out.Tokens[end+1:]...)

	insertAt := dest
	if insertAt > start {
		insertAt -= len(moved)
	}
	if insertAt < 0 || insertAt > len(out.Tokens) {
		return out, false
	}
	if len(moved) > 0 {
		moved[0].SpaceBefore = leadingSpaceAt(out.Tokens, insertAt)
	}
	out.Tokens = append(out.Tokens[:insertAt], append(moved, out.Tokens[insertAt:]...)...)
	return out, true
}

// RevertMove removes the destination span, restores the placeholder's
// history at the source and drops the marker.
func (e *Engine) RevertMove(s PresentState, moveID string) (PresentState, bool) {
	out := s.Clone()

	var kept []token.Token
	restored := false
	for _, t := range out.Tokens {
		if t.MoveID != moveID {
			kept = append(kept, t)
			continue
		}
		if t.State() == token.StateMovePlaceholder {
			prev := token.CloneTokens(t.Previous)
			for i := range prev {
				prev[i].MoveID = ""
			}
			kept = append(kept, prev...)
			restored = true
		}
		// Destination members are dropped.
	}
	if !restored {
		return s, false
	}
	out.Tokens = kept
	return out, true
}

func destinationMoveID(span []token.Token) string {
	id := ""
	for _, t := range span {
		if t.State() != token.StateMoveDestination {
			return ""
		}
		if id == "" {
			id = t.MoveID
		} else if t.MoveID != id {
			return ""
		}
	}
	return id
}

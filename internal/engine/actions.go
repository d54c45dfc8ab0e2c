// internal/engine/actions.go
package engine

import (
	"sort"
	"strings"

	"github.com/redmarkhq/redmark/internal/logger"
	"github.com/redmarkhq/redmark/internal/token"
)

// Actions are pure transitions: (state, command) -> state. Invalid input
// never panics or errors; the caller observes "no state change" (the false
// return) as the uniform failure signal.

// ExpandRange grows [start, end] to cover any overlapping edit group and
// any contiguous run of inserted tokens, so acting on part of a multi-token
// correction always acts on the whole unit.
func ExpandRange(tokens []token.Token, start, end int) (int, int) {
	if len(tokens) == 0 {
		return start, end
	}
	for {
		prevStart, prevEnd := start, end
		if g := tokens[start].GroupID; g != "" {
			for start > 0 && tokens[start-1].GroupID == g {
				start--
			}
		}
		if g := tokens[end].GroupID; g != "" {
			for end < len(tokens)-1 && tokens[end+1].GroupID == g {
				end++
			}
		}
		if tokens[start].Origin == token.OriginInserted {
			for start > 0 && tokens[start-1].Origin == token.OriginInserted {
				start--
			}
		}
		if tokens[end].Origin == token.OriginInserted {
			for end < len(tokens)-1 && tokens[end+1].Origin == token.OriginInserted {
				end++
			}
		}
		if start == prevStart && end == prevEnd {
			return start, end
		}
	}
}

func (e *Engine) validRange(s PresentState, start, end int) bool {
	return start >= 0 && end < len(s.Tokens) && start <= end
}

// DeleteRange removes the (expanded) span, leaving one placeholder that
// carries the removed tokens as history. Deleting a span with no original
// ancestry removes it outright; spans involved in a live move are rejected.
func (e *Engine) DeleteRange(s PresentState, start, end int) (PresentState, bool) {
	if !e.validRange(s, start, end) {
		return s, false
	}
	start, end = ExpandRange(s.Tokens, start, end)
	for _, t := range s.Tokens[start : end+1] {
		if t.MoveID != "" {
			logger.DebugTagf("engine", "delete rejected: span participates in a move")
			return s, false
		}
	}

	out := s.Clone()
	span := token.CloneTokens(out.Tokens[start : end+1])

	if !spanHasBaseAncestry(span) {
		// Pure insertion (or redundant placeholders): nothing to record.
		out.Tokens = append(out.Tokens[:start], out.Tokens[end+1:]...)
		return out, true
	}

	placeholder := token.Token{
		ID:          e.ids.Next(),
		Text:        token.Placeholder,
		Kind:        token.KindEmpty,
		SpaceBefore: leadingSpaceAt(out.Tokens, start),
		GroupID:     e.ids.Next(),
		BaseIndex:   -1,
		Previous:    span,
	}
	rest := append([]token.Token{placeholder}, out.Tokens[end+1:]...)
	out.Tokens = append(out.Tokens[:start], rest...)
	return out, true
}

// InsertPlaceholder begins an insertion at index: a transient, unconfirmed
// placeholder that EditAsText later confirms or CancelInsert rolls back.
// Returns the new group id so the caller can address the placeholder.
func (e *Engine) InsertPlaceholder(s PresentState, index int) (PresentState, string, bool) {
	if index < 0 || index > len(s.Tokens) {
		return s, "", false
	}
	out := s.Clone()
	groupID := e.ids.Next()
	placeholder := token.Token{
		ID:          e.ids.Next(),
		Text:        token.Placeholder,
		Kind:        token.KindEmpty,
		SpaceBefore: leadingSpaceAt(out.Tokens, index),
		GroupID:     groupID,
		Origin:      token.OriginInserted,
		Unconfirmed: true,
		BaseIndex:   -1,
		Previous:    []token.Token{{Text: token.Placeholder, Kind: token.KindEmpty, BaseIndex: -1}},
	}
	out.Tokens = append(out.Tokens[:index], append([]token.Token{placeholder}, out.Tokens[index:]...)...)
	return out, groupID, true
}

// CancelInsert removes an unconfirmed placeholder, as if the insertion
// never happened.
func (e *Engine) CancelInsert(s PresentState, groupID string) (PresentState, bool) {
	out := s.Clone()
	for i, t := range out.Tokens {
		if t.GroupID == groupID && t.Unconfirmed {
			out.Tokens = append(out.Tokens[:i], out.Tokens[i+1:]...)
			return out, true
		}
	}
	return s, false
}

// EditAsText replaces the (expanded) span with annotator-typed text.
// Typing the span's original text back reverts the correction entirely;
// leaving an unconfirmed insertion blank rolls it back; blank text over a
// real span is a deletion.
func (e *Engine) EditAsText(s PresentState, start, end int, text string) (PresentState, bool) {
	if !e.validRange(s, start, end) {
		return s, false
	}
	start, end = ExpandRange(s.Tokens, start, end)
	for _, t := range s.Tokens[start : end+1] {
		if t.MoveID != "" {
			return s, false
		}
	}

	span := s.Tokens[start : end+1]
	trimmed := strings.TrimSpace(text)

	if len(span) == 1 && span[0].Unconfirmed && trimmed == "" {
		return e.CancelInsert(s, span[0].GroupID)
	}
	if trimmed == "" {
		return e.DeleteRange(s, start, end)
	}

	ancestors := orderedBaseAncestors(span)
	if len(ancestors) > 0 && normalizeText(trimmed) == normalizeText(token.JoinVisible(ancestors)) {
		return e.restoreSpan(s, start, end, ancestors)
	}

	out := s.Clone()
	history := token.CloneTokens(out.Tokens[start : end+1])
	origin := token.OriginBase
	if !spanHasBaseAncestry(history) {
		origin = token.OriginInserted
	}

	groupID := e.ids.Next()
	parts := token.TokenizeEdited(trimmed)
	for i := range parts {
		parts[i].ID = e.ids.Next()
		parts[i].GroupID = groupID
		parts[i].Origin = origin
		parts[i].Previous = token.CloneTokens(history)
		if i == 0 {
			parts[i].SpaceBefore = leadingSpaceAt(out.Tokens, start)
		}
	}
	rest := append(parts, out.Tokens[end+1:]...)
	out.Tokens = append(out.Tokens[:start], rest...)
	return out, true
}

// Merge joins the (expanded) span's visible tokens into one token with no
// separating spaces, the usual fix for incorrectly split words.
func (e *Engine) Merge(s PresentState, start, end int) (PresentState, bool) {
	if !e.validRange(s, start, end) {
		return s, false
	}
	start, end = ExpandRange(s.Tokens, start, end)

	var combined strings.Builder
	visible := 0
	for _, t := range s.Tokens[start : end+1] {
		if t.MoveID != "" {
			return s, false
		}
		if t.Visible() {
			combined.WriteString(t.Text)
			visible++
		}
	}
	if visible < 2 {
		return s, false
	}

	out := s.Clone()
	history := token.CloneTokens(out.Tokens[start : end+1])
	origin := token.OriginBase
	if !spanHasBaseAncestry(history) {
		origin = token.OriginInserted
	}
	merged := token.Token{
		ID:          e.ids.Next(),
		Text:        combined.String(),
		Kind:        token.ClassifyKind(combined.String()),
		SpaceBefore: leadingSpaceAt(out.Tokens, start),
		GroupID:     e.ids.Next(),
		Origin:      origin,
		BaseIndex:   -1,
		Previous:    history,
	}
	rest := append([]token.Token{merged}, out.Tokens[end+1:]...)
	out.Tokens = append(out.Tokens[:start], rest...)
	return out, true
}

// RevertCorrection restores the (expanded) span to its earliest ancestors,
// dropping the correction's history. Pure insertions vanish.
func (e *Engine) RevertCorrection(s PresentState, start, end int) (PresentState, bool) {
	if !e.validRange(s, start, end) {
		return s, false
	}
	start, end = ExpandRange(s.Tokens, start, end)
	span := s.Tokens[start : end+1]
	if !groupHasHistory(span) {
		return s, false
	}
	for _, t := range span {
		if t.MoveID != "" {
			return s, false
		}
	}

	ancestors := orderedBaseAncestors(span)
	return e.restoreSpan(s, start, end, ancestors)
}

// ClearAll discards every correction, restoring the pristine original view.
func (e *Engine) ClearAll(s PresentState) (PresentState, bool) {
	if len(s.Operations) == 0 && !hasMoveIDs(s.Tokens) && len(s.Tokens) == len(s.Original) {
		pristine := true
		for i, t := range s.Tokens {
			if t.ID != s.Original[i].ID || t.HasHistory() {
				pristine = false
				break
			}
		}
		if pristine {
			return s, false
		}
	}
	out := s.Clone()
	out.Tokens = token.CloneTokens(s.Original)
	out.Operations = nil
	return out, true
}

// restoreSpan splices restored ancestor tokens over [start, end].
func (e *Engine) restoreSpan(s PresentState, start, end int, ancestors []token.Token) (PresentState, bool) {
	out := s.Clone()
	restored := token.CloneTokens(ancestors)
	for i := range restored {
		restored[i].GroupID = ""
		restored[i].MoveID = ""
		restored[i].Previous = nil
	}
	rest := append(restored, out.Tokens[end+1:]...)
	out.Tokens = append(out.Tokens[:start], rest...)
	return out, true
}

// orderedBaseAncestors unwinds the span's history to original tokens,
// ordered by their original position.
func orderedBaseAncestors(span []token.Token) []token.Token {
	ancestors := earliestAncestors(span)
	var base []token.Token
	for _, a := range ancestors {
		if a.BaseIndex >= 0 {
			base = append(base, a)
		}
	}
	sort.SliceStable(base, func(i, j int) bool { return base[i].BaseIndex < base[j].BaseIndex })
	return base
}

func spanHasBaseAncestry(span []token.Token) bool {
	return len(orderedBaseAncestors(span)) > 0
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

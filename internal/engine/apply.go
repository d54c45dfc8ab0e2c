// internal/engine/apply.go
package engine

import (
	"github.com/redmarkhq/redmark/internal/logger"
	"github.com/redmarkhq/redmark/internal/token"
	"github.com/redmarkhq/redmark/internal/utils"
)

// Apply replays operations against the original sequence and returns the
// resulting token view. Spans outside the original are clamped; overlapping
// spans are undefined behavior (Derive never produces them). Move and noop
// operations are skipped: moves are token-level state, noops change nothing.
func (e *Engine) Apply(original []token.Token, operations []Operation) []token.Token {
	working := token.CloneTokens(original)
	for i := range working {
		working[i].BaseIndex = i
	}

	ops := CloneOperations(operations)
	SortOperations(ops)

	// Offset maps original-index spans onto the live working array as
	// earlier operations grow or shrink it.
	offset := 0
	for _, op := range ops {
		switch op.Type {
		case OpMove, OpNoop:
			continue
		}

		targetStart := utils.Clamp(op.Start+offset, 0, len(working))
		removeCount := 0
		if op.Type != OpInsert {
			removeCount = op.End - op.Start + 1
			if removeCount < 0 {
				removeCount = 0
			}
		}
		if targetStart+removeCount > len(working) {
			removeCount = len(working) - targetStart
		}

		removed := token.CloneTokens(working[targetStart : targetStart+removeCount])
		leadingSpace := leadingSpaceAt(working, targetStart)
		replacement := e.buildReplacement(op, removed, leadingSpace)

		working = append(working[:targetStart], append(replacement, working[targetStart+removeCount:]...)...)
		offset += len(replacement) - removeCount
	}
	return working
}

// buildReplacement expands an operation's after-fragments into tokens. Every
// produced token is tagged with the operation id as its group and carries
// the removed span as history; inserted tokens carry a single empty
// placeholder ancestor instead, marking them as having no original ancestry.
func (e *Engine) buildReplacement(op Operation, removed []token.Token, leadingSpace bool) []token.Token {
	history := removed
	if op.Type == OpInsert {
		history = []token.Token{{Text: token.Placeholder, Kind: token.KindEmpty, BaseIndex: -1}}
	}

	var out []token.Token
	for fragIndex, frag := range op.After {
		if frag.Text == "" {
			continue
		}
		parts := token.TokenizeEdited(frag.Text)
		for idx, t := range parts {
			spaceBefore := t.SpaceBefore
			if idx == 0 {
				switch {
				case frag.SpaceBefore != nil:
					spaceBefore = *frag.SpaceBefore
				case fragIndex > 0:
					spaceBefore = t.Kind != token.KindPunct
				default:
					spaceBefore = leadingSpace
				}
			}
			t.ID = e.ids.Next()
			t.SpaceBefore = spaceBefore
			t.GroupID = op.ID
			t.Previous = token.CloneTokens(history)
			if frag.Origin == token.OriginInserted {
				t.Origin = token.OriginInserted
			}
			out = append(out, t)
		}
	}
	if len(out) > 0 {
		return out
	}

	// Degenerate cases: no replacement text.
	switch op.Type {
	case OpInsert:
		// An unconfirmed placeholder the annotator has yet to fill in.
		return []token.Token{{
			ID:          e.ids.Next(),
			Text:        token.Placeholder,
			Kind:        token.KindEmpty,
			SpaceBefore: leadingSpace,
			GroupID:     op.ID,
			Origin:      token.OriginInserted,
			Unconfirmed: true,
			BaseIndex:   -1,
			Previous:    token.CloneTokens(history),
		}}
	default:
		if len(removed) == 0 {
			logger.DebugTagf("engine", "operation %s removed nothing and produced nothing", op.ID)
			return nil
		}
		// Deletion keeps one placeholder carrying the removed span.
		return []token.Token{{
			ID:          e.ids.Next(),
			Text:        token.Placeholder,
			Kind:        token.KindEmpty,
			SpaceBefore: leadingSpace,
			GroupID:     op.ID,
			BaseIndex:   -1,
			Previous:    token.CloneTokens(removed),
		}}
	}
}

// leadingSpaceAt reports whether a token placed at index would be preceded
// by a space, defaulting from the surrounding context.
func leadingSpaceAt(tokens []token.Token, index int) bool {
	if index <= 0 {
		return false
	}
	if index >= len(tokens) {
		return true
	}
	return tokens[index].SpaceBefore
}

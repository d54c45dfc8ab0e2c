// internal/engine/derive.go
package engine

import (
	"github.com/redmarkhq/redmark/internal/token"
)

// Derive rebuilds the canonical operation log from the current token view.
// It is the inverse of Apply for move-free states: apply-then-derive yields
// the same spans, types and replacement fragments (ids may differ).
func (e *Engine) Derive(original, tokens []token.Token) []Operation {
	origIndex := make(map[string]int, len(original))
	for i, t := range original {
		if t.Visible() {
			origIndex[t.ID] = i
		}
	}

	var ops []Operation
	for _, group := range groupContiguous(tokens) {
		if !groupHasHistory(group.members) || groupHasMove(group.members) {
			continue
		}

		ancestors := earliestAncestors(group.members)
		indices := resolveIndices(ancestors, origIndex)

		op := Operation{ID: group.id, After: afterFragments(group.members)}
		if op.ID == "" {
			op.ID = e.ids.Next()
		}

		switch {
		case len(indices) == 0:
			op.Type = OpInsert
			point := e.insertionPoint(tokens, group.start, group.end, origIndex)
			op.Start, op.End = point, point
		case len(op.After) == 0:
			op.Type = OpDelete
			op.Start, op.End = minMax(indices)
		default:
			op.Type = OpReplace
			op.Start, op.End = minMax(indices)
		}
		ops = append(ops, op)
	}

	SortOperations(ops)
	return ops
}

// tokenGroup is a maximal run of contiguous tokens sharing a group id;
// ungrouped tokens form singleton groups.
type tokenGroup struct {
	id         string
	start, end int // inclusive indices into the current token array
	members    []token.Token
}

func groupContiguous(tokens []token.Token) []tokenGroup {
	var groups []tokenGroup
	for i := 0; i < len(tokens); {
		g := tokenGroup{id: tokens[i].GroupID, start: i}
		j := i
		for j < len(tokens) && (j == i || (g.id != "" && tokens[j].GroupID == g.id)) {
			g.members = append(g.members, tokens[j])
			j++
		}
		g.end = j - 1
		groups = append(groups, g)
		i = j
	}
	return groups
}

func groupHasHistory(members []token.Token) bool {
	for _, t := range members {
		if t.HasHistory() {
			return true
		}
	}
	return false
}

func groupHasMove(members []token.Token) bool {
	for _, t := range members {
		if t.MoveID != "" {
			return true
		}
	}
	return false
}

type ancestorKey struct {
	text string
	kind token.Kind
}

// earliestAncestors unwinds the members to the oldest generation: a member
// with a history chain resolves to the chain's roots, a member without one
// is its own earliest ancestor. Every member of a group carries the same
// cloned span, so ancestors dedupe by id (falling back to text and kind for
// synthetic placeholders without one).
func earliestAncestors(members []token.Token) []token.Token {
	var out []token.Token
	seenID := make(map[string]struct{})
	seenKey := make(map[ancestorKey]struct{})

	var walk func(ts []token.Token)
	walk = func(ts []token.Token) {
		for _, t := range ts {
			if t.HasHistory() {
				walk(t.Previous)
				continue
			}
			if t.ID != "" {
				if _, ok := seenID[t.ID]; ok {
					continue
				}
				seenID[t.ID] = struct{}{}
			} else {
				k := ancestorKey{t.Text, t.Kind}
				if _, ok := seenKey[k]; ok {
					continue
				}
				seenKey[k] = struct{}{}
			}
			out = append(out, t)
		}
	}
	walk(members)
	return out
}

func resolveIndices(ancestors []token.Token, origIndex map[string]int) []int {
	var indices []int
	for _, a := range ancestors {
		if idx, ok := origIndex[a.ID]; ok {
			indices = append(indices, idx)
			continue
		}
		if a.BaseIndex >= 0 {
			indices = append(indices, a.BaseIndex)
		}
	}
	return indices
}

func minMax(indices []int) (int, int) {
	lo, hi := indices[0], indices[0]
	for _, i := range indices[1:] {
		if i < lo {
			lo = i
		}
		if i > hi {
			hi = i
		}
	}
	return lo, hi
}

// insertionPoint resolves where a pure insertion anchors in original
// coordinates: the nearest sibling with a resolvable span, scanning left
// first (taking the index after its span) then right (taking the index at
// its span), defaulting to 0 for an otherwise empty document.
func (e *Engine) insertionPoint(tokens []token.Token, start, end int, origIndex map[string]int) int {
	for i := start - 1; i >= 0; i-- {
		if _, hi, ok := resolveSpan(tokens[i], origIndex); ok {
			return hi + 1
		}
	}
	for i := end + 1; i < len(tokens); i++ {
		if lo, _, ok := resolveSpan(tokens[i], origIndex); ok {
			return lo
		}
	}
	return 0
}

// resolveSpan maps one current token to the original-index span it covers.
func resolveSpan(t token.Token, origIndex map[string]int) (lo, hi int, ok bool) {
	if !t.HasHistory() {
		if idx, found := origIndex[t.ID]; found {
			return idx, idx, true
		}
		if t.BaseIndex >= 0 {
			return t.BaseIndex, t.BaseIndex, true
		}
		return 0, 0, false
	}
	indices := resolveIndices(earliestAncestors([]token.Token{t}), origIndex)
	if len(indices) == 0 {
		return 0, 0, false
	}
	lo, hi = minMax(indices)
	return lo, hi, true
}

// afterFragments turns a group's visible members into replacement
// fragments, preserving leading-space flags for round-trip stability.
func afterFragments(members []token.Token) []token.Fragment {
	var frags []token.Fragment
	for _, m := range members {
		if !m.Visible() {
			continue
		}
		sb := m.SpaceBefore
		origin := token.OriginBase
		if m.Origin == token.OriginInserted {
			origin = token.OriginInserted
		}
		frags = append(frags, token.Fragment{
			ID:          m.ID,
			Text:        m.Text,
			Origin:      origin,
			SpaceBefore: &sb,
		})
	}
	return frags
}

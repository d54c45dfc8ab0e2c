// internal/engine/equality.go
package engine

import (
	"github.com/redmarkhq/redmark/internal/token"
)

// EquivalentOperations reports whether two operation sets match on spans,
// types and replacement fragments. Ids are ignored: derive mints fresh ids,
// so round-tripped logs compare equal only up to identity.
func EquivalentOperations(a, b []Operation) bool {
	if len(a) != len(b) {
		return false
	}
	as := CloneOperations(a)
	bs := CloneOperations(b)
	SortOperations(as)
	SortOperations(bs)
	for i := range as {
		if !equivalentOperation(as[i], bs[i]) {
			return false
		}
	}
	return true
}

func equivalentOperation(a, b Operation) bool {
	if a.Type != b.Type || a.Start != b.Start || a.End != b.End {
		return false
	}
	if len(a.After) != len(b.After) {
		return false
	}
	for i := range a.After {
		if a.After[i].Text != b.After[i].Text || a.After[i].Origin != b.After[i].Origin {
			return false
		}
	}
	return true
}

// EquivalentTokens reports whether two token views render identically:
// same visible texts, kinds and leading-space flags, and the same move and
// history structure. Ids are ignored.
func EquivalentTokens(a, b []token.Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ta, tb := a[i], b[i]
		if ta.Text != tb.Text || ta.Kind != tb.Kind || ta.SpaceBefore != tb.SpaceBefore {
			return false
		}
		if (ta.MoveID == "") != (tb.MoveID == "") || (ta.GroupID == "") != (tb.GroupID == "") {
			return false
		}
		if ta.Origin != tb.Origin || ta.Unconfirmed != tb.Unconfirmed {
			return false
		}
		if !EquivalentTokens(ta.Previous, tb.Previous) {
			return false
		}
	}
	return true
}

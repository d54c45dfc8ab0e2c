// internal/export/cards.go
package export

import (
	"github.com/redmarkhq/redmark/internal/token"
)

// CorrectionCard is the exporter-facing grouping of one edited span, used
// to attach an error-type classification. Ranges are half-open indices
// into the visible corrected tokens; a pure deletion yields an empty range
// at the gap position.
type CorrectionCard struct {
	ID         string
	RangeStart int
	RangeEnd   int
}

// Assignments carries the annotator's error-type labels, keyed three ways
// to mirror how the UI records them.
type Assignments struct {
	Tokens map[string]string // token id -> label
	Points map[int]string    // original-index insertion point -> label
	Cards  map[string]string // card id -> label
}

// DeriveCards builds one card per contiguous edited group or move
// destination. Card ids reuse the group id so they stay stable across
// re-derivations.
func DeriveCards(tokens []token.Token) []CorrectionCard {
	var cards []CorrectionCard
	visIdx := 0
	i := 0
	for i < len(tokens) {
		t := tokens[i]
		if t.GroupID == "" || (!t.HasHistory() && t.MoveID == "") {
			if t.Visible() {
				visIdx++
			}
			i++
			continue
		}
		if t.State() == token.StateMovePlaceholder {
			// The gap itself is not a card; the destination run is.
			i++
			continue
		}
		card := CorrectionCard{ID: t.GroupID, RangeStart: visIdx, RangeEnd: visIdx}
		for i < len(tokens) && tokens[i].GroupID == t.GroupID {
			if tokens[i].Visible() {
				visIdx++
			}
			i++
		}
		card.RangeEnd = visIdx
		cards = append(cards, card)
	}
	return cards
}

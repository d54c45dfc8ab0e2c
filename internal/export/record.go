// internal/export/record.go
package export

import (
	"github.com/redmarkhq/redmark/internal/engine"
	"github.com/redmarkhq/redmark/internal/token"
)

// Record is one corpus export entry: the raw source, the rendered
// corrected text, and the structured edits, serialized as one JSONL line
// per text.
type Record struct {
	ID     int64  `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Edits  []Edit `json:"edits"`
}

// Edit is a flattened view of one annotation for corpus consumers.
type Edit struct {
	StartToken  int     `json:"start_token"`
	EndToken    int     `json:"end_token"`
	Operation   string  `json:"operation"`
	ErrorType   string  `json:"error_type"`
	Replacement *string `json:"replacement"`
	MoveFrom    *int    `json:"move_from"`
	MoveTo      *int    `json:"move_to"`
	MoveLen     *int    `json:"move_len"`
}

// BuildRecord renders the corrected text with the source's line structure
// restored and flattens the operation log plus live moves into edits.
func BuildRecord(id int64, source string, st engine.PresentState, asg Assignments) Record {
	cards := DeriveCards(st.Tokens)
	rec := Record{
		ID:     id,
		Source: source,
		Target: token.RenderWithBreaks(st.Tokens, token.LineBreaks(source)),
	}

	for _, op := range st.Operations {
		edit := Edit{
			StartToken: op.Start,
			EndToken:   op.End,
			Operation:  string(op.Type),
			ErrorType:  labelForGroup(op.ID, cards, asg),
		}
		if text := op.AfterText(); text != "" {
			edit.Replacement = &text
		}
		rec.Edits = append(rec.Edits, edit)
	}

	for _, m := range engine.DeriveMoveMarkers(st.Tokens) {
		m := m
		length := m.ToEnd - m.ToStart + 1
		edit := Edit{
			StartToken: m.FromStart,
			EndToken:   m.FromEnd,
			Operation:  string(engine.OpMove),
			ErrorType:  labelForGroup("move-dest-"+m.ID, cards, asg),
			MoveFrom:   &m.FromStart,
			MoveTo:     &m.ToStart,
			MoveLen:    &length,
		}
		rec.Edits = append(rec.Edits, edit)
	}
	return rec
}

func labelForGroup(groupID string, cards []CorrectionCard, asg Assignments) string {
	for _, card := range cards {
		if card.ID == groupID {
			if label := asg.Cards[card.ID]; label != "" {
				return label
			}
		}
	}
	return "OTHER"
}

// internal/engine/operation.go
package engine

import (
	"sort"

	"github.com/redmarkhq/redmark/internal/token"
)

// OpType classifies an operation.
type OpType string

const (
	OpReplace OpType = "replace"
	OpDelete  OpType = "delete"
	OpInsert  OpType = "insert"
	OpMove    OpType = "move"
	OpNoop    OpType = "noop"
)

// Operation is a canonical, replayable edit record. Start and End are an
// inclusive span of original-token indices; for inserts Start == End is the
// insertion point. Operations are totally ordered by (Start, End, ID).
type Operation struct {
	ID    string           `json:"id"`
	Type  OpType           `json:"type"`
	Start int              `json:"start"`
	End   int              `json:"end"`
	After []token.Fragment `json:"after"`
}

// Clone deep-copies the operation.
func (op Operation) Clone() Operation {
	c := op
	if op.After != nil {
		c.After = make([]token.Fragment, len(op.After))
		for i, f := range op.After {
			if f.SpaceBefore != nil {
				sb := *f.SpaceBefore
				f.SpaceBefore = &sb
			}
			c.After[i] = f
		}
	}
	return c
}

// CloneOperations deep-copies an operation slice.
func CloneOperations(ops []Operation) []Operation {
	if ops == nil {
		return nil
	}
	out := make([]Operation, len(ops))
	for i, op := range ops {
		out[i] = op.Clone()
	}
	return out
}

// SortOperations orders operations by (Start, End, ID) in place. The total
// order makes Apply deterministic regardless of caller ordering.
func SortOperations(ops []Operation) {
	sort.SliceStable(ops, func(i, j int) bool {
		if ops[i].Start != ops[j].Start {
			return ops[i].Start < ops[j].Start
		}
		if ops[i].End != ops[j].End {
			return ops[i].End < ops[j].End
		}
		return token.CompareIDs(ops[i].ID, ops[j].ID) < 0
	})
}

// AfterText joins the operation's replacement fragment texts with spaces.
func (op Operation) AfterText() string {
	text := ""
	for _, f := range op.After {
		if f.Text == "" {
			continue
		}
		if text != "" {
			text += " "
		}
		text += f.Text
	}
	return text
}

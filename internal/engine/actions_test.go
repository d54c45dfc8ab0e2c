package engine

import (
	"testing"

	"github.com/redmarkhq/redmark/internal/token"
)

func TestExpandRangeCoversGroup(t *testing.T) {
	eng, s := newTestSession(t, "The cat sat down")

	next, ok := eng.EditAsText(s, 1, 2, "x y z")
	if !ok {
		t.Fatal("edit failed")
	}
	// Tokens: The, x, y, z, down; indices 1..3 share a group.
	start, end := ExpandRange(next.Tokens, 2, 2)
	if start != 1 || end != 3 {
		t.Fatalf("expected expansion to 1..3, got %d..%d", start, end)
	}
}

func TestExpandRangeCoversInsertedRun(t *testing.T) {
	eng, s := newTestSession(t, "The cat")

	next, _, ok := eng.InsertPlaceholder(s, 1)
	if !ok {
		t.Fatal("insert failed")
	}
	next, ok = eng.EditAsText(next, 1, 1, "big bad")
	if !ok {
		t.Fatal("confirm failed")
	}
	start, end := ExpandRange(next.Tokens, 2, 2)
	if start != 1 || end != 2 {
		t.Fatalf("expected expansion over the inserted run 1..2, got %d..%d", start, end)
	}
}

func TestDeleteRangeRemovesPureInsertionOutright(t *testing.T) {
	eng, s := newTestSession(t, "The cat")

	next, _, ok := eng.InsertPlaceholder(s, 2)
	if !ok {
		t.Fatal("insert failed")
	}
	next, ok = eng.EditAsText(next, 2, 2, "quickly")
	if !ok {
		t.Fatal("confirm failed")
	}
	next, ok = eng.DeleteRange(next, 2, 2)
	if !ok {
		t.Fatal("delete failed")
	}
	if len(next.Tokens) != 2 {
		t.Fatalf("expected pure insertion removed without a placeholder, got %d tokens", len(next.Tokens))
	}
	if got := visibleJoined(next.Tokens); got != "The cat" {
		t.Fatalf("expected 'The cat', got %q", got)
	}
}

func TestDeleteRangeOverUneditedSpanLeavesPlaceholder(t *testing.T) {
	eng, s := newTestSession(t, "the cat the dog")

	next, ok := eng.DeleteRange(s, 0, 2)
	if !ok {
		t.Fatal("delete failed")
	}
	if len(next.Tokens) != 2 || !next.Tokens[0].IsEmpty() {
		t.Fatalf("expected a history placeholder plus 'dog', got %d tokens", len(next.Tokens))
	}
	if !next.Tokens[0].HasHistory() || len(next.Tokens[0].Previous) != 3 {
		t.Fatal("expected the placeholder to carry all three removed tokens")
	}

	next = eng.Normalize(next)
	if len(next.Operations) != 1 {
		t.Fatalf("expected one derived operation, got %d", len(next.Operations))
	}
	op := next.Operations[0]
	if op.Type != OpDelete || op.Start != 0 || op.End != 2 {
		t.Fatalf("expected delete over 0..2, got %s %d..%d", op.Type, op.Start, op.End)
	}
}

func TestDeleteRangeRejectsMoveSpan(t *testing.T) {
	eng, s := newTestSession(t, "The cat sat")

	next, ok := eng.Move(s, 0, 0, 3)
	if !ok {
		t.Fatal("move failed")
	}
	// The destination token sits at the end.
	if _, ok := eng.DeleteRange(next, len(next.Tokens)-1, len(next.Tokens)-1); ok {
		t.Error("expected deleting a move destination to be rejected")
	}
}

func TestEditAsTextOriginalRestores(t *testing.T) {
	eng, s := newTestSession(t, "The cat sat")

	next, ok := eng.EditAsText(s, 1, 1, "dog")
	if !ok {
		t.Fatal("edit failed")
	}
	next, ok = eng.EditAsText(next, 1, 1, "cat")
	if !ok {
		t.Fatal("restoring edit failed")
	}

	if got := visibleJoined(next.Tokens); got != "The cat sat" {
		t.Fatalf("expected original text, got %q", got)
	}
	if next.Tokens[1].HasHistory() || next.Tokens[1].GroupID != "" {
		t.Error("typing the original text back must drop the correction entirely")
	}
	if ops := eng.Derive(next.Original, next.Tokens); len(ops) != 0 {
		t.Fatalf("expected no operations after restore, got %+v", ops)
	}
}

func TestEditAsTextBlankDeletes(t *testing.T) {
	eng, s := newTestSession(t, "The cat sat")

	next, ok := eng.EditAsText(s, 1, 1, "   ")
	if !ok {
		t.Fatal("blank edit failed")
	}
	if !next.Tokens[1].IsEmpty() || !next.Tokens[1].HasHistory() {
		t.Error("expected blank edit over a real token to leave a history placeholder")
	}
}

func TestEditAsTextBlankCancelsUnconfirmedInsert(t *testing.T) {
	eng, s := newTestSession(t, "The cat")

	next, _, ok := eng.InsertPlaceholder(s, 1)
	if !ok {
		t.Fatal("insert failed")
	}
	next, ok = eng.EditAsText(next, 1, 1, "")
	if !ok {
		t.Fatal("blank confirm failed")
	}
	if len(next.Tokens) != 2 {
		t.Fatalf("expected unconfirmed insertion rolled back, got %d tokens", len(next.Tokens))
	}
}

func TestMergeJoinsWithoutSpaces(t *testing.T) {
	eng, s := newTestSession(t, "every thing is fine")

	next, ok := eng.Merge(s, 0, 1)
	if !ok {
		t.Fatal("merge failed")
	}
	if next.Tokens[0].Text != "everything" {
		t.Fatalf("expected 'everything', got %q", next.Tokens[0].Text)
	}
	if !next.Tokens[0].HasHistory() {
		t.Error("expected merged token to carry the joined tokens as history")
	}
}

func TestMergeRequiresTwoVisibleTokens(t *testing.T) {
	eng, s := newTestSession(t, "word")

	if _, ok := eng.Merge(s, 0, 0); ok {
		t.Error("expected single-token merge to be rejected")
	}
}

func TestRevertCorrection(t *testing.T) {
	eng, s := newTestSession(t, "The cat sat")

	next, ok := eng.EditAsText(s, 1, 1, "dog barked")
	if !ok {
		t.Fatal("edit failed")
	}
	next, ok = eng.RevertCorrection(next, 1, 1)
	if !ok {
		t.Fatal("revert failed")
	}
	if got := visibleJoined(next.Tokens); got != "The cat sat" {
		t.Fatalf("expected original text, got %q", got)
	}
}

func TestClearAll(t *testing.T) {
	eng, s := newTestSession(t, "The cat sat")

	next, ok := eng.EditAsText(s, 1, 1, "dog")
	if !ok {
		t.Fatal("edit failed")
	}
	next, ok = eng.DeleteRange(next, 2, 2)
	if !ok {
		t.Fatal("delete failed")
	}
	next, ok = eng.ClearAll(next)
	if !ok {
		t.Fatal("clear failed")
	}
	if got := visibleJoined(next.Tokens); got != "The cat sat" {
		t.Fatalf("expected pristine text, got %q", got)
	}
	if _, ok := eng.ClearAll(next); ok {
		t.Error("expected clearing a pristine state to report no change")
	}
}

func TestCancelInsert(t *testing.T) {
	eng, s := newTestSession(t, "The cat")

	next, groupID, ok := eng.InsertPlaceholder(s, 1)
	if !ok {
		t.Fatal("insert failed")
	}
	if !next.Tokens[1].Unconfirmed {
		t.Fatal("expected unconfirmed placeholder at index 1")
	}
	next, ok = eng.CancelInsert(next, groupID)
	if !ok {
		t.Fatal("cancel failed")
	}
	if !EquivalentTokens(next.Tokens, s.Tokens) {
		t.Error("expected cancel to restore the prior token view")
	}
}

func TestActionsNeverMutateInput(t *testing.T) {
	eng, s := newTestSession(t, "The cat sat")
	before := token.CloneTokens(s.Tokens)

	if _, ok := eng.EditAsText(s, 1, 1, "dog"); !ok {
		t.Fatal("edit failed")
	}
	if _, ok := eng.DeleteRange(s, 0, 0); !ok {
		t.Fatal("delete failed")
	}
	if !EquivalentTokens(before, s.Tokens) {
		t.Error("actions must not mutate their input state")
	}
	for i := range s.Tokens {
		if s.Tokens[i].ID != before[i].ID {
			t.Error("input token identity changed")
		}
	}
}

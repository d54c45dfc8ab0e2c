package engine

import (
	"testing"

	"github.com/redmarkhq/redmark/internal/token"
)

func TestMoveToEnd(t *testing.T) {
	eng, s := newTestSession(t, "The cat sat")

	next, ok := eng.Move(s, 0, 0, 3)
	if !ok {
		t.Fatal("move failed")
	}

	if got := visibleJoined(next.Tokens); got != "cat sat The" {
		t.Fatalf("expected 'cat sat The', got %q", got)
	}

	markers := DeriveMoveMarkers(next.Tokens)
	if len(markers) != 1 {
		t.Fatalf("expected one marker, got %d", len(markers))
	}
	m := markers[0]
	if m.FromStart != 0 || m.FromEnd != 0 {
		t.Errorf("expected source gap at visible index 0, got %d..%d", m.FromStart, m.FromEnd)
	}
	if m.ToStart != 2 || m.ToEnd != 2 {
		t.Errorf("expected destination at visible index 2, got %d..%d", m.ToStart, m.ToEnd)
	}
}

func TestMoveAndRevertRestoresOriginal(t *testing.T) {
	eng, s := newTestSession(t, "The cat sat")

	next, ok := eng.Move(s, 0, 0, 3)
	if !ok {
		t.Fatal("move failed")
	}
	markers := DeriveMoveMarkers(next.Tokens)
	if len(markers) != 1 {
		t.Fatalf("expected one marker, got %d", len(markers))
	}

	reverted, ok := eng.RevertMove(next, markers[0].ID)
	if !ok {
		t.Fatal("revert failed")
	}
	if got := visibleJoined(reverted.Tokens); got != "The cat sat" {
		t.Fatalf("expected original text restored, got %q", got)
	}
	if len(DeriveMoveMarkers(reverted.Tokens)) != 0 {
		t.Error("expected no markers after revert")
	}
	for _, tok := range reverted.Tokens {
		if tok.MoveID != "" {
			t.Errorf("expected move ids cleared, token %q still carries %q", tok.Text, tok.MoveID)
		}
	}
}

func TestMoveRejectsDropInsideSpan(t *testing.T) {
	eng, s := newTestSession(t, "The cat sat down")

	if _, ok := eng.Move(s, 1, 2, 2); ok {
		t.Error("expected drop inside the span to be rejected")
	}
	if _, ok := eng.Move(s, 1, 2, 3); ok {
		t.Error("expected drop immediately after the span to be rejected")
	}
}

func TestMoveMultiTokenSpan(t *testing.T) {
	eng, s := newTestSession(t, "The cat sat down")

	next, ok := eng.Move(s, 0, 1, 4)
	if !ok {
		t.Fatal("move failed")
	}
	if got := visibleJoined(next.Tokens); got != "sat down The cat" {
		t.Fatalf("expected 'sat down The cat', got %q", got)
	}

	markers := DeriveMoveMarkers(next.Tokens)
	if len(markers) != 1 {
		t.Fatalf("expected one marker, got %d", len(markers))
	}
	m := markers[0]
	if m.ToEnd-m.ToStart != 1 {
		t.Errorf("expected two-token destination, got %d..%d", m.ToStart, m.ToEnd)
	}
}

func TestRedragReusesMoveID(t *testing.T) {
	eng, s := newTestSession(t, "The cat sat down")

	next, ok := eng.Move(s, 0, 0, 4)
	if !ok {
		t.Fatal("move failed")
	}
	firstID := DeriveMoveMarkers(next.Tokens)[0].ID

	// The destination is now the last token; drag it back toward the front.
	destIdx := -1
	for i, tok := range next.Tokens {
		if tok.State() == token.StateMoveDestination {
			destIdx = i
		}
	}
	if destIdx < 0 {
		t.Fatal("destination token not found")
	}

	next, ok = eng.Move(next, destIdx, destIdx, 2)
	if !ok {
		t.Fatal("re-drag failed")
	}
	markers := DeriveMoveMarkers(next.Tokens)
	if len(markers) != 1 {
		t.Fatalf("expected one marker after re-drag, got %d", len(markers))
	}
	if markers[0].ID != firstID {
		t.Errorf("expected re-drag to keep move id %q, got %q", firstID, markers[0].ID)
	}
}

func TestMoveRejectsSpanWithPlaceholder(t *testing.T) {
	eng, s := newTestSession(t, "The cat sat down")

	next, ok := eng.Move(s, 1, 1, 4)
	if !ok {
		t.Fatal("move failed")
	}
	// Index 1 now holds the source placeholder.
	if _, ok := eng.Move(next, 0, 1, 4); ok {
		t.Error("expected moving a span containing a move placeholder to be rejected")
	}
}

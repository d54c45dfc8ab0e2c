package payload

import (
	"testing"

	"github.com/redmarkhq/redmark/internal/engine"
	"github.com/redmarkhq/redmark/internal/export"
	"github.com/redmarkhq/redmark/internal/token"
)

func newSession(t *testing.T, text string) (*engine.Engine, engine.PresentState) {
	t.Helper()
	eng := engine.New(token.NewSeqSource("t"))
	return eng, eng.NewSession(text)
}

func testBuilder(text string) Builder {
	return Builder{
		RawText: text,
		TypeIDs: map[string]int{"Spelling": 1, "OTHER": 10},
		OtherID: 10,
	}
}

func emptyAssignments() export.Assignments {
	return export.Assignments{
		Tokens: map[string]string{},
		Points: map[int]string{},
		Cards:  map[string]string{},
	}
}

func TestBuildDraftsReplace(t *testing.T) {
	eng, s := newSession(t, "The cat sat")

	next, ok := eng.EditAsText(s, 1, 1, "dog")
	if !ok {
		t.Fatal("edit failed")
	}
	next = eng.Normalize(next)

	drafts := testBuilder("The cat sat").BuildDrafts(next, emptyAssignments())
	if len(drafts) != 1 {
		t.Fatalf("expected one draft, got %d", len(drafts))
	}
	d := drafts[0]
	if d.StartToken != 1 || d.EndToken != 1 {
		t.Errorf("expected span 1..1, got %d..%d", d.StartToken, d.EndToken)
	}
	if d.Replacement == nil || *d.Replacement != "dog" {
		t.Errorf("expected replacement 'dog', got %v", d.Replacement)
	}
	if d.ErrorTypeID != 10 {
		t.Errorf("expected fallback type id, got %d", d.ErrorTypeID)
	}
	if d.Payload.Operation != "replace" || d.Payload.Source != "manual" {
		t.Errorf("unexpected payload %+v", d.Payload)
	}
	if len(d.Payload.BeforeTokens) != 1 || d.Payload.BeforeTokens[0] != next.Original[1].ID {
		t.Errorf("expected before tokens to carry the original id, got %v", d.Payload.BeforeTokens)
	}
	if d.Payload.TextSHA256 == nil || d.Payload.TextTokensSHA256 == nil {
		t.Error("expected integrity hashes to be set")
	}
	if len(d.Payload.TextTokens) != 3 {
		t.Errorf("expected 3 text tokens, got %v", d.Payload.TextTokens)
	}
}

func TestBuildDraftsAssignedType(t *testing.T) {
	eng, s := newSession(t, "The cat sat")

	next, ok := eng.EditAsText(s, 1, 1, "dog")
	if !ok {
		t.Fatal("edit failed")
	}
	next = eng.Normalize(next)

	asg := emptyAssignments()
	for _, tok := range next.Tokens {
		if tok.GroupID != "" {
			asg.Cards[tok.GroupID] = "Spelling"
		}
	}

	drafts := testBuilder("The cat sat").BuildDrafts(next, asg)
	if len(drafts) != 1 {
		t.Fatalf("expected one draft, got %d", len(drafts))
	}
	if drafts[0].ErrorTypeID != 1 {
		t.Errorf("expected Spelling id 1, got %d", drafts[0].ErrorTypeID)
	}
}

func TestBuildDraftsMove(t *testing.T) {
	eng, s := newSession(t, "The cat sat")

	next, ok := eng.Move(s, 0, 0, 3)
	if !ok {
		t.Fatal("move failed")
	}

	drafts := testBuilder("The cat sat").BuildDrafts(next, emptyAssignments())
	if len(drafts) != 1 {
		t.Fatalf("expected one move draft, got %d", len(drafts))
	}
	d := drafts[0]
	if d.Payload.Operation != "move" {
		t.Fatalf("expected move operation, got %q", d.Payload.Operation)
	}
	if d.Payload.MoveFrom == nil || d.Payload.MoveTo == nil || d.Payload.MoveLen == nil {
		t.Fatal("expected move fields set")
	}
	if *d.Payload.MoveFrom != 0 || *d.Payload.MoveTo != 2 || *d.Payload.MoveLen != 1 {
		t.Errorf("unexpected move fields from=%d to=%d len=%d",
			*d.Payload.MoveFrom, *d.Payload.MoveTo, *d.Payload.MoveLen)
	}
}

func TestBuildBatchDeletedIDs(t *testing.T) {
	b := testBuilder("text")
	drafts := []Draft{{ID: 2}, {ID: 3}}

	req := b.BuildBatch(drafts, []int64{1, 2, 3}, 1)
	if len(req.DeletedIDs) != 1 || req.DeletedIDs[0] != 1 {
		t.Fatalf("expected id 1 reported deleted, got %v", req.DeletedIDs)
	}
	if req.ClientVersion != 1 {
		t.Errorf("expected client version 1, got %d", req.ClientVersion)
	}
}

func TestHashDegradesToNil(t *testing.T) {
	orig := hashFn
	defer func() { hashFn = orig }()

	hashFn = nil
	if got := hashText("anything"); got != nil {
		t.Error("expected nil digest when hashing is unavailable")
	}

	hashFn = func([]byte) string { panic("no hash primitive") }
	if got := hashText("anything"); got != nil {
		t.Error("expected nil digest when hashing panics")
	}
}

func TestHashTokensUsesSeparator(t *testing.T) {
	a := hashTokens([]string{"ab", "c"})
	b := hashTokens([]string{"a", "bc"})
	if a == nil || b == nil {
		t.Fatal("expected digests")
	}
	if *a == *b {
		t.Error("token boundaries must affect the digest")
	}
}

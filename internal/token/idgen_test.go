package token

import "testing"

func TestSeqSourceMonotonic(t *testing.T) {
	src := NewSeqSource("t")
	a, b := src.Next(), src.Next()
	if a == b {
		t.Fatalf("expected distinct ids, got %q twice", a)
	}
	if CompareIDs(a, b) >= 0 {
		t.Errorf("expected %q < %q in mint order", a, b)
	}
}

func TestCompareIDsNumericSuffix(t *testing.T) {
	if CompareIDs("t2", "t10") >= 0 {
		t.Error("expected numeric-suffix ordering, t2 < t10")
	}
	if CompareIDs("t10", "t10") != 0 {
		t.Error("expected equal ids to compare equal")
	}
	// Mixed prefixes fall back to string comparison.
	if CompareIDs("a5", "b1") >= 0 {
		t.Error("expected string fallback ordering, a5 < b1")
	}
}

func TestUUIDSourceUnique(t *testing.T) {
	src := UUIDSource{}
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := src.Next()
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}

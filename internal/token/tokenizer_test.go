package token

import (
	"strings"
	"testing"
)

func texts(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}

func TestTokenizeWordsAndPunct(t *testing.T) {
	tokens := Tokenize("The cat sat, briefly.")

	want := []string{"The", "cat", "sat", ",", "briefly", "."}
	got := texts(tokens)
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if tokens[0].SpaceBefore {
		t.Error("first token must not record a leading space")
	}
	if !tokens[1].SpaceBefore {
		t.Error("expected space before 'cat'")
	}
	if tokens[3].SpaceBefore {
		t.Error("comma attached to 'sat' must not record a leading space")
	}
	if tokens[3].Kind != KindPunct {
		t.Errorf("expected punct kind for comma, got %s", tokens[3].Kind)
	}
	if tokens[4].Kind != KindWord {
		t.Errorf("expected word kind for 'briefly', got %s", tokens[4].Kind)
	}
}

func TestTokenizeSpecials(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"visit www.example.com today", "www.example.com"},
		{"see https://example.com/a?b=1 now", "https://example.com/a?b=1"},
		{"mail me@example.org please", "me@example.org"},
		{"call +7 (900) 123-4567 now", "+7 (900) 123-4567"},
	}
	for _, tc := range cases {
		tokens := Tokenize(tc.input)
		found := false
		for _, tok := range tokens {
			if tok.Text == tc.want {
				found = true
				if tok.Kind != KindSpecial {
					t.Errorf("%q: expected special kind, got %s", tc.want, tok.Kind)
				}
			}
		}
		if !found {
			t.Errorf("%q: special token %q not found in %v", tc.input, tc.want, texts(tokens))
		}
	}
}

func TestTokenizeSpecialStripsTrailingPunct(t *testing.T) {
	tokens := Tokenize("go to www.example.com.")
	got := texts(tokens)
	// The trailing period is stripped from the URL, then tokenized separately.
	want := []string{"go", "to", "www.example.com", "."}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestTokenizeUnicode(t *testing.T) {
	tokens := Tokenize("Мәктәпкә бардым")
	got := texts(tokens)
	if len(got) != 2 || got[0] != "Мәктәпкә" || got[1] != "бардым" {
		t.Fatalf("expected two Cyrillic word tokens, got %v", got)
	}
}

func TestTokenizeEmpty(t *testing.T) {
	if tokens := Tokenize(""); len(tokens) != 0 {
		t.Fatalf("expected no tokens for empty input, got %v", texts(tokens))
	}
	if tokens := Tokenize("   \n\t "); len(tokens) != 0 {
		t.Fatalf("expected no tokens for whitespace input, got %v", texts(tokens))
	}
}

func TestTokenizeEditedKeepsPunctAttached(t *testing.T) {
	tokens := TokenizeEdited("can't stop, won't stop")
	want := []string{"can't", "stop,", "won't", "stop"}
	got := texts(tokens)
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if tokens[0].SpaceBefore {
		t.Error("first edited token must not record a leading space")
	}
	if !tokens[1].SpaceBefore {
		t.Error("expected space before 'stop,'")
	}
}

func TestClassifyKind(t *testing.T) {
	cases := []struct {
		value string
		want  Kind
	}{
		{"word", KindWord},
		{"...", KindPunct},
		{"word.", KindWord},
		{"www.example.com", KindSpecial},
		{"a@b.co", KindSpecial},
	}
	for _, tc := range cases {
		if got := ClassifyKind(tc.value); got != tc.want {
			t.Errorf("ClassifyKind(%q) = %s, want %s", tc.value, got, tc.want)
		}
	}
}

func TestLineBreaksAndRender(t *testing.T) {
	text := "The cat\nsat down"
	breaks := LineBreaks(text)
	if len(breaks) != 1 || breaks[0] != 2 {
		t.Fatalf("expected one break after 2 tokens, got %v", breaks)
	}

	tokens := Tokenize(text)
	rendered := RenderWithBreaks(tokens, breaks)
	if rendered != "The cat\nsat down" {
		t.Fatalf("expected round-tripped text, got %q", rendered)
	}
}

func TestRenderWithBreaksSkipsPlaceholders(t *testing.T) {
	tokens := []Token{
		{Text: "The", Kind: KindWord},
		{Text: Placeholder, Kind: KindEmpty, SpaceBefore: true},
		{Text: "sat", Kind: KindWord, SpaceBefore: true},
	}
	if got := RenderWithBreaks(tokens, nil); got != "The sat" {
		t.Fatalf("expected placeholder dropped from render, got %q", got)
	}
}

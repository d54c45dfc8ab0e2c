// internal/token/tokenizer.go
package token

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Special-token patterns: phone numbers, email addresses, URLs. Matched
// before the base word/punct split so e.g. "www.example.com" stays one token.
var specialSources = []string{
	`\+\d[\d()\- ]*\d`,
	`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`,
	`(https?://[^\s,;:!]+|www\.[^\s,;:!]+)`,
}

var (
	specialFull     []*regexp.Regexp
	specialMatchers []*regexp.Regexp
	baseMatcher     = regexp.MustCompile(`^(?:[\p{L}\p{N}_]+|[^\p{L}\p{N}_\s])`)
	trailingPunct   = regexp.MustCompile(`[.,;:!?]+$`)
)

func init() {
	for _, src := range specialSources {
		specialFull = append(specialFull, regexp.MustCompile(`^(?:`+src+`)$`))
		specialMatchers = append(specialMatchers, regexp.MustCompile(`^(?:`+src+`)`))
	}
}

// IsPunctOnly reports whether value is non-empty and contains no letters
// or digits.
func IsPunctOnly(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// IsSpecial reports whether value (ignoring trailing sentence punctuation)
// matches one of the special-token patterns.
func IsSpecial(value string) bool {
	trimmed := trailingPunct.ReplaceAllString(value, "")
	if trimmed == "" {
		return false
	}
	for _, re := range specialFull {
		if re.MatchString(trimmed) {
			return true
		}
	}
	return false
}

// ClassifyKind returns the kind for a visible token text.
func ClassifyKind(value string) Kind {
	switch {
	case IsSpecial(value):
		return KindSpecial
	case IsPunctOnly(value):
		return KindPunct
	default:
		return KindWord
	}
}

// Tokenize splits raw text into ordered tokens with kind and leading-space
// metadata. The first token never records a leading space. Characters no
// pattern matches advance the scan one rune rather than looping forever.
func Tokenize(text string) []Token {
	var tokens []Token
	idx := 0
	for idx < len(text) {
		hadSpace := false
		for idx < len(text) {
			r, size := utf8.DecodeRuneInString(text[idx:])
			if !unicode.IsSpace(r) {
				break
			}
			hadSpace = true
			idx += size
		}
		if idx >= len(text) {
			break
		}

		matched := false
		for _, matcher := range specialMatchers {
			loc := matcher.FindStringIndex(text[idx:])
			if loc == nil {
				continue
			}
			raw := text[idx : idx+loc[1]]
			value := trailingPunct.ReplaceAllString(raw, "")
			advance := len(value)
			if advance == 0 {
				advance = len(raw)
			}
			if value != "" {
				tokens = append(tokens, Token{
					Text:        value,
					Kind:        KindSpecial,
					SpaceBefore: len(tokens) > 0 && hadSpace,
					BaseIndex:   -1,
				})
			}
			idx += advance
			matched = true
			break
		}
		if matched {
			continue
		}

		if loc := baseMatcher.FindStringIndex(text[idx:]); loc != nil {
			value := text[idx : idx+loc[1]]
			kind := KindWord
			if IsPunctOnly(value) {
				kind = KindPunct
			}
			tokens = append(tokens, Token{
				Text:        value,
				Kind:        kind,
				SpaceBefore: len(tokens) > 0 && hadSpace,
				BaseIndex:   -1,
			})
			idx += loc[1]
			continue
		}

		// Unmatched character; skip it.
		_, size := utf8.DecodeRuneInString(text[idx:])
		idx += size
	}
	return tokens
}

// TokenizeEdited splits annotator-typed fragment text on whitespace only,
// so punctuation typed inside a correction stays attached to its word.
func TokenizeEdited(text string) []Token {
	var tokens []Token
	spaceBefore := false
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		value := text[start:end]
		kind := KindWord
		if IsPunctOnly(value) {
			kind = KindPunct
		}
		tokens = append(tokens, Token{
			Text:        value,
			Kind:        kind,
			SpaceBefore: spaceBefore,
			BaseIndex:   -1,
		})
		spaceBefore = false
		start = -1
	}
	for i, r := range text {
		if unicode.IsSpace(r) {
			flush(i)
			spaceBefore = true
			continue
		}
		if start < 0 {
			start = i
		}
	}
	flush(len(text))
	return tokens
}

// LineBreaks returns, for each newline in text, the count of visible tokens
// preceding it. Used to restore line structure when rendering corrected text.
func LineBreaks(text string) []int {
	if text == "" {
		return nil
	}
	var breaks []int
	count := 0
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		count += len(Tokenize(line))
		if i < len(lines)-1 {
			breaks = append(breaks, count)
		}
	}
	return breaks
}

// RenderWithBreaks joins visible tokens into display text, inserting a
// space before each token whose SpaceBefore flag allows it and restoring
// the given line breaks (counts of visible tokens before each newline).
func RenderWithBreaks(tokens []Token, breaks []int) string {
	breakCounts := make(map[int]int, len(breaks))
	for _, idx := range breaks {
		breakCounts[idx]++
	}
	var b strings.Builder
	visibleIdx := 0
	atLineStart := true
	for _, t := range tokens {
		if !t.Visible() || t.Text == "" {
			continue
		}
		if !atLineStart && t.SpaceBefore {
			b.WriteByte(' ')
		}
		b.WriteString(t.Text)
		visibleIdx++
		if n := breakCounts[visibleIdx]; n > 0 {
			b.WriteString(strings.Repeat("\n", n))
			atLineStart = true
		} else {
			atLineStart = false
		}
	}
	return b.String()
}

// Package export aligns the original and corrected visible texts and emits
// labeled edit spans as an M2-style line report.
package export

import (
	"fmt"
	"strings"

	"github.com/redmarkhq/redmark/internal/token"
)

const (
	sep       = "|||"
	noneField = "-NONE-"
	// NoopLine is the single A-line emitted for an untouched document.
	NoopLine = "A -1 -1" + sep + "noop" + sep + noneField + sep + "REQUIRED" + sep + noneField + sep + "0"
)

// EditSpan is one non-equal run of the alignment: original visible tokens
// [StartOrig, EndOrig) were replaced by corrected visible tokens
// [StartCorr, EndCorr). Either side may be empty, not both.
type EditSpan struct {
	StartOrig, EndOrig int
	StartCorr, EndCorr int
	Label              string
	Replacement        string
}

type alignOp int

const (
	alignEqual alignOp = iota
	alignDelete
	alignInsert
)

// align produces the LCS edit script between two string slices using the
// classic O(n*m) dynamic-programming table. Ties break toward deleting
// before inserting.
func align(orig, corr []string) []alignOp {
	n, m := len(orig), len(corr)
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if orig[i] == corr[j] {
				dp[i][j] = dp[i+1][j+1] + 1
			} else if dp[i+1][j] >= dp[i][j+1] {
				dp[i][j] = dp[i+1][j]
			} else {
				dp[i][j] = dp[i][j+1]
			}
		}
	}

	var script []alignOp
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case orig[i] == corr[j]:
			script = append(script, alignEqual)
			i++
			j++
		case dp[i+1][j] >= dp[i][j+1]:
			script = append(script, alignDelete)
			i++
		default:
			script = append(script, alignInsert)
			j++
		}
	}
	for ; i < n; i++ {
		script = append(script, alignDelete)
	}
	for ; j < m; j++ {
		script = append(script, alignInsert)
	}
	return script
}

// visibleWithIDs collects visible token texts alongside their ids so label
// votes can be counted per corrected token.
func visibleWithIDs(tokens []token.Token) (texts []string, ids []string) {
	for _, t := range tokens {
		if t.Visible() {
			texts = append(texts, t.Text)
			ids = append(ids, t.ID)
		}
	}
	return texts, ids
}

// Spans aligns the visible original against the visible corrected text and
// returns one labeled span per merged run of differences.
func Spans(original, corrected []token.Token, cards []CorrectionCard, asg Assignments) []EditSpan {
	origTexts := token.VisibleTexts(original)
	corrTexts, corrIDs := visibleWithIDs(corrected)

	script := align(origTexts, corrTexts)

	var spans []EditSpan
	i, j := 0, 0
	for k := 0; k < len(script); {
		if script[k] == alignEqual {
			i++
			j++
			k++
			continue
		}
		span := EditSpan{StartOrig: i, StartCorr: j}
		for k < len(script) && script[k] != alignEqual {
			if script[k] == alignDelete {
				i++
			} else {
				j++
			}
			k++
		}
		span.EndOrig, span.EndCorr = i, j
		span.Replacement = strings.Join(corrTexts[span.StartCorr:span.EndCorr], " ")
		span.Label = resolveLabel(span, corrIDs, cards, asg)
		spans = append(spans, span)
	}
	return spans
}

// resolveLabel picks the error-type label for a span: majority vote among
// the corrected tokens' assigned types (first seen wins ties), then the
// type recorded against the insertion point for pure insertions, then the
// card starting at the span, then the literal OTHER.
func resolveLabel(span EditSpan, corrIDs []string, cards []CorrectionCard, asg Assignments) string {
	counts := make(map[string]int)
	var order []string
	for j := span.StartCorr; j < span.EndCorr && j < len(corrIDs); j++ {
		label, ok := asg.Tokens[corrIDs[j]]
		if !ok || label == "" {
			continue
		}
		if counts[label] == 0 {
			order = append(order, label)
		}
		counts[label]++
	}
	best := ""
	for _, label := range order {
		if best == "" || counts[label] > counts[best] {
			best = label
		}
	}
	if best != "" {
		return best
	}

	if span.StartOrig == span.EndOrig {
		if label := asg.Points[span.StartOrig]; label != "" {
			return label
		}
	}

	for _, card := range cards {
		if card.RangeStart == span.StartCorr {
			if label := asg.Cards[card.ID]; label != "" {
				return label
			}
		}
	}

	return "OTHER"
}

// Report renders the M2-style text report: an S line with the original
// visible tokens, then one A line per edit span with inclusive token
// bounds, or the single noop line for an untouched document.
func Report(original, corrected []token.Token, cards []CorrectionCard, asg Assignments) string {
	var b strings.Builder
	b.WriteString("S ")
	b.WriteString(strings.Join(token.VisibleTexts(original), " "))

	spans := Spans(original, corrected, cards, asg)
	if len(spans) == 0 {
		b.WriteString("\n")
		b.WriteString(NoopLine)
		return b.String()
	}

	for _, span := range spans {
		replacement := span.Replacement
		if replacement == "" {
			replacement = noneField
		}
		end := span.EndOrig - 1
		if end < span.StartOrig {
			end = span.StartOrig
		}
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("A %d %d%s%s%s%s%sREQUIRED%s%s%s0",
			span.StartOrig, end, sep, span.Label, sep, replacement, sep, sep, noneField, sep))
	}
	return b.String()
}

// internal/tui/drawing.go
package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/redmarkhq/redmark/internal/theme"
	"github.com/redmarkhq/redmark/internal/token"
)

// TokenCell records where one token landed on screen, for hit-testing and
// cursor placement.
type TokenCell struct {
	Index int // index into the token array
	X, Y  int
	Width int
}

// View is what the app hands the drawing code each frame.
type View struct {
	Tokens   []token.Token
	SelStart int // inclusive token index, -1 when nothing selected
	SelEnd   int
	Labels   map[string]string // group id -> error-type label
	MoveFrom int               // pending move source start, -1 when none
	MoveTo   int
}

// visualWidth measures a string in terminal cells.
func visualWidth(s string) int {
	width := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		width += gr.Width()
	}
	return width
}

// styleFor picks the token's style from its edit state, overridden by the
// error-type palette color when the group has a label.
func styleFor(t token.Token, activeTheme *theme.Theme, labels map[string]string) tcell.Style {
	if label, ok := labels[t.GroupID]; ok && label != "" {
		return activeTheme.ErrorTypeStyle(label)
	}
	switch t.State() {
	case token.StateMovePlaceholder:
		return activeTheme.GetStyle("Token.Placeholder")
	case token.StateMoveDestination:
		return activeTheme.GetStyle("Token.Moved")
	case token.StateInserted:
		if t.Unconfirmed {
			return activeTheme.GetStyle("Token.Unconfirmed")
		}
		return activeTheme.GetStyle("Token.Inserted")
	}
	switch {
	case t.IsEmpty():
		return activeTheme.GetStyle("Token.Placeholder")
	case t.HasHistory():
		return activeTheme.GetStyle("Token.Edited")
	case t.Kind == token.KindPunct:
		return activeTheme.GetStyle("Token.Punct")
	default:
		return activeTheme.GetStyle("Token")
	}
}

// DrawTokens renders the token stream wrapped into rows, leaving the last
// line for the status bar. Placeholders draw as their glyph so deletions
// and move gaps stay addressable. Returns the per-token layout.
func DrawTokens(tuiManager *TUI, view View, activeTheme *theme.Theme) []TokenCell {
	if activeTheme == nil {
		activeTheme = theme.GetCurrentTheme()
	}
	screen := tuiManager.Screen()
	width, height := tuiManager.Size()
	viewHeight := height - 1
	if viewHeight <= 0 || width <= 0 {
		return nil
	}

	selectionStyle := activeTheme.GetStyle("Selection")

	var layout []TokenCell
	x, y := 0, 0
	for i, t := range view.Tokens {
		text := t.Text
		if t.IsEmpty() {
			text = token.Placeholder
		}
		w := visualWidth(text)

		if x > 0 && t.SpaceBefore {
			x++
		}

		if x+w > width && x > 0 {
			x = 0
			y++
		}
		if y >= viewHeight {
			break
		}

		style := styleFor(t, activeTheme, view.Labels)
		if view.MoveFrom >= 0 && i >= view.MoveFrom && i <= view.MoveTo {
			// Pending move source awaiting its drop position.
			style = activeTheme.GetStyle("Token.Moved")
		}
		if view.SelStart >= 0 && i >= view.SelStart && i <= view.SelEnd {
			style = selectionStyle
		}

		layout = append(layout, TokenCell{Index: i, X: x, Y: y, Width: w})
		drawString(screen, x, y, text, style)
		x += w
	}
	return layout
}

// drawString writes a string cluster by cluster at (x, y).
func drawString(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	gr := uniseg.NewGraphemes(text)
	currentX := x
	for gr.Next() {
		runes := gr.Runes()
		if len(runes) > 0 {
			mainRune := runes[0]
			var combining []rune
			if len(runes) > 1 {
				combining = runes[1:]
			}
			screen.SetContent(currentX, y, mainRune, combining, style)
		}
		currentX += gr.Width()
	}
}

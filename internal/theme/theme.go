// internal/theme/theme.go
package theme

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/redmarkhq/redmark/internal/config"
	"github.com/redmarkhq/redmark/internal/logger"
)

// Theme maps style names to tcell styles. Token styles come in state
// variants like "Token.Inserted"; GetStyle falls back from the variant to
// the base name to "Default".
type Theme struct {
	Name   string
	Styles map[string]tcell.Style

	// errorTypeStyles maps error-type labels to their palette colors.
	errorTypeStyles map[string]tcell.Style
}

// GetStyle resolves a style name with base-name and Default fallbacks.
func (t *Theme) GetStyle(name string) tcell.Style {
	if style, ok := t.Styles[name]; ok {
		return style
	}

	baseName := name
	if dotIndex := strings.Index(name, "."); dotIndex != -1 {
		baseName = name[:dotIndex]
		if style, ok := t.Styles[baseName]; ok {
			return style
		}
	}

	if defStyle, ok := t.Styles["Default"]; ok {
		if name != "Default" {
			logger.Debugf("Theme '%s': Style '%s' not found, falling back to 'Default'", t.Name, name)
		}
		return defStyle
	}

	logger.Warnf("Theme '%s': Style '%s' and 'Default' style not found, using tcell default.", t.Name, name)
	return tcell.StyleDefault
}

// ErrorTypeStyle returns the palette color for an error-type label, or the
// default style for unknown labels.
func (t *Theme) ErrorTypeStyle(label string) tcell.Style {
	if style, ok := t.errorTypeStyles[label]; ok {
		return style
	}
	return t.GetStyle("Default")
}

// ApplyErrorTypes loads the configured palette colors into the theme.
func (t *Theme) ApplyErrorTypes(types []config.ErrorType) {
	t.errorTypeStyles = make(map[string]tcell.Style, len(types))
	base := t.GetStyle("Default")
	for _, et := range types {
		color, ok := parseHexColor(et.Color)
		if !ok {
			logger.Warnf("Theme '%s': error type '%s' has invalid color '%s'", t.Name, et.Label, et.Color)
			t.errorTypeStyles[et.Label] = base
			continue
		}
		t.errorTypeStyles[et.Label] = base.Foreground(color)
	}
}

func parseHexColor(s string) (tcell.Color, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 16, 32)
	if err != nil {
		return 0, false
	}
	return tcell.NewHexColor(int32(v)), true
}

// --- Annotator Dark Theme Definition ---

var AnnotatorDark Theme

func init() {
	amBackground := tcell.NewHexColor(0x2a2f38) // StatusBar BG
	amForeground := tcell.NewHexColor(0xc5cdd9) // Default text
	amMuted := tcell.NewHexColor(0x5c6370)      // Punctuation, placeholders
	amGreen := tcell.NewHexColor(0x98c379)      // Inserted tokens
	amRed := tcell.NewHexColor(0xe06c75)        // Deleted history
	amCyan := tcell.NewHexColor(0x56b6c2)       // Moved tokens
	amYellow := tcell.NewHexColor(0xe5c07b)     // Edited tokens

	baseStyle := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(amForeground)

	AnnotatorDark = Theme{
		Name: "Annotator Dark",
		Styles: map[string]tcell.Style{
			"Default":   baseStyle,
			"Selection": baseStyle.Reverse(true),

			"Token":             baseStyle,
			"Token.Punct":       baseStyle.Foreground(amMuted),
			"Token.Edited":      baseStyle.Foreground(amYellow),
			"Token.Inserted":    baseStyle.Foreground(amGreen),
			"Token.Placeholder": baseStyle.Foreground(amRed).Bold(true),
			"Token.Moved":       baseStyle.Foreground(amCyan),
			"Token.Unconfirmed": baseStyle.Foreground(amGreen).Italic(true),

			"StatusBar":        tcell.StyleDefault.Background(amBackground).Foreground(amForeground),
			"StatusBarMessage": tcell.StyleDefault.Background(amBackground).Foreground(amForeground).Bold(true),
			"StatusBarPrompt":  tcell.StyleDefault.Background(amBackground).Foreground(amGreen).Bold(true),
		},
	}

	CurrentTheme = &AnnotatorDark
}

var CurrentTheme *Theme

func GetCurrentTheme() *Theme {
	if CurrentTheme == nil {
		CurrentTheme = &AnnotatorDark
	}
	return CurrentTheme
}

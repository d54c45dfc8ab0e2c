// internal/config/errortypes.go
package config

// ErrorType is one entry in the annotation palette. Hotkey is the digit
// bound to the type in the interactive view; 0 means no binding.
type ErrorType struct {
	ID     int    `toml:"id"`
	Label  string `toml:"label"`
	Hotkey rune   `toml:"-"`
	Key    string `toml:"hotkey"`
	Color  string `toml:"color"`
}

// DefaultErrorTypes is the built-in palette, used when the config file
// defines no [[error_type]] tables.
func DefaultErrorTypes() []ErrorType {
	return []ErrorType{
		{ID: 1, Label: "Spelling", Key: "1", Color: "#e06c75"},
		{ID: 2, Label: "Punctuation", Key: "2", Color: "#d19a66"},
		{ID: 3, Label: "Case", Key: "3", Color: "#e5c07b"},
		{ID: 4, Label: "Agreement", Key: "4", Color: "#98c379"},
		{ID: 5, Label: "VerbTense", Key: "5", Color: "#56b6c2"},
		{ID: 6, Label: "Possessive", Key: "6", Color: "#61afef"},
		{ID: 7, Label: "Particle", Key: "7", Color: "#c678dd"},
		{ID: 8, Label: "WordOrder", Key: "8", Color: "#be5046"},
		{ID: 9, Label: "Dialect", Key: "9", Color: "#7f848e"},
		{ID: 10, Label: "OTHER", Key: "0", Color: "#abb2bf"},
	}
}

// normalizeErrorTypes fills hotkey runes from the string form and drops
// entries without a label.
func normalizeErrorTypes(types []ErrorType) []ErrorType {
	result := make([]ErrorType, 0, len(types))
	for _, et := range types {
		if et.Label == "" {
			continue
		}
		if et.Key != "" {
			et.Hotkey = []rune(et.Key)[0]
		}
		result = append(result, et)
	}
	return result
}

// TypeIDs builds the label -> id map consumed by the payload builder.
func TypeIDs(types []ErrorType) map[string]int {
	ids := make(map[string]int, len(types))
	for _, et := range types {
		ids[et.Label] = et.ID
	}
	return ids
}

// OtherID returns the id of the OTHER fallback type, or the last entry's
// id when none is named OTHER.
func OtherID(types []ErrorType) int {
	for _, et := range types {
		if et.Label == "OTHER" {
			return et.ID
		}
	}
	if len(types) > 0 {
		return types[len(types)-1].ID
	}
	return 0
}

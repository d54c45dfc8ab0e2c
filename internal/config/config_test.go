package config

import (
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.validate()

	if cfg.Editor.MaxHistory != DefaultMaxHistory {
		t.Errorf("expected default max history %d, got %d", DefaultMaxHistory, cfg.Editor.MaxHistory)
	}
	if cfg.Editor.SaveDebounce != DefaultSaveDebounce {
		t.Errorf("expected default save debounce, got %v", cfg.Editor.SaveDebounce)
	}
	if len(cfg.ErrorTypes) == 0 {
		t.Fatal("expected a default error-type palette")
	}
}

func TestValidateResetsInvalidValues(t *testing.T) {
	cfg := &Config{}
	cfg.Editor.MaxHistory = -5
	cfg.Editor.SaveDebounceMS = 500
	cfg.validate()

	if cfg.Editor.MaxHistory != DefaultMaxHistory {
		t.Errorf("expected invalid max history reset, got %d", cfg.Editor.MaxHistory)
	}
	if cfg.Editor.SaveDebounce != 500*time.Millisecond {
		t.Errorf("expected debounce from milliseconds, got %v", cfg.Editor.SaveDebounce)
	}
	if cfg.Logger.LogLevel != "info" {
		t.Errorf("expected default log level, got %q", cfg.Logger.LogLevel)
	}
}

func TestNormalizeErrorTypes(t *testing.T) {
	types := normalizeErrorTypes([]ErrorType{
		{ID: 1, Label: "Spelling", Key: "1"},
		{ID: 2, Label: "", Key: "2"}, // unlabeled entries are dropped
		{ID: 3, Label: "OTHER", Key: "0"},
	})
	if len(types) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(types))
	}
	if types[0].Hotkey != '1' {
		t.Errorf("expected hotkey rune '1', got %q", types[0].Hotkey)
	}
}

func TestTypeIDsAndOther(t *testing.T) {
	types := DefaultErrorTypes()
	ids := TypeIDs(types)
	if ids["Spelling"] != 1 {
		t.Errorf("expected Spelling id 1, got %d", ids["Spelling"])
	}
	if OtherID(types) != 10 {
		t.Errorf("expected OTHER id 10, got %d", OtherID(types))
	}
}

func TestSplitCommaList(t *testing.T) {
	got := splitCommaList(" a, b ,,c ")
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("unexpected result %v", got)
	}
	if splitCommaList("") != nil {
		t.Error("expected nil for empty input")
	}
}

package app

import (
	"testing"

	"github.com/redmarkhq/redmark/internal/config"
	"github.com/redmarkhq/redmark/internal/engine"
	"github.com/redmarkhq/redmark/internal/export"
	"github.com/redmarkhq/redmark/internal/statusbar"
	"github.com/redmarkhq/redmark/internal/token"
)

func TestAssignTypeRecordsInsertionPoint(t *testing.T) {
	eng := engine.New(token.NewSeqSource("t"))
	st := eng.NewSession("The cat sat")
	st, _, ok := eng.InsertPlaceholder(st, 1)
	if !ok {
		t.Fatal("insert failed")
	}
	st, ok = eng.EditAsText(st, 1, 1, "big")
	if !ok {
		t.Fatal("confirm failed")
	}
	st = eng.Normalize(st)

	a := &App{
		statusBar: statusbar.New(statusbar.DefaultConfig()),
		asg: export.Assignments{
			Tokens: make(map[string]string),
			Points: make(map[int]string),
			Cards:  make(map[string]string),
		},
		typeLabels: make(map[string]string),
		selStart:   1,
		selEnd:     1,
	}
	a.assignType(st, config.ErrorType{ID: 1, Label: "Spelling"})

	if a.asg.Tokens[st.Tokens[1].ID] != "Spelling" {
		t.Error("expected the inserted token to carry the label")
	}
	if got := a.asg.Points[1]; got != "Spelling" {
		t.Fatalf("expected insertion point 1 labeled Spelling, got %q", got)
	}
}

// Package app wires the engine, history, TUI and output layers into the
// interactive annotation view.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/redmarkhq/redmark/internal/autosave"
	"github.com/redmarkhq/redmark/internal/clipboard"
	"github.com/redmarkhq/redmark/internal/config"
	"github.com/redmarkhq/redmark/internal/engine"
	"github.com/redmarkhq/redmark/internal/engine/history"
	"github.com/redmarkhq/redmark/internal/event"
	"github.com/redmarkhq/redmark/internal/export"
	"github.com/redmarkhq/redmark/internal/logger"
	"github.com/redmarkhq/redmark/internal/payload"
	"github.com/redmarkhq/redmark/internal/statusbar"
	"github.com/redmarkhq/redmark/internal/theme"
	"github.com/redmarkhq/redmark/internal/token"
	"github.com/redmarkhq/redmark/internal/tui"
	"github.com/redmarkhq/redmark/internal/utils"
)

// promptMode tracks what an active inline prompt will do on Enter.
type promptMode int

const (
	promptNone promptMode = iota
	promptEdit
	promptInsert
)

// App orchestrates one annotation session.
type App struct {
	cfg          *config.Config
	filePath     string
	rawText      string
	exportPath   string
	useClipboard bool

	tuiManager   *tui.TUI
	eventManager *event.Manager
	statusBar    *statusbar.StatusBar
	clip         *clipboard.Manager
	saver        *autosave.Controller

	eng  *engine.Engine
	hist *history.Manager

	// Selection over the current token array.
	selStart, selEnd int
	anchor           int

	// Pending move: span marked with m, waiting for the drop position.
	moveFrom, moveTo int

	// Pending unconfirmed insertion.
	insertGroup string

	// Inline prompt state.
	prompt      promptMode
	promptInput string

	// Error-type assignments.
	asg         export.Assignments
	typesByKey  map[rune]config.ErrorType
	typeLabels  map[string]string // group id -> label, for drawing

	quit bool
}

// NewApp loads the text file and builds a ready-to-run session.
func NewApp(filePath string, cfg *config.Config, flags *config.Flags) (*App, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read '%s': %w", filePath, err)
	}
	rawText := string(data)

	eng := engine.New(token.UUIDSource{})
	hist := history.NewManager(eng, eng.NewSession(rawText), cfg.Editor.MaxHistory)

	events := event.NewManager()

	activeTheme := theme.GetCurrentTheme()
	activeTheme.ApplyErrorTypes(cfg.ErrorTypes)

	sbConfig := statusbar.DefaultConfig()
	sbConfig.StyleDefault = activeTheme.GetStyle("StatusBar")
	sbConfig.StyleMessage = activeTheme.GetStyle("StatusBarMessage")
	sbConfig.StylePrompt = activeTheme.GetStyle("StatusBarPrompt")
	sbConfig.MessageTimeout = config.MessageTimeout

	typesByKey := make(map[rune]config.ErrorType, len(cfg.ErrorTypes))
	for _, et := range cfg.ErrorTypes {
		if et.Hotkey != 0 {
			typesByKey[et.Hotkey] = et
		}
	}

	a := &App{
		cfg:          cfg,
		filePath:     filePath,
		rawText:      rawText,
		eventManager: events,
		statusBar:    statusbar.New(sbConfig),
		clip:         clipboard.NewManager(cfg.Editor.SystemClipboard),
		eng:          eng,
		hist:         hist,
		moveFrom:     -1,
		moveTo:       -1,
		asg: export.Assignments{
			Tokens: make(map[string]string),
			Points: make(map[int]string),
			Cards:  make(map[string]string),
		},
		typesByKey: typesByKey,
		typeLabels: make(map[string]string),
	}

	if flags != nil {
		if flags.OutPath != nil {
			a.exportPath = *flags.OutPath
		}
		if flags.Clipboard != nil {
			a.useClipboard = *flags.Clipboard
		}
	}

	savePath := cfg.Editor.SavePath
	if savePath == "" {
		savePath = filePath + ".save.json"
	}
	a.saver = autosave.NewController(
		autosave.FileSaver{Path: savePath},
		a.buildBatch,
		events,
		cfg.Editor.SaveDebounce,
	)

	return a, nil
}

// Run starts the interactive loop. It owns the terminal until quit.
func (a *App) Run() error {
	t, err := tui.New()
	if err != nil {
		return err
	}
	a.tuiManager = t
	defer t.Close()

	a.saver.Start()
	defer a.saver.Stop()

	a.eventManager.Dispatch(event.TypeAppReady, nil)
	a.statusBar.SetTemporaryMessage("redmark - d delete | i insert | e edit | m move | u undo | E export | q quit")

	for !a.quit {
		a.draw()
		ev := t.PollEvent()
		if ev == nil {
			break
		}
		switch eventData := ev.(type) {
		case *tcell.EventResize:
			t.Screen().Sync()
		case *tcell.EventKey:
			if a.prompt != promptNone {
				a.handlePromptKey(eventData)
			} else {
				a.handleKey(eventData)
			}
		}
	}

	a.eventManager.Dispatch(event.TypeAppQuit, nil)
	logger.Infof("Exiting application.")
	return nil
}

func (a *App) draw() {
	a.tuiManager.Clear()

	st := a.hist.Present()
	a.clampSelection(st)

	activeTheme := theme.GetCurrentTheme()
	tui.DrawTokens(a.tuiManager, tui.View{
		Tokens:   st.Tokens,
		SelStart: a.selStart,
		SelEnd:   a.selEnd,
		Labels:   a.typeLabels,
		MoveFrom: a.moveFrom,
		MoveTo:   a.moveTo,
	}, activeTheme)

	a.statusBar.SetFileInfo(a.filePath, a.hist.CanUndo())
	a.statusBar.SetEditCount(len(st.Operations) + len(engine.DeriveMoveMarkers(st.Tokens)))
	if a.selStart >= 0 && a.selStart < len(st.Tokens) {
		a.statusBar.SetSelectionInfo(fmt.Sprintf("[%d:%d] %s",
			a.selStart, a.selEnd, st.Tokens[a.selStart].Text))
	}
	width, height := a.tuiManager.Size()
	a.statusBar.Draw(a.tuiManager.Screen(), width, height)

	a.tuiManager.Show()
}

func (a *App) clampSelection(st engine.PresentState) {
	if len(st.Tokens) == 0 {
		a.selStart, a.selEnd = -1, -1
		return
	}
	a.selStart = utils.Clamp(a.selStart, 0, len(st.Tokens)-1)
	a.selEnd = utils.Clamp(a.selEnd, a.selStart, len(st.Tokens)-1)
}

// --- Key handling ---

func (a *App) handleKey(ev *tcell.EventKey) {
	st := a.hist.Present()

	switch ev.Key() {
	case tcell.KeyEscape:
		if a.moveFrom >= 0 {
			a.moveFrom, a.moveTo = -1, -1
			a.statusBar.SetTemporaryMessage("Move canceled")
			return
		}
		a.quit = true
		return
	case tcell.KeyLeft:
		a.moveSelection(-1, ev.Modifiers()&tcell.ModShift != 0)
		return
	case tcell.KeyRight:
		a.moveSelection(1, ev.Modifiers()&tcell.ModShift != 0)
		return
	case tcell.KeyRune:
		// handled below
	default:
		return
	}

	r := ev.Rune()
	if et, ok := a.typesByKey[r]; ok {
		a.assignType(st, et)
		return
	}

	switch r {
	case 'q':
		a.quit = true
	case 'h':
		a.moveSelection(-1, false)
	case 'l':
		a.moveSelection(1, false)
	case 'H':
		a.moveSelection(-1, true)
	case 'L':
		a.moveSelection(1, true)
	case 'd':
		a.commitRange("delete", a.eng.DeleteRange)
	case 'g':
		a.commitRange("merge", a.eng.Merge)
	case 'x':
		a.commitRange("revert", a.eng.RevertCorrection)
	case 'X':
		a.commit("clear-all", func(s engine.PresentState) (engine.PresentState, bool) {
			return a.eng.ClearAll(s)
		})
	case 'i':
		a.beginInsert(st)
	case 'e':
		a.beginEdit(st)
	case 'm':
		a.markOrDropMove(st)
	case 'M':
		a.revertMoveAtSelection(st)
	case 'u':
		if a.hist.Undo() {
			a.eventManager.Dispatch(event.TypeHistoryMoved, event.HistoryMovedData{})
		} else {
			a.statusBar.SetTemporaryMessage("Nothing to undo")
		}
	case 'r':
		if a.hist.Redo() {
			a.eventManager.Dispatch(event.TypeHistoryMoved, event.HistoryMovedData{Redo: true})
		} else {
			a.statusBar.SetTemporaryMessage("Nothing to redo")
		}
	case 'E':
		a.exportReport(st)
	case 's':
		a.saveNow()
	}
}

func (a *App) moveSelection(delta int, extend bool) {
	st := a.hist.Present()
	if len(st.Tokens) == 0 {
		return
	}
	if extend {
		a.selEnd = utils.Clamp(a.selEnd+delta, 0, len(st.Tokens)-1)
		if a.selEnd < a.selStart {
			a.selStart, a.selEnd = a.selEnd, a.selStart
		}
		return
	}
	a.selStart = utils.Clamp(a.selStart+delta, 0, len(st.Tokens)-1)
	a.selEnd = a.selStart
	a.anchor = a.selStart
}

// commitRange runs a (state, start, end) action over the current selection
// as a committed transition.
func (a *App) commitRange(name string, action func(engine.PresentState, int, int) (engine.PresentState, bool)) {
	start, end := a.selStart, a.selEnd
	a.commit(name, func(s engine.PresentState) (engine.PresentState, bool) {
		return action(s, start, end)
	})
}

func (a *App) commit(name string, action history.Action) {
	if !a.hist.Commit(name, action) {
		a.statusBar.SetTemporaryMessage("%s: no change", name)
		return
	}
	a.eventManager.Dispatch(event.TypeStateCommitted, event.StateCommittedData{Action: name})
}

// --- Insert / edit prompts ---

func (a *App) beginInsert(st engine.PresentState) {
	index := a.selStart
	if index < 0 {
		index = 0
	}
	var groupID string
	ok := a.hist.Transient("insert-placeholder", func(s engine.PresentState) (engine.PresentState, bool) {
		next, id, ok := a.eng.InsertPlaceholder(s, index)
		groupID = id
		return next, ok
	})
	if !ok {
		return
	}
	a.insertGroup = groupID
	a.selStart, a.selEnd = index, index
	a.prompt = promptInsert
	a.promptInput = ""
	a.statusBar.SetPrompt("insert: ", "")
}

func (a *App) beginEdit(st engine.PresentState) {
	if a.selStart < 0 || a.selStart >= len(st.Tokens) {
		return
	}
	start, end := engine.ExpandRange(st.Tokens, a.selStart, a.selEnd)
	a.selStart, a.selEnd = start, end
	a.prompt = promptEdit
	a.promptInput = token.JoinVisible(st.Tokens[start : end+1])
	a.statusBar.SetPrompt("edit: ", a.promptInput)
}

func (a *App) handlePromptKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		a.cancelPrompt()
	case tcell.KeyEnter:
		a.confirmPrompt()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(a.promptInput) > 0 {
			runes := []rune(a.promptInput)
			a.promptInput = string(runes[:len(runes)-1])
		}
		a.refreshPrompt()
	case tcell.KeyRune:
		a.promptInput += string(ev.Rune())
		a.refreshPrompt()
	}
}

func (a *App) refreshPrompt() {
	prefix := "edit: "
	if a.prompt == promptInsert {
		prefix = "insert: "
	}
	a.statusBar.SetPrompt(prefix, a.promptInput)
}

func (a *App) cancelPrompt() {
	if a.prompt == promptInsert && a.insertGroup != "" {
		groupID := a.insertGroup
		a.hist.Transient("cancel-insert", func(s engine.PresentState) (engine.PresentState, bool) {
			return a.eng.CancelInsert(s, groupID)
		})
	}
	a.insertGroup = ""
	a.prompt = promptNone
	a.promptInput = ""
	a.statusBar.ClearPrompt()
}

func (a *App) confirmPrompt() {
	mode := a.prompt
	text := a.promptInput
	start, end := a.selStart, a.selEnd
	a.prompt = promptNone
	a.promptInput = ""
	a.statusBar.ClearPrompt()

	if mode == promptInsert && strings.TrimSpace(text) == "" {
		a.cancelPendingInsert()
		return
	}
	a.insertGroup = ""
	a.commit("edit-text", func(s engine.PresentState) (engine.PresentState, bool) {
		return a.eng.EditAsText(s, start, end, text)
	})
}

func (a *App) cancelPendingInsert() {
	if a.insertGroup == "" {
		return
	}
	groupID := a.insertGroup
	a.insertGroup = ""
	a.hist.Transient("cancel-insert", func(s engine.PresentState) (engine.PresentState, bool) {
		return a.eng.CancelInsert(s, groupID)
	})
}

// --- Moves ---

func (a *App) markOrDropMove(st engine.PresentState) {
	if a.moveFrom < 0 {
		a.moveFrom, a.moveTo = engine.ExpandRange(st.Tokens, a.selStart, a.selEnd)
		a.statusBar.SetTemporaryMessage("Move: select the drop position and press m")
		return
	}

	from, to := a.moveFrom, a.moveTo
	dest := a.selStart
	a.moveFrom, a.moveTo = -1, -1
	a.commit("move", func(s engine.PresentState) (engine.PresentState, bool) {
		next, ok := a.eng.Move(s, from, to, dest)
		return next, ok
	})
	if a.hist.CanUndo() {
		a.eventManager.Dispatch(event.TypeMoveApplied, nil)
	}
}

func (a *App) revertMoveAtSelection(st engine.PresentState) {
	if a.selStart < 0 || a.selStart >= len(st.Tokens) {
		return
	}
	moveID := st.Tokens[a.selStart].MoveID
	if moveID == "" {
		a.statusBar.SetTemporaryMessage("No move at selection")
		return
	}
	a.commit("revert-move", func(s engine.PresentState) (engine.PresentState, bool) {
		return a.eng.RevertMove(s, moveID)
	})
	a.eventManager.Dispatch(event.TypeMoveApplied, nil)
}

// --- Error types ---

func (a *App) assignType(st engine.PresentState, et config.ErrorType) {
	if a.selStart < 0 || a.selStart >= len(st.Tokens) {
		return
	}
	start, end := engine.ExpandRange(st.Tokens, a.selStart, a.selEnd)
	assigned := false
	groups := make(map[string]bool)
	for _, t := range st.Tokens[start : end+1] {
		a.asg.Tokens[t.ID] = et.Label
		if t.GroupID != "" {
			a.asg.Cards[t.GroupID] = et.Label
			a.typeLabels[t.GroupID] = et.Label
			groups[t.GroupID] = true
		}
		assigned = true
	}
	// An insertion's label is also keyed by its point in the original.
	for _, op := range st.Operations {
		if op.Type == engine.OpInsert && groups[op.ID] {
			a.asg.Points[op.Start] = et.Label
		}
	}
	if assigned {
		a.statusBar.SetTemporaryMessage("Type: %s", et.Label)
	}
}

// --- Output ---

func (a *App) exportReport(st engine.PresentState) {
	cards := export.DeriveCards(st.Tokens)
	report := export.Report(st.Original, st.Tokens, cards, a.asg)

	outPath := a.exportPath
	if outPath == "" {
		outPath = strings.TrimSuffix(a.filePath, filepath.Ext(a.filePath)) + ".m2"
	}
	if err := os.WriteFile(outPath, []byte(report+"\n"), 0o644); err != nil {
		a.statusBar.SetTemporaryMessage("Export failed: %v", err)
		logger.Errorf("export: %v", err)
		return
	}
	if a.useClipboard {
		_ = a.clip.Write(report)
	}
	a.eventManager.Dispatch(event.TypeExportWritten, event.ExportWrittenData{
		Path:      outPath,
		Clipboard: a.useClipboard,
	})
	a.statusBar.SetTemporaryMessage("Exported to %s", outPath)
}

func (a *App) buildBatch() payload.BatchRequest {
	builder := payload.Builder{
		RawText: a.rawText,
		TypeIDs: config.TypeIDs(a.cfg.ErrorTypes),
		OtherID: config.OtherID(a.cfg.ErrorTypes),
	}
	st := a.hist.Present()
	drafts := builder.BuildDrafts(st, a.asg)
	return builder.BuildBatch(drafts, nil, config.DefaultClientVersion)
}

func (a *App) saveNow() {
	req := a.buildBatch()
	counts := make(map[string]int)
	for _, d := range req.Annotations {
		counts[d.Payload.Operation]++
	}
	logger.DebugTagf("save", "annotation summary: %v", counts)
	savePath := a.cfg.Editor.SavePath
	if savePath == "" {
		savePath = a.filePath + ".save.json"
	}
	if err := (autosave.FileSaver{Path: savePath}).Save(req); err != nil {
		a.statusBar.SetTemporaryMessage("Save failed: %v", err)
		logger.Errorf("save: %v", err)
		return
	}
	a.eventManager.Dispatch(event.TypeSavePerformed, event.SavePerformedData{
		Annotations: len(req.Annotations),
	})
	a.statusBar.SetTemporaryMessage("Saved %d annotations to %s", len(req.Annotations), savePath)
}

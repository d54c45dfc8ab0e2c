package autosave

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/redmarkhq/redmark/internal/event"
	"github.com/redmarkhq/redmark/internal/payload"
)

type recordingSaver struct {
	mu   sync.Mutex
	reqs []payload.BatchRequest
}

func (r *recordingSaver) Save(req payload.BatchRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqs = append(r.reqs, req)
	return nil
}

func (r *recordingSaver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reqs)
}

func TestStopFlushesOnce(t *testing.T) {
	saver := &recordingSaver{}
	build := func() payload.BatchRequest {
		return payload.BatchRequest{ClientVersion: 1}
	}
	c := NewController(saver, build, event.NewManager(), time.Hour)

	c.Start()
	c.Stop()
	c.Stop() // second stop is a no-op

	if got := saver.count(); got != 1 {
		t.Fatalf("expected exactly one flush on stop, got %d", got)
	}
}

func TestTimerFiringAfterStopWritesNothing(t *testing.T) {
	saver := &recordingSaver{}
	build := func() payload.BatchRequest {
		return payload.BatchRequest{ClientVersion: 1}
	}
	c := NewController(saver, build, event.NewManager(), time.Hour)

	c.Start()
	c.Stop()
	c.saveNow() // a debounce timer that fired during shutdown

	if got := saver.count(); got != 1 {
		t.Fatalf("expected only the shutdown flush, got %d saves", got)
	}
}

func TestCommitEventTriggersDebouncedSave(t *testing.T) {
	saver := &recordingSaver{}
	build := func() payload.BatchRequest {
		return payload.BatchRequest{ClientVersion: 1}
	}
	events := event.NewManager()
	c := NewController(saver, build, events, 5*time.Millisecond)
	c.Start()

	// A burst of commits collapses into one save.
	for i := 0; i < 3; i++ {
		events.Dispatch(event.TypeStateCommitted, event.StateCommittedData{Action: "edit"})
	}

	deadline := time.Now().Add(2 * time.Second)
	for saver.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if saver.count() == 0 {
		t.Fatal("expected a debounced save after commit events")
	}
}

func TestFileSaverWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.json")
	req := payload.BatchRequest{ClientVersion: 3}

	if err := (FileSaver{Path: path}).Save(req); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var decoded payload.BatchRequest
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.ClientVersion != 3 {
		t.Errorf("expected client version 3, got %d", decoded.ClientVersion)
	}
}

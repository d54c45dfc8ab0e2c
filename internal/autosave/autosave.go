// Package autosave persists the save payload after committed edits,
// debounced so rapid edit bursts produce one write.
package autosave

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/redmarkhq/redmark/internal/event"
	"github.com/redmarkhq/redmark/internal/logger"
	"github.com/redmarkhq/redmark/internal/payload"
	"github.com/redmarkhq/redmark/internal/utils"
)

// Saver persists one batch request. Implementations decide the transport;
// the controller only builds and hands off.
type Saver interface {
	Save(req payload.BatchRequest) error
}

// FileSaver writes the batch request as indented JSON to a fixed path.
type FileSaver struct {
	Path string
}

func (s FileSaver) Save(req payload.BatchRequest) error {
	data, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, data, 0o644)
}

// Controller listens for committed-state events and schedules a debounced
// save. Build must return the current batch request; it runs on the
// debouncer goroutine.
type Controller struct {
	saver    Saver
	build    func() payload.BatchRequest
	events   *event.Manager
	debounce utils.Debouncer
	delay    time.Duration

	mu      sync.Mutex
	stopped bool
}

// NewController wires a controller to the event manager. Call Start to
// begin listening and Stop on shutdown.
func NewController(saver Saver, build func() payload.BatchRequest, events *event.Manager, delay time.Duration) *Controller {
	return &Controller{
		saver:  saver,
		build:  build,
		events: events,
		delay:  delay,
	}
}

// Start subscribes to committed-state events.
func (c *Controller) Start() {
	c.events.Subscribe(event.TypeStateCommitted, func(e event.Event) bool {
		c.debounce.Debounce(c.delay, c.saveNow)
		return false // Never consume; other subscribers still see commits.
	})
	logger.Debugf("autosave: controller started (delay %v)", c.delay)
}

// Stop cancels any pending save and flushes once. A debounce timer that
// fires after Stop finds the controller stopped and writes nothing.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.stopped = true
	c.debounce.Stop()
	c.flushLocked()
	logger.Debugf("autosave: controller stopped")
}

// saveNow runs on the debouncer's timer goroutine.
func (c *Controller) saveNow() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.flushLocked()
}

func (c *Controller) flushLocked() {
	req := c.build()
	if err := c.saver.Save(req); err != nil {
		logger.Errorf("autosave: save failed: %v", err)
		return
	}
	logger.DebugTagf("autosave", "saved %d annotations (%d deleted)",
		len(req.Annotations), len(req.DeletedIDs))
	c.events.Dispatch(event.TypeSavePerformed, event.SavePerformedData{
		Annotations: len(req.Annotations),
	})
}

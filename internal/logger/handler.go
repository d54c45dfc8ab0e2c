package logger

import (
	"context"
	"log/slog"
	"strings"
)

const tagKey = "tag" // slog attribute key used for tag filtering

// filteringHandler wraps a base slog.Handler to add tag filtering.
type filteringHandler struct {
	baseHandler slog.Handler
	cfg         *Config
}

// newFilteringHandler creates a handler with filtering capabilities.
func newFilteringHandler(base slog.Handler, cfg *Config) *filteringHandler {
	return &filteringHandler{baseHandler: base, cfg: cfg}
}

// Enabled checks if the level is enabled by the base handler.
func (h *filteringHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.baseHandler.Enabled(ctx, level)
}

// Handle applies tag filtering before passing the record to the base handler.
func (h *filteringHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.cfg == nil {
		return h.baseHandler.Handle(ctx, r)
	}

	var tag string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == tagKey {
			tag = strings.ToLower(a.Value.String())
			return false
		}
		return true
	})

	if tag != "" {
		if _, disabled := h.cfg.disabledTagsSet[tag]; disabled {
			return nil
		}
		if h.cfg.enabledTagsSet != nil {
			if _, enabled := h.cfg.enabledTagsSet[tag]; !enabled {
				return nil
			}
		}
	}

	return h.baseHandler.Handle(ctx, r)
}

// WithAttrs returns a new handler whose base handler has the given attrs.
func (h *filteringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &filteringHandler{baseHandler: h.baseHandler.WithAttrs(attrs), cfg: h.cfg}
}

// WithGroup returns a new handler with the given group name.
func (h *filteringHandler) WithGroup(name string) slog.Handler {
	return &filteringHandler{baseHandler: h.baseHandler.WithGroup(name), cfg: h.cfg}
}

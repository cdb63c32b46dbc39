package vrtrace

import (
	"context"
	"log/slog"
)

// levelHandler gates another handler behind a mutable level, so SetLogLevel
// takes effect on every component the SDK logs through without touching the
// host's own logger configuration.
type levelHandler struct {
	level slog.Leveler
	inner slog.Handler
}

func newLevelHandler(level slog.Leveler, inner slog.Handler) *levelHandler {
	return &levelHandler{level: level, inner: inner}
}

func (h *levelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level.Level() && h.inner.Enabled(ctx, level)
}

func (h *levelHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.inner.Handle(ctx, r)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{level: h.level, inner: h.inner.WithAttrs(attrs)}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{level: h.level, inner: h.inner.WithGroup(name)}
}

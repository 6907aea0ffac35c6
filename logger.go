package psdcomp

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discard drops every record. Enabled reports false, so callers never
// format attributes for it.
type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (discard) WithAttrs([]slog.Attr) slog.Handler        { return discard{} }
func (discard) WithGroup(string) slog.Handler             { return discard{} }

var silent = slog.New(discard{})

var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(silent)
}

// SetLogger routes psdcomp's log records to l. Passing nil restores the
// default, which discards everything. It may be called at any time,
// including while composites are running.
//
// Records by level:
//   - Debug: cache hits, render start and elapsed time, manifest loading
//   - Info: cache cleared
//   - Warn: blend modes that will be painted as normal
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	current.Store(l)
}

// Logger returns the logger set by SetLogger.
func Logger() *slog.Logger {
	return current.Load()
}

// renderLogger returns the logger annotated with a composite's cache key.
func renderLogger(key string) *slog.Logger {
	l := Logger()
	if !l.Enabled(context.Background(), slog.LevelWarn) {
		return l
	}
	return l.With(slog.String("key", key))
}

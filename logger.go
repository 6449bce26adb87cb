package vg

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled reports false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called while other contexts are drawing.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for vg and all its sub-packages.
// By default, vg produces no log output. Pass nil to restore the
// silent default.
//
// Log levels used by vg:
//   - [slog.LevelDebug]: per-frame statistics, flattened path dumps
//   - [slog.LevelInfo]: lifecycle events (backend created, font atlas resized)
//   - [slog.LevelWarn]: precondition violations and resource release errors
//
// Example:
//
//	vg.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by vg.
// Backends, fontstash and the script hosts share it through this call.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

package common

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discardHandler drops every record. Enabled reports false so callers skip formatting.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

var activeLogger atomic.Pointer[slog.Logger]

func init() {
	activeLogger.Store(slog.New(discardHandler{}))
}

// SetLogger installs the logger shared by every engine package.
// The engine is silent until a logger is installed; passing nil silences it again.
//
// Levels used by the engine:
//   - [slog.LevelDebug]: per-edit details (event kind, payload size, pipeline generation)
//   - [slog.LevelInfo]: lifecycle (adapter selected, loop started, loop stopped)
//   - [slog.LevelWarn]: rejected edits and skipped frames
//   - [slog.LevelError]: fatal loop exits
//
// Parameters:
//   - l: the logger to install, or nil to discard all output
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(discardHandler{})
	}
	activeLogger.Store(l)
}

// Logger returns the logger installed with SetLogger. Safe for concurrent use.
func Logger() *slog.Logger {
	return activeLogger.Load()
}

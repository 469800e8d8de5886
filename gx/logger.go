package gx

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that discards everything. Enabled returns
// false so callers skip formatting the record entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the package logger used by devices that were not
// given their own logger with WithLogger. By default gx logs nothing.
// Pass nil to restore the silent default.
//
// Log levels used by gx:
//   - [slog.LevelDebug]: device init, display list recording
//   - [slog.LevelError]: a command sink failed and the stream was cut short
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current package logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

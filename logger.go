package gd

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled reports false so callers skip
// formatting entirely.
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

// SetLogger configures the logger shared by gd and its backends.
// By default gd produces no log output. Pass nil to restore silence.
//
// Log levels used by gd:
//   - [slog.LevelDebug]: staging allocations, pool clears, buffer growth
//   - [slog.LevelInfo]: adapter creation and release
//   - [slog.LevelWarn]: replaced adapters, native failures reported as ErrUnknown
//
// Example:
//
//	gd.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Backends call it on every use so a
// later SetLogger takes effect immediately.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// Package logging builds the process slog logger and hands out
// component-scoped children.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Options selects where and how log records are written.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // text or json
	File   string // empty writes to stderr
}

// New builds a logger from opts. The returned closer releases the log file
// and is never nil.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	var w io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		if dir := filepath.Dir(opts.File); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("creating log directory: %w", err)
			}
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file %s: %w", opts.File, err)
		}
		w = f
		closer = f
	}

	return slog.New(newHandler(w, opts)), closer, nil
}

func newHandler(w io.Writer, opts Options) slog.Handler {
	ho := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}
	if strings.EqualFold(opts.Format, "json") {
		return slog.NewJSONHandler(w, ho)
	}
	return slog.NewTextHandler(w, ho)
}

// ParseLevel maps a level name to a slog level. Unknown names give info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// For returns the default logger scoped to a component.
func For(component string) *slog.Logger {
	return slog.Default().With("component", component)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Once logs a message at most once per key. Asset services use it so a
// missing file is reported a single time, not every frame.
type Once struct {
	seen sync.Map
}

// Warn logs msg at warn level the first time key is seen.
func (o *Once) Warn(log *slog.Logger, key, msg string, args ...any) {
	if _, loaded := o.seen.LoadOrStore(key, struct{}{}); loaded {
		return
	}
	log.Warn(msg, args...)
}

// Forget clears key so the next miss is logged again (used on reload).
func (o *Once) Forget(key string) {
	o.seen.Delete(key)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

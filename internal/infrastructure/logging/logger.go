package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/andrescamacho/goaltracker-go/internal/application/common"
	"github.com/andrescamacho/goaltracker-go/internal/domain/shared"
	"github.com/andrescamacho/goaltracker-go/internal/infrastructure/config"
)

// Logger adapts a slog handler to common.Logger.
//
// Identical messages repeated inside the dedup window are dropped, so a
// diagnostic emitted on every tick appears once per window.
type Logger struct {
	handler slog.Handler
	closer  io.Closer
	clock   shared.Clock

	mu           sync.Mutex
	dedupCache   map[string]time.Time
	dedupWindow  time.Duration
	dedupMaxSize int
}

// New builds a logger from configuration. Close releases the log file, if any.
func New(cfg config.LoggingConfig, clock shared.Clock) (*Logger, error) {
	var out io.Writer
	var closer io.Closer
	switch cfg.Output {
	case "", "stdout":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	case "file":
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out, closer = f, f
	default:
		return nil, fmt.Errorf("unknown log output %q", cfg.Output)
	}

	logger := NewWriterLogger(out, cfg.Format, cfg.Level, clock)
	logger.closer = closer
	return logger, nil
}

// NewWriterLogger builds a logger on an arbitrary writer. Format "text"
// selects slog's TextHandler; anything else writes JSON.
func NewWriterLogger(out io.Writer, format, level string, clock shared.Clock) *Logger {
	if clock == nil {
		clock = shared.NewRealClock()
	}

	opts := &slog.HandlerOptions{
		Level:       slogLevel(level),
		ReplaceAttr: replaceAttr,
	}
	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	return &Logger{
		handler:      handler,
		clock:        clock,
		dedupCache:   make(map[string]time.Time),
		dedupWindow:  60 * time.Second,
		dedupMaxSize: 10000,
	}
}

// SetDedupWindow changes the dedup window; zero disables dedup
func (l *Logger) SetDedupWindow(window time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dedupWindow = window
}

// slogLevel accepts both config spellings (warn) and logger constants (WARNING)
func slogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// replaceAttr keeps the level names callers log with and a full-precision timestamp
func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}
	switch a.Key {
	case slog.LevelKey:
		if level, ok := a.Value.Any().(slog.Level); ok {
			return slog.String(slog.LevelKey, levelName(level))
		}
	case slog.TimeKey:
		return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339Nano))
	}
	return a
}

func levelName(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return common.LevelDebug
	case level < slog.LevelWarn:
		return common.LevelInfo
	case level < slog.LevelError:
		return common.LevelWarn
	default:
		return common.LevelError
	}
}

// Log implements common.Logger
func (l *Logger) Log(level, message string, metadata map[string]interface{}) {
	ctx := context.Background()
	lvl := slogLevel(level)
	if !l.handler.Enabled(ctx, lvl) {
		return
	}

	now := l.clock.Now()
	if l.suppressed(level+"|"+message, now) {
		return
	}

	record := slog.NewRecord(now, lvl, message, 0)
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		record.AddAttrs(slog.Any(k, metadata[k]))
	}
	_ = l.handler.Handle(ctx, record)
}

// suppressed records key and reports whether it was already logged inside the window
func (l *Logger) suppressed(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.dedupWindow <= 0 {
		return false
	}
	if last, ok := l.dedupCache[key]; ok && now.Sub(last) < l.dedupWindow {
		return true
	}
	if len(l.dedupCache) >= l.dedupMaxSize {
		l.cleanupDedupCache(now)
	}
	l.dedupCache[key] = now
	return false
}

// cleanupDedupCache must be called while holding mu
func (l *Logger) cleanupDedupCache(now time.Time) {
	cutoff := now.Add(-l.dedupWindow)
	for key, ts := range l.dedupCache {
		if ts.Before(cutoff) {
			delete(l.dedupCache, key)
		}
	}
}

// Close releases the underlying file when logging to one
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

var _ common.Logger = (*Logger)(nil)

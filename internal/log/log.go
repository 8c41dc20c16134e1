// ABOUTME: Leveled line logger built on slog levels; prefixes each line with its level tag
// ABOUTME: Writes to stderr by default so goal output on stdout stays clean

package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
)

// Level constants matching slog levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Logger writes "[LEVEL] message" lines at or above its level.
// It satisfies the agda session's Logger hook.
type Logger struct {
	mu    sync.Mutex
	out   io.Writer
	level atomic.Int64
}

// New returns a Logger writing to w at level l.
func New(w io.Writer, l slog.Level) *Logger {
	lg := &Logger{out: w}
	lg.level.Store(int64(l))
	return lg
}

var std = New(os.Stderr, LevelInfo)

// Default returns the process wide stderr logger at info level.
func Default() *Logger { return std }

// SetLevel sets the logger's level.
func (l *Logger) SetLevel(lv slog.Level) { l.level.Store(int64(lv)) }

// Level returns the logger's level.
func (l *Logger) Level() slog.Level { return slog.Level(l.level.Load()) }

// Enabled reports whether messages at lv are written.
func (l *Logger) Enabled(lv slog.Level) bool { return lv >= l.Level() }

func (l *Logger) Debug(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *Logger) Info(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *Logger) Warn(format string, args ...any)  { l.logf(LevelWarn, format, args...) }

// Error is always emitted.
func (l *Logger) Error(format string, args ...any) { l.write(LevelError, format, args...) }

func (l *Logger) logf(lv slog.Level, format string, args ...any) {
	if !l.Enabled(lv) {
		return
	}
	l.write(lv, format, args...)
}

func (l *Logger) write(lv slog.Level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "["+lv.String()+"] "+format+"\n", args...)
}

// ABOUTME: Tests for the leveled logger
// ABOUTME: Validates level filtering, line format and the stderr default

package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSetLevel(t *testing.T) {
	t.Parallel()

	l := New(&bytes.Buffer{}, LevelInfo)
	l.SetLevel(LevelDebug)
	if l.Level() != LevelDebug {
		t.Errorf("expected LevelDebug, got %v", l.Level())
	}

	l.SetLevel(LevelError)
	if l.Level() != LevelError {
		t.Errorf("expected LevelError, got %v", l.Level())
	}
}

func TestDebugSuppressedAtInfoLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(&buf, LevelInfo)
	l.Debug("this should be suppressed: %s", "test")
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestLineFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(&buf, LevelDebug)
	l.Debug("agda <- %s", "Cmd_abort")
	l.Info("info: %d", 2)
	l.Warn("warn: %d", 3)
	l.Error("error: %d", 4)

	want := "[DEBUG] agda <- Cmd_abort\n[INFO] info: 2\n[WARN] warn: 3\n[ERROR] error: 4\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestErrorAlwaysEmitted(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(&buf, slog.Level(100))
	l.Warn("hidden")
	l.Error("shown")
	if got := buf.String(); strings.Contains(got, "hidden") || !strings.Contains(got, "shown") {
		t.Errorf("got %q", got)
	}
}

func TestDefaultLogger(t *testing.T) {
	t.Parallel()

	if Default() != std {
		t.Error("Default should return the shared logger")
	}
	if Default().Level() != LevelInfo {
		t.Errorf("expected LevelInfo, got %v", Default().Level())
	}
}

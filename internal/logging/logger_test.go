package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_RenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo)
	log.Info("load failed", "error", errors.New("boom"))
	out := buf.String()
	if !strings.Contains(out, "err=boom") || strings.Contains(out, "error=") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, slog.LevelInfo).Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug should be filtered at info level: %q", buf.String())
	}
	New(&buf, slog.LevelDebug).Debug("shown")
	if !strings.Contains(buf.String(), "msg=shown") {
		t.Fatalf("debug should pass at debug level: %q", buf.String())
	}
}

func TestNewNop(t *testing.T) {
	NewNop().Error("ignored", "error", errors.New("x"))
}

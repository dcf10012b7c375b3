package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tessro/jamp/internal/config"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "jamp.log")
	cfg := config.LogConfig{Level: "info", File: path, Format: "json", MaxSize: 1}

	logger, closeFn, err := New(cfg, Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("queue replaced")
	logger.Debug("hidden")
	if err := closeFn(); err != nil {
		t.Fatalf("close error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"msg":"queue replaced"`) {
		t.Errorf("log file missing info entry: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug entry written at info level: %s", out)
	}
}

func TestNewDebugOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jamp.log")
	cfg := config.LogConfig{Level: "error", File: path}

	logger, closeFn, err := New(cfg, Options{Debug: true})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Debug("poll tick")
	_ = closeFn()

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "poll tick") {
		t.Errorf("debug entry missing with Debug option: %s", data)
	}
}

func TestDefaultPathUsesXDGState(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	if got, want := DefaultPath(), filepath.Join("/tmp/state", "jamp", "jamp.log"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}

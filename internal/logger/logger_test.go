package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	t.Cleanup(func() { Logger = nil })

	if err := Init(Config{DataDir: dir}); err != nil {
		t.Fatalf("init: %v", err)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after Init")
	}

	Info("activity created", "label", "Reading")
	Debug("hidden at info level")

	data, err := os.ReadFile(filepath.Join(dir, "logs", "tenk.log"))
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "activity created") {
		t.Fatalf("log file missing info record: %s", data)
	}
	if strings.Contains(string(data), "hidden at info level") {
		t.Fatal("debug record should be filtered")
	}
}

func TestHelpersWithoutInit(t *testing.T) {
	Logger = nil
	// Must not panic.
	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error")
}

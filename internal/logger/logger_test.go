package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{Debug: false, ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}

	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message", "stage", "upsert")
	Error("Test error message")
}

func TestLogPath(t *testing.T) {
	got := LogPath("/tmp/habhub")
	if !strings.HasSuffix(got, filepath.Join("logs", "habhub.log")) {
		t.Errorf("unexpected log path %q", got)
	}
}

func TestHelpersAreNilSafe(t *testing.T) {
	saved := Logger
	Logger = nil
	defer func() { Logger = saved }()

	Debug("no logger")
	Info("no logger")
	Warn("no logger")
	Error("no logger")
}

func TestWarnReachesFile(t *testing.T) {
	configDir := t.TempDir()
	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatal(err)
	}

	Debug("dropped below warn level")
	Warn("entry write failed", "stage", "insert")

	data, err := os.ReadFile(LogPath(configDir))
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "entry write failed") || !strings.Contains(out, "stage=insert") {
		t.Errorf("warning missing from log file:\n%s", out)
	}
	if strings.Contains(out, "dropped below warn level") {
		t.Errorf("debug record written at warn level:\n%s", out)
	}
}

package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	t.Cleanup(func() { Close() })

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Debug("hidden debug message")
	Warn("visible warning", "key", "value")

	data, err := os.ReadFile(filepath.Join(logDir, "routineos.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "visible warning") {
		t.Errorf("expected warning in log file, got %q", out)
	}
	if strings.Contains(out, "hidden debug message") {
		t.Errorf("debug message should be filtered at warn level, got %q", out)
	}
}

func TestInitDebugModeWithLogDir(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "custom")

	if err := Init(Config{Debug: true, LogDir: logDir}); err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}
	t.Cleanup(func() { Close() })

	Debug("debug message")

	data, err := os.ReadFile(filepath.Join(logDir, "routineos.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "debug message") {
		t.Errorf("expected debug message in log file, got %q", string(data))
	}
}

func TestLoggingBeforeInit(t *testing.T) {
	Close()
	// must not panic
	Debug("a")
	Info("b")
	Warn("c")
	Error("d")
}

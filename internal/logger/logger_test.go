package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, "config")

	err := Init(Config{
		Debug:     false,
		ConfigDir: configDir,
	})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}

	if Logger == nil {
		t.Error("Logger is nil after initialization")
	}

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

func TestInitWriterLevels(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, false)

	Debug("hidden debug")
	Warn("visible warning", "habit", "Read")

	out := buf.String()
	if strings.Contains(out, "hidden debug") {
		t.Errorf("debug message written at warn level: %q", out)
	}
	if !strings.Contains(out, "visible warning") || !strings.Contains(out, "habit=Read") {
		t.Errorf("warning not written with key-values: %q", out)
	}

	buf.Reset()
	InitWriter(&buf, true)
	Debug("shown debug")
	if !strings.Contains(buf.String(), "shown debug") {
		t.Errorf("debug message missing in debug mode: %q", buf.String())
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

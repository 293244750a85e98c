package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit_WritesToFile(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "agent.log")

	cfg := Config{
		Level:    "info",
		FilePath: logFile,
		Console:  false,
	}
	if err := Init(cfg); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	Info().Msg("hello from the agent")

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "hello from the agent") {
		t.Errorf("log file missing message: %s", data)
	}
}

func TestInit_CreatesLogDirectory(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "nested", "deeper", "agent.log")

	if err := Init(Config{Level: "info", FilePath: logFile}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	Info().Msg("created")

	if _, err := os.Stat(logFile); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

// TestInit_ReInitClosesOldWriter verifies that calling Init twice
// properly closes the old file writer (hot reload path).
func TestInit_ReInitClosesOldWriter(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "agent.log")

	cfg := Config{
		Level:    "info",
		FilePath: logFile,
		Console:  false,
	}
	if err := Init(cfg); err != nil {
		t.Fatalf("first Init failed: %v", err)
	}
	Info().Msg("first message")

	if err := Init(cfg); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	Info().Msg("second message")

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "first message") {
		t.Error("log file missing 'first message'")
	}
	if !strings.Contains(content, "second message") {
		t.Error("log file missing 'second message'")
	}
}

func TestInit_InvalidLevelFallsBackToInfo(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "agent.log")

	if err := Init(Config{Level: "chatty", FilePath: logFile}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	Info().Msg("info survives")
	Debug().Msg("debug filtered")

	data, _ := os.ReadFile(logFile)
	if !strings.Contains(string(data), "info survives") {
		t.Error("info-level message should be written")
	}
	if strings.Contains(string(data), "debug filtered") {
		t.Error("debug-level message should be filtered at the info fallback level")
	}
}

func TestWithComponent(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "agent.log")

	if err := Init(Config{Level: "info", FilePath: logFile}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	log := WithComponent("probe")
	log.Info().Msg("tagged")

	data, _ := os.ReadFile(logFile)
	if !strings.Contains(string(data), `"component":"probe"`) {
		t.Errorf("component field missing: %s", data)
	}
}

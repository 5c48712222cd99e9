package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewConsoleJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "info", JSON: true, Console: &buf})

	log.Debug("hidden")
	log.Info("model analyzed", zap.Float64("volume", 8000))
	_ = log.Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line below debug level, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("console output is not JSON: %v", err)
	}
	if entry["msg"] != "model analyzed" {
		t.Errorf("unexpected msg %v", entry["msg"])
	}
	if entry["volume"] != 8000.0 {
		t.Errorf("unexpected volume field %v", entry["volume"])
	}
}

func TestNewQuietWithoutFileIsNop(t *testing.T) {
	log := New(Options{Quiet: true})
	if log.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("expected a no-op logger")
	}
}

func TestNewFileOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "idealab.log")

	cfg := DefaultFileConfig(logFile)
	cfg.Compress = false
	log := New(Options{Level: "debug", File: cfg, Quiet: true})

	log.Debug("fetching model", zap.String("source", "data-url"))
	_ = log.Sync()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "fetching model") {
		t.Errorf("log file missing entry: %s", data)
	}
}

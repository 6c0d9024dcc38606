package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"chatty", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSetup_ConsoleOnly(t *testing.T) {
	var console bytes.Buffer
	logger, closer, err := Setup(&console, slog.LevelInfo, "")
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	defer closer.Close()

	logger.Info("quiet on console")
	logger.Warn("loud on console", "task", "review")

	out := console.String()
	if strings.Contains(out, "quiet on console") {
		t.Error("Info should not reach the console at info level")
	}
	if !strings.Contains(out, "loud on console") || !strings.Contains(out, "task=review") {
		t.Errorf("Expected warning on console, got %q", out)
	}
}

func TestSetup_DebugReachesConsole(t *testing.T) {
	var console bytes.Buffer
	logger, closer, err := Setup(&console, slog.LevelDebug, "")
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	defer closer.Close()

	logger.Debug("details")
	if !strings.Contains(console.String(), "details") {
		t.Error("Debug level should be printed to console")
	}
}

func TestSetup_WithFile(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "quillcoach.log")

	logger, closer, err := Setup(&console, slog.LevelInfo, path)
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	logger.With("component", "coach").Info("Recorded submission", "submission_id", "abc")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if console.Len() != 0 {
		t.Errorf("Info should only go to the file, console got %q", console.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("Expected one JSON line, got %q: %v", data, err)
	}
	if entry["msg"] != "Recorded submission" || entry["component"] != "coach" || entry["submission_id"] != "abc" {
		t.Errorf("Unexpected log entry: %v", entry)
	}
}

func TestSetup_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "log.json")
	if _, _, err := Setup(&bytes.Buffer{}, slog.LevelInfo, path); err == nil {
		t.Error("Expected error for unwritable log path")
	}
}

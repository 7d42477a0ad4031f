package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("test-source")

	if cfg.Level != LevelInfo {
		t.Errorf("expected level INFO, got %v", cfg.Level)
	}
	if cfg.Format != "text" {
		t.Errorf("expected format text, got %s", cfg.Format)
	}
	if cfg.Output != os.Stderr {
		t.Errorf("expected output stderr")
	}
	if cfg.Source != "test-source" {
		t.Errorf("expected source test-source, got %s", cfg.Source)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	tests := []struct {
		name          string
		levelEnv      string
		formatEnv     string
		expectedLevel slog.Level
		expectedFmt   string
	}{
		{
			name:          "defaults",
			expectedLevel: LevelInfo,
			expectedFmt:   "text",
		},
		{
			name:          "debug level",
			levelEnv:      "debug",
			expectedLevel: LevelDebug,
			expectedFmt:   "text",
		},
		{
			name:          "warn level",
			levelEnv:      "warn",
			expectedLevel: LevelWarn,
			expectedFmt:   "text",
		},
		{
			name:          "warning level alias",
			levelEnv:      "warning",
			expectedLevel: LevelWarn,
			expectedFmt:   "text",
		},
		{
			name:          "error level uppercase",
			levelEnv:      "ERROR",
			expectedLevel: LevelError,
			expectedFmt:   "text",
		},
		{
			name:          "json format",
			formatEnv:     "json",
			expectedLevel: LevelInfo,
			expectedFmt:   "json",
		},
		{
			name:          "json format uppercase",
			formatEnv:     "JSON",
			expectedLevel: LevelInfo,
			expectedFmt:   "json",
		},
		{
			name:          "debug + json",
			levelEnv:      "debug",
			formatEnv:     "json",
			expectedLevel: LevelDebug,
			expectedFmt:   "json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SYMSCAN_LOG_LEVEL", tt.levelEnv)
			t.Setenv("SYMSCAN_LOG_FORMAT", tt.formatEnv)

			cfg := LoadConfigFromEnv("test")
			if cfg.Level != tt.expectedLevel {
				t.Errorf("expected level %v, got %v", tt.expectedLevel, cfg.Level)
			}
			if cfg.Format != tt.expectedFmt {
				t.Errorf("expected format %s, got %s", tt.expectedFmt, cfg.Format)
			}
		})
	}
}

func TestNewTextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  LevelInfo,
		Format: "text",
		Output: &buf,
		Source: "test",
	})

	logger.Info("hello", "key", "value")

	out := buf.String()
	if !strings.Contains(out, "hello") {
		t.Errorf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, "source=test") {
		t.Errorf("expected source attribute in output, got %q", out)
	}
}

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  LevelInfo,
		Format: "json",
		Output: &buf,
		Source: "test",
	})

	logger.Info("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "hello" {
		t.Errorf("expected msg hello, got %v", entry["msg"])
	}
	if entry["source"] != "test" {
		t.Errorf("expected source test, got %v", entry["source"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  LevelWarn,
		Format: "text",
		Output: &buf,
		Source: "test",
	})

	logger.Info("filtered out")
	if buf.Len() != 0 {
		t.Errorf("expected info below warn to be dropped, got %q", buf.String())
	}

	logger.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("expected warn to pass, got %q", buf.String())
	}
}

func TestNop(t *testing.T) {
	logger := Nop()
	// Must not panic and must accept any level.
	logger.Debug("a")
	logger.Info("b")
	logger.Warn("c")
	logger.Error("d")
}

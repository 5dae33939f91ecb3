package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"ChecksumUtility/internal/config"
)

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("report written", "path", "/tmp/checksum.txt")

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if payload["level"] != "info" || payload["msg"] != "report written" || payload["path"] != "/tmp/checksum.txt" {
		t.Fatalf("unexpected payload: %v", payload)
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key: %v", payload)
	}
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.Default()
	if _, err := NewFromConfig(&cfg); err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	if _, err := NewFromConfig(nil); err != nil {
		t.Fatalf("NewFromConfig(nil): %v", err)
	}
}

func TestNewNopDiscards(t *testing.T) {
	if NewNop().Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should not be enabled at any level")
	}
}

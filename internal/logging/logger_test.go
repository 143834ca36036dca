package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestConsoleHandlerRendersComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(&consoleHandler{writer: &buf, level: levelVar})

	logger = logger.With(String(FieldComponent, "optimizer"))
	logger.Info("post optimized", Int64(FieldPostID, 42), String("status", "success"))

	line := buf.String()
	if !strings.Contains(line, "INFO optimizer: post optimized") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "post_id=42") || !strings.Contains(line, "status=success") {
		t.Fatalf("attrs missing from line: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(&consoleHandler{writer: &buf, level: levelVar})

	logger.Warn("ledger read failed", String("reason", "disk full now"))

	if !strings.Contains(buf.String(), `reason="disk full now"`) {
		t.Fatalf("expected quoted value, got %q", buf.String())
	}
}

func TestConsoleHandlerHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelWarn)
	handler := &consoleHandler{writer: &buf, level: levelVar}

	if handler.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("info should be disabled at warn level")
	}
	if !handler.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("error should be enabled at warn level")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("should not panic", Error(nil))
}

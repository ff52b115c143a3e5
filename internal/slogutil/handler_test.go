package slogutil

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestLineHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)

	logger.Info("Operation rendered", "operation", "nft_creator", "bytes", 42)

	output := buf.String()
	for _, want := range []string{"[info]", "Operation rendered | ", "operation=nft_creator", "bytes=42"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
	if !strings.HasSuffix(output, "\n") {
		t.Error("each record should end with a newline")
	}
}

func TestLineHandler_NoAttrsNoSeparator(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, slog.LevelInfo).Info("Server stopped")

	if strings.Contains(buf.String(), "|") {
		t.Errorf("unexpected separator: %s", buf.String())
	}
}

func TestLineHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelWarn)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()
	for _, filtered := range []string{"debug message", "info message"} {
		if strings.Contains(output, filtered) {
			t.Errorf("%q should be filtered", filtered)
		}
	}
	for _, kept := range []string{"[warn] warn message", "[error] error message"} {
		if !strings.Contains(output, kept) {
			t.Errorf("%q should be included", kept)
		}
	}
}

func TestLineHandler_GroupsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo).With("subsystem", "http").WithGroup("req")

	logger.Info("Request", "status", 200)

	output := buf.String()
	if !strings.Contains(output, "subsystem=http") {
		t.Errorf("expected pre-set attr, got: %s", output)
	}
	if !strings.Contains(output, "req.status=200") {
		t.Errorf("expected group prefix, got: %s", output)
	}
}

func TestNewHandler_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, FormatJSON, slog.LevelInfo))

	logger.Info("Auth rejected", "reason", "invalid_token")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if rec["msg"] != "Auth rejected" || rec["reason"] != "invalid_token" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"off", levelSilent},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := LevelFromString(tt.input); got != tt.expected {
				t.Errorf("LevelFromString(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewDiscardLogger(t *testing.T) {
	logger := NewDiscardLogger()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("discard logger should not be enabled")
	}
}

func TestTeeHandler(t *testing.T) {
	var infoBuf, warnBuf bytes.Buffer
	logger := slog.New(NewTeeHandler(
		NewLineHandler(&infoBuf, &slog.HandlerOptions{Level: slog.LevelInfo}),
		NewLineHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)).With("subsystem", "mcp")

	logger.Info("info message")
	logger.Warn("warn message")

	if !strings.Contains(infoBuf.String(), "info message") || !strings.Contains(infoBuf.String(), "warn message") {
		t.Errorf("info handler missing records: %s", infoBuf.String())
	}
	if strings.Contains(warnBuf.String(), "info message") {
		t.Error("warn handler should not contain info message")
	}
	if !strings.Contains(warnBuf.String(), "warn message | subsystem=mcp") {
		t.Errorf("warn handler missing record or attrs: %s", warnBuf.String())
	}
}

package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func decodeLine(t *testing.T, line string) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v\nOutput: %s", err, line)
	}
	return entry
}

func TestLogger_IncludesCheckFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.WithCheck(CheckMeta{Name: "database", Target: "db:3306"}).
		Info(context.Background(), "test message")

	entry := decodeLine(t, buf.String())

	if entry["check.name"] != "database" {
		t.Errorf("expected check.name='database', got %v", entry["check.name"])
	}
	if entry["check.target"] != "db:3306" {
		t.Errorf("expected check.target='db:3306', got %v", entry["check.target"])
	}
	if entry["msg"] != "test message" {
		t.Errorf("expected msg='test message', got %v", entry["msg"])
	}
	if entry["level"] != "info" {
		t.Errorf("expected level='info', got %v", entry["level"])
	}
}

func TestLogger_OmitsEmptyTarget(t *testing.T) {
	var buf bytes.Buffer
	NewLoggerWithWriter("info", &buf).
		WithCheck(CheckMeta{Name: "filesystem"}).
		Info(context.Background(), "ok")

	entry := decodeLine(t, buf.String())
	if _, ok := entry["check.target"]; ok {
		t.Error("check.target should be omitted when empty")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", &buf)

	logger.Debug(context.Background(), "debug")
	logger.Info(context.Background(), "info")
	logger.Warn(context.Background(), "warn")
	logger.Error(context.Background(), "error")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %s", len(lines), buf.String())
	}
	if decodeLine(t, lines[0])["level"] != "warn" {
		t.Errorf("first line level = %v, want warn", decodeLine(t, lines[0])["level"])
	}
}

func TestLogger_RedactsSensitiveFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Info(context.Background(), "connect",
		Field{Key: "password", Value: "hunter2"},
		Field{Key: "dsn", Value: "https://key@sentry.example/1"},
		Field{Key: "user", Value: "root"},
	)

	entry := decodeLine(t, buf.String())
	if entry["password"] != "[REDACTED]" {
		t.Errorf("password = %v, want [REDACTED]", entry["password"])
	}
	if entry["dsn"] != "[REDACTED]" {
		t.Errorf("dsn = %v, want [REDACTED]", entry["dsn"])
	}
	if entry["user"] != "root" {
		t.Errorf("user = %v, want root", entry["user"])
	}
}

func TestLogger_WithCheckSharesWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.WithCheck(CheckMeta{Name: "a"}).Info(context.Background(), "one")
	logger.WithCheck(CheckMeta{Name: "b"}).Info(context.Background(), "two")
	logger.Info(context.Background(), "three")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if _, ok := decodeLine(t, lines[2])["check.name"]; ok {
		t.Error("base logger should not carry check fields")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"bogus", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

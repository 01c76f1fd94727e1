package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("LogLevel(%d).String() = %q, want %q", tt.level, got, tt.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"bogus", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestInitTextFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelInfo, FormatText, &buf)

	Info("Gateway", "listening on %s", ":8443")

	out := buf.String()
	if !strings.Contains(out, "listening on :8443") {
		t.Errorf("expected message in output, got: %s", out)
	}
	if !strings.Contains(out, "subsystem=Gateway") {
		t.Errorf("expected subsystem attribute in output, got: %s", out)
	}
}

func TestInitJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelInfo, FormatJSON, &buf)

	Info("Proxy", "upstream %s selected", "app-1")

	var record map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not valid JSON: %v (output: %s)", err, buf.String())
	}
	if record["msg"] != "upstream app-1 selected" {
		t.Errorf("unexpected msg field: %v", record["msg"])
	}
	if record["subsystem"] != "Proxy" {
		t.Errorf("unexpected subsystem field: %v", record["subsystem"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelWarn, FormatText, &buf)

	Debug("Config", "should be filtered")
	Info("Config", "should also be filtered")
	Warn("Config", "should appear")

	out := buf.String()
	if strings.Contains(out, "filtered") {
		t.Errorf("low-severity records should have been suppressed, got: %s", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("expected warning record in output, got: %s", out)
	}
}

func TestErrorIncludesErrAttribute(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelInfo, FormatJSON, &buf)

	Error("TLS", errTest, "reload failed for %s", "server.pem")

	var record map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if record["error"] != "boom" {
		t.Errorf("expected error attribute %q, got %v", "boom", record["error"])
	}
}

func TestReinitReplacesLogger(t *testing.T) {
	var first, second bytes.Buffer
	Init(LevelInfo, FormatText, &first)
	Init(LevelInfo, FormatText, &second)

	Info("Runtime", "after reinit")

	if first.Len() != 0 {
		t.Errorf("first writer should receive nothing after reinit, got: %s", first.String())
	}
	if !strings.Contains(second.String(), "after reinit") {
		t.Errorf("second writer should receive the record, got: %s", second.String())
	}
}

type testError struct{}

func (testError) Error() string { return "boom" }

var errTest = testError{}

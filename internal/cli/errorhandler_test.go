package cli

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestFatalMessageOnly(t *testing.T) {
	var buf bytes.Buffer
	h := NewErrorHandler(&buf, false)

	h.Fatal("Failed to start server in (production) mode", nil)

	want := "ERROR: Failed to start server in (production) mode\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestFatalExpectedErrorIsSingleLine(t *testing.T) {
	var buf bytes.Buffer
	h := NewErrorHandler(&buf, false)

	cause := &PropertyError{Option: "--plugin-geoip-db"}
	h.Fatal("", cause)

	out := buf.String()
	if !strings.Contains(out, "plugin argument --plugin-geoip-db requires a value") {
		t.Errorf("expected property error message, got: %s", out)
	}
	if strings.Contains(out, "--verbose") {
		t.Errorf("expected no verbose hint for an expected error, got: %s", out)
	}
}

func TestFatalUnexpectedErrorHintsVerbose(t *testing.T) {
	var buf bytes.Buffer
	h := NewErrorHandler(&buf, false)

	cause := fmt.Errorf("binding listener: %w", errors.New("address already in use"))
	h.Fatal("Unexpected error when starting the server in (production) mode", cause)

	out := buf.String()
	if !strings.Contains(out, "Unexpected error when starting the server in (production) mode") {
		t.Errorf("expected message line, got: %s", out)
	}
	if !strings.Contains(out, "binding listener") {
		t.Errorf("expected top-level cause, got: %s", out)
	}
	if !strings.Contains(out, "'--verbose'") {
		t.Errorf("expected verbose hint, got: %s", out)
	}
}

func TestFatalVerbosePrintsCauseChain(t *testing.T) {
	var buf bytes.Buffer
	h := NewErrorHandler(&buf, true)

	inner := errors.New("address already in use")
	cause := fmt.Errorf("binding listener: %w", inner)
	h.Fatal("Unexpected error when starting the server in (production) mode", cause)

	out := buf.String()
	lines := strings.Count(out, "ERROR:")
	if lines != 3 {
		t.Errorf("expected message plus two chain lines, got %d in: %s", lines, out)
	}
	if strings.Contains(out, "'--verbose'") {
		t.Errorf("verbose mode should not print the hint, got: %s", out)
	}
}

func TestUsagePrintsMessageCauseAndHint(t *testing.T) {
	var buf bytes.Buffer
	h := NewErrorHandler(&buf, false)

	h.Usage("Unable to parse the command line", errors.New("unknown option: '--foo'"))

	out := buf.String()
	if !strings.Contains(out, "ERROR: Unable to parse the command line") {
		t.Errorf("expected message line, got: %s", out)
	}
	if !strings.Contains(out, "unknown option: '--foo'") {
		t.Errorf("expected cause line, got: %s", out)
	}
	if !strings.Contains(out, "--help") {
		t.Errorf("expected help hint, got: %s", out)
	}
}

func TestUsageWithoutCause(t *testing.T) {
	var buf bytes.Buffer
	h := NewErrorHandler(&buf, false)

	h.Usage("", errors.New("unknown command \"strat\" for \"drawbridge\""))

	out := buf.String()
	if strings.Count(out, "ERROR:") != 1 {
		t.Errorf("expected a single error line, got: %s", out)
	}
	if !strings.Contains(out, "--help") {
		t.Errorf("expected help hint, got: %s", out)
	}
}

func TestIsExpectedCoversTypedErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"property", &PropertyError{Option: "--plugin-x"}, true},
		{"usage", &UsageError{Reason: errors.New("unknown flag: --foo")}, true},
		{"config", &ConfigError{Source: "drawbridge.yaml", Reason: errors.New("bad addr")}, true},
		{"snapshot", &SnapshotError{Path: "persisted.properties", Reason: errors.New("missing")}, true},
		{"wrapped config", fmt.Errorf("loading: %w", &ConfigError{Source: "environment", Reason: errors.New("no cert")}), true},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isExpected(tt.err); got != tt.want {
				t.Errorf("isExpected(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

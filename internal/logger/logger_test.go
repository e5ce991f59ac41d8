package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewWithWriterLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, false)
	l.Debug("hidden")
	l.Warn("shown", "alphabet", "latin")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug output without verbose: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "alphabet=latin") {
		t.Fatalf("missing warning output: %q", out)
	}

	buf.Reset()
	NewWithWriter(&buf, true).Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Fatalf("expected debug output with verbose: %q", buf.String())
	}
}

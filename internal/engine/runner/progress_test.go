package runner

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestProgress_Suppressed(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, true, 3)

	p.OnStart("main.c")
	p.OnComplete("main.c", 90, true, false, "", 800*time.Millisecond)
	p.Finish()

	if buf.Len() != 0 {
		t.Errorf("expected no output in suppressed mode, got: %q", buf.String())
	}
}

func TestProgress_FileTransitions(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, false, 2)

	p.OnStart("main.c")
	p.OnComplete("main.c", 92, true, false, "", 800*time.Millisecond)

	output := buf.String()
	if !strings.Contains(output, "⏳ main.c") {
		t.Errorf("expected start line, got %q", output)
	}
	if !strings.Contains(output, "✅ main.c  92/100  800ms") {
		t.Errorf("expected completion line with score, got %q", output)
	}
}

func TestProgress_BelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, false, 2)

	p.OnStart("parse.c")
	p.OnComplete("parse.c", 40, false, false, "", 500*time.Millisecond)
	p.Finish()

	output := buf.String()
	if !strings.Contains(output, "❌ parse.c  40/100") {
		t.Errorf("expected failure icon with score, got %q", output)
	}
	if !strings.Contains(output, "Results: 0 passed, 1 below threshold, 0 errors") {
		t.Errorf("expected summary, got %q", output)
	}
}

func TestProgress_SystemError(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, false, 1)

	p.OnComplete("net.c", 0, false, true, "provider request failed", 2*time.Second)
	p.Finish()

	output := buf.String()
	if !strings.Contains(output, "💥 net.c  provider request failed  2.0s") {
		t.Errorf("expected system error line, got %q", output)
	}
	if !strings.Contains(output, "1 errors") {
		t.Errorf("expected error count in summary, got %q", output)
	}
}

func TestProgress_Header(t *testing.T) {
	var buf bytes.Buffer
	NewProgress(&buf, false, 5)

	if !strings.Contains(buf.String(), "Analyzing 5 file(s)") {
		t.Errorf("expected header, got %q", buf.String())
	}
}

func TestProgress_NoHeaderForZeroFiles(t *testing.T) {
	var buf bytes.Buffer
	NewProgress(&buf, false, 0)

	if buf.Len() != 0 {
		t.Errorf("expected no header, got %q", buf.String())
	}
}

func TestProgress_AllPassedSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, false, 3)

	for _, name := range []string{"a.c", "b.c", "c.c"} {
		p.OnStart(name)
		p.OnComplete(name, 100, true, false, "", 100*time.Millisecond)
	}
	p.Finish()

	if !strings.Contains(buf.String(), "All 3 file(s) analyzed") {
		t.Errorf("expected all-passed summary, got %q", buf.String())
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{1500 * time.Millisecond, "1.5s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

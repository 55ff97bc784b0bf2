package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"
)

// capture enables verbose output into a buffer and restores defaults afterwards.
func capture(t *testing.T, verboseOn bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verboseOn)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)

	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}
	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name string
		log  func()
		want string
	}{
		{"debug", func() { Debug("embedding %s", "notes.md") }, "[DEBUG] embedding notes.md\n"},
		{"info", func() { Info("indexed %d documents", 3) }, "[INFO] indexed 3 documents\n"},
		{"warn", func() { Warn("document %d missing", 7) }, "[WARN] document 7 missing\n"},
		{"section", func() { Section("Semantic Search") }, "\n=== Semantic Search ===\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, true)
			tt.log()
			if buf.String() != tt.want {
				t.Errorf("unexpected output: %q", buf.String())
			}
		})
	}
}

func TestQuietWhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	Debug("hidden")
	Info("hidden")
	Section("hidden")
	Timing("hidden", time.Now())

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestWarnAlwaysWritten(t *testing.T) {
	buf := capture(t, false)

	Warn("embeddings disabled: %s", "no provider")

	if buf.String() != "[WARN] embeddings disabled: no provider\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestEnabled(t *testing.T) {
	capture(t, false)

	if Enabled(LevelDebug) || Enabled(LevelInfo) {
		t.Error("debug and info should be off without verbose")
	}
	if !Enabled(LevelWarn) {
		t.Error("warn should always be on")
	}

	SetVerbose(true)
	if !Enabled(LevelDebug) {
		t.Error("debug should be on in verbose mode")
	}
}

func TestTiming(t *testing.T) {
	buf := capture(t, true)

	Timing("embed query", time.Now().Add(-1500*time.Millisecond))

	out := buf.String()
	if !strings.HasPrefix(out, "[DEBUG] embed query took 1.5") {
		t.Errorf("unexpected timing output: %q", out)
	}
}

func TestConcurrentAccess(t *testing.T) {
	capture(t, false)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			SetVerbose(true)
			Debug("concurrent %d", i)
			IsVerbose()
			SetVerbose(false)
			done <- true
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}

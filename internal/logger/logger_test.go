package logger

import (
	"bytes"
	"io"
	"os"
	"sync"
	"testing"
)

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

func TestLevels_WhenVerbose(t *testing.T) {
	tests := []struct {
		name string
		log  func()
		want string
	}{
		{"debug", func() { Debug("loaded %s", "build") }, "[DEBUG] loaded build\n"},
		{"info", func() { Info("saved %d", 2) }, "[INFO] saved 2\n"},
		{"warn", func() { Warn("slow") }, "[WARN] slow\n"},
		{"error", func() { Error("boom") }, "[ERROR] boom\n"},
		{"section", func() { Section("Export") }, "\n=== Export ===\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, true)
			tt.log()
			if got := buf.String(); got != tt.want {
				t.Errorf("unexpected output: %q", got)
			}
		})
	}
}

func TestLevels_WhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	Debug("hidden")
	Info("hidden")
	Warn("hidden")
	Section("hidden")

	if buf.Len() > 0 {
		t.Errorf("expected no output when verbose is disabled, got %q", buf.String())
	}
}

func TestError_AlwaysPrinted(t *testing.T) {
	buf := capture(t, false)

	Error("save failed: %v", io.ErrUnexpectedEOF)

	if got := buf.String(); got != "[ERROR] save failed: unexpected EOF\n" {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestScope(t *testing.T) {
	buf := capture(t, true)
	s := For("autosave")

	s.Warn("attempt %d failed", 1)
	s.Debug("armed")

	want := "[WARN] autosave: attempt 1 failed\n[DEBUG] autosave: armed\n"
	if got := buf.String(); got != want {
		t.Errorf("unexpected output: %q", got)
	}
	if s.Name() != "autosave" {
		t.Errorf("unexpected name: %q", s.Name())
	}
}

func TestConcurrentAccess(t *testing.T) {
	SetOutput(io.Discard)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			SetVerbose(true)
			For("worker").Debug("concurrent %d", i)
			IsVerbose()
			SetVerbose(false)
		}()
	}
	wg.Wait()
}

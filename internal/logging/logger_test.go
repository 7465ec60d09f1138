package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"info", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"trace", LevelTrace},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("info", &buf)

	log.Debug("hidden")
	log.Info("visible", "job_id", 142872)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug message emitted at info level")
	}
	if !strings.Contains(out, "visible") || !strings.Contains(out, "142872") {
		t.Errorf("info message missing from output: %q", out)
	}
}

func TestNewTraceLoggerInfoLevel(t *testing.T) {
	if tl := NewTraceLogger(t.TempDir(), "info"); tl != nil {
		t.Error("NewTraceLogger at info level should return nil")
	}
}

func TestTraceLoggerNilSafe(t *testing.T) {
	var tl *TraceLogger
	tl.JobSkipped(1, "braking", errors.New("boom"))
	tl.StepDiscarded(1, "Step-2", "RF3")
	tl.SizeMismatch(1, 3, 2)
	tl.LowLoad(1, "Step-2", 12.0)
	tl.Close()
}

func TestTraceLoggerEvents(t *testing.T) {
	dir := t.TempDir()
	tl := NewTraceLogger(dir, "debug")
	if tl == nil {
		t.Fatal("NewTraceLogger returned nil at debug level")
	}

	tl.JobSkipped(142872, "braking", errors.New("file not found"))
	tl.StepDiscarded(142872, "Step-3", "UR1")
	tl.Close()

	f, err := os.Open(filepath.Join(dir, "trace.jsonl"))
	if err != nil {
		t.Fatalf("opening trace file: %v", err)
	}
	defer f.Close()

	var events []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var ev map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			t.Fatalf("invalid JSONL line %q: %v", scanner.Text(), err)
		}
		events = append(events, ev)
	}

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0]["event"] != "job_skipped" || events[0]["cause"] != "file not found" {
		t.Errorf("unexpected first event: %v", events[0])
	}
	if events[1]["event"] != "step_discarded" || events[1]["missing"] != "UR1" {
		t.Errorf("unexpected second event: %v", events[1])
	}
	for _, ev := range events {
		if _, ok := ev["time"]; !ok {
			t.Errorf("event missing time field: %v", ev)
		}
	}
}

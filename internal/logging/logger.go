// Package logging provides leveled logging and job tracing for sweeppost.
// It offers two complementary outputs:
//   - A leveled slog.Logger for stderr (operational output)
//   - A TraceLogger for structured JSONL job events (trace.jsonl in the
//     sweep's output directory), recording exactly why jobs and steps
//     were skipped so an operator can re-run just the failed subset.
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LevelTrace is a custom slog level below Debug for full per-channel output.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "info", "debug", "trace" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled slog.Logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Label the custom trace level
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// TraceLogger writes structured job events to a JSONL file. A nil
// TraceLogger is safe to use; all methods are no-ops on nil receiver.
// The pipeline is single-threaded, so no locking is needed.
type TraceLogger struct {
	file *os.File
}

// NewTraceLogger creates a trace logger writing to dir/trace.jsonl.
// At "info" level (the default), returns nil — no file is created.
// At "debug" or "trace" level, the file is opened for append.
// Returns nil if the file cannot be opened.
func NewTraceLogger(dir string, level string) *TraceLogger {
	if ParseLevel(level) == slog.LevelInfo {
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil
	}

	f, err := os.OpenFile(filepath.Join(dir, "trace.jsonl"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil
	}
	return &TraceLogger{file: f}
}

// JobSkipped records a job dropped at the job boundary.
func (tl *TraceLogger) JobSkipped(jobID int, kind string, cause error) {
	tl.log(map[string]any{
		"event":  "job_skipped",
		"job_id": jobID,
		"sweep":  kind,
		"cause":  cause.Error(),
	})
}

// StepDiscarded records a step dropped because a configured channel or
// region was missing from the run's history.
func (tl *TraceLogger) StepDiscarded(jobID int, step, missing string) {
	tl.log(map[string]any{
		"event":   "step_discarded",
		"job_id":  jobID,
		"step":    step,
		"missing": missing,
	})
}

// SizeMismatch records the truncate-to-first degraded mode: the control
// series and the extracted step list disagreed in length.
func (tl *TraceLogger) SizeMismatch(jobID int, controlLen, stepLen int) {
	tl.log(map[string]any{
		"event":       "size_mismatch",
		"job_id":      jobID,
		"control_len": controlLen,
		"step_len":    stepLen,
	})
}

// LowLoad records a sampled step whose vertical load is implausibly small.
func (tl *TraceLogger) LowLoad(jobID int, step string, rf3 float64) {
	tl.log(map[string]any{
		"event":  "low_load",
		"job_id": jobID,
		"step":   step,
		"rf3":    rf3,
	})
}

// log writes one event as a single JSONL line with a "time" field added.
// Safe to call on nil receiver.
func (tl *TraceLogger) log(event map[string]any) {
	if tl == nil || tl.file == nil {
		return
	}
	event["time"] = time.Now().UTC().Format(time.RFC3339Nano)

	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	data = append(data, '\n')
	_, _ = tl.file.Write(data)
}

// Close closes the underlying file. Safe to call on nil receiver.
func (tl *TraceLogger) Close() {
	if tl == nil || tl.file == nil {
		return
	}
	tl.file.Close()
	tl.file = nil
}

// Package extract turns a run's raw recorded history into the per-step
// channel values a report row needs: it applies the sweep kind's step
// selection, reads the configured channels, applies sign and unit
// transforms, and discards steps with incomplete recordings.
package extract

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/tiredyn/sweeppost/internal/logging"
	"github.com/tiredyn/sweeppost/internal/odb"
	"github.com/tiredyn/sweeppost/internal/steps"
)

// ErrNoUsableSteps reports a run where every selected step was discarded.
var ErrNoUsableSteps = errors.New("no usable steps")

// LowLoadThreshold is the vertical load magnitude in Newtons below which a
// sampled step is flagged as implausible. A braking or cornering sweep runs
// under a multi-kN preload, so anything smaller means the sample landed
// before the load ramp finished.
const LowLoadThreshold = 1000.0

// Result holds one run's extracted values: the kept step names and the
// transformed channel series, all in lock-step.
type Result struct {
	Steps    []string
	Channels map[string][]float64
}

// Transform applies the channel's sign and unit convention. RF3 is negated
// so compressive vertical load reads positive; UR1 converts radians to
// degrees rounded to one decimal, which is the resolution the inclination
// angle is prescribed at.
func Transform(channel string, v float64) float64 {
	switch channel {
	case "RF3":
		return -v
	case "UR1":
		return math.Round(v*180/math.Pi*10) / 10
	}
	return v
}

// Engine extracts report values from raw histories.
type Engine struct {
	outputs map[string][]string
	log     *slog.Logger
	trace   *logging.TraceLogger
}

// NewEngine creates an Engine reading the channels configured per role.
func NewEngine(outputs map[string][]string, log *slog.Logger, trace *logging.TraceLogger) *Engine {
	return &Engine{outputs: outputs, log: log, trace: trace}
}

// Extract applies the step-selection policy to the run's history and reads
// every configured channel at each selected step. A step missing any
// channel is discarded whole, so the surviving series stay rectangular.
func (e *Engine) Extract(job odb.JobRequest, hist *odb.RawHistory, policy steps.Policy) (*Result, error) {
	indices := make([]int, len(hist.StepNames))
	for i := range indices {
		indices[i] = i
	}
	selected, err := steps.Select(indices, policy)
	if err != nil {
		return nil, fmt.Errorf("selecting steps: %w", err)
	}

	roles := make([]string, 0, len(e.outputs))
	for role := range e.outputs {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	res := &Result{Channels: make(map[string][]float64)}
	for _, idx := range selected {
		step := hist.StepNames[idx]

		values := make(map[string]float64)
		missing := ""
		for _, role := range roles {
			for _, channel := range e.outputs[role] {
				series, ok := hist.Channels[channel]
				if !ok || series[idx] == nil {
					missing = channel
					break
				}
				values[channel] = Transform(channel, *series[idx])
			}
			if missing != "" {
				break
			}
		}
		if missing != "" {
			e.log.Warn("discarding step", "job_id", job.ID, "step", step, "missing", missing)
			e.trace.StepDiscarded(job.ID, step, missing)
			continue
		}

		if rf3, ok := values["RF3"]; ok && math.Abs(rf3) < LowLoadThreshold {
			e.log.Warn("vertical load implausibly low", "job_id", job.ID, "step", step, "rf3", rf3)
			e.trace.LowLoad(job.ID, step, rf3)
		}

		res.Steps = append(res.Steps, step)
		for channel, v := range values {
			res.Channels[channel] = append(res.Channels[channel], v)
		}
	}

	if len(res.Steps) == 0 {
		return nil, fmt.Errorf("%w: all %d selected steps discarded", ErrNoUsableSteps, len(selected))
	}
	return res, nil
}

// Package odb fetches raw history samples from simulation output databases.
// Extraction runs inside the simulation toolkit's own Python interpreter
// via an embedded dump script; this package owns the round trip and the
// wire format, nothing about which steps or transforms matter.
package odb

import (
	"encoding/json"
	"fmt"

	"github.com/tiredyn/sweeppost/internal/sweep"
)

// JobRequest identifies one simulation run to extract.
type JobRequest struct {
	ID   int
	Kind sweep.Kind
}

// RawHistory is the dump script's output: the recorded step names plus one
// parallel value series per channel. A nil entry means the channel was not
// recorded for that step.
type RawHistory struct {
	StepNames []string
	Channels  map[string][]*float64
}

// UnmarshalJSON decodes the dump script's flat object: a "step_name" array
// of strings and one array of nullable numbers per channel, all of equal
// length.
func (h *RawHistory) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	names, ok := raw["step_name"]
	if !ok {
		return fmt.Errorf("history output has no step_name array")
	}
	if err := json.Unmarshal(names, &h.StepNames); err != nil {
		return fmt.Errorf("decoding step_name: %w", err)
	}

	h.Channels = make(map[string][]*float64, len(raw)-1)
	for key, msg := range raw {
		if key == "step_name" {
			continue
		}
		var series []*float64
		if err := json.Unmarshal(msg, &series); err != nil {
			return fmt.Errorf("decoding channel %s: %w", key, err)
		}
		if len(series) != len(h.StepNames) {
			return fmt.Errorf("channel %s has %d values for %d steps", key, len(series), len(h.StepNames))
		}
		h.Channels[key] = series
	}
	return nil
}

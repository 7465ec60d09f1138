// Package control derives a sweep's independent variable from the per-job
// uamp control file. The file format is line oriented: a key token on one
// line, then a comma-separated record whose second field is the float
// value for that key. A key may recur, producing one value per occurrence.
package control

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/tiredyn/sweeppost/internal/sweep"
)

var (
	// ErrMissingControlKey reports a control key required by the sweep
	// kind that never occurred in the file.
	ErrMissingControlKey = errors.New("missing control key")

	// ErrControlFileParse reports a malformed control file: a key with no
	// following data line, a non-numeric value field, or unequal parallel
	// series.
	ErrControlFileParse = errors.New("control file parse error")
)

// ParseFile reads the control file at path and collects the value series
// for each requested key.
func ParseFile(path string, keys []string) (map[string][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening control file: %w", err)
	}
	defer f.Close()
	return Parse(f, keys)
}

// Parse collects the value series for each requested key from r.
// Keys absent from the input are simply absent from the result; presence
// requirements belong to Derive.
func Parse(r io.Reader, keys []string) (map[string][]float64, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading control file: %w", err)
	}

	series := make(map[string][]float64, len(keys))
	for i, line := range lines {
		for _, key := range keys {
			if !strings.Contains(line, key) {
				continue
			}
			if i+1 >= len(lines) {
				return nil, fmt.Errorf("%w: key %s has no data line", ErrControlFileParse, key)
			}
			parts := strings.Split(lines[i+1], ",")
			if len(parts) < 2 {
				return nil, fmt.Errorf("%w: key %s data line %q has no value field", ErrControlFileParse, key, lines[i+1])
			}
			value, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: key %s value %q is not a number", ErrControlFileParse, key, strings.TrimSpace(parts[1]))
			}
			series[key] = append(series[key], value)
		}
	}
	return series, nil
}

// Derive computes the control-variable series for a sweep kind from the
// parsed key series. Braking reads the slip-ratio key directly; cornering
// and freerolling derive the slip angle in degrees from the road velocity
// components.
func Derive(kind sweep.Kind, series map[string][]float64) ([]float64, error) {
	switch kind {
	case sweep.Braking:
		values := series["RIMSRY"]
		if len(values) == 0 {
			return nil, fmt.Errorf("%w: RIMSRY (required for %s)", ErrMissingControlKey, kind)
		}
		out := make([]float64, len(values))
		copy(out, values)
		return out, nil

	case sweep.Cornering, sweep.Freerolling:
		vx := series["ROADVX"]
		vy := series["ROADVY"]
		if len(vx) == 0 || len(vy) == 0 {
			return nil, fmt.Errorf("%w: ROADVX and ROADVY (required for %s)", ErrMissingControlKey, kind)
		}
		if len(vx) != len(vy) {
			return nil, fmt.Errorf("%w: ROADVX has %d values, ROADVY has %d", ErrControlFileParse, len(vx), len(vy))
		}
		out := make([]float64, len(vx))
		for i := range vx {
			out[i] = math.Atan2(vy[i], math.Abs(vx[i])) * 180 / math.Pi
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %q", sweep.ErrUnknownSweepType, kind)
}

package extract

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/tiredyn/sweeppost/internal/odb"
	"github.com/tiredyn/sweeppost/internal/steps"
	"github.com/tiredyn/sweeppost/internal/sweep"
)

func TestTransform(t *testing.T) {
	tests := []struct {
		channel string
		in      float64
		want    float64
	}{
		{"RF3", -2075.0, 2075.0},
		{"RF3", 500.0, -500.0},
		{"UR1", 0.122173, 7.0},
		{"UR1", 0.0, 0.0},
		{"RF1", 12.5, 12.5},
		{"COOR3", 0.3, 0.3},
	}
	for _, tt := range tests {
		if got := Transform(tt.channel, tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Transform(%s, %v) = %v, want %v", tt.channel, tt.in, got, tt.want)
		}
	}
}

func f(v float64) *float64 { return &v }

func testEngine() *Engine {
	outputs := map[string][]string{
		"road":        {"COOR3", "V1"},
		"road_handle": {"RF1", "RF3"},
		"rim_handle":  {"UR1"},
	}
	return NewEngine(outputs, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
}

func TestExtractLastStep(t *testing.T) {
	hist := &odb.RawHistory{
		StepNames: []string{"Step-1", "Step-2", "Step-3"},
		Channels: map[string][]*float64{
			"COOR3": {f(0.31), f(0.30), f(0.29)},
			"V1":    {f(0.0), f(15.0), f(16.0)},
			"RF1":   {f(0.0), f(-500.0), f(-520.0)},
			"RF3":   {f(-100.0), f(-2075.0), f(-2075.0)},
			"UR1":   {f(0.0), f(0.122173), f(0.122173)},
		},
	}

	res, err := testEngine().Extract(odb.JobRequest{ID: 1, Kind: sweep.Braking}, hist, steps.Last)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(res.Steps) != 1 || res.Steps[0] != "Step-3" {
		t.Fatalf("unexpected steps: %v", res.Steps)
	}
	if got := res.Channels["RF3"][0]; got != 2075.0 {
		t.Errorf("RF3 = %v, want 2075.0 (sign flipped)", got)
	}
	if got := res.Channels["UR1"][0]; got != 7.0 {
		t.Errorf("UR1 = %v, want 7.0 degrees", got)
	}
}

func TestExtractDiscardsIncompleteSteps(t *testing.T) {
	hist := &odb.RawHistory{
		StepNames: []string{"Step-1", "Step-2", "Step-3"},
		Channels: map[string][]*float64{
			"COOR3": {f(0.31), f(0.30), f(0.29)},
			"V1":    {f(0.0), f(15.0), f(16.0)},
			"RF1":   {f(0.0), f(-500.0), f(-520.0)},
			"RF3":   {f(-100.0), nil, f(-2075.0)},
			"UR1":   {f(0.0), f(0.122173), f(0.122173)},
		},
	}

	res, err := testEngine().Extract(odb.JobRequest{ID: 1, Kind: sweep.Cornering}, hist, steps.AllButFirst)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	// Step-2 has no RF3 sample, Step-1 is dropped by the policy.
	if len(res.Steps) != 1 || res.Steps[0] != "Step-3" {
		t.Fatalf("unexpected steps: %v", res.Steps)
	}
	for channel, series := range res.Channels {
		if len(series) != 1 {
			t.Errorf("channel %s has %d values, want 1", channel, len(series))
		}
	}
}

func TestExtractMissingChannelEntirely(t *testing.T) {
	hist := &odb.RawHistory{
		StepNames: []string{"Step-1"},
		Channels: map[string][]*float64{
			"COOR3": {f(0.3)},
			"V1":    {f(15.0)},
			"RF1":   {f(-500.0)},
			"RF3":   {f(-2075.0)},
			// UR1 never recorded
		},
	}

	_, err := testEngine().Extract(odb.JobRequest{ID: 1, Kind: sweep.Braking}, hist, steps.Last)
	if !errors.Is(err, ErrNoUsableSteps) {
		t.Fatalf("Extract error = %v, want ErrNoUsableSteps", err)
	}
}

func TestExtractPolicyError(t *testing.T) {
	hist := &odb.RawHistory{StepNames: []string{"Step-1"}, Channels: map[string][]*float64{}}
	_, err := testEngine().Extract(odb.JobRequest{ID: 1, Kind: sweep.Cornering}, hist, steps.AllButFirst)
	if !errors.Is(err, steps.ErrInsufficientSteps) {
		t.Fatalf("Extract error = %v, want ErrInsufficientSteps", err)
	}
}

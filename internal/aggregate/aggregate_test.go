package aggregate

import (
	"testing"

	"github.com/tiredyn/sweeppost/internal/extract"
)

func TestAppendFlattens(t *testing.T) {
	var table Table
	table.Append([]float64{-0.3, -0.25}, &extract.Result{
		Steps: []string{"Step-2", "Step-3"},
		Channels: map[string][]float64{
			"RF1": {-500.0, -520.0},
			"RF3": {2075.0, 2075.0},
		},
	})

	if table.Len() != 2 {
		t.Fatalf("Len = %d, want 2", table.Len())
	}
	rows := table.Rows()
	if rows[0].Control != -0.3 || rows[0].Values["RF1"] != -500.0 {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Control != -0.25 || rows[1].Values["RF1"] != -520.0 {
		t.Errorf("unexpected second row: %+v", rows[1])
	}
}

func TestSortAscendingByControl(t *testing.T) {
	var table Table
	table.Append([]float64{0.1}, oneRow("a"))
	table.Append([]float64{-0.3}, oneRow("b"))
	table.Append([]float64{-0.25}, oneRow("c"))

	table.Sort()
	got := []float64{}
	for _, r := range table.Rows() {
		got = append(got, r.Control)
	}
	want := []float64{-0.3, -0.25, 0.1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorted controls = %v, want %v", got, want)
		}
	}
}

func TestSortStableOnTies(t *testing.T) {
	var table Table
	table.Append([]float64{0.0}, withValue("RF1", 1.0))
	table.Append([]float64{0.0}, withValue("RF1", 2.0))

	table.Sort()
	rows := table.Rows()
	if rows[0].Values["RF1"] != 1.0 || rows[1].Values["RF1"] != 2.0 {
		t.Errorf("tie order changed: %+v", rows)
	}
}

func TestLabel(t *testing.T) {
	var table Table
	if _, _, ok := table.Label(); ok {
		t.Error("Label on empty table should report !ok")
	}

	table.Append([]float64{-0.3}, &extract.Result{
		Steps: []string{"Step-2"},
		Channels: map[string][]float64{
			"RF3": {2075.0},
			"UR1": {7.0},
		},
	})
	fz, ia, ok := table.Label()
	if !ok || fz != 2075.0 || ia != 7.0 {
		t.Errorf("Label = (%v, %v, %v), want (2075, 7, true)", fz, ia, ok)
	}
}

func oneRow(step string) *extract.Result {
	return &extract.Result{Steps: []string{step}, Channels: map[string][]float64{}}
}

func withValue(channel string, v float64) *extract.Result {
	return &extract.Result{
		Steps:    []string{"Step-1"},
		Channels: map[string][]float64{channel: {v}},
	}
}

// Package aggregate accumulates per-job extraction results into the flat,
// sorted table a sweep report is written from.
package aggregate

import (
	"sort"

	"github.com/tiredyn/sweeppost/internal/extract"
)

// Row is one report row: the control-variable value and the channel values
// sampled at the matching step.
type Row struct {
	Control float64
	Values  map[string]float64
}

// Table collects rows across every job in a sweep.
type Table struct {
	rows []Row
}

// Append flattens one job's extraction result into rows, pairing each
// selected step with its control value by index. control and res must have
// equal cardinality; the caller reconciles mismatches beforehand.
func (t *Table) Append(control []float64, res *extract.Result) {
	for i := range res.Steps {
		row := Row{Control: control[i], Values: make(map[string]float64, len(res.Channels))}
		for channel, series := range res.Channels {
			row.Values[channel] = series[i]
		}
		t.rows = append(t.rows, row)
	}
}

// Len returns the number of accumulated rows.
func (t *Table) Len() int { return len(t.rows) }

// Rows returns the accumulated rows in their current order.
func (t *Table) Rows() []Row { return t.rows }

// Sort orders rows by ascending control value. The sort is stable so jobs
// sweeping the same point keep their submission order.
func (t *Table) Sort() {
	sort.SliceStable(t.rows, func(i, j int) bool {
		return t.rows[i].Control < t.rows[j].Control
	})
}

// Label returns the vertical load and inclination angle stamped into the
// report file name, taken from the first row. ok is false when the table
// is empty or the first row lacks either channel.
func (t *Table) Label() (fz, ia float64, ok bool) {
	if len(t.rows) == 0 {
		return 0, 0, false
	}
	fz, fzOK := t.rows[0].Values["RF3"]
	ia, iaOK := t.rows[0].Values["UR1"]
	return fz, ia, fzOK && iaOK
}

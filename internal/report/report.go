// Package report writes a sweep's aggregated table as the fixed-layout CSV
// the downstream fitting tools consume. Column sets and number formats are
// part of the interface contract and must not drift.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tiredyn/sweeppost/internal/aggregate"
	"github.com/tiredyn/sweeppost/internal/sweep"
)

// FileName builds the report file name from the sweep kind and the rounded
// vertical load and inclination angle.
func FileName(kind sweep.Kind, fz, ia float64) string {
	return fmt.Sprintf("%s_Sweep_%.0fN_%.0fdeg.csv", kind.Title(), fz, ia)
}

// Write renders the table to its CSV file in dir and returns the path. The
// file appears atomically: rows are written to a temp file in dir and
// renamed into place only on success.
func Write(dir string, kind sweep.Kind, table *aggregate.Table) (string, error) {
	fz, ia, ok := table.Label()
	if !ok {
		return "", fmt.Errorf("table has no RF3/UR1 values to label the report with")
	}
	path := filepath.Join(dir, FileName(kind, fz, ia))

	tmp, err := os.CreateTemp(dir, ".report-*")
	if err != nil {
		return "", fmt.Errorf("creating report temp file: %w", err)
	}
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := render(tmp, kind, table); err != nil {
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing report temp file: %w", err)
	}
	name := tmp.Name()
	tmp = nil
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("renaming report into place: %w", err)
	}
	return path, nil
}

func render(f *os.File, kind sweep.Kind, table *aggregate.Table) error {
	var header string
	var columns []string
	var format string
	switch kind {
	case sweep.Braking:
		header = "SR, FX, LR, VX"
		columns = []string{"RF1", "COOR3", "V1"}
		format = "%8.5f, %12.5f, %12.5f, %12.5f\n"
	default:
		header = "Slip,FX,FY,FZ,MX,MZ,IA,LR,VX,VY"
		columns = []string{"RF1", "RF2", "RF3", "TM1", "TM3", "UR1", "COOR3", "V1", "V2"}
		format = "%7.2f,%10.2f,%10.2f,%10.2f,%10.2f,%10.2f,%6.2f,%10.5f,%8.3f,%8.3f\n"
	}

	if _, err := fmt.Fprintln(f, header); err != nil {
		return fmt.Errorf("writing report header: %w", err)
	}
	for i, row := range table.Rows() {
		args := make([]any, 0, len(columns)+1)
		args = append(args, row.Control)
		for _, col := range columns {
			v, ok := row.Values[col]
			if !ok {
				return fmt.Errorf("row %d has no %s value", i, col)
			}
			args = append(args, v)
		}
		if _, err := fmt.Fprintf(f, format, args...); err != nil {
			return fmt.Errorf("writing report row %d: %w", i, err)
		}
	}
	return nil
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tiredyn/sweeppost/internal/pipeline"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "sweeppost",
		Short: "Post-process tire simulation sweeps into fitting-ready CSV reports",
		Long: `sweeppost collects the results of a parameter sweep of tire simulations.

For each job it derives the swept control variable from the solver's
control file, extracts the configured history outputs from the output
database, and writes one sorted CSV report for the whole sweep.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newExpandCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, pipeline.ErrNoData) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

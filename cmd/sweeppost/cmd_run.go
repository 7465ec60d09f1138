package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tiredyn/sweeppost/internal/config"
	"github.com/tiredyn/sweeppost/internal/logging"
	"github.com/tiredyn/sweeppost/internal/odb"
	"github.com/tiredyn/sweeppost/internal/pipeline"
	"github.com/tiredyn/sweeppost/internal/rangeexpr"
	"github.com/tiredyn/sweeppost/internal/report"
	"github.com/tiredyn/sweeppost/internal/sweep"
)

func newRunCmd() *cobra.Command {
	var (
		input      string
		sweepType  string
		configPath string
		outputDir  string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process a sweep and write its CSV report",
		Long: `Run processes every job in the given id range: it derives the control
variable from each job's solver control file, extracts the configured
history outputs from its output database, and writes one sorted CSV
report named after the sweep's load and inclination angle.

Jobs that cannot be processed are skipped with a warning; the run fails
only when no job yields data (exit code 2).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := sweep.ParseKind(sweepType)
			if err != nil {
				return err
			}
			ids, err := rangeexpr.Parse(input)
			if err != nil {
				return err
			}

			cfg := config.Default()
			if cmd.Flags().Changed("config") {
				if cfg, err = config.LoadFromFile(configPath); err != nil {
					return err
				}
			} else if _, statErr := os.Stat(configPath); statErr == nil {
				if cfg, err = config.LoadFromFile(configPath); err != nil {
					return err
				}
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			level := cfg.Logging.Level
			if cmd.Flags().Changed("log-level") {
				level = logLevel
			}

			if err := os.MkdirAll(outputDir, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}

			log := logging.NewLogger(level, os.Stderr)
			trace := logging.NewTraceLogger(outputDir, level)
			defer trace.Close()

			fetcher := odb.NewScriptFetcher(cfg, outputDir, log)
			runner := pipeline.NewRunner(cfg, fetcher, log, trace)

			log.Info("starting sweep", "sweep", kind, "jobs", len(ids))
			table, err := runner.Run(cmd.Context(), ids, kind)
			if err != nil {
				return err
			}

			path, err := report.Write(outputDir, kind, table)
			if err != nil {
				return err
			}
			log.Info("report written", "path", path, "rows", table.Len())
			fmt.Println(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Job id range expression, e.g. \"142872:142875, 142879\"")
	cmd.Flags().StringVarP(&sweepType, "type", "t", "", "Sweep type: braking, cornering, or freerolling")
	cmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "Configuration file (optional; defaults apply if absent)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Directory the report is written to")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level: info, debug, or trace (overrides config)")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

// Package pipeline drives one sweep end to end: per job it derives the
// control variable, fetches and extracts the recorded history, and folds
// the rows into one sorted table. Job failures are contained; only an
// empty sweep or a configuration fault aborts the run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tiredyn/sweeppost/internal/aggregate"
	"github.com/tiredyn/sweeppost/internal/config"
	"github.com/tiredyn/sweeppost/internal/control"
	"github.com/tiredyn/sweeppost/internal/extract"
	"github.com/tiredyn/sweeppost/internal/logging"
	"github.com/tiredyn/sweeppost/internal/odb"
	"github.com/tiredyn/sweeppost/internal/paths"
	"github.com/tiredyn/sweeppost/internal/steps"
	"github.com/tiredyn/sweeppost/internal/sweep"
)

// ErrNoData reports a sweep where every job failed or produced no rows.
var ErrNoData = errors.New("no data extracted from any job")

// Runner executes sweeps.
type Runner struct {
	cfg      *config.Config
	fetcher  odb.Fetcher
	resolver *paths.Resolver
	engine   *extract.Engine
	log      *slog.Logger
	trace    *logging.TraceLogger
}

// NewRunner wires a Runner from validated configuration.
func NewRunner(cfg *config.Config, fetcher odb.Fetcher, log *slog.Logger, trace *logging.TraceLogger) *Runner {
	return &Runner{
		cfg:      cfg,
		fetcher:  fetcher,
		resolver: paths.NewResolver(cfg.Paths),
		engine:   extract.NewEngine(cfg.HistoryOutputs, log, trace),
		log:      log,
		trace:    trace,
	}
}

// Run processes every job id and returns the sorted sweep table. A job
// that cannot be processed is logged, traced, and skipped; Run fails only
// when the sweep kind is misconfigured or no job yields a row.
func (r *Runner) Run(ctx context.Context, ids []int, kind sweep.Kind) (*aggregate.Table, error) {
	policy, err := r.cfg.PolicyFor(kind)
	if err != nil {
		return nil, err
	}
	keys, err := r.cfg.UampKeysFor(kind)
	if err != nil {
		return nil, err
	}

	table := &aggregate.Table{}
	for _, id := range ids {
		r.log.Info("processing job", "job_id", id, "sweep", kind)

		ctrl, res, err := r.processJob(ctx, id, kind, keys, policy)
		if err != nil {
			r.log.Warn("skipping job", "job_id", id, "sweep", kind, "cause", err)
			r.trace.JobSkipped(id, string(kind), err)
			continue
		}
		table.Append(ctrl, res)
	}

	if table.Len() == 0 {
		return nil, fmt.Errorf("%w: %d jobs attempted", ErrNoData, len(ids))
	}
	table.Sort()
	return table, nil
}

// processJob produces one job's control series and extraction result, with
// equal cardinality guaranteed on success.
func (r *Runner) processJob(ctx context.Context, id int, kind sweep.Kind, keys []string, policy steps.Policy) ([]float64, *extract.Result, error) {
	uampPath, err := r.resolver.Resolve(id, kind, "uamp_properties")
	if err != nil {
		return nil, nil, err
	}
	series, err := control.ParseFile(uampPath, keys)
	if err != nil {
		return nil, nil, err
	}
	derived, err := control.Derive(kind, series)
	if err != nil {
		return nil, nil, err
	}
	ctrl, err := steps.Select(derived, policy)
	if err != nil {
		return nil, nil, fmt.Errorf("selecting control values: %w", err)
	}

	job := odb.JobRequest{ID: id, Kind: kind}
	hist, err := r.fetcher.Fetch(ctx, job)
	if err != nil {
		return nil, nil, err
	}
	res, err := r.engine.Extract(job, hist, policy)
	if err != nil {
		return nil, nil, err
	}

	// Discarded steps or extra control records can leave the two sides
	// unequal. Past the first entry the by-index pairing is no longer
	// trustworthy, so keep only the first of each rather than dropping
	// the job.
	if len(ctrl) != len(res.Steps) {
		r.log.Warn("control and step counts differ, keeping first entry only",
			"job_id", id, "control_len", len(ctrl), "step_len", len(res.Steps))
		r.trace.SizeMismatch(id, len(ctrl), len(res.Steps))
		ctrl = ctrl[:1]
		res.Steps = res.Steps[:1]
		for channel := range res.Channels {
			res.Channels[channel] = res.Channels[channel][:1]
		}
	}
	return ctrl, res, nil
}

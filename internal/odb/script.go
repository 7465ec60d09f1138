package odb

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/tiredyn/sweeppost/internal/config"
	"github.com/tiredyn/sweeppost/internal/paths"
)

//go:embed odbdump.py
var dumpScript []byte

// scriptConfig is the slice of configuration the dump script needs.
type scriptConfig struct {
	HistoryRegions map[string]string   `json:"history_regions"`
	HistoryOutputs map[string][]string `json:"history_outputs"`
}

// ScriptFetcher runs the embedded dump script under the simulation
// toolkit's Python interpreter and decodes the JSON it writes.
type ScriptFetcher struct {
	cfg      *config.Config
	resolver *paths.Resolver
	workDir  string
	log      *slog.Logger
}

// NewScriptFetcher creates a fetcher that materializes its temp files in
// workDir. workDir must exist and be writable.
func NewScriptFetcher(cfg *config.Config, workDir string, log *slog.Logger) *ScriptFetcher {
	return &ScriptFetcher{
		cfg:      cfg,
		resolver: paths.NewResolver(cfg.Paths),
		workDir:  workDir,
		log:      log,
	}
}

// Fetch locates the job's output database and runs the dump script against
// it. The script, its config snapshot, and the output file are written
// under unique names in the work directory and removed on every exit path.
func (f *ScriptFetcher) Fetch(ctx context.Context, job JobRequest) (*RawHistory, error) {
	odbPath, err := f.resolver.Resolve(job.ID, job.Kind, "odb")
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	scriptPath := filepath.Join(f.workDir, fmt.Sprintf("odbdump_%s.py", runID))
	cfgPath := filepath.Join(f.workDir, fmt.Sprintf("config_%s.json", runID))
	outPath := filepath.Join(f.workDir, fmt.Sprintf("%s_%d_%s.json", job.Kind, job.ID, runID))

	if err := os.WriteFile(scriptPath, dumpScript, 0o644); err != nil {
		return nil, fmt.Errorf("writing dump script: %w", err)
	}
	defer os.Remove(scriptPath)

	snapshot, err := json.Marshal(scriptConfig{
		HistoryRegions: f.cfg.HistoryRegions,
		HistoryOutputs: f.cfg.HistoryOutputs,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding script config: %w", err)
	}
	if err := os.WriteFile(cfgPath, snapshot, 0o644); err != nil {
		return nil, fmt.Errorf("writing script config: %w", err)
	}
	defer os.Remove(cfgPath)
	defer os.Remove(outPath)

	if timeout := f.cfg.Extraction.Timeout.Std(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, f.cfg.Paths.SolverCommand,
		"python", scriptPath,
		"--odb-path", odbPath,
		"--config-path", cfgPath,
		"--output-path", outPath,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	f.log.Debug("running dump script", "job_id", job.ID, "odb", odbPath)
	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("dump script timed out after %v", f.cfg.Extraction.Timeout.Std())
		}
		return nil, fmt.Errorf("dump script failed: %w (stderr: %s)", err, stderr.String())
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("reading dump output: %w", err)
	}
	var hist RawHistory
	if err := json.Unmarshal(data, &hist); err != nil {
		return nil, fmt.Errorf("decoding dump output: %w", err)
	}
	return &hist, nil
}

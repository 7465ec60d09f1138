// Package config provides the typed configuration schema for sweeppost.
// The configuration is loaded once from YAML, validated before any job
// runs, and treated as read-only afterwards.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tiredyn/sweeppost/internal/steps"
	"github.com/tiredyn/sweeppost/internal/sweep"
)

// Config is the root of the configuration document.
type Config struct {
	// Paths locates per-job files on simulation storage.
	Paths Paths `yaml:"paths"`

	// HistoryRegions maps a logical role (road, road_handle, rim_handle)
	// to the literal history-region name inside the simulation output.
	HistoryRegions map[string]string `yaml:"history_regions"`

	// HistoryOutputs maps the same logical roles to the ordered channel
	// names extracted from that region.
	HistoryOutputs map[string][]string `yaml:"history_outputs"`

	// StepSelection maps sweep kinds to step-selection policy tags.
	StepSelection StepSelection `yaml:"history_step_selection"`

	// Extraction holds control-file keys and solver invocation limits.
	Extraction Extraction `yaml:"extraction_details"`

	// Logging configures operational log verbosity.
	Logging Logging `yaml:"logging"`
}

// Paths configures config-driven file resolution.
type Paths struct {
	// JobFolder maps a platform tag ("linux", "windows") to the storage root.
	JobFolder map[string]string `yaml:"job_folder"`

	// SolverSubFolder is the solver folder glob template; the {sim_type}
	// placeholder is replaced with the title-cased sweep token.
	SolverSubFolder string `yaml:"solver_sub_folder"`

	// SolverSubFolderKeyword disambiguates when the template matches more
	// than one folder; empty means take the first match.
	SolverSubFolderKeyword string `yaml:"solver_sub_folder_keyword"`

	// SolverCommand is the simulation toolkit executable used to run the
	// embedded dump script.
	SolverCommand string `yaml:"solver_command"`

	// FileNames maps symbolic file keys to literal file names.
	FileNames map[string]string `yaml:"file_names"`
}

// StepSelection carries the per-sweep-kind policy mapping.
type StepSelection struct {
	SimTypeMapping map[string]string `yaml:"sim_type_mapping"`
}

// Extraction configures control-variable derivation and the collaborator call.
type Extraction struct {
	// UampKeys maps sweep kinds to the ordered control-file keys searched
	// for when deriving the control variable.
	UampKeys map[string][]string `yaml:"uamp_keys"`

	// Timeout bounds one job's collaborator invocation. Zero disables the
	// bound; expiry is a per-job failure, never a sweep abort.
	Timeout Duration `yaml:"timeout"`
}

// Logging configures sweeppost's log output.
type Logging struct {
	// Level is "info" (default), "debug", or "trace". Debug and above
	// additionally write a JSONL job trace next to the report.
	Level string `yaml:"level"`
}

// Duration wraps time.Duration with YAML support for strings like "10m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", node.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns the configuration shipped with sweeppost. It matches the
// production tire-model node numbering and is the baseline a config file
// overrides.
func Default() *Config {
	return &Config{
		Paths: Paths{
			JobFolder: map[string]string{
				"linux":   "/mnt/Pure/jobfolder",
				"windows": `C:\Temp`,
			},
			SolverSubFolder: "step-*-Solver_{sim_type}_*",
			SolverCommand:   "/app/abaqusnet/Commands/abq2023hf3",
			FileNames: map[string]string{
				"odb":             "main.odb",
				"uamp_properties": "uamp-properties.dat",
			},
		},
		HistoryRegions: map[string]string{
			"road":        "Node PART-1-1.99111004",
			"road_handle": "Node PART-1-1.99111005",
			"rim_handle":  "Node PART-1-1.99222000",
		},
		HistoryOutputs: map[string][]string{
			"road":        {"COOR3", "V1", "V2"},
			"road_handle": {"RF1", "RF2", "RF3", "TM1", "TM3"},
			"rim_handle":  {"UR1"},
		},
		StepSelection: StepSelection{
			SimTypeMapping: map[string]string{
				"braking":     "last",
				"cornering":   "all_but_first",
				"freerolling": "all_but_first",
			},
		},
		Extraction: Extraction{
			UampKeys: map[string][]string{
				"braking":     {"RIMSRY"},
				"cornering":   {"ROADVX", "ROADVY"},
				"freerolling": {"ROADVX", "ROADVY"},
			},
			Timeout: Duration(10 * time.Minute),
		},
		Logging: Logging{Level: "info"},
	}
}

// LoadFromFile loads configuration from a YAML file layered over Default.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Validate checks the role/channel wiring and per-kind tables once at load
// time, so a malformed configuration fails before any job runs.
func (c *Config) Validate() error {
	if len(c.Paths.JobFolder) == 0 {
		return fmt.Errorf("paths.job_folder must define at least one platform root")
	}
	for platform, root := range c.Paths.JobFolder {
		if root == "" {
			return fmt.Errorf("paths.job_folder.%s is empty", platform)
		}
	}
	if c.Paths.SolverSubFolder == "" {
		return fmt.Errorf("paths.solver_sub_folder is required")
	}
	for _, key := range []string{"odb", "uamp_properties"} {
		if c.Paths.FileNames[key] == "" {
			return fmt.Errorf("paths.file_names.%s is required", key)
		}
	}

	if len(c.HistoryOutputs) == 0 {
		return fmt.Errorf("history_outputs must name at least one role")
	}
	for role, channels := range c.HistoryOutputs {
		if c.HistoryRegions[role] == "" {
			return fmt.Errorf("history_outputs role %q has no history_regions entry", role)
		}
		if len(channels) == 0 {
			return fmt.Errorf("history_outputs role %q lists no channels", role)
		}
	}

	for kind, tag := range c.StepSelection.SimTypeMapping {
		if _, err := steps.ParsePolicy(tag); err != nil {
			return fmt.Errorf("history_step_selection for %q: %w", kind, err)
		}
	}
	for _, kind := range sweep.Kinds() {
		if _, ok := c.StepSelection.SimTypeMapping[string(kind)]; !ok {
			return fmt.Errorf("history_step_selection.sim_type_mapping missing sweep kind %q", kind)
		}
		if len(c.Extraction.UampKeys[string(kind)]) == 0 {
			return fmt.Errorf("extraction_details.uamp_keys missing sweep kind %q", kind)
		}
	}

	if c.Extraction.Timeout < 0 {
		return fmt.Errorf("extraction_details.timeout must be non-negative")
	}
	return nil
}

// PolicyFor resolves the step-selection policy for a sweep kind.
func (c *Config) PolicyFor(kind sweep.Kind) (steps.Policy, error) {
	tag, ok := c.StepSelection.SimTypeMapping[string(kind)]
	if !ok {
		return "", fmt.Errorf("no step-selection policy configured for sweep kind %q", kind)
	}
	return steps.ParsePolicy(tag)
}

// UampKeysFor resolves the ordered control-file keys for a sweep kind.
func (c *Config) UampKeysFor(kind sweep.Kind) ([]string, error) {
	keys, ok := c.Extraction.UampKeys[string(kind)]
	if !ok || len(keys) == 0 {
		return nil, fmt.Errorf("no uamp keys configured for sweep kind %q", kind)
	}
	return keys, nil
}

// Package paths resolves per-job files on simulation storage from the
// configured layout: platform root / job id / templated solver subfolder /
// file name. The solver subfolder is a glob pattern; an optional keyword
// picks between multiple matching folders.
package paths

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/tiredyn/sweeppost/internal/config"
	"github.com/tiredyn/sweeppost/internal/sweep"
)

var (
	// ErrFileNotFound reports that no file matched the resolved pattern.
	// The wrapped message carries the attempted pattern for diagnostics.
	ErrFileNotFound = errors.New("file not found")

	// ErrUnknownPlatform reports a host platform with no configured root.
	ErrUnknownPlatform = errors.New("no storage root configured for platform")
)

// Resolver locates per-job files according to the paths configuration.
type Resolver struct {
	cfg  config.Paths
	goos string
}

// NewResolver creates a Resolver for the current platform.
func NewResolver(cfg config.Paths) *Resolver {
	return &Resolver{cfg: cfg, goos: runtime.GOOS}
}

// Root returns the storage root for the host platform. Anything that is
// not Windows uses the "linux" root, matching how the sweep storage is
// mounted on the compute clusters.
func (r *Resolver) Root() (string, error) {
	platform := "linux"
	if r.goos == "windows" {
		platform = "windows"
	}
	root := r.cfg.JobFolder[platform]
	if root == "" {
		return "", fmt.Errorf("%w: %s", ErrUnknownPlatform, platform)
	}
	return root, nil
}

// Resolve returns the single path for a job's file. fileKey is looked up
// in the configured file-name table; an unknown key is treated as a
// literal file name.
func (r *Resolver) Resolve(jobID int, kind sweep.Kind, fileKey string) (string, error) {
	root, err := r.Root()
	if err != nil {
		return "", err
	}

	fileName := r.cfg.FileNames[fileKey]
	if fileName == "" {
		fileName = fileKey
	}

	sub := strings.ReplaceAll(r.cfg.SolverSubFolder, "{sim_type}", kind.Title())
	pattern := filepath.Join(root, strconv.Itoa(jobID), sub, fileName)

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", fmt.Errorf("globbing %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: pattern %q", ErrFileNotFound, pattern)
	}

	if keyword := strings.TrimSpace(r.cfg.SolverSubFolderKeyword); keyword != "" {
		for _, m := range matches {
			if strings.Contains(filepath.Dir(m), keyword) {
				return m, nil
			}
		}
		return "", fmt.Errorf("%w: no match for pattern %q contains keyword %q", ErrFileNotFound, pattern, keyword)
	}

	// filepath.Glob returns sorted matches, so this is deterministic.
	return matches[0], nil
}

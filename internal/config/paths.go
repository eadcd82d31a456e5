// Package config defines the on-disk layout snapback maintains around a
// watch root and the default ignore rules seeded for a fresh setup.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// StoreDirName is the flat directory backups are written into.
	StoreDirName = "backups"
	// StateDirName holds the PID file, activity log and backup index.
	StateDirName = ".snapback"
	// IgnoreFileName is the per-root ignore rule file.
	IgnoreFileName = ".backupignore"
	// ReportsDirName is the output directory used by the companion
	// reporting scripts; the watcher never backs it up.
	ReportsDirName = "reports"
)

// Paths is the supervisor state for one watch root: every file the tool
// reads or writes outside the watched tree's own content lives here. All
// fields are absolute paths derived from Root.
type Paths struct {
	Root       string
	StoreDir   string
	StateDir   string
	ReportsDir string
	PIDFile    string
	LogFile    string
	DBPath     string
	IgnoreFile string
}

// NewPaths builds the Paths layout for root. An empty root means the
// current working directory. The root must exist and be a directory.
func NewPaths(root string) (Paths, error) {
	if root == "" {
		root = "."
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return Paths{}, fmt.Errorf("failed to resolve watch root: %w", err)
	}

	fi, err := os.Stat(abs)
	if err != nil {
		return Paths{}, fmt.Errorf("watch root %s: %w", abs, err)
	}
	if !fi.IsDir() {
		return Paths{}, fmt.Errorf("watch root %s is not a directory", abs)
	}

	state := filepath.Join(abs, StateDirName)
	return Paths{
		Root:       abs,
		StoreDir:   filepath.Join(abs, StoreDirName),
		StateDir:   state,
		ReportsDir: filepath.Join(abs, ReportsDirName),
		PIDFile:    filepath.Join(state, "watch.pid"),
		LogFile:    filepath.Join(state, "activity.log"),
		DBPath:     filepath.Join(state, "index.db"),
		IgnoreFile: filepath.Join(abs, IgnoreFileName),
	}, nil
}

// EnsureStateDir creates the state directory if it does not exist.
func (p Paths) EnsureStateDir() error {
	if err := os.MkdirAll(p.StateDir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	return nil
}

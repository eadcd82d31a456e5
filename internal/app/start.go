package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/snapback/internal/backup"
	"github.com/blackwell-systems/snapback/internal/config"
	"github.com/blackwell-systems/snapback/internal/ignore"
	"github.com/blackwell-systems/snapback/internal/output"
	"github.com/blackwell-systems/snapback/internal/store"
	"github.com/blackwell-systems/snapback/internal/watcher"
)

var (
	startForeground  bool
	startDaemonChild bool

	startCmd = &cobra.Command{
		Use:   "start [root]",
		Short: "Start the backup watcher",
		Long: `Start watching a directory tree for file writes.

Every completed content write under the watch root is copied into backups/
under a timestamped name, unless the path matches a .backupignore rule. The
watcher runs as a detached background process by default; its PID is kept in
.snapback/watch.pid and its output goes to .snapback/activity.log.

Starting is idempotent: if a watcher is already running for this root, start
reports its PID and exits successfully without launching a duplicate. Edits
to .backupignore require a restart to take effect.`,
		Example: `  # Watch the current directory in the background
  snapback start

  # Watch an explicit directory
  snapback start ~/projects/demo

  # Run attached to the terminal (Ctrl+C to stop)
  snapback start --foreground`,
		Args: cobra.MaximumNArgs(1),
		RunE: runStart,
	}
)

func init() {
	startCmd.Flags().BoolVar(&startForeground, "foreground", false, "run in the foreground instead of daemonizing")
	startCmd.Flags().BoolVar(&startDaemonChild, "daemon-child", false, "internal flag for daemon child process")

	// Hide the internal daemon-child flag from help
	startCmd.Flags().MarkHidden("daemon-child")
}

func runStart(cmd *cobra.Command, args []string) error {
	paths, err := resolvePaths(args)
	if err != nil {
		return err
	}

	// The daemon child must not re-check the PID file: its parent
	// already did, and the child is the one expected to write it.
	if startDaemonChild {
		return runDaemonChild(paths)
	}

	running, err := watcher.IsDaemonRunning(paths.PIDFile)
	if err != nil {
		return fmt.Errorf("failed to check watcher status: %w", err)
	}
	if running {
		// Duplicate start is expected, not an error.
		pid, _ := watcher.ReadPIDFile(paths.PIDFile)
		fmt.Printf("Watcher already running (PID %d)\n", pid)
		return nil
	}

	if startForeground {
		return runForeground(paths)
	}

	spinner := output.NewSpinner("Starting watcher...")
	pid, err := watcher.StartDaemon(paths)
	if err != nil {
		spinner.Stop()
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	spinner.StopWithMessage("✓ Watcher started")

	fmt.Printf("\nWatching %s (PID %d)\n", paths.Root, pid)
	fmt.Printf("  Backups:  %s\n", paths.StoreDir)
	fmt.Printf("  Log:      %s\n", paths.LogFile)
	fmt.Printf("\nTo stop: snapback stop\n")

	return nil
}

// buildWatcher assembles the watcher with its ignore rules, backup writer
// and record index for the given root.
func buildWatcher(paths config.Paths) (*watcher.Watcher, *store.Store, error) {
	if err := paths.EnsureStateDir(); err != nil {
		return nil, nil, err
	}

	matcher, err := ignore.Load(paths.IgnoreFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load ignore rules: %w", err)
	}

	st, err := store.New(paths.DBPath)
	if err != nil {
		return nil, nil, err
	}
	if err := st.CreateSchema(); err != nil {
		st.Close()
		return nil, nil, err
	}

	w, err := watcher.New(watcher.Config{
		Paths:   paths,
		Matcher: matcher,
		Writer:  backup.NewWriter(paths.Root, paths.StoreDir, paths.LogFile),
		Index:   st,
	})
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	return w, st, nil
}

// runDaemonChild runs as the detached daemon process. Its stdout/stderr
// are already redirected to the activity log, so it stays quiet and lets
// RunDaemon handle the PID file and signals.
func runDaemonChild(paths config.Paths) error {
	w, st, err := buildWatcher(paths)
	if err != nil {
		return err
	}
	defer st.Close()

	return w.RunDaemon(paths.PIDFile)
}

// runForeground runs the watcher attached to the terminal. The PID file is
// still written so stop and status work the same as in daemon mode.
func runForeground(paths config.Paths) error {
	w, st, err := buildWatcher(paths)
	if err != nil {
		return err
	}
	defer st.Close()

	fmt.Printf("Watching %s (press Ctrl+C to stop)...\n", paths.Root)
	fmt.Printf("  Backups: %s\n\n", paths.StoreDir)

	return w.RunDaemon(paths.PIDFile)
}

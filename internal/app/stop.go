package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/snapback/internal/output"
	"github.com/blackwell-systems/snapback/internal/watcher"
)

var stopCmd = &cobra.Command{
	Use:   "stop [root]",
	Short: "Stop the backup watcher",
	Long: `Stop the background watcher for a watch root.

Stopping is idempotent: if no watcher is running this reports "not running"
and exits successfully. A stale PID file left behind by a crashed watcher is
cleaned up silently. A live watcher receives SIGTERM addressed to its whole
process group, which also takes down any helper processes it spawned.`,
	Example: `  # Stop the watcher for the current directory
  snapback stop`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStop,
}

func runStop(cmd *cobra.Command, args []string) error {
	paths, err := resolvePaths(args)
	if err != nil {
		return err
	}

	spinner := output.NewSpinner("Stopping watcher...")
	result, pid, err := watcher.StopDaemon(paths.PIDFile)
	if err != nil {
		spinner.Stop()
		return fmt.Errorf("failed to stop watcher: %w", err)
	}

	switch result {
	case watcher.StopNotRunning:
		spinner.StopWithMessage("Watcher is not running")
	case watcher.StopCleanedStale:
		spinner.StopWithMessage("Watcher is not running (cleaned up stale PID file)")
	case watcher.StopSignaled:
		spinner.StopWithMessage(fmt.Sprintf("✓ Watcher stopped (PID %d)", pid))
	}

	return nil
}

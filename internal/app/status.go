package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/snapback/internal/output"
	"github.com/blackwell-systems/snapback/internal/store"
	"github.com/blackwell-systems/snapback/internal/watcher"
)

// recentLimit caps the backup listing in the status output.
const recentLimit = 10

var statusCmd = &cobra.Command{
	Use:   "status [root]",
	Short: "Check watcher status and recent backups",
	Long: `Display the current status of the backup watcher for a watch root.

Shows:
  • Watcher running status and PID
  • Watch root, backup store and activity log locations
  • Backup totals and the most recent backups (newest first)

Status is a best-effort snapshot: a backup in flight while status runs may
not appear until the next query.`,
	Example: `  # Check status
  snapback status`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	paths, err := resolvePaths(args)
	if err != nil {
		return err
	}

	running, err := watcher.IsDaemonRunning(paths.PIDFile)
	if err != nil {
		return fmt.Errorf("failed to check watcher status: %w", err)
	}

	const label = "%-10s"

	fmt.Println()

	if running {
		pid, _ := watcher.ReadPIDFile(paths.PIDFile)
		fmt.Printf(label+"running (since %s, PID %d)\n", "Watcher:", watcherSince(paths.PIDFile), pid)
	} else {
		fmt.Printf(label+"stopped  (run 'snapback start')\n", "Watcher:")
	}

	fmt.Printf(label+"%s\n", "Root:", paths.Root)
	fmt.Printf(label+"%s\n", "Store:", paths.StoreDir)
	fmt.Printf(label+"%s\n", "Log:", paths.LogFile)

	if _, err := os.Stat(paths.DBPath); os.IsNotExist(err) {
		fmt.Printf(label+"none recorded yet\n", "Backups:")
		fmt.Println()
		return nil
	}

	st, err := store.New(paths.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open backup index: %w", err)
	}
	defer st.Close()

	totals, err := st.BackupTotals()
	if err != nil {
		return err
	}

	sinceStr := ""
	if totals.Since != nil {
		sinceStr = fmt.Sprintf(" since %s", totals.Since.Format("2006-01-02"))
	}
	fmt.Printf(label+"%d total · %s%s\n", "Backups:", totals.Count, output.FormatSize(totals.TotalBytes), sinceStr)

	recent, err := st.RecentBackups(recentLimit)
	if err != nil {
		return err
	}
	if len(recent) > 0 {
		fmt.Println()
		fmt.Print(output.RenderBackupTable(recent))
	}

	fmt.Println()
	return nil
}

// watcherSince returns a human-readable age of the PID file (proxy for
// watcher start time).
func watcherSince(pidFile string) string {
	fi, err := os.Stat(pidFile)
	if err != nil {
		return "unknown"
	}
	return output.FormatRelativeTime(fi.ModTime())
}

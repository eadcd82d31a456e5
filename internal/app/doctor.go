package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/snapback/internal/ignore"
	"github.com/blackwell-systems/snapback/internal/store"
	"github.com/blackwell-systems/snapback/internal/watcher"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor [root]",
	Short: "Diagnose common issues and check setup health",
	Long: `Runs diagnostic checks for a watch root.

Checks:
  • Watch root exists and is readable
  • Backup store directory can be created
  • Filesystem notification subsystem is available
  • Ignore file is present and parseable
  • Watcher daemon liveness and index database health`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Println("Running snapback diagnostics...")
	fmt.Println()

	// Critical issues would stop the watcher from starting; warnings
	// mean it runs but the setup is incomplete.
	criticalIssues := 0
	warningIssues := 0

	paths, err := resolvePaths(args)
	if err != nil {
		fmt.Println("✗ Watch root error:", err)
		fmt.Printf("\nFound 1 critical issue.\n")
		return fmt.Errorf("diagnostics failed")
	}
	fmt.Println("✓ Watch root found:", paths.Root)

	// Check 1: Root readable
	if _, err := os.ReadDir(paths.Root); err != nil {
		fmt.Println("✗ Watch root not readable:", err)
		criticalIssues++
	} else {
		fmt.Println("✓ Watch root readable")
	}

	// Check 2: Backup store creatable
	if err := os.MkdirAll(paths.StoreDir, 0755); err != nil {
		fmt.Println("✗ Cannot create backup store:", err)
		criticalIssues++
	} else {
		fmt.Println("✓ Backup store writable:", paths.StoreDir)
	}

	// Check 3: Notification subsystem
	if err := watcher.ProbeNotifications(paths.Root); err != nil {
		fmt.Println("✗ Filesystem notifications unavailable:", err)
		criticalIssues++
	} else {
		fmt.Println("✓ Filesystem notifications available")
	}

	// Check 4: Ignore file
	if _, err := os.Stat(paths.IgnoreFile); os.IsNotExist(err) {
		fmt.Println("⚠ No ignore file — every write will be backed up")
		fmt.Println("  Action: Run 'snapback init' to seed default rules")
		warningIssues++
	} else if m, err := ignore.Load(paths.IgnoreFile); err != nil {
		fmt.Println("⚠ Ignore file unreadable:", err)
		warningIssues++
	} else {
		fmt.Printf("✓ Ignore file loaded (%d rules)\n", m.Rules())
	}

	// Check 5: Watcher liveness
	running, _ := watcher.IsDaemonRunning(paths.PIDFile)
	if running {
		pid, _ := watcher.ReadPIDFile(paths.PIDFile)
		fmt.Printf("✓ Watcher running (PID %d)\n", pid)
	} else {
		fmt.Println("⚠ Watcher not running")
		fmt.Println("  Action: Run 'snapback start'")
		warningIssues++
	}

	// Check 6: Index database, when one exists
	if _, err := os.Stat(paths.DBPath); err == nil {
		st, err := store.New(paths.DBPath)
		if err != nil {
			fmt.Println("⚠ Backup index unreadable:", err)
			warningIssues++
		} else {
			totals, terr := st.BackupTotals()
			st.Close()
			if terr != nil {
				fmt.Println("⚠ Backup index query failed:", terr)
				warningIssues++
			} else {
				fmt.Printf("✓ Backup index healthy (%d records)\n", totals.Count)
			}
		}
	}

	fmt.Println()
	if criticalIssues > 0 {
		fmt.Printf("Found %d critical issue(s) and %d warning(s).\n", criticalIssues, warningIssues)
		return fmt.Errorf("diagnostics failed")
	}
	if warningIssues > 0 {
		fmt.Printf("Found %d warning(s). Watching works but setup is incomplete.\n", warningIssues)
		return nil
	}
	fmt.Println("All checks passed.")
	return nil
}

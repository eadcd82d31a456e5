package app

import (
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/snapback/internal/config"
)

var (
	rootFlag string

	// RootCmd is the root command for snapback
	RootCmd = &cobra.Command{
		Use:   "snapback",
		Short: "Automatic timestamped backups of files as you edit them",
		Long: `snapback watches a directory tree and stores a timestamped copy of every
file the moment it is written, giving you a local safety net of point-in-time
versions without any VCS ceremony.

A background watcher receives filesystem notifications, filters paths through
the .backupignore rules, and copies each changed file into backups/ under a
name like main.py_2025_03_01_14:02:33. Every backup is also recorded in a
local index so 'snapback status' can show recent activity instantly.

Quick Start:
  1. snapback init      # seed .backupignore with sensible defaults
  2. snapback start     # start the background watcher
  3. edit files as usual
  4. snapback status    # see what has been backed up

Commands:
  # Seed the ignore file
  snapback init

  # Start watching the current directory
  snapback start

  # Check the watcher and recent backups
  snapback status

  # Stop the watcher
  snapback stop

  # Diagnose setup problems
  snapback doctor`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "watch root directory (default: current directory)")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2

	// Register subcommands
	RootCmd.AddCommand(startCmd)
	RootCmd.AddCommand(stopCmd)
	RootCmd.AddCommand(statusCmd)
	RootCmd.AddCommand(initCmd)
	RootCmd.AddCommand(doctorCmd)
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// resolvePaths builds the path layout from the --root flag or an optional
// positional root argument. The positional argument wins when both are
// given.
func resolvePaths(args []string) (config.Paths, error) {
	root := rootFlag
	if len(args) > 0 {
		root = args[0]
	}
	return config.NewPaths(root)
}

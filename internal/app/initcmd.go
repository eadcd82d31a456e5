package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/snapback/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [root]",
	Short: "Seed the ignore file with default rules",
	Long: `Create a .backupignore file in the watch root with sensible defaults.

The seeded rules exclude VCS metadata, dependency and build-output
directories, editor state, log files, and snapback's own files. An existing
ignore file is never overwritten. The watcher reads the rules once at
startup, so restart it after editing them.`,
	Example: `  # Seed the current directory
  snapback init`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	paths, err := resolvePaths(args)
	if err != nil {
		return err
	}

	wrote, err := config.WriteDefaultIgnoreFile(paths.IgnoreFile)
	if err != nil {
		return err
	}

	if !wrote {
		fmt.Printf("Ignore file already exists: %s\n", paths.IgnoreFile)
		return nil
	}

	fmt.Printf("✓ Seeded %s with %d default rules\n", paths.IgnoreFile, len(config.DefaultIgnoreRules))
	fmt.Println("\nNext: snapback start")
	return nil
}

package app

import (
	"os"
	"testing"

	"github.com/blackwell-systems/snapback/internal/watcher"
)

func TestStopCommand(t *testing.T) {
	if stopCmd.Use != "stop [root]" {
		t.Errorf("expected Use to be 'stop [root]', got '%s'", stopCmd.Use)
	}
	if stopCmd.RunE == nil {
		t.Error("expected RunE to be set")
	}
}

func TestRunStop_NotRunning(t *testing.T) {
	rootFlag = t.TempDir()
	defer func() { rootFlag = "" }()

	// stop with no PID file is a successful no-op.
	if err := runStop(stopCmd, nil); err != nil {
		t.Errorf("runStop() error = %v, want nil when not running", err)
	}
}

func TestRunStop_CleansStalePIDFile(t *testing.T) {
	root := t.TempDir()
	rootFlag = root
	defer func() { rootFlag = "" }()

	paths, err := resolvePaths(nil)
	if err != nil {
		t.Fatalf("resolvePaths() error = %v", err)
	}
	if err := paths.EnsureStateDir(); err != nil {
		t.Fatalf("EnsureStateDir() error = %v", err)
	}
	if err := watcher.WritePIDFile(paths.PIDFile, 999999); err != nil {
		t.Fatalf("WritePIDFile() error = %v", err)
	}

	if err := runStop(stopCmd, nil); err != nil {
		t.Errorf("runStop() error = %v, want nil for stale PID", err)
	}
	if _, err := os.Stat(paths.PIDFile); !os.IsNotExist(err) {
		t.Error("stale PID file was not removed")
	}

	// A second stop is still a successful no-op.
	if err := runStop(stopCmd, nil); err != nil {
		t.Errorf("second runStop() error = %v, want nil", err)
	}
}

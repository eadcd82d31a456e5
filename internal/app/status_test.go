package app

import (
	"os"
	"testing"
	"time"

	"github.com/blackwell-systems/snapback/internal/backup"
	"github.com/blackwell-systems/snapback/internal/store"
	"github.com/blackwell-systems/snapback/internal/watcher"
)

func TestStatusCommand(t *testing.T) {
	if statusCmd.Use != "status [root]" {
		t.Errorf("expected Use to be 'status [root]', got '%s'", statusCmd.Use)
	}
	if statusCmd.RunE == nil {
		t.Error("expected RunE to be set")
	}
}

func TestRunStatus_FreshRoot(t *testing.T) {
	rootFlag = t.TempDir()
	defer func() { rootFlag = "" }()

	// No watcher, no index: status still succeeds.
	if err := runStatus(statusCmd, nil); err != nil {
		t.Errorf("runStatus() error = %v, want nil for fresh root", err)
	}
}

func TestRunStatus_WithRecordsAndLivePID(t *testing.T) {
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

	// Simulate a running watcher with the test's own PID.
	if err := watcher.WritePIDFile(paths.PIDFile, os.Getpid()); err != nil {
		t.Fatalf("WritePIDFile() error = %v", err)
	}

	st, err := store.New(paths.DBPath)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	if err := st.CreateSchema(); err != nil {
		st.Close()
		t.Fatalf("CreateSchema() error = %v", err)
	}
	err = st.InsertBackup(&backup.Record{
		RelPath:   "main.py",
		DestName:  "main.py_2025_03_01_12:00:00",
		SizeBytes: 42,
		Timestamp: time.Now(),
	})
	st.Close()
	if err != nil {
		t.Fatalf("InsertBackup() error = %v", err)
	}

	if err := runStatus(statusCmd, nil); err != nil {
		t.Errorf("runStatus() error = %v, want nil with records present", err)
	}

	// Status must not clean up the PID file of a live process.
	if _, err := os.Stat(paths.PIDFile); err != nil {
		t.Errorf("PID file missing after status: %v", err)
	}
}

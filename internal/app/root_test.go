package app

import (
	"path/filepath"
	"testing"
)

func TestRootCommand(t *testing.T) {
	if RootCmd.Use != "snapback" {
		t.Errorf("expected Use to be 'snapback', got '%s'", RootCmd.Use)
	}
	if !RootCmd.SilenceUsage || !RootCmd.SilenceErrors {
		t.Error("expected SilenceUsage and SilenceErrors to be set")
	}

	// All verbs registered.
	want := map[string]bool{"start": false, "stop": false, "status": false, "init": false, "doctor": false}
	for _, c := range RootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestResolvePaths_PositionalWinsOverFlag(t *testing.T) {
	flagRoot := t.TempDir()
	argRoot := t.TempDir()

	rootFlag = flagRoot
	defer func() { rootFlag = "" }()

	paths, err := resolvePaths([]string{argRoot})
	if err != nil {
		t.Fatalf("resolvePaths() error = %v", err)
	}
	if paths.Root != argRoot {
		t.Errorf("Root = %q, want positional %q", paths.Root, argRoot)
	}
}

func TestResolvePaths_FlagUsed(t *testing.T) {
	flagRoot := t.TempDir()

	rootFlag = flagRoot
	defer func() { rootFlag = "" }()

	paths, err := resolvePaths(nil)
	if err != nil {
		t.Fatalf("resolvePaths() error = %v", err)
	}
	if paths.Root != flagRoot {
		t.Errorf("Root = %q, want flag %q", paths.Root, flagRoot)
	}
	if filepath.Dir(paths.PIDFile) != paths.StateDir {
		t.Errorf("PIDFile %q not inside state dir %q", paths.PIDFile, paths.StateDir)
	}
}

func TestResolvePaths_MissingRoot(t *testing.T) {
	rootFlag = filepath.Join(t.TempDir(), "does-not-exist")
	defer func() { rootFlag = "" }()

	if _, err := resolvePaths(nil); err == nil {
		t.Error("resolvePaths() error = nil, want error for missing root")
	}
}

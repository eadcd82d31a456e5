package app

import (
	"testing"
)

func TestStartCommand(t *testing.T) {
	if startCmd.Use != "start [root]" {
		t.Errorf("expected Use to be 'start [root]', got '%s'", startCmd.Use)
	}
	if startCmd.Short == "" {
		t.Error("expected Short description to be set")
	}
	if startCmd.Long == "" {
		t.Error("expected Long description to be set")
	}
	if startCmd.Example == "" {
		t.Error("expected Example to be set")
	}
	if startCmd.RunE == nil {
		t.Error("expected RunE to be set")
	}
}

func TestStartCommandFlags(t *testing.T) {
	tests := []struct {
		name         string
		flagName     string
		shouldHidden bool
	}{
		{
			name:         "foreground flag",
			flagName:     "foreground",
			shouldHidden: false,
		},
		{
			name:         "daemon-child flag",
			flagName:     "daemon-child",
			shouldHidden: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := startCmd.Flags().Lookup(tt.flagName)
			if flag == nil {
				t.Fatalf("flag %q not found", tt.flagName)
			}
			if flag.Hidden != tt.shouldHidden {
				t.Errorf("flag %q hidden = %v, want %v", tt.flagName, flag.Hidden, tt.shouldHidden)
			}
		})
	}
}

func TestBuildWatcher(t *testing.T) {
	root := t.TempDir()
	rootFlag = root
	defer func() { rootFlag = "" }()

	paths, err := resolvePaths(nil)
	if err != nil {
		t.Fatalf("resolvePaths() error = %v", err)
	}

	w, st, err := buildWatcher(paths)
	if err != nil {
		t.Fatalf("buildWatcher() error = %v", err)
	}
	defer st.Close()

	if w == nil {
		t.Fatal("buildWatcher() returned nil watcher")
	}

	// The state dir must exist so the daemon can write its PID file.
	if _, err := st.BackupTotals(); err != nil {
		t.Errorf("index not usable after buildWatcher: %v", err)
	}
}

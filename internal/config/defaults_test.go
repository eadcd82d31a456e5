package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteDefaultIgnoreFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".backupignore")

	wrote, err := WriteDefaultIgnoreFile(path)
	if err != nil {
		t.Fatalf("WriteDefaultIgnoreFile() error = %v", err)
	}
	if !wrote {
		t.Fatal("WriteDefaultIgnoreFile() wrote = false, want true for fresh file")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read seeded file: %v", err)
	}
	content := string(data)

	for _, rule := range DefaultIgnoreRules {
		if !strings.Contains(content, rule+"\n") {
			t.Errorf("seeded file missing rule %q", rule)
		}
	}
	// The tool must never track its own output.
	for _, self := range []string{StoreDirName + "/", StateDirName + "/", IgnoreFileName} {
		if !strings.Contains(content, self+"\n") {
			t.Errorf("seeded file missing self-exclusion %q", self)
		}
	}
}

func TestWriteDefaultIgnoreFile_NoOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".backupignore")
	if err := os.WriteFile(path, []byte("mine\n"), 0644); err != nil {
		t.Fatalf("failed to write existing file: %v", err)
	}

	wrote, err := WriteDefaultIgnoreFile(path)
	if err != nil {
		t.Fatalf("WriteDefaultIgnoreFile() error = %v", err)
	}
	if wrote {
		t.Error("WriteDefaultIgnoreFile() wrote = true, want false for existing file")
	}

	data, _ := os.ReadFile(path)
	if string(data) != "mine\n" {
		t.Errorf("existing file overwritten: %q", data)
	}
}

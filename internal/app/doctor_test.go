package app

import (
	"testing"
)

func TestDoctorCommand(t *testing.T) {
	if doctorCmd.Use != "doctor [root]" {
		t.Errorf("expected Use to be 'doctor [root]', got '%s'", doctorCmd.Use)
	}
	if doctorCmd.RunE == nil {
		t.Error("expected RunE to be set")
	}
}

func TestRunDoctor_HealthyRootWithWarnings(t *testing.T) {
	rootFlag = t.TempDir()
	defer func() { rootFlag = "" }()

	// A fresh root has no ignore file and no watcher — warnings only,
	// which is not a failure.
	if err := runDoctor(doctorCmd, nil); err != nil {
		t.Errorf("runDoctor() error = %v, want nil for warnings-only", err)
	}
}

func TestRunDoctor_MissingRoot(t *testing.T) {
	rootFlag = t.TempDir() + "/does-not-exist"
	defer func() { rootFlag = "" }()

	if err := runDoctor(doctorCmd, nil); err == nil {
		t.Error("runDoctor() error = nil, want error for missing root")
	}
}

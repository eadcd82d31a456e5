package ignore

import (
	"os"
	"path/filepath"
	"testing"
)

// writeIgnoreFile writes lines to an ignore file in a temp dir and returns
// its path.
func writeIgnoreFile(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".backupignore")
	if err := os.WriteFile(path, []byte(lines), 0644); err != nil {
		t.Fatalf("failed to write ignore file: %v", err)
	}
	return path
}

func TestLoad_MissingFile(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("Load() error = %v, want nil for missing file", err)
	}
	if m.Rules() != 0 {
		t.Errorf("Rules() = %d, want 0", m.Rules())
	}
	if m.ShouldIgnore("anything.txt") {
		t.Error("ShouldIgnore() = true with no rules, want false")
	}
}

func TestLoad_SkipsCommentsAndBlanks(t *testing.T) {
	path := writeIgnoreFile(t, "# comment\n\n  \n*.log\n# another\nbuild/\n")
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m.Rules() != 2 {
		t.Errorf("Rules() = %d, want 2", m.Rules())
	}
}

func TestLoad_SkipsMalformedPattern(t *testing.T) {
	path := writeIgnoreFile(t, "[unterminated\n*.log\n")
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m.Rules() != 1 {
		t.Errorf("Rules() = %d, want 1 (malformed pattern skipped)", m.Rules())
	}
}

func TestShouldIgnore(t *testing.T) {
	path := writeIgnoreFile(t, "*.log\nnode_modules/\nbuild/\nsecret.txt\ndata?.csv\n")
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name string
		rel  string
		want bool
	}{
		{"star suffix match", "app.log", true},
		{"star does not cross slash", "src/app.log", false},
		{"directory rule matches dir itself", "node_modules", true},
		{"directory rule matches nested file", "node_modules/pkg/index.js", true},
		{"directory rule deep nesting", "build/a/b/c.o", true},
		{"directory rule not a prefix substring", "build-tools/file.txt", false},
		{"exact match anchored", "secret.txt", true},
		{"exact match is not substring", "my-secret.txt", false},
		{"exact match not nested", "sub/secret.txt", false},
		{"question mark single char", "data1.csv", true},
		{"question mark not zero chars", "data.csv", false},
		{"question mark not two chars", "data12.csv", false},
		{"case sensitive", "APP.LOG", false},
		{"unmatched source file", "src/main.py", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.ShouldIgnore(tt.rel); got != tt.want {
				t.Errorf("ShouldIgnore(%q) = %v, want %v", tt.rel, got, tt.want)
			}
		})
	}
}

func TestShouldIgnore_Pure(t *testing.T) {
	path := writeIgnoreFile(t, "*.log\ntmp/\n")
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	for _, rel := range []string{"a.log", "tmp/x", "src/main.go"} {
		first := m.ShouldIgnore(rel)
		second := m.ShouldIgnore(rel)
		if first != second {
			t.Errorf("ShouldIgnore(%q) not pure: %v then %v", rel, first, second)
		}
	}
}

func TestShouldIgnore_OSSeparators(t *testing.T) {
	path := writeIgnoreFile(t, "node_modules/\n")
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	rel := filepath.Join("node_modules", "pkg", "index.js")
	if !m.ShouldIgnore(rel) {
		t.Errorf("ShouldIgnore(%q) = false, want true", rel)
	}
}

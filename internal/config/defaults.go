package config

import (
	"fmt"
	"os"
	"strings"
)

// DefaultIgnoreRules are the patterns seeded into a fresh ignore file.
// They cover VCS metadata, dependency and build-output directories, editor
// state, log files, and snapback's own files so the watcher never tracks
// itself. Directory rules carry a trailing slash.
var DefaultIgnoreRules = []string{
	".git/",
	".svn/",
	".hg/",
	"node_modules/",
	"vendor/",
	"venv/",
	".venv/",
	"__pycache__/",
	"build/",
	"dist/",
	"target/",
	".idea/",
	".vscode/",
	"*.log",
	"*.swp",
	"*.tmp",
	StoreDirName + "/",
	StateDirName + "/",
	IgnoreFileName,
}

const ignoreFileHeader = `# snapback ignore rules
# One glob pattern per line. '*' and '?' do not cross '/'.
# A trailing '/' matches the directory and everything under it.
`

// WriteDefaultIgnoreFile seeds path with the default rules. It refuses to
// overwrite an existing file and reports whether it wrote anything.
func WriteDefaultIgnoreFile(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to check ignore file: %w", err)
	}

	content := ignoreFileHeader + strings.Join(DefaultIgnoreRules, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return false, fmt.Errorf("failed to write ignore file: %w", err)
	}
	return true, nil
}

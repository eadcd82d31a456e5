// Package ignore decides which paths are excluded from backup.
//
// Rules are glob patterns loaded from a plain-text file, one per line.
// Blank lines and lines starting with '#' are skipped. '*' matches any run
// of characters except '/', '?' matches a single character except '/', and
// a trailing '/' marks a directory rule that matches the directory and
// everything nested under it. Patterns without wildcards are anchored exact
// matches, never substring matches. Matching is case-sensitive and symlinks
// are matched by their literal path text.
package ignore

import (
	"bufio"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

type rule struct {
	pattern string
	dirOnly bool
}

// Matcher holds a loaded rule set. The zero value ignores nothing.
type Matcher struct {
	rules []rule
}

// Load reads the ignore file at filePath. A missing file yields an empty
// matcher without error — a brand-new watch target ignores nothing.
// Malformed patterns (unterminated character classes) are skipped.
func Load(filePath string) (*Matcher, error) {
	m := &Matcher{}

	f, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, fmt.Errorf("failed to open ignore file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		r := rule{pattern: line}
		if strings.HasSuffix(line, "/") {
			r.dirOnly = true
			r.pattern = strings.TrimSuffix(line, "/")
			if r.pattern == "" {
				continue
			}
		}

		// Validate the pattern once so ShouldIgnore never has to
		// consider match errors.
		if _, err := path.Match(r.pattern, ""); err != nil {
			continue
		}

		m.rules = append(m.rules, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ignore file: %w", err)
	}

	return m, nil
}

// Rules returns the number of loaded rules.
func (m *Matcher) Rules() int {
	return len(m.rules)
}

// ShouldIgnore reports whether relPath, slash- or OS-separated and relative
// to the watch root, matches at least one rule. Pure function of the loaded
// rule set and the path.
func (m *Matcher) ShouldIgnore(relPath string) bool {
	rel := filepath.ToSlash(relPath)

	for _, r := range m.rules {
		if r.dirOnly {
			if matchesDir(r.pattern, rel) {
				return true
			}
			continue
		}
		if ok, _ := path.Match(r.pattern, rel); ok {
			return true
		}
	}
	return false
}

// matchesDir reports whether pattern matches rel itself or any ancestor
// directory of rel. A rule "build/" therefore covers "build" and
// "build/x/y" but never the sibling "build-tools".
func matchesDir(pattern, rel string) bool {
	for p := rel; p != "." && p != "/" && p != ""; p = path.Dir(p) {
		if ok, _ := path.Match(pattern, p); ok {
			return true
		}
	}
	return false
}

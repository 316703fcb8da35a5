// Package sensitive decides which foreground applications must never receive
// clipboard-based substitution. Credential managers commonly watch the
// clipboard or block programmatic paste, so snippets are typed key by key
// into them instead.
package sensitive

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// defaultPatterns covers widely used password managers. Matching is
// case-insensitive wildcard matching on the executable file name.
var defaultPatterns = []string{
	"keepass*.exe",
	"keepassxc*.exe",
	"1password*.exe",
	"bitwarden*.exe",
	"enpass*.exe",
	"lastpass*.exe",
	"dashlane*.exe",
}

// Manager answers "is this executable a sensitive application".
type Manager struct {
	patterns []string
}

// NewManager returns a manager matching the built-in patterns plus any
// custom ones. Patterns use filepath.Match syntax against the lower-cased
// executable name.
func NewManager(custom ...string) *Manager {
	m := &Manager{}
	for _, p := range defaultPatterns {
		m.add(p)
	}
	for _, p := range custom {
		m.add(p)
	}
	return m
}

func (m *Manager) add(pattern string) {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if pattern == "" {
		return
	}
	m.patterns = append(m.patterns, pattern)
}

// IsSensitive reports whether the executable name matches any pattern. An
// empty name never matches: an unknown foreground application is treated as
// not sensitive.
func (m *Manager) IsSensitive(executableName string) bool {
	name := strings.ToLower(strings.TrimSpace(executableName))
	if name == "" {
		return false
	}
	for _, pattern := range m.patterns {
		if ok, err := filepath.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// LoadPatternsFile reads additional patterns from a file, one per line.
// Blank lines and lines starting with '#' are ignored.
func LoadPatternsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, scanner.Err()
}

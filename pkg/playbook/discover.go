package playbook

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// DefaultPattern matches playbook files.
	DefaultPattern = "*.yml"
	// DefaultExcludePrefix marks inventory files, which are not playbooks.
	DefaultExcludePrefix = "inventory"
)

// Discover returns the files directly inside dir whose names match pattern,
// minus those starting with excludePrefix, sorted by name.
func Discover(dir, pattern, excludePrefix string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	var files []string
	for _, m := range matches {
		name := filepath.Base(m)
		if excludePrefix != "" && strings.HasPrefix(name, excludePrefix) {
			continue
		}
		if st, err := os.Stat(m); err != nil || st.IsDir() {
			continue
		}
		files = append(files, m)
	}
	sort.Strings(files)
	return files, nil
}

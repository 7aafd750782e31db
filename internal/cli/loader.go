package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// findScenarioFiles returns the YAML scenario files under path, sorted by
// name. Path may be a single file or a directory (not recursed).
func findScenarioFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("scenario path not found: %w", err)
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, filepath.Join(path, entry.Name()))
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("no scenario files (*.yaml, *.yml) found in %s", path)
	}
	return files, nil
}

// matchesFilter reports whether a scenario name matches the --filter
// substring. An empty filter matches everything.
func matchesFilter(name, filter string) bool {
	return filter == "" || strings.Contains(name, filter)
}

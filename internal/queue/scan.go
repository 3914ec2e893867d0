package queue

import (
	"fmt"
	"os"
	"path/filepath"
)

// ScanFolder lists regular files directly inside dir whose extension is
// allowed, sorted by name. Subdirectories are not descended.
func ScanFolder(dir string, allow AllowList) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan folder %s: %w", dir, err)
	}
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if !allow.Allows(path) {
			continue
		}
		paths = append(paths, path)
	}
	return paths, nil
}

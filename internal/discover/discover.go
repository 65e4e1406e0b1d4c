package discover

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrNotDir = errors.New("not a directory")

// Files lists the regular files directly inside dir, sorted by name.
// Subdirectories, symlinks and other special files are skipped.
func Files(dir string) ([]string, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open directory %s: %w", dir, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("open directory %s: %w", dir, ErrNotDir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}

package engine

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// isPartFile matches the temp names written by writeAtomic.
func isPartFile(name string) bool {
	return strings.HasPrefix(name, partPrefix) && strings.HasSuffix(name, partSuffix)
}

// SweepStale removes temp files under root left by a crashed process that
// are older than maxAge. It returns how many were removed.
func SweepStale(root string, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	removed := 0

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || !isPartFile(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil || info.ModTime().After(cutoff) {
			return nil
		}

		if err := os.Remove(path); err == nil {
			removed++
		}
		return nil
	})

	return removed, err
}

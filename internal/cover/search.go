package cover

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
)

const _readDirBatch = 64

// SearchUpward looks for a regular file whose name matches pattern in startDir, then in
// each ancestor, climbing at most maxHops levels. Subdirectories are never entered.
//
// The first match in directory listing order wins; the listing is not sorted.
// The returned path is absolute. A directory that cannot be opened is an error,
// not finding anything is not.
func SearchUpward(startDir string, maxHops uint, pattern *regexp.Regexp) (string, bool, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve %s: %w", startDir, err)
	}

	for {
		path, ok, err := searchDir(dir, pattern)
		if err != nil {
			return "", false, err
		}
		if ok {
			return path, true, nil
		}

		if maxHops == 0 {
			return "", false, nil
		}
		maxHops--

		parent := filepath.Dir(dir)
		if parent == dir {
			// Filesystem root
			return "", false, nil
		}
		dir = parent
	}
}

// searchDir checks the immediate entries of dir.
// os.ReadDir sorts by name, (*os.File).ReadDir keeps the native order.
func searchDir(dir string, pattern *regexp.Regexp) (string, bool, error) {
	f, err := os.Open(dir)
	if err != nil {
		return "", false, fmt.Errorf("failed to open directory: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", false, fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return "", false, fmt.Errorf("not a directory: %s", dir)
	}

	for {
		entries, err := f.ReadDir(_readDirBatch)
		for _, entry := range entries {
			// Symlinks and other special files are skipped like directories
			if !entry.Type().IsRegular() {
				continue
			}
			if pattern.MatchString(entry.Name()) {
				return filepath.Join(dir, entry.Name()), true, nil
			}
		}

		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			return "", false, nil
		case isEntryError(err):
			// The failing entry is already consumed, the listing goes on
		default:
			// The listing itself broke, this level has no match
			return "", false, nil
		}
	}
}

// isEntryError reports whether err concerns a single entry that could not be
// inspected rather than the directory listing
func isEntryError(err error) bool {
	var pathErr *fs.PathError
	return errors.As(err, &pathErr) && pathErr.Op == "lstat"
}

// Package gitroot locates the root of the working tree that contains a directory.
package gitroot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Marker is the entry that identifies a repository root
const Marker = ".git"

// ErrNotFound is returned when no ancestor contains the marker
var ErrNotFound = errors.New("repository root not found")

// Find walks up from start until it finds a directory containing marker.
// An empty start means the current working directory, an empty marker means Marker.
// The marker may be a directory or a file (git worktrees and submodules use a file).
func Find(fs afero.Fs, start, marker string) (string, error) {
	if marker == "" {
		marker = Marker
	}
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		start = wd
	}

	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", start, err)
	}

	for {
		ok, err := afero.Exists(fs, filepath.Join(dir, marker))
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", filepath.Join(dir, marker), err)
		}
		if ok {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w from %s", ErrNotFound, start)
		}
		dir = parent
	}
}

// Package file implements a local filesystem-backed data source for DAT
// exports, plus discovery of .dat files in an export directory.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Local is a filesystem data source that opens one DAT file from local disk.
type Local struct{ path string }

// NewLocal returns a Local data source bound to the provided path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Open opens the configured path for reading.
//
// Behavior:
//   - If the context is already canceled or its deadline exceeded at the time
//     of the call, Open returns the context error immediately without touching
//     the filesystem.
//   - Otherwise, Open opens the file, advises the kernel that access will be
//     sequential (a no-op outside Linux), and returns the *os.File.
//   - Filesystem errors are wrapped with the path while still permitting
//     errors.Is/As checks by callers (e.g., errors.Is(err, os.ErrNotExist)).
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	adviseSequential(f)
	return f, nil
}

// ListDAT returns the paths of all regular files in dir whose name ends in
// ".dat" (case-insensitive), sorted by name. Subdirectories are not entered.
func ListDAT(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".dat") {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

// Stem returns the file name of path without directory or extension, e.g.
// "/export/Patients.dat" -> "Patients". Used to match files to table specs.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

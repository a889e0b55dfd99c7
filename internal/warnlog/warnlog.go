// Package warnlog records non-fatal conversion warnings to a CSV sidecar
// file so that degraded values can be audited after an import run.
package warnlog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"datloader/internal/convert"
)

// Log appends conversion warnings to a CSV file and keeps per-reason counts.
// Methods are safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	reasons map[string]int
	w       *csv.Writer
}

// New opens a warning log at path, creating parent directories as needed.
// The returned close func flushes and closes the underlying file.
func New(path string) (*Log, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create dir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	_ = w.Write([]string{"table", "field", "line", "raw", "reason"})
	l := &Log{reasons: make(map[string]int), w: w}
	return l, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		w.Flush()
		_ = f.Close()
	}, nil
}

// Add records one conversion warning.
func (l *Log) Add(wrn convert.Warning) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reasons[wrn.Reason]++
	_ = l.w.Write([]string{wrn.Table, wrn.Field, strconv.Itoa(wrn.Line), wrn.Raw, wrn.Reason})
}

// Counts returns a copy of the per-reason warning totals.
func (l *Log) Counts() map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]int, len(l.reasons))
	for k, v := range l.reasons {
		out[k] = v
	}
	return out
}

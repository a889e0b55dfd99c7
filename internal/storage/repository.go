// Package storage contains backend-agnostic contracts for the bulk-insert
// sink plus the registry that concrete backends (postgres, mssql, sqlite)
// plug into at init time. The rest of the pipeline depends only on the
// Repository interface and never on a specific driver.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"datloader/internal/spec"
)

// Repository is a destination capable of receiving bulk row batches.
type Repository interface {
	// CopyFrom inserts rows (aligned to the columns order) using the
	// backend's most efficient bulk primitive and returns the number of rows
	// accepted. There is no retry and no row-level fallback: a batch failure
	// is final.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)

	// Exec runs a raw SQL statement (DDL, truncate).
	Exec(ctx context.Context, sql string) error

	// Truncate removes all rows from the configured destination table.
	Truncate(ctx context.Context) error

	// Close releases all resources held by the repository.
	Close()
}

// Config selects and configures a backend.
type Config struct {
	Kind   string // registered backend kind: "postgres", "mssql", "sqlite"
	DSN    string
	Schema string // destination schema; backends apply their own default
	Table  string // destination table name
}

// TableDef describes a destination table for DDL bootstrap. Fields excludes
// the leading ImportID column, which every destination table carries as its
// first text column.
type TableDef struct {
	Schema string
	Table  string
	Fields []spec.FieldSpec
}

// Factory constructs a Repository for one Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for kind. Backends call this
// from init; tests may re-register fakes.
func Register(kind string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = f
}

// New opens a Repository for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	f, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered backend kinds, sorted, as a snapshot copy.
func ListKinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

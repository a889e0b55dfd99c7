package storage

import (
	"context"
	"fmt"
	"sync"
)

// DDLBootstrapper is a backend-specific function that builds and applies the
// CREATE TABLE statement for one destination table via repo.Exec. Backends
// register their implementation for a storage kind at init time.
type DDLBootstrapper func(ctx context.Context, repo Repository, def TableDef) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL registers (or replaces) a DDLBootstrapper for the given
// storage kind.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureTable locates the DDLBootstrapper for kind and invokes it. Callers
// stay backend-agnostic; the bootstrappers are expected to be idempotent.
func EnsureTable(ctx context.Context, kind string, repo Repository, def TableDef) error {
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL bootstrapper registered for storage.kind=%s", kind)
	}
	return fn(ctx, repo, def)
}

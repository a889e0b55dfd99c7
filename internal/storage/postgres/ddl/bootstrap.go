package ddl

import (
	"context"

	"datloader/internal/storage"
)

// EnsureTable creates the destination table if it does not already exist.
// The operation is idempotent and safe to run on every import.
func EnsureTable(ctx context.Context, repo storage.Repository, def storage.TableDef) error {
	sql, err := BuildCreateTableSQL(def)
	if err != nil {
		return err
	}
	return repo.Exec(ctx, sql)
}

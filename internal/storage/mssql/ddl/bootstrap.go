package ddl

import (
	"context"

	"datloader/internal/storage"
)

// EnsureTable creates the target SQL Server table if it does not already
// exist. The generated script is guarded by an IF OBJECT_ID(...) check, so
// the operation is idempotent.
func EnsureTable(ctx context.Context, repo storage.Repository, def storage.TableDef) error {
	sql, err := BuildCreateTableSQL(def)
	if err != nil {
		return err
	}
	return repo.Exec(ctx, sql)
}

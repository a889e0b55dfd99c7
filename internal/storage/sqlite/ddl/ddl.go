// Package ddl contains SQLite-specific helpers for generating CREATE TABLE
// statements from a column specification.
package ddl

import (
	"context"
	"fmt"
	"strings"

	"datloader/internal/spec"
	"datloader/internal/storage"
)

// MapType maps one field specification to a SQLite storage class. SQLite
// typing is loose; the affinity names below are enough for round-tripping.
func MapType(f spec.FieldSpec) string {
	switch f.Target() {
	case spec.Int32, spec.Int64, spec.Boolean:
		return "INTEGER"
	case spec.Double, spec.Single:
		return "REAL"
	case spec.Decimal:
		return "NUMERIC"
	default:
		// Temporal values are stored as ISO-8601 text.
		return "TEXT"
	}
}

// BuildCreateTableSQL returns a CREATE TABLE IF NOT EXISTS statement for the
// definition. The Schema field is ignored; SQLite has no schemas.
func BuildCreateTableSQL(def storage.TableDef) (string, error) {
	table := strings.TrimSpace(def.Table)
	if table == "" {
		return "", fmt.Errorf("sqlite ddl: table name must not be empty")
	}

	cols := make([]string, 0, len(def.Fields)+1)
	cols = append(cols, quoteIdent("ImportID")+" TEXT NOT NULL")
	for _, f := range def.Fields {
		name := strings.TrimSpace(f.ColumnName)
		if name == "" {
			return "", fmt.Errorf("sqlite ddl: column with empty name in table %s", table)
		}
		cols = append(cols, quoteIdent(name)+" "+MapType(f))
	}

	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s\n)",
		quoteIdent(table), strings.Join(cols, ",\n  "),
	), nil
}

// EnsureTable creates the destination table if it does not already exist.
func EnsureTable(ctx context.Context, repo storage.Repository, def storage.TableDef) error {
	sql, err := BuildCreateTableSQL(def)
	if err != nil {
		return err
	}
	return repo.Exec(ctx, sql)
}

func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

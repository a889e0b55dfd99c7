package ddl

import (
	"fmt"
	"strings"

	"datloader/internal/storage"
)

// BuildCreateTableSQL returns a CREATE TABLE IF NOT EXISTS statement for the
// definition. The leading ImportID text column is always first; every
// specified column is nullable, since NULL is a valid conversion outcome for
// any field.
func BuildCreateTableSQL(def storage.TableDef) (string, error) {
	table := strings.TrimSpace(def.Table)
	if table == "" {
		return "", fmt.Errorf("pg ddl: table name must not be empty")
	}
	schema := def.Schema
	if schema == "" {
		schema = "public"
	}

	cols := make([]string, 0, len(def.Fields)+1)
	cols = append(cols, quoteIdent("ImportID")+" text NOT NULL")
	for _, f := range def.Fields {
		name := strings.TrimSpace(f.ColumnName)
		if name == "" {
			return "", fmt.Errorf("pg ddl: column with empty name in table %s", table)
		}
		cols = append(cols, quoteIdent(name)+" "+MapType(f))
	}

	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s.%s (\n  %s\n)",
		quoteIdent(schema), quoteIdent(table), strings.Join(cols, ",\n  "),
	), nil
}

// quoteIdent double-quotes a Postgres identifier, escaping embedded quotes.
func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

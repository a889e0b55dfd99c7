package ddl

import (
	"fmt"
	"strings"

	"datloader/internal/storage"
)

// BuildCreateTableSQL returns a T-SQL script that creates the destination
// table if it does not already exist. T-SQL has no CREATE TABLE IF NOT
// EXISTS, so the statement is wrapped in an IF OBJECT_ID(...) IS NULL guard:
//
//	IF OBJECT_ID(N'[dbo].[customers]', N'U') IS NULL
//	BEGIN
//	  CREATE TABLE [dbo].[customers] (
//	    [ImportID] NVARCHAR(64) NOT NULL,
//	    [Name] NVARCHAR(MAX)
//	  );
//	END
//
// The ImportID column is always first; specified columns are nullable since
// NULL is a valid conversion outcome for any field.
func BuildCreateTableSQL(def storage.TableDef) (string, error) {
	table := strings.TrimSpace(def.Table)
	if table == "" {
		return "", fmt.Errorf("mssql ddl: table name must not be empty")
	}
	schema := def.Schema
	if schema == "" {
		schema = "dbo"
	}
	fqn := quoteIdent(schema) + "." + quoteIdent(table)

	cols := make([]string, 0, len(def.Fields)+1)
	cols = append(cols, quoteIdent("ImportID")+" NVARCHAR(64) NOT NULL")
	for _, f := range def.Fields {
		name := strings.TrimSpace(f.ColumnName)
		if name == "" {
			return "", fmt.Errorf("mssql ddl: column with empty name in table %s", table)
		}
		cols = append(cols, quoteIdent(name)+" "+MapType(f))
	}

	return fmt.Sprintf(
		"IF OBJECT_ID(N'%s', N'U') IS NULL\nBEGIN\n  CREATE TABLE %s (\n    %s\n  );\nEND",
		fqn, fqn, strings.Join(cols, ",\n    "),
	), nil
}

// quoteIdent safely quotes a SQL Server identifier using [brackets], escaping ].
func quoteIdent(id string) string { return `[` + strings.ReplaceAll(id, `]`, `]]`) + `]` }

// Package ddl contains SQL Server-specific helpers for generating DDL from a
// column specification.
package ddl

import (
	"fmt"
	"strings"

	"datloader/internal/spec"
)

// MapType maps one field specification to a SQL Server column type. Unknown
// or empty declared types fall back to NVARCHAR(MAX).
func MapType(f spec.FieldSpec) string {
	switch strings.ToLower(strings.TrimSpace(f.DeclaredType)) {
	case "int", "integer":
		return "INT"
	case "smallint":
		return "SMALLINT"
	case "tinyint":
		return "TINYINT"
	case "bigint":
		return "BIGINT"
	case "bit", "bool", "boolean":
		return "BIT"
	case "date":
		return "DATE"
	case "datetime", "smalldatetime":
		return "DATETIME"
	case "datetime2", "timestamp":
		return "DATETIME2"
	case "real":
		return "REAL"
	case "float":
		if f.Precision >= 1 && f.Precision <= 24 {
			return "REAL"
		}
		return "FLOAT"
	case "money":
		return "MONEY"
	case "smallmoney":
		return "SMALLMONEY"
	case "decimal", "numeric":
		if f.Precision > 0 {
			return fmt.Sprintf("DECIMAL(%d,%d)", f.Precision, f.Scale)
		}
		return "DECIMAL(38,10)"
	case "varchar", "nvarchar", "char", "nchar":
		if f.Precision > 0 {
			return fmt.Sprintf("NVARCHAR(%d)", f.Precision)
		}
		return "NVARCHAR(MAX)"
	default:
		return "NVARCHAR(MAX)"
	}
}

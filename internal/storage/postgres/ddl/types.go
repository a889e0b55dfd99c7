// Package ddl contains Postgres-specific helpers for generating CREATE TABLE
// statements from a column specification. The type mapping is conservative
// and biased toward safe, widely-supported choices.
package ddl

import (
	"fmt"
	"strings"

	"datloader/internal/spec"
)

// MapType maps one field specification to a Postgres column type. Unknown
// declared types fall back to text, matching the semantic plain-text default.
func MapType(f spec.FieldSpec) string {
	switch strings.ToLower(strings.TrimSpace(f.DeclaredType)) {
	case "int", "integer", "smallint", "tinyint":
		return "integer"
	case "bigint":
		return "bigint"
	case "bit", "bool", "boolean":
		return "boolean"
	case "date":
		return "date"
	case "datetime", "datetime2", "smalldatetime", "timestamp":
		return "timestamp"
	case "real":
		return "real"
	case "float":
		if f.Precision >= 1 && f.Precision <= 24 {
			return "real"
		}
		return "double precision"
	case "decimal", "numeric", "money", "smallmoney":
		if f.Precision > 0 {
			return fmt.Sprintf("numeric(%d,%d)", f.Precision, f.Scale)
		}
		return "numeric"
	default:
		return "text"
	}
}

// Package spec models the externally supplied column specification that
// drives an import: one ordered list of field specifications per destination
// table, plus the pure mapping from a declared storage type to the semantic
// conversion target applied to every raw field.
//
// The specification is read-only from the pipeline's point of view. It is
// normally loaded from a spreadsheet workbook (see xlsx.go) but tests can
// construct FieldSpec values directly.
package spec

import "strings"

// Type is the semantic conversion target for one destination column. The set
// is closed; the converter dispatches on it via a registry, so adding a new
// semantic type means adding a constant here and one registry entry there.
type Type int

const (
	// Text passes the raw value through unchanged, embedded newlines included.
	Text Type = iota
	// Temporal parses one of the strict invariant date/datetime layouts.
	Temporal
	// Int32 and Int64 parse decimal numerals with an exactly-zero fraction.
	Int32
	Int64
	// Double and Single parse invariant floating point, exponent allowed.
	Double
	Single
	// Decimal parses an arbitrary-precision decimal.
	Decimal
	// Boolean matches the fixed true/false token sets and never fails hard.
	Boolean
)

// String returns the lower-case name of the semantic type.
func (t Type) String() string {
	switch t {
	case Temporal:
		return "temporal"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Double:
		return "double"
	case Single:
		return "single"
	case Decimal:
		return "decimal"
	case Boolean:
		return "boolean"
	default:
		return "text"
	}
}

// FieldSpec describes one destination column: its name, the declared storage
// type from the workbook, and the optional precision/scale. Zero precision
// means "not specified".
type FieldSpec struct {
	ColumnName   string
	DeclaredType string
	Precision    int
	Scale        int
}

// Target derives the semantic conversion type for this field.
func (f FieldSpec) Target() Type {
	return TargetType(f.DeclaredType, f.Precision)
}

// TableSpec is the ordered column specification for one destination table.
type TableSpec struct {
	Table  string
	Fields []FieldSpec
}

// Columns returns the destination column names in specification order.
func (t TableSpec) Columns() []string {
	out := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		out[i] = f.ColumnName
	}
	return out
}

// TargetType maps a declared storage type and precision to the semantic
// conversion type. The mapping is pure and deterministic; anything it does
// not recognize converts as plain text.
//
// Precision only matters for "float": SQL float(1..24) is single precision,
// float(25..53) and bare float are double.
func TargetType(declared string, precision int) Type {
	switch strings.ToLower(strings.TrimSpace(declared)) {
	case "date", "datetime", "datetime2", "smalldatetime", "timestamp":
		return Temporal
	case "int", "integer", "smallint", "tinyint":
		return Int32
	case "bigint":
		return Int64
	case "float":
		if precision >= 1 && precision <= 24 {
			return Single
		}
		return Double
	case "real":
		return Single
	case "decimal", "numeric", "money", "smallmoney":
		return Decimal
	case "bit", "bool", "boolean":
		return Boolean
	default:
		return Text
	}
}

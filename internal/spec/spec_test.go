package spec

import "testing"

// TestTargetType exercises the declared-type mapping, including the
// precision-sensitive float split.
func TestTargetType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		declared  string
		precision int
		want      Type
	}{
		{"varchar", 0, Text},
		{"nvarchar", 0, Text},
		{"text", 0, Text},
		{"char", 0, Text},
		{"", 0, Text},
		{"made_up_type", 0, Text},

		{"date", 0, Temporal},
		{"datetime", 0, Temporal},
		{"DATETIME2", 0, Temporal},
		{"smalldatetime", 0, Temporal},
		{"timestamp", 0, Temporal},

		{"int", 0, Int32},
		{"INT", 0, Int32},
		{"integer", 0, Int32},
		{"smallint", 0, Int32},
		{"tinyint", 0, Int32},
		{"bigint", 0, Int64},

		{"float", 0, Double},
		{"float", 53, Double},
		{"float", 25, Double},
		{"float", 24, Single},
		{"float", 1, Single},
		{"real", 0, Single},

		{"decimal", 0, Decimal},
		{"numeric", 0, Decimal},
		{"money", 0, Decimal},
		{"smallmoney", 0, Decimal},

		{"bit", 0, Boolean},
		{"bool", 0, Boolean},
		{"boolean", 0, Boolean},

		{"  int  ", 0, Int32}, // whitespace tolerated
	}
	for _, tc := range cases {
		if got := TargetType(tc.declared, tc.precision); got != tc.want {
			t.Errorf("TargetType(%q, %d) = %s, want %s", tc.declared, tc.precision, got, tc.want)
		}
	}
}

// TestFieldSpec_Target derives the semantic type from the declared pair.
func TestFieldSpec_Target(t *testing.T) {
	t.Parallel()

	f := FieldSpec{ColumnName: "Ratio", DeclaredType: "float", Precision: 10}
	if f.Target() != Single {
		t.Fatalf("Target = %s", f.Target())
	}
}

// TestTableSpec_Columns preserves specification order.
func TestTableSpec_Columns(t *testing.T) {
	t.Parallel()

	ts := TableSpec{Table: "Patients", Fields: []FieldSpec{
		{ColumnName: "Name"}, {ColumnName: "Age"}, {ColumnName: "Active"},
	}}
	got := ts.Columns()
	want := []string{"Name", "Age", "Active"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Columns = %v, want %v", got, want)
		}
	}
}

// TestType_String names every member of the closed set.
func TestType_String(t *testing.T) {
	t.Parallel()

	names := map[Type]string{
		Text:     "text",
		Temporal: "temporal",
		Int32:    "int32",
		Int64:    "int64",
		Double:   "double",
		Single:   "single",
		Decimal:  "decimal",
		Boolean:  "boolean",
	}
	for typ, want := range names {
		if typ.String() != want {
			t.Errorf("%d.String() = %q, want %q", typ, typ.String(), want)
		}
	}
}

package spec

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// writeWorkbook builds a workbook file from sheet -> rows and returns its path.
func writeWorkbook(t *testing.T, sheets map[string][][]any) string {
	t.Helper()
	f := excelize.NewFile()
	first := true
	for name, rows := range sheets {
		if first {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
			first = false
		} else {
			if _, err := f.NewSheet(name); err != nil {
				t.Fatalf("new sheet: %v", err)
			}
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "spec.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	return path
}

// TestReadWorkbook_RoundTrip writes a two-sheet workbook and reads the
// specifications back, header row included.
func TestReadWorkbook_RoundTrip(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, map[string][][]any{
		"Patients": {
			{"column_name", "data_type", "precision", "scale"},
			{"Name", "varchar"},
			{"Age", "int"},
			{"Balance", "decimal", 18, 2},
			{"Active", "bit"},
		},
		"Visits": {
			{"VisitDate", "datetime"},
			{"Score", "float", 24},
		},
	})

	tables, err := ReadWorkbook(path)
	if err != nil {
		t.Fatalf("ReadWorkbook: %v", err)
	}
	if len(tables) != 2 {
		t.Fatalf("tables = %d, want 2", len(tables))
	}

	patients, ok := Lookup(tables, "patients")
	if !ok {
		t.Fatalf("Patients not found")
	}
	if len(patients.Fields) != 4 {
		t.Fatalf("fields = %+v", patients.Fields)
	}
	bal := patients.Fields[2]
	if bal.ColumnName != "Balance" || bal.DeclaredType != "decimal" || bal.Precision != 18 || bal.Scale != 2 {
		t.Fatalf("Balance = %+v", bal)
	}
	if patients.Fields[1].Target() != Int32 {
		t.Fatalf("Age target = %s", patients.Fields[1].Target())
	}

	visits, ok := Lookup(tables, "Visits")
	if !ok {
		t.Fatalf("Visits not found")
	}
	if visits.Fields[1].Target() != Single {
		t.Fatalf("Score target = %s", visits.Fields[1].Target())
	}
}

// TestReadWorkbook_EmptyNameEndsSheet stops at the first blank column name.
func TestReadWorkbook_EmptyNameEndsSheet(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, map[string][][]any{
		"T": {
			{"A", "int"},
			{"", ""},
			{"B", "int"}, // below the terminator, must be ignored
		},
	})
	tables, err := ReadWorkbook(path)
	if err != nil {
		t.Fatalf("ReadWorkbook: %v", err)
	}
	if len(tables[0].Fields) != 1 || tables[0].Fields[0].ColumnName != "A" {
		t.Fatalf("fields = %+v", tables[0].Fields)
	}
}

// TestReadWorkbook_BadPrecision rejects non-numeric precision cells.
func TestReadWorkbook_BadPrecision(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, map[string][][]any{
		"T": {{"A", "decimal", "lots", 2}},
	})
	if _, err := ReadWorkbook(path); err == nil {
		t.Fatalf("want error for non-numeric precision")
	}
}

// TestReadWorkbook_NoSpecs rejects a workbook with only empty sheets.
func TestReadWorkbook_NoSpecs(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, map[string][][]any{"Empty": {}})
	if _, err := ReadWorkbook(path); err == nil {
		t.Fatalf("want error for empty workbook")
	}
}

// TestReadWorkbook_MissingFile wraps the open failure with the path.
func TestReadWorkbook_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := ReadWorkbook(filepath.Join(t.TempDir(), "nope.xlsx")); err == nil {
		t.Fatalf("want error")
	}
}

// TestLookup is case-insensitive and reports misses.
func TestLookup(t *testing.T) {
	t.Parallel()

	tables := []TableSpec{{Table: "Patients"}, {Table: "Visits"}}
	if _, ok := Lookup(tables, "PATIENTS"); !ok {
		t.Fatalf("case-insensitive lookup failed")
	}
	if _, ok := Lookup(tables, "Unknown"); ok {
		t.Fatalf("unexpected hit")
	}
}

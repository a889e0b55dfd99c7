package spec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadWorkbook loads column specifications from a spreadsheet workbook.
//
// Layout contract:
//   - one sheet per destination table; the sheet name is the table name
//   - columns A..D: column name, declared type, precision, scale
//   - an optional header row is skipped when cell A1 reads "column_name"
//     (case-insensitive)
//
// Rows with an empty column name end the sheet. Precision/scale cells may be
// empty; non-numeric values there are an error, not a silent zero.
func ReadWorkbook(path string) ([]TableSpec, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("spec: open workbook %s: %w", path, err)
	}
	defer f.Close()

	var tables []TableSpec
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("spec: read sheet %s: %w", sheet, err)
		}
		ts, err := parseSheet(sheet, rows)
		if err != nil {
			return nil, err
		}
		if len(ts.Fields) == 0 {
			continue // empty sheets carry no specification
		}
		tables = append(tables, ts)
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("spec: workbook %s contains no field specifications", path)
	}
	return tables, nil
}

// Lookup finds the specification for table (case-insensitive) in tables.
func Lookup(tables []TableSpec, table string) (TableSpec, bool) {
	for _, t := range tables {
		if strings.EqualFold(t.Table, table) {
			return t, true
		}
	}
	return TableSpec{}, false
}

func parseSheet(sheet string, rows [][]string) (TableSpec, error) {
	ts := TableSpec{Table: sheet}
	for i, row := range rows {
		name := cell(row, 0)
		if i == 0 && strings.EqualFold(name, "column_name") {
			continue
		}
		if name == "" {
			break
		}
		fs := FieldSpec{
			ColumnName:   name,
			DeclaredType: cell(row, 1),
		}
		var err error
		if fs.Precision, err = intCell(row, 2); err != nil {
			return ts, fmt.Errorf("spec: sheet %s row %d precision: %w", sheet, i+1, err)
		}
		if fs.Scale, err = intCell(row, 3); err != nil {
			return ts, fmt.Errorf("spec: sheet %s row %d scale: %w", sheet, i+1, err)
		}
		ts.Fields = append(ts.Fields, fs)
	}
	return ts, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func intCell(row []string, i int) (int, error) {
	s := cell(row, i)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return n, nil
}

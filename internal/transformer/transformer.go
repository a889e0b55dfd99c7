// Package transformer materializes reconstructed records into typed rows.
//
// A Materializer binds the ordered field specifications of one destination
// table to a convert.Converter. Column zero of every produced row is the raw
// ImportID string, never type-converted; every other column is converted
// according to its specification, in specification order. Fatal conversion
// errors propagate immediately and abort the file.
package transformer

import (
	"fmt"
	"log"

	"datloader/internal/convert"
	"datloader/internal/parser/dat"
	"datloader/internal/spec"
)

// ImportIDColumn is the destination name of the leading opaque identifier.
const ImportIDColumn = "ImportID"

// Materializer turns dat.Records into typed rows for one table.
type Materializer struct {
	table string
	specs []spec.FieldSpec
	conv  *convert.Converter

	// ProgressEvery controls the side-effecting progress notification; it
	// never affects control flow. Zero disables it.
	ProgressEvery int
	// OnProgress overrides the default log line when non-nil.
	OnProgress func(rows int64)

	rows int64
}

// New returns a Materializer for table. warn receives non-fatal boolean
// conversion warnings and may be nil.
func New(table string, specs []spec.FieldSpec, warn convert.WarnFunc) *Materializer {
	return &Materializer{
		table: table,
		specs: specs,
		conv:  convert.New(table, warn),
	}
}

// ExpectedFields is the field count every record must carry: one per
// specification plus the leading ImportID.
func (m *Materializer) ExpectedFields() int { return len(m.specs) + 1 }

// Columns returns the destination column names, ImportID first, matching the
// ordering of every row produced by Row.
func (m *Materializer) Columns() []string {
	cols := make([]string, 0, len(m.specs)+1)
	cols = append(cols, ImportIDColumn)
	for _, fs := range m.specs {
		cols = append(cols, fs.ColumnName)
	}
	return cols
}

// Rows returns the number of rows materialized so far.
func (m *Materializer) Rows() int64 { return m.rows }

// Row converts one record into a typed row. The record must already satisfy
// the reader's field-count invariant.
func (m *Materializer) Row(rec dat.Record) ([]any, error) {
	if len(rec.Fields) != m.ExpectedFields() {
		// The reader guarantees this; a violation here is a programming error.
		return nil, fmt.Errorf("transformer: record at line %d has %d fields, want %d",
			rec.StartLine, len(rec.Fields), m.ExpectedFields())
	}

	row := make([]any, len(rec.Fields))
	row[0] = rec.Fields[0]
	for i, fs := range m.specs {
		v, err := m.conv.Convert(rec.Fields[i+1], fs.Target(), fs.ColumnName, rec.StartLine)
		if err != nil {
			return nil, err
		}
		row[i+1] = v
	}

	m.rows++
	if m.ProgressEvery > 0 && m.rows%int64(m.ProgressEvery) == 0 {
		if m.OnProgress != nil {
			m.OnProgress(m.rows)
		} else {
			log.Printf("materialize: table=%s rows=%d line=%d", m.table, m.rows, rec.StartLine)
		}
	}
	return row, nil
}

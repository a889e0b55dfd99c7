package dat

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func readAll(t *testing.T, input string, expected int) ([]Record, error) {
	t.Helper()
	r := NewReader(strings.NewReader(input), expected, Boundary("ABC_"))
	var out []Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

// TestReader_SingleLineRecords reads a clean file with one record per line.
func TestReader_SingleLineRecords(t *testing.T) {
	t.Parallel()

	recs, err := readAll(t, "ABC_001|Alice|34\nABC_002|Bob|41\n", 3)
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("records = %d, want 2", len(recs))
	}
	if recs[0].StartLine != 1 || recs[1].StartLine != 2 {
		t.Errorf("start lines = %d, %d", recs[0].StartLine, recs[1].StartLine)
	}
	want := []string{"ABC_002", "Bob", "41"}
	for i, f := range want {
		if recs[1].Fields[i] != f {
			t.Fatalf("fields = %v, want %v", recs[1].Fields, want)
		}
	}
}

// TestReader_MultiLineReconstruction joins continuation lines with "\n" and
// keeps the embedded break inside the field value.
func TestReader_MultiLineReconstruction(t *testing.T) {
	t.Parallel()

	input := "ABC_001|Alice|first line\nsecond line\nthird line|34\n" +
		"ABC_002|Bob|plain|41\n"
	recs, err := readAll(t, input, 4)
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("records = %d, want 2", len(recs))
	}
	if recs[0].Fields[2] != "first line\nsecond line\nthird line" {
		t.Errorf("joined field = %q", recs[0].Fields[2])
	}
	if recs[0].StartLine != 1 {
		t.Errorf("StartLine = %d", recs[0].StartLine)
	}
	if recs[1].StartLine != 4 {
		t.Errorf("second record StartLine = %d, want 4", recs[1].StartLine)
	}
}

// TestReader_BoundaryStopsAccumulation stops short of the expected count when
// the next line opens a new record, producing a diagnostic for the short one.
func TestReader_BoundaryStopsAccumulation(t *testing.T) {
	t.Parallel()

	input := "ABC_001|only|three\nABC_002|a|b|c\n"
	_, err := readAll(t, input, 4)
	var fce *FieldCountError
	if !errors.As(err, &fce) {
		t.Fatalf("err = %v, want FieldCountError", err)
	}
	if fce.StartLine != 1 || fce.EndLine != 1 {
		t.Errorf("lines = %d-%d, want 1-1", fce.StartLine, fce.EndLine)
	}
	if fce.Expected != 4 || fce.Actual != 3 {
		t.Errorf("counts = %d/%d, want 3/4", fce.Actual, fce.Expected)
	}
	if fce.Preview == "" {
		t.Errorf("diagnostic should carry a preview")
	}
}

// TestReader_TrailingFieldKeepsDelimiter demonstrates the no-escaping rule:
// extra pipes beyond the expected width stay embedded in the last field.
func TestReader_TrailingFieldKeepsDelimiter(t *testing.T) {
	t.Parallel()

	recs, err := readAll(t, "ABC_001|a|b|c|d\n", 3)
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("records = %d, want 1", len(recs))
	}
	if recs[0].Fields[2] != "b|c|d" {
		t.Fatalf("last field = %q, want %q", recs[0].Fields[2], "b|c|d")
	}
}

// TestReader_CountDrivenMerge merges a continuation even when the first line
// already splits to the expected width: accumulation is driven by the
// delimiter count, so the trailing field absorbs the continuation with its
// embedded pipe.
func TestReader_CountDrivenMerge(t *testing.T) {
	t.Parallel()

	recs, err := readAll(t, "ABC001|Alice|Multi\nline value|more text\n", 3)
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("records = %d, want 1", len(recs))
	}
	want := []string{"ABC001", "Alice", "Multi\nline value|more text"}
	for i, f := range want {
		if recs[0].Fields[i] != f {
			t.Fatalf("fields = %q, want %q", recs[0].Fields, want)
		}
	}
}

// TestReader_TruncatedFinalRecord reports the incomplete record at EOF.
func TestReader_TruncatedFinalRecord(t *testing.T) {
	t.Parallel()

	input := "ABC_001|a|b|c\nABC_002|a|b"
	recs, err := readAll(t, input, 4)
	var fce *FieldCountError
	if !errors.As(err, &fce) {
		t.Fatalf("err = %v, want FieldCountError", err)
	}
	if len(recs) != 1 {
		// The complete first record is returned before the failure.
		t.Fatalf("records before failure = %d, want 1", len(recs))
	}
	if fce.StartLine != 2 {
		t.Errorf("StartLine = %d, want 2", fce.StartLine)
	}
}

// TestReader_EmptyInput yields io.EOF with no records.
func TestReader_EmptyInput(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "\n\n\n", "   \n\t\n"} {
		recs, err := readAll(t, input, 3)
		if err != nil {
			t.Fatalf("input %q: err = %v", input, err)
		}
		if len(recs) != 0 {
			t.Fatalf("input %q: records = %d, want 0", input, len(recs))
		}
	}
}

// TestReader_BlankLinesBetweenRecords skips separator lines without counting
// them as continuations.
func TestReader_BlankLinesBetweenRecords(t *testing.T) {
	t.Parallel()

	input := "ABC_001|a|b\n\n\nABC_002|c|d\n\n"
	recs, err := readAll(t, input, 3)
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("records = %d, want 2", len(recs))
	}
	if recs[1].StartLine != 4 {
		t.Errorf("second StartLine = %d, want 4", recs[1].StartLine)
	}
}

// TestReader_ContinuationResemblingID documents the known misclassification:
// a continuation line that itself matches the boundary pattern terminates
// the current record early.
func TestReader_ContinuationResemblingID(t *testing.T) {
	t.Parallel()

	input := "ABC_001|a|note starts\nABC_FAKE|looks like an id|b\n"
	_, err := readAll(t, input, 4)
	var fce *FieldCountError
	if !errors.As(err, &fce) {
		t.Fatalf("err = %v, want FieldCountError from early cut", err)
	}
	if fce.StartLine != 1 {
		t.Errorf("StartLine = %d, want 1", fce.StartLine)
	}
}

// TestReader_Line tracks physical lines consumed.
func TestReader_Line(t *testing.T) {
	t.Parallel()

	r := NewReader(strings.NewReader("ABC_001|a|b\nABC_002|c|d\n"), 3, Boundary("ABC_"))
	if _, err := r.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if r.Line() != 1 {
		t.Fatalf("Line = %d, want 1", r.Line())
	}
}

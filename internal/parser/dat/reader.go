// Package dat reconstructs logical records from pipe-delimited DAT files.
//
// The format has no escaping: fields are separated by a literal '|', the
// first field is always the opaque ImportID, and a field value may contain
// embedded line breaks, so a logical record can span several physical lines.
// Record boundaries are therefore detected heuristically: accumulation is
// delimiter-count driven and stops when the accumulated text carries enough
// '|' separators, or when the next physical line matches the boundary
// predicate (it belongs to the next record). The final split caps at the
// expected field count, so a '|' inside the last field value stays embedded
// rather than producing a phantom field. A blank physical line always ends
// the current record, so a multi-line value can never contain an empty line.
//
// The reader is forward-only and fail-fast: the first structural violation
// returns a FieldCountError and the file must be abandoned.
package dat

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Record is one reconstructed logical row.
type Record struct {
	// StartLine is the 1-based physical line the record began on.
	StartLine int

	// Fields are the raw field values, ImportID first. Multi-line values
	// keep their embedded "\n".
	Fields []string
}

// FieldCountError reports a record whose reconstructed field count does not
// match the expected count. It is fatal for the whole file.
type FieldCountError struct {
	StartLine int
	EndLine   int
	Expected  int
	Actual    int
	Preview   string
}

func (e *FieldCountError) Error() string {
	return fmt.Sprintf("dat: record at lines %d-%d has %d fields, want %d: %q",
		e.StartLine, e.EndLine, e.Actual, e.Expected, e.Preview)
}

// previewLen bounds the accumulated-text excerpt carried in diagnostics.
const previewLen = 200

// maxLineBytes is the scanner buffer cap; DAT feeds occasionally carry very
// long free-text fields.
const maxLineBytes = 1 << 20

// Reader streams logical records from a physical line stream.
type Reader struct {
	s        *bufio.Scanner
	expected int
	boundary BoundaryFunc

	line    int // physical lines consumed so far
	peeked  bool
	peekVal string
	err     error
}

// NewReader returns a Reader producing records of exactly expected fields.
// boundary must not be nil; use Boundary to build it from a file prefix.
func NewReader(r io.Reader, expected int, boundary BoundaryFunc) *Reader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), maxLineBytes)
	return &Reader{s: s, expected: expected, boundary: boundary}
}

// Line returns the number of physical lines consumed so far.
func (r *Reader) Line() int { return r.line }

// next consumes one physical line. ok is false at end of input.
func (r *Reader) next() (string, bool, error) {
	if r.err != nil {
		return "", false, r.err
	}
	if r.peeked {
		r.peeked = false
		r.line++
		return r.peekVal, true, nil
	}
	if !r.s.Scan() {
		r.err = r.s.Err()
		return "", false, r.err
	}
	r.line++
	return r.s.Text(), true, nil
}

// peek returns the next physical line without consuming it.
func (r *Reader) peek() (string, bool, error) {
	if r.peeked {
		return r.peekVal, true, nil
	}
	if r.err != nil {
		return "", false, r.err
	}
	if !r.s.Scan() {
		r.err = r.s.Err()
		return "", false, r.err
	}
	r.peekVal = r.s.Text()
	r.peeked = true
	return r.peekVal, true, nil
}

// Next returns the next logical record, io.EOF after the last one, or a
// fatal error. An empty input yields io.EOF immediately; blank lines between
// and after records are skipped.
func (r *Reader) Next() (Record, error) {
	// Skip blank separator lines.
	var acc string
	var start int
	for {
		line, ok, err := r.next()
		if err != nil {
			return Record{}, fmt.Errorf("dat: read line %d: %w", r.line+1, err)
		}
		if !ok {
			return Record{}, io.EOF
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		acc = line
		start = r.line
		break
	}

	// A record needs expected-1 separators; the loop also keeps consuming
	// continuation lines for a multi-line final field until the next line is
	// a boundary, so the count runs against expected, not expected-1.
	for strings.Count(acc, "|") < r.expected {
		nxt, ok, err := r.peek()
		if err != nil {
			return Record{}, fmt.Errorf("dat: read line %d: %w", r.line+1, err)
		}
		if !ok {
			break // input exhausted mid-record; count check below decides
		}
		if r.boundary(nxt) {
			break // next physical line opens the following record
		}
		if strings.TrimSpace(nxt) == "" {
			break // blank separator line, never continuation content
		}
		r.next() // consume the continuation line
		acc += "\n" + nxt
	}

	fields := strings.SplitN(acc, "|", r.expected)
	if len(fields) != r.expected {
		return Record{}, &FieldCountError{
			StartLine: start,
			EndLine:   r.line,
			Expected:  r.expected,
			Actual:    len(fields),
			Preview:   preview(acc),
		}
	}
	return Record{StartLine: start, Fields: fields}, nil
}

func preview(s string) string {
	if len(s) <= previewLen {
		return s
	}
	return s[:previewLen]
}

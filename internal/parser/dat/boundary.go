package dat

import "regexp"

// BoundaryFunc reports whether a physical line starts a new logical record.
// It is a pure predicate so the reader can be tested with synthetic rules
// independent of any file naming convention.
type BoundaryFunc func(line string) bool

// idPattern matches the record identifier characters: uppercase letters,
// digits, underscore, hyphen. Matching is case-sensitive.
const idPattern = `[A-Z0-9_-]+\|`

// Boundary builds the record-boundary predicate for a file name prefix.
// A line starts a new record when it matches ^<prefix><ID-chars>| ; with an
// empty prefix the generic ^<ID-chars>| pattern applies.
//
// This heuristic substitutes for a proper escaping scheme: a continuation
// line that happens to match the pattern is misclassified as a new record
// start, which truncates the prior record and trips its field-count check.
// That is an inherent limitation of the format, not something this predicate
// tries to patch.
func Boundary(prefix string) BoundaryFunc {
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + idPattern)
	return re.MatchString
}

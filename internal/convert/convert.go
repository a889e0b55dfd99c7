// Package convert turns raw string fields into typed values according to a
// semantic target type, using locale-invariant rules only.
//
// Every conversion starts with NULL detection (see IsNull); a NULL field
// becomes a nil value, which the storage backends write as SQL NULL. After
// that, dispatch runs through a registry keyed by the closed set of semantic
// types, so a new type is a new registry entry rather than a longer switch.
//
// Failure policy: temporal, integer, floating point and decimal failures are
// fatal and carry full operator context (table, field, line, raw value,
// accepted formats). Boolean is the single deliberate exception: unrecognized
// input degrades to false and emits a non-fatal Warning through the
// converter's callback.
package convert

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"datloader/internal/spec"
)

// nullTokens are the raw values (after trimming, upper-cased) that mean
// "no value". Membership is case-insensitive.
var nullTokens = map[string]struct{}{
	"NULL": {},
	"NA":   {},
	"N/A":  {},
}

// IsNull reports whether raw represents no value: empty, whitespace-only, or
// one of the recognized NULL tokens.
func IsNull(raw string) bool {
	t := strings.TrimSpace(raw)
	if t == "" {
		return true
	}
	_, ok := nullTokens[strings.ToUpper(t)]
	return ok
}

// Context identifies where a value came from, for diagnostics.
type Context struct {
	Table string
	Field string
	Line  int
}

// Error is a fatal conversion failure. It aborts the whole file import.
type Error struct {
	Context
	Raw      string
	Target   spec.Type
	Guidance string
}

func (e *Error) Error() string {
	return fmt.Sprintf("convert: table=%s field=%s line=%d value=%q target=%s: %s",
		e.Table, e.Field, e.Line, e.Raw, e.Target, e.Guidance)
}

// Warning is a non-fatal conversion notice. Only boolean conversion emits it.
type Warning struct {
	Context
	Raw    string
	Target spec.Type
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("table=%s field=%s line=%d value=%q target=%s: %s",
		w.Table, w.Field, w.Line, w.Raw, w.Target, w.Reason)
}

// WarnFunc receives non-fatal warnings. A nil WarnFunc drops them.
type WarnFunc func(Warning)

// Converter converts raw fields for one destination table.
type Converter struct {
	table string
	warn  WarnFunc
}

// New returns a Converter for table. warn may be nil.
func New(table string, warn WarnFunc) *Converter {
	return &Converter{table: table, warn: warn}
}

// convertFn is one registry entry: raw is guaranteed non-NULL on entry.
type convertFn func(c *Converter, raw string, ctx Context) (any, error)

var registry = map[spec.Type]convertFn{
	spec.Text:     convertText,
	spec.Temporal: convertTemporal,
	spec.Int32:    convertInt32,
	spec.Int64:    convertInt64,
	spec.Double:   convertDouble,
	spec.Single:   convertSingle,
	spec.Decimal:  convertDecimal,
	spec.Boolean:  convertBoolean,
}

// Convert converts one raw field into the typed value for target. A nil
// result with nil error means SQL NULL.
func (c *Converter) Convert(raw string, target spec.Type, field string, line int) (any, error) {
	if IsNull(raw) {
		return nil, nil
	}
	ctx := Context{Table: c.table, Field: field, Line: line}
	fn, ok := registry[target]
	if !ok {
		fn = convertText
	}
	return fn(c, raw, ctx)
}

func convertText(_ *Converter, raw string, _ Context) (any, error) {
	return raw, nil
}

// temporalLayouts are tried most specific first; the first strict match wins.
// There is deliberately no locale-aware fallback.
var temporalLayouts = []string{
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05.00",
	"2006-01-02 15:04:05.0",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func convertTemporal(_ *Converter, raw string, ctx Context) (any, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range temporalLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		// time.Parse tolerates an extra fractional-second field (and a comma
		// separator) even when the layout carries none; the input is valid
		// only if it round-trips through the layout unchanged.
		if t.Format(layout) != s {
			continue
		}
		return t, nil
	}
	return nil, &Error{
		Context:  ctx,
		Raw:      raw,
		Target:   spec.Temporal,
		Guidance: "accepted formats: " + strings.Join(temporalLayouts, ", "),
	}
}

var (
	minInt32 = decimal.NewFromInt(math.MinInt32)
	maxInt32 = decimal.NewFromInt(math.MaxInt32)
	minInt64 = decimal.NewFromInt(math.MinInt64)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
)

// parseIntegral parses raw as an arbitrary-precision decimal and requires the
// fractional part to be exactly zero, so inputs like "123.0" pass and "123.5"
// fail. The integral part must fit [lo, hi].
func parseIntegral(raw string, ctx Context, target spec.Type, lo, hi decimal.Decimal) (int64, error) {
	s := strings.TrimSpace(raw)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, &Error{
			Context:  ctx,
			Raw:      raw,
			Target:   target,
			Guidance: "not a decimal number (period decimal separator, no thousands separators)",
		}
	}
	if !d.IsInteger() {
		return 0, &Error{
			Context:  ctx,
			Raw:      raw,
			Target:   target,
			Guidance: "fractional part must be zero for integer columns",
		}
	}
	if d.Cmp(lo) < 0 || d.Cmp(hi) > 0 {
		return 0, &Error{
			Context:  ctx,
			Raw:      raw,
			Target:   target,
			Guidance: fmt.Sprintf("out of range for %s", target),
		}
	}
	return d.IntPart(), nil
}

func convertInt32(_ *Converter, raw string, ctx Context) (any, error) {
	n, err := parseIntegral(raw, ctx, spec.Int32, minInt32, maxInt32)
	if err != nil {
		return nil, err
	}
	return int32(n), nil
}

func convertInt64(_ *Converter, raw string, ctx Context) (any, error) {
	n, err := parseIntegral(raw, ctx, spec.Int64, minInt64, maxInt64)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func convertDouble(_ *Converter, raw string, ctx Context) (any, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil, &Error{
			Context:  ctx,
			Raw:      raw,
			Target:   spec.Double,
			Guidance: "not a floating point number (period decimal separator, exponent allowed)",
		}
	}
	return f, nil
}

func convertSingle(_ *Converter, raw string, ctx Context) (any, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 32)
	if err != nil {
		return nil, &Error{
			Context:  ctx,
			Raw:      raw,
			Target:   spec.Single,
			Guidance: "not a floating point number (period decimal separator, exponent allowed)",
		}
	}
	return float32(f), nil
}

func convertDecimal(_ *Converter, raw string, ctx Context) (any, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return nil, &Error{
			Context:  ctx,
			Raw:      raw,
			Target:   spec.Decimal,
			Guidance: "not a decimal number (period decimal separator, no thousands separators)",
		}
	}
	return d, nil
}

var (
	boolTrue  = map[string]struct{}{"1": {}, "TRUE": {}, "YES": {}, "Y": {}, "T": {}}
	boolFalse = map[string]struct{}{"0": {}, "FALSE": {}, "NO": {}, "N": {}, "F": {}}
)

// convertBoolean never fails: unrecognized input becomes false plus a
// warning, so one sloppy flag column cannot abort a whole file.
func convertBoolean(c *Converter, raw string, ctx Context) (any, error) {
	u := strings.ToUpper(strings.TrimSpace(raw))
	if _, ok := boolTrue[u]; ok {
		return true, nil
	}
	if _, ok := boolFalse[u]; ok {
		return false, nil
	}
	if c.warn != nil {
		c.warn(Warning{
			Context: ctx,
			Raw:     raw,
			Target:  spec.Boolean,
			Reason:  "unrecognized boolean token, defaulting to false",
		})
	}
	return false, nil
}

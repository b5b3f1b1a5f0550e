package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/ndbq/internal/ir"
)

// Assertion types reported in AssertionError.Type.
const (
	AssertError     = "error"
	AssertParams    = "params"
	AssertIDs       = "ids"
	AssertCount     = "count"
	AssertContains  = "contains"
	AssertAgreement = "agreement"
)

// AssertionError is returned when an expectation fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Case     string
	Backend  string // Empty for cross-backend assertions
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "case %s", e.Case)
	if e.Backend != "" {
		fmt.Fprintf(&buf, " [%s]", e.Backend)
	}
	fmt.Fprintf(&buf, ": %s assertion failed\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// checkExpect evaluates every expectation of c against one outcome.
func checkExpect(c Case, out Outcome) []error {
	var errs []error
	fail := func(typ, expected, actual string) {
		errs = append(errs, &AssertionError{
			Case:     c.Name,
			Backend:  out.Backend,
			Type:     typ,
			Expected: expected,
			Actual:   actual,
		})
	}

	exp := c.Expect
	if exp.Error != "" {
		if out.ErrorCode != exp.Error {
			fail(AssertError, exp.Error, describeOutcome(out))
		}
		return errs
	}
	if out.ErrorCode != "" {
		fail(AssertError, "success", describeOutcome(out))
		return errs
	}

	if exp.Params != nil && out.Params != *exp.Params {
		fail(AssertParams, fmt.Sprintf("%d parameters", *exp.Params), fmt.Sprintf("%d parameters", out.Params))
	}

	if exp.IDs != nil {
		want, err := toIRValues(exp.IDs)
		if err != nil {
			fail(AssertIDs, fmt.Sprintf("%v", exp.IDs), err.Error())
		} else if !slices.EqualFunc(want, out.IDs, ir.Equal) {
			fail(AssertIDs, formatValues(want), formatValues(out.IDs))
		}
	}

	if exp.Count != nil && len(out.Rows) != *exp.Count {
		fail(AssertCount, fmt.Sprintf("%d rows", *exp.Count), fmt.Sprintf("%d rows", len(out.Rows)))
	}

	for _, fields := range exp.Contains {
		want, err := ir.ObjectFromGo(fields)
		if err != nil {
			fail(AssertContains, fmt.Sprintf("%v", fields), err.Error())
			continue
		}
		if !slices.ContainsFunc(out.Rows, func(row ir.IRObject) bool { return matchFields(row, want) }) {
			fail(AssertContains, "row matching "+formatObject(want), fmt.Sprintf("no match in %d rows", len(out.Rows)))
		}
	}

	return errs
}

// checkAgreement requires every backend to produce the same rows, or the
// same error code.
func checkAgreement(caseName string, outs []Outcome) error {
	for _, out := range outs[1:] {
		first := outs[0]
		if first.ErrorCode != out.ErrorCode || !slices.EqualFunc(first.Rows, out.Rows, rowsEqual) {
			return &AssertionError{
				Case:     caseName,
				Type:     AssertAgreement,
				Expected: fmt.Sprintf("%s: %s", first.Backend, describeOutcome(first)),
				Actual:   fmt.Sprintf("%s: %s", out.Backend, describeOutcome(out)),
			}
		}
	}
	return nil
}

func rowsEqual(a, b ir.IRObject) bool {
	return ir.Equal(a, b)
}

// matchFields reports whether row holds every field of want (subset match).
func matchFields(row, want ir.IRObject) bool {
	for k, v := range want {
		got, ok := row[k]
		if !ok || !ir.Equal(got, v) {
			return false
		}
	}
	return true
}

func describeOutcome(out Outcome) string {
	if out.ErrorCode != "" {
		return fmt.Sprintf("error %s (%s)", out.ErrorCode, out.Error)
	}
	return fmt.Sprintf("%d rows, ids %s", len(out.Rows), formatValues(out.IDs))
}

func formatValues(vals []ir.IRValue) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = ir.Literal(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatObject(obj ir.IRObject) string {
	parts := make([]string, 0, len(obj))
	for _, k := range obj.SortedKeys() {
		parts = append(parts, k+"="+ir.Literal(obj[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

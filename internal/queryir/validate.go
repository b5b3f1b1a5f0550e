package queryir

import (
	"fmt"
	"strings"

	"github.com/roach88/ndbq/internal/ir"
)

// ValidationResult contains portability analysis of a query.
//
// Every query the domain builds is executable. Warnings point out filters
// that are legal but probably not what the author meant, or that no
// backend can serve from an index.
type ValidationResult struct {
	// IsPortable indicates the query triggered no warnings.
	IsPortable bool

	// Warnings lists the problems found, in filter order.
	Warnings []string
}

// Validate checks a query for suspicious or index-hostile constructs:
//  1. Comparisons against a NULL literal (always unknown, use IS NULL)
//  2. LIKE patterns starting with a wildcard (cannot use an index)
//  3. Empty AND/OR lists
//  4. Parameter indices that are not 0..n-1 in textual order
//  5. SELECT * (no explicit columns)
//
// Validate is a pure function with no side effects.
func Validate(query Query) ValidationResult {
	v := &validator{
		warnings: []string{},
	}
	v.validateQuery(query)

	return ValidationResult{
		IsPortable: len(v.warnings) == 0,
		Warnings:   v.warnings,
	}
}

// validator accumulates warnings during traversal.
type validator struct {
	warnings []string
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q Query) {
	switch query := q.(type) {
	case *Select:
		v.validateSelect(query)
	case nil:
		v.addWarning("nil query")
	default:
		v.addWarning("Unknown query type: %T - portability cannot be verified", q)
	}
}

func (v *validator) validateSelect(sel *Select) {
	if len(sel.Columns) == 0 {
		v.addWarning("Empty column list (SELECT *) - select explicit columns")
	}
	if sel.Filter == nil {
		return
	}

	v.validatePredicate(sel.Filter)

	for i, p := range Params(sel.Filter) {
		if p.Index != i {
			v.addWarning("Parameter %d has index %d - indices must follow textual order", i, p.Index)
			break
		}
	}
}

func (v *validator) validatePredicate(p Predicate) {
	switch pred := p.(type) {
	case *Compare:
		if isNullLiteral(pred.Value) {
			v.addWarning("Field '%s' compared to NULL with %s - always unknown, use IS NULL", pred.Field, pred.Op)
		}
	case *Between:
		if isNullLiteral(pred.Lower) || isNullLiteral(pred.Upper) {
			v.addWarning("Field '%s' BETWEEN has a NULL bound - always unknown", pred.Field)
		}
	case *In:
		for _, val := range pred.Values {
			if isNullLiteral(val) {
				v.addWarning("Field '%s' IN list contains NULL - it never matches", pred.Field)
				break
			}
		}
	case *Like:
		if lit, ok := pred.Pattern.(*Literal); ok {
			if s, ok := lit.Value.(ir.IRString); ok && (strings.HasPrefix(string(s), "%") || strings.HasPrefix(string(s), "_")) {
				v.addWarning("Field '%s' LIKE pattern starts with a wildcard - cannot use an index", pred.Field)
			}
		}
	case *And:
		if len(pred.Predicates) == 0 {
			v.addWarning("Empty AND - always true")
		}
	case *Or:
		if len(pred.Predicates) == 0 {
			v.addWarning("Empty OR - always false")
		}
	case *IsNull, *Not:
	default:
		v.addWarning("Unknown predicate type: %T - portability cannot be verified", p)
	}

	for _, child := range Children(p) {
		v.validatePredicate(child)
	}
}

func isNullLiteral(o Operand) bool {
	lit, ok := o.(*Literal)
	return ok && ir.IsNull(lit.Value)
}

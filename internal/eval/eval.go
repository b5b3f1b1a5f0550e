package eval

import (
	"fmt"

	"github.com/roach88/ndbq/internal/ir"
	"github.com/roach88/ndbq/internal/queryir"
)

// Truth is a three-valued logic result.
type Truth int

const (
	False Truth = iota
	True
	Unknown
)

func (t Truth) String() string {
	switch t {
	case True:
		return "TRUE"
	case False:
		return "FALSE"
	default:
		return "UNKNOWN"
	}
}

// Not negates t. Unknown stays Unknown.
func (t Truth) Not() Truth {
	switch t {
	case True:
		return False
	case False:
		return True
	default:
		return Unknown
	}
}

func truthOf(b bool) Truth {
	if b {
		return True
	}
	return False
}

// Eval evaluates p against row with args bound to its parameters.
// A nil predicate is True.
//
// Errors are reserved for malformed input: a column missing from the row,
// a parameter without an argument, or operands of incomparable kinds.
func Eval(p queryir.Predicate, row ir.IRObject, args []ir.IRValue) (Truth, error) {
	e := evaluator{row: row, args: args}
	return e.eval(p)
}

// Matches reports whether p is True for row. Unknown does not match.
func Matches(p queryir.Predicate, row ir.IRObject, args []ir.IRValue) (bool, error) {
	t, err := Eval(p, row, args)
	if err != nil {
		return false, err
	}
	return t == True, nil
}

type evaluator struct {
	row  ir.IRObject
	args []ir.IRValue
}

func (e evaluator) eval(p queryir.Predicate) (Truth, error) {
	switch pred := p.(type) {
	case nil:
		return True, nil
	case *queryir.And:
		result := True
		for _, child := range pred.Predicates {
			t, err := e.eval(child)
			if err != nil {
				return Unknown, err
			}
			if t == False {
				return False, nil
			}
			if t == Unknown {
				result = Unknown
			}
		}
		return result, nil
	case *queryir.Or:
		result := False
		for _, child := range pred.Predicates {
			t, err := e.eval(child)
			if err != nil {
				return Unknown, err
			}
			if t == True {
				return True, nil
			}
			if t == Unknown {
				result = Unknown
			}
		}
		return result, nil
	case *queryir.Not:
		t, err := e.eval(pred.Predicate)
		if err != nil {
			return Unknown, err
		}
		return t.Not(), nil
	case *queryir.IsNull:
		v, err := e.field(pred.Field)
		if err != nil {
			return Unknown, err
		}
		return truthOf(ir.IsNull(v) != pred.Negated), nil
	case *queryir.Compare:
		return e.compare(pred)
	case *queryir.Between:
		return e.between(pred)
	case *queryir.In:
		return e.in(pred)
	case *queryir.Like:
		return e.like(pred)
	default:
		return Unknown, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func (e evaluator) field(name string) (ir.IRValue, error) {
	v, ok := e.row[name]
	if !ok {
		return nil, fmt.Errorf("row has no column %q", name)
	}
	return v, nil
}

func (e evaluator) operand(o queryir.Operand) (ir.IRValue, error) {
	switch op := o.(type) {
	case *queryir.Literal:
		return op.Value, nil
	case *queryir.Param:
		if op.Index < 0 || op.Index >= len(e.args) {
			return nil, fmt.Errorf("parameter %d not bound (%d arguments)", op.Index, len(e.args))
		}
		return e.args[op.Index], nil
	default:
		return nil, fmt.Errorf("unsupported operand type: %T", o)
	}
}

// cmp compares a field value with an operand. ok is false when either side
// is NULL.
func (e evaluator) cmp(field ir.IRValue, o queryir.Operand) (c int, ok bool, err error) {
	v, err := e.operand(o)
	if err != nil {
		return 0, false, err
	}
	if ir.IsNull(field) || ir.IsNull(v) {
		return 0, false, nil
	}
	c, err = ir.Compare(field, v)
	if err != nil {
		return 0, false, err
	}
	return c, true, nil
}

func (e evaluator) compare(pred *queryir.Compare) (Truth, error) {
	field, err := e.field(pred.Field)
	if err != nil {
		return Unknown, err
	}
	c, ok, err := e.cmp(field, pred.Value)
	if err != nil || !ok {
		return Unknown, err
	}

	switch pred.Op {
	case queryir.OpEq:
		return truthOf(c == 0), nil
	case queryir.OpNeq:
		return truthOf(c != 0), nil
	case queryir.OpLt:
		return truthOf(c < 0), nil
	case queryir.OpLte:
		return truthOf(c <= 0), nil
	case queryir.OpGt:
		return truthOf(c > 0), nil
	case queryir.OpGte:
		return truthOf(c >= 0), nil
	default:
		return Unknown, fmt.Errorf("unsupported comparison operator %q", pred.Op)
	}
}

// between is "lower <= field AND field <= upper" under three-valued AND.
func (e evaluator) between(pred *queryir.Between) (Truth, error) {
	field, err := e.field(pred.Field)
	if err != nil {
		return Unknown, err
	}

	lo, loOK, err := e.cmp(field, pred.Lower)
	if err != nil {
		return Unknown, err
	}
	hi, hiOK, err := e.cmp(field, pred.Upper)
	if err != nil {
		return Unknown, err
	}

	if (loOK && lo < 0) || (hiOK && hi > 0) {
		return False, nil
	}
	if !loOK || !hiOK {
		return Unknown, nil
	}
	return True, nil
}

// in is a three-valued OR of equality tests.
func (e evaluator) in(pred *queryir.In) (Truth, error) {
	field, err := e.field(pred.Field)
	if err != nil {
		return Unknown, err
	}

	result := False
	for _, o := range pred.Values {
		c, ok, err := e.cmp(field, o)
		if err != nil {
			return Unknown, err
		}
		if !ok {
			result = Unknown
			continue
		}
		if c == 0 {
			return True, nil
		}
	}
	return result, nil
}

func (e evaluator) like(pred *queryir.Like) (Truth, error) {
	field, err := e.field(pred.Field)
	if err != nil {
		return Unknown, err
	}
	pattern, err := e.operand(pred.Pattern)
	if err != nil {
		return Unknown, err
	}
	if ir.IsNull(field) || ir.IsNull(pattern) {
		return Unknown, nil
	}

	s, ok := field.(ir.IRString)
	if !ok {
		return Unknown, fmt.Errorf("LIKE on %s column %q", ir.KindOf(field), pred.Field)
	}
	p, ok := pattern.(ir.IRString)
	if !ok {
		return Unknown, fmt.Errorf("LIKE pattern must be a string, got %s", ir.KindOf(pattern))
	}
	return truthOf(Like(string(s), string(p))), nil
}

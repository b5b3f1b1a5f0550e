package syntax

import (
	"fmt"

	"github.com/roach88/ndbq/internal/token"
)

// Comparator identifies the condition a leaf node applies to its column.
type Comparator int

const (
	Equal Comparator = iota + 1
	NotEqual
	Less
	LessEqual
	Greater
	GreaterEqual
	Between
	In
	Like
	IsNull
	IsNotNull
)

var comparatorText = map[Comparator]string{
	Equal:        "=",
	NotEqual:     "<>",
	Less:         "<",
	LessEqual:    "<=",
	Greater:      ">",
	GreaterEqual: ">=",
	Between:      "BETWEEN",
	In:           "IN",
	Like:         "LIKE",
	IsNull:       "IS NULL",
	IsNotNull:    "IS NOT NULL",
}

func (c Comparator) String() string {
	if s, ok := comparatorText[c]; ok {
		return s
	}
	return fmt.Sprintf("Comparator(%d)", int(c))
}

// MarshalText renders the comparator for JSON output.
func (c Comparator) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Arity returns the number of operands the comparator takes, or -1 for IN,
// which takes one or more.
func (c Comparator) Arity() int {
	switch c {
	case IsNull, IsNotNull:
		return 0
	case Between:
		return 2
	case In:
		return -1
	default:
		return 1
	}
}

// IsOrdering reports whether the comparator depends on value ordering.
func (c Comparator) IsOrdering() bool {
	switch c {
	case Less, LessEqual, Greater, GreaterEqual, Between:
		return true
	}
	return false
}

// IsBinary reports whether the comparator is a plain two-sided comparison
// represented by a ComparisonNode.
func (c Comparator) IsBinary() bool {
	return c >= Equal && c <= GreaterEqual
}

// ComparatorFor maps a comparison token kind to its comparator.
func ComparatorFor(k token.Kind) (Comparator, bool) {
	switch k {
	case token.EQ:
		return Equal, true
	case token.NEQ:
		return NotEqual, true
	case token.LT:
		return Less, true
	case token.LTE:
		return LessEqual, true
	case token.GT:
		return Greater, true
	case token.GTE:
		return GreaterEqual, true
	}
	return 0, false
}

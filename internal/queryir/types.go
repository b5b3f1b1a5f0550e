package queryir

import "github.com/roach88/ndbq/internal/ir"

// Query represents an abstract query in the QueryIR.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in backends.
type Query interface {
	queryNode() // Marker method - seals interface to this package
}

// Predicate represents a filter condition in the QueryIR.
//
// This is a sealed interface - only types in this package implement it.
//
// Predicate types:
//   - Compare: field <op> operand
//   - Between: field BETWEEN lower AND upper
//   - In: field IN (operands...)
//   - Like: field LIKE pattern
//   - IsNull: field IS [NOT] NULL
//   - And, Or: n-ary combinations
//   - Not: negation
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Operand is the right-hand side of a condition: a literal or a bind
// parameter.
type Operand interface {
	operandNode() // Marker method - seals interface to this package
}

// Select represents a table access query with filtering.
//
// Semantics:
//
//	SELECT <columns> FROM <from> WHERE <filter> ORDER BY <order_by>
//
// Backends must return rows in OrderBy order. A domain always sets it to the
// primary key so results are deterministic.
type Select struct {
	From    string    // Table name
	Columns []string  // Selected columns, in table order
	Filter  Predicate // WHERE conditions (nil = no filter)
	OrderBy []string  // Ascending sort keys
}

func (*Select) queryNode() {}

// Op is a two-sided comparison operator.
type Op string

const (
	OpEq  Op = "="
	OpNeq Op = "<>"
	OpLt  Op = "<"
	OpLte Op = "<="
	OpGt  Op = ">"
	OpGte Op = ">="
)

// Compare represents "field <op> value".
//
// NULLs never compare equal to anything: a comparison with a NULL operand
// is unknown, and so is a comparison on a NULL field.
type Compare struct {
	Field string
	Op    Op
	Value Operand
}

func (*Compare) predicateNode() {}

// Between represents "field BETWEEN lower AND upper", inclusive on both ends.
type Between struct {
	Field string
	Lower Operand
	Upper Operand
}

func (*Between) predicateNode() {}

// In represents "field IN (values...)". Values is never empty.
type In struct {
	Field  string
	Values []Operand
}

func (*In) predicateNode() {}

// Like represents "field LIKE pattern" with SQL wildcards: % matches any
// run of characters, _ matches exactly one.
type Like struct {
	Field   string
	Pattern Operand
}

func (*Like) predicateNode() {}

// IsNull represents "field IS NULL", or "field IS NOT NULL" when Negated.
type IsNull struct {
	Field   string
	Negated bool
}

func (*IsNull) predicateNode() {}

// And represents a conjunction of predicates (all must be true).
// Empty Predicates means "always true".
type And struct {
	Predicates []Predicate
}

func (*And) predicateNode() {}

// Or represents a disjunction of predicates (at least one must be true).
// Empty Predicates means "always false".
type Or struct {
	Predicates []Predicate
}

func (*Or) predicateNode() {}

// Not represents the negation of a predicate.
type Not struct {
	Predicate Predicate
}

func (*Not) predicateNode() {}

// Literal is a constant operand.
type Literal struct {
	Value ir.IRValue
}

func (*Literal) operandNode() {}

// Param is a bind parameter. Index is its zero-based binding position;
// Name is set for named parameters.
type Param struct {
	Index int
	Name  string
}

func (*Param) operandNode() {}

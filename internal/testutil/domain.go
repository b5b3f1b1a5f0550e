package testutil

import (
	"fmt"
	"strings"

	"github.com/roach88/ndbq/internal/compiler"
	"github.com/roach88/ndbq/internal/ir"
	"github.com/roach88/ndbq/internal/syntax"
)

// Expr is the predicate built by RecordingDomain. It keeps the shape of the
// compiled tree so tests can inspect it.
type Expr struct {
	// Op is "AND", "OR", "NOT" or "LEAF".
	Op string

	Column     string
	Comparator syntax.Comparator
	Operands   []compiler.Operand

	Children []*Expr
}

var _ compiler.Predicate[*Expr] = (*Expr)(nil)

func (e *Expr) And(other *Expr) *Expr {
	return &Expr{Op: "AND", Children: []*Expr{e, other}}
}

func (e *Expr) Or(other *Expr) *Expr {
	return &Expr{Op: "OR", Children: []*Expr{e, other}}
}

func (e *Expr) Not() *Expr {
	return &Expr{Op: "NOT", Children: []*Expr{e}}
}

// String renders the expression with parameters shown as $index.
func (e *Expr) String() string {
	switch e.Op {
	case "AND", "OR":
		return fmt.Sprintf("(%s %s %s)", e.Children[0], e.Op, e.Children[1])
	case "NOT":
		return fmt.Sprintf("NOT %s", e.Children[0])
	}
	parts := make([]string, len(e.Operands))
	for i, op := range e.Operands {
		parts[i] = op.String()
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s %s", e.Column, e.Comparator)
	}
	return fmt.Sprintf("%s %s %s", e.Column, e.Comparator, strings.Join(parts, ", "))
}

// Eval evaluates the expression against a row, with args indexed by
// parameter index. Only the equality comparators are supported; anything
// else evaluates to false.
func (e *Expr) Eval(row map[string]ir.IRValue, args []ir.IRValue) bool {
	switch e.Op {
	case "AND":
		return e.Children[0].Eval(row, args) && e.Children[1].Eval(row, args)
	case "OR":
		return e.Children[0].Eval(row, args) || e.Children[1].Eval(row, args)
	case "NOT":
		return !e.Children[0].Eval(row, args)
	}
	if len(e.Operands) != 1 {
		return false
	}
	want := e.Operands[0].Value
	if p := e.Operands[0].Param; p != nil {
		if p.Index >= len(args) {
			return false
		}
		want = args[p.Index]
	}
	got, ok := row[e.Column]
	if !ok {
		return false
	}
	switch e.Comparator {
	case syntax.Equal:
		return ir.Equal(got, want)
	case syntax.NotEqual:
		return !ir.Equal(got, want)
	default:
		return false
	}
}

// RecordingDomain is a compiler.Domain that accepts every leaf and records
// the order of calls made to it. Columns listed in Unknown are rejected
// with an UNKNOWN_COLUMN resolution error.
type RecordingDomain struct {
	Unknown map[string]bool

	// Calls logs every call, e.g. "register ?", "register :dept",
	// "resolve salary =".
	Calls []string

	// Registered holds the column each parameter was registered for,
	// filled in when its leaf resolves.
	Registered []string

	// FixedIndex, when set, makes every registration return this index
	// instead of the next one.
	FixedIndex *int

	next int
}

var _ compiler.Domain[*Expr] = (*RecordingDomain)(nil)

// NewRecordingDomain creates a domain that rejects the given columns.
func NewRecordingDomain(unknown ...string) *RecordingDomain {
	d := &RecordingDomain{Unknown: make(map[string]bool)}
	for _, c := range unknown {
		d.Unknown[c] = true
	}
	return d
}

func (d *RecordingDomain) RegisterParameter(name string) (compiler.ParamRef, error) {
	if name == "" {
		d.Calls = append(d.Calls, "register ?")
	} else {
		d.Calls = append(d.Calls, "register :"+name)
	}
	idx := d.next
	if d.FixedIndex != nil {
		idx = *d.FixedIndex
	}
	d.next++
	return compiler.ParamRef{Index: idx, Name: name}, nil
}

func (d *RecordingDomain) ResolveLeaf(column string, cmp syntax.Comparator, operands []compiler.Operand) (*Expr, error) {
	d.Calls = append(d.Calls, fmt.Sprintf("resolve %s %s", column, cmp))
	if d.Unknown[column] {
		return nil, &compiler.ResolutionError{
			Code:       compiler.CodeUnknownColumn,
			Column:     column,
			Comparator: cmp,
			Message:    fmt.Sprintf("column %q does not exist", column),
		}
	}
	for _, op := range operands {
		if op.IsParam() {
			d.Registered = append(d.Registered, column)
		}
	}
	return &Expr{Op: "LEAF", Column: column, Comparator: cmp, Operands: operands}, nil
}

// RegisteredCount returns the number of parameters registered so far.
func (d *RecordingDomain) RegisteredCount() int {
	return d.next
}

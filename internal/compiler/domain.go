package compiler

import (
	"fmt"

	"github.com/roach88/ndbq/internal/ir"
	"github.com/roach88/ndbq/internal/syntax"
)

// Predicate is the executable condition a Domain produces. Combinators
// return a new predicate and must not modify the receiver or the argument.
type Predicate[P any] interface {
	And(other P) P
	Or(other P) P
	Not() P
}

// Domain is the query context a tree is compiled against. It knows the
// target table, resolves leaf conditions to predicates and hands out
// parameter slots.
//
// A Domain is used by one compilation at a time. Compiling the same tree
// twice needs two domains (or a domain that can be reset), because every
// parameter registration consumes a slot.
type Domain[P Predicate[P]] interface {
	// RegisterParameter reserves the next parameter slot. name is empty for
	// positional parameters.
	RegisterParameter(name string) (ParamRef, error)

	// ResolveLeaf builds the predicate for a single column condition.
	// Operands are in textual order; parameters among them have already
	// been registered.
	ResolveLeaf(column string, cmp syntax.Comparator, operands []Operand) (P, error)
}

// ParamRef identifies a registered parameter slot.
type ParamRef struct {
	Index int    `json:"index"`
	Name  string `json:"name,omitempty"`
}

func (r ParamRef) String() string {
	if r.Name != "" {
		return fmt.Sprintf("$%d(:%s)", r.Index, r.Name)
	}
	return fmt.Sprintf("$%d", r.Index)
}

// Operand is a resolved leaf operand: either a literal value or a
// registered parameter.
type Operand struct {
	Value ir.IRValue
	Param *ParamRef
}

// LiteralOperand wraps a literal value.
func LiteralOperand(v ir.IRValue) Operand {
	return Operand{Value: v}
}

// ParamOperand wraps a registered parameter.
func ParamOperand(ref ParamRef) Operand {
	return Operand{Param: &ref}
}

// IsParam reports whether the operand is a parameter.
func (o Operand) IsParam() bool {
	return o.Param != nil
}

func (o Operand) String() string {
	if o.Param != nil {
		return o.Param.String()
	}
	return ir.Literal(o.Value)
}

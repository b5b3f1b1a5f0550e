package domain

import (
	"github.com/roach88/ndbq/internal/compiler"
	"github.com/roach88/ndbq/internal/queryir"
)

// Predicate is the compiled form of a filter against a Type. It wraps an
// immutable queryir predicate; And, Or and Not build new values and never
// touch their inputs.
type Predicate struct {
	node queryir.Predicate
}

var _ compiler.Predicate[Predicate] = Predicate{}

// IR returns the underlying query IR predicate.
func (p Predicate) IR() queryir.Predicate {
	return p.node
}

func (p Predicate) String() string {
	return queryir.Format(p.node)
}

// And returns the conjunction of p and other. Nested conjunctions are
// flattened into a single And.
func (p Predicate) And(other Predicate) Predicate {
	var preds []queryir.Predicate
	preds = appendFlat[*queryir.And](preds, p.node, func(a *queryir.And) []queryir.Predicate { return a.Predicates })
	preds = appendFlat[*queryir.And](preds, other.node, func(a *queryir.And) []queryir.Predicate { return a.Predicates })
	return Predicate{node: &queryir.And{Predicates: preds}}
}

// Or returns the disjunction of p and other. Nested disjunctions are
// flattened into a single Or.
func (p Predicate) Or(other Predicate) Predicate {
	var preds []queryir.Predicate
	preds = appendFlat[*queryir.Or](preds, p.node, func(o *queryir.Or) []queryir.Predicate { return o.Predicates })
	preds = appendFlat[*queryir.Or](preds, other.node, func(o *queryir.Or) []queryir.Predicate { return o.Predicates })
	return Predicate{node: &queryir.Or{Predicates: preds}}
}

// Not returns the negation of p.
func (p Predicate) Not() Predicate {
	return Predicate{node: &queryir.Not{Predicate: p.node}}
}

// appendFlat appends n to dst, or n's children when n is already a
// junction of kind J.
func appendFlat[J queryir.Predicate](dst []queryir.Predicate, n queryir.Predicate, children func(J) []queryir.Predicate) []queryir.Predicate {
	if j, ok := n.(J); ok {
		return append(dst, children(j)...)
	}
	return append(dst, n)
}

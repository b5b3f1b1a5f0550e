package compiler

import (
	"fmt"
	"log/slog"

	"github.com/roach88/ndbq/internal/ir"
	"github.com/roach88/ndbq/internal/syntax"
	"github.com/roach88/ndbq/internal/token"
)

// Result is a compiled filter.
type Result[P any] struct {
	// Predicate is the executable condition.
	Predicate P

	// ParamCount is the number of parameters Predicate expects. It always
	// equals len(Params).
	ParamCount int

	// Params lists the registered parameters in binding order.
	Params []ParamRef
}

// Compile turns a syntax tree into a predicate of domain d.
//
// The tree is walked once, depth-first, left child before right child, so
// parameters are registered with d in the order they appear in the filter
// text. On error no predicate is returned. Any parameters already
// registered with d stay registered; discard the domain.
func Compile[P Predicate[P]](root syntax.PredicateNode, d Domain[P]) (*Result[P], error) {
	if root == nil {
		return nil, &syntax.StructuralError{
			Tok:     token.New(token.EOF, ""),
			Message: "filter has no condition",
		}
	}

	shim := &countingDomain[P]{Domain: d}
	pred, count, err := CompileNode[P](root, shim)
	if err != nil {
		return nil, err
	}

	if count != len(shim.params) {
		return nil, fmt.Errorf("%w: tree reports %d, domain registered %d",
			ErrParameterCountMismatch, count, len(shim.params))
	}
	for i, ref := range shim.params {
		if ref.Index != shim.params[0].Index+i {
			return nil, fmt.Errorf("%w: parameter %d has index %d",
				ErrParameterCountMismatch, i, ref.Index)
		}
	}

	slog.Debug("filter compiled",
		"params", count,
		"depth", syntax.Depth(root))

	return &Result[P]{
		Predicate:  pred,
		ParamCount: count,
		Params:     shim.params,
	}, nil
}

// CompileNode compiles the subtree rooted at n and returns its predicate
// and the number of parameters it registered. Unlike Compile it does not
// cross-check the count against the domain.
func CompileNode[P Predicate[P]](n syntax.PredicateNode, d Domain[P]) (P, int, error) {
	var zero P

	switch n := n.(type) {
	case *syntax.AndNode:
		return compileBinary(n.Left(), n.Right(), d, func(l, r P) P { return l.And(r) })
	case *syntax.OrNode:
		return compileBinary(n.Left(), n.Right(), d, func(l, r P) P { return l.Or(r) })
	case *syntax.NotNode:
		p, count, err := CompileNode(n.Operand(), d)
		if err != nil {
			return zero, 0, err
		}
		return p.Not(), count, nil
	case syntax.LeafNode:
		return compileLeaf(n, d)
	case nil:
		return zero, 0, &syntax.StructuralError{
			Tok:     token.New(token.EOF, ""),
			Message: "missing condition",
		}
	default:
		return zero, 0, fmt.Errorf("unsupported node type %T", n)
	}
}

// compileBinary compiles left then right. The count is only produced once
// both sides have compiled.
func compileBinary[P Predicate[P]](left, right syntax.PredicateNode, d Domain[P], combine func(l, r P) P) (P, int, error) {
	var zero P

	lp, lc, err := CompileNode(left, d)
	if err != nil {
		return zero, 0, err
	}
	rp, rc, err := CompileNode(right, d)
	if err != nil {
		return zero, 0, err
	}
	return combine(lp, rp), lc + rc, nil
}

func compileLeaf[P Predicate[P]](n syntax.LeafNode, d Domain[P]) (P, int, error) {
	var zero P

	values := n.Operands()
	operands := make([]Operand, len(values))
	count := 0
	for i, v := range values {
		switch v := v.(type) {
		case *syntax.LiteralNode:
			operands[i] = LiteralOperand(v.Value())
		case *syntax.ParamNode:
			ref, err := d.RegisterParameter(v.Name())
			if err != nil {
				return zero, 0, fmt.Errorf("register parameter at %s: %w", v.Token().Pos, err)
			}
			operands[i] = ParamOperand(ref)
			count++
		default:
			return zero, 0, fmt.Errorf("unsupported operand type %T", v)
		}
	}

	p, err := d.ResolveLeaf(n.Column().Name(), n.Comparator(), operands)
	if err != nil {
		return zero, 0, locate(err, n.Token().Pos)
	}
	return p, count, nil
}

// locate fills in the position of a resolution error that has none.
func locate(err error, pos token.Pos) error {
	if re, ok := err.(*ResolutionError); ok && !re.Pos.IsValid() {
		located := *re
		located.Pos = pos
		return &located
	}
	return err
}

// countingDomain records every successful registration so Compile can
// verify the propagated count.
type countingDomain[P Predicate[P]] struct {
	Domain[P]
	params []ParamRef
}

func (c *countingDomain[P]) RegisterParameter(name string) (ParamRef, error) {
	ref, err := c.Domain.RegisterParameter(name)
	if err != nil {
		return ParamRef{}, err
	}
	c.params = append(c.params, ref)
	return ref, nil
}

// Literals returns the literal operands of a resolved leaf, skipping
// parameters. Domains use it for type checks.
func Literals(operands []Operand) []ir.IRValue {
	var out []ir.IRValue
	for _, op := range operands {
		if !op.IsParam() {
			out = append(out, op.Value)
		}
	}
	return out
}

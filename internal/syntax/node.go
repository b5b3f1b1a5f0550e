package syntax

import (
	"fmt"
	"slices"

	"github.com/roach88/ndbq/internal/ir"
	"github.com/roach88/ndbq/internal/token"
)

// Node is implemented by every syntax tree node.
//
// This is a sealed interface - only types in this package implement it.
// The set of variants is closed so that Clone, EqualNodes, Format and the
// compiler can use exhaustive type switches.
//
// Node variants:
//   - Boolean operators: AndNode, OrNode, NotNode
//   - Leaves: ComparisonNode, BetweenNode, InNode, LikeNode, IsNullNode
//   - Operands: ColumnNode, LiteralNode, ParamNode
type Node interface {
	// Token returns the lexical token the node was derived from.
	Token() token.Token

	node() // Marker method - seals interface to this package
}

// PredicateNode is a node that compiles to a predicate: a boolean operator
// or a leaf condition. Boolean operators accept any PredicateNode as a
// child, not only other boolean operators.
type PredicateNode interface {
	Node
	predicateNode()
}

// ValueNode is the operand of a leaf condition: a literal or a parameter.
type ValueNode interface {
	Node
	valueNode()
}

// LeafNode is a condition on a single column. Operands are returned in
// textual order, which is also the order their parameters are bound.
type LeafNode interface {
	PredicateNode
	Column() *ColumnNode
	Comparator() Comparator
	Operands() []ValueNode
}

// isNil reports whether n is nil or a nil pointer to one of the variants.
func isNil(n Node) bool {
	switch n := n.(type) {
	case nil:
		return true
	case *AndNode:
		return n == nil
	case *OrNode:
		return n == nil
	case *NotNode:
		return n == nil
	case *ComparisonNode:
		return n == nil
	case *BetweenNode:
		return n == nil
	case *InNode:
		return n == nil
	case *LikeNode:
		return n == nil
	case *IsNullNode:
		return n == nil
	case *ColumnNode:
		return n == nil
	case *LiteralNode:
		return n == nil
	case *ParamNode:
		return n == nil
	default:
		return false
	}
}

// binary holds the two children shared by AndNode and OrNode.
type binary struct {
	tok   token.Token
	left  PredicateNode
	right PredicateNode
}

func newBinary(tok token.Token, left, right PredicateNode) (binary, error) {
	if isNil(left) || isNil(right) {
		return binary{}, &StructuralError{
			Tok:     tok,
			Message: fmt.Sprintf("%s requires exactly two operands", tok.Kind),
		}
	}
	return binary{tok: tok, left: left, right: right}, nil
}

func (b *binary) Token() token.Token   { return b.tok }
func (b *binary) Left() PredicateNode  { return b.left }
func (b *binary) Right() PredicateNode { return b.right }
func (b *binary) node()                {}
func (b *binary) predicateNode()       {}

// AndNode is the conjunction of its two children.
type AndNode struct {
	binary
}

// NewAnd builds an AND node. Both children are required.
func NewAnd(tok token.Token, left, right PredicateNode) (*AndNode, error) {
	b, err := newBinary(tok, left, right)
	if err != nil {
		return nil, err
	}
	return &AndNode{binary: b}, nil
}

// OrNode is the disjunction of its two children.
type OrNode struct {
	binary
}

// NewOr builds an OR node. Both children are required.
func NewOr(tok token.Token, left, right PredicateNode) (*OrNode, error) {
	b, err := newBinary(tok, left, right)
	if err != nil {
		return nil, err
	}
	return &OrNode{binary: b}, nil
}

// NewBoolean builds the boolean operator named by the token kind (AND or
// OR) from a child list, which must hold exactly two nodes.
func NewBoolean(tok token.Token, children ...PredicateNode) (PredicateNode, error) {
	if len(children) != 2 {
		return nil, &StructuralError{
			Tok:     tok,
			Message: fmt.Sprintf("%s requires exactly two operands, got %d", tok.Kind, len(children)),
		}
	}
	switch tok.Kind {
	case token.AND:
		return NewAnd(tok, children[0], children[1])
	case token.OR:
		return NewOr(tok, children[0], children[1])
	default:
		return nil, &StructuralError{
			Tok:     tok,
			Message: fmt.Sprintf("%s is not a boolean operator", tok.Kind),
		}
	}
}

// NotNode negates its operand.
type NotNode struct {
	tok     token.Token
	operand PredicateNode
}

// NewNot builds a NOT node.
func NewNot(tok token.Token, operand PredicateNode) (*NotNode, error) {
	if isNil(operand) {
		return nil, &StructuralError{Tok: tok, Message: "NOT requires an operand"}
	}
	return &NotNode{tok: tok, operand: operand}, nil
}

func (n *NotNode) Token() token.Token     { return n.tok }
func (n *NotNode) Operand() PredicateNode { return n.operand }
func (n *NotNode) node()                  {}
func (n *NotNode) predicateNode()         {}

// ColumnNode references a column by name.
type ColumnNode struct {
	tok  token.Token
	name string
}

// NewColumn builds a column reference from an identifier token.
func NewColumn(tok token.Token) (*ColumnNode, error) {
	if tok.Text == "" {
		return nil, &StructuralError{Tok: tok, Message: "column name is empty"}
	}
	return &ColumnNode{tok: tok, name: tok.Text}, nil
}

func (n *ColumnNode) Token() token.Token { return n.tok }
func (n *ColumnNode) Name() string       { return n.name }
func (n *ColumnNode) node()              {}

// LiteralNode is a constant operand.
type LiteralNode struct {
	tok   token.Token
	value ir.IRValue
}

// NewLiteral builds a literal operand. A nil value is stored as NULL.
func NewLiteral(tok token.Token, value ir.IRValue) *LiteralNode {
	if value == nil {
		value = ir.IRNull{}
	}
	return &LiteralNode{tok: tok, value: value}
}

func (n *LiteralNode) Token() token.Token { return n.tok }
func (n *LiteralNode) Value() ir.IRValue  { return n.value }
func (n *LiteralNode) node()              {}
func (n *LiteralNode) valueNode()         {}

// ParamNode is a bind parameter placeholder. Positional parameters ("?")
// have an empty name; named parameters (":name") carry the name.
type ParamNode struct {
	tok  token.Token
	name string
}

// NewParam builds a parameter placeholder from a PARAM or NAMED_PARAM token.
func NewParam(tok token.Token) *ParamNode {
	p := &ParamNode{tok: tok}
	if tok.Kind == token.NAMED_PARAM {
		p.name = tok.Text
	}
	return p
}

func (n *ParamNode) Token() token.Token { return n.tok }
func (n *ParamNode) Name() string       { return n.name }
func (n *ParamNode) node()              {}
func (n *ParamNode) valueNode()         {}

// leaf holds the column shared by every leaf condition.
type leaf struct {
	tok    token.Token
	column *ColumnNode
}

func newLeaf(tok token.Token, column *ColumnNode) (leaf, error) {
	if column == nil {
		return leaf{}, &StructuralError{Tok: tok, Message: "condition requires a column"}
	}
	return leaf{tok: tok, column: column}, nil
}

func (l *leaf) Token() token.Token  { return l.tok }
func (l *leaf) Column() *ColumnNode { return l.column }
func (l *leaf) node()               {}
func (l *leaf) predicateNode()      {}

func requireOperands(tok token.Token, operands ...ValueNode) error {
	for _, op := range operands {
		if isNil(op) {
			return &StructuralError{Tok: tok, Message: "condition operand is missing"}
		}
	}
	return nil
}

// ComparisonNode compares a column to one operand with =, <>, <, <=, > or >=.
type ComparisonNode struct {
	leaf
	op      Comparator
	operand ValueNode
}

// NewComparison builds a two-sided comparison.
func NewComparison(tok token.Token, op Comparator, column *ColumnNode, operand ValueNode) (*ComparisonNode, error) {
	if !op.IsBinary() {
		return nil, &StructuralError{Tok: tok, Message: fmt.Sprintf("%s is not a comparison operator", op)}
	}
	l, err := newLeaf(tok, column)
	if err != nil {
		return nil, err
	}
	if err := requireOperands(tok, operand); err != nil {
		return nil, err
	}
	return &ComparisonNode{leaf: l, op: op, operand: operand}, nil
}

func (n *ComparisonNode) Comparator() Comparator { return n.op }
func (n *ComparisonNode) Operand() ValueNode     { return n.operand }
func (n *ComparisonNode) Operands() []ValueNode  { return []ValueNode{n.operand} }

// BetweenNode is "column BETWEEN lower AND upper" (inclusive).
type BetweenNode struct {
	leaf
	lower ValueNode
	upper ValueNode
}

// NewBetween builds a BETWEEN condition.
func NewBetween(tok token.Token, column *ColumnNode, lower, upper ValueNode) (*BetweenNode, error) {
	l, err := newLeaf(tok, column)
	if err != nil {
		return nil, err
	}
	if err := requireOperands(tok, lower, upper); err != nil {
		return nil, err
	}
	return &BetweenNode{leaf: l, lower: lower, upper: upper}, nil
}

func (n *BetweenNode) Comparator() Comparator { return Between }
func (n *BetweenNode) Lower() ValueNode       { return n.lower }
func (n *BetweenNode) Upper() ValueNode       { return n.upper }
func (n *BetweenNode) Operands() []ValueNode  { return []ValueNode{n.lower, n.upper} }

// InNode is "column IN (v1, v2, ...)".
type InNode struct {
	leaf
	values []ValueNode
}

// NewIn builds an IN condition with at least one value.
func NewIn(tok token.Token, column *ColumnNode, values ...ValueNode) (*InNode, error) {
	l, err := newLeaf(tok, column)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, &StructuralError{Tok: tok, Message: "IN requires at least one value"}
	}
	if err := requireOperands(tok, values...); err != nil {
		return nil, err
	}
	return &InNode{leaf: l, values: slices.Clone(values)}, nil
}

func (n *InNode) Comparator() Comparator { return In }
func (n *InNode) Operands() []ValueNode  { return slices.Clone(n.values) }

// LikeNode is "column LIKE pattern".
type LikeNode struct {
	leaf
	pattern ValueNode
}

// NewLike builds a LIKE condition.
func NewLike(tok token.Token, column *ColumnNode, pattern ValueNode) (*LikeNode, error) {
	l, err := newLeaf(tok, column)
	if err != nil {
		return nil, err
	}
	if err := requireOperands(tok, pattern); err != nil {
		return nil, err
	}
	return &LikeNode{leaf: l, pattern: pattern}, nil
}

func (n *LikeNode) Comparator() Comparator { return Like }
func (n *LikeNode) Pattern() ValueNode     { return n.pattern }
func (n *LikeNode) Operands() []ValueNode  { return []ValueNode{n.pattern} }

// IsNullNode is "column IS NULL" or, when negated, "column IS NOT NULL".
type IsNullNode struct {
	leaf
	negated bool
}

// NewIsNull builds an IS [NOT] NULL condition.
func NewIsNull(tok token.Token, column *ColumnNode, negated bool) (*IsNullNode, error) {
	l, err := newLeaf(tok, column)
	if err != nil {
		return nil, err
	}
	return &IsNullNode{leaf: l, negated: negated}, nil
}

func (n *IsNullNode) Negated() bool { return n.negated }

func (n *IsNullNode) Comparator() Comparator {
	if n.negated {
		return IsNotNull
	}
	return IsNull
}

func (n *IsNullNode) Operands() []ValueNode { return nil }

var (
	_ PredicateNode = (*AndNode)(nil)
	_ PredicateNode = (*OrNode)(nil)
	_ PredicateNode = (*NotNode)(nil)
	_ LeafNode      = (*ComparisonNode)(nil)
	_ LeafNode      = (*BetweenNode)(nil)
	_ LeafNode      = (*InNode)(nil)
	_ LeafNode      = (*LikeNode)(nil)
	_ LeafNode      = (*IsNullNode)(nil)
	_ ValueNode     = (*LiteralNode)(nil)
	_ ValueNode     = (*ParamNode)(nil)
	_ Node          = (*ColumnNode)(nil)
)

package syntax

import "fmt"

// Clone returns a deep copy of n. The copy shares token values with the
// original but no node pointers, so the two trees can be compiled
// independently.
//
// Clone panics on a nil node or a variant it does not know. The variant set
// is sealed, so the latter only happens if a new node type is added without
// updating this switch.
func Clone(n Node) Node {
	switch n := n.(type) {
	case *AndNode:
		return n.Clone()
	case *OrNode:
		return n.Clone()
	case *NotNode:
		return n.Clone()
	case *ComparisonNode:
		return n.Clone()
	case *BetweenNode:
		return n.Clone()
	case *InNode:
		return n.Clone()
	case *LikeNode:
		return n.Clone()
	case *IsNullNode:
		return n.Clone()
	case *ColumnNode:
		return n.Clone()
	case *LiteralNode:
		return n.Clone()
	case *ParamNode:
		return n.Clone()
	default:
		panic(fmt.Sprintf("syntax: unsupported node type %T", n))
	}
}

// ClonePredicate is Clone for predicate subtrees.
func ClonePredicate(n PredicateNode) PredicateNode {
	return Clone(n).(PredicateNode)
}

func cloneValue(n ValueNode) ValueNode {
	return Clone(n).(ValueNode)
}

func (b *binary) clone() binary {
	return binary{
		tok:   b.tok,
		left:  ClonePredicate(b.left),
		right: ClonePredicate(b.right),
	}
}

func (n *AndNode) Clone() *AndNode {
	return &AndNode{binary: n.binary.clone()}
}

func (n *OrNode) Clone() *OrNode {
	return &OrNode{binary: n.binary.clone()}
}

func (n *NotNode) Clone() *NotNode {
	return &NotNode{tok: n.tok, operand: ClonePredicate(n.operand)}
}

func (n *ColumnNode) Clone() *ColumnNode {
	return &ColumnNode{tok: n.tok, name: n.name}
}

// Clone copies the literal. IRValues are treated as immutable, so the value
// itself is shared.
func (n *LiteralNode) Clone() *LiteralNode {
	return &LiteralNode{tok: n.tok, value: n.value}
}

func (n *ParamNode) Clone() *ParamNode {
	return &ParamNode{tok: n.tok, name: n.name}
}

func (l *leaf) clone() leaf {
	return leaf{tok: l.tok, column: l.column.Clone()}
}

func (n *ComparisonNode) Clone() *ComparisonNode {
	return &ComparisonNode{leaf: n.leaf.clone(), op: n.op, operand: cloneValue(n.operand)}
}

func (n *BetweenNode) Clone() *BetweenNode {
	return &BetweenNode{leaf: n.leaf.clone(), lower: cloneValue(n.lower), upper: cloneValue(n.upper)}
}

func (n *InNode) Clone() *InNode {
	values := make([]ValueNode, len(n.values))
	for i, v := range n.values {
		values[i] = cloneValue(v)
	}
	return &InNode{leaf: n.leaf.clone(), values: values}
}

func (n *LikeNode) Clone() *LikeNode {
	return &LikeNode{leaf: n.leaf.clone(), pattern: cloneValue(n.pattern)}
}

func (n *IsNullNode) Clone() *IsNullNode {
	return &IsNullNode{leaf: n.leaf.clone(), negated: n.negated}
}

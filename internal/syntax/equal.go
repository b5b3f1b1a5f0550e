package syntax

import "github.com/roach88/ndbq/internal/ir"

// EqualNodes reports whether a and b are structurally equal: same variants,
// same tokens, same shape and equal literal values. Node identity is ignored.
func EqualNodes(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Token() != b.Token() {
		return false
	}

	switch a := a.(type) {
	case *AndNode:
		b, ok := b.(*AndNode)
		return ok && EqualNodes(a.left, b.left) && EqualNodes(a.right, b.right)
	case *OrNode:
		b, ok := b.(*OrNode)
		return ok && EqualNodes(a.left, b.left) && EqualNodes(a.right, b.right)
	case *NotNode:
		b, ok := b.(*NotNode)
		return ok && EqualNodes(a.operand, b.operand)
	case *ColumnNode:
		b, ok := b.(*ColumnNode)
		return ok && a.name == b.name
	case *LiteralNode:
		b, ok := b.(*LiteralNode)
		return ok && ir.Equal(a.value, b.value)
	case *ParamNode:
		b, ok := b.(*ParamNode)
		return ok && a.name == b.name
	case *IsNullNode:
		b, ok := b.(*IsNullNode)
		return ok && a.negated == b.negated && EqualNodes(a.column, b.column)
	case LeafNode:
		b, ok := b.(LeafNode)
		if !ok || a.Comparator() != b.Comparator() || !EqualNodes(a.Column(), b.Column()) {
			return false
		}
		ao, bo := a.Operands(), b.Operands()
		if len(ao) != len(bo) {
			return false
		}
		for i := range ao {
			if !EqualNodes(ao[i], bo[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

package syntax

// Walk visits n and its descendants depth-first, left before right, in
// the order their text appears in the filter. If fn returns false the
// children of that node are skipped.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch n := n.(type) {
	case *AndNode:
		Walk(n.left, fn)
		Walk(n.right, fn)
	case *OrNode:
		Walk(n.left, fn)
		Walk(n.right, fn)
	case *NotNode:
		Walk(n.operand, fn)
	case LeafNode:
		Walk(n.Column(), fn)
		for _, op := range n.Operands() {
			Walk(op, fn)
		}
	}
}

// Params returns the parameter placeholders under n in textual order.
func Params(n Node) []*ParamNode {
	var params []*ParamNode
	Walk(n, func(n Node) bool {
		if p, ok := n.(*ParamNode); ok {
			params = append(params, p)
		}
		return true
	})
	return params
}

// Depth returns the height of the tree rooted at n. A single leaf
// condition has depth 1; its column and operands are not counted.
func Depth(n PredicateNode) int {
	switch n := n.(type) {
	case *AndNode:
		return 1 + max(Depth(n.left), Depth(n.right))
	case *OrNode:
		return 1 + max(Depth(n.left), Depth(n.right))
	case *NotNode:
		return 1 + Depth(n.operand)
	case nil:
		return 0
	default:
		return 1
	}
}

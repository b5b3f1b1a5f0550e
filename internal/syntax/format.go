package syntax

import (
	"fmt"
	"strings"

	"github.com/roach88/ndbq/internal/ir"
)

// Format renders n as filter text. Boolean operators are always
// parenthesized, so the output parses back to a tree of the same shape.
func Format(n Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case *AndNode:
		writeBinary(b, "AND", &n.binary)
	case *OrNode:
		writeBinary(b, "OR", &n.binary)
	case *NotNode:
		b.WriteString("NOT ")
		writeNode(b, n.operand)
	case *ColumnNode:
		b.WriteString(n.name)
	case *LiteralNode:
		b.WriteString(ir.Literal(n.value))
	case *ParamNode:
		if n.name == "" {
			b.WriteString("?")
		} else {
			b.WriteString(":" + n.name)
		}
	case *ComparisonNode:
		writeNode(b, n.column)
		b.WriteString(" " + n.op.String() + " ")
		writeNode(b, n.operand)
	case *BetweenNode:
		writeNode(b, n.column)
		b.WriteString(" BETWEEN ")
		writeNode(b, n.lower)
		b.WriteString(" AND ")
		writeNode(b, n.upper)
	case *InNode:
		writeNode(b, n.column)
		b.WriteString(" IN (")
		for i, v := range n.values {
			if i > 0 {
				b.WriteString(", ")
			}
			writeNode(b, v)
		}
		b.WriteString(")")
	case *LikeNode:
		writeNode(b, n.column)
		b.WriteString(" LIKE ")
		writeNode(b, n.pattern)
	case *IsNullNode:
		writeNode(b, n.column)
		b.WriteString(" " + n.Comparator().String())
	case nil:
		b.WriteString("<nil>")
	default:
		fmt.Fprintf(b, "<%T>", n)
	}
}

func writeBinary(b *strings.Builder, op string, n *binary) {
	b.WriteString("(")
	writeNode(b, n.left)
	b.WriteString(" " + op + " ")
	writeNode(b, n.right)
	b.WriteString(")")
}

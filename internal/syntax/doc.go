// Package syntax defines the syntax tree of a filter expression.
//
// A tree is produced by the parser (or built directly with the New*
// constructors) and handed to the compiler, which turns it into a backend
// predicate. Nodes are immutable after construction; the only way to derive
// a new tree is Clone, which never shares node pointers with its source.
//
// Node variants:
//   - AndNode, OrNode: exactly two PredicateNode children
//   - NotNode: one PredicateNode operand
//   - ComparisonNode, BetweenNode, InNode, LikeNode, IsNullNode: leaf
//     conditions on a ColumnNode
//   - LiteralNode, ParamNode: leaf operands
//
// The package has no knowledge of schemas or backends. Whether a column
// exists or a comparator is supported is decided during compilation.
package syntax

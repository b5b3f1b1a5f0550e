// Package compiler turns a syntax tree into an executable predicate.
//
// The compiler is generic over the predicate type. A Domain supplies leaf
// predicates and parameter slots; the compiler combines leaves with the
// predicate's And, Or and Not methods and counts the parameters each
// subtree consumes:
//
//	count(AND) = count(left) + count(right)
//	count(OR)  = count(left) + count(right)
//	count(NOT) = count(operand)
//	count(leaf) = number of parameter operands
//
// The walk is synchronous and single-pass. Parameters are registered in the
// order they appear in the filter text, so a parameter's index is its
// binding position.
package compiler

// Package queryir provides the backend-neutral predicate and query
// representation a compiled filter produces.
//
// The query domain resolves each leaf of a filter's syntax tree into a
// queryir predicate and combines them with And, Or and Not. Backends
// consume the result:
//
//	[filter text] → [syntax tree] → [Query IR] → [SQL backend]
//	                                            → [in-memory evaluator]
//
// Predicates carry parameters as Param{Index} placeholders. Arguments are
// supplied separately at execution time, indexed by binding position, so a
// compiled query can be executed many times with different arguments.
//
// SEALED INTERFACES:
//
// Query, Predicate and Operand are sealed interfaces using the marker
// method pattern. Only pointer types in this package implement them, which
// lets backends use exhaustive type switches:
//
//	switch p := pred.(type) {
//	case *Compare:
//	    // Handle comparison
//	case *And:
//	    // Handle conjunction
//	}
//
// All literal values are ir.IRValue types (no floats).
package queryir

// Package domain implements the query domain of a table: the context a
// filter's syntax tree is compiled against.
//
// A Type resolves each column condition to a queryir predicate, checking
// that the column exists, that the comparator suits the column type and
// that literals have the right type. It hands out parameter slots in the
// order the compiler registers them and remembers which column each slot
// binds to, so arguments can be type-checked before execution.
package domain

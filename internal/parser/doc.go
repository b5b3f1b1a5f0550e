// Package parser turns filter text into a syntax tree.
//
// The filter language is the WHERE-clause subset accepted by the query
// compiler: comparisons, BETWEEN, IN, LIKE and IS [NOT] NULL on a single
// column, combined with AND, OR and NOT. Values are literals or bind
// parameters, either positional (?) or named (:name).
//
// Identifiers are normalized to NFC so that visually identical column
// names compare equal.
package parser

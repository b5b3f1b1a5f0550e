// Package memstore is the in-memory storage backend, built on
// hashicorp/go-memdb.
//
// Every table gets a unique "id" index over its primary key plus one index
// per declared schema index. Index keys use an order-preserving encoding,
// so iterating the "id" index yields rows in primary key order, the same
// order the SQLite backend returns them in.
//
// Filters are applied with the eval package. When a conjunct of the filter
// is an equality on an indexed column, Scan reads that index instead of the
// whole table.
package memstore

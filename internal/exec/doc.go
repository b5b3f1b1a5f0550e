// Package exec prepares filters and runs them on a storage backend.
//
// A Prepared query holds the parsed syntax tree, its compiled form and an
// ID. Preparation happens once; Execute binds fresh arguments on every call.
// Rebind clones the syntax tree and compiles the copy against a fresh
// domain, so one filter can be reused for another table with the same
// columns without sharing any state with the original.
//
// Backends:
//   - SQLBackend renders SQL with querysql and runs it on a SQLite store
//   - MemBackend scans a go-memdb store with the eval package
//
// Both return rows in primary key order and agree on NULL semantics, so
// the same query gives the same rows on either.
package exec

// Package store provides the SQLite storage backend for compiled queries.
//
// Tables are created from schema mappings and recorded in a catalog table
// (ndbq_tables) holding the canonical JSON of each mapping, so a database
// can be reopened and checked against the schema it was built from.
//
// Rows go in and come out as ir.IRObject. Bool columns are stored as
// INTEGER 0/1 and converted back on read.
//
// # Deterministic Results
//
// Queries rendered by querysql always end in ORDER BY <pk> COLLATE BINARY
// ASC, so Select returns rows in the same order on every run.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - case_sensitive_like=ON: LIKE matches the in-memory evaluator
package store

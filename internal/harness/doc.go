// Package harness runs filter scenarios against every storage backend.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	schema: |
//	  table: Employee: {
//	      primary_key: "id"
//	      columns: { id: int, name: string }
//	  }
//	data:
//	  Employee:
//	    - { id: 1, name: Alice }
//	cases:
//	  - name: by_name
//	    table: Employee
//	    filter: "name = ?"
//	    args: [Alice]
//	    expect:
//	      params: 1
//	      ids: [1]
//
// The schema is either inline CUE (schema) or a directory of CUE files
// (schema_dir, relative to the scenario file).
//
// # Expectations
//
//   - error: the error code preparing or executing the case must produce
//   - params: the number of parameters the filter compiles to
//   - ids: primary keys of the returned rows, in order
//   - count: the number of returned rows
//   - contains: rows that must appear, matched on the given fields only
//
// Every case also runs on every backend, and the backends must agree on
// the rows or error code.
//
// # Deterministic Testing
//
// Each backend starts from a fresh in-memory database and a fresh query
// ID sequence (q-1, q-2, ...), so results are reproducible and can be
// compared against golden snapshots.
package harness

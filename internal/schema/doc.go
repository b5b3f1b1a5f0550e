// Package schema describes the tables a filter can be compiled against.
//
// Tables are declared in CUE under the top-level "table" field and loaded
// with the CUE Go API (no CLI subprocess). Each table maps a persistent
// type to its columns, primary key and secondary indexes. Column types are
// string, int and bool; floats are rejected.
package schema

package schema

import (
	"fmt"

	"github.com/roach88/ndbq/internal/ir"
)

// ColumnType is the declared type of a column.
type ColumnType string

const (
	TypeString ColumnType = "string"
	TypeInt    ColumnType = "int"
	TypeBool   ColumnType = "bool"
)

// Kind returns the IR value kind stored in columns of this type.
func (t ColumnType) Kind() ir.Kind {
	switch t {
	case TypeString:
		return ir.KindString
	case TypeInt:
		return ir.KindInt
	case TypeBool:
		return ir.KindBool
	default:
		return ""
	}
}

// Valid reports whether t is a supported column type.
func (t ColumnType) Valid() bool {
	return t.Kind() != ""
}

// Column is a single column of a table.
type Column struct {
	Name     string     `json:"name"`
	Type     ColumnType `json:"type"`
	Nullable bool       `json:"nullable,omitempty"`
}

// Index is a secondary index over one or more columns.
type Index struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Unique  bool     `json:"unique,omitempty"`
}

// Table describes how a persistent type maps onto a storage table.
// Columns keep their declaration order.
type Table struct {
	Name       string   `json:"name"`
	PrimaryKey string   `json:"primary_key"`
	Columns    []Column `json:"columns"`
	Indexes    []Index  `json:"indexes,omitempty"`
}

// Column looks up a column by name.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Validate checks the table definition for internal consistency.
func (t *Table) Validate() error {
	if t.Name == "" {
		return &CompileError{Field: "table", Message: "table name is required"}
	}
	if len(t.Columns) == 0 {
		return &CompileError{Field: "columns", Message: fmt.Sprintf("table %s has no columns", t.Name)}
	}

	seen := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if seen[c.Name] {
			return &CompileError{Field: "columns", Message: fmt.Sprintf("duplicate column %q", c.Name)}
		}
		seen[c.Name] = true
		if !c.Type.Valid() {
			return &CompileError{Field: "type", Message: fmt.Sprintf("column %q has unsupported type %q", c.Name, c.Type)}
		}
	}

	if t.PrimaryKey == "" {
		return &CompileError{Field: "primary_key", Message: "primary_key is required"}
	}
	pk, ok := t.Column(t.PrimaryKey)
	if !ok {
		return &CompileError{Field: "primary_key", Message: fmt.Sprintf("primary key %q is not a column", t.PrimaryKey)}
	}
	if pk.Nullable {
		return &CompileError{Field: "primary_key", Message: fmt.Sprintf("primary key %q cannot be nullable", t.PrimaryKey)}
	}

	for _, idx := range t.Indexes {
		if len(idx.Columns) == 0 {
			return &CompileError{Field: "indexes", Message: fmt.Sprintf("index %q has no columns", idx.Name)}
		}
		for _, c := range idx.Columns {
			if !seen[c] {
				return &CompileError{Field: "indexes", Message: fmt.Sprintf("index %q references unknown column %q", idx.Name, c)}
			}
		}
		// "id" names the primary key index in the in-memory store.
		if idx.Name == "id" {
			return &CompileError{Field: "indexes", Message: fmt.Sprintf("index name %q is reserved", idx.Name)}
		}
	}
	return nil
}

// NormalizeRow checks row against the table and returns a copy holding
// every column. Missing nullable columns become NULL.
func (t *Table) NormalizeRow(row ir.IRObject) (ir.IRObject, error) {
	for k := range row {
		if _, ok := t.Column(k); !ok {
			return nil, fmt.Errorf("table %s has no column %q", t.Name, k)
		}
	}

	out := make(ir.IRObject, len(t.Columns))
	for _, c := range t.Columns {
		v, ok := row[c.Name]
		if !ok || v == nil {
			v = ir.IRNull{}
		}
		if ir.IsNull(v) {
			if !c.Nullable {
				return nil, fmt.Errorf("column %s.%s is not nullable", t.Name, c.Name)
			}
		} else if k := ir.KindOf(v); k != c.Type.Kind() {
			return nil, fmt.Errorf("column %s.%s holds %s, got %s", t.Name, c.Name, c.Type, k)
		}
		out[c.Name] = v
	}
	return out, nil
}

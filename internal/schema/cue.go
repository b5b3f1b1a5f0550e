package schema

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// CompileTable parses a CUE value into a Table.
//
// The CUE value should be the table struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`table: Employee: { ... }`)
//	t, err := CompileTable(v.LookupPath(cue.ParsePath("table.Employee")))
//
// A table declares a primary key, its columns and optional indexes:
//
//	table: Employee: {
//		primary_key: "id"
//		columns: {
//			id:      int
//			name:    string
//			manager: int | null
//		}
//		indexes: by_name: columns: ["name"]
//	}
func CompileTable(v cue.Value) (*Table, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	t := &Table{}

	// Table name comes from the struct label
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		t.Name = labels[len(labels)-1].String()
	}

	pkVal := v.LookupPath(cue.ParsePath("primary_key"))
	if !pkVal.Exists() {
		return nil, &CompileError{
			Field:   "primary_key",
			Message: "primary_key is required",
			Pos:     v.Pos(),
		}
	}
	pk, err := pkVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	t.PrimaryKey = pk

	columns, err := parseColumns(v)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, &CompileError{
			Field:   "columns",
			Message: "at least one column is required",
			Pos:     v.Pos(),
		}
	}
	t.Columns = columns

	indexes, err := parseIndexes(v)
	if err != nil {
		return nil, err
	}
	t.Indexes = indexes

	if err := t.Validate(); err != nil {
		if ce, ok := err.(*CompileError); ok && !ce.Pos.IsValid() {
			ce.Pos = v.Pos()
		}
		return nil, err
	}
	return t, nil
}

// parseColumns extracts column definitions in declaration order.
func parseColumns(v cue.Value) ([]Column, error) {
	var columns []Column

	colsVal := v.LookupPath(cue.ParsePath("columns"))
	if !colsVal.Exists() {
		return columns, nil
	}

	iter, err := colsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for iter.Next() {
		colType, nullable, err := extractColumnType(iter.Value())
		if err != nil {
			return nil, err
		}
		columns = append(columns, Column{
			Name:     iter.Label(),
			Type:     colType,
			Nullable: nullable,
		})
	}

	return columns, nil
}

// parseIndexes extracts secondary index definitions.
func parseIndexes(v cue.Value) ([]Index, error) {
	var indexes []Index

	idxVal := v.LookupPath(cue.ParsePath("indexes"))
	if !idxVal.Exists() {
		return indexes, nil
	}

	iter, err := idxVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for iter.Next() {
		name := iter.Label()
		idx := Index{Name: name}

		colsVal := iter.Value().LookupPath(cue.ParsePath("columns"))
		if !colsVal.Exists() {
			return nil, &CompileError{
				Field:   fmt.Sprintf("indexes.%s.columns", name),
				Message: "index columns are required",
				Pos:     iter.Value().Pos(),
			}
		}
		colIter, err := colsVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for colIter.Next() {
			col, err := colIter.Value().String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			idx.Columns = append(idx.Columns, col)
		}

		uniqueVal := iter.Value().LookupPath(cue.ParsePath("unique"))
		if uniqueVal.Exists() {
			unique, err := uniqueVal.Bool()
			if err != nil {
				return nil, formatCUEError(err)
			}
			idx.Unique = unique
		}

		indexes = append(indexes, idx)
	}

	return indexes, nil
}

// extractColumnType converts a CUE type to a column type. A disjunction
// with null (int | null) marks the column nullable. Floats are forbidden.
func extractColumnType(v cue.Value) (ColumnType, bool, error) {
	kind := v.IncompleteKind()
	nullable := kind&cue.NullKind != 0 && kind != cue.NullKind
	if nullable {
		kind &^= cue.NullKind
	}

	switch kind {
	case cue.StringKind:
		return TypeString, nullable, nil
	case cue.IntKind:
		return TypeInt, nullable, nil
	case cue.BoolKind:
		return TypeBool, nullable, nil
	case cue.FloatKind, cue.NumberKind:
		return "", false, &CompileError{
			Field:   "type",
			Message: "float columns are not supported - use int instead",
			Pos:     v.Pos(),
		}
	default:
		return "", false, &CompileError{
			Field:   "type",
			Message: fmt.Sprintf("unsupported column kind: %v", kind),
			Pos:     v.Pos(),
		}
	}
}

// CompileError represents a schema error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}

	return err
}

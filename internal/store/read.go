package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/ndbq/internal/ir"
	"github.com/roach88/ndbq/internal/schema"
)

// ErrTableNotFound is returned when a table is not in the catalog.
var ErrTableNotFound = errors.New("table not found")

// Select runs a query rendered by querysql against table and returns the
// rows as IR objects keyed by column name.
//
// Values are converted using the table mapping: bool columns come back as
// IRBool and NULLs as IRNull. Returns an empty slice (not nil) when nothing
// matches.
func (s *Store) Select(ctx context.Context, table *schema.Table, query string, args []any) ([]ir.IRObject, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", table.Name, err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", table.Name, err)
	}
	columns := make([]schema.Column, len(names))
	for i, name := range names {
		c, ok := table.Column(name)
		if !ok {
			return nil, fmt.Errorf("select from %s: result column %q is not in the mapping", table.Name, name)
		}
		columns[i] = c
	}

	result := []ir.IRObject{}
	for rows.Next() {
		row, err := scanRow(rows, columns)
		if err != nil {
			return nil, fmt.Errorf("select from %s: %w", table.Name, err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table.Name, err)
	}

	return result, nil
}

func scanRow(rows *sql.Rows, columns []schema.Column) (ir.IRObject, error) {
	raw := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range raw {
		dest[i] = &raw[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	row := make(ir.IRObject, len(columns))
	for i, c := range columns {
		v, err := fromSQLite(c, raw[i])
		if err != nil {
			return nil, err
		}
		row[c.Name] = v
	}
	return row, nil
}

// fromSQLite converts a driver value to the IR value for column c.
func fromSQLite(c schema.Column, v any) (ir.IRValue, error) {
	if v == nil {
		return ir.IRNull{}, nil
	}

	switch c.Type {
	case schema.TypeString:
		switch s := v.(type) {
		case string:
			return ir.IRString(s), nil
		case []byte:
			return ir.IRString(s), nil
		}
	case schema.TypeInt:
		if n, ok := v.(int64); ok {
			return ir.IRInt(n), nil
		}
	case schema.TypeBool:
		switch b := v.(type) {
		case int64:
			return ir.IRBool(b != 0), nil
		case bool:
			return ir.IRBool(b), nil
		}
	}
	return nil, fmt.Errorf("column %s: cannot read %T as %s", c.Name, v, c.Type)
}

// ReadTable returns the mapping a table was created with.
// Returns ErrTableNotFound if the table is not in the catalog.
func (s *Store) ReadTable(ctx context.Context, name string) (*schema.Table, error) {
	var definition string
	err := s.db.QueryRowContext(ctx, `SELECT definition FROM ndbq_tables WHERE name = ?`, name).Scan(&definition)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", name, err)
	}

	var table schema.Table
	if err := json.Unmarshal([]byte(definition), &table); err != nil {
		return nil, fmt.Errorf("read table %s: decode definition: %w", name, err)
	}
	return &table, nil
}

// Tables returns the names of all catalogued tables.
// Results are ordered deterministically: ORDER BY name COLLATE BINARY ASC.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM ndbq_tables ORDER BY name COLLATE BINARY ASC`)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}
	return names, nil
}

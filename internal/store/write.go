package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/roach88/ndbq/internal/ir"
	"github.com/roach88/ndbq/internal/querysql"
	"github.com/roach88/ndbq/internal/schema"
)

var sqliteTypes = map[schema.ColumnType]string{
	schema.TypeString: "TEXT",
	schema.TypeInt:    "INTEGER",
	schema.TypeBool:   "INTEGER",
}

// CreateTable creates the storage table and indexes for a mapping and
// records the mapping in the catalog.
//
// Creating a table that already exists with an identical mapping is a no-op.
// A different mapping under the same name is an error.
func (s *Store) CreateTable(ctx context.Context, table *schema.Table) error {
	if err := table.Validate(); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	definition, err := marshalTable(table)
	if err != nil {
		return fmt.Errorf("create table %s: %w", table.Name, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create table %s: begin tx: %w", table.Name, err)
	}
	defer tx.Rollback() // No-op if committed

	var existing string
	err = tx.QueryRowContext(ctx, `SELECT definition FROM ndbq_tables WHERE name = ?`, table.Name).Scan(&existing)
	switch {
	case err == nil:
		if existing != definition {
			return fmt.Errorf("create table %s: already exists with a different definition", table.Name)
		}
		return nil
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("create table %s: read catalog: %w", table.Name, err)
	}

	for _, stmt := range tableDDL(table) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create table %s: %w", table.Name, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO ndbq_tables (name, definition) VALUES (?, ?)`,
		table.Name, definition,
	); err != nil {
		return fmt.Errorf("create table %s: write catalog: %w", table.Name, err)
	}

	return tx.Commit()
}

// tableDDL returns the CREATE statements for a table and its indexes.
// Index names are prefixed with the table name since SQLite index names
// share one namespace.
func tableDDL(table *schema.Table) []string {
	defs := make([]string, 0, len(table.Columns))
	for _, c := range table.Columns {
		def := querysql.QuoteIdent(c.Name) + " " + sqliteTypes[c.Type]
		if !c.Nullable {
			def += " NOT NULL"
		}
		if c.Name == table.PrimaryKey {
			def += " PRIMARY KEY"
		}
		if c.Type == schema.TypeBool {
			def += fmt.Sprintf(" CHECK (%s IN (0, 1))", querysql.QuoteIdent(c.Name))
		}
		defs = append(defs, def)
	}

	stmts := []string{
		fmt.Sprintf("CREATE TABLE %s (\n\t%s\n)", querysql.QuoteIdent(table.Name), strings.Join(defs, ",\n\t")),
	}

	for _, idx := range table.Indexes {
		cols := make([]string, len(idx.Columns))
		for i, c := range idx.Columns {
			cols[i] = querysql.QuoteIdent(c)
		}
		unique := ""
		if idx.Unique {
			unique = "UNIQUE "
		}
		stmts = append(stmts, fmt.Sprintf("CREATE %sINDEX %s ON %s (%s)",
			unique,
			querysql.QuoteIdent(table.Name+"_"+idx.Name),
			querysql.QuoteIdent(table.Name),
			strings.Join(cols, ", "),
		))
	}
	return stmts
}

// Insert adds one row to a table. The row is checked against the mapping
// first; missing nullable columns are stored as NULL.
func (s *Store) Insert(ctx context.Context, table *schema.Table, row ir.IRObject) error {
	return s.InsertRows(ctx, table, []ir.IRObject{row})
}

// InsertRows adds rows to a table in a single transaction. Either every
// row is inserted or none is.
func (s *Store) InsertRows(ctx context.Context, table *schema.Table, rows []ir.IRObject) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert into %s: begin tx: %w", table.Name, err)
	}
	defer tx.Rollback() // No-op if committed

	for i, row := range rows {
		query, args, err := insertSQL(table, row)
		if err != nil {
			return fmt.Errorf("insert into %s: row %d: %w", table.Name, i, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert into %s: row %d: %w", table.Name, i, err)
		}
	}

	return tx.Commit()
}

func insertSQL(table *schema.Table, row ir.IRObject) (string, []any, error) {
	row, err := table.NormalizeRow(row)
	if err != nil {
		return "", nil, err
	}

	cols := make([]string, len(table.Columns))
	vals := make([]any, len(table.Columns))
	for i, c := range table.Columns {
		cols[i] = querysql.QuoteIdent(c.Name)
		v, err := ir.ToGo(row[c.Name])
		if err != nil {
			return "", nil, fmt.Errorf("column %s: %w", c.Name, err)
		}
		vals[i] = v
	}

	return sq.Insert(querysql.QuoteIdent(table.Name)).
		Columns(cols...).
		Values(vals...).
		PlaceholderFormat(sq.Question).
		ToSql()
}

// marshalTable converts a mapping to canonical JSON TEXT for the catalog.
// Keys follow the schema.Table JSON tags so ReadTable can decode it.
func marshalTable(table *schema.Table) (string, error) {
	columns := make([]any, len(table.Columns))
	for i, c := range table.Columns {
		columns[i] = map[string]any{
			"name":     c.Name,
			"type":     string(c.Type),
			"nullable": c.Nullable,
		}
	}
	indexes := make([]any, len(table.Indexes))
	for i, idx := range table.Indexes {
		indexes[i] = map[string]any{
			"name":    idx.Name,
			"columns": idx.Columns,
			"unique":  idx.Unique,
		}
	}

	data, err := ir.MarshalCanonical(map[string]any{
		"name":        table.Name,
		"primary_key": table.PrimaryKey,
		"columns":     columns,
		"indexes":     indexes,
	})
	if err != nil {
		return "", fmt.Errorf("marshal table: %w", err)
	}
	return string(data), nil
}

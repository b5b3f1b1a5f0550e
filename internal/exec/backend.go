package exec

import (
	"context"
	"fmt"

	"github.com/roach88/ndbq/internal/ir"
	"github.com/roach88/ndbq/internal/memstore"
	"github.com/roach88/ndbq/internal/queryir"
	"github.com/roach88/ndbq/internal/querysql"
	"github.com/roach88/ndbq/internal/schema"
	"github.com/roach88/ndbq/internal/store"
)

// Backend runs compiled selects. Rows come back in sel.OrderBy order with
// exactly sel.Columns.
type Backend interface {
	Name() string
	Load(ctx context.Context, table *schema.Table, rows []ir.IRObject) error
	Select(ctx context.Context, table *schema.Table, sel *queryir.Select, args []ir.IRValue) ([]ir.IRObject, error)
}

// SQLBackend runs queries on a SQLite store.
type SQLBackend struct {
	store    *store.Store
	compiler *querysql.SQLCompiler
}

// NewSQLBackend wraps an open store.
func NewSQLBackend(s *store.Store) *SQLBackend {
	return &SQLBackend{store: s, compiler: querysql.NewSQLCompiler()}
}

func (b *SQLBackend) Name() string { return "sqlite" }

// Load creates the table if needed and inserts rows.
func (b *SQLBackend) Load(ctx context.Context, table *schema.Table, rows []ir.IRObject) error {
	if err := b.store.CreateTable(ctx, table); err != nil {
		return err
	}
	return b.store.InsertRows(ctx, table, rows)
}

func (b *SQLBackend) Select(ctx context.Context, table *schema.Table, sel *queryir.Select, args []ir.IRValue) ([]ir.IRObject, error) {
	query, params, err := b.compiler.Compile(sel, args)
	if err != nil {
		return nil, err
	}
	return b.store.Select(ctx, table, query, params)
}

// MemBackend runs queries on an in-memory store.
type MemBackend struct {
	store *memstore.Store
}

// NewMemBackend wraps a memstore.
func NewMemBackend(s *memstore.Store) *MemBackend {
	return &MemBackend{store: s}
}

func (b *MemBackend) Name() string { return "memory" }

// Load inserts rows. The table must be one the store was created with.
func (b *MemBackend) Load(_ context.Context, table *schema.Table, rows []ir.IRObject) error {
	if _, ok := b.store.Table(table.Name); !ok {
		return fmt.Errorf("memstore has no table %q", table.Name)
	}
	return b.store.InsertRows(table.Name, rows)
}

func (b *MemBackend) Select(ctx context.Context, table *schema.Table, sel *queryir.Select, args []ir.IRValue) ([]ir.IRObject, error) {
	if sel == nil {
		return nil, fmt.Errorf("nil query")
	}
	if err := checkParams(sel.Filter, args); err != nil {
		return nil, err
	}
	rows, err := b.store.Scan(ctx, sel.From, sel.Filter, args)
	if err != nil {
		return nil, err
	}
	if len(sel.Columns) == 0 {
		return rows, nil
	}
	for i, row := range rows {
		projected := make(ir.IRObject, len(sel.Columns))
		for _, c := range sel.Columns {
			projected[c] = row[c]
		}
		rows[i] = projected
	}
	return rows, nil
}

// checkParams fails on parameters without arguments even when no row
// reaches the predicate, as the SQL backend does.
func checkParams(p queryir.Predicate, args []ir.IRValue) error {
	for _, param := range queryir.Params(p) {
		if param.Index < 0 || param.Index >= len(args) {
			return fmt.Errorf("parameter %d not bound (%d arguments)", param.Index, len(args))
		}
	}
	return nil
}

var (
	_ Backend = (*SQLBackend)(nil)
	_ Backend = (*MemBackend)(nil)
)

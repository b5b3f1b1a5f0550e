package memstore

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/hashicorp/go-memdb"

	"github.com/roach88/ndbq/internal/eval"
	"github.com/roach88/ndbq/internal/ir"
	"github.com/roach88/ndbq/internal/queryir"
	"github.com/roach88/ndbq/internal/schema"
)

const indexID = "id"

// record is the object stored in memdb. values always holds every column.
type record struct {
	values ir.IRObject
	pk     []byte
}

// Store holds rows for a fixed set of tables.
// It is safe for concurrent use; memdb gives readers a consistent snapshot.
type Store struct {
	db     *memdb.MemDB
	tables map[string]*schema.Table
}

// New creates an empty store for the given table mappings.
func New(tables ...*schema.Table) (*Store, error) {
	dbSchema := &memdb.DBSchema{Tables: make(map[string]*memdb.TableSchema, len(tables))}
	byName := make(map[string]*schema.Table, len(tables))

	for _, t := range tables {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("memstore: %w", err)
		}
		if _, dup := byName[t.Name]; dup {
			return nil, fmt.Errorf("memstore: duplicate table %q", t.Name)
		}
		byName[t.Name] = t
		dbSchema.Tables[t.Name] = tableSchema(t)
	}

	db, err := memdb.NewMemDB(dbSchema)
	if err != nil {
		return nil, fmt.Errorf("memstore: %w", err)
	}
	return &Store{db: db, tables: byName}, nil
}

func tableSchema(t *schema.Table) *memdb.TableSchema {
	indexes := map[string]*memdb.IndexSchema{
		indexID: {
			Name:    indexID,
			Unique:  true,
			Indexer: newColumnIndexer(t, t.PrimaryKey),
		},
	}
	for _, idx := range t.Indexes {
		indexes[idx.Name] = &memdb.IndexSchema{
			Name:         idx.Name,
			Unique:       idx.Unique,
			AllowMissing: true,
			Indexer:      newColumnIndexer(t, idx.Columns...),
		}
	}
	return &memdb.TableSchema{Name: t.Name, Indexes: indexes}
}

// Table returns the mapping for a table name.
func (s *Store) Table(name string) (*schema.Table, bool) {
	t, ok := s.tables[name]
	return t, ok
}

func (s *Store) table(name string) (*schema.Table, error) {
	t, ok := s.tables[name]
	if !ok {
		return nil, fmt.Errorf("memstore: unknown table %q", name)
	}
	return t, nil
}

// Insert adds one row to a table.
func (s *Store) Insert(table string, row ir.IRObject) error {
	return s.InsertRows(table, []ir.IRObject{row})
}

// InsertRows adds rows to a table atomically. Duplicate primary keys and
// unique index violations are errors, matching the SQLite backend.
func (s *Store) InsertRows(table string, rows []ir.IRObject) error {
	t, err := s.table(table)
	if err != nil {
		return err
	}

	txn := s.db.Txn(true)
	defer txn.Abort() // No-op after commit

	for i, row := range rows {
		if err := insert(txn, t, row); err != nil {
			return fmt.Errorf("insert into %s: row %d: %w", t.Name, i, err)
		}
	}

	txn.Commit()
	return nil
}

func insert(txn *memdb.Txn, t *schema.Table, row ir.IRObject) error {
	values, err := t.NormalizeRow(row)
	if err != nil {
		return err
	}
	pkCol, _ := t.Column(t.PrimaryKey)
	pk, err := encodeKey(nil, pkCol.Type, values[t.PrimaryKey])
	if err != nil {
		return fmt.Errorf("primary key: %w", err)
	}

	// memdb replaces on key collision, so constraints are checked first.
	existing, err := txn.First(t.Name, indexID, values[t.PrimaryKey])
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("duplicate primary key %s", ir.Literal(values[t.PrimaryKey]))
	}
	for _, idx := range t.Indexes {
		if !idx.Unique {
			continue
		}
		args := make([]any, len(idx.Columns))
		hasNull := false
		for i, c := range idx.Columns {
			args[i] = values[c]
			hasNull = hasNull || ir.IsNull(values[c])
		}
		if hasNull {
			continue
		}
		existing, err := txn.First(t.Name, idx.Name, args...)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("unique index %s violated", idx.Name)
		}
	}

	return txn.Insert(t.Name, &record{values: values, pk: pk})
}

// Scan returns the rows of table for which pred is true, in primary key
// order. Rows are copies; callers may modify them.
func (s *Store) Scan(ctx context.Context, table string, pred queryir.Predicate, args []ir.IRValue) ([]ir.IRObject, error) {
	t, err := s.table(table)
	if err != nil {
		return nil, err
	}

	txn := s.db.Txn(false)
	defer txn.Abort()

	index, key := lookupIndex(t, pred, args)
	var it memdb.ResultIterator
	if index != "" {
		it, err = txn.Get(t.Name, index, key)
	} else {
		it, err = txn.Get(t.Name, indexID)
	}
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", t.Name, err)
	}
	slog.Debug("memstore scan", "table", t.Name, "index", index)

	var matched []*record
	for obj := it.Next(); obj != nil; obj = it.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r := obj.(*record)
		ok, err := eval.Matches(pred, r.values, args)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.Name, err)
		}
		if ok {
			matched = append(matched, r)
		}
	}

	if index != "" && index != indexID {
		slices.SortFunc(matched, func(a, b *record) int { return bytes.Compare(a.pk, b.pk) })
	}

	rows := make([]ir.IRObject, len(matched))
	for i, r := range matched {
		rows[i] = maps.Clone(r.values)
	}
	return rows, nil
}

// lookupIndex picks a single-column index for an equality conjunct of pred
// with a non-NULL operand. It returns "" when no index applies.
func lookupIndex(t *schema.Table, pred queryir.Predicate, args []ir.IRValue) (string, ir.IRValue) {
	conjuncts := []queryir.Predicate{pred}
	if and, ok := pred.(*queryir.And); ok {
		conjuncts = and.Predicates
	}

	for _, p := range conjuncts {
		cmp, ok := p.(*queryir.Compare)
		if !ok || cmp.Op != queryir.OpEq {
			continue
		}
		v := operandValue(cmp.Value, args)
		col, ok := t.Column(cmp.Field)
		if !ok || v == nil || ir.IsNull(v) || ir.KindOf(v) != col.Type.Kind() {
			continue
		}
		if cmp.Field == t.PrimaryKey {
			return indexID, v
		}
		for _, idx := range t.Indexes {
			if len(idx.Columns) == 1 && idx.Columns[0] == cmp.Field {
				return idx.Name, v
			}
		}
	}
	return "", nil
}

func operandValue(o queryir.Operand, args []ir.IRValue) ir.IRValue {
	switch op := o.(type) {
	case *queryir.Literal:
		return op.Value
	case *queryir.Param:
		if op.Index >= 0 && op.Index < len(args) {
			return args[op.Index]
		}
	}
	return nil
}

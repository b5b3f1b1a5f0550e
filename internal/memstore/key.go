package memstore

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/roach88/ndbq/internal/ir"
	"github.com/roach88/ndbq/internal/schema"
)

// errNullKey marks a NULL column value, which is never indexed.
var errNullKey = errors.New("null key")

// encodeKey appends the order-preserving encoding of v to dst.
//
// Ints are big-endian with the sign bit flipped; strings are their bytes
// followed by a NUL terminator so compound keys stay prefix-free.
func encodeKey(dst []byte, t schema.ColumnType, v ir.IRValue) ([]byte, error) {
	if ir.IsNull(v) {
		return nil, errNullKey
	}

	switch t {
	case schema.TypeInt:
		n, ok := v.(ir.IRInt)
		if !ok {
			break
		}
		return binary.BigEndian.AppendUint64(dst, uint64(n)^(1<<63)), nil
	case schema.TypeString:
		s, ok := v.(ir.IRString)
		if !ok {
			break
		}
		dst = append(dst, s...)
		return append(dst, 0), nil
	case schema.TypeBool:
		b, ok := v.(ir.IRBool)
		if !ok {
			break
		}
		if b {
			return append(dst, 1), nil
		}
		return append(dst, 0), nil
	}
	return nil, fmt.Errorf("cannot index %s value as %s", ir.KindOf(v), t)
}

// columnIndexer is a memdb.Indexer over one or more row columns.
type columnIndexer struct {
	columns []schema.Column
}

func newColumnIndexer(table *schema.Table, names ...string) *columnIndexer {
	idx := &columnIndexer{columns: make([]schema.Column, len(names))}
	for i, name := range names {
		idx.columns[i], _ = table.Column(name)
	}
	return idx
}

// FromObject returns the key of a stored row. Rows with a NULL in any
// indexed column are left out of the index.
func (c *columnIndexer) FromObject(raw any) (bool, []byte, error) {
	r, ok := raw.(*record)
	if !ok {
		return false, nil, fmt.Errorf("unexpected object type %T", raw)
	}

	var key []byte
	for _, col := range c.columns {
		var err error
		key, err = encodeKey(key, col.Type, r.values[col.Name])
		if errors.Is(err, errNullKey) {
			return false, nil, nil
		}
		if err != nil {
			return false, nil, fmt.Errorf("column %s: %w", col.Name, err)
		}
	}
	return true, key, nil
}

// FromArgs builds a lookup key from one IR value per indexed column.
func (c *columnIndexer) FromArgs(args ...any) ([]byte, error) {
	if len(args) != len(c.columns) {
		return nil, fmt.Errorf("index takes %d arguments, got %d", len(c.columns), len(args))
	}

	var key []byte
	for i, col := range c.columns {
		v, ok := args[i].(ir.IRValue)
		if !ok {
			return nil, fmt.Errorf("argument %d: expected ir.IRValue, got %T", i, args[i])
		}
		var err error
		key, err = encodeKey(key, col.Type, v)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col.Name, err)
		}
	}
	return key, nil
}

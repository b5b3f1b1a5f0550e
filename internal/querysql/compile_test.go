package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ndbq/internal/ir"
	"github.com/roach88/ndbq/internal/queryir"
)

func TestCompile_SimpleSelect(t *testing.T) {
	compiler := NewSQLCompiler()

	query := &queryir.Select{
		From:    "inventory",
		Columns: []string{"id", "name"},
		Filter: &queryir.Compare{
			Field: "category",
			Op:    queryir.OpEq,
			Value: &queryir.Literal{Value: ir.IRString("widgets")},
		},
		OrderBy: []string{"id"},
	}

	sql, params, err := compiler.Compile(query, nil)
	require.NoError(t, err)

	assert.Equal(t,
		`SELECT "id", "name" FROM "inventory" WHERE "category" = ? ORDER BY "id" COLLATE BINARY ASC`,
		sql)

	// Literals are parameterized too
	assert.NotContains(t, sql, "widgets")
	assert.Equal(t, []any{"widgets"}, params)
}

func TestCompile_ParamsInPlaceholderOrder(t *testing.T) {
	query := &queryir.Select{
		From:    "Employee",
		Columns: []string{"id", "name"},
		Filter: &queryir.And{Predicates: []queryir.Predicate{
			&queryir.Compare{Field: "salary", Op: queryir.OpGte, Value: &queryir.Param{Index: 0}},
			&queryir.Or{Predicates: []queryir.Predicate{
				&queryir.In{Field: "department", Values: []queryir.Operand{
					&queryir.Literal{Value: ir.IRString("eng")},
					&queryir.Param{Index: 1},
				}},
				&queryir.Not{Predicate: &queryir.Like{Field: "name", Pattern: &queryir.Literal{Value: ir.IRString("A%")}}},
			}},
			&queryir.IsNull{Field: "manager"},
		}},
		OrderBy: []string{"id"},
	}

	sql, params, err := NewSQLCompiler().Compile(query, []ir.IRValue{ir.IRInt(100), ir.IRString("ops")})
	require.NoError(t, err)

	assert.Equal(t,
		`SELECT "id", "name" FROM "Employee" WHERE ("salary" >= ? AND ("department" IN (?, ?) OR NOT ("name" LIKE ?)) AND "manager" IS NULL) ORDER BY "id" COLLATE BINARY ASC`,
		sql)
	assert.Equal(t, []any{int64(100), "eng", "ops", "A%"}, params)
}

func TestCompile_LeafForms(t *testing.T) {
	tests := []struct {
		name   string
		filter queryir.Predicate
		where  string
		params []any
	}{
		{
			"between",
			&queryir.Between{Field: "age", Lower: &queryir.Literal{Value: ir.IRInt(18)}, Upper: &queryir.Param{Index: 0}},
			`"age" BETWEEN ? AND ?`,
			[]any{int64(18), int64(65)},
		},
		{
			"is not null",
			&queryir.IsNull{Field: "manager", Negated: true},
			`"manager" IS NOT NULL`,
			nil,
		},
		{
			"null literal stays a comparison",
			&queryir.Compare{Field: "manager", Op: queryir.OpEq, Value: &queryir.Literal{Value: ir.IRNull{}}},
			`"manager" = ?`,
			[]any{nil},
		},
		{
			"bool",
			&queryir.Compare{Field: "active", Op: queryir.OpNeq, Value: &queryir.Literal{Value: ir.IRBool(true)}},
			`"active" <> ?`,
			[]any{true},
		},
		{
			"empty and",
			&queryir.And{},
			`(1=1)`,
			nil,
		},
		{
			"empty or",
			&queryir.Or{},
			`(1=0)`,
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, params, err := NewSQLCompiler().Compile(&queryir.Select{
				From:    "T",
				Columns: []string{"id"},
				Filter:  tt.filter,
				OrderBy: []string{"id"},
			}, []ir.IRValue{ir.IRInt(65)})
			require.NoError(t, err)

			assert.Equal(t, `SELECT "id" FROM "T" WHERE `+tt.where+` ORDER BY "id" COLLATE BINARY ASC`, sql)
			if tt.params == nil {
				assert.Empty(t, params)
			} else {
				assert.Equal(t, tt.params, params)
			}
		})
	}
}

func TestCompile_NoFilter(t *testing.T) {
	sql, params, err := NewSQLCompiler().Compile(&queryir.Select{From: "T", Columns: []string{"a"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, `SELECT "a" FROM "T" ORDER BY "rowid" COLLATE BINARY ASC`, sql)
	assert.Empty(t, params)
}

func TestCompile_Errors(t *testing.T) {
	c := NewSQLCompiler()

	_, _, err := c.Compile(nil, nil)
	assert.Error(t, err)

	_, _, err = c.Compile(&queryir.Select{
		From:   "T",
		Filter: &queryir.Compare{Field: "a", Op: queryir.OpEq, Value: &queryir.Param{Index: 2}},
	}, []ir.IRValue{ir.IRInt(1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parameter 2 not bound")

	_, _, err = c.Compile(&queryir.Select{
		From:   "T",
		Filter: &queryir.Compare{Field: "a", Op: queryir.OpEq, Value: &queryir.Literal{Value: ir.IRArray{}}},
	}, nil)
	assert.Error(t, err)
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"plain"`, QuoteIdent("plain"))
	assert.Equal(t, `"we""ird"`, QuoteIdent(`we"ird`))
}

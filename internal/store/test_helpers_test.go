package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/ndbq/internal/ir"
	"github.com/roach88/ndbq/internal/queryir"
	"github.com/roach88/ndbq/internal/querysql"
	"github.com/roach88/ndbq/internal/schema"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// employeeTable returns a mapping covering every column type.
func employeeTable() *schema.Table {
	return &schema.Table{
		Name:       "Employee",
		PrimaryKey: "id",
		Columns: []schema.Column{
			{Name: "id", Type: schema.TypeInt},
			{Name: "name", Type: schema.TypeString},
			{Name: "active", Type: schema.TypeBool},
			{Name: "manager", Type: schema.TypeInt, Nullable: true},
		},
		Indexes: []schema.Index{
			{Name: "by_name", Columns: []string{"name"}, Unique: true},
		},
	}
}

// createEmployees creates the employee table and inserts rows.
func createEmployees(t *testing.T, s *Store, rows ...ir.IRObject) *schema.Table {
	t.Helper()
	table := employeeTable()
	ctx := context.Background()
	if err := s.CreateTable(ctx, table); err != nil {
		t.Fatalf("CreateTable() failed: %v", err)
	}
	if err := s.InsertRows(ctx, table, rows); err != nil {
		t.Fatalf("InsertRows() failed: %v", err)
	}
	return table
}

func employee(id int64, name string, active bool, manager ir.IRValue) ir.IRObject {
	return ir.IRObject{
		"id":      ir.IRInt(id),
		"name":    ir.IRString(name),
		"active":  ir.IRBool(active),
		"manager": manager,
	}
}

// selectWhere renders a select over table with filter and runs it.
func selectWhere(t *testing.T, s *Store, table *schema.Table, filter queryir.Predicate, args ...ir.IRValue) []ir.IRObject {
	t.Helper()
	query, params, err := querysql.NewSQLCompiler().Compile(&queryir.Select{
		From:    table.Name,
		Columns: table.ColumnNames(),
		Filter:  filter,
		OrderBy: []string{table.PrimaryKey},
	}, args)
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}
	rows, err := s.Select(context.Background(), table, query, params)
	if err != nil {
		t.Fatalf("Select() failed: %v", err)
	}
	return rows
}

func ids(rows []ir.IRObject) []int64 {
	out := make([]int64, len(rows))
	for i, r := range rows {
		out[i] = int64(r["id"].(ir.IRInt))
	}
	return out
}

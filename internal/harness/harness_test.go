package harness

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ndbq/internal/ir"
)

const employeeSchema = `table: Employee: {
	primary_key: "id"
	columns: {
		id:      int
		name:    string
		manager: int | null
	}
}`

func employeeScenario(cases ...Case) *Scenario {
	return &Scenario{
		Name:        "inline",
		Description: "inline scenario",
		Schema:      employeeSchema,
		Data: map[string][]map[string]any{
			"Employee": {
				{"id": 1, "name": "Alice", "manager": nil},
				{"id": 2, "name": "Bob", "manager": 1},
				{"id": 3, "name": "Carol", "manager": 1},
			},
		},
		Cases: cases,
	}
}

func intPtr(n int) *int { return &n }

func TestRunScenarioFiles(t *testing.T) {
	for _, name := range []string{"employees", "errors"} {
		t.Run(name, func(t *testing.T) {
			s, err := LoadScenario("testdata/scenarios/" + name + ".yaml")
			require.NoError(t, err)

			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Empty(t, result.Errors)
			require.Len(t, result.Cases, len(s.Cases))
			for _, cr := range result.Cases {
				assert.Len(t, cr.Outcomes, 2)
			}
		})
	}
}

func TestRunRecordsOutcome(t *testing.T) {
	s := employeeScenario(Case{
		Name:   "managed",
		Table:  "Employee",
		Filter: "manager = ?",
		Args:   []any{1},
		Expect: Expect{IDs: []any{2, 3}},
	})

	result, err := Run(s)
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)

	out := result.Cases[0].Outcomes[0]
	assert.Equal(t, BackendSQLite, out.Backend)
	assert.Equal(t, "q-1", out.QueryID)
	assert.Equal(t, "manager = ?", out.Canonical)
	assert.Equal(t, 1, out.Params)
	assert.Equal(t, `SELECT "id", "name", "manager" FROM "Employee" WHERE "manager" = ? ORDER BY "id" COLLATE BINARY ASC`, out.SQL)
	assert.Equal(t, []ir.IRValue{ir.IRInt(2), ir.IRInt(3)}, out.IDs)
	assert.Empty(t, out.ErrorCode)

	mem := result.Cases[0].Outcomes[1]
	assert.Equal(t, BackendMemory, mem.Backend)
	assert.Equal(t, out.IDs, mem.IDs)
}

func TestRunReportsFailedExpectations(t *testing.T) {
	s := employeeScenario(
		Case{
			Name:   "wrong_ids",
			Table:  "Employee",
			Filter: "name = 'Bob'",
			Expect: Expect{IDs: []any{3}},
		},
		Case{
			Name:   "unexpected_error",
			Table:  "Employee",
			Filter: "salary = 1",
			Expect: Expect{Count: intPtr(0)},
		},
	)
	s.Backends = []string{BackendMemory}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "case wrong_ids [memory]: ids assertion failed")
	assert.Contains(t, result.Errors[0], "Expected: [3]")
	assert.Contains(t, result.Errors[0], "Actual: [2]")
	assert.Contains(t, result.Errors[1], "case unexpected_error [memory]: error assertion failed")
	assert.Contains(t, result.Errors[1], "UNKNOWN_COLUMN")
}

func TestRunNamedParameters(t *testing.T) {
	s := employeeScenario(Case{
		Name:   "named",
		Table:  "Employee",
		Filter: "manager = :boss OR id = :boss",
		Named:  map[string]any{"boss": 1},
		Expect: Expect{Params: intPtr(2), IDs: []any{1, 2, 3}},
	})

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRunSchemaError(t *testing.T) {
	s := employeeScenario(Case{Name: "c", Table: "Employee", Filter: "id = 1"})
	s.Schema = `table: Broken: { primary_key: "missing", columns: { id: int } }`

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load schema")
}

func TestRunDataErrors(t *testing.T) {
	t.Run("unknown table", func(t *testing.T) {
		s := employeeScenario(Case{Name: "c", Table: "Employee", Filter: "id = 1"})
		s.Data["Project"] = []map[string]any{{"id": 1}}

		_, err := Run(s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `data for unknown table "Project"`)
	})

	t.Run("bad row", func(t *testing.T) {
		s := employeeScenario(Case{Name: "c", Table: "Employee", Filter: "id = 1"})
		s.Data["Employee"] = append(s.Data["Employee"], map[string]any{"id": 4, "name": 7})

		for _, backend := range AllBackends {
			s.Backends = []string{backend}
			_, err := Run(s)
			require.Error(t, err, backend)
			assert.Contains(t, err.Error(), "load Employee")
		}
	})
}

func TestRunWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s := employeeScenario(
		Case{Name: "ok", Table: "Employee", Filter: "id = 1", Expect: Expect{Count: intPtr(1)}},
		Case{Name: "bad", Table: "Employee", Filter: "id =", Expect: Expect{Error: "SYNTAX_ERROR"}},
	)
	s.Backends = []string{BackendSQLite}

	result, err := Run(s, WithLogger(logger))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	logs := buf.String()
	assert.Contains(t, logs, `msg="case completed" case=ok backend=sqlite`)
	assert.Contains(t, logs, `msg="case failed" case=bad backend=sqlite code=SYNTAX_ERROR`)
	assert.Equal(t, 2, strings.Count(logs, "\n"))
}

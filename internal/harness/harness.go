package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/ndbq/internal/exec"
	"github.com/roach88/ndbq/internal/ir"
	"github.com/roach88/ndbq/internal/memstore"
	"github.com/roach88/ndbq/internal/querysql"
	"github.com/roach88/ndbq/internal/schema"
	"github.com/roach88/ndbq/internal/store"
	"github.com/roach88/ndbq/internal/syntax"
	"github.com/roach88/ndbq/internal/testutil"
)

// Harness is the scenario execution engine for one backend.
type Harness struct {
	backend  string
	executor *exec.Executor
	sql      *querysql.SQLCompiler
	logger   *slog.Logger
	close    func() error
}

// Option configures scenario runs.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger for case progress. By default logs are
// discarded.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Run executes a scenario on each of its backends and returns the result.
//
// Execution flow:
// 1. Load the schema
// 2. For each backend, create a fresh in-memory database and load the data
// 3. Run every case, checking its expectations
// 4. Check the backends agree on every case
//
// An error is returned only when the scenario cannot run at all; failed
// expectations are reported in Result.Errors.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	return RunContext(context.Background(), scenario, opts...)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}

	sch, err := loadSchema(scenario)
	if err != nil {
		return nil, err
	}

	harnesses := make([]*Harness, 0, len(scenario.backends()))
	defer func() {
		for _, h := range harnesses {
			h.close()
		}
	}()
	for _, name := range scenario.backends() {
		h, err := newHarness(ctx, name, sch, scenario.Data, o.logger)
		if err != nil {
			return nil, fmt.Errorf("backend %s: %w", name, err)
		}
		harnesses = append(harnesses, h)
	}

	result := NewResult(scenario.Name)
	for _, c := range scenario.Cases {
		cr := CaseResult{Name: c.Name}
		for _, h := range harnesses {
			out := h.runCase(ctx, c)
			for _, err := range checkExpect(c, out) {
				result.AddError(err.Error())
			}
			cr.Outcomes = append(cr.Outcomes, out)
		}
		if err := checkAgreement(c.Name, cr.Outcomes); err != nil {
			result.AddError(err.Error())
		}
		result.Cases = append(result.Cases, cr)
	}

	return result, nil
}

func loadSchema(s *Scenario) (*schema.Schema, error) {
	var (
		sch  *schema.Schema
		errs []error
	)
	if s.SchemaDir != "" {
		sch, errs = schema.LoadDir(s.SchemaDir, schema.LoadModeCollectAll)
	} else {
		sch, errs = schema.LoadString(s.Schema, schema.LoadModeCollectAll)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to load schema: %w", errors.Join(errs...))
	}
	return sch, nil
}

// newHarness creates a fresh backend holding the scenario data.
// Tables are loaded in name order so failures are reported deterministically.
func newHarness(ctx context.Context, name string, sch *schema.Schema, data map[string][]map[string]any, logger *slog.Logger) (*Harness, error) {
	var (
		backend exec.Backend
		closer  = func() error { return nil }
	)

	switch name {
	case BackendSQLite:
		st, err := store.Open(":memory:")
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory store: %w", err)
		}
		for i := range sch.Tables {
			if err := st.CreateTable(ctx, &sch.Tables[i]); err != nil {
				st.Close()
				return nil, err
			}
		}
		backend = exec.NewSQLBackend(st)
		closer = st.Close
	case BackendMemory:
		tables := make([]*schema.Table, len(sch.Tables))
		for i := range sch.Tables {
			tables[i] = &sch.Tables[i]
		}
		mem, err := memstore.New(tables...)
		if err != nil {
			return nil, err
		}
		backend = exec.NewMemBackend(mem)
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}

	tableNames := make([]string, 0, len(data))
	for t := range data {
		tableNames = append(tableNames, t)
	}
	slices.Sort(tableNames)

	for _, tname := range tableNames {
		table, ok := sch.Table(tname)
		if !ok {
			closer()
			return nil, fmt.Errorf("data for unknown table %q", tname)
		}
		rows := make([]ir.IRObject, len(data[tname]))
		for i, raw := range data[tname] {
			row, err := ir.ObjectFromGo(raw)
			if err != nil {
				closer()
				return nil, fmt.Errorf("data %s[%d]: %w", tname, i, err)
			}
			rows[i] = row
		}
		if err := backend.Load(ctx, table, rows); err != nil {
			closer()
			return nil, fmt.Errorf("load %s: %w", tname, err)
		}
	}

	return &Harness{
		backend:  name,
		executor: exec.New(sch, backend, testutil.NewSequenceIDGenerator("q")),
		sql:      querysql.NewSQLCompiler(),
		logger:   logger,
		close:    closer,
	}, nil
}

// runCase prepares and executes one case. Failures are recorded in the
// outcome, never returned.
func (h *Harness) runCase(ctx context.Context, c Case) Outcome {
	out := Outcome{Backend: h.backend}
	fail := func(err error) Outcome {
		out.ErrorCode = exec.CodeOf(err)
		out.Error = err.Error()
		h.logger.Info("case failed", "case", c.Name, "backend", h.backend, "code", out.ErrorCode, "error", err)
		return out
	}

	p, err := h.executor.Prepare(c.Table, c.Filter)
	if err != nil {
		return fail(err)
	}
	out.QueryID = p.ID
	out.Canonical = syntax.Format(p.Root)
	out.Params = p.ParamCount()

	args, err := toIRValues(c.Args)
	if err != nil {
		return fail(err)
	}

	var res *exec.Result
	if c.Named != nil {
		named, err := ir.ObjectFromGo(c.Named)
		if err != nil {
			return fail(err)
		}
		res, err = h.executor.ExecuteNamed(ctx, p, named, args...)
		if err != nil {
			return fail(err)
		}
	} else {
		res, err = h.executor.Execute(ctx, p, args...)
		if err != nil {
			return fail(err)
		}
	}

	if sql, _, err := h.sql.Compile(p.Query.Select, res.Args); err == nil {
		out.SQL = sql
	}
	out.Rows = res.Rows
	out.IDs = make([]ir.IRValue, len(res.Rows))
	for i, row := range res.Rows {
		out.IDs[i] = row[p.Table.PrimaryKey]
	}

	h.logger.Info("case completed",
		"case", c.Name,
		"backend", h.backend,
		"query", p.ID,
		"rows", len(res.Rows),
	)
	return out
}

func toIRValues(vals []any) ([]ir.IRValue, error) {
	out := make([]ir.IRValue, len(vals))
	for i, v := range vals {
		iv, err := ir.FromGo(v)
		if err != nil {
			return nil, fmt.Errorf("args[%d]: %w", i, err)
		}
		out[i] = iv
	}
	return out, nil
}

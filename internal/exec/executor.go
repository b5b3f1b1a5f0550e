package exec

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/ndbq/internal/domain"
	"github.com/roach88/ndbq/internal/ir"
	"github.com/roach88/ndbq/internal/parser"
	"github.com/roach88/ndbq/internal/schema"
	"github.com/roach88/ndbq/internal/syntax"
)

// Catalog resolves table names to mappings. Implemented by *schema.Schema
// and *memstore.Store.
type Catalog interface {
	Table(name string) (*schema.Table, bool)
}

// Prepared is a filter compiled for one table.
//
// Root is never modified after preparation, so a Prepared may be executed
// concurrently and rebound any number of times.
type Prepared struct {
	ID          string
	Source      string // Filter text; empty for trees built in code
	Fingerprint string // Stable across executions of the same filter and table
	Root        syntax.PredicateNode
	Table       *schema.Table
	Query       *domain.Query
}

// ParamCount returns the number of arguments Execute expects.
func (p *Prepared) ParamCount() int {
	return p.Query.ParamCount()
}

// Result is the outcome of one execution.
type Result struct {
	QueryID string
	Args    []ir.IRValue
	Rows    []ir.IRObject
}

// DefaultMaxRows is the default limit on rows returned by one execution.
const DefaultMaxRows = 10000

// Executor prepares filters against a catalog and runs them on a backend.
//
// Thread-safety: an Executor is safe for concurrent use if its backend is.
type Executor struct {
	catalog Catalog
	backend Backend
	ids     IDGenerator
	maxRows int
}

// Option configures an Executor.
type Option func(*Executor)

// WithMaxRows sets the row limit per execution. Zero or less disables it.
//
// Default: 10000 rows (DefaultMaxRows)
func WithMaxRows(n int) Option {
	return func(e *Executor) {
		e.maxRows = n
	}
}

// New creates an Executor.
func New(catalog Catalog, backend Backend, ids IDGenerator, opts ...Option) *Executor {
	e := &Executor{
		catalog: catalog,
		backend: backend,
		ids:     ids,
		maxRows: DefaultMaxRows,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Backend returns the backend queries run on.
func (e *Executor) Backend() Backend {
	return e.backend
}

// Table looks up a table in the catalog.
func (e *Executor) Table(name string) (*schema.Table, error) {
	t, ok := e.catalog.Table(name)
	if !ok {
		return nil, unknownTable(name)
	}
	return t, nil
}

// Prepare parses filter and compiles it for table.
func (e *Executor) Prepare(table, filter string) (*Prepared, error) {
	root, err := parser.Parse(filter)
	if err != nil {
		return nil, err
	}
	p, err := e.PrepareTree(table, root)
	if err != nil {
		return nil, err
	}
	p.Source = filter
	return p, nil
}

// PrepareTree compiles an already built syntax tree for table. The tree
// must not be modified afterwards.
func (e *Executor) PrepareTree(table string, root syntax.PredicateNode) (*Prepared, error) {
	t, err := e.Table(table)
	if err != nil {
		return nil, err
	}
	q, err := domain.Compile(t, root)
	if err != nil {
		return nil, err
	}

	fp, err := ir.Fingerprint(t.Name, syntax.Format(root))
	if err != nil {
		return nil, fmt.Errorf("fingerprint: %w", err)
	}

	p := &Prepared{
		ID:          e.ids.Generate(),
		Fingerprint: fp,
		Root:        root,
		Table:       t,
		Query:       q,
	}
	slog.Debug("query prepared", "query", p.ID, "fingerprint", fp[:12], "table", t.Name, "params", q.ParamCount())
	return p, nil
}

// Rebind compiles a copy of p's syntax tree for table, which may be p's own
// table. The copy shares no nodes with p, and p is left unchanged.
func (e *Executor) Rebind(p *Prepared, table string) (*Prepared, error) {
	clone := syntax.ClonePredicate(p.Root)
	rebound, err := e.PrepareTree(table, clone)
	if err != nil {
		return nil, fmt.Errorf("rebind %s to %s: %w", p.ID, table, err)
	}
	rebound.Source = p.Source
	return rebound, nil
}

// Execute binds positional args and runs p.
func (e *Executor) Execute(ctx context.Context, p *Prepared, args ...ir.IRValue) (*Result, error) {
	bound, err := p.Query.Bind(args...)
	if err != nil {
		return nil, err
	}
	return e.run(ctx, p, bound)
}

// ExecuteNamed binds named parameters from named and the rest from
// positional, then runs p.
func (e *Executor) ExecuteNamed(ctx context.Context, p *Prepared, named map[string]ir.IRValue, positional ...ir.IRValue) (*Result, error) {
	bound, err := p.Query.BindNamed(named, positional...)
	if err != nil {
		return nil, err
	}
	return e.run(ctx, p, bound)
}

// ExecuteStrings parses string arguments by parameter type and runs p.
func (e *Executor) ExecuteStrings(ctx context.Context, p *Prepared, args []string) (*Result, error) {
	bound, err := p.Query.BindStrings(args)
	if err != nil {
		return nil, err
	}
	return e.run(ctx, p, bound)
}

func (e *Executor) run(ctx context.Context, p *Prepared, args []ir.IRValue) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	rows, err := e.backend.Select(ctx, p.Table, p.Query.Select, args)
	if err != nil {
		return nil, fmt.Errorf("execute %s: %w", p.ID, err)
	}

	if e.maxRows > 0 && len(rows) > e.maxRows {
		return nil, &Error{
			Code:    ErrCodeRowLimit,
			Message: fmt.Sprintf("query returned %d rows, limit is %d", len(rows), e.maxRows),
			QueryID: p.ID,
			Table:   p.Table.Name,
		}
	}

	slog.Debug("query executed",
		"query", p.ID,
		"backend", e.backend.Name(),
		"rows", len(rows),
	)
	return &Result{QueryID: p.ID, Args: args, Rows: rows}, nil
}

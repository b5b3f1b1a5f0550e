package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/ndbq/internal/exec"
	"github.com/roach88/ndbq/internal/ir"
	"github.com/roach88/ndbq/internal/memstore"
	"github.com/roach88/ndbq/internal/schema"
	"github.com/roach88/ndbq/internal/store"
)

// Backend names accepted by --backend.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Schema   string
	Table    string
	Fixtures string
	Backend  string
	Database string
	Args     []string
	MaxRows  int

	// IDGenerator allows overriding the query ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGenerator exec.IDGenerator
}

// RunResult is the output of the run command.
type RunResult struct {
	QueryID string        `json:"query_id"`
	Table   string        `json:"table"`
	Backend string        `json:"backend"`
	Count   int           `json:"count"`
	Rows    []ir.IRObject `json:"rows"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <filter>",
		Short: "Run a filter and print the matching rows",
		Long: `Run a filter against a table and print the matching rows in primary
key order.

Rows come from a fixtures file, a SQLite database, or both: fixtures are
inserted before the query runs. Arguments are given with --arg, one per
parameter in binding order, and parsed by the column type they bind to
("null" binds NULL).

Example:
  ndbq run --schema ./schema --table Employee --fixtures rows.yaml \
    --arg 100 --arg eng "salary >= ? AND department = ?"
  ndbq run --schema ./schema --table Employee --db ./ndbq.db "active = true"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Schema, "schema", "", "CUE schema directory (required)")
	cmd.Flags().StringVar(&opts.Table, "table", "", "table to query (required)")
	cmd.Flags().StringVar(&opts.Fixtures, "fixtures", "", "YAML file of rows to load, keyed by table")
	cmd.Flags().StringVar(&opts.Backend, "backend", BackendSQLite, "storage backend (sqlite|memory)")
	cmd.Flags().StringVar(&opts.Database, "db", ":memory:", "path to SQLite database (sqlite backend only)")
	cmd.Flags().StringArrayVar(&opts.Args, "arg", nil, "parameter value, repeated in binding order")
	cmd.Flags().IntVar(&opts.MaxRows, "max-rows", exec.DefaultMaxRows, "fail if more rows match (0 disables)")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}

func runFilter(opts *RunOptions, filter string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sch, table, err := lookupTable(formatter, opts.Schema, opts.Table)
	if err != nil {
		return err
	}

	var fixtures Fixtures
	if opts.Fixtures != "" {
		if fixtures, err = loadFixtures(opts.Fixtures); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeFixtures, err)
		}
	}

	backend, closeBackend, err := openBackend(ctx, opts, sch)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, err)
	}
	defer func() {
		if closeErr := closeBackend(); closeErr != nil {
			slog.Error("error closing backend", "error", closeErr)
		}
	}()

	for _, name := range fixtures.Tables() {
		t, ok := sch.Table(name)
		if !ok {
			return formatter.Fail(ExitCommandError, ErrCodeFixtures, fmt.Errorf("fixtures for unknown table %q", name))
		}
		if err := backend.Load(ctx, t, fixtures[name]); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeFixtures, fmt.Errorf("load %s: %w", name, err))
		}
		formatter.VerboseLog("Loaded %d row(s) into %s", len(fixtures[name]), name)
	}

	ids := opts.IDGenerator
	if ids == nil {
		ids = exec.UUIDv7Generator{}
	}
	executor := exec.New(sch, backend, ids, exec.WithMaxRows(opts.MaxRows))

	p, err := executor.Prepare(table.Name, filter)
	if err != nil {
		return formatter.Fail(ExitFailure, exec.CodeOf(err), err)
	}
	slog.Info("running query", "query", p.ID, "table", table.Name, "backend", backend.Name())

	res, err := executor.ExecuteStrings(ctx, p, opts.Args)
	if err != nil {
		return formatter.Fail(ExitFailure, exec.CodeOf(err), err)
	}

	result := &RunResult{
		QueryID: res.QueryID,
		Table:   table.Name,
		Backend: backend.Name(),
		Count:   len(res.Rows),
		Rows:    res.Rows,
	}
	if result.Rows == nil {
		result.Rows = []ir.IRObject{}
	}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	for _, row := range result.Rows {
		data, err := ir.MarshalCanonical(row)
		if err != nil {
			return formatter.Fail(ExitFailure, exec.CodeInternal, err)
		}
		fmt.Fprintln(w, string(data))
	}
	fmt.Fprintf(w, "(%d row(s))\n", result.Count)
	return nil
}

// openBackend creates the backend named by opts with every schema table
// available.
func openBackend(ctx context.Context, opts *RunOptions, sch *schema.Schema) (exec.Backend, func() error, error) {
	switch opts.Backend {
	case BackendSQLite:
		st, err := store.Open(opts.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		for i := range sch.Tables {
			if err := st.CreateTable(ctx, &sch.Tables[i]); err != nil {
				st.Close()
				return nil, nil, err
			}
		}
		return exec.NewSQLBackend(st), st.Close, nil

	case BackendMemory:
		if opts.Database != ":memory:" {
			return nil, nil, fmt.Errorf("--db is only supported by the %s backend", BackendSQLite)
		}
		tables := make([]*schema.Table, len(sch.Tables))
		for i := range sch.Tables {
			tables[i] = &sch.Tables[i]
		}
		mem, err := memstore.New(tables...)
		if err != nil {
			return nil, nil, err
		}
		return exec.NewMemBackend(mem), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown backend %q: must be %s or %s", opts.Backend, BackendSQLite, BackendMemory)
	}
}

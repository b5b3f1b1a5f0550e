package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/ndbq/internal/domain"
	"github.com/roach88/ndbq/internal/exec"
	"github.com/roach88/ndbq/internal/ir"
	"github.com/roach88/ndbq/internal/parser"
	"github.com/roach88/ndbq/internal/queryir"
	"github.com/roach88/ndbq/internal/querysql"
	"github.com/roach88/ndbq/internal/syntax"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Schema string // CUE schema directory
	Table  string
	Output string // output file path
}

// CompilationResult is a filter compiled for one table.
type CompilationResult struct {
	Table       string             `json:"table"`
	Canonical   string             `json:"canonical"`
	Fingerprint string             `json:"fingerprint"`
	SQL         string             `json:"sql"`
	ParamCount  int                `json:"param_count"`
	Params      []domain.ParamSpec `json:"params"`
	Warnings    []string           `json:"warnings,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <filter>",
		Short: "Compile a filter to parameterized SQL",
		Long: `Compile a filter expression against a table mapping.

Prints the SQL statement, the number of parameters and the column each
parameter binds to, in binding order.

Example:
  ndbq compile --schema ./schema --table Employee "salary >= ? AND department = :dept"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Schema, "schema", "", "CUE schema directory (required)")
	cmd.Flags().StringVar(&opts.Table, "table", "", "table to compile against (required)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the result as JSON to this file")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}

func runCompile(opts *CompileOptions, filter string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	_, table, err := lookupTable(formatter, opts.Schema, opts.Table)
	if err != nil {
		return err
	}

	root, err := parser.Parse(filter)
	if err != nil {
		return formatter.Fail(ExitFailure, exec.CodeOf(err), err)
	}
	formatter.VerboseLog("Parsed filter: depth %d, %d parameter(s)", syntax.Depth(root), len(syntax.Params(root)))

	q, err := domain.Compile(table, root)
	if err != nil {
		return formatter.Fail(ExitFailure, exec.CodeOf(err), err)
	}

	// Every value is a placeholder, so NULL arguments yield the same text
	// as real ones.
	placeholders := make([]ir.IRValue, q.ParamCount())
	for i := range placeholders {
		placeholders[i] = ir.IRNull{}
	}
	sql, _, err := querysql.NewSQLCompiler().Compile(q.Select, placeholders)
	if err != nil {
		return formatter.Fail(ExitFailure, exec.CodeInternal, err)
	}

	canonical := syntax.Format(root)
	fingerprint, err := ir.Fingerprint(table.Name, canonical)
	if err != nil {
		return formatter.Fail(ExitFailure, exec.CodeInternal, err)
	}

	result := &CompilationResult{
		Table:       table.Name,
		Canonical:   canonical,
		Fingerprint: fingerprint,
		SQL:         sql,
		ParamCount:  q.ParamCount(),
		Params:      q.Params,
		Warnings:    queryir.Validate(q.Select).Warnings,
	}

	if opts.Output != "" {
		if err := writeResultToFile(result, opts.Output); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, err)
		}
		formatter.VerboseLog("Wrote result to %s", opts.Output)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	printCompilation(formatter, result)
	return nil
}

func printCompilation(f *OutputFormatter, result *CompilationResult) {
	w := f.Writer
	fmt.Fprintf(w, "✓ Compiled %s for %s\n\n", result.Canonical, result.Table)
	fmt.Fprintf(w, "SQL:\n  %s\n\n", result.SQL)
	fmt.Fprintf(w, "Parameters: %d\n", result.ParamCount)
	for _, p := range result.Params {
		name := "?"
		if p.Name != "" {
			name = ":" + p.Name
		}
		fmt.Fprintf(w, "  %d: %s -> %s (%s)\n", p.Index, name, p.Column, p.Type)
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintln(w)
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
}

// writeResultToFile writes the compilation result as indented JSON.
func writeResultToFile(result *CompilationResult, filename string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}

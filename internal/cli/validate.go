package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ndbq/internal/domain"
	"github.com/roach88/ndbq/internal/exec"
	"github.com/roach88/ndbq/internal/parser"
	"github.com/roach88/ndbq/internal/queryir"
	"github.com/roach88/ndbq/internal/syntax"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Schema string
	Table  string
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid      bool     `json:"valid"`
	Canonical  string   `json:"canonical"`
	Depth      int      `json:"depth"`
	ParamCount int      `json:"param_count"`
	Table      string   `json:"table,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <filter>",
		Short: "Check a filter without running it",
		Long: `Parse a filter and check its structure.

With --schema and --table the filter is also resolved against the table:
unknown columns, type mismatches and unsupported comparators are reported,
and suspicious but legal conditions produce warnings.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Schema, "schema", "", "CUE schema directory")
	cmd.Flags().StringVar(&opts.Table, "table", "", "table to resolve columns against (requires --schema)")
	cmd.MarkFlagsRequiredTogether("schema", "table")

	return cmd
}

func runValidate(opts *ValidateOptions, filter string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	root, err := parser.Parse(filter)
	if err != nil {
		return formatter.Fail(ExitFailure, exec.CodeOf(err), err)
	}

	result := &ValidationResult{
		Valid:      true,
		Canonical:  syntax.Format(root),
		Depth:      syntax.Depth(root),
		ParamCount: len(syntax.Params(root)),
	}

	if opts.Schema != "" {
		_, table, err := lookupTable(formatter, opts.Schema, opts.Table)
		if err != nil {
			return err
		}
		formatter.VerboseLog("Resolving against table: %s", table.Name)

		q, err := domain.Compile(table, root)
		if err != nil {
			return formatter.Fail(ExitFailure, exec.CodeOf(err), err)
		}
		result.Table = table.Name
		result.Warnings = queryir.Validate(q.Select).Warnings
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ %s\n", result.Canonical)
	fmt.Fprintf(w, "  depth %d, %d parameter(s)\n", result.Depth, result.ParamCount)
	if result.Table != "" {
		fmt.Fprintf(w, "  resolves against %s\n", result.Table)
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	return nil
}

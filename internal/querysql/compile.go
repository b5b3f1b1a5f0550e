package querysql

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/roach88/ndbq/internal/ir"
	"github.com/roach88/ndbq/internal/queryir"
)

// SQLCompiler compiles QueryIR to parameterized SQL for SQLite.
//
// All queries include ORDER BY for deterministic results, and all values,
// literals included, are passed as ? parameters, never interpolated.
// Identifiers are double-quoted.
type SQLCompiler struct {
	builder sq.StatementBuilderType
}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

// Compile converts a select query to SQL with its arguments bound.
// args are indexed by parameter index and must already be type-checked.
// Returns (sql, params, error); params follow placeholder order.
func (c *SQLCompiler) Compile(q *queryir.Select, args []ir.IRValue) (string, []any, error) {
	if q == nil {
		return "", nil, fmt.Errorf("cannot compile nil query")
	}

	cols := make([]string, len(q.Columns))
	for i, col := range q.Columns {
		cols[i] = QuoteIdent(col)
	}
	if len(cols) == 0 {
		cols = []string{"*"}
	}

	b := c.builder.Select(cols...).From(QuoteIdent(q.From))

	if q.Filter != nil {
		where, err := c.compilePredicate(q.Filter, args)
		if err != nil {
			return "", nil, fmt.Errorf("compile filter: %w", err)
		}
		b = b.Where(where)
	}

	b = b.OrderBy(stableOrderKey(q)...)

	sql, params, err := b.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build sql: %w", err)
	}
	return sql, params, nil
}

// stableOrderKey returns the ORDER BY terms for a query.
// COLLATE BINARY keeps text ordering independent of the SQLite build.
func stableOrderKey(q *queryir.Select) []string {
	keys := q.OrderBy
	if len(keys) == 0 {
		keys = []string{"rowid"}
	}
	terms := make([]string, len(keys))
	for i, k := range keys {
		terms[i] = QuoteIdent(k) + " COLLATE BINARY ASC"
	}
	return terms
}

// compilePredicate compiles a predicate to a squirrel expression.
func (c *SQLCompiler) compilePredicate(p queryir.Predicate, args []ir.IRValue) (sq.Sqlizer, error) {
	switch pred := p.(type) {
	case *queryir.Compare:
		v, err := operandValue(pred.Value, args)
		if err != nil {
			return nil, err
		}
		return sq.Expr(fmt.Sprintf("%s %s ?", QuoteIdent(pred.Field), pred.Op), v), nil

	case *queryir.Between:
		lo, err := operandValue(pred.Lower, args)
		if err != nil {
			return nil, err
		}
		hi, err := operandValue(pred.Upper, args)
		if err != nil {
			return nil, err
		}
		return sq.Expr(QuoteIdent(pred.Field)+" BETWEEN ? AND ?", lo, hi), nil

	case *queryir.In:
		values := make([]any, len(pred.Values))
		for i, op := range pred.Values {
			v, err := operandValue(op, args)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
		return sq.Expr(fmt.Sprintf("%s IN (%s)", QuoteIdent(pred.Field), placeholders), values...), nil

	case *queryir.Like:
		v, err := operandValue(pred.Pattern, args)
		if err != nil {
			return nil, err
		}
		return sq.Expr(QuoteIdent(pred.Field)+" LIKE ?", v), nil

	case *queryir.IsNull:
		if pred.Negated {
			return sq.NotEq{QuoteIdent(pred.Field): nil}, nil
		}
		return sq.Eq{QuoteIdent(pred.Field): nil}, nil

	case *queryir.And:
		parts, err := c.compileAll(pred.Predicates, args)
		if err != nil {
			return nil, err
		}
		return sq.And(parts), nil

	case *queryir.Or:
		parts, err := c.compileAll(pred.Predicates, args)
		if err != nil {
			return nil, err
		}
		return sq.Or(parts), nil

	case *queryir.Not:
		inner, err := c.compilePredicate(pred.Predicate, args)
		if err != nil {
			return nil, err
		}
		return not{inner}, nil

	default:
		return nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func (c *SQLCompiler) compileAll(preds []queryir.Predicate, args []ir.IRValue) ([]sq.Sqlizer, error) {
	parts := make([]sq.Sqlizer, len(preds))
	for i, p := range preds {
		part, err := c.compilePredicate(p, args)
		if err != nil {
			return nil, err
		}
		parts[i] = part
	}
	return parts, nil
}

// not negates a squirrel expression.
type not struct {
	inner sq.Sqlizer
}

func (n not) ToSql() (string, []any, error) {
	sql, args, err := n.inner.ToSql()
	if err != nil {
		return "", nil, err
	}
	return "NOT (" + sql + ")", args, nil
}

// operandValue resolves an operand to a Go value usable as an SQL
// parameter.
func operandValue(o queryir.Operand, args []ir.IRValue) (any, error) {
	switch op := o.(type) {
	case *queryir.Literal:
		return ir.ToGo(op.Value)
	case *queryir.Param:
		if op.Index < 0 || op.Index >= len(args) {
			return nil, fmt.Errorf("parameter %d not bound (%d arguments)", op.Index, len(args))
		}
		return ir.ToGo(args[op.Index])
	default:
		return nil, fmt.Errorf("unsupported operand type: %T", o)
	}
}

// QuoteIdent quotes an SQL identifier.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

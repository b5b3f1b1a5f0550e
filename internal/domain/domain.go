package domain

import (
	"fmt"
	"log/slog"

	"github.com/roach88/ndbq/internal/compiler"
	"github.com/roach88/ndbq/internal/ir"
	"github.com/roach88/ndbq/internal/queryir"
	"github.com/roach88/ndbq/internal/schema"
	"github.com/roach88/ndbq/internal/syntax"
)

// ParamSpec describes a registered parameter slot.
type ParamSpec struct {
	Index int    `json:"index"`
	Name  string `json:"name,omitempty"`

	// Column and Type are filled in when the leaf using the parameter
	// resolves.
	Column string            `json:"column"`
	Type   schema.ColumnType `json:"type"`
}

// Type is the query domain of one table: the context a filter is compiled
// against. It resolves column conditions to query IR and assigns parameter
// slots in registration order.
//
// A Type records every registration, so it serves a single compilation.
// Create a new one (or call Reset) to compile another tree.
type Type struct {
	table  *schema.Table
	params []ParamSpec
}

var _ compiler.Domain[Predicate] = (*Type)(nil)

// New creates the query domain of a table.
func New(table *schema.Table) *Type {
	return &Type{table: table}
}

// Table returns the table the domain resolves columns against.
func (d *Type) Table() *schema.Table {
	return d.table
}

// Params returns a copy of the registered parameters.
func (d *Type) Params() []ParamSpec {
	out := make([]ParamSpec, len(d.params))
	copy(out, d.params)
	return out
}

// Reset forgets all registered parameters.
func (d *Type) Reset() {
	d.params = nil
}

// RegisterParameter reserves the next parameter slot. A named parameter
// that appears twice gets two slots; BindNamed fills both from one value.
func (d *Type) RegisterParameter(name string) (compiler.ParamRef, error) {
	ref := compiler.ParamRef{Index: len(d.params), Name: name}
	d.params = append(d.params, ParamSpec{Index: ref.Index, Name: name})
	return ref, nil
}

// ResolveLeaf resolves a single column condition.
func (d *Type) ResolveLeaf(column string, cmp syntax.Comparator, operands []compiler.Operand) (Predicate, error) {
	col, ok := d.table.Column(column)
	if !ok {
		return Predicate{}, d.errorf(compiler.CodeUnknownColumn, column, cmp,
			"column %q does not exist on %s", column, d.table.Name)
	}

	switch {
	case cmp == syntax.Like && col.Type != schema.TypeString:
		return Predicate{}, d.errorf(compiler.CodeUnsupportedComparator, column, cmp,
			"LIKE requires a string column, %s is %s", column, col.Type)
	case cmp.IsOrdering() && col.Type == schema.TypeBool:
		return Predicate{}, d.errorf(compiler.CodeUnsupportedComparator, column, cmp,
			"%s cannot order bool column %s", cmp, column)
	}

	if arity := cmp.Arity(); (arity >= 0 && len(operands) != arity) || (arity < 0 && len(operands) == 0) {
		return Predicate{}, fmt.Errorf("%s on %s: got %d operands", cmp, column, len(operands))
	}

	ops := make([]queryir.Operand, len(operands))
	for i, op := range operands {
		resolved, err := d.resolveOperand(col, cmp, op)
		if err != nil {
			return Predicate{}, err
		}
		ops[i] = resolved
	}

	return Predicate{node: leafPredicate(column, cmp, ops)}, nil
}

func (d *Type) resolveOperand(col schema.Column, cmp syntax.Comparator, op compiler.Operand) (queryir.Operand, error) {
	if op.IsParam() {
		idx := op.Param.Index
		if idx < 0 || idx >= len(d.params) {
			return nil, d.errorf(compiler.CodeParameterOutOfRange, col.Name, cmp,
				"parameter %d was never registered (%d registered)", idx, len(d.params))
		}
		d.params[idx].Column = col.Name
		d.params[idx].Type = col.Type
		return &queryir.Param{Index: idx, Name: op.Param.Name}, nil
	}

	if !ir.IsNull(op.Value) && ir.KindOf(op.Value) != col.Type.Kind() {
		return nil, d.errorf(compiler.CodeTypeMismatch, col.Name, cmp,
			"%s is %s, got %s literal %s", col.Name, col.Type, ir.KindOf(op.Value), ir.Literal(op.Value))
	}
	return &queryir.Literal{Value: op.Value}, nil
}

func (d *Type) errorf(code compiler.ResolutionCode, column string, cmp syntax.Comparator, format string, args ...any) error {
	return &compiler.ResolutionError{
		Code:       code,
		Column:     column,
		Comparator: cmp,
		Message:    fmt.Sprintf(format, args...),
	}
}

var compareOps = map[syntax.Comparator]queryir.Op{
	syntax.Equal:        queryir.OpEq,
	syntax.NotEqual:     queryir.OpNeq,
	syntax.Less:         queryir.OpLt,
	syntax.LessEqual:    queryir.OpLte,
	syntax.Greater:      queryir.OpGt,
	syntax.GreaterEqual: queryir.OpGte,
}

// leafPredicate builds the IR for a comparator whose operand count has
// already been checked.
func leafPredicate(column string, cmp syntax.Comparator, ops []queryir.Operand) queryir.Predicate {
	switch cmp {
	case syntax.Between:
		return &queryir.Between{Field: column, Lower: ops[0], Upper: ops[1]}
	case syntax.In:
		return &queryir.In{Field: column, Values: ops}
	case syntax.Like:
		return &queryir.Like{Field: column, Pattern: ops[0]}
	case syntax.IsNull:
		return &queryir.IsNull{Field: column}
	case syntax.IsNotNull:
		return &queryir.IsNull{Field: column, Negated: true}
	default:
		return &queryir.Compare{Field: column, Op: compareOps[cmp], Value: ops[0]}
	}
}

// Query assembles the executable query for a predicate compiled against d.
// paramCount is the count the compiler reported; it must match the
// registrations d saw.
func (d *Type) Query(p Predicate, paramCount int) (*Query, error) {
	if paramCount != len(d.params) {
		return nil, fmt.Errorf("%w: compiled %d, registered %d",
			compiler.ErrParameterCountMismatch, paramCount, len(d.params))
	}
	for _, spec := range d.params {
		if spec.Column == "" {
			return nil, fmt.Errorf("parameter %d is not used by any condition", spec.Index)
		}
	}

	return &Query{
		Select: &queryir.Select{
			From:    d.table.Name,
			Columns: d.table.ColumnNames(),
			Filter:  p.IR(),
			OrderBy: []string{d.table.PrimaryKey},
		},
		Params: d.Params(),
	}, nil
}

// Compile compiles a parsed tree against a fresh domain of table and
// returns the executable query.
func Compile(table *schema.Table, root syntax.PredicateNode) (*Query, error) {
	d := New(table)
	res, err := compiler.Compile[Predicate](root, d)
	if err != nil {
		return nil, err
	}
	q, err := d.Query(res.Predicate, res.ParamCount)
	if err != nil {
		return nil, err
	}
	slog.Debug("query built", "table", table.Name, "params", res.ParamCount, "filter", res.Predicate.String())
	return q, nil
}

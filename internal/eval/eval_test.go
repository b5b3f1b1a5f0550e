package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ndbq/internal/ir"
	"github.com/roach88/ndbq/internal/queryir"
)

func lit(v ir.IRValue) queryir.Operand { return &queryir.Literal{Value: v} }

func param(i int) queryir.Operand { return &queryir.Param{Index: i} }

var alice = ir.IRObject{
	"id":         ir.IRInt(1),
	"name":       ir.IRString("Alice"),
	"department": ir.IRString("eng"),
	"salary":     ir.IRInt(120),
	"active":     ir.IRBool(true),
	"manager":    ir.IRNull{},
}

func TestEval_Leaves(t *testing.T) {
	tests := []struct {
		name string
		pred queryir.Predicate
		want Truth
	}{
		{"eq", &queryir.Compare{Field: "department", Op: queryir.OpEq, Value: lit(ir.IRString("eng"))}, True},
		{"neq", &queryir.Compare{Field: "department", Op: queryir.OpNeq, Value: lit(ir.IRString("eng"))}, False},
		{"lt", &queryir.Compare{Field: "salary", Op: queryir.OpLt, Value: lit(ir.IRInt(100))}, False},
		{"gte", &queryir.Compare{Field: "salary", Op: queryir.OpGte, Value: lit(ir.IRInt(120))}, True},
		{"bool", &queryir.Compare{Field: "active", Op: queryir.OpEq, Value: lit(ir.IRBool(true))}, True},
		{"null field", &queryir.Compare{Field: "manager", Op: queryir.OpEq, Value: lit(ir.IRInt(1))}, Unknown},
		{"null operand", &queryir.Compare{Field: "salary", Op: queryir.OpNeq, Value: lit(ir.IRNull{})}, Unknown},
		{"between inclusive", &queryir.Between{Field: "salary", Lower: lit(ir.IRInt(100)), Upper: lit(ir.IRInt(120))}, True},
		{"between outside", &queryir.Between{Field: "salary", Lower: lit(ir.IRInt(1)), Upper: lit(ir.IRInt(10))}, False},
		{"between null bound but outside", &queryir.Between{Field: "salary", Lower: lit(ir.IRNull{}), Upper: lit(ir.IRInt(10))}, False},
		{"between null bound", &queryir.Between{Field: "salary", Lower: lit(ir.IRNull{}), Upper: lit(ir.IRInt(200))}, Unknown},
		{"in hit", &queryir.In{Field: "department", Values: []queryir.Operand{lit(ir.IRString("ops")), lit(ir.IRString("eng"))}}, True},
		{"in miss", &queryir.In{Field: "department", Values: []queryir.Operand{lit(ir.IRString("ops"))}}, False},
		{"in miss with null", &queryir.In{Field: "department", Values: []queryir.Operand{lit(ir.IRString("ops")), lit(ir.IRNull{})}}, Unknown},
		{"like prefix", &queryir.Like{Field: "name", Pattern: lit(ir.IRString("Al%"))}, True},
		{"like is case sensitive", &queryir.Like{Field: "name", Pattern: lit(ir.IRString("al%"))}, False},
		{"like null field", &queryir.Like{Field: "manager", Pattern: lit(ir.IRString("%"))}, Unknown},
		{"is null", &queryir.IsNull{Field: "manager"}, True},
		{"is not null", &queryir.IsNull{Field: "manager", Negated: true}, False},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Eval(tt.pred, alice, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, "got %s", got)
		})
	}
}

func TestEval_ThreeValuedLogic(t *testing.T) {
	tru := &queryir.IsNull{Field: "manager"}
	fls := &queryir.IsNull{Field: "manager", Negated: true}
	unk := &queryir.Compare{Field: "manager", Op: queryir.OpEq, Value: lit(ir.IRInt(1))}

	tests := []struct {
		name string
		pred queryir.Predicate
		want Truth
	}{
		{"nil", nil, True},
		{"empty and", &queryir.And{}, True},
		{"empty or", &queryir.Or{}, False},
		{"true and unknown", &queryir.And{Predicates: []queryir.Predicate{tru, unk}}, Unknown},
		{"false and unknown", &queryir.And{Predicates: []queryir.Predicate{unk, fls}}, False},
		{"true or unknown", &queryir.Or{Predicates: []queryir.Predicate{unk, tru}}, True},
		{"false or unknown", &queryir.Or{Predicates: []queryir.Predicate{fls, unk}}, Unknown},
		{"not unknown", &queryir.Not{Predicate: unk}, Unknown},
		{"not false", &queryir.Not{Predicate: fls}, True},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Eval(tt.pred, alice, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, "got %s", got)
		})
	}
}

func TestEval_Params(t *testing.T) {
	pred := &queryir.And{Predicates: []queryir.Predicate{
		&queryir.Compare{Field: "department", Op: queryir.OpEq, Value: param(0)},
		&queryir.Compare{Field: "salary", Op: queryir.OpGt, Value: param(1)},
	}}

	ok, err := Matches(pred, alice, []ir.IRValue{ir.IRString("eng"), ir.IRInt(100)})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Matches(pred, alice, []ir.IRValue{ir.IRString("eng"), ir.IRInt(500)})
	require.NoError(t, err)
	assert.False(t, ok)

	// Unknown does not match.
	ok, err = Matches(pred, alice, []ir.IRValue{ir.IRNull{}, ir.IRInt(100)})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEval_Errors(t *testing.T) {
	_, err := Eval(&queryir.Compare{Field: "ghost", Op: queryir.OpEq, Value: lit(ir.IRInt(1))}, alice, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `row has no column "ghost"`)

	_, err = Eval(&queryir.Compare{Field: "salary", Op: queryir.OpEq, Value: param(0)}, alice, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parameter 0 not bound")

	_, err = Eval(&queryir.Compare{Field: "salary", Op: queryir.OpEq, Value: lit(ir.IRString("x"))}, alice, nil)
	assert.Error(t, err)

	_, err = Eval(&queryir.Like{Field: "salary", Pattern: lit(ir.IRString("1%"))}, alice, nil)
	assert.Error(t, err)
}

func TestTruthNot(t *testing.T) {
	assert.Equal(t, False, True.Not())
	assert.Equal(t, True, False.Not())
	assert.Equal(t, Unknown, Unknown.Not())
	assert.Equal(t, "UNKNOWN", Unknown.String())
}

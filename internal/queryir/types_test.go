package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ndbq/internal/ir"
)

func TestSealedInterfaces(t *testing.T) {
	var _ Query = &Select{}

	var _ Predicate = &Compare{}
	var _ Predicate = &Between{}
	var _ Predicate = &In{}
	var _ Predicate = &Like{}
	var _ Predicate = &IsNull{}
	var _ Predicate = &And{}
	var _ Predicate = &Or{}
	var _ Predicate = &Not{}

	var _ Operand = &Literal{}
	var _ Operand = &Param{}
}

func samplePredicate() Predicate {
	return &Or{Predicates: []Predicate{
		&And{Predicates: []Predicate{
			&Compare{Field: "salary", Op: OpGte, Value: &Param{Index: 0}},
			&In{Field: "department", Values: []Operand{
				&Literal{Value: ir.IRString("eng")},
				&Param{Index: 1, Name: "dept"},
			}},
		}},
		&Not{Predicate: &Between{Field: "age", Lower: &Literal{Value: ir.IRInt(18)}, Upper: &Param{Index: 2}}},
		&IsNull{Field: "manager", Negated: true},
	}}
}

func TestParamsTextualOrder(t *testing.T) {
	params := Params(samplePredicate())
	require.Len(t, params, 3)
	for i, p := range params {
		assert.Equal(t, i, p.Index)
	}
	assert.Equal(t, "dept", params[1].Name)

	assert.Empty(t, Params(nil))
}

func TestFormat(t *testing.T) {
	assert.Equal(t,
		"((salary >= $0 AND department IN ('eng', $1:dept)) OR NOT age BETWEEN 18 AND $2 OR manager IS NOT NULL)",
		Format(samplePredicate()))

	assert.Equal(t, "TRUE", Format(nil))
	assert.Equal(t, "TRUE", Format(&And{}))
	assert.Equal(t, "FALSE", Format(&Or{}))
	assert.Equal(t, "name LIKE 'A%'", Format(&Like{Field: "name", Pattern: &Literal{Value: ir.IRString("A%")}}))
}

func TestEncodeCanonical(t *testing.T) {
	p := &And{Predicates: []Predicate{
		&Compare{Field: "a", Op: OpEq, Value: &Param{Index: 0}},
		&Like{Field: "b", Pattern: &Literal{Value: ir.IRString("x%")}},
		&IsNull{Field: "c"},
	}}

	data, err := ir.MarshalCanonical(Encode(p))
	require.NoError(t, err)
	assert.Equal(t,
		`{"args":[{"field":"a","op":"=","value":{"param":0}},{"field":"b","op":"like","pattern":{"literal":"x%"}},{"field":"c","negated":false,"op":"is_null"}],"op":"and"}`,
		string(data))
}

func TestEncodeNamedParam(t *testing.T) {
	data, err := ir.MarshalCanonical(EncodeOperand(&Param{Index: 3, Name: "d"}))
	require.NoError(t, err)
	assert.Equal(t, `{"name":"d","param":3}`, string(data))
}

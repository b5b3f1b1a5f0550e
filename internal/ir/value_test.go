package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIRValueSealed(t *testing.T) {
	var _ IRValue = IRNull{}
	var _ IRValue = IRString("test")
	var _ IRValue = IRInt(42)
	var _ IRValue = IRBool(true)
	var _ IRValue = IRArray{IRString("a"), IRInt(1)}
	var _ IRValue = IRObject{"key": IRString("value")}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNull, KindOf(nil))
	assert.Equal(t, KindNull, KindOf(IRNull{}))
	assert.Equal(t, KindString, KindOf(IRString("x")))
	assert.Equal(t, KindInt, KindOf(IRInt(1)))
	assert.Equal(t, KindBool, KindOf(IRBool(false)))
	assert.Equal(t, KindArray, KindOf(IRArray{}))
	assert.Equal(t, KindObject, KindOf(IRObject{}))
}

func TestIRObjectSortedKeysRFC8785Order(t *testing.T) {
	obj := IRObject{
		"a":  IRInt(1),
		"A":  IRInt(2),
		"aa": IRInt(3),
		"aA": IRInt(4),
		"Aa": IRInt(5),
		"AA": IRInt(6),
	}

	assert.Equal(t, []string{"A", "AA", "Aa", "a", "aA", "aa"}, obj.SortedKeys())
}

func TestFromGo(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  IRValue
	}{
		{"nil", nil, IRNull{}},
		{"string", "alice", IRString("alice")},
		{"int", 7, IRInt(7)},
		{"int64", int64(-3), IRInt(-3)},
		{"uint64", uint64(12), IRInt(12)},
		{"integral float", float64(40), IRInt(40)},
		{"bool", true, IRBool(true)},
		{"json number", json.Number("99"), IRInt(99)},
		{"array", []any{1, "x"}, IRArray{IRInt(1), IRString("x")}},
		{"object", map[string]any{"a": false}, IRObject{"a": IRBool(false)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromGo(tt.input)
			require.NoError(t, err)
			assert.True(t, Equal(tt.want, got), "want %#v, got %#v", tt.want, got)
		})
	}
}

func TestFromGoRejectsFractions(t *testing.T) {
	_, err := FromGo(1.5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fractional")

	_, err = FromGo(json.Number("2.25"))
	require.Error(t, err)

	_, err = FromGo(struct{}{})
	require.Error(t, err)
}

func TestToGo(t *testing.T) {
	v, err := ToGo(IRString("a"))
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	v, err = ToGo(IRInt(5))
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)

	v, err = ToGo(IRNull{})
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = ToGo(IRArray{})
	assert.Error(t, err)
}

func TestParseScalar(t *testing.T) {
	v, err := ParseScalar(KindInt, "42")
	require.NoError(t, err)
	assert.Equal(t, IRInt(42), v)

	v, err = ParseScalar(KindBool, "true")
	require.NoError(t, err)
	assert.Equal(t, IRBool(true), v)

	v, err = ParseScalar(KindString, "42")
	require.NoError(t, err)
	assert.Equal(t, IRString("42"), v)

	v, err = ParseScalar(KindInt, "NULL")
	require.NoError(t, err)
	assert.Equal(t, IRNull{}, v)

	_, err = ParseScalar(KindInt, "forty")
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	c, err := Compare(IRInt(1), IRInt(2))
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = Compare(IRString("b"), IRString("a"))
	require.NoError(t, err)
	assert.Equal(t, 1, c)

	c, err = Compare(IRBool(false), IRBool(true))
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = Compare(IRBool(true), IRBool(true))
	require.NoError(t, err)
	assert.Equal(t, 0, c)

	_, err = Compare(IRInt(1), IRString("1"))
	assert.Error(t, err)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(IRNull{}, nil))
	assert.True(t, Equal(IRArray{IRInt(1)}, IRArray{IRInt(1)}))
	assert.False(t, Equal(IRArray{IRInt(1)}, IRArray{IRInt(2)}))
	assert.True(t, Equal(IRObject{"a": IRString("x")}, IRObject{"a": IRString("x")}))
	assert.False(t, Equal(IRObject{"a": IRString("x")}, IRObject{"b": IRString("x")}))
	assert.False(t, Equal(IRInt(1), IRString("1")))
}

func TestLiteral(t *testing.T) {
	assert.Equal(t, "NULL", Literal(IRNull{}))
	assert.Equal(t, "'o''brien'", Literal(IRString("o'brien")))
	assert.Equal(t, "-4", Literal(IRInt(-4)))
	assert.Equal(t, "TRUE", Literal(IRBool(true)))
}

func TestIRObjectMarshalJSON(t *testing.T) {
	obj := IRObject{"b": IRInt(2), "a": IRNull{}, "c": IRArray{IRString("x")}}
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"a":null,"b":2,"c":["x"]}`, string(data))
}

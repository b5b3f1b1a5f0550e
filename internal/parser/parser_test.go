package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ndbq/internal/ir"
	"github.com/roach88/ndbq/internal/syntax"
	"github.com/roach88/ndbq/internal/token"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"comparison", "salary >= ?", "salary >= ?"},
		{"and", "a = ? and b = ?", "(a = ? AND b = ?)"},
		{"or", "a = ? OR b = ?", "(a = ? OR b = ?)"},
		{"and binds tighter", "a = 1 OR b = 2 AND c = 3", "(a = 1 OR (b = 2 AND c = 3))"},
		{"left associative and", "a = 1 AND b = 2 AND c = 3", "((a = 1 AND b = 2) AND c = 3)"},
		{"left associative or", "a = 1 OR b = 2 OR c = 3", "((a = 1 OR b = 2) OR c = 3)"},
		{"parens", "(a = 1 OR b = 2) AND c = 3", "((a = 1 OR b = 2) AND c = 3)"},
		{"not", "NOT a = 1", "NOT a = 1"},
		{"double not", "not not a = 1", "NOT NOT a = 1"},
		{"not group", "NOT (a = 1 AND b = 2)", "NOT (a = 1 AND b = 2)"},
		{"between", "age BETWEEN 18 AND ?", "age BETWEEN 18 AND ?"},
		{"between in and", "age BETWEEN 1 AND 2 AND b = 3", "(age BETWEEN 1 AND 2 AND b = 3)"},
		{"not between", "age NOT BETWEEN 1 AND 2", "NOT age BETWEEN 1 AND 2"},
		{"in", "dept IN ('a', :d, ?)", "dept IN ('a', :d, ?)"},
		{"not in", "dept not in (1)", "NOT dept IN (1)"},
		{"like", "name LIKE 'A%'", "name LIKE 'A%'"},
		{"not like", "name NOT LIKE ?", "NOT name LIKE ?"},
		{"is null", "manager IS NULL", "manager IS NULL"},
		{"is not null", "manager is not null", "manager IS NOT NULL"},
		{"neq bang", "a != 1", "a <> 1"},
		{"neq angle", "a <> -1", "a <> -1"},
		{"booleans", "active = TRUE OR active = false", "(active = TRUE OR active = FALSE)"},
		{"null literal", "a = NULL", "a = NULL"},
		{"escaped quote", "name = 'O''Brien'", "name = 'O''Brien'"},
		{"named param", "dept = :dept", "dept = :dept"},
		{"multiline", "a = 1\n  AND b = 2", "(a = 1 AND b = 2)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, syntax.Format(n))
		})
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	inputs := []string{
		"((a = ? AND (b BETWEEN 1 AND ? OR NOT c IN (:x, 'y'))) OR d IS NULL)",
		"NOT (name LIKE '%x' OR flag = TRUE)",
	}
	for _, input := range inputs {
		n, err := Parse(input)
		require.NoError(t, err)
		again, err := Parse(syntax.Format(n))
		require.NoError(t, err)
		assert.Equal(t, syntax.Format(n), syntax.Format(again))
	}
}

func TestParseNodeShapes(t *testing.T) {
	n, err := Parse("a = ? OR b = :name")
	require.NoError(t, err)

	or, ok := n.(*syntax.OrNode)
	require.True(t, ok)
	assert.Equal(t, token.OR, or.Token().Kind)
	assert.Equal(t, token.Pos{Offset: 6, Line: 1, Column: 7}, or.Token().Pos)

	left, ok := or.Left().(*syntax.ComparisonNode)
	require.True(t, ok)
	assert.Equal(t, "a", left.Column().Name())
	assert.Equal(t, syntax.Equal, left.Comparator())

	right, ok := or.Right().(*syntax.ComparisonNode)
	require.True(t, ok)
	param, ok := right.Operand().(*syntax.ParamNode)
	require.True(t, ok)
	assert.Equal(t, "name", param.Name())
}

func TestParseLiterals(t *testing.T) {
	n, err := Parse("a IN (42, -7, 'x', TRUE, NULL)")
	require.NoError(t, err)

	in, ok := n.(*syntax.InNode)
	require.True(t, ok)

	var values []ir.IRValue
	for _, op := range in.Operands() {
		lit, ok := op.(*syntax.LiteralNode)
		require.True(t, ok)
		values = append(values, lit.Value())
	}
	assert.Equal(t, []ir.IRValue{ir.IRInt(42), ir.IRInt(-7), ir.IRString("x"), ir.IRBool(true), ir.IRNull{}}, values)
}

func TestParseNormalizesIdentifiers(t *testing.T) {
	composed, err := Parse("caf\u00e9 = 1")
	require.NoError(t, err)
	decomposed, err := Parse("cafe\u0301 = 1")
	require.NoError(t, err)

	a := composed.(*syntax.ComparisonNode).Column().Name()
	b := decomposed.(*syntax.ComparisonNode).Column().Name()
	assert.Equal(t, a, b)
	assert.Equal(t, "caf\u00e9", b)
}

func TestParseParamOrder(t *testing.T) {
	n, err := Parse("a = ? AND (b = :x OR c BETWEEN ? AND :y)")
	require.NoError(t, err)

	var names []string
	for _, p := range syntax.Params(n) {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{"", "x", "", "y"}, names)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"empty", "   ", "empty filter"},
		{"missing value", "a =", "expected value, found end of filter"},
		{"missing column", "= 1", "expected column or '('"},
		{"dangling and", "a = 1 AND", "expected column or '('"},
		{"unclosed paren", "(a = 1", `expected ")"`},
		{"trailing", "a = 1 b = 2", "expected end of filter, found b"},
		{"no comparator", "a 1", "expected comparison after column a"},
		{"empty in", "a IN ()", "expected value, found )"},
		{"is without null", "a IS 1", `expected "NULL"`},
		{"not without op", "a NOT = 1", "BETWEEN, IN or LIKE after NOT"},
		{"unterminated string", "a = 'abc", "unterminated string"},
		{"bad char", "a = #", "unexpected character '#'"},
		{"bare colon", "a = :", "expected parameter name"},
		{"bang alone", "a ! 1", "unexpected character '!'"},
		{"overflow", "a = 99999999999999999999", "out of range"},
		{"bad number", "a = 12ab", "malformed number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			assert.True(t, IsSyntaxError(err), "got %T: %v", err, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParseUTF8(t *testing.T) {
	t.Run("invalid outside string", func(t *testing.T) {
		_, err := Parse("\xff = 1")
		var se *SyntaxError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "invalid UTF-8 encoding", se.Message)
		assert.Equal(t, 1, se.Pos.Column)
	})

	t.Run("invalid inside string", func(t *testing.T) {
		_, err := Parse("a = 'x\xffy'")
		var se *SyntaxError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "invalid UTF-8 encoding in string", se.Message)
		assert.Equal(t, 7, se.Pos.Column)
	})

	t.Run("encoded replacement char in string", func(t *testing.T) {
		n, err := Parse("a = 'x\uFFFDy'")
		require.NoError(t, err)
		lit := n.(*syntax.ComparisonNode).Operand().(*syntax.LiteralNode)
		assert.Equal(t, ir.IRString("x\uFFFDy"), lit.Value())
	})

	t.Run("encoded replacement char outside string", func(t *testing.T) {
		_, err := Parse("\uFFFDcol = 1")
		require.Error(t, err)
		assert.True(t, IsSyntaxError(err))
		assert.Contains(t, err.Error(), "unexpected character")
		assert.NotContains(t, err.Error(), "UTF-8")
	})
}

func TestSyntaxErrorPosition(t *testing.T) {
	_, err := Parse("a = 1 AND\n  b = #")
	require.Error(t, err)

	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 2, se.Pos.Line)
	assert.Equal(t, 7, se.Pos.Column)
}

func TestTokenize(t *testing.T) {
	toks, err := Tokenize("x<=:p")
	require.NoError(t, err)

	kinds := make([]token.Kind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	assert.Equal(t, []token.Kind{token.IDENT, token.LTE, token.NAMED_PARAM, token.EOF}, kinds)
	assert.Equal(t, "p", toks[2].Text)
}

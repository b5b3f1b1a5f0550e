// Package token defines the lexical tokens of the filter language.
//
// A Token is immutable once produced by the lexer. Syntax nodes keep the
// token they were derived from for error reporting, and clones of a node
// share the same token value.
package token

import "fmt"

// Kind identifies the lexical category of a token.
type Kind int

const (
	EOF Kind = iota
	ILLEGAL

	IDENT       // salary
	INT         // 42
	STRING      // 'active'
	PARAM       // ?
	NAMED_PARAM // :name

	LPAREN // (
	RPAREN // )
	COMMA  // ,

	EQ  // =
	NEQ // <> or !=
	LT  // <
	LTE // <=
	GT  // >
	GTE // >=

	// Keywords
	AND
	OR
	NOT
	BETWEEN
	IN
	LIKE
	IS
	NULL
	TRUE
	FALSE
)

var kindNames = map[Kind]string{
	EOF:         "EOF",
	ILLEGAL:     "ILLEGAL",
	IDENT:       "IDENT",
	INT:         "INT",
	STRING:      "STRING",
	PARAM:       "?",
	NAMED_PARAM: "NAMED_PARAM",
	LPAREN:      "(",
	RPAREN:      ")",
	COMMA:       ",",
	EQ:          "=",
	NEQ:         "<>",
	LT:          "<",
	LTE:         "<=",
	GT:          ">",
	GTE:         ">=",
	AND:         "AND",
	OR:          "OR",
	NOT:         "NOT",
	BETWEEN:     "BETWEEN",
	IN:          "IN",
	LIKE:        "LIKE",
	IS:          "IS",
	NULL:        "NULL",
	TRUE:        "TRUE",
	FALSE:       "FALSE",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// keywords maps upper-cased keyword text to its kind.
var keywords = map[string]Kind{
	"AND":     AND,
	"OR":      OR,
	"NOT":     NOT,
	"BETWEEN": BETWEEN,
	"IN":      IN,
	"LIKE":    LIKE,
	"IS":      IS,
	"NULL":    NULL,
	"TRUE":    TRUE,
	"FALSE":   FALSE,
}

// Lookup returns the keyword kind for upper-cased text, or IDENT.
func Lookup(upper string) Kind {
	if k, ok := keywords[upper]; ok {
		return k
	}
	return IDENT
}

// IsComparison reports whether k is one of the binary comparison operators.
func (k Kind) IsComparison() bool {
	return k >= EQ && k <= GTE
}

// Pos is a position in the filter source. Line and Column are 1-based.
type Pos struct {
	Offset int
	Line   int
	Column int
}

// IsValid reports whether the position was set by the lexer.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a single lexical token.
type Token struct {
	Kind Kind
	Text string
	Pos  Pos
}

// New creates a token without position information. Used when building
// trees programmatically.
func New(kind Kind, text string) Token {
	return Token{Kind: kind, Text: text}
}

func (t Token) String() string {
	if t.Text == "" {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
}

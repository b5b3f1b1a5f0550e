package parser

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/roach88/ndbq/internal/ir"
	"github.com/roach88/ndbq/internal/syntax"
	"github.com/roach88/ndbq/internal/token"
)

// Parse parses filter text into a syntax tree.
//
// Grammar (keywords are case-insensitive):
//
//	expr      := and { OR and }
//	and       := not { AND not }
//	not       := NOT not | primary
//	primary   := '(' expr ')' | column predicate
//	predicate := cmp value
//	           | [NOT] BETWEEN value AND value
//	           | [NOT] IN '(' value { ',' value } ')'
//	           | [NOT] LIKE value
//	           | IS [NOT] NULL
//	value     := '?' | ':' name | INT | STRING | TRUE | FALSE | NULL
//
// AND and OR are left associative and AND binds tighter than OR.
func Parse(src string) (syntax.PredicateNode, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks}
	if p.peek().Kind == token.EOF {
		return nil, &SyntaxError{Pos: p.peek().Pos, Message: "empty filter"}
	}

	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Kind != token.EOF {
		return nil, p.unexpected(tok, "end of filter")
	}

	slog.Debug("filter parsed", "tokens", len(toks)-1, "params", len(syntax.Params(root)))
	return root, nil
}

type parser struct {
	toks []token.Token
	pos  int
}

func (p *parser) peek() token.Token {
	return p.toks[p.pos]
}

func (p *parser) next() token.Token {
	tok := p.toks[p.pos]
	if tok.Kind != token.EOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(kind token.Kind) (token.Token, error) {
	tok := p.next()
	if tok.Kind != kind {
		return tok, p.unexpected(tok, fmt.Sprintf("%q", kind.String()))
	}
	return tok, nil
}

func (p *parser) unexpected(tok token.Token, want string) error {
	got := tok.Text
	if tok.Kind == token.EOF {
		got = "end of filter"
	} else if tok.Kind == token.STRING {
		got = ir.Literal(ir.IRString(tok.Text))
	}
	return &SyntaxError{Pos: tok.Pos, Message: fmt.Sprintf("expected %s, found %s", want, got)}
}

func (p *parser) parseOr() (syntax.PredicateNode, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == token.OR {
		tok := p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		if left, err = syntax.NewOr(tok, left, right); err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *parser) parseAnd() (syntax.PredicateNode, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == token.AND {
		tok := p.next()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		if left, err = syntax.NewAnd(tok, left, right); err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *parser) parseNot() (syntax.PredicateNode, error) {
	if p.peek().Kind != token.NOT {
		return p.parsePrimary()
	}
	tok := p.next()
	operand, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	return syntax.NewNot(tok, operand)
}

func (p *parser) parsePrimary() (syntax.PredicateNode, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.LPAREN:
		p.next()
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	case token.IDENT:
		p.next()
		column, err := syntax.NewColumn(tok)
		if err != nil {
			return nil, err
		}
		return p.parsePredicate(column)
	default:
		return nil, p.unexpected(tok, "column or '('")
	}
}

func (p *parser) parsePredicate(column *syntax.ColumnNode) (syntax.PredicateNode, error) {
	tok := p.peek()

	if cmp, ok := syntax.ComparatorFor(tok.Kind); ok {
		p.next()
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		return syntax.NewComparison(tok, cmp, column, v)
	}

	switch tok.Kind {
	case token.NOT:
		p.next()
		switch p.peek().Kind {
		case token.BETWEEN, token.IN, token.LIKE:
		default:
			return nil, p.unexpected(p.peek(), "BETWEEN, IN or LIKE after NOT")
		}
		leaf, err := p.parsePredicate(column)
		if err != nil {
			return nil, err
		}
		return syntax.NewNot(tok, leaf)
	case token.BETWEEN:
		p.next()
		lower, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.AND); err != nil {
			return nil, err
		}
		upper, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		return syntax.NewBetween(tok, column, lower, upper)
	case token.IN:
		p.next()
		if _, err := p.expect(token.LPAREN); err != nil {
			return nil, err
		}
		var values []syntax.ValueNode
		for {
			v, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			values = append(values, v)
			if p.peek().Kind != token.COMMA {
				break
			}
			p.next()
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return syntax.NewIn(tok, column, values...)
	case token.LIKE:
		p.next()
		pattern, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		return syntax.NewLike(tok, column, pattern)
	case token.IS:
		p.next()
		negated := false
		if p.peek().Kind == token.NOT {
			p.next()
			negated = true
		}
		if _, err := p.expect(token.NULL); err != nil {
			return nil, err
		}
		return syntax.NewIsNull(tok, column, negated)
	default:
		return nil, p.unexpected(tok, fmt.Sprintf("comparison after column %s", column.Name()))
	}
}

func (p *parser) parseValue() (syntax.ValueNode, error) {
	tok := p.next()
	switch tok.Kind {
	case token.PARAM, token.NAMED_PARAM:
		return syntax.NewParam(tok), nil
	case token.INT:
		n, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, &SyntaxError{Pos: tok.Pos, Message: fmt.Sprintf("integer %s out of range", tok.Text)}
		}
		return syntax.NewLiteral(tok, ir.IRInt(n)), nil
	case token.STRING:
		return syntax.NewLiteral(tok, ir.IRString(tok.Text)), nil
	case token.TRUE:
		return syntax.NewLiteral(tok, ir.IRBool(true)), nil
	case token.FALSE:
		return syntax.NewLiteral(tok, ir.IRBool(false)), nil
	case token.NULL:
		return syntax.NewLiteral(tok, ir.IRNull{}), nil
	default:
		return nil, p.unexpected(tok, "value")
	}
}

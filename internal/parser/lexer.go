package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/ndbq/internal/token"
)

// lexer splits filter text into tokens.
type lexer struct {
	src  string
	off  int // byte offset of the next rune
	line int
	col  int
}

// Tokenize returns the tokens of src, ending with an EOF token.
func Tokenize(src string) ([]token.Token, error) {
	lx := &lexer{src: src, line: 1, col: 1}
	var toks []token.Token
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks, nil
		}
	}
}

func (lx *lexer) pos() token.Pos {
	return token.Pos{Offset: lx.off, Line: lx.line, Column: lx.col}
}

func (lx *lexer) peek() rune {
	if lx.off >= len(lx.src) {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(lx.src[lx.off:])
	return r
}

// invalid reports whether the bytes at the current offset are not valid
// UTF-8. An encoded U+FFFD is valid.
func (lx *lexer) invalid() bool {
	if lx.off >= len(lx.src) {
		return false
	}
	r, size := utf8.DecodeRuneInString(lx.src[lx.off:])
	return r == utf8.RuneError && size == 1
}

func (lx *lexer) peekAt(n int) rune {
	off := lx.off
	for i := 0; i < n; i++ {
		if off >= len(lx.src) {
			return -1
		}
		_, size := utf8.DecodeRuneInString(lx.src[off:])
		off += size
	}
	if off >= len(lx.src) {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(lx.src[off:])
	return r
}

func (lx *lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(lx.src[lx.off:])
	lx.off += size
	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return r
}

func (lx *lexer) errorf(pos token.Pos, format string, args ...any) error {
	return &SyntaxError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func (lx *lexer) next() (token.Token, error) {
	for unicode.IsSpace(lx.peek()) {
		lx.advance()
	}

	start := lx.pos()
	r := lx.peek()
	emit := func(kind token.Kind) (token.Token, error) {
		return token.Token{Kind: kind, Text: lx.src[start.Offset:lx.off], Pos: start}, nil
	}

	switch {
	case r == -1:
		return token.Token{Kind: token.EOF, Pos: start}, nil
	case lx.invalid():
		return token.Token{}, lx.errorf(start, "invalid UTF-8 encoding")
	case isIdentStart(r):
		lx.identifier()
		text := norm.NFC.String(lx.src[start.Offset:lx.off])
		return token.Token{Kind: token.Lookup(strings.ToUpper(text)), Text: text, Pos: start}, nil
	case isDigit(r) || (r == '-' && isDigit(lx.peekAt(1))):
		lx.advance()
		for isDigit(lx.peek()) {
			lx.advance()
		}
		if isIdentStart(lx.peek()) {
			return token.Token{}, lx.errorf(start, "malformed number %q", lx.src[start.Offset:lx.off])
		}
		return emit(token.INT)
	case r == '\'':
		return lx.str(start)
	case r == ':':
		lx.advance()
		if !isIdentStart(lx.peek()) {
			return token.Token{}, lx.errorf(start, "expected parameter name after ':'")
		}
		nameStart := lx.off
		lx.identifier()
		name := norm.NFC.String(lx.src[nameStart:lx.off])
		return token.Token{Kind: token.NAMED_PARAM, Text: name, Pos: start}, nil
	}

	lx.advance()
	switch r {
	case '?':
		return emit(token.PARAM)
	case '(':
		return emit(token.LPAREN)
	case ')':
		return emit(token.RPAREN)
	case ',':
		return emit(token.COMMA)
	case '=':
		return emit(token.EQ)
	case '!':
		if lx.peek() == '=' {
			lx.advance()
			return emit(token.NEQ)
		}
	case '<':
		switch lx.peek() {
		case '=':
			lx.advance()
			return emit(token.LTE)
		case '>':
			lx.advance()
			return emit(token.NEQ)
		}
		return emit(token.LT)
	case '>':
		if lx.peek() == '=' {
			lx.advance()
			return emit(token.GTE)
		}
		return emit(token.GT)
	}
	return token.Token{}, lx.errorf(start, "unexpected character %q", r)
}

func (lx *lexer) identifier() {
	for r := lx.peek(); isIdentStart(r) || isDigit(r) || unicode.Is(unicode.Mn, r); r = lx.peek() {
		lx.advance()
	}
}

// str scans a single-quoted string. A doubled quote stands for one quote.
func (lx *lexer) str(start token.Pos) (token.Token, error) {
	lx.advance() // opening quote
	var b strings.Builder
	for {
		r := lx.peek()
		switch r {
		case -1:
			return token.Token{}, lx.errorf(start, "unterminated string")
		case '\'':
			lx.advance()
			if lx.peek() != '\'' {
				return token.Token{Kind: token.STRING, Text: b.String(), Pos: start}, nil
			}
			lx.advance()
			b.WriteRune('\'')
		default:
			if lx.invalid() {
				return token.Token{}, lx.errorf(lx.pos(), "invalid UTF-8 encoding in string")
			}
			b.WriteRune(lx.advance())
		}
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

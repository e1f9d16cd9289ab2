// Package lexer turns a source file into a token stream.
package lexer

import (
	"fmt"

	"cinder/internal/diag"
	"cinder/internal/source"
	"cinder/internal/token"
)

// Options configure a Lexer.
type Options struct {
	Reporter diag.Reporter
}

// Lexer scans one file. It never fails hard: unknown bytes produce Unknown
// tokens plus a diagnostic and scanning continues.
type Lexer struct {
	file     *source.File
	reporter diag.Reporter
	pos      uint32
}

func New(file *source.File, opts Options) *Lexer {
	r := opts.Reporter
	if r == nil {
		r = diag.NopReporter{}
	}
	return &Lexer{file: file, reporter: r}
}

// eof reports true only at the real end of the content. peek returns 0 both
// there and for an in-file NUL byte, so end-of-input checks must use eof.
func (l *Lexer) eof() bool {
	return int(l.pos) >= len(l.file.Content)
}

func (l *Lexer) peek() byte {
	if int(l.pos) >= len(l.file.Content) {
		return 0
	}
	return l.file.Content[l.pos]
}

func (l *Lexer) peekAt(n uint32) byte {
	if int(l.pos+n) >= len(l.file.Content) {
		return 0
	}
	return l.file.Content[l.pos+n]
}

func (l *Lexer) span(start uint32) source.Span {
	return source.Span{File: l.file.ID, Start: start, End: l.pos}
}

func (l *Lexer) text(sp source.Span) string {
	return string(l.file.Content[sp.Start:sp.End])
}

// Next scans and returns the next token. After EOF it keeps returning EOF.
func (l *Lexer) Next() token.Token {
	l.skipTrivia()

	start := l.pos
	if l.eof() {
		return token.Token{Kind: token.EOF, Span: l.span(start)}
	}

	switch c := l.peek(); {
	case isIdentStart(c):
		return l.scanIdent()
	case isDigit(c):
		return l.scanNumber()
	}
	return l.scanOperator()
}

// skipTrivia consumes whitespace and // line comments.
func (l *Lexer) skipTrivia() {
	for {
		switch c := l.peek(); {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.pos++
		case c == '/' && l.peekAt(1) == '/':
			for !l.eof() && l.peek() != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

func (l *Lexer) scanIdent() token.Token {
	start := l.pos
	for isIdentStart(l.peek()) || isDigit(l.peek()) {
		l.pos++
	}
	sp := l.span(start)
	text := l.text(sp)
	if kw, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: kw, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}

func (l *Lexer) scanNumber() token.Token {
	start := l.pos
	kind := token.IntLit
	for isDigit(l.peek()) {
		l.pos++
	}
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		kind = token.FloatLit
		l.pos++
		for isDigit(l.peek()) {
			l.pos++
		}
	}
	// A trailing identifier character means a malformed literal like 12abc.
	if isIdentStart(l.peek()) {
		for isIdentStart(l.peek()) || isDigit(l.peek()) {
			l.pos++
		}
		sp := l.span(start)
		l.reporter.Report(diag.NewError(diag.LexBadNumber, sp,
			fmt.Sprintf("malformed numeric literal %q", l.text(sp))))
		return token.Token{Kind: token.Unknown, Span: sp, Text: l.text(sp)}
	}
	sp := l.span(start)
	return token.Token{Kind: kind, Span: sp, Text: l.text(sp)}
}

func (l *Lexer) scanOperator() token.Token {
	start := l.pos
	c := l.peek()
	l.pos++

	two := func(next byte, ifTwo, ifOne token.Kind) token.Kind {
		if l.peek() == next {
			l.pos++
			return ifTwo
		}
		return ifOne
	}

	var kind token.Kind
	switch c {
	case '+':
		kind = token.Plus
	case '-':
		kind = two('>', token.Arrow, token.Minus)
	case '*':
		kind = token.Star
	case '/':
		kind = token.Slash
	case '%':
		kind = token.Percent
	case '=':
		kind = two('=', token.EqEq, token.Assign)
	case '!':
		kind = two('=', token.BangEq, token.Bang)
	case '<':
		switch l.peek() {
		case '=':
			l.pos++
			kind = token.LtEq
		case '<':
			l.pos++
			kind = token.Shl
		default:
			kind = token.Lt
		}
	case '>':
		switch l.peek() {
		case '=':
			l.pos++
			kind = token.GtEq
		case '>':
			l.pos++
			kind = token.Shr
		default:
			kind = token.Gt
		}
	case '&':
		kind = two('&', token.AndAnd, token.Amp)
	case '|':
		kind = two('|', token.OrOr, token.Pipe)
	case '^':
		kind = token.Caret
	case '~':
		kind = token.Tilde
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	case ',':
		kind = token.Comma
	case ';':
		kind = token.Semicolon
	case ':':
		kind = token.Colon
	case '.':
		kind = token.Dot
	default:
		sp := l.span(start)
		l.reporter.Report(diag.NewError(diag.LexUnknownChar, sp,
			fmt.Sprintf("unknown character %q", c)))
		return token.Token{Kind: token.Unknown, Span: sp, Text: l.text(sp)}
	}
	sp := l.span(start)
	return token.Token{Kind: kind, Span: sp, Text: l.text(sp)}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Package token defines the lexical tokens of the Cinder language.
package token

import "cinder/internal/source"

// Kind enumerates all token kinds.
type Kind uint8

const (
	EOF Kind = iota
	Unknown

	Ident
	IntLit
	FloatLit

	// Keywords
	KwFun
	KwLet
	KwIf
	KwElse
	KwWhile
	KwReturn
	KwStruct
	KwType
	KwAs
	KwTrue
	KwFalse
	KwExtern

	// Operators and punctuation
	Plus
	Minus
	Star
	Slash
	Percent
	Assign
	EqEq
	BangEq
	Lt
	LtEq
	Gt
	GtEq
	Shl
	Shr
	AndAnd
	OrOr
	Bang
	Tilde
	Amp
	Pipe
	Caret
	Arrow
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Semicolon
	Colon
	Dot
)

// Token is a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a numeric or boolean literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

var keywords = map[string]Kind{
	"fun":    KwFun,
	"let":    KwLet,
	"if":     KwIf,
	"else":   KwElse,
	"while":  KwWhile,
	"return": KwReturn,
	"struct": KwStruct,
	"type":   KwType,
	"as":     KwAs,
	"true":   KwTrue,
	"false":  KwFalse,
	"extern": KwExtern,
}

// LookupKeyword maps an identifier to its keyword kind, if it is one.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Ident:
		return "identifier"
	case IntLit:
		return "integer literal"
	case FloatLit:
		return "float literal"
	case KwFun:
		return "fun"
	case KwLet:
		return "let"
	case KwIf:
		return "if"
	case KwElse:
		return "else"
	case KwWhile:
		return "while"
	case KwReturn:
		return "return"
	case KwStruct:
		return "struct"
	case KwType:
		return "type"
	case KwAs:
		return "as"
	case KwTrue:
		return "true"
	case KwFalse:
		return "false"
	case KwExtern:
		return "extern"
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Star:
		return "*"
	case Slash:
		return "/"
	case Percent:
		return "%"
	case Assign:
		return "="
	case EqEq:
		return "=="
	case BangEq:
		return "!="
	case Lt:
		return "<"
	case LtEq:
		return "<="
	case Gt:
		return ">"
	case GtEq:
		return ">="
	case Shl:
		return "<<"
	case Shr:
		return ">>"
	case AndAnd:
		return "&&"
	case OrOr:
		return "||"
	case Bang:
		return "!"
	case Tilde:
		return "~"
	case Amp:
		return "&"
	case Pipe:
		return "|"
	case Caret:
		return "^"
	case Arrow:
		return "->"
	case LParen:
		return "("
	case RParen:
		return ")"
	case LBrace:
		return "{"
	case RBrace:
		return "}"
	case LBracket:
		return "["
	case RBracket:
		return "]"
	case Comma:
		return ","
	case Semicolon:
		return ";"
	case Colon:
		return ":"
	case Dot:
		return "."
	default:
		return "unknown"
	}
}

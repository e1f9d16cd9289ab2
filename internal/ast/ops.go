package ast

// Op enumerates binary and unary operators as they appear in the source.
// The same set is shared by both arities: Star is multiplication in binary
// position and dereference in unary position; Amp is bitwise-and versus
// address-of.
type Op uint8

const (
	OpInvalid Op = iota
	OpAdd
	OpSub
	OpStar
	OpDiv
	OpMod
	OpEq
	OpNEq
	OpGreater
	OpGreaterEq
	OpLess
	OpLessEq
	OpShLeft
	OpShRight
	OpLogicalAnd
	OpLogicalOr
	OpLogicalNot
	OpAmp
	OpPipe
	OpCaret
	OpNot
)

func (op Op) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpStar:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpEq:
		return "=="
	case OpNEq:
		return "!="
	case OpGreater:
		return ">"
	case OpGreaterEq:
		return ">="
	case OpLess:
		return "<"
	case OpLessEq:
		return "<="
	case OpShLeft:
		return "<<"
	case OpShRight:
		return ">>"
	case OpLogicalAnd:
		return "&&"
	case OpLogicalOr:
		return "||"
	case OpLogicalNot:
		return "!"
	case OpAmp:
		return "&"
	case OpPipe:
		return "|"
	case OpCaret:
		return "^"
	case OpNot:
		return "~"
	default:
		return "invalid"
	}
}

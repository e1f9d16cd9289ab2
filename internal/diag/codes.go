package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo        Code = 1000
	LexUnknownChar Code = 1001
	LexBadNumber   Code = 1003

	// Syntax
	SynInfo            Code = 2000
	SynUnexpectedToken Code = 2001
	SynExpectType      Code = 2002
	SynExpectExpr      Code = 2003
	SynExpectIdent     Code = 2004
	SynUnclosedParen   Code = 2005
	SynUnclosedBrace   Code = 2006
	SynExpectSemicolon Code = 2007

	// Semantic / lowering
	SemaInfo              Code = 3000
	SemaTypeMismatch      Code = 3001
	SemaUnknownIdentifier Code = 3002
	SemaUnknownType       Code = 3003
	SemaUnknownFunction   Code = 3004
	SemaUnknownField      Code = 3005
	SemaArityMismatch     Code = 3006
	SemaInvalidCast       Code = 3007
	SemaMissingReturn     Code = 3008
	SemaDuplicateSymbol   Code = 3009
	SemaNotAssignable     Code = 3010

	// IR invariants (compiler-internal, rendered only on crash reports)
	IRInfo               Code = 4000
	IRUnterminatedBlock  Code = 4001
	IRInvalidHandle      Code = 4002

	// Codegen
	CGInfo            Code = 5000
	CGUnsupportedType Code = 5001

	// Driver / IO
	IOInfo          Code = 9000
	IOLoadFileError Code = 9001
)

func (c Code) String() string {
	switch {
	case c >= 9000:
		return fmt.Sprintf("IO%04d", uint16(c))
	case c >= 5000:
		return fmt.Sprintf("CG%04d", uint16(c))
	case c >= 4000:
		return fmt.Sprintf("IR%04d", uint16(c))
	case c >= 3000:
		return fmt.Sprintf("SEMA%04d", uint16(c))
	case c >= 2000:
		return fmt.Sprintf("SYN%04d", uint16(c))
	case c >= 1000:
		return fmt.Sprintf("LEX%04d", uint16(c))
	default:
		return fmt.Sprintf("E%04d", uint16(c))
	}
}

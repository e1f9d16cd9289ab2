package ir

import (
	"cinder/internal/ast"
	"cinder/internal/source"
)

// ExprKind enumerates typed IR expression kinds.
type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprIntLit
	ExprFloatLit
	ExprBoolLit
	ExprVar
	ExprCall
	ExprMember
	ExprCast
	ExprBinary
	ExprUnary
)

// Expr is a typed IR expression. Type is resolved exactly once, during
// lowering, and never re-inferred. Only the payload matching Kind is set.
type Expr struct {
	Span source.Span
	Type TypeID
	Kind ExprKind

	IntValue   int64
	FloatValue float64
	BoolValue  bool
	Var        VarID

	Call   *CallExpr
	Member *MemberExpr
	Cast   *CastExpr
	Binary *BinaryExpr
	Unary  *UnaryExpr
}

// CallExpr invokes a declared function with lowered arguments.
type CallExpr struct {
	Fun  FunID
	Args []Expr
}

// MemberExpr reads one struct field. Field is the position in the struct's
// ordered field list.
type MemberExpr struct {
	Object *Expr
	Field  uint32
}

// CastExpr converts a value to the expression's Type.
type CastExpr struct {
	Value *Expr
}

// BinaryExpr applies a binary operator; operand types were already checked
// against the operator during lowering.
type BinaryExpr struct {
	Lhs *Expr
	Op  ast.Op
	Rhs *Expr
}

// UnaryExpr applies a prefix operator.
type UnaryExpr struct {
	Op      ast.Op
	Operand *Expr
}

// InvalidExpr builds the error-recovery placeholder so callers can keep
// checking the rest of the program after a type error.
func InvalidExpr(span source.Span) Expr {
	return Expr{Span: span, Type: Invalid, Kind: ExprInvalid}
}

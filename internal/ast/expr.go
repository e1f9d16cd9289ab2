package ast

import "cinder/internal/source"

// ExprKind enumerates AST expression kinds.
type ExprKind uint8

const (
	ExprIntLit ExprKind = iota
	ExprFloatLit
	ExprBoolLit
	ExprIdent
	ExprCall
	ExprMember
	ExprCast
	ExprBinary
	ExprUnary
)

// Expr is an untyped AST expression. Only the payload matching Kind is set.
type Expr struct {
	Kind ExprKind
	Span source.Span

	IntValue   int64
	FloatValue float64
	BoolValue  bool
	Ident      string

	Call   *CallExpr
	Member *MemberExpr
	Cast   *CastExpr
	Binary *BinaryExpr
	Unary  *UnaryExpr
}

type CallExpr struct {
	Callee string
	Span   source.Span // callee name span
	Args   []*Expr
}

type MemberExpr struct {
	Object *Expr
	Field  string
	Span   source.Span // field name span
}

type CastExpr struct {
	Value *Expr
	Type  *TypeExpr
}

type BinaryExpr struct {
	Lhs *Expr
	Op  Op
	Rhs *Expr
}

type UnaryExpr struct {
	Op      Op
	Operand *Expr
}

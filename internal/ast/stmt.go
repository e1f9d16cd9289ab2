package ast

import "cinder/internal/source"

// StmtKind enumerates AST statement kinds.
type StmtKind uint8

const (
	StmtLet StmtKind = iota
	StmtAssign
	StmtExpr
	StmtReturn
	StmtIf
	StmtWhile
	StmtBlock
)

// Stmt is a single statement. Only the payload matching Kind is set.
type Stmt struct {
	Kind StmtKind
	Span source.Span

	Let    *LetStmt
	Assign *AssignStmt
	Expr   *Expr
	Return *ReturnStmt
	If     *IfStmt
	While  *WhileStmt
	Block  []*Stmt
}

type LetStmt struct {
	Name     string
	NameSpan source.Span
	Type     *TypeExpr
	Init     *Expr // nil when declared without initializer
}

type AssignStmt struct {
	Target *Expr
	Value  *Expr
}

type ReturnStmt struct {
	Value *Expr // nil for bare return
}

type IfStmt struct {
	Cond *Expr
	Then []*Stmt
	Else []*Stmt // nil when no else branch
}

type WhileStmt struct {
	Cond *Expr
	Body []*Stmt
}

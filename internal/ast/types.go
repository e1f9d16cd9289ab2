package ast

import "cinder/internal/source"

// TypeExprKind enumerates surface type syntax shapes.
type TypeExprKind uint8

const (
	// TypeNamed is a primitive or user-declared name: i32, bool, Point.
	TypeNamed TypeExprKind = iota
	// TypePtr is *T.
	TypePtr
	// TypeArray is [N]T.
	TypeArray
	// TypeUnit is ().
	TypeUnit
)

// TypeExpr is a parsed type annotation, resolved to an IR type during lowering.
type TypeExpr struct {
	Kind TypeExprKind
	Span source.Span

	Name string
	Elem *TypeExpr
	Len  uint32
}

package ast

import "cinder/internal/source"

// ItemKind enumerates top-level declarations.
type ItemKind uint8

const (
	ItemFun ItemKind = iota
	ItemStruct
	ItemAlias
)

// Item is a top-level declaration. Only the payload matching Kind is set.
type Item struct {
	Kind ItemKind
	Span source.Span

	Fun    *FunDecl
	Struct *StructDecl
	Alias  *AliasDecl
}

// Param is a single function parameter.
type Param struct {
	Name string
	Span source.Span
	Type *TypeExpr
}

// FunDecl declares or defines a function. Extern declarations have nil Body.
type FunDecl struct {
	Name     string
	NameSpan source.Span
	Params   []Param
	Ret      *TypeExpr // nil means unit
	Body     []*Stmt
	Flags    FunFlags
}

// StructField is a single named struct field.
type StructField struct {
	Name string
	Span source.Span
	Type *TypeExpr
}

type StructDecl struct {
	Name     string
	NameSpan source.Span
	Fields   []StructField
}

type AliasDecl struct {
	Name     string
	NameSpan source.Span
	Target   *TypeExpr
}

// File is one parsed source file.
type File struct {
	FileID source.FileID
	Items  []*Item
}

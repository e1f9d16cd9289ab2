package ir

import "cinder/internal/source"

// FunID, BBID and VarID are arena handles. DiscriminantID selects a sum-type
// variant by its position in the SumInfo variant list.
type (
	FunID          uint32
	BBID           uint32
	VarID          uint32
	DiscriminantID uint32
)

// FunFlags mark properties of a function declaration.
type FunFlags uint8

const (
	FunExtern FunFlags = 1 << iota
	FunVariadic
)

// Fun is a declared or defined function. Declared functions carry a nil Body;
// defining a function attaches the Body exactly once, after its blocks have
// all been lowered. The signature type is fixed at declaration.
type Fun struct {
	Name  source.StringID
	Type  TypeID // KindFn
	File  source.FileID
	Span  source.Span
	Flags FunFlags
	Body  *Body
}

// Defined reports whether the function has a lowered body.
func (f *Fun) Defined() bool {
	return f.Body != nil
}

// Body is the control-flow graph of one defined function. Blocks lists every
// block of the function in creation order; Entry is always Blocks[0].
type Body struct {
	Entry  BBID
	Parent FunID
	Blocks []BBID
	Params []VarID
	Locals []VarID
}

// Var is one storage slot. Shadowing a source name creates a new Var; an
// existing Var is never rewritten. Anonymous slots (expression statements)
// carry NoStringID.
type Var struct {
	Name source.StringID
	Type TypeID
	Span source.Span
}

package ir

import "cinder/internal/source"

// Context is the single mutable root of one compilation unit's IR. It owns
// the type interner, the symbol interner, and the function, block and
// variable arenas. Handles issued by one Context are meaningless in any
// other.
type Context struct {
	Types   *Interner
	Symbols *source.Interner

	funs   Arena[FunID, Fun]
	blocks Arena[BBID, Block]
	vars   Arena[VarID, Var]
}

// NewContext builds an empty context with the primitive types pre-registered.
func NewContext() *Context {
	return &Context{Types: NewInterner(), Symbols: source.NewInterner()}
}

// NewFun appends a function and returns its handle.
func (c *Context) NewFun(f Fun) FunID {
	return c.funs.Insert(f)
}

// Fun returns a mutable reference to the function at id.
func (c *Context) Fun(id FunID) *Fun {
	return c.funs.Get(id)
}

// NumFuns returns how many functions the context holds.
func (c *Context) NumFuns() int {
	return c.funs.Len()
}

// NewBlock appends an empty, unterminated block and returns its handle.
func (c *Context) NewBlock() BBID {
	return c.blocks.Insert(Block{})
}

// Block returns a mutable reference to the block at id.
func (c *Context) Block(id BBID) *Block {
	return c.blocks.Get(id)
}

// NewVar appends a variable and returns its handle.
func (c *Context) NewVar(v Var) VarID {
	return c.vars.Insert(v)
}

// Var returns a reference to the variable at id.
func (c *Context) Var(id VarID) *Var {
	return c.vars.Get(id)
}

// HasBlock reports whether id was issued by this context.
func (c *Context) HasBlock(id BBID) bool {
	return c.blocks.Contains(id)
}

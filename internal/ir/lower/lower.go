// Package lower converts the typed AST into IR: declarations become interned
// types and arena functions, statements become basic blocks with explicit
// terminators, and expressions are type-checked bottom-up as they are built.
package lower

import (
	"cinder/internal/ast"
	"cinder/internal/diag"
	"cinder/internal/ir"
	"cinder/internal/source"
)

// Lowerer drives lowering for one compilation unit. It holds the only
// mutable reference to the ir.Context for the duration of the pass.
type Lowerer struct {
	ctx      *ir.Context
	reporter diag.Reporter

	funs    map[string]ir.FunID
	types   map[string]ir.TypeID
	skipped map[*ast.FunDecl]bool

	// Per-function state.
	fileID     source.FileID
	fun        ir.FunID
	body       *ir.Body
	bb         ir.BBID
	retTy      ir.TypeID
	scopes     []map[string]ir.VarID
	hadTypeErr bool
}

// New builds a lowerer over ctx. Diagnostics go to r; lowering substitutes
// Invalid-typed expressions after reporting so one pass can surface every
// error in the program.
func New(ctx *ir.Context, r diag.Reporter) *Lowerer {
	if r == nil {
		r = diag.NopReporter{}
	}
	lo := &Lowerer{
		ctx:      ctx,
		reporter: r,
		funs:     make(map[string]ir.FunID),
		types:    make(map[string]ir.TypeID, 16),
		skipped:  make(map[*ast.FunDecl]bool),
	}
	for name, id := range map[string]ir.TypeID{
		"i8": ir.I8, "i16": ir.I16, "i32": ir.I32, "i64": ir.I64,
		"u8": ir.U8, "u16": ir.U16, "u32": ir.U32, "u64": ir.U64,
		"bool": ir.Bool, "f32": ir.F32, "f64": ir.F64,
	} {
		lo.types[name] = id
	}
	return lo
}

// LowerFiles lowers a whole program: all declarations first, so bodies may
// call functions declared later, then every function body.
func (lo *Lowerer) LowerFiles(files []*ast.File) {
	for _, f := range files {
		lo.fileID = f.FileID
		for _, item := range f.Items {
			lo.declareItem(item)
		}
	}
	for _, f := range files {
		lo.fileID = f.FileID
		for _, item := range f.Items {
			if item.Kind == ast.ItemFun && item.Fun.Flags&ast.FunFlagExtern == 0 {
				lo.defineFun(item.Fun)
			}
		}
	}
}

// report forwards a diagnostic produced mid-statement.
func (lo *Lowerer) report(d *diag.Diagnostic) {
	lo.hadTypeErr = true
	lo.reporter.Report(d)
}

// HadErrors reports whether any diagnostic was produced during lowering.
func (lo *Lowerer) HadErrors() bool {
	return lo.hadTypeErr
}

// Scope handling. Shadowing binds the name to a fresh ir.Var in the current
// scope; the shadowed slot stays alive in the arena.

func (lo *Lowerer) pushScope() {
	lo.scopes = append(lo.scopes, make(map[string]ir.VarID))
}

func (lo *Lowerer) popScope() {
	lo.scopes = lo.scopes[:len(lo.scopes)-1]
}

func (lo *Lowerer) bind(name string, v ir.VarID) {
	lo.scopes[len(lo.scopes)-1][name] = v
}

func (lo *Lowerer) lookupVar(name string) (ir.VarID, bool) {
	for i := len(lo.scopes) - 1; i >= 0; i-- {
		if v, ok := lo.scopes[i][name]; ok {
			return v, true
		}
	}
	return 0, false
}

// newBlock creates a block and records it in the current function's body.
func (lo *Lowerer) newBlock() ir.BBID {
	bb := lo.ctx.NewBlock()
	lo.body.Blocks = append(lo.body.Blocks, bb)
	return bb
}

// terminate ends the current block. Terminating twice is a lowering bug.
func (lo *Lowerer) terminate(t ir.Terminator) {
	block := lo.ctx.Block(lo.bb)
	if block.Terminated() {
		panic("lower: block terminated twice")
	}
	block.Term = t
}

func (lo *Lowerer) terminated() bool {
	return lo.ctx.Block(lo.bb).Terminated()
}

// resolveType maps a syntactic type to an interned TypeID, producing
// Invalid (plus a diagnostic) for unknown names.
func (lo *Lowerer) resolveType(te *ast.TypeExpr) ir.TypeID {
	switch te.Kind {
	case ast.TypePtr:
		return lo.ctx.Types.Ptr(lo.resolveType(te.Elem))
	case ast.TypeArray:
		return lo.ctx.Types.Array(lo.resolveType(te.Elem), te.Len)
	case ast.TypeUnit:
		return ir.Unit
	case ast.TypeNamed:
		if id, ok := lo.types[te.Name]; ok {
			return id
		}
		lo.report(diag.NewError(diag.SemaUnknownType, te.Span,
			"unknown type "+te.Name))
		return ir.Invalid
	default:
		return ir.Invalid
	}
}

func (lo *Lowerer) typename(id ir.TypeID) string {
	return ir.Typename(lo.ctx.Types, id)
}

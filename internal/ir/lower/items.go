package lower

import (
	"fmt"

	"cinder/internal/ast"
	"cinder/internal/diag"
	"cinder/internal/ir"
)

func (lo *Lowerer) declareItem(item *ast.Item) {
	switch item.Kind {
	case ast.ItemStruct:
		lo.declareStruct(item.Struct)
	case ast.ItemAlias:
		lo.declareAlias(item.Alias)
	case ast.ItemFun:
		lo.declareFun(item.Fun)
	}
}

func (lo *Lowerer) declareStruct(decl *ast.StructDecl) {
	if _, taken := lo.types[decl.Name]; taken {
		lo.report(diag.NewError(diag.SemaDuplicateSymbol, decl.NameSpan,
			fmt.Sprintf("type %s is already declared", decl.Name)))
		return
	}
	info := ir.StructInfo{Name: decl.Name}
	for _, f := range decl.Fields {
		info.Fields = append(info.Fields, ir.StructField{
			Type: lo.resolveType(f.Type),
			Name: f.Name,
		})
	}
	lo.types[decl.Name] = lo.ctx.Types.InternStruct(info)
}

func (lo *Lowerer) declareAlias(decl *ast.AliasDecl) {
	if _, taken := lo.types[decl.Name]; taken {
		lo.report(diag.NewError(diag.SemaDuplicateSymbol, decl.NameSpan,
			fmt.Sprintf("type %s is already declared", decl.Name)))
		return
	}
	lo.types[decl.Name] = lo.ctx.Types.InternAlias(ir.AliasInfo{
		Name:       decl.Name,
		Underlying: lo.resolveType(decl.Target),
	})
}

func (lo *Lowerer) declareFun(decl *ast.FunDecl) {
	if _, taken := lo.funs[decl.Name]; taken {
		lo.report(diag.NewError(diag.SemaDuplicateSymbol, decl.NameSpan,
			fmt.Sprintf("function %s is already declared", decl.Name)))
		lo.skipped[decl] = true
		return
	}

	sig := ir.FnInfo{Ret: ir.Unit, Variadic: decl.Flags&ast.FunFlagVariadic != 0}
	for _, p := range decl.Params {
		sig.Params = append(sig.Params, ir.FnParam{Type: lo.resolveType(p.Type), Name: p.Name})
	}
	if decl.Ret != nil {
		sig.Ret = lo.resolveType(decl.Ret)
	}

	var flags ir.FunFlags
	if decl.Flags&ast.FunFlagExtern != 0 {
		flags |= ir.FunExtern
	}
	if decl.Flags&ast.FunFlagVariadic != 0 {
		flags |= ir.FunVariadic
	}

	lo.funs[decl.Name] = lo.ctx.NewFun(ir.Fun{
		Name:  lo.ctx.Symbols.Intern(decl.Name),
		Type:  lo.ctx.Types.InternFn(sig),
		File:  lo.fileID,
		Span:  decl.NameSpan,
		Flags: flags,
	})
}

// defineFun lowers one function body. The Body is attached to the function
// only after every block is built and terminated.
func (lo *Lowerer) defineFun(decl *ast.FunDecl) {
	if lo.skipped[decl] {
		return
	}
	fid, ok := lo.funs[decl.Name]
	if !ok {
		return // declaration failed, already reported
	}
	fun := lo.ctx.Fun(fid)
	sig := lo.ctx.Types.Fn(fun.Type)

	lo.fun = fid
	lo.retTy = sig.Ret
	lo.body = &ir.Body{Parent: fid}
	lo.scopes = nil
	lo.pushScope()

	entry := lo.ctx.NewBlock()
	lo.body.Entry = entry
	lo.body.Blocks = append(lo.body.Blocks, entry)
	lo.bb = entry

	for i, p := range decl.Params {
		v := lo.ctx.NewVar(ir.Var{Name: lo.ctx.Symbols.Intern(p.Name), Type: sig.Params[i].Type, Span: p.Span})
		lo.body.Params = append(lo.body.Params, v)
		lo.bind(p.Name, v)
	}

	lo.lowerStmts(decl.Body)

	if !lo.terminated() {
		if lo.retTy != ir.Unit {
			lo.report(diag.NewError(diag.SemaMissingReturn, decl.NameSpan,
				fmt.Sprintf("%s returns %s but control can reach the end of the body",
					decl.Name, lo.typename(lo.retTy))))
		}
		lo.terminate(ir.MakeReturnUnit())
	}

	lo.popScope()
	lo.ctx.Fun(fid).Body = lo.body
	lo.body = nil
}

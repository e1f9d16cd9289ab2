package lower

import (
	"fmt"

	"cinder/internal/ast"
	"cinder/internal/diag"
	"cinder/internal/ir"
	"cinder/internal/source"
)

// lowerStmts lowers a statement list into the current block. Statements
// following a terminator are unreachable and silently dropped.
func (lo *Lowerer) lowerStmts(stmts []*ast.Stmt) {
	for _, s := range stmts {
		if lo.terminated() {
			return
		}
		lo.lowerStmt(s)
	}
}

func (lo *Lowerer) lowerStmt(s *ast.Stmt) {
	switch s.Kind {
	case ast.StmtLet:
		lo.lowerLet(s)
	case ast.StmtAssign:
		lo.lowerAssign(s)
	case ast.StmtExpr:
		if e, d := lo.LowerExpr(s.Expr); d != nil {
			lo.report(d)
		} else if e.Kind == ir.ExprCall {
			// Only calls are kept as statements; other expression
			// statements have no effect.
			v := lo.ctx.NewVar(ir.Var{Name: source.NoStringID, Type: e.Type, Span: e.Span})
			lo.body.Locals = append(lo.body.Locals, v)
			lo.ctx.Block(lo.bb).Push(ir.MakeVarLive(v))
			lo.ctx.Block(lo.bb).Push(ir.MakeStore(v, e))
		}
	case ast.StmtReturn:
		lo.lowerReturn(s)
	case ast.StmtIf:
		lo.lowerIf(s.If)
	case ast.StmtWhile:
		lo.lowerWhile(s.While)
	case ast.StmtBlock:
		lo.pushScope()
		lo.lowerStmts(s.Block)
		lo.popScope()
	}
}

func (lo *Lowerer) lowerLet(s *ast.Stmt) {
	let := s.Let

	var declared ir.TypeID
	if let.Type != nil {
		declared = lo.resolveType(let.Type)
	}

	var init ir.Expr
	hasInit := let.Init != nil
	if hasInit {
		e, d := lo.LowerExpr(let.Init)
		if d != nil {
			lo.report(d)
			e = ir.InvalidExpr(let.Init.Span)
		}
		if let.Type != nil {
			e = lo.coerceLiteral(e, declared)
			if e.Type != declared && e.Type != ir.Invalid && declared != ir.Invalid {
				lo.report(diag.NewError(diag.SemaTypeMismatch, e.Span,
					fmt.Sprintf("cannot initialize %s of type %s with a value of type %s",
						let.Name, lo.typename(declared), lo.typename(e.Type))).
					WithNote(let.NameSpan, fmt.Sprintf("%s declared here", let.Name)))
				e = ir.InvalidExpr(e.Span)
			}
		}
		init = e
	}

	ty := declared
	if let.Type == nil {
		ty = init.Type
	}

	v := lo.ctx.NewVar(ir.Var{Name: lo.ctx.Symbols.Intern(let.Name), Type: ty, Span: let.NameSpan})
	lo.body.Locals = append(lo.body.Locals, v)
	lo.bind(let.Name, v)

	lo.ctx.Block(lo.bb).Push(ir.MakeVarLive(v))
	if hasInit {
		lo.ctx.Block(lo.bb).Push(ir.MakeStore(v, init))
	}
}

func (lo *Lowerer) lowerAssign(s *ast.Stmt) {
	target := s.Assign.Target
	if target.Kind != ast.ExprIdent {
		lo.report(diag.NewError(diag.SemaNotAssignable, target.Span,
			"expression is not assignable"))
		return
	}
	v, ok := lo.lookupVar(target.Ident)
	if !ok {
		lo.report(diag.NewError(diag.SemaUnknownIdentifier, target.Span,
			fmt.Sprintf("unknown identifier %s", target.Ident)))
		return
	}

	val, d := lo.LowerExpr(s.Assign.Value)
	if d != nil {
		lo.report(d)
		return
	}
	want := lo.ctx.Var(v).Type
	val = lo.coerceLiteral(val, want)
	if val.Type != want && val.Type != ir.Invalid {
		lo.report(diag.NewError(diag.SemaTypeMismatch, val.Span,
			fmt.Sprintf("cannot assign a value of type %s to %s of type %s",
				lo.typename(val.Type), target.Ident, lo.typename(want))).
			WithNote(lo.ctx.Var(v).Span, fmt.Sprintf("%s declared here", target.Ident)))
		return
	}
	lo.ctx.Block(lo.bb).Push(ir.MakeStore(v, val))
}

func (lo *Lowerer) lowerReturn(s *ast.Stmt) {
	if s.Return.Value == nil {
		if lo.retTy != ir.Unit {
			lo.report(diag.NewError(diag.SemaTypeMismatch, s.Span,
				fmt.Sprintf("bare return in a function returning %s", lo.typename(lo.retTy))))
		}
		lo.terminate(ir.MakeReturnUnit())
		return
	}

	val, d := lo.LowerExpr(s.Return.Value)
	if d != nil {
		lo.report(d)
		val = ir.InvalidExpr(s.Return.Value.Span)
	}
	val = lo.coerceLiteral(val, lo.retTy)
	if val.Type != lo.retTy && val.Type != ir.Invalid {
		lo.report(diag.NewError(diag.SemaTypeMismatch, val.Span,
			fmt.Sprintf("returning %s from a function returning %s",
				lo.typename(val.Type), lo.typename(lo.retTy))))
	}
	lo.terminate(ir.MakeReturn(val))
}

// lowerCond lowers a branch condition. Comparisons carry their LHS operand
// type in the IR but still produce a one-bit value in the backend, so they
// are accepted alongside Bool-typed expressions.
func (lo *Lowerer) lowerCond(e *ast.Expr) ir.Expr {
	cond, d := lo.LowerExpr(e)
	if d != nil {
		lo.report(d)
		return ir.InvalidExpr(e.Span)
	}
	if _, t := lo.ctx.Types.Resolve(cond.Type); t.Kind != ir.KindBool {
		if !(cond.Kind == ir.ExprBinary && isComparison(cond.Binary.Op)) && t.Kind != ir.KindInvalid {
			lo.report(diag.NewError(diag.SemaTypeMismatch, cond.Span,
				fmt.Sprintf("condition has type %s, expected bool", lo.typename(cond.Type))))
		}
	}
	return cond
}

func (lo *Lowerer) lowerIf(s *ast.IfStmt) {
	cond := lo.lowerCond(s.Cond)

	thenBB := lo.newBlock()
	elseBB := lo.newBlock()
	lo.terminate(ir.MakeJmpIf(cond, thenBB, elseBB))

	lo.bb = thenBB
	lo.pushScope()
	lo.lowerStmts(s.Then)
	lo.popScope()
	thenEnd, thenOpen := lo.bb, !lo.terminated()

	lo.bb = elseBB
	lo.pushScope()
	lo.lowerStmts(s.Else)
	lo.popScope()
	elseEnd, elseOpen := lo.bb, !lo.terminated()

	if !thenOpen && !elseOpen {
		// Both branches left the function; control never rejoins.
		return
	}
	join := lo.newBlock()
	if thenOpen {
		lo.ctx.Block(thenEnd).Term = ir.MakeJmp(join)
	}
	if elseOpen {
		lo.ctx.Block(elseEnd).Term = ir.MakeJmp(join)
	}
	lo.bb = join
}

func (lo *Lowerer) lowerWhile(s *ast.WhileStmt) {
	head := lo.newBlock()
	lo.terminate(ir.MakeJmp(head))

	lo.bb = head
	cond := lo.lowerCond(s.Cond)
	body := lo.newBlock()
	exit := lo.newBlock()
	lo.terminate(ir.MakeJmpIf(cond, body, exit))

	lo.bb = body
	lo.pushScope()
	lo.lowerStmts(s.Body)
	lo.popScope()
	if !lo.terminated() {
		lo.terminate(ir.MakeJmp(head))
	}

	lo.bb = exit
}

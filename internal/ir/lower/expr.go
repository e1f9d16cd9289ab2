package lower

import (
	"fmt"

	"cinder/internal/ast"
	"cinder/internal/diag"
	"cinder/internal/ir"
)

// LowerExpr converts one AST expression into a typed IR expression. Errors
// come back as the diagnostic; the returned expression is then the Invalid
// placeholder so callers can substitute and continue.
func (lo *Lowerer) LowerExpr(e *ast.Expr) (ir.Expr, *diag.Diagnostic) {
	switch e.Kind {
	case ast.ExprIntLit:
		return ir.Expr{Span: e.Span, Type: ir.I32, Kind: ir.ExprIntLit, IntValue: e.IntValue}, nil
	case ast.ExprFloatLit:
		return ir.Expr{Span: e.Span, Type: ir.F64, Kind: ir.ExprFloatLit, FloatValue: e.FloatValue}, nil
	case ast.ExprBoolLit:
		return ir.Expr{Span: e.Span, Type: ir.Bool, Kind: ir.ExprBoolLit, BoolValue: e.BoolValue}, nil
	case ast.ExprIdent:
		return lo.lowerIdent(e)
	case ast.ExprCall:
		return lo.lowerCall(e)
	case ast.ExprMember:
		return lo.lowerMember(e)
	case ast.ExprCast:
		return lo.lowerCast(e)
	case ast.ExprBinary:
		return lo.LowerBin(e.Binary.Lhs, e.Binary.Op, e.Binary.Rhs)
	case ast.ExprUnary:
		return lo.LowerUnary(e.Unary.Op, e.Unary.Operand)
	default:
		return ir.InvalidExpr(e.Span), diag.NewError(diag.SemaTypeMismatch, e.Span,
			"expression cannot be lowered")
	}
}

func (lo *Lowerer) lowerIdent(e *ast.Expr) (ir.Expr, *diag.Diagnostic) {
	v, ok := lo.lookupVar(e.Ident)
	if !ok {
		return ir.InvalidExpr(e.Span), diag.NewError(diag.SemaUnknownIdentifier, e.Span,
			fmt.Sprintf("unknown identifier %s", e.Ident))
	}
	return ir.Expr{Span: e.Span, Type: lo.ctx.Var(v).Type, Kind: ir.ExprVar, Var: v}, nil
}

func (lo *Lowerer) lowerCall(e *ast.Expr) (ir.Expr, *diag.Diagnostic) {
	call := e.Call
	fid, ok := lo.funs[call.Callee]
	if !ok {
		return ir.InvalidExpr(e.Span), diag.NewError(diag.SemaUnknownFunction, call.Span,
			fmt.Sprintf("unknown function %s", call.Callee))
	}
	fun := lo.ctx.Fun(fid)
	sig := lo.ctx.Types.Fn(fun.Type)

	if len(call.Args) != len(sig.Params) && !(sig.Variadic && len(call.Args) > len(sig.Params)) {
		return ir.InvalidExpr(e.Span), diag.NewError(diag.SemaArityMismatch, e.Span,
			fmt.Sprintf("%s takes %d argument(s), %d given",
				call.Callee, len(sig.Params), len(call.Args))).
			WithNote(fun.Span, fmt.Sprintf("%s declared here", call.Callee))
	}

	args := make([]ir.Expr, 0, len(call.Args))
	for i, argExpr := range call.Args {
		arg, d := lo.LowerExpr(argExpr)
		if d != nil {
			return arg, d
		}
		if i < len(sig.Params) {
			arg = lo.coerceLiteral(arg, sig.Params[i].Type)
			if arg.Type != sig.Params[i].Type && arg.Type != ir.Invalid {
				return ir.InvalidExpr(arg.Span), diag.NewError(diag.SemaTypeMismatch, arg.Span,
					fmt.Sprintf("argument %d of %s expects %s, got %s",
						i+1, call.Callee, lo.typename(sig.Params[i].Type), lo.typename(arg.Type)))
			}
		}
		args = append(args, arg)
	}

	return ir.Expr{
		Span: e.Span,
		Type: sig.Ret,
		Kind: ir.ExprCall,
		Call: &ir.CallExpr{Fun: fid, Args: args},
	}, nil
}

func (lo *Lowerer) lowerMember(e *ast.Expr) (ir.Expr, *diag.Diagnostic) {
	obj, d := lo.LowerExpr(e.Member.Object)
	if d != nil {
		return obj, d
	}

	// Member access sees through one pointer and through aliases.
	id, t := lo.ctx.Types.Resolve(obj.Type)
	if t.Kind == ir.KindPtr {
		id, t = lo.ctx.Types.Resolve(t.Elem)
	}
	if t.Kind != ir.KindStruct {
		return ir.InvalidExpr(e.Span), diag.NewError(diag.SemaUnknownField, e.Member.Span,
			fmt.Sprintf("type %s has no fields", lo.typename(obj.Type)))
	}
	info := lo.ctx.Types.Struct(id)
	idx := info.FieldIndex(e.Member.Field)
	if idx < 0 {
		return ir.InvalidExpr(e.Span), diag.NewError(diag.SemaUnknownField, e.Member.Span,
			fmt.Sprintf("type %s has no field %s", lo.typename(obj.Type), e.Member.Field))
	}

	return ir.Expr{
		Span:   e.Span,
		Type:   info.Fields[idx].Type,
		Kind:   ir.ExprMember,
		Member: &ir.MemberExpr{Object: &obj, Field: uint32(idx)},
	}, nil
}

func (lo *Lowerer) lowerCast(e *ast.Expr) (ir.Expr, *diag.Diagnostic) {
	val, d := lo.LowerExpr(e.Cast.Value)
	if d != nil {
		return val, d
	}
	target := lo.resolveType(e.Cast.Type)
	if target == ir.Invalid {
		return ir.InvalidExpr(e.Span), nil
	}

	if !lo.castable(val.Type, target) {
		return ir.InvalidExpr(e.Span), diag.NewError(diag.SemaInvalidCast, e.Span,
			fmt.Sprintf("cannot cast %s to %s", lo.typename(val.Type), lo.typename(target))).
			WithNote(val.Span, fmt.Sprintf("value of type %s appears here", lo.typename(val.Type)))
	}

	return ir.Expr{
		Span: e.Span,
		Type: target,
		Kind: ir.ExprCast,
		Cast: &ir.CastExpr{Value: &val},
	}, nil
}

// castable permits numeric-to-numeric, pointer-to-pointer and
// pointer-integer conversions in both directions.
func (lo *Lowerer) castable(from, to ir.TypeID) bool {
	if from == to {
		return true
	}
	_, f := lo.ctx.Types.Resolve(from)
	_, t := lo.ctx.Types.Resolve(to)
	switch {
	case f.IsNumeric() && t.IsNumeric():
		return true
	case f.Kind == ir.KindPtr && t.Kind == ir.KindPtr:
		return true
	case f.Kind == ir.KindPtr && t.IsInteger():
		return true
	case f.IsInteger() && t.Kind == ir.KindPtr:
		return true
	case f.Kind == ir.KindBool && t.IsInteger():
		return true
	default:
		return false
	}
}

// coerceLiteral retypes a bare numeric literal to the expected numeric type,
// so `let n: i64 = 1;` works without an explicit cast. Anything that is not
// a direct literal keeps its type.
func (lo *Lowerer) coerceLiteral(e ir.Expr, want ir.TypeID) ir.Expr {
	if e.Type == want {
		return e
	}
	_, t := lo.ctx.Types.Resolve(want)
	switch {
	case e.Kind == ir.ExprIntLit && t.IsInteger():
		e.Type = want
	case e.Kind == ir.ExprFloatLit && t.Kind == ir.KindFloat:
		e.Type = want
	}
	return e
}

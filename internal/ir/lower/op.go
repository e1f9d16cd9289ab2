package lower

import (
	"fmt"

	"cinder/internal/ast"
	"cinder/internal/diag"
	"cinder/internal/ir"
)

// LowerBin lowers both operands bottom-up and classifies (lhs.ty, op, rhs.ty)
// against the operator compatibility table. No implicit widening happens: the
// result type is always the LHS operand's type.
func (lo *Lowerer) LowerBin(lhs *ast.Expr, op ast.Op, rhs *ast.Expr) (ir.Expr, *diag.Diagnostic) {
	l, d := lo.LowerExpr(lhs)
	if d != nil {
		return l, d
	}
	r, d := lo.LowerExpr(rhs)
	if d != nil {
		return r, d
	}

	lt := lo.ctx.Types.MustLookup(l.Type)
	rt := lo.ctx.Types.MustLookup(r.Type)
	span := l.Span.Cover(r.Span)

	var ty ir.TypeID
	switch {
	case lt.Kind == ir.KindBool && rt.Kind == ir.KindBool && isBoolBinOp(op):
		ty = ir.Bool
	case lt.IsInteger() && rt.IsInteger() && isIntBinOp(op):
		ty = l.Type
	case lt.Kind == ir.KindFloat && rt.Kind == ir.KindFloat && isFloatBinOp(op):
		ty = l.Type
	case lt.Kind == ir.KindPtr && rt.IsInteger() && (op == ast.OpShLeft || op == ast.OpShRight):
		ty = l.Type
	case lt.Kind == ir.KindPtr && (rt.Kind == ir.KindPtr || rt.IsInteger()) && (op == ast.OpAdd || op == ast.OpSub):
		ty = l.Type
	default:
		return ir.InvalidExpr(span), diag.NewError(diag.SemaTypeMismatch, span,
			fmt.Sprintf("Cannot apply binary operator %s to operand types %s and %s",
				op, lo.typename(l.Type), lo.typename(r.Type))).
			WithNote(l.Span, fmt.Sprintf("LHS of type %s appears here", lo.typename(l.Type))).
			WithNote(r.Span, fmt.Sprintf("RHS of type %s appears here", lo.typename(r.Type)))
	}

	return ir.Expr{
		Span:   span,
		Type:   ty,
		Kind:   ir.ExprBinary,
		Binary: &ir.BinaryExpr{Lhs: &l, Op: op, Rhs: &r},
	}, nil
}

// LowerUnary lowers the operand and applies the unary typing rules. Taking an
// address is the one case that interns a new type. The result span is the
// operand's span.
// TODO: the result span leaves out the operator token, unlike the binary
// case which covers both operands; widening it changes every caret in
// existing unary diagnostics, so it stays as is for now.
func (lo *Lowerer) LowerUnary(op ast.Op, operand *ast.Expr) (ir.Expr, *diag.Diagnostic) {
	o, d := lo.LowerExpr(operand)
	if d != nil {
		return o, d
	}

	t := lo.ctx.Types.MustLookup(o.Type)
	var ty ir.TypeID
	switch {
	case op == ast.OpStar && t.Kind == ir.KindPtr:
		ty = t.Elem
	case op == ast.OpAmp:
		ty = lo.ctx.Types.Ptr(o.Type)
	case op == ast.OpSub && (t.IsInteger() || t.Kind == ir.KindFloat):
		ty = o.Type
	case op == ast.OpNot && (t.IsInteger() || t.Kind == ir.KindPtr):
		ty = o.Type
	case op == ast.OpLogicalNot && t.Kind == ir.KindBool:
		ty = ir.Bool
	default:
		return ir.InvalidExpr(o.Span), diag.NewError(diag.SemaTypeMismatch, o.Span,
			fmt.Sprintf("Cannot apply unary operator %s to expression of type %s",
				op, lo.typename(o.Type)))
	}

	return ir.Expr{
		Span:  o.Span,
		Type:  ty,
		Kind:  ir.ExprUnary,
		Unary: &ir.UnaryExpr{Op: op, Operand: &o},
	}, nil
}

// Bool operands accept the logical connectives plus equality. Inequality is
// not in the table for any operand class.
func isBoolBinOp(op ast.Op) bool {
	switch op {
	case ast.OpLogicalAnd, ast.OpLogicalOr, ast.OpLogicalNot, ast.OpEq:
		return true
	default:
		return false
	}
}

func isIntBinOp(op ast.Op) bool {
	switch op {
	case ast.OpEq, ast.OpGreater, ast.OpGreaterEq, ast.OpLess, ast.OpLessEq,
		ast.OpStar, ast.OpDiv, ast.OpAdd, ast.OpSub, ast.OpShLeft, ast.OpShRight:
		return true
	default:
		return false
	}
}

// Floats take everything integers do except shifts.
func isFloatBinOp(op ast.Op) bool {
	switch op {
	case ast.OpEq, ast.OpGreater, ast.OpGreaterEq, ast.OpLess, ast.OpLessEq,
		ast.OpStar, ast.OpDiv, ast.OpAdd, ast.OpSub:
		return true
	default:
		return false
	}
}

// isComparison reports whether op yields a one-bit result in the backend,
// making the expression usable as a branch condition.
func isComparison(op ast.Op) bool {
	switch op {
	case ast.OpEq, ast.OpGreater, ast.OpGreaterEq, ast.OpLess, ast.OpLessEq:
		return true
	default:
		return false
	}
}

package parser

import (
	"fmt"
	"strconv"

	"cinder/internal/ast"
	"cinder/internal/diag"
	"cinder/internal/token"
)

// binOpFor maps a token in binary position to its operator and precedence.
// Higher precedence binds tighter.
func binOpFor(kind token.Kind) (ast.Op, int) {
	switch kind {
	case token.Star:
		return ast.OpStar, 10
	case token.Slash:
		return ast.OpDiv, 10
	case token.Percent:
		return ast.OpMod, 10
	case token.Plus:
		return ast.OpAdd, 9
	case token.Minus:
		return ast.OpSub, 9
	case token.Shl:
		return ast.OpShLeft, 8
	case token.Shr:
		return ast.OpShRight, 8
	case token.Lt:
		return ast.OpLess, 7
	case token.LtEq:
		return ast.OpLessEq, 7
	case token.Gt:
		return ast.OpGreater, 7
	case token.GtEq:
		return ast.OpGreaterEq, 7
	case token.EqEq:
		return ast.OpEq, 6
	case token.BangEq:
		return ast.OpNEq, 6
	case token.Amp:
		return ast.OpAmp, 5
	case token.Caret:
		return ast.OpCaret, 4
	case token.Pipe:
		return ast.OpPipe, 3
	case token.AndAnd:
		return ast.OpLogicalAnd, 2
	case token.OrOr:
		return ast.OpLogicalOr, 1
	default:
		return ast.OpInvalid, 0
	}
}

func (p *parser) parseExpr() *ast.Expr {
	return p.parseBinary(1)
}

// parseBinary is precedence-climbing over binOpFor.
func (p *parser) parseBinary(minPrec int) *ast.Expr {
	lhs := p.parseUnary()
	if lhs == nil {
		return nil
	}

	for {
		op, prec := binOpFor(p.peek().Kind)
		if op == ast.OpInvalid || prec < minPrec {
			return lhs
		}
		p.next()
		rhs := p.parseBinary(prec + 1)
		if rhs == nil {
			return nil
		}
		lhs = &ast.Expr{
			Kind:   ast.ExprBinary,
			Span:   lhs.Span.Cover(rhs.Span),
			Binary: &ast.BinaryExpr{Lhs: lhs, Op: op, Rhs: rhs},
		}
	}
}

func (p *parser) parseUnary() *ast.Expr {
	var op ast.Op
	switch p.peek().Kind {
	case token.Minus:
		op = ast.OpSub
	case token.Bang:
		op = ast.OpLogicalNot
	case token.Tilde:
		op = ast.OpNot
	case token.Star:
		op = ast.OpStar
	case token.Amp:
		op = ast.OpAmp
	default:
		return p.parsePostfix()
	}
	tok := p.next()
	operand := p.parseUnary()
	if operand == nil {
		return nil
	}
	return &ast.Expr{
		Kind:  ast.ExprUnary,
		Span:  tok.Span.Cover(operand.Span),
		Unary: &ast.UnaryExpr{Op: op, Operand: operand},
	}
}

func (p *parser) parsePostfix() *ast.Expr {
	expr := p.parsePrimary()
	if expr == nil {
		return nil
	}

	for {
		switch p.peek().Kind {
		case token.Dot:
			p.next()
			field, ok := p.expect(token.Ident, diag.SynExpectIdent)
			if !ok {
				return nil
			}
			expr = &ast.Expr{
				Kind:   ast.ExprMember,
				Span:   expr.Span.Cover(field.Span),
				Member: &ast.MemberExpr{Object: expr, Field: field.Text, Span: field.Span},
			}
		case token.KwAs:
			p.next()
			ty := p.parseType()
			if ty == nil {
				return nil
			}
			expr = &ast.Expr{
				Kind: ast.ExprCast,
				Span: expr.Span.Cover(ty.Span),
				Cast: &ast.CastExpr{Value: expr, Type: ty},
			}
		default:
			return expr
		}
	}
}

func (p *parser) parsePrimary() *ast.Expr {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit:
		p.next()
		v, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			p.report(diag.LexBadNumber, tok.Span,
				fmt.Sprintf("integer literal %q out of range", tok.Text))
			return nil
		}
		return &ast.Expr{Kind: ast.ExprIntLit, Span: tok.Span, IntValue: v}
	case token.FloatLit:
		p.next()
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			p.report(diag.LexBadNumber, tok.Span,
				fmt.Sprintf("float literal %q out of range", tok.Text))
			return nil
		}
		return &ast.Expr{Kind: ast.ExprFloatLit, Span: tok.Span, FloatValue: v}
	case token.KwTrue, token.KwFalse:
		p.next()
		return &ast.Expr{Kind: ast.ExprBoolLit, Span: tok.Span, BoolValue: tok.Kind == token.KwTrue}
	case token.Ident:
		p.next()
		if p.at(token.LParen) {
			return p.parseCall(tok)
		}
		return &ast.Expr{Kind: ast.ExprIdent, Span: tok.Span, Ident: tok.Text}
	case token.LParen:
		p.next()
		inner := p.parseExpr()
		if inner == nil {
			return nil
		}
		end, ok := p.expect(token.RParen, diag.SynUnclosedParen)
		if !ok {
			return nil
		}
		// Keep the inner node but widen its span to the parentheses.
		inner.Span = tok.Span.Cover(end.Span)
		return inner
	default:
		p.report(diag.SynExpectExpr, tok.Span,
			fmt.Sprintf("expected an expression, found %s", tok.Kind))
		return nil
	}
}

func (p *parser) parseCall(callee token.Token) *ast.Expr {
	p.next() // (
	call := &ast.CallExpr{Callee: callee.Text, Span: callee.Span}
	for !p.at(token.RParen) && !p.at(token.EOF) {
		arg := p.parseExpr()
		if arg == nil {
			return nil
		}
		call.Args = append(call.Args, arg)
		if !p.at(token.RParen) {
			if _, ok := p.expect(token.Comma, diag.SynUnexpectedToken); !ok {
				return nil
			}
		}
	}
	end, ok := p.expect(token.RParen, diag.SynUnclosedParen)
	if !ok {
		return nil
	}
	return &ast.Expr{
		Kind: ast.ExprCall,
		Span: callee.Span.Cover(end.Span),
		Call: call,
	}
}

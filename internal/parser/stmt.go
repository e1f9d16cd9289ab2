package parser

import (
	"fmt"

	"cinder/internal/ast"
	"cinder/internal/diag"
	"cinder/internal/source"
	"cinder/internal/token"
)

// parseBlock parses `{ stmt* }` and returns the statements plus the span of
// the whole block.
func (p *parser) parseBlock() ([]*ast.Stmt, source.Span) {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken)
	if !ok {
		return nil, open.Span
	}
	var stmts []*ast.Stmt
	for !p.at(token.RBrace) && !p.at(token.EOF) && p.errors < p.maxErr {
		stmt := p.parseStmt()
		if stmt == nil {
			p.recoverToStmt()
			continue
		}
		stmts = append(stmts, stmt)
	}
	end, _ := p.expect(token.RBrace, diag.SynUnclosedBrace)
	return stmts, open.Span.Cover(end.Span)
}

func (p *parser) parseStmt() *ast.Stmt {
	switch p.peek().Kind {
	case token.KwLet:
		return p.parseLet()
	case token.KwReturn:
		return p.parseReturn()
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.LBrace:
		stmts, span := p.parseBlock()
		return &ast.Stmt{Kind: ast.StmtBlock, Span: span, Block: stmts}
	default:
		return p.parseExprOrAssign()
	}
}

func (p *parser) parseLet() *ast.Stmt {
	start := p.next() // let
	name, ok := p.expect(token.Ident, diag.SynExpectIdent)
	if !ok {
		return nil
	}

	let := &ast.LetStmt{Name: name.Text, NameSpan: name.Span}
	if _, ok := p.eat(token.Colon); ok {
		let.Type = p.parseType()
		if let.Type == nil {
			return nil
		}
	}
	if _, ok := p.eat(token.Assign); ok {
		let.Init = p.parseExpr()
		if let.Init == nil {
			return nil
		}
	}
	if let.Type == nil && let.Init == nil {
		p.report(diag.SynExpectType, name.Span,
			fmt.Sprintf("let %s needs a type annotation or an initializer", name.Text))
		return nil
	}

	end, _ := p.expect(token.Semicolon, diag.SynExpectSemicolon)
	return &ast.Stmt{Kind: ast.StmtLet, Span: start.Span.Cover(end.Span), Let: let}
}

func (p *parser) parseReturn() *ast.Stmt {
	start := p.next() // return
	ret := &ast.ReturnStmt{}
	if !p.at(token.Semicolon) {
		ret.Value = p.parseExpr()
		if ret.Value == nil {
			return nil
		}
	}
	end, _ := p.expect(token.Semicolon, diag.SynExpectSemicolon)
	return &ast.Stmt{Kind: ast.StmtReturn, Span: start.Span.Cover(end.Span), Return: ret}
}

func (p *parser) parseIf() *ast.Stmt {
	start := p.next() // if
	cond := p.parseExpr()
	if cond == nil {
		return nil
	}
	then, thenSpan := p.parseBlock()
	stmt := &ast.IfStmt{Cond: cond, Then: then}
	span := start.Span.Cover(thenSpan)

	if _, ok := p.eat(token.KwElse); ok {
		if p.at(token.KwIf) {
			// else-if chains nest as a single-statement else block.
			nested := p.parseIf()
			if nested == nil {
				return nil
			}
			stmt.Else = []*ast.Stmt{nested}
			span = span.Cover(nested.Span)
		} else {
			elseStmts, elseSpan := p.parseBlock()
			stmt.Else = elseStmts
			span = span.Cover(elseSpan)
		}
	}
	return &ast.Stmt{Kind: ast.StmtIf, Span: span, If: stmt}
}

func (p *parser) parseWhile() *ast.Stmt {
	start := p.next() // while
	cond := p.parseExpr()
	if cond == nil {
		return nil
	}
	body, bodySpan := p.parseBlock()
	return &ast.Stmt{
		Kind:  ast.StmtWhile,
		Span:  start.Span.Cover(bodySpan),
		While: &ast.WhileStmt{Cond: cond, Body: body},
	}
}

// parseExprOrAssign handles both `target = value;` and bare expression
// statements.
func (p *parser) parseExprOrAssign() *ast.Stmt {
	expr := p.parseExpr()
	if expr == nil {
		return nil
	}

	if _, ok := p.eat(token.Assign); ok {
		value := p.parseExpr()
		if value == nil {
			return nil
		}
		end, _ := p.expect(token.Semicolon, diag.SynExpectSemicolon)
		return &ast.Stmt{
			Kind:   ast.StmtAssign,
			Span:   expr.Span.Cover(end.Span),
			Assign: &ast.AssignStmt{Target: expr, Value: value},
		}
	}

	end, _ := p.expect(token.Semicolon, diag.SynExpectSemicolon)
	return &ast.Stmt{Kind: ast.StmtExpr, Span: expr.Span.Cover(end.Span), Expr: expr}
}

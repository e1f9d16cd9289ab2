// Package parser builds the Cinder AST from a token stream.
package parser

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"

	"cinder/internal/ast"
	"cinder/internal/diag"
	"cinder/internal/lexer"
	"cinder/internal/source"
	"cinder/internal/token"
)

// Options configure a parse run.
type Options struct {
	Reporter  diag.Reporter
	MaxErrors uint
}

type parser struct {
	toks     []token.Token
	pos      int
	reporter diag.Reporter
	errors   uint
	maxErr   uint
	fileID   source.FileID
}

// ParseFile scans and parses one file into an AST. Errors are reported via
// opts.Reporter; the returned file contains whatever items parsed cleanly.
func ParseFile(file *source.File, opts Options) *ast.File {
	lx := lexer.New(file, lexer.Options{Reporter: opts.Reporter})
	var toks []token.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}

	maxErr := opts.MaxErrors
	if maxErr == 0 {
		maxErr = 100
	}
	r := opts.Reporter
	if r == nil {
		r = diag.NopReporter{}
	}
	p := &parser{toks: toks, reporter: r, maxErr: maxErr, fileID: file.ID}

	out := &ast.File{FileID: file.ID}
	for p.peek().Kind != token.EOF && p.errors < p.maxErr {
		item := p.parseItem()
		if item == nil {
			p.recoverToItem()
			continue
		}
		out.Items = append(out.Items, item)
	}
	return out
}

func (p *parser) peek() token.Token {
	return p.toks[p.pos]
}

func (p *parser) next() token.Token {
	tok := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) at(kind token.Kind) bool {
	return p.peek().Kind == kind
}

func (p *parser) eat(kind token.Kind) (token.Token, bool) {
	if p.at(kind) {
		return p.next(), true
	}
	return p.peek(), false
}

func (p *parser) expect(kind token.Kind, code diag.Code) (token.Token, bool) {
	if tok, ok := p.eat(kind); ok {
		return tok, true
	}
	tok := p.peek()
	p.report(code, tok.Span, fmt.Sprintf("expected %s, found %s", kind, tok.Kind))
	return tok, false
}

func (p *parser) report(code diag.Code, sp source.Span, msg string) {
	p.errors++
	p.reporter.Report(diag.NewError(code, sp, msg))
}

// recoverToItem skips ahead to the next top-level keyword.
func (p *parser) recoverToItem() {
	for {
		switch p.peek().Kind {
		case token.EOF, token.KwFun, token.KwStruct, token.KwType, token.KwExtern:
			return
		}
		p.next()
	}
}

// recoverToStmt skips to the next statement boundary inside a block.
func (p *parser) recoverToStmt() {
	for {
		switch p.peek().Kind {
		case token.EOF, token.RBrace:
			return
		case token.Semicolon:
			p.next()
			return
		}
		p.next()
	}
}

func (p *parser) parseItem() *ast.Item {
	switch p.peek().Kind {
	case token.KwExtern:
		start := p.next()
		if !p.at(token.KwFun) {
			p.report(diag.SynUnexpectedToken, p.peek().Span, "expected fun after extern")
			return nil
		}
		item := p.parseFun(true)
		if item != nil {
			item.Span = start.Span.Cover(item.Span)
		}
		return item
	case token.KwFun:
		return p.parseFun(false)
	case token.KwStruct:
		return p.parseStruct()
	case token.KwType:
		return p.parseAlias()
	default:
		p.report(diag.SynUnexpectedToken, p.peek().Span,
			fmt.Sprintf("expected a top-level declaration, found %s", p.peek().Kind))
		return nil
	}
}

func (p *parser) parseFun(extern bool) *ast.Item {
	start := p.next() // fun
	name, ok := p.expect(token.Ident, diag.SynExpectIdent)
	if !ok {
		return nil
	}

	decl := &ast.FunDecl{Name: name.Text, NameSpan: name.Span}
	if extern {
		decl.Flags |= ast.FunFlagExtern
	}

	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken); !ok {
		return nil
	}
	for !p.at(token.RParen) && !p.at(token.EOF) {
		pname, ok := p.expect(token.Ident, diag.SynExpectIdent)
		if !ok {
			return nil
		}
		if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken); !ok {
			return nil
		}
		ty := p.parseType()
		if ty == nil {
			return nil
		}
		decl.Params = append(decl.Params, ast.Param{Name: pname.Text, Span: pname.Span, Type: ty})
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

	if _, ok := p.eat(token.Arrow); ok {
		decl.Ret = p.parseType()
		if decl.Ret == nil {
			return nil
		}
	}

	span := start.Span.Cover(end.Span)
	if extern {
		if semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon); ok {
			span = span.Cover(semi.Span)
		}
		return &ast.Item{Kind: ast.ItemFun, Span: span, Fun: decl}
	}

	body, bodySpan := p.parseBlock()
	decl.Body = body
	if decl.Body == nil {
		decl.Body = []*ast.Stmt{}
	}
	return &ast.Item{Kind: ast.ItemFun, Span: span.Cover(bodySpan), Fun: decl}
}

func (p *parser) parseStruct() *ast.Item {
	start := p.next() // struct
	name, ok := p.expect(token.Ident, diag.SynExpectIdent)
	if !ok {
		return nil
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken); !ok {
		return nil
	}

	decl := &ast.StructDecl{Name: name.Text, NameSpan: name.Span}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		fname, ok := p.expect(token.Ident, diag.SynExpectIdent)
		if !ok {
			return nil
		}
		if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken); !ok {
			return nil
		}
		ty := p.parseType()
		if ty == nil {
			return nil
		}
		decl.Fields = append(decl.Fields, ast.StructField{Name: fname.Text, Span: fname.Span, Type: ty})
		if !p.at(token.RBrace) {
			if _, ok := p.expect(token.Comma, diag.SynUnexpectedToken); !ok {
				return nil
			}
		}
	}
	end, ok := p.expect(token.RBrace, diag.SynUnclosedBrace)
	if !ok {
		return nil
	}
	return &ast.Item{Kind: ast.ItemStruct, Span: start.Span.Cover(end.Span), Struct: decl}
}

func (p *parser) parseAlias() *ast.Item {
	start := p.next() // type
	name, ok := p.expect(token.Ident, diag.SynExpectIdent)
	if !ok {
		return nil
	}
	if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken); !ok {
		return nil
	}
	target := p.parseType()
	if target == nil {
		return nil
	}
	end, _ := p.expect(token.Semicolon, diag.SynExpectSemicolon)
	return &ast.Item{
		Kind:  ast.ItemAlias,
		Span:  start.Span.Cover(end.Span),
		Alias: &ast.AliasDecl{Name: name.Text, NameSpan: name.Span, Target: target},
	}
}

func (p *parser) parseType() *ast.TypeExpr {
	switch tok := p.peek(); tok.Kind {
	case token.Star:
		p.next()
		elem := p.parseType()
		if elem == nil {
			return nil
		}
		return &ast.TypeExpr{Kind: ast.TypePtr, Span: tok.Span.Cover(elem.Span), Elem: elem}
	case token.LBracket:
		p.next()
		lenTok, ok := p.expect(token.IntLit, diag.SynExpectType)
		if !ok {
			return nil
		}
		n, err := strconv.ParseUint(lenTok.Text, 10, 32)
		if err != nil {
			p.report(diag.SynExpectType, lenTok.Span, "array length does not fit in 32 bits")
			return nil
		}
		if _, ok := p.expect(token.RBracket, diag.SynUnexpectedToken); !ok {
			return nil
		}
		elem := p.parseType()
		if elem == nil {
			return nil
		}
		count, convErr := safecast.Conv[uint32](n)
		if convErr != nil {
			p.report(diag.SynExpectType, lenTok.Span, "array length does not fit in 32 bits")
			return nil
		}
		return &ast.TypeExpr{Kind: ast.TypeArray, Span: tok.Span.Cover(elem.Span), Elem: elem, Len: count}
	case token.LParen:
		p.next()
		end, ok := p.expect(token.RParen, diag.SynExpectType)
		if !ok {
			return nil
		}
		return &ast.TypeExpr{Kind: ast.TypeUnit, Span: tok.Span.Cover(end.Span)}
	case token.Ident:
		p.next()
		return &ast.TypeExpr{Kind: ast.TypeNamed, Span: tok.Span, Name: tok.Text}
	default:
		p.report(diag.SynExpectType, tok.Span,
			fmt.Sprintf("expected a type, found %s", tok.Kind))
		return nil
	}
}

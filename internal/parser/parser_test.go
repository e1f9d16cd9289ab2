package parser

import (
	"testing"

	"cinder/internal/ast"
	"cinder/internal/diag"
	"cinder/internal/source"
)

func parseSrc(t *testing.T, src string) (*ast.File, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.cn", []byte(src))
	bag := diag.NewBag(32)
	file := ParseFile(fs.Get(id), Options{Reporter: diag.BagReporter{Bag: bag}})
	return file, bag
}

func parseExprSrc(t *testing.T, src string) (*ast.Expr, *diag.Bag) {
	t.Helper()
	file, bag := parseSrc(t, "fun f() { "+src+"; }")
	if len(file.Items) != 1 || file.Items[0].Kind != ast.ItemFun {
		t.Fatalf("expected one function, got %d items", len(file.Items))
	}
	body := file.Items[0].Fun.Body
	if len(body) != 1 || body[0].Kind != ast.StmtExpr {
		t.Fatalf("expected one expression statement, got %d stmts", len(body))
	}
	return body[0].Expr, bag
}

func TestParseFunDecl(t *testing.T) {
	file, bag := parseSrc(t, "fun add(a: i32, b: i32) -> i32 { return a + b; }")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if len(file.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(file.Items))
	}
	fn := file.Items[0].Fun
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("fun = %q params = %d", fn.Name, len(fn.Params))
	}
	if fn.Ret == nil || fn.Ret.Kind != ast.TypeNamed || fn.Ret.Name != "i32" {
		t.Fatalf("return type = %+v", fn.Ret)
	}
	if len(fn.Body) != 1 || fn.Body[0].Kind != ast.StmtReturn {
		t.Fatalf("body = %+v", fn.Body)
	}
}

func TestParseExternFun(t *testing.T) {
	file, bag := parseSrc(t, "extern fun malloc(n: i64) -> *u8;")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	fn := file.Items[0].Fun
	if fn.Flags&ast.FunFlagExtern == 0 {
		t.Fatal("extern flag not set")
	}
	if fn.Ret == nil || fn.Ret.Kind != ast.TypePtr {
		t.Fatalf("return type = %+v", fn.Ret)
	}
}

func TestParseStructAndAlias(t *testing.T) {
	file, bag := parseSrc(t, "struct Point { x: i32, y: i32 }\ntype Handle = *Point;")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if len(file.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(file.Items))
	}
	st := file.Items[0].Struct
	if st.Name != "Point" || len(st.Fields) != 2 || st.Fields[1].Name != "y" {
		t.Fatalf("struct = %+v", st)
	}
	al := file.Items[1].Alias
	if al.Name != "Handle" || al.Target.Kind != ast.TypePtr {
		t.Fatalf("alias = %+v", al)
	}
}

func TestParseArrayType(t *testing.T) {
	file, bag := parseSrc(t, "fun f(buf: [16]u8) { }")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	ty := file.Items[0].Fun.Params[0].Type
	if ty.Kind != ast.TypeArray || ty.Len != 16 || ty.Elem.Name != "u8" {
		t.Fatalf("type = %+v", ty)
	}
}

func TestBinaryPrecedence(t *testing.T) {
	// a + b * c must parse as a + (b * c).
	expr, bag := parseExprSrc(t, "a + b * c")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if expr.Kind != ast.ExprBinary || expr.Binary.Op != ast.OpAdd {
		t.Fatalf("root op = %v", expr.Binary.Op)
	}
	rhs := expr.Binary.Rhs
	if rhs.Kind != ast.ExprBinary || rhs.Binary.Op != ast.OpStar {
		t.Fatalf("rhs op = %+v", rhs)
	}
}

func TestComparisonBindsTighterThanLogical(t *testing.T) {
	expr, bag := parseExprSrc(t, "a < b && c == d")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if expr.Binary.Op != ast.OpLogicalAnd {
		t.Fatalf("root op = %v", expr.Binary.Op)
	}
	if expr.Binary.Lhs.Binary.Op != ast.OpLess || expr.Binary.Rhs.Binary.Op != ast.OpEq {
		t.Fatalf("children = %v %v", expr.Binary.Lhs.Binary.Op, expr.Binary.Rhs.Binary.Op)
	}
}

func TestLeftAssociativity(t *testing.T) {
	// a - b - c must parse as (a - b) - c.
	expr, _ := parseExprSrc(t, "a - b - c")
	if expr.Binary.Op != ast.OpSub || expr.Binary.Lhs.Kind != ast.ExprBinary {
		t.Fatalf("expr = %+v", expr)
	}
	if expr.Binary.Rhs.Kind != ast.ExprIdent || expr.Binary.Rhs.Ident != "c" {
		t.Fatalf("rhs = %+v", expr.Binary.Rhs)
	}
}

func TestUnaryAndCast(t *testing.T) {
	expr, bag := parseExprSrc(t, "-x as i64")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	// `as` binds tighter than unary minus: -(x as i64).
	if expr.Kind != ast.ExprUnary || expr.Unary.Op != ast.OpSub {
		t.Fatalf("expr = %+v", expr)
	}
	if expr.Unary.Operand.Kind != ast.ExprCast {
		t.Fatalf("operand = %+v", expr.Unary.Operand)
	}
}

func TestDerefAndAddressOf(t *testing.T) {
	expr, _ := parseExprSrc(t, "*&x")
	if expr.Kind != ast.ExprUnary || expr.Unary.Op != ast.OpStar {
		t.Fatalf("expr = %+v", expr)
	}
	inner := expr.Unary.Operand
	if inner.Kind != ast.ExprUnary || inner.Unary.Op != ast.OpAmp {
		t.Fatalf("inner = %+v", inner)
	}
}

func TestCallAndMember(t *testing.T) {
	expr, bag := parseExprSrc(t, "origin(1, 2).x")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if expr.Kind != ast.ExprMember || expr.Member.Field != "x" {
		t.Fatalf("expr = %+v", expr)
	}
	call := expr.Member.Object
	if call.Kind != ast.ExprCall || call.Call.Callee != "origin" || len(call.Call.Args) != 2 {
		t.Fatalf("call = %+v", call)
	}
}

func TestParenWidensSpan(t *testing.T) {
	expr, _ := parseExprSrc(t, "(a + b)")
	if expr.Kind != ast.ExprBinary {
		t.Fatalf("expr kind = %v", expr.Kind)
	}
	// The span must include both parentheses.
	if expr.Span.End-expr.Span.Start != 7 {
		t.Fatalf("span width = %d, want 7", expr.Span.End-expr.Span.Start)
	}
}

func TestParseLetForms(t *testing.T) {
	file, bag := parseSrc(t, "fun f() { let a: i32 = 1; let b = 2; let c: bool; }")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	body := file.Items[0].Fun.Body
	if len(body) != 3 {
		t.Fatalf("stmts = %d", len(body))
	}
	if body[0].Let.Type == nil || body[0].Let.Init == nil {
		t.Fatal("first let should have both type and init")
	}
	if body[1].Let.Type != nil || body[1].Let.Init == nil {
		t.Fatal("second let should infer its type")
	}
	if body[2].Let.Type == nil || body[2].Let.Init != nil {
		t.Fatal("third let should be declaration-only")
	}
}

func TestLetWithoutTypeOrInitFails(t *testing.T) {
	_, bag := parseSrc(t, "fun f() { let a; }")
	if !bag.HasErrors() {
		t.Fatal("expected a diagnostic")
	}
}

func TestParseIfElseChain(t *testing.T) {
	file, bag := parseSrc(t, "fun f(a: i32) { if a < 0 { } else if a == 0 { } else { } }")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	stmt := file.Items[0].Fun.Body[0]
	if stmt.Kind != ast.StmtIf {
		t.Fatalf("stmt = %+v", stmt)
	}
	if len(stmt.If.Else) != 1 || stmt.If.Else[0].Kind != ast.StmtIf {
		t.Fatalf("else branch = %+v", stmt.If.Else)
	}
	if stmt.If.Else[0].If.Else == nil {
		t.Fatal("final else missing")
	}
}

func TestParseWhileAndAssign(t *testing.T) {
	file, bag := parseSrc(t, "fun f() { let i = 0; while i < 10 { i = i + 1; } }")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	loop := file.Items[0].Fun.Body[1]
	if loop.Kind != ast.StmtWhile || len(loop.While.Body) != 1 {
		t.Fatalf("loop = %+v", loop)
	}
	if loop.While.Body[0].Kind != ast.StmtAssign {
		t.Fatalf("body stmt = %+v", loop.While.Body[0])
	}
}

func TestRecoveryAfterBadItem(t *testing.T) {
	file, bag := parseSrc(t, "fun () { }\nfun ok() { }")
	if !bag.HasErrors() {
		t.Fatal("expected diagnostics for the malformed function")
	}
	// The parser must still pick up the second function.
	found := false
	for _, item := range file.Items {
		if item.Kind == ast.ItemFun && item.Fun.Name == "ok" {
			found = true
		}
	}
	if !found {
		t.Fatal("recovery lost the second function")
	}
}

func TestMissingSemicolonReported(t *testing.T) {
	_, bag := parseSrc(t, "fun f() { return 1 }")
	if !bag.HasErrors() {
		t.Fatal("expected a diagnostic")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SynExpectSemicolon {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected SynExpectSemicolon, got %v", bag.Items())
	}
}

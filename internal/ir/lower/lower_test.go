package lower

import (
	"testing"

	"cinder/internal/ast"
	"cinder/internal/diag"
	"cinder/internal/ir"
	"cinder/internal/parser"
	"cinder/internal/source"
)

func lowerProgram(t *testing.T, src string) (*ir.Context, *Lowerer, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.cn", []byte(src))
	bag := diag.NewBag(64)
	file := parser.ParseFile(fs.Get(id), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.HasErrors() {
		t.Fatalf("parse errors: %v", bag.Items())
	}

	ctx := ir.NewContext()
	lo := New(ctx, diag.BagReporter{Bag: bag})
	lo.LowerFiles([]*ast.File{file})
	return ctx, lo, bag
}

func TestLowerSimpleFunction(t *testing.T) {
	ctx, _, bag := lowerProgram(t, `
fun add(a: i32, b: i32) -> i32 {
	return a + b;
}`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	if err := ir.Validate(ctx); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	f := ctx.Fun(0)
	if ctx.Symbols.MustLookup(f.Name) != "add" || !f.Defined() {
		t.Fatalf("fun = %+v", f)
	}
	if len(f.Body.Params) != 2 {
		t.Fatalf("params = %d", len(f.Body.Params))
	}
	entry := ctx.Block(f.Body.Entry)
	if entry.Term.Kind != ir.TermReturn || !entry.Term.Return.HasValue {
		t.Fatalf("terminator = %+v", entry.Term)
	}
	if entry.Term.Return.Value.Type != ir.I32 {
		t.Fatalf("return type = %d", entry.Term.Return.Value.Type)
	}
}

func TestLowerLetAndShadowing(t *testing.T) {
	ctx, _, bag := lowerProgram(t, `
fun f() {
	let x: i32 = 1;
	let x: bool = true;
	let y = x;
}`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	f := ctx.Fun(0)
	if len(f.Body.Locals) != 3 {
		t.Fatalf("locals = %d, want 3 (shadowing makes a fresh slot)", len(f.Body.Locals))
	}
	if ctx.Var(f.Body.Locals[0]).Type != ir.I32 || ctx.Var(f.Body.Locals[1]).Type != ir.Bool {
		t.Fatal("shadowed slot types crossed")
	}
	// y picks up the innermost binding.
	if ctx.Var(f.Body.Locals[2]).Type != ir.Bool {
		t.Fatalf("y type = %d", ctx.Var(f.Body.Locals[2]).Type)
	}
}

func TestLowerInternsSymbols(t *testing.T) {
	ctx, _, bag := lowerProgram(t, `
fun f(x: i32) -> i32 {
	let x: i32 = x;
	return x;
}
fun g() {
	let x: i32 = 0;
}`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", bag.Items())
	}

	f := ctx.Fun(0)
	g := ctx.Fun(1)
	if ctx.Symbols.MustLookup(f.Name) != "f" || ctx.Symbols.MustLookup(g.Name) != "g" {
		t.Fatal("function names did not round-trip through the symbol table")
	}

	// Every slot spelled x, across shadowing and across functions, shares
	// one interned handle.
	xID := ctx.Var(f.Body.Params[0]).Name
	if xID == source.NoStringID {
		t.Fatal("param name interned as NoStringID")
	}
	for _, v := range []ir.VarID{f.Body.Locals[0], g.Body.Locals[0]} {
		if ctx.Var(v).Name != xID {
			t.Fatalf("x handles diverge: %d vs %d", ctx.Var(v).Name, xID)
		}
	}
}

func TestLowerAnonymousSlotHasNoSymbol(t *testing.T) {
	ctx, _, bag := lowerProgram(t, `
fun effect() -> i32 { return 1; }
fun f() {
	effect();
}`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	f := ctx.Fun(1)
	if len(f.Body.Locals) != 1 {
		t.Fatalf("locals = %d, want 1", len(f.Body.Locals))
	}
	if ctx.Var(f.Body.Locals[0]).Name != source.NoStringID {
		t.Fatal("expression-statement slot should carry NoStringID")
	}
}

func TestLowerIfBuildsDiamond(t *testing.T) {
	ctx, _, bag := lowerProgram(t, `
fun f(c: bool) -> i32 {
	let r: i32 = 0;
	if c {
		r = 1;
	} else {
		r = 2;
	}
	return r;
}`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	if err := ir.Validate(ctx); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	f := ctx.Fun(0)
	// entry, then, else, join.
	if len(f.Body.Blocks) != 4 {
		t.Fatalf("blocks = %d, want 4", len(f.Body.Blocks))
	}
	entry := ctx.Block(f.Body.Entry)
	if entry.Term.Kind != ir.TermJmpIf {
		t.Fatalf("entry terminator = %v", entry.Term.Kind)
	}
	then := ctx.Block(entry.Term.JmpIf.Then)
	els := ctx.Block(entry.Term.JmpIf.Else)
	if then.Term.Kind != ir.TermJmp || els.Term.Kind != ir.TermJmp {
		t.Fatalf("branch terminators = %v %v", then.Term.Kind, els.Term.Kind)
	}
	if then.Term.Jmp.Target != els.Term.Jmp.Target {
		t.Fatal("branches do not rejoin at one block")
	}
	join := ctx.Block(then.Term.Jmp.Target)
	if join.Term.Kind != ir.TermReturn {
		t.Fatalf("join terminator = %v", join.Term.Kind)
	}
}

func TestLowerIfBothBranchesReturn(t *testing.T) {
	ctx, _, bag := lowerProgram(t, `
fun sign(n: i32) -> i32 {
	if n < 0 {
		return -1;
	} else {
		return 1;
	}
}`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	if err := ir.Validate(ctx); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	// No join block: entry + two returning branches.
	if got := len(ctx.Fun(0).Body.Blocks); got != 3 {
		t.Fatalf("blocks = %d, want 3", got)
	}
}

func TestLowerWhileBuildsLoop(t *testing.T) {
	ctx, _, bag := lowerProgram(t, `
fun count(n: i32) -> i32 {
	let i: i32 = 0;
	while i < n {
		i = i + 1;
	}
	return i;
}`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	if err := ir.Validate(ctx); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	f := ctx.Fun(0)
	// entry, head, body, exit.
	if len(f.Body.Blocks) != 4 {
		t.Fatalf("blocks = %d, want 4", len(f.Body.Blocks))
	}
	entry := ctx.Block(f.Body.Entry)
	if entry.Term.Kind != ir.TermJmp {
		t.Fatalf("entry terminator = %v", entry.Term.Kind)
	}
	head := ctx.Block(entry.Term.Jmp.Target)
	if head.Term.Kind != ir.TermJmpIf {
		t.Fatalf("head terminator = %v", head.Term.Kind)
	}
	body := ctx.Block(head.Term.JmpIf.Then)
	if body.Term.Kind != ir.TermJmp || body.Term.Jmp.Target != entry.Term.Jmp.Target {
		t.Fatal("loop body does not jump back to the head")
	}
}

func TestMissingReturnReported(t *testing.T) {
	_, _, bag := lowerProgram(t, `
fun f(c: bool) -> i32 {
	if c {
		return 1;
	}
}`)
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SemaMissingReturn {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected SemaMissingReturn, got %v", bag.Items())
	}
}

func TestDuplicateFunctionReported(t *testing.T) {
	_, _, bag := lowerProgram(t, "fun f() { }\nfun f() { }")
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SemaDuplicateSymbol {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
}

func TestStructMemberAccess(t *testing.T) {
	ctx, _, bag := lowerProgram(t, `
struct Point { x: i32, y: i32 }
fun getY(p: Point) -> i32 {
	return p.y;
}`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	entry := ctx.Block(ctx.Fun(0).Body.Entry)
	ret := entry.Term.Return.Value
	if ret.Kind != ir.ExprMember || ret.Member.Field != 1 {
		t.Fatalf("return expr = %+v", ret)
	}
}

func TestUnknownFieldReported(t *testing.T) {
	_, _, bag := lowerProgram(t, `
struct Point { x: i32 }
fun f(p: Point) -> i32 { return p.z; }`)
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SemaUnknownField {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected SemaUnknownField, got %v", bag.Items())
	}
}

func TestAliasResolvesInMemberAccess(t *testing.T) {
	_, _, bag := lowerProgram(t, `
struct Point { x: i32 }
type P = Point;
fun f(p: P) -> i32 { return p.x; }`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
}

func TestCasts(t *testing.T) {
	_, _, bag := lowerProgram(t, `
fun f(n: i32, p: *u8) -> i64 {
	let w = n as i64;
	let addr = p as i64;
	let back = addr as *u8;
	let narrow = w as i8;
	return w;
}`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
}

func TestInvalidCastReported(t *testing.T) {
	_, _, bag := lowerProgram(t, `
struct Point { x: i32 }
fun f(p: Point) -> i64 { return p as i64; }`)
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SemaInvalidCast {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected SemaInvalidCast, got %v", bag.Items())
	}
}

func TestCallArityMismatch(t *testing.T) {
	_, _, bag := lowerProgram(t, `
fun add(a: i32, b: i32) -> i32 { return a + b; }
fun f() -> i32 { return add(1); }`)
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SemaArityMismatch {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected SemaArityMismatch, got %v", bag.Items())
	}
}

func TestCallBeforeDeclaration(t *testing.T) {
	ctx, _, bag := lowerProgram(t, `
fun f() -> i32 { return g(); }
fun g() -> i32 { return 7; }`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	if err := ir.Validate(ctx); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestErrorRecoveryContinuesLowering(t *testing.T) {
	_, _, bag := lowerProgram(t, `
fun f() {
	let a = missing1;
	let b = missing2;
}`)
	// Both unknown identifiers surface in one pass.
	count := 0
	for _, d := range bag.Items() {
		if d.Code == diag.SemaUnknownIdentifier {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("unknown identifier diagnostics = %d, want 2", count)
	}
}

func TestExternDeclarationHasNoBody(t *testing.T) {
	ctx, _, bag := lowerProgram(t, "extern fun malloc(n: i64) -> *u8;")
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	f := ctx.Fun(0)
	if f.Defined() || f.Flags&ir.FunExtern == 0 {
		t.Fatalf("fun = %+v", f)
	}
}

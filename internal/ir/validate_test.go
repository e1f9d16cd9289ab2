package ir

import (
	"errors"
	"strings"
	"testing"

	"cinder/internal/diag"
)

func defineFun(ctx *Context, name string) (FunID, BBID) {
	fnTy := ctx.Types.InternFn(FnInfo{Ret: Unit})
	id := ctx.NewFun(Fun{Name: ctx.Symbols.Intern(name), Type: fnTy})
	entry := ctx.NewBlock()
	ctx.Fun(id).Body = &Body{Entry: entry, Parent: id, Blocks: []BBID{entry}}
	return id, entry
}

func TestValidateAcceptsTerminatedGraph(t *testing.T) {
	ctx := NewContext()
	_, entry := defineFun(ctx, "main")
	exit := ctx.NewBlock()
	f := ctx.Fun(0)
	f.Body.Blocks = append(f.Body.Blocks, exit)

	ctx.Block(entry).Term = MakeJmp(exit)
	ctx.Block(exit).Term = MakeReturnUnit()

	if err := Validate(ctx); err != nil {
		t.Fatalf("Validate = %v", err)
	}
}

func TestValidateRejectsUnterminatedBlock(t *testing.T) {
	ctx := NewContext()
	defineFun(ctx, "broken")

	err := Validate(ctx)
	if err == nil {
		t.Fatal("expected error for unterminated block")
	}
	if !strings.Contains(err.Error(), "no terminator") {
		t.Fatalf("err = %v", err)
	}
	var d *diag.Diagnostic
	if !errors.As(err, &d) || d.Code != diag.IRUnterminatedBlock {
		t.Fatalf("expected IRUnterminatedBlock, got %v", err)
	}
}

func TestValidateRejectsDanglingJump(t *testing.T) {
	ctx := NewContext()
	_, entry := defineFun(ctx, "dangling")
	ctx.Block(entry).Term = MakeJmp(BBID(42))

	err := Validate(ctx)
	if err == nil || !strings.Contains(err.Error(), "unknown block") {
		t.Fatalf("err = %v", err)
	}
	var d *diag.Diagnostic
	if !errors.As(err, &d) || d.Code != diag.IRInvalidHandle {
		t.Fatalf("expected IRInvalidHandle, got %v", err)
	}
}

func TestValidateCollectsMultipleErrors(t *testing.T) {
	ctx := NewContext()
	defineFun(ctx, "a")
	_, entry := defineFun(ctx, "b")
	ctx.Block(entry).Term = MakeJmpIf(Expr{Type: Bool, Kind: ExprBoolLit}, BBID(77), BBID(78))

	err := Validate(ctx)
	if err == nil {
		t.Fatal("expected errors")
	}
	msg := err.Error()
	if !strings.Contains(msg, `fun "a"`) || !strings.Contains(msg, `fun "b"`) {
		t.Fatalf("expected both functions reported, got: %v", msg)
	}
}

func TestValidateSkipsDeclarations(t *testing.T) {
	ctx := NewContext()
	fnTy := ctx.Types.InternFn(FnInfo{Params: []FnParam{{Type: I64, Name: "n"}}, Ret: ctx.Types.Ptr(U8)})
	ctx.NewFun(Fun{Name: ctx.Symbols.Intern("malloc"), Type: fnTy, Flags: FunExtern})
	if err := Validate(ctx); err != nil {
		t.Fatalf("Validate = %v", err)
	}
}

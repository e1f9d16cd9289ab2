package ir

import (
	"errors"
	"fmt"

	"cinder/internal/diag"
)

// Validate checks the structural invariants of a fully lowered context:
// every defined function's blocks are terminated and every jump lands on a
// block the context owns. Violations are compiler bugs, collected and
// returned together; each carries an IR-space diagnostic code so crash
// reports can classify them.
func Validate(ctx *Context) error {
	var errs []error
	for i := 0; i < ctx.NumFuns(); i++ {
		id := FunID(i)
		f := ctx.Fun(id)
		if f.Body == nil {
			continue
		}
		name := ctx.Symbols.MustLookup(f.Name)
		bug := func(code diag.Code, format string, args ...any) {
			errs = append(errs, diag.NewError(code, f.Span, fmt.Sprintf(format, args...)))
		}
		if f.Body.Parent != id {
			bug(diag.IRInvalidHandle, "fun %q: body parent is %d, want %d", name, f.Body.Parent, id)
		}
		if len(f.Body.Blocks) == 0 {
			bug(diag.IRInvalidHandle, "fun %q: defined with no blocks", name)
			continue
		}
		if f.Body.Entry != f.Body.Blocks[0] {
			bug(diag.IRInvalidHandle, "fun %q: entry %d is not the first block", name, f.Body.Entry)
		}
		for _, bb := range f.Body.Blocks {
			if !ctx.HasBlock(bb) {
				bug(diag.IRInvalidHandle, "fun %q: block %d not owned by context", name, bb)
				continue
			}
			validateBlock(ctx, name, bb, bug)
		}
	}
	return errors.Join(errs...)
}

func validateBlock(ctx *Context, fun string, bb BBID, bug func(diag.Code, string, ...any)) {
	block := ctx.Block(bb)

	target := func(t BBID) {
		if !ctx.HasBlock(t) {
			bug(diag.IRInvalidHandle, "fun %q: block %d jumps to unknown block %d", fun, bb, t)
		}
	}

	switch term := block.Term; term.Kind {
	case TermNone:
		bug(diag.IRUnterminatedBlock, "fun %q: block %d has no terminator", fun, bb)
	case TermReturn:
	case TermJmp:
		target(term.Jmp.Target)
	case TermJmpIf:
		target(term.JmpIf.Then)
		target(term.JmpIf.Else)
	case TermJmpMatch:
		for _, arm := range term.JmpMatch.Arms {
			target(arm.Target)
		}
		target(term.JmpMatch.Default)
	default:
		bug(diag.IRUnterminatedBlock, "fun %q: block %d has unknown terminator kind %d", fun, bb, term.Kind)
	}
}

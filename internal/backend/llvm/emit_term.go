package llvm

import (
	"fmt"

	"cinder/internal/ir"
)

func (fe *funcEmitter) emitTerminator(term *ir.Terminator) error {
	switch term.Kind {
	case ir.TermReturn:
		return fe.emitReturn(term)
	case ir.TermJmp:
		fmt.Fprintf(&fe.e.buf, "  br label %%bb%d\n", term.Jmp.Target)
		return nil
	case ir.TermJmpIf:
		cond, condTy, err := fe.emitExpr(&term.JmpIf.Cond)
		if err != nil {
			return err
		}
		if condTy != "i1" {
			return fmt.Errorf("%s: branch condition has type %s", fe.name, condTy)
		}
		fmt.Fprintf(&fe.e.buf, "  br i1 %s, label %%bb%d, label %%bb%d\n",
			cond, term.JmpIf.Then, term.JmpIf.Else)
		return nil
	case ir.TermJmpMatch:
		return fe.emitMatch(term)
	default:
		return fmt.Errorf("%s: block reached the backend without a terminator", fe.name)
	}
}

func (fe *funcEmitter) emitReturn(term *ir.Terminator) error {
	if !term.Return.HasValue {
		fe.e.buf.WriteString("  ret void\n")
		return nil
	}
	val, ty, err := fe.emitExpr(&term.Return.Value)
	if err != nil {
		return err
	}
	if ty == "void" {
		fe.e.buf.WriteString("  ret void\n")
		return nil
	}
	fmt.Fprintf(&fe.e.buf, "  ret %s %s\n", ty, val)
	return nil
}

// emitMatch dispatches on a sum value's tag word. The tag is the first field
// of the sum's storage.
func (fe *funcEmitter) emitMatch(term *ir.Terminator) error {
	val, _, err := fe.emitExpr(&term.JmpMatch.Value)
	if err != nil {
		return err
	}
	tag := fe.tmp()
	fmt.Fprintf(&fe.e.buf, "  %%%s = extractvalue { i32, i64 } %s, 0\n", tag, val)
	fmt.Fprintf(&fe.e.buf, "  switch i32 %%%s, label %%bb%d [\n", tag, term.JmpMatch.Default)
	for _, arm := range term.JmpMatch.Arms {
		fmt.Fprintf(&fe.e.buf, "    i32 %d, label %%bb%d\n", arm.Discriminant, arm.Target)
	}
	fe.e.buf.WriteString("  ]\n")
	return nil
}

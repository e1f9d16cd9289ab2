package llvm

import (
	"fmt"
	"strings"

	"cinder/internal/ir"
	"cinder/internal/source"
)

type funcSig struct {
	ret      string
	params   []string
	variadic bool
}

// Emitter renders one context into a single .ll buffer.
type Emitter struct {
	ctx  *ir.Context
	buf  strings.Builder
	sigs map[ir.FunID]funcSig
}

// funcEmitter carries per-function emission state.
type funcEmitter struct {
	e      *Emitter
	fun    *ir.Fun
	name   string
	tmpID  int
	slots  map[ir.VarID]string // VarID -> alloca name
	params map[ir.VarID]int    // VarID -> incoming parameter position
}

// symbol resolves an interned name against the context's symbol table.
func (e *Emitter) symbol(id source.StringID) string {
	return e.ctx.Symbols.MustLookup(id)
}

// EmitModule renders every function of ctx: extern declarations first, then
// definitions in arena order.
func EmitModule(ctx *ir.Context) (string, error) {
	e := &Emitter{ctx: ctx, sigs: make(map[ir.FunID]funcSig, ctx.NumFuns())}

	e.buf.WriteString("target triple = \"x86_64-linux-gnu\"\n\n")

	for i := 0; i < ctx.NumFuns(); i++ {
		if err := e.prepareSig(ir.FunID(i)); err != nil {
			return "", err
		}
	}
	for i := 0; i < ctx.NumFuns(); i++ {
		id := ir.FunID(i)
		if ctx.Fun(id).Defined() {
			continue
		}
		if err := e.emitDeclare(id); err != nil {
			return "", err
		}
	}
	e.buf.WriteString("\n")
	for i := 0; i < ctx.NumFuns(); i++ {
		id := ir.FunID(i)
		if !ctx.Fun(id).Defined() {
			continue
		}
		if err := e.emitDefine(id); err != nil {
			return "", err
		}
	}
	return e.buf.String(), nil
}

func (e *Emitter) prepareSig(id ir.FunID) error {
	fun := e.ctx.Fun(id)
	info := e.ctx.Types.Fn(fun.Type)

	ret, err := llvmType(e.ctx.Types, info.Ret)
	if err != nil {
		return fmt.Errorf("%s: %w", e.symbol(fun.Name), err)
	}
	params := make([]string, 0, len(info.Params))
	for _, p := range info.Params {
		pt, err := llvmValueType(e.ctx.Types, p.Type)
		if err != nil {
			return fmt.Errorf("%s: %w", e.symbol(fun.Name), err)
		}
		params = append(params, pt)
	}
	e.sigs[id] = funcSig{ret: ret, params: params, variadic: info.Variadic}
	return nil
}

func (e *Emitter) emitDeclare(id ir.FunID) error {
	fun := e.ctx.Fun(id)
	sig := e.sigs[id]
	params := strings.Join(sig.params, ", ")
	if sig.variadic {
		if params != "" {
			params += ", "
		}
		params += "..."
	}
	fmt.Fprintf(&e.buf, "declare %s @%s(%s)\n", sig.ret, e.symbol(fun.Name), params)
	return nil
}

func (e *Emitter) emitDefine(id ir.FunID) error {
	fun := e.ctx.Fun(id)
	sig := e.sigs[id]

	fe := &funcEmitter{
		e:      e,
		fun:    fun,
		name:   e.symbol(fun.Name),
		slots:  make(map[ir.VarID]string),
		params: make(map[ir.VarID]int),
	}

	paramDecls := make([]string, 0, len(fun.Body.Params))
	for i, v := range fun.Body.Params {
		fe.params[v] = i
		paramDecls = append(paramDecls, fmt.Sprintf("%s %%p%d", sig.params[i], i))
	}
	fmt.Fprintf(&e.buf, "define %s @%s(%s) {\n", sig.ret, e.symbol(fun.Name), strings.Join(paramDecls, ", "))

	for i, v := range append(append([]ir.VarID{}, fun.Body.Params...), fun.Body.Locals...) {
		fe.slots[v] = fmt.Sprintf("v%d", i)
	}

	for _, bb := range fun.Body.Blocks {
		fmt.Fprintf(&e.buf, "bb%d:\n", bb)
		if bb == fun.Body.Entry {
			if err := fe.emitAllocas(); err != nil {
				return err
			}
		}
		block := e.ctx.Block(bb)
		for i := range block.Stmts {
			if err := fe.emitStmt(&block.Stmts[i]); err != nil {
				return err
			}
		}
		if err := fe.emitTerminator(&block.Term); err != nil {
			return err
		}
	}
	e.buf.WriteString("}\n\n")
	return nil
}

// emitAllocas reserves a stack slot for every parameter and local, then
// spills the incoming arguments. Anonymous locals back expression
// statements.
func (fe *funcEmitter) emitAllocas() error {
	body := fe.fun.Body
	for _, v := range append(append([]ir.VarID{}, body.Params...), body.Locals...) {
		ty, err := llvmValueType(fe.e.ctx.Types, fe.e.ctx.Var(v).Type)
		if err != nil {
			return fmt.Errorf("%s: %w", fe.name, err)
		}
		fmt.Fprintf(&fe.e.buf, "  %%%s = alloca %s\n", fe.slots[v], ty)
	}
	for i, v := range body.Params {
		ty, err := llvmValueType(fe.e.ctx.Types, fe.e.ctx.Var(v).Type)
		if err != nil {
			return err
		}
		fmt.Fprintf(&fe.e.buf, "  store %s %%p%d, ptr %%%s\n", ty, i, fe.slots[v])
	}
	return nil
}

func (fe *funcEmitter) tmp() string {
	fe.tmpID++
	return fmt.Sprintf("t%d", fe.tmpID)
}

func (fe *funcEmitter) emitStmt(s *ir.Stmt) error {
	switch s.Kind {
	case ir.StmtVarLive:
		// Storage is reserved up front; liveness markers need no code.
		return nil
	case ir.StmtStore:
		val, ty, err := fe.emitExpr(&s.Store.Val)
		if err != nil {
			return err
		}
		if ty == "void" {
			// A unit-typed call lowered as a store; the call itself is
			// already emitted and there is nothing to spill.
			return nil
		}
		slot, ok := fe.slots[s.Store.Var]
		if !ok {
			return fmt.Errorf("%s: store to variable %d without a slot", fe.name, s.Store.Var)
		}
		fmt.Fprintf(&fe.e.buf, "  store %s %s, ptr %%%s\n", ty, val, slot)
		return nil
	default:
		return fmt.Errorf("%s: unknown statement kind %d", fe.name, s.Kind)
	}
}

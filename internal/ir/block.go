package ir

// Block is a straight-line statement sequence ending in one terminator.
// TermNone marks a block still under construction; a finished function must
// not contain any.
type Block struct {
	Stmts []Stmt
	Term  Terminator
}

// Terminated reports whether the block has received its terminator.
func (b *Block) Terminated() bool {
	return b.Term.Kind != TermNone
}

// Push appends a statement.
func (b *Block) Push(s Stmt) {
	b.Stmts = append(b.Stmts, s)
}

// StmtKind enumerates basic-block statements.
type StmtKind uint8

const (
	StmtVarLive StmtKind = iota + 1
	StmtStore
)

// Stmt is one basic-block statement. Only the payload matching Kind is set.
type Stmt struct {
	Kind StmtKind

	VarLive VarID
	Store   StoreStmt
}

// StoreStmt assigns a computed value to a variable's storage.
type StoreStmt struct {
	Var VarID
	Val Expr
}

// MakeVarLive marks a variable's storage as live from this point.
func MakeVarLive(v VarID) Stmt {
	return Stmt{Kind: StmtVarLive, VarLive: v}
}

// MakeStore builds a store statement.
func MakeStore(v VarID, val Expr) Stmt {
	return Stmt{Kind: StmtStore, Store: StoreStmt{Var: v, Val: val}}
}

// TermKind enumerates block terminators.
type TermKind uint8

const (
	TermNone TermKind = iota
	TermReturn
	TermJmp
	TermJmpIf
	TermJmpMatch
)

// Terminator ends a basic block. Only the payload matching Kind is set.
type Terminator struct {
	Kind TermKind

	Return   ReturnTerm
	Jmp      JmpTerm
	JmpIf    JmpIfTerm
	JmpMatch JmpMatchTerm
}

// ReturnTerm leaves the function, optionally with a value.
type ReturnTerm struct {
	HasValue bool
	Value    Expr
}

// JmpTerm transfers control unconditionally.
type JmpTerm struct {
	Target BBID
}

// JmpIfTerm branches on a Bool condition.
type JmpIfTerm struct {
	Cond Expr
	Then BBID
	Else BBID
}

// MatchArm routes one sum-type discriminant to a block.
type MatchArm struct {
	Discriminant DiscriminantID
	Target       BBID
}

// JmpMatchTerm dispatches over a sum value's tag.
type JmpMatchTerm struct {
	Value   Expr
	Arms    []MatchArm
	Default BBID
}

// Terminator constructors.

func MakeReturn(val Expr) Terminator {
	return Terminator{Kind: TermReturn, Return: ReturnTerm{HasValue: true, Value: val}}
}

func MakeReturnUnit() Terminator {
	return Terminator{Kind: TermReturn}
}

func MakeJmp(target BBID) Terminator {
	return Terminator{Kind: TermJmp, Jmp: JmpTerm{Target: target}}
}

func MakeJmpIf(cond Expr, then, els BBID) Terminator {
	return Terminator{Kind: TermJmpIf, JmpIf: JmpIfTerm{Cond: cond, Then: then, Else: els}}
}

func MakeJmpMatch(value Expr, arms []MatchArm, def BBID) Terminator {
	return Terminator{Kind: TermJmpMatch, JmpMatch: JmpMatchTerm{Value: value, Arms: arms, Default: def}}
}

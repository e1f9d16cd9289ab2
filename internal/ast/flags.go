package ast

// FunFlags carry declaration modifiers on a function.
type FunFlags uint8

const (
	FunFlagExtern FunFlags = 1 << iota
	FunFlagVariadic
)

// IntegerWidth is the bit width of an integer type.
type IntegerWidth uint8

const (
	Width8  IntegerWidth = 8
	Width16 IntegerWidth = 16
	Width32 IntegerWidth = 32
	Width64 IntegerWidth = 64
)

// Package ir defines the typed intermediate representation: interned types,
// arena-stored functions, basic blocks and variables, and the expressions
// that flow between them. All cross-references use opaque handles scoped to
// one Context.
package ir

import "fmt"

// TypeID uniquely identifies a type inside a Context's interner.
type TypeID uint32

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindUint
	KindFloat
	KindBool
	KindUnit
	KindPtr
	KindArray
	KindStruct
	KindSum
	KindFn
	KindAlias
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindUnit:
		return "unit"
	case KindPtr:
		return "ptr"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindSum:
		return "sum"
	case KindFn:
		return "fn"
	case KindAlias:
		return "alias"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width captures the precision of integers and floats.
type Width uint8

const (
	Width8  Width = 8
	Width16 Width = 16
	Width32 Width = 32
	Width64 Width = 64
)

// Type is a compact descriptor for any supported type. Composite kinds
// (struct, sum, fn, alias) keep their fields in interner side tables,
// addressed by Payload.
type Type struct {
	Kind    Kind
	Elem    TypeID // pointer/array element
	Count   uint32 // array length
	Width   Width  // numeric primitives
	Payload uint32 // struct/sum/fn/alias side-table index
}

// IsInteger reports whether the type is a signed or unsigned integer.
func (t Type) IsInteger() bool {
	return t.Kind == KindInt || t.Kind == KindUint
}

// IsNumeric reports whether the type is an integer or a float.
func (t Type) IsNumeric() bool {
	return t.IsInteger() || t.Kind == KindFloat
}

// Descriptor helpers ---------------------------------------------------------

// MakeInt describes a signed integer of the given width.
func MakeInt(width Width) Type {
	return Type{Kind: KindInt, Width: width}
}

// MakeUint describes an unsigned integer of the given width.
func MakeUint(width Width) Type {
	return Type{Kind: KindUint, Width: width}
}

// MakeFloat describes a floating-point type (Width32 or Width64).
func MakeFloat(width Width) Type {
	return Type{Kind: KindFloat, Width: width}
}

// MakePtr describes a raw pointer to elem.
func MakePtr(elem TypeID) Type {
	return Type{Kind: KindPtr, Elem: elem}
}

// MakeArray describes a fixed-length array of elem.
func MakeArray(elem TypeID, count uint32) Type {
	return Type{Kind: KindArray, Elem: elem, Count: count}
}

// Side-table payloads --------------------------------------------------------

// StructField is one named field of a struct type.
type StructField struct {
	Type TypeID
	Name string
}

// StructInfo holds the ordered field list of a struct type.
type StructInfo struct {
	Name   string
	Fields []StructField
}

// FieldIndex returns the position of the named field, or -1.
func (s *StructInfo) FieldIndex(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// SumInfo holds the ordered variant list of a tagged union. The runtime
// discriminant of variant i is i.
type SumInfo struct {
	Name     string
	Variants []TypeID
}

// FnParam is one parameter of a function type. Name may be empty.
type FnParam struct {
	Type TypeID
	Name string
}

// FnInfo holds a function signature.
type FnInfo struct {
	Params   []FnParam
	Ret      TypeID
	Variadic bool
}

// AliasInfo holds a named alias and the type it stands for.
type AliasInfo struct {
	Name       string
	Underlying TypeID
}

package ir

import (
	"fmt"

	"fortio.org/safecast"
)

// Fixed handles for the pre-registered primitive types. These are the first
// thirteen insertions of every interner, in this exact order.
const (
	I8 TypeID = iota
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	Bool
	Unit
	F32
	F64
	Invalid
)

// Interner deduplicates structural types behind stable TypeIDs. Scalars,
// pointers and arrays are deduplicated by value; struct, sum, fn and alias
// types are nominal and get a fresh handle per insertion, with their payload
// stored in a side table.
type Interner struct {
	types   []Type
	index   map[typeKey]TypeID
	structs []StructInfo
	sums    []SumInfo
	fns     []FnInfo
	aliases []AliasInfo
}

type typeKey struct {
	Kind    Kind
	Elem    TypeID
	Count   uint32
	Width   Width
	Payload uint32
}

// NewInterner constructs an interner seeded with the fixed primitives.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[typeKey]TypeID, 64),
	}
	seed := []Type{
		MakeInt(Width8), MakeInt(Width16), MakeInt(Width32), MakeInt(Width64),
		MakeUint(Width8), MakeUint(Width16), MakeUint(Width32), MakeUint(Width64),
		{Kind: KindBool}, {Kind: KindUnit},
		MakeFloat(Width32), MakeFloat(Width64),
		{Kind: KindInvalid},
	}
	for i, t := range seed {
		if id := in.Intern(t); id != TypeID(i) {
			panic(fmt.Sprintf("ir: primitive %v seeded at %d, want %d", t.Kind, id, i))
		}
	}
	return in
}

// Intern ensures the descriptor has a stable TypeID, reusing an existing
// handle for a structurally identical type.
func (in *Interner) Intern(t Type) TypeID {
	key := typeKey{Kind: t.Kind, Elem: t.Elem, Count: t.Count, Width: t.Width, Payload: t.Payload}
	if id, ok := in.index[key]; ok {
		return id
	}
	return in.internRaw(t, key)
}

func (in *Interner) internRaw(t Type, key typeKey) TypeID {
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("ir: len(types) overflow: %w", err))
	}
	id := TypeID(n)
	in.types = append(in.types, t)
	in.index[key] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id was not issued by this interner. A stale or
// foreign handle is a compiler bug, not a user error.
func (in *Interner) MustLookup(id TypeID) Type {
	t, ok := in.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("ir: TypeID %d not owned by this interner", id))
	}
	return t
}

// Ptr interns a pointer to elem.
func (in *Interner) Ptr(elem TypeID) TypeID {
	return in.Intern(MakePtr(elem))
}

// Array interns a fixed-length array of elem.
func (in *Interner) Array(elem TypeID, count uint32) TypeID {
	return in.Intern(MakeArray(elem, count))
}

// Nominal insertions ---------------------------------------------------------

func (in *Interner) sideIndex(n int) uint32 {
	idx, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("ir: side table overflow: %w", err))
	}
	return idx
}

// InternStruct registers a struct type. Every call yields a fresh handle:
// two structs with identical fields are still distinct types.
func (in *Interner) InternStruct(info StructInfo) TypeID {
	idx := in.sideIndex(len(in.structs))
	in.structs = append(in.structs, info)
	t := Type{Kind: KindStruct, Payload: idx}
	return in.internRaw(t, typeKey{Kind: KindStruct, Payload: idx})
}

// InternSum registers a tagged-union type.
func (in *Interner) InternSum(info SumInfo) TypeID {
	idx := in.sideIndex(len(in.sums))
	in.sums = append(in.sums, info)
	t := Type{Kind: KindSum, Payload: idx}
	return in.internRaw(t, typeKey{Kind: KindSum, Payload: idx})
}

// InternFn registers a function signature type.
func (in *Interner) InternFn(info FnInfo) TypeID {
	idx := in.sideIndex(len(in.fns))
	in.fns = append(in.fns, info)
	t := Type{Kind: KindFn, Payload: idx}
	return in.internRaw(t, typeKey{Kind: KindFn, Payload: idx})
}

// InternAlias registers a named alias for an existing type.
func (in *Interner) InternAlias(info AliasInfo) TypeID {
	idx := in.sideIndex(len(in.aliases))
	in.aliases = append(in.aliases, info)
	t := Type{Kind: KindAlias, Elem: info.Underlying, Payload: idx}
	return in.internRaw(t, typeKey{Kind: KindAlias, Elem: info.Underlying, Payload: idx})
}

// Payload accessors. Each panics when the handle does not carry the matching
// kind, for the same reason MustLookup does.

func (in *Interner) Struct(id TypeID) *StructInfo {
	t := in.MustLookup(id)
	if t.Kind != KindStruct {
		panic(fmt.Sprintf("ir: TypeID %d is %v, not a struct", id, t.Kind))
	}
	return &in.structs[t.Payload]
}

func (in *Interner) Sum(id TypeID) *SumInfo {
	t := in.MustLookup(id)
	if t.Kind != KindSum {
		panic(fmt.Sprintf("ir: TypeID %d is %v, not a sum", id, t.Kind))
	}
	return &in.sums[t.Payload]
}

func (in *Interner) Fn(id TypeID) *FnInfo {
	t := in.MustLookup(id)
	if t.Kind != KindFn {
		panic(fmt.Sprintf("ir: TypeID %d is %v, not a fn", id, t.Kind))
	}
	return &in.fns[t.Payload]
}

func (in *Interner) Alias(id TypeID) *AliasInfo {
	t := in.MustLookup(id)
	if t.Kind != KindAlias {
		panic(fmt.Sprintf("ir: TypeID %d is %v, not an alias", id, t.Kind))
	}
	return &in.aliases[t.Payload]
}

// Resolve follows alias chains down to a non-alias type descriptor.
func (in *Interner) Resolve(id TypeID) (TypeID, Type) {
	t := in.MustLookup(id)
	for t.Kind == KindAlias {
		id = in.aliases[t.Payload].Underlying
		t = in.MustLookup(id)
	}
	return id, t
}

// Package llvm renders a lowered ir.Context as textual LLVM IR. The output
// is plain .ll text handed to an external toolchain; no bindings are linked.
package llvm

import (
	"fmt"
	"strings"

	"cinder/internal/diag"
	"cinder/internal/ir"
	"cinder/internal/source"
)

// llvmType maps a TypeID to its LLVM spelling. Aliases are resolved; unit
// maps to void.
func llvmType(in *ir.Interner, id ir.TypeID) (string, error) {
	id, t := in.Resolve(id)
	switch t.Kind {
	case ir.KindUnit:
		return "void", nil
	case ir.KindBool:
		return "i1", nil
	case ir.KindInt, ir.KindUint:
		return fmt.Sprintf("i%d", t.Width), nil
	case ir.KindFloat:
		if t.Width == ir.Width32 {
			return "float", nil
		}
		return "double", nil
	case ir.KindPtr, ir.KindFn:
		return "ptr", nil
	case ir.KindArray:
		elem, err := llvmType(in, t.Elem)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("[%d x %s]", t.Count, elem), nil
	case ir.KindSum:
		// Tag word plus one payload word; variants larger than a word live
		// behind a pointer stored in the payload.
		return "{ i32, i64 }", nil
	case ir.KindStruct:
		fields := in.Struct(id).Fields
		parts := make([]string, 0, len(fields))
		for _, f := range fields {
			ft, err := llvmType(in, f.Type)
			if err != nil {
				return "", err
			}
			parts = append(parts, ft)
		}
		return "{ " + strings.Join(parts, ", ") + " }", nil
	default:
		return "", diag.NewError(diag.CGUnsupportedType, source.Span{},
			fmt.Sprintf("no lowering for type %s", ir.Typename(in, id)))
	}
}

// llvmValueType is llvmType with void flattened to i8, for slots that must
// be storable.
func llvmValueType(in *ir.Interner, id ir.TypeID) (string, error) {
	ty, err := llvmType(in, id)
	if err != nil {
		return "", err
	}
	if ty == "void" {
		return "i8", nil
	}
	return ty, nil
}

package ir

import (
	"strconv"
	"strings"
)

// Typename renders a type handle for diagnostics: `i32`, `bool`, `()`,
// `*[4]{i32 x,}`, `fun (i32 a) -> bool`, `INVALID`. The whole rendering
// streams into a single builder, recursing only as deep as the type nests.
func Typename(in *Interner, id TypeID) string {
	var sb strings.Builder
	WriteTypename(&sb, in, id)
	return sb.String()
}

// WriteTypename appends the rendering of id to sb.
func WriteTypename(sb *strings.Builder, in *Interner, id TypeID) {
	t := in.MustLookup(id)
	switch t.Kind {
	case KindInt:
		sb.WriteByte('i')
		sb.WriteString(strconv.Itoa(int(t.Width)))
	case KindUint:
		sb.WriteByte('u')
		sb.WriteString(strconv.Itoa(int(t.Width)))
	case KindFloat:
		sb.WriteByte('f')
		sb.WriteString(strconv.Itoa(int(t.Width)))
	case KindBool:
		sb.WriteString("bool")
	case KindUnit:
		sb.WriteString("()")
	case KindPtr:
		sb.WriteByte('*')
		WriteTypename(sb, in, t.Elem)
	case KindArray:
		sb.WriteByte('[')
		sb.WriteString(strconv.FormatUint(uint64(t.Count), 10))
		sb.WriteByte(']')
		WriteTypename(sb, in, t.Elem)
	case KindStruct:
		sb.WriteByte('{')
		for _, f := range in.structs[t.Payload].Fields {
			WriteTypename(sb, in, f.Type)
			sb.WriteByte(' ')
			sb.WriteString(f.Name)
			sb.WriteByte(',')
		}
		sb.WriteByte('}')
	case KindSum:
		for i, v := range in.sums[t.Payload].Variants {
			if i > 0 {
				sb.WriteString(" | ")
			}
			WriteTypename(sb, in, v)
		}
	case KindFn:
		info := in.fns[t.Payload]
		sb.WriteString("fun (")
		for i, p := range info.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			WriteTypename(sb, in, p.Type)
			if p.Name != "" {
				sb.WriteByte(' ')
				sb.WriteString(p.Name)
			}
		}
		sb.WriteString(") -> ")
		WriteTypename(sb, in, info.Ret)
	case KindAlias:
		sb.WriteString(in.aliases[t.Payload].Name)
	default:
		sb.WriteString("INVALID")
	}
}

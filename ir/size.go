package ir

// SizeInBytes returns the in-memory and in-storage footprint of ty. Scalars
// occupy a full word, strings are rounded up to word alignment, unions are as
// large as their largest variant.
func SizeInBytes(ctx *Context, ty Type) (uint64, error) {
	switch ty.Kind {
	case KindUnit, KindBool, KindUint:
		return 8, nil
	case KindB256:
		return 32, nil
	case KindString:
		return (ty.Len + 7) / 8 * 8, nil
	case KindArray:
		elem, n, err := ctx.ArrayType(ty)
		if err != nil {
			return 0, err
		}
		size, err := SizeInBytes(ctx, elem)
		if err != nil {
			return 0, err
		}
		return size * n, nil
	case KindStruct, KindUnion:
		fields, err := ctx.FieldTypes(ty)
		if err != nil {
			return 0, err
		}
		var total uint64
		for _, f := range fields {
			size, err := SizeInBytes(ctx, f)
			if err != nil {
				return 0, err
			}
			if ty.Kind == KindStruct {
				total += size
			} else if size > total {
				total = size
			}
		}
		return total, nil
	}
	return 0, nil
}

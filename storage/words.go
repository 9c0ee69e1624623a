package storage

import (
	"github.com/pkg/errors"

	"github.com/unicornultrafoundation/go-slotinit/common"
	"github.com/unicornultrafoundation/go-slotinit/ir"
)

// SerializeToWords packs constant c, stored as type ty, into words using a
// default encoder. See Encoder.SerializeToWords.
func SerializeToWords(c *ir.Constant, ty ir.Type, ctx *ir.Context) ([]common.Word, error) {
	return newDefaultEncoder(ctx).SerializeToWords(c, ty)
}

// SerializeToWords packs constant c, stored as type ty, into words. Unions
// are left padded up to the size of ty so every variant occupies the same
// words. An undefined constant packs to nothing.
func (e *Encoder) SerializeToWords(c *ir.Constant, ty ir.Type) ([]common.Word, error) {
	return e.words(c, ty, common.HashLength)
}

// words packs c, padding strings to a multiple of strAlign bytes.
func (e *Encoder) words(c *ir.Constant, ty ir.Type, strAlign int) ([]common.Word, error) {
	if c.IsUndef() {
		return nil, nil
	}
	switch ty.Kind {
	case ir.KindUnit:
		if _, ok := c.Value.(ir.UnitValue); ok {
			return []common.Word{{}}, nil
		}
	case ir.KindBool:
		if b, ok := c.Value.(ir.BoolValue); ok {
			var w common.Word
			if b {
				w[common.WordLength-1] = 0x01
			}
			return []common.Word{w}, nil
		}
	case ir.KindUint:
		if n, ok := c.Value.(ir.UintValue); ok {
			return []common.Word{common.Uint64ToWord(uint64(n))}, nil
		}
	case ir.KindB256:
		if b, ok := c.Value.(ir.B256Value); ok {
			words := make([]common.Word, common.WordsPerSlot)
			for i := range words {
				copy(words[i][:], b[i*common.WordLength:])
			}
			return words, nil
		}
	case ir.KindString:
		if s, ok := c.Value.(ir.StringValue); ok {
			return stringWords(s, strAlign), nil
		}
	case ir.KindArray:
		return nil, errors.WithStack(ErrArrayInStorage)
	case ir.KindStruct:
		if fields, ok := c.Value.(ir.StructValue); ok {
			tys, err := e.fieldTypes(ty, len(fields))
			if err != nil {
				return nil, err
			}
			var words []common.Word
			for i, f := range fields {
				fw, err := e.words(f, tys[i], strAlign)
				if err != nil {
					return nil, err
				}
				words = append(words, fw...)
			}
			return words, nil
		}
	case ir.KindUnion:
		return e.unionWords(c, ty)
	}
	return nil, e.mismatch(c, ty)
}

// stringWords right pads s with zeros to a multiple of align bytes.
func stringWords(s []byte, align int) []common.Word {
	padded := make([]byte, (len(s)+align-1)/align*align)
	copy(padded, s)

	words := make([]common.Word, len(padded)/common.WordLength)
	for i := range words {
		copy(words[i][:], padded[i*common.WordLength:])
	}
	return words
}

// unionWords encodes c against its own type and left pads it to the size of
// the union. Strings in the payload are only word aligned, matching their
// size in the union.
func (e *Encoder) unionWords(c *ir.Constant, union ir.Type) ([]common.Word, error) {
	if c.Ty.Kind == ir.KindUnion {
		return nil, errors.Wrapf(ErrNestedUnion, "%s stored as %s", e.ctx.TypeString(c.Ty), e.ctx.TypeString(union))
	}
	unionSize, err := ir.SizeInBytes(e.ctx, union)
	if err != nil {
		return nil, err
	}
	valueSize, err := ir.SizeInBytes(e.ctx, c.Ty)
	if err != nil {
		return nil, err
	}
	unionWords, valueWords := unionSize/common.WordLength, valueSize/common.WordLength
	if valueWords > unionWords {
		return nil, errors.Wrapf(ErrUnionOverflow, "%s (%d words) stored as %s (%d words)",
			e.ctx.TypeString(c.Ty), valueWords, e.ctx.TypeString(union), unionWords)
	}

	payload, err := e.words(c, c.Ty, common.WordLength)
	if err != nil {
		return nil, err
	}
	words := make([]common.Word, unionWords-valueWords, unionWords-valueWords+uint64(len(payload)))
	return append(words, payload...), nil
}

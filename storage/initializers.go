package storage

import (
	"github.com/pkg/errors"

	"github.com/unicornultrafoundation/go-slotinit/common"
	"github.com/unicornultrafoundation/go-slotinit/ir"
)

// Initializer is one storage slot and the value it holds at deployment.
type Initializer struct {
	Slot  common.Hash `json:"key"`
	Value common.Hash `json:"value"`
}

// SerializeToStorageInitializers lays out constant c of type ty, stored in
// variable ix under path, using a default encoder. See
// Encoder.SerializeToStorageInitializers.
func SerializeToStorageInitializers(c *ir.Constant, ty ir.Type, ctx *ir.Context, ix StateIndex, path Path) ([]Initializer, error) {
	return newDefaultEncoder(ctx).SerializeToStorageInitializers(c, ty, ix, path)
}

// SerializeToStorageInitializers lays out constant c of type ty, stored in
// variable ix under path, as storage slots. Every scalar leaf of a struct gets
// a slot of its own, keyed by its field path. Unions and strings are packed
// into words and spread over consecutive slots starting at the key of their
// path. This matches how compiled code addresses storage on reads and writes.
func (e *Encoder) SerializeToStorageInitializers(c *ir.Constant, ty ir.Type, ix StateIndex, path Path) ([]Initializer, error) {
	inits, err := e.initializers(c, ty, ix, path)
	if err != nil {
		return nil, err
	}
	slotsEmitted.Add(float64(len(inits)))
	return inits, nil
}

func (e *Encoder) initializers(c *ir.Constant, ty ir.Type, ix StateIndex, path Path) ([]Initializer, error) {
	if c.IsUndef() {
		return nil, nil
	}
	switch ty.Kind {
	case ir.KindUnit:
		if _, ok := c.Value.(ir.UnitValue); ok {
			return e.single(ix, path, common.Hash{}), nil
		}
	case ir.KindBool:
		if b, ok := c.Value.(ir.BoolValue); ok {
			var v common.Hash
			if b {
				v[common.HashLength-1] = 0x01
			}
			return e.single(ix, path, v), nil
		}
	case ir.KindUint:
		if n, ok := c.Value.(ir.UintValue); ok {
			w := common.Uint64ToWord(uint64(n))
			return e.single(ix, path, common.BytesToHash(w[:])), nil
		}
	case ir.KindB256:
		if b, ok := c.Value.(ir.B256Value); ok {
			return e.single(ix, path, common.Hash(b)), nil
		}
	case ir.KindArray:
		return nil, errors.WithStack(ErrArrayInStorage)
	case ir.KindStruct:
		if fields, ok := c.Value.(ir.StructValue); ok {
			tys, err := e.fieldTypes(ty, len(fields))
			if err != nil {
				return nil, err
			}
			var inits []Initializer
			for i, f := range fields {
				fi, err := e.initializers(f, tys[i], ix, path.Extend(uint64(i)))
				if err != nil {
					return nil, err
				}
				inits = append(inits, fi...)
			}
			return inits, nil
		}
	case ir.KindString:
		if _, ok := c.Value.(ir.StringValue); ok {
			return e.packed(c, ty, ix, path)
		}
	case ir.KindUnion:
		return e.packed(c, ty, ix, path)
	}
	return nil, e.mismatch(c, ty)
}

func (e *Encoder) single(ix StateIndex, path Path, value common.Hash) []Initializer {
	return []Initializer{{Slot: e.keys.StorageKey(ix, path), Value: value}}
}

// packed spreads the words of c over ceil(size(ty)/32) slots at consecutive
// keys, the first one being the key of path.
func (e *Encoder) packed(c *ir.Constant, ty ir.Type, ix StateIndex, path Path) ([]Initializer, error) {
	words, err := e.SerializeToWords(c, ty)
	if err != nil {
		return nil, err
	}
	for len(words)%common.WordsPerSlot != 0 {
		words = append(words, common.Word{})
	}

	size, err := ir.SizeInBytes(e.ctx, ty)
	if err != nil {
		return nil, err
	}
	slots := (size + common.HashLength - 1) / common.HashLength
	if uint64(len(words)) != slots*common.WordsPerSlot {
		return nil, errors.Wrapf(ErrSlotMisaligned, "%d words for %d slots of %s",
			len(words), slots, e.ctx.TypeString(ty))
	}

	keys := e.keys.SlotKeys(ix, path, slots)
	inits := make([]Initializer, slots)
	for n := range inits {
		var chunk [common.WordsPerSlot]common.Word
		copy(chunk[:], words[n*common.WordsPerSlot:])
		inits[n] = Initializer{Slot: keys[n], Value: common.WordsToHash(chunk)}
	}
	return inits, nil
}

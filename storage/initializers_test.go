package storage

import (
	"bytes"
	"sort"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/unicornultrafoundation/go-slotinit/common"
	"github.com/unicornultrafoundation/go-slotinit/ir"
)

func TestSerializeToStorageInitializers_Bool(t *testing.T) {
	ctx := ir.NewContext()

	inits, err := SerializeToStorageInitializers(ir.ConstBool(true), ir.Bool(), ctx, 0, nil)
	require.NoError(t, err)
	require.Len(t, inits, 1)
	require.Equal(t, StorageKey(0, nil), inits[0].Slot)
	require.Equal(t, common.BytesToHash([]byte{1}), inits[0].Value)

	inits, err = SerializeToStorageInitializers(ir.ConstBool(false), ir.Bool(), ctx, 0, nil)
	require.NoError(t, err)
	require.Len(t, inits, 1)
	require.Equal(t, common.Hash{}, inits[0].Value)
}

func TestSerializeToStorageInitializers_Uint(t *testing.T) {
	ctx := ir.NewContext()
	const n = 0x1122334455667788

	inits, err := SerializeToStorageInitializers(ir.ConstUint(64, n), ir.Uint(64), ctx, 2, Path{5})
	require.NoError(t, err)
	require.Len(t, inits, 1)
	require.Equal(t, StorageKey(2, Path{5}), inits[0].Slot)

	v := inits[0].Value
	require.Equal(t, make([]byte, 24), v[:24])
	require.Equal(t, []byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88}, v[24:])
}

func TestSerializeToStorageInitializers_UnitAndB256(t *testing.T) {
	ctx := ir.NewContext()

	inits, err := SerializeToStorageInitializers(ir.ConstUnit(), ir.Unit(), ctx, 1, nil)
	require.NoError(t, err)
	require.Equal(t, []Initializer{{Slot: StorageKey(1, nil)}}, inits)

	blob := mustHash(t, "0x0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20")
	inits, err = SerializeToStorageInitializers(ir.ConstB256(blob), ir.B256(), ctx, 1, nil)
	require.NoError(t, err)
	require.Equal(t, []Initializer{{Slot: StorageKey(1, nil), Value: blob}}, inits)
}

func TestSerializeToStorageInitializers_StructFieldsGetOwnSlots(t *testing.T) {
	ctx := ir.NewContext()
	ty := ctx.NewStruct(ir.Bool(), ir.Uint(64))
	c := ir.ConstStruct(ty, ir.ConstBool(true), ir.ConstUint(64, 7))

	inits, err := SerializeToStorageInitializers(c, ty, ctx, 0, Path{})
	require.NoError(t, err)
	require.Equal(t, []Initializer{
		{
			Slot:  mustHash(t, "0xd625ff6d8e88efd7bb3476e748e5d5935618d78bfc7eedf584fe909ce0809fc3"),
			Value: common.BytesToHash([]byte{1}),
		},
		{
			Slot:  mustHash(t, "0xc4f29cca5a7266ecbc35c82c55dd2b0059a3db4c83a3410653ec33aded8e9840"),
			Value: common.BytesToHash([]byte{7}),
		},
	}, inits)
}

func TestSerializeToStorageInitializers_NestedStructPaths(t *testing.T) {
	ctx := ir.NewContext()
	inner := ctx.NewStruct(ir.Uint(64), ir.Uint(64))
	ty := ctx.NewStruct(ir.Bool(), inner, ir.B256())
	c := ir.ConstStruct(ty,
		ir.ConstBool(false),
		ir.ConstStruct(inner, ir.ConstUint(64, 1), ir.ConstUint(64, 2)),
		ir.ConstUndef(ir.B256()),
	)

	inits, err := SerializeToStorageInitializers(c, ty, ctx, 4, Path{9})
	require.NoError(t, err)
	require.Len(t, inits, 3)
	require.Equal(t, StorageKey(4, Path{9, 0}), inits[0].Slot)
	require.Equal(t, StorageKey(4, Path{9, 1, 0}), inits[1].Slot)
	require.Equal(t, StorageKey(4, Path{9, 1, 1}), inits[2].Slot)
	require.Equal(t, common.BytesToHash([]byte{2}), inits[2].Value)
}

func TestSerializeToStorageInitializers_StringRoundTrip(t *testing.T) {
	ctx := ir.NewContext()
	for _, s := range []string{
		"a",
		"hello",
		"exactly thirty-two bytes long!!!",
		"a string which needs more than one storage slot",
		"this one is long enough to spill into the third slot of storage, ok",
	} {
		c := ir.ConstString([]byte(s))
		inits, err := SerializeToStorageInitializers(c, c.Ty, ctx, 3, nil)
		require.NoError(t, err)
		require.Len(t, inits, (len(s)+31)/32, s)

		base := StorageKey(3, nil)
		for n, init := range inits {
			require.Equal(t, AddToSlotKey(base, uint64(n)), init.Slot)
		}

		sorted := append([]Initializer(nil), inits...)
		sort.Slice(sorted, func(i, j int) bool {
			return bytes.Compare(sorted[i].Slot[:], sorted[j].Slot[:]) < 0
		})
		var raw []byte
		for _, init := range sorted {
			raw = append(raw, init.Value[:]...)
		}
		require.Equal(t, s, string(bytes.TrimRight(raw, "\x00")))
	}
}

func TestSerializeToStorageInitializers_UnionSpreadsOverConsecutiveSlots(t *testing.T) {
	ctx := ir.NewContext()
	wide := ctx.NewStruct(ir.B256(), ir.B256())
	union := ctx.NewUnion(ir.B256(), wide)
	blob := common.BytesToHash([]byte{0xab, 0xcd})

	inits, err := SerializeToStorageInitializers(ir.ConstB256(blob), union, ctx, 6, Path{2})
	require.NoError(t, err)

	base := StorageKey(6, Path{2})
	require.Equal(t, []Initializer{
		{Slot: base, Value: common.Hash{}},
		{Slot: AddToSlotKey(base, 1), Value: blob},
	}, inits)
}

func TestSerializeToStorageInitializers_Enum(t *testing.T) {
	ctx := ir.NewContext()
	enum := ctx.NewEnum(ir.Unit(), ir.Uint(64), ir.B256())

	c, err := ir.EnumConstant(ctx, enum, 1, ir.ConstUint(64, 42))
	require.NoError(t, err)

	inits, err := SerializeToStorageInitializers(c, enum, ctx, 0, nil)
	require.NoError(t, err)
	require.Len(t, inits, 2)

	// tag
	require.Equal(t, StorageKey(0, Path{0}), inits[0].Slot)
	require.Equal(t, common.BytesToHash([]byte{1}), inits[0].Value)
	// payload right aligned within the b256 sized union
	require.Equal(t, StorageKey(0, Path{1}), inits[1].Slot)
	require.Equal(t, common.BytesToHash([]byte{42}), inits[1].Value)
}

func TestSerializeToStorageInitializers_UndefIsEmpty(t *testing.T) {
	ctx := ir.NewContext()
	for _, ty := range []ir.Type{
		ir.Unit(), ir.Bool(), ir.Uint(8), ir.B256(), ir.String(10),
		ctx.NewStruct(ir.Bool(), ir.Bool()),
		ctx.NewUnion(ir.B256()),
		ctx.NewArray(ir.Uint(64), 3),
	} {
		inits, err := SerializeToStorageInitializers(ir.ConstUndef(ty), ty, ctx, 0, nil)
		require.NoError(t, err)
		require.Empty(t, inits, ctx.TypeString(ty))
	}
}

func TestSerializeToStorageInitializers_ArrayFailsWithoutPartialResult(t *testing.T) {
	ctx := ir.NewContext()
	arr := ctx.NewArray(ir.Uint(8), 2)
	ty := ctx.NewStruct(ir.Bool(), arr)
	c := ir.ConstStruct(ty, ir.ConstBool(true), ir.ConstArray(arr, ir.ConstUint(8, 1), ir.ConstUint(8, 2)))

	inits, err := SerializeToStorageInitializers(c, ty, ctx, 0, nil)
	require.ErrorIs(t, err, ErrArrayInStorage)
	require.Nil(t, inits)
}

func TestSerializeToStorageInitializers_EnumWithStringVariant(t *testing.T) {
	ctx := ir.NewContext()
	enum := ctx.NewEnum(ir.String(8), ir.B256())

	c, err := ir.EnumConstant(ctx, enum, 0, ir.ConstString([]byte("abcdefgh")))
	require.NoError(t, err)

	inits, err := SerializeToStorageInitializers(c, enum, ctx, 0, nil)
	require.NoError(t, err)

	var payload common.Hash
	copy(payload[24:], "abcdefgh")
	require.Equal(t, []Initializer{
		{Slot: StorageKey(0, Path{0}), Value: common.Hash{}},
		{Slot: StorageKey(0, Path{1}), Value: payload},
	}, inits)
}

func TestSerializeToStorageInitializers_UnionOfStructWithString(t *testing.T) {
	ctx := ir.NewContext()
	named := ctx.NewStruct(ir.String(5), ir.Uint(64))
	union := ctx.NewUnion(named, ir.B256())
	c := ir.ConstStruct(named, ir.ConstString([]byte("hello")), ir.ConstUint(64, 7))

	inits, err := SerializeToStorageInitializers(c, union, ctx, 2, nil)
	require.NoError(t, err)

	var want common.Hash
	copy(want[16:], "hello")
	want[31] = 7
	require.Equal(t, []Initializer{{Slot: StorageKey(2, nil), Value: want}}, inits)
}

func TestSerializeToStorageInitializers_CountsOnlyEmittedSlots(t *testing.T) {
	ctx := ir.NewContext()
	pair := ctx.NewStruct(ir.Bool(), ir.Bool())
	arr := ctx.NewArray(ir.Uint(8), 1)
	broken := ctx.NewStruct(ir.Bool(), arr)

	before := testutil.ToFloat64(slotsEmitted)
	_, err := SerializeToStorageInitializers(
		ir.ConstStruct(broken, ir.ConstBool(true), ir.ConstArray(arr, ir.ConstUint(8, 1))), broken, ctx, 0, nil)
	require.ErrorIs(t, err, ErrArrayInStorage)
	require.Equal(t, before, testutil.ToFloat64(slotsEmitted))

	inits, err := SerializeToStorageInitializers(
		ir.ConstStruct(pair, ir.ConstBool(true), ir.ConstBool(false)), pair, ctx, 0, nil)
	require.NoError(t, err)
	require.Len(t, inits, 2)
	require.Equal(t, before+2, testutil.ToFloat64(slotsEmitted))
}

func TestSerializeToStorageInitializers_MismatchIsSkippedUnlessStrict(t *testing.T) {
	ctx := ir.NewContext()
	c := ir.ConstBool(true)

	inits, err := newTestEncoder(t, ctx, false).SerializeToStorageInitializers(c, ir.String(4), 0, nil)
	require.NoError(t, err)
	require.Empty(t, inits)

	_, err = newTestEncoder(t, ctx, true).SerializeToStorageInitializers(c, ir.Uint(64), 0, nil)
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestEncoder_KeySchemeChangesSlotsOnly(t *testing.T) {
	ctx := ir.NewContext()
	cfg := DefaultConfig()
	cfg.KeyScheme = SchemeKeccak256
	e, err := NewEncoder(ctx, cfg)
	require.NoError(t, err)

	inits, err := e.SerializeToStorageInitializers(ir.ConstUint(64, 3), ir.Uint(64), 0, nil)
	require.NoError(t, err)
	require.Len(t, inits, 1)
	require.Equal(t, Keccak256([]byte("storage_0")), inits[0].Slot)
	require.Equal(t, common.BytesToHash([]byte{3}), inits[0].Value)

	cfg.KeyScheme = "blake2"
	_, err = NewEncoder(ctx, cfg)
	require.Error(t, err)
}

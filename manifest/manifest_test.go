package manifest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unicornultrafoundation/go-slotinit/common"
	"github.com/unicornultrafoundation/go-slotinit/ir"
	"github.com/unicornultrafoundation/go-slotinit/logger"
	"github.com/unicornultrafoundation/go-slotinit/storage"
)

func newTestEncoder(t *testing.T, ctx *ir.Context) *storage.Encoder {
	logger.SetTestMode(t)
	enc, err := storage.NewEncoder(ctx, storage.DefaultConfig())
	require.NoError(t, err)
	return enc
}

const testDecls = `
[[Var]]
Name = "initialized"
Type = "bool"
Value = "true"

[[Var]]
Name = "config"
Type = "{u64, {bool, u8}}"
Value = "{10, {false, 3}}"

[[Var]]
Name = "unset"
Type = "b256"

[[Var]]
Name = "greeting"
Type = "str[40]"
Value = '"a greeting that spans two storage slots!"'

[[Var]]
Name = "mode"
Type = "enum{(), b256}"
Value = "(0: ())"
`

func TestBuild_LaysOutEveryDeclarationInOrder(t *testing.T) {
	ctx := ir.NewContext()
	decls, err := LoadDeclarations(ctx, "decls.toml", strings.NewReader(testDecls))
	require.NoError(t, err)
	require.Len(t, decls, 5)
	for i, d := range decls {
		require.Equal(t, storage.StateIndex(i), d.Index)
	}

	for _, workers := range []int{0, 1, 3} {
		m, err := Build(newTestEncoder(t, ctx), decls, workers)
		require.NoError(t, err)

		// 1 + 3 + 0 + 2 + (tag + 1 union slot)
		require.Len(t, m, 8)
		require.Equal(t, storage.StorageKey(0, nil), m[0].Slot)
		require.Equal(t, storage.StorageKey(1, storage.Path{0}), m[1].Slot)
		require.Equal(t, storage.StorageKey(1, storage.Path{1, 1}), m[3].Slot)
		require.Equal(t, common.BytesToHash([]byte{3}), m[3].Value)
		require.Equal(t, storage.StorageKey(3, nil), m[4].Slot)
		require.Equal(t, storage.AddToSlotKey(storage.StorageKey(3, nil), 1), m[5].Slot)
		require.Equal(t, storage.StorageKey(4, storage.Path{0}), m[6].Slot)
		require.Equal(t, storage.StorageKey(4, storage.Path{1}), m[7].Slot)

		_, ok := m.Lookup(storage.StorageKey(2, nil))
		require.False(t, ok)
		v, ok := m.Lookup(storage.StorageKey(0, nil))
		require.True(t, ok)
		require.Equal(t, common.BytesToHash([]byte{1}), v)
	}
}

func TestBuild_ReportsFailingVariable(t *testing.T) {
	ctx := ir.NewContext()
	decls, err := ParseDeclarations(ctx, []VarDecl{
		{Name: "ok", Type: "u64", Value: "1"},
		{Name: "list", Type: "[u64; 2]", Value: "[1, 2]"},
	})
	require.NoError(t, err)

	_, err = Build(newTestEncoder(t, ctx), decls, 2)
	require.ErrorIs(t, err, storage.ErrArrayInStorage)
	require.Contains(t, err.Error(), "list")
}

func TestBuild_DetectsSlotCollisions(t *testing.T) {
	ctx := ir.NewContext()
	decls := []Declaration{
		{Name: "a", Index: 7, Type: ir.Bool(), Value: ir.ConstBool(true)},
		{Name: "b", Index: 7, Type: ir.Uint(64), Value: ir.ConstUint(64, 1)},
	}
	_, err := Build(newTestEncoder(t, ctx), decls, 0)
	require.ErrorIs(t, err, ErrSlotCollision)
}

func TestManifest_JSONRoundTrip(t *testing.T) {
	m := Manifest{
		{Slot: storage.StorageKey(0, nil), Value: common.BytesToHash([]byte{1})},
		{Slot: storage.StorageKey(1, nil), Value: common.Hash{}},
	}
	var buf bytes.Buffer
	require.NoError(t, m.WriteJSON(&buf))
	require.Contains(t, buf.String(), `"key": "f383b0ce51358be57daa3b725fe44acdb2d880604e367199080b4379c41bb6ed"`)

	got, err := ReadJSON(&buf)
	require.NoError(t, err)
	require.Equal(t, m, got)

	buf.Reset()
	require.NoError(t, Manifest(nil).WriteJSON(&buf))
	require.Equal(t, "[]\n", buf.String())

	_, err = ReadJSON(strings.NewReader(`[{"key": "0x01"}]`))
	require.Error(t, err)
}

func TestManifest_Sort(t *testing.T) {
	m := Manifest{
		{Slot: common.BytesToHash([]byte{3})},
		{Slot: common.BytesToHash([]byte{1})},
		{Slot: common.BytesToHash([]byte{2})},
	}
	m.Sort()
	for i, init := range m {
		require.Equal(t, common.BytesToHash([]byte{byte(i + 1)}), init.Slot)
	}
}

func TestParseDeclarations_Errors(t *testing.T) {
	for _, vars := range [][]VarDecl{
		{{Type: "bool"}},
		{{Name: "a", Type: "bool"}, {Name: "a", Type: "u8"}},
		{{Name: "a", Type: "bool2"}},
		{{Name: "a", Type: "bool", Value: "yes"}},
	} {
		_, err := ParseDeclarations(ir.NewContext(), vars)
		require.Error(t, err)
	}
}

func TestLoadDeclarations_EmptyFile(t *testing.T) {
	_, err := LoadDeclarations(ir.NewContext(), "empty.toml", strings.NewReader(""))
	require.Error(t, err)
}

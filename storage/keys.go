package storage

import (
	"crypto/sha256"
	"fmt"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"

	"github.com/unicornultrafoundation/go-slotinit/common"
)

// StorageDomainSeparator prefixes every storage key preimage so storage
// addresses never collide with hashes taken for other purposes.
const StorageDomainSeparator = "storage_"

// Key schemes
const (
	SchemeSHA256    = "sha256"
	SchemeKeccak256 = "keccak256"
)

// StateIndex identifies a top-level storage variable.
type StateIndex uint64

// Path is the chain of subfield indices leading from a storage variable to
// one of its leaves.
type Path []uint64

// Extend returns a copy of p with i appended. p itself is never modified, so
// siblings extending the same parent don't observe each other.
func (p Path) Extend(i uint64) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = i
	return out
}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = strconv.FormatUint(v, 10)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// HashFunc turns a key preimage into a slot key.
type HashFunc func(data []byte) common.Hash

// SHA256 is the key scheme of the FuelVM.
func SHA256(data []byte) common.Hash {
	return sha256.Sum256(data)
}

// Keccak256 is the legacy Keccak-256 used by EVM targets.
func Keccak256(data []byte) common.Hash {
	var h common.Hash
	d := sha3.NewLegacyKeccak256()
	d.Write(data)
	d.Sum(h[:0])
	return h
}

// SchemeByName resolves a configured key scheme.
func SchemeByName(name string) (HashFunc, error) {
	switch name {
	case SchemeSHA256, "":
		return SHA256, nil
	case SchemeKeccak256:
		return Keccak256, nil
	}
	return nil, fmt.Errorf("unknown key scheme %q (want %q or %q)", name, SchemeSHA256, SchemeKeccak256)
}

// KeyPreimage returns "storage_<ix>_<p0>_<p1>...".
func KeyPreimage(ix StateIndex, path Path) []byte {
	buf := make([]byte, 0, len(StorageDomainSeparator)+4+len(path)*4)
	buf = append(buf, StorageDomainSeparator...)
	buf = strconv.AppendUint(buf, uint64(ix), 10)
	for _, i := range path {
		buf = append(buf, '_')
		buf = strconv.AppendUint(buf, i, 10)
	}
	return buf
}

// StorageKey returns the sha256 slot key of the leaf at path inside
// storage variable ix.
func StorageKey(ix StateIndex, path Path) common.Hash {
	return SHA256(KeyPreimage(ix, path))
}

// AddToSlotKey adds offset to key, read as a big-endian 256 bit integer.
// The sum wraps around modulo 2^256.
func AddToSlotKey(key common.Hash, offset uint64) common.Hash {
	x := new(uint256.Int).SetBytes32(key[:])
	x.AddUint64(x, offset)
	return x.Bytes32()
}

// KeyDeriver hands out storage keys for one key scheme, remembering the
// most recently derived ones. It is safe for concurrent use.
type KeyDeriver struct {
	hash  HashFunc
	cache *lru.Cache
}

// NewKeyDeriver returns a deriver for hash. A cacheSize of 0 disables the cache.
func NewKeyDeriver(hash HashFunc, cacheSize int) (*KeyDeriver, error) {
	d := &KeyDeriver{hash: hash}
	if cacheSize > 0 {
		cache, err := lru.New(cacheSize)
		if err != nil {
			return nil, err
		}
		d.cache = cache
	}
	return d, nil
}

// StorageKey returns the slot key of the leaf at path inside storage
// variable ix.
func (d *KeyDeriver) StorageKey(ix StateIndex, path Path) common.Hash {
	preimage := KeyPreimage(ix, path)
	if d.cache == nil {
		return d.hash(preimage)
	}
	if h, ok := d.cache.Get(string(preimage)); ok {
		keyCacheHits.Inc()
		return h.(common.Hash)
	}
	keyCacheMisses.Inc()
	h := d.hash(preimage)
	d.cache.Add(string(preimage), h)
	return h
}

// SlotKeys returns n consecutive slot keys starting at the key of path.
func (d *KeyDeriver) SlotKeys(ix StateIndex, path Path, n uint64) []common.Hash {
	base := d.StorageKey(ix, path)
	keys := make([]common.Hash, n)
	for i := range keys {
		keys[i] = AddToSlotKey(base, uint64(i))
	}
	return keys
}

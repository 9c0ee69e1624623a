package common

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// HashLength is the expected length of a storage slot key or value
	HashLength = 32
	// WordLength is the length of a VM word
	WordLength = 8
	// WordsPerSlot is how many words fit into one storage slot
	WordsPerSlot = HashLength / WordLength
)

// Hash represents the 32 byte key or value of a storage slot.
type Hash [HashLength]byte

// BytesToHash sets b to hash.
// If b is larger than len(h), b will be cropped from the left.
func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

// HexToHash sets byte representation of s to hash.
// If b is larger than len(h), b will be cropped from the left.
func HexToHash(s string) (Hash, error) {
	b, err := decodeHex(s)
	if err != nil {
		return Hash{}, err
	}
	if len(b) > HashLength {
		return Hash{}, fmt.Errorf("hex string has length %d, want at most %d bytes", len(b), HashLength)
	}
	return BytesToHash(b), nil
}

// WordsToHash packs four words into a slot-sized value, first word first.
func WordsToHash(words [WordsPerSlot]Word) Hash {
	var h Hash
	for i, w := range words {
		copy(h[i*WordLength:], w[:])
	}
	return h
}

// Bytes gets the byte representation of the underlying hash.
func (h Hash) Bytes() []byte { return h[:] }

// Hex converts a hash to a hex string with 0x prefix.
func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

// String implements the stringer interface.
func (h Hash) String() string {
	return h.Hex()
}

// TerminalString implements log.TerminalStringer, formatting a string for console
// output during logging.
func (h Hash) TerminalString() string {
	return fmt.Sprintf("%x..%x", h[:3], h[29:])
}

// SetBytes sets the hash to the value of b.
// If b is larger than len(h), b will be cropped from the left.
func (h *Hash) SetBytes(b []byte) {
	if len(b) > len(h) {
		b = b[len(b)-HashLength:]
	}

	copy(h[HashLength-len(b):], b)
}

// MarshalText returns the hex representation of h without prefix.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(h[:])), nil
}

// UnmarshalText parses a hash in hex syntax, with or without prefix.
func (h *Hash) UnmarshalText(input []byte) error {
	b, err := decodeHex(string(input))
	if err != nil {
		return err
	}
	if len(b) != HashLength {
		return fmt.Errorf("hex string has length %d, want %d bytes", len(b), HashLength)
	}
	copy(h[:], b)
	return nil
}

// Word is the 8 byte unit of packed storage values.
type Word [WordLength]byte

// Uint64ToWord returns the big-endian word of n.
func Uint64ToWord(n uint64) Word {
	var w Word
	for i := WordLength - 1; i >= 0; i-- {
		w[i] = byte(n)
		n >>= 8
	}
	return w
}

// Hex converts a word to a hex string with 0x prefix.
func (w Word) Hex() string { return "0x" + hex.EncodeToString(w[:]) }

func (w Word) String() string { return w.Hex() }

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	return hex.DecodeString(s)
}

// Package ir holds the typed constants and types that storage initializers are
// produced from, together with the aggregate arena they refer to.
package ir

import (
	"fmt"
)

// Kind is the shape of a Type.
type Kind uint8

const (
	KindUnit Kind = iota
	KindBool
	KindUint
	KindB256
	KindString
	KindArray
	KindStruct
	KindUnion
)

func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindUint:
		return "uint"
	case KindB256:
		return "b256"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindUnion:
		return "union"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// AggregateID indexes an aggregate inside a Context.
type AggregateID uint32

// Type describes the shape of a value. Types are plain values and compare
// with ==. Array, struct and union types refer to their contents through
// Aggregate, which is only meaningful together with the Context that created
// the type.
type Type struct {
	Kind Kind
	// Width is the bit width of an unsigned integer.
	Width uint8
	// Len is the byte capacity of a string.
	Len       uint64
	Aggregate AggregateID
}

func Unit() Type { return Type{Kind: KindUnit} }

func Bool() Type { return Type{Kind: KindBool} }

// Uint returns an unsigned integer type of the given bit width.
func Uint(width uint8) Type { return Type{Kind: KindUint, Width: width} }

func B256() Type { return Type{Kind: KindB256} }

// String returns a fixed capacity string type.
func String(capacity uint64) Type { return Type{Kind: KindString, Len: capacity} }

func (t Type) IsAggregate() bool {
	return t.Kind == KindArray || t.Kind == KindStruct || t.Kind == KindUnion
}

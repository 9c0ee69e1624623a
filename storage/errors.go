package storage

import (
	"github.com/pkg/errors"
)

var (
	// ErrArrayInStorage is returned for any array reaching storage. There is
	// no storage layout for arrays.
	ErrArrayInStorage = errors.New("not implemented: arrays in storage")

	// ErrUnionOverflow means a union payload's own type is larger than the
	// union it is stored as.
	ErrUnionOverflow = errors.New("union payload larger than union")
	// ErrNestedUnion means a union payload is itself typed as a union.
	ErrNestedUnion = errors.New("union payload typed as union")
	// ErrSlotMisaligned means the packed words of a value don't fill exactly
	// the slots its type occupies.
	ErrSlotMisaligned = errors.New("packed words do not match storage slots")
	// ErrFieldCount means a struct constant has a different number of fields
	// than its type.
	ErrFieldCount = errors.New("struct constant does not match field types")

	// ErrShapeMismatch is returned in strict mode when the constant's value
	// doesn't fit the type it is encoded as.
	ErrShapeMismatch = errors.New("constant does not match type")
)

// IsUnsupported reports whether err is caused by a value shape that has no
// storage layout.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrArrayInStorage)
}

// IsInternal reports whether err points to an inconsistency between the
// constant, its type and the type sizes, which is a bug in an earlier
// compilation stage rather than in the program being compiled.
func IsInternal(err error) bool {
	for _, target := range []error{ErrUnionOverflow, ErrNestedUnion, ErrSlotMisaligned, ErrFieldCount, ErrShapeMismatch} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

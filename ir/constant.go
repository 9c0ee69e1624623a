package ir

import (
	"github.com/pkg/errors"

	"github.com/unicornultrafoundation/go-slotinit/common"
)

// Value is the payload of a Constant. The set of implementations is closed.
type Value interface {
	isValue()
}

type (
	// Undef is the value of a constant that was never initialized.
	Undef       struct{}
	UnitValue   struct{}
	BoolValue   bool
	UintValue   uint64
	B256Value   common.Hash
	StringValue []byte
	ArrayValue  []*Constant
	StructValue []*Constant
)

func (Undef) isValue()       {}
func (UnitValue) isValue()   {}
func (BoolValue) isValue()   {}
func (UintValue) isValue()   {}
func (B256Value) isValue()   {}
func (StringValue) isValue() {}
func (ArrayValue) isValue()  {}
func (StructValue) isValue() {}

// Constant is a folded, typed literal. Ty is the constant's own type, which
// for a union payload is the type of the active variant rather than the union.
type Constant struct {
	Ty    Type
	Value Value
}

func ConstUndef(ty Type) *Constant { return &Constant{Ty: ty, Value: Undef{}} }

func ConstUnit() *Constant { return &Constant{Ty: Unit(), Value: UnitValue{}} }

func ConstBool(b bool) *Constant { return &Constant{Ty: Bool(), Value: BoolValue(b)} }

func ConstUint(width uint8, n uint64) *Constant {
	return &Constant{Ty: Uint(width), Value: UintValue(n)}
}

func ConstB256(h common.Hash) *Constant { return &Constant{Ty: B256(), Value: B256Value(h)} }

// ConstString returns a string constant whose capacity is the length of s.
func ConstString(s []byte) *Constant {
	return &Constant{Ty: String(uint64(len(s))), Value: StringValue(append([]byte(nil), s...))}
}

func ConstStruct(ty Type, fields ...*Constant) *Constant {
	return &Constant{Ty: ty, Value: StructValue(fields)}
}

func ConstArray(ty Type, elems ...*Constant) *Constant {
	return &Constant{Ty: ty, Value: ArrayValue(elems)}
}

// IsUndef reports whether c carries no value.
func (c *Constant) IsUndef() bool {
	_, ok := c.Value.(Undef)
	return ok
}

// EnumConstant builds the constant of enum variant tag carrying payload.
func EnumConstant(ctx *Context, enum Type, tag uint64, payload *Constant) (*Constant, error) {
	variants, err := ctx.EnumVariants(enum)
	if err != nil {
		return nil, err
	}
	if tag >= uint64(len(variants)) {
		return nil, errors.Errorf("enum has %d variants, got tag %d", len(variants), tag)
	}
	if payload.Ty != variants[tag] {
		return nil, errors.Errorf("variant %d is %s, payload is %s",
			tag, ctx.TypeString(variants[tag]), ctx.TypeString(payload.Ty))
	}
	return ConstStruct(enum, ConstUint(64, tag), payload), nil
}

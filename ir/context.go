package ir

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnknownAggregate is returned when a type refers to an aggregate the
// Context doesn't hold, or holds with a different shape.
var ErrUnknownAggregate = errors.New("unknown aggregate")

type aggregate struct {
	kind   Kind
	fields []Type
	// count of elements, arrays only
	count uint64
	// struct lowered from an enum: {u64 tag, union}
	enum bool
}

// Context is the arena of aggregate contents. Types are added while the
// program is being built; afterwards the Context is only read and may be
// shared between goroutines.
type Context struct {
	aggregates []aggregate
}

func NewContext() *Context {
	return &Context{}
}

func (c *Context) add(a aggregate) Type {
	c.aggregates = append(c.aggregates, a)
	return Type{Kind: a.kind, Aggregate: AggregateID(len(c.aggregates) - 1)}
}

// NewStruct registers a struct with the given field types.
func (c *Context) NewStruct(fields ...Type) Type {
	return c.add(aggregate{kind: KindStruct, fields: append([]Type(nil), fields...)})
}

// NewUnion registers a union of the given variant types.
func (c *Context) NewUnion(variants ...Type) Type {
	return c.add(aggregate{kind: KindUnion, fields: append([]Type(nil), variants...)})
}

// NewArray registers an array of count elements of type elem.
func (c *Context) NewArray(elem Type, count uint64) Type {
	return c.add(aggregate{kind: KindArray, fields: []Type{elem}, count: count})
}

// NewEnum registers the lowered form of an enum: a struct holding the u64
// variant tag followed by the union of all variants.
func (c *Context) NewEnum(variants ...Type) Type {
	union := c.NewUnion(variants...)
	return c.add(aggregate{kind: KindStruct, fields: []Type{Uint(64), union}, enum: true})
}

func (c *Context) lookup(t Type) (*aggregate, error) {
	if !t.IsAggregate() {
		return nil, errors.Wrapf(ErrUnknownAggregate, "%v is not an aggregate type", t.Kind)
	}
	if int(t.Aggregate) >= len(c.aggregates) {
		return nil, errors.Wrapf(ErrUnknownAggregate, "id %d", t.Aggregate)
	}
	a := &c.aggregates[t.Aggregate]
	if a.kind != t.Kind {
		return nil, errors.Wrapf(ErrUnknownAggregate, "id %d is a %v, not a %v", t.Aggregate, a.kind, t.Kind)
	}
	return a, nil
}

// FieldTypes returns the field types of a struct or the variant types of a
// union, in declaration order. The returned slice must not be modified.
func (c *Context) FieldTypes(t Type) ([]Type, error) {
	a, err := c.lookup(t)
	if err != nil {
		return nil, err
	}
	if a.kind == KindArray {
		return nil, errors.Wrap(ErrUnknownAggregate, "arrays have no field types")
	}
	return a.fields, nil
}

// ArrayType returns the element type and element count of an array.
func (c *Context) ArrayType(t Type) (Type, uint64, error) {
	a, err := c.lookup(t)
	if err != nil {
		return Type{}, 0, err
	}
	if a.kind != KindArray {
		return Type{}, 0, errors.Wrapf(ErrUnknownAggregate, "%v is not an array", a.kind)
	}
	return a.fields[0], a.count, nil
}

// IsEnum reports whether t is the lowered struct of an enum.
func (c *Context) IsEnum(t Type) bool {
	a, err := c.lookup(t)
	return err == nil && a.enum
}

// EnumVariants returns the variant types of an enum type.
func (c *Context) EnumVariants(t Type) ([]Type, error) {
	if !c.IsEnum(t) {
		return nil, errors.Wrap(ErrUnknownAggregate, "not an enum")
	}
	return c.FieldTypes(c.aggregates[t.Aggregate].fields[1])
}

// TypeString renders t in the syntax accepted by ParseType.
func (c *Context) TypeString(t Type) string {
	switch t.Kind {
	case KindUnit:
		return "()"
	case KindBool:
		return "bool"
	case KindUint:
		return fmt.Sprintf("u%d", t.Width)
	case KindB256:
		return "b256"
	case KindString:
		return fmt.Sprintf("str[%d]", t.Len)
	case KindArray:
		elem, n, err := c.ArrayType(t)
		if err != nil {
			return "<invalid>"
		}
		return fmt.Sprintf("[%s; %d]", c.TypeString(elem), n)
	case KindStruct, KindUnion:
		prefix := ""
		fields, err := c.FieldTypes(t)
		switch {
		case err != nil:
			return "<invalid>"
		case c.IsEnum(t):
			prefix = "enum"
			fields, _ = c.EnumVariants(t)
		case t.Kind == KindUnion:
			prefix = "union"
		}
		parts := make([]string, len(fields))
		for i, f := range fields {
			parts[i] = c.TypeString(f)
		}
		return prefix + "{" + strings.Join(parts, ", ") + "}"
	}
	return t.Kind.String()
}

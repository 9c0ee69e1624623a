package ir

import (
	"fmt"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/pkg/errors"

	"github.com/unicornultrafoundation/go-slotinit/common"
)

// ParseType parses a type expression and registers any aggregates it
// declares in ctx.
//
//	()  bool  u8 u16 u32 u64  b256  str[N]  [T; N]
//	{T, ...}  union{T, ...}  enum{T, ...}
func ParseType(ctx *Context, src string) (Type, error) {
	p := newParser(ctx, src)
	t, err := p.parseType()
	if err == nil {
		err = p.finish()
	}
	return t, err
}

// ParseConstant parses a literal of type ty. Literals follow the shape of the
// type: (), true, 42, 0x<64 hex digits>, "text", {v, ...} for structs,
// [v, ...] for arrays and (i: v) for variant i of a union or enum. The
// keyword undef stands for an uninitialized value of any type.
func ParseConstant(ctx *Context, ty Type, src string) (*Constant, error) {
	p := newParser(ctx, src)
	c, err := p.parseValue(ty)
	if err == nil {
		err = p.finish()
	}
	return c, err
}

type parser struct {
	s   scanner.Scanner
	tok rune
	ctx *Context
	err error
}

func newParser(ctx *Context, src string) *parser {
	p := &parser{ctx: ctx}
	p.s.Init(strings.NewReader(src))
	p.s.Mode = scanner.GoTokens
	p.s.Error = func(s *scanner.Scanner, msg string) {
		if p.err == nil {
			p.err = errors.Errorf("%s: %s", s.Pos(), msg)
		}
	}
	p.next()
	return p
}

func (p *parser) next() {
	p.tok = p.s.Scan()
}

func (p *parser) errorf(format string, args ...interface{}) error {
	if p.err != nil {
		return p.err
	}
	return errors.Errorf("%s: %s", p.s.Position, fmt.Sprintf(format, args...))
}

func (p *parser) unexpected(want string) error {
	if p.tok == scanner.EOF {
		return p.errorf("expected %s, got end of input", want)
	}
	return p.errorf("expected %s, got %q", want, p.s.TokenText())
}

func (p *parser) expect(tok rune) error {
	if p.tok != tok {
		return p.unexpected(scanner.TokenString(tok))
	}
	p.next()
	return nil
}

func (p *parser) finish() error {
	if p.err != nil {
		return p.err
	}
	if p.tok != scanner.EOF {
		return p.errorf("unexpected %q after end of expression", p.s.TokenText())
	}
	return nil
}

func (p *parser) parseUint(bits int) (uint64, error) {
	if p.tok != scanner.Int {
		return 0, p.unexpected("integer")
	}
	n, err := strconv.ParseUint(p.s.TokenText(), 0, bits)
	if err != nil {
		return 0, p.errorf("%v", err)
	}
	p.next()
	return n, nil
}

func (p *parser) parseType() (Type, error) {
	switch p.tok {
	case '(':
		p.next()
		return Unit(), p.expect(')')
	case '[':
		p.next()
		elem, err := p.parseType()
		if err != nil {
			return Type{}, err
		}
		if err := p.expect(';'); err != nil {
			return Type{}, err
		}
		n, err := p.parseUint(64)
		if err != nil {
			return Type{}, err
		}
		return p.ctx.NewArray(elem, n), p.expect(']')
	case '{':
		fields, err := p.parseTypeList()
		if err != nil {
			return Type{}, err
		}
		return p.ctx.NewStruct(fields...), nil
	case scanner.Ident:
		name := p.s.TokenText()
		p.next()
		switch name {
		case "bool":
			return Bool(), nil
		case "b256":
			return B256(), nil
		case "u8", "u16", "u32", "u64":
			width, _ := strconv.Atoi(name[1:])
			return Uint(uint8(width)), nil
		case "str":
			if err := p.expect('['); err != nil {
				return Type{}, err
			}
			n, err := p.parseUint(64)
			if err != nil {
				return Type{}, err
			}
			return String(n), p.expect(']')
		case "union", "enum":
			variants, err := p.parseTypeList()
			if err != nil {
				return Type{}, err
			}
			if len(variants) == 0 {
				return Type{}, p.errorf("%s without variants", name)
			}
			if name == "enum" {
				return p.ctx.NewEnum(variants...), nil
			}
			return p.ctx.NewUnion(variants...), nil
		}
		return Type{}, p.errorf("unknown type %q", name)
	}
	return Type{}, p.unexpected("type")
}

func (p *parser) parseTypeList() ([]Type, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	var list []Type
	for p.tok != '}' {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		list = append(list, t)
		if p.tok != ',' {
			break
		}
		p.next()
	}
	return list, p.expect('}')
}

func (p *parser) parseValue(ty Type) (*Constant, error) {
	if p.tok == scanner.Ident && p.s.TokenText() == "undef" {
		p.next()
		return ConstUndef(ty), nil
	}
	switch ty.Kind {
	case KindUnit:
		if err := p.expect('('); err != nil {
			return nil, err
		}
		return ConstUnit(), p.expect(')')
	case KindBool:
		if p.tok == scanner.Ident {
			switch p.s.TokenText() {
			case "true":
				p.next()
				return ConstBool(true), nil
			case "false":
				p.next()
				return ConstBool(false), nil
			}
		}
		return nil, p.unexpected("true or false")
	case KindUint:
		n, err := p.parseUint(int(ty.Width))
		if err != nil {
			return nil, err
		}
		return ConstUint(ty.Width, n), nil
	case KindB256:
		text := p.s.TokenText()
		if p.tok != scanner.Int || !strings.HasPrefix(text, "0x") || len(text) != 2+2*common.HashLength {
			return nil, p.unexpected("0x followed by 64 hex digits")
		}
		h, err := common.HexToHash(text)
		if err != nil {
			return nil, p.errorf("%v", err)
		}
		p.next()
		return ConstB256(h), nil
	case KindString:
		if p.tok != scanner.String && p.tok != scanner.RawString {
			return nil, p.unexpected("string")
		}
		s, err := strconv.Unquote(p.s.TokenText())
		if err != nil {
			return nil, p.errorf("%v", err)
		}
		if uint64(len(s)) != ty.Len {
			return nil, p.errorf("string of %d bytes for str[%d]", len(s), ty.Len)
		}
		p.next()
		return &Constant{Ty: ty, Value: StringValue(s)}, nil
	case KindArray:
		elem, n, err := p.ctx.ArrayType(ty)
		if err != nil {
			return nil, err
		}
		elems, err := p.parseValueList('[', ']', func(int) (Type, bool) { return elem, true })
		if err != nil {
			return nil, err
		}
		if uint64(len(elems)) != n {
			return nil, p.errorf("array of %d elements for %s", len(elems), p.ctx.TypeString(ty))
		}
		return ConstArray(ty, elems...), nil
	case KindStruct:
		if p.ctx.IsEnum(ty) {
			variants, err := p.ctx.EnumVariants(ty)
			if err != nil {
				return nil, err
			}
			tag, payload, err := p.parseVariant(variants)
			if err != nil {
				return nil, err
			}
			return EnumConstant(p.ctx, ty, tag, payload)
		}
		fields, err := p.ctx.FieldTypes(ty)
		if err != nil {
			return nil, err
		}
		values, err := p.parseValueList('{', '}', func(i int) (Type, bool) {
			if i >= len(fields) {
				return Type{}, false
			}
			return fields[i], true
		})
		if err != nil {
			return nil, err
		}
		if len(values) != len(fields) {
			return nil, p.errorf("%d fields for %s", len(values), p.ctx.TypeString(ty))
		}
		return ConstStruct(ty, values...), nil
	case KindUnion:
		variants, err := p.ctx.FieldTypes(ty)
		if err != nil {
			return nil, err
		}
		_, payload, err := p.parseVariant(variants)
		return payload, err
	}
	return nil, p.errorf("no literal syntax for %v", ty.Kind)
}

func (p *parser) parseValueList(open, end rune, typeOf func(int) (Type, bool)) ([]*Constant, error) {
	if err := p.expect(open); err != nil {
		return nil, err
	}
	var list []*Constant
	for p.tok != end {
		ty, ok := typeOf(len(list))
		if !ok {
			return nil, p.errorf("too many elements")
		}
		c, err := p.parseValue(ty)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
		if p.tok != ',' {
			break
		}
		p.next()
	}
	return list, p.expect(end)
}

func (p *parser) parseVariant(variants []Type) (uint64, *Constant, error) {
	if err := p.expect('('); err != nil {
		return 0, nil, err
	}
	tag, err := p.parseUint(64)
	if err != nil {
		return 0, nil, err
	}
	if tag >= uint64(len(variants)) {
		return 0, nil, p.errorf("variant %d out of %d", tag, len(variants))
	}
	if err := p.expect(':'); err != nil {
		return 0, nil, err
	}
	payload, err := p.parseValue(variants[tag])
	if err != nil {
		return 0, nil, err
	}
	return tag, payload, p.expect(')')
}

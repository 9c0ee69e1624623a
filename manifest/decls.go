package manifest

import (
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/unicornultrafoundation/go-slotinit/ir"
	"github.com/unicornultrafoundation/go-slotinit/storage"
	"github.com/unicornultrafoundation/go-slotinit/utils/toml"
)

// VarDecl is a storage variable as written in a declarations file:
//
//	[[Var]]
//	Name = "owner"
//	Type = "b256"
//	Value = "0x..."
//
// An empty Value declares an uninitialized variable.
type VarDecl struct {
	Name  string
	Type  string
	Value string
}

// DeclFile is the layout of a declarations file.
type DeclFile struct {
	Var []VarDecl
}

// ParseDeclarations resolves the types and values of vars, registering their
// aggregates in ctx. State indices follow declaration order.
func ParseDeclarations(ctx *ir.Context, vars []VarDecl) ([]Declaration, error) {
	decls := make([]Declaration, len(vars))
	names := make(map[string]bool, len(vars))
	for i, v := range vars {
		if v.Name == "" {
			return nil, errors.Errorf("storage variable #%d has no name", i)
		}
		if names[v.Name] {
			return nil, errors.Errorf("storage variable %s declared twice", v.Name)
		}
		names[v.Name] = true

		ty, err := ir.ParseType(ctx, v.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "type of %s", v.Name)
		}
		value := ir.ConstUndef(ty)
		if strings.TrimSpace(v.Value) != "" {
			value, err = ir.ParseConstant(ctx, ty, v.Value)
			if err != nil {
				return nil, errors.Wrapf(err, "value of %s", v.Name)
			}
		}
		decls[i] = Declaration{
			Name:  v.Name,
			Index: storage.StateIndex(i),
			Type:  ty,
			Value: value,
		}
	}
	return decls, nil
}

// LoadDeclarations reads a declarations file. name is used in error messages.
func LoadDeclarations(ctx *ir.Context, name string, r io.Reader) ([]Declaration, error) {
	var file DeclFile
	if err := toml.Decode(name, r, &file); err != nil {
		return nil, err
	}
	if len(file.Var) == 0 {
		return nil, errors.Wrapf(toml.ErrorEmptySection, "%s: no [[Var]] entries", name)
	}
	return ParseDeclarations(ctx, file.Var)
}

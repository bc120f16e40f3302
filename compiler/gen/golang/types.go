package golang

import (
	"fmt"
	"go/token"
	"go/types"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/stepgen/schema/field"
)

// typeCode returns the jennifer code of a type reference. Package-local named
// types are qualified with src when it is not empty.
func typeCode(t *field.TypeRef, src string) (jen.Code, error) {
	if t == nil {
		return nil, fmt.Errorf("missing type")
	}
	switch t.Kind {
	case field.KindNamed:
		switch {
		case t.PkgPath != "":
			return jen.Qual(t.PkgPath, t.Name), nil
		case predeclared(t.Name) || src == "":
			return jen.Id(t.Name), nil
		case !token.IsExported(t.Name):
			return nil, fmt.Errorf("unexported type %s is not accessible from another package", t.Name)
		default:
			return jen.Qual(src, t.Name), nil
		}
	case field.KindPointer, field.KindSlice, field.KindArray, field.KindChan:
		elem, err := typeCode(t.Elem, src)
		if err != nil {
			return nil, err
		}
		switch t.Kind {
		case field.KindPointer:
			return jen.Op("*").Add(elem), nil
		case field.KindSlice:
			return jen.Index().Add(elem), nil
		case field.KindArray:
			return jen.Index(jen.Id(t.Len)).Add(elem), nil
		}
		switch t.Dir {
		case "send":
			return jen.Chan().Op("<-").Add(elem), nil
		case "recv":
			return jen.Op("<-").Chan().Add(elem), nil
		}
		return jen.Chan().Add(elem), nil
	case field.KindMap:
		key, err := typeCode(t.Key, src)
		if err != nil {
			return nil, err
		}
		elem, err := typeCode(t.Elem, src)
		if err != nil {
			return nil, err
		}
		return jen.Map(key).Add(elem), nil
	case field.KindRaw:
		return jen.Id(t.Expr), nil
	}
	return nil, fmt.Errorf("invalid type %s", t)
}

// zeroValue returns the zero value of a type.
func zeroValue(t *field.TypeRef, code jen.Code) jen.Code {
	switch t.Kind {
	case field.KindPointer, field.KindSlice, field.KindMap, field.KindChan:
		return jen.Nil()
	case field.KindRaw:
		for _, p := range []string{"func", "interface", "map[", "[]", "*", "chan", "<-chan"} {
			if strings.HasPrefix(t.Expr, p) {
				return jen.Nil()
			}
		}
	case field.KindNamed:
		if t.PkgPath != "" || !predeclared(t.Name) {
			break
		}
		switch t.Name {
		case "string":
			return jen.Lit("")
		case "bool":
			return jen.False()
		case "error", "any":
			return jen.Nil()
		default:
			return jen.Lit(0)
		}
	}
	return jen.Op("*").New(code)
}

// predeclared reports whether name is a predeclared Go type.
func predeclared(name string) bool {
	_, ok := types.Universe.Lookup(name).(*types.TypeName)
	return ok
}

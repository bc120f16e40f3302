package load

import (
	"go/ast"
	"go/types"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/syssam/stepgen/schema/field"
)

var majorVersion = regexp.MustCompile(`^v[0-9]+$`)

func collectImports(f *ast.File) map[string]string {
	imports := make(map[string]string, len(f.Imports))
	for _, imp := range f.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		name := importName(p)
		if imp.Name != nil {
			name = imp.Name.Name
		}
		if name == "_" || name == "." {
			continue
		}
		imports[name] = p
	}
	return imports
}

// importName guesses the package name of an import path the way goimports
// does: the last element, skipping a major version suffix, trimmed of a
// "go-" prefix and of anything after a dot.
func importName(p string) string {
	name := path.Base(p)
	if majorVersion.MatchString(name) {
		if dir := path.Dir(p); dir != "." {
			name = path.Base(dir)
		}
	}
	name = strings.TrimPrefix(name, "go-")
	if i := strings.IndexAny(name, ".-"); i > 0 {
		name = name[:i]
	}
	return name
}

// typeRef converts a type expression. Expressions without a structured form
// are kept as source text.
func typeRef(expr ast.Expr, imports map[string]string) *field.TypeRef {
	switch t := expr.(type) {
	case *ast.Ident:
		return field.Named(t.Name)
	case *ast.SelectorExpr:
		if x, ok := t.X.(*ast.Ident); ok {
			if p, ok := imports[x.Name]; ok {
				return field.Qualified(p, x.Name, t.Sel.Name)
			}
		}
	case *ast.StarExpr:
		return field.PointerTo(typeRef(t.X, imports))
	case *ast.ParenExpr:
		return typeRef(t.X, imports)
	case *ast.ArrayType:
		if t.Len == nil {
			return field.SliceOf(typeRef(t.Elt, imports))
		}
		return field.ArrayOf(types.ExprString(t.Len), typeRef(t.Elt, imports))
	case *ast.MapType:
		return field.MapOf(typeRef(t.Key, imports), typeRef(t.Value, imports))
	case *ast.ChanType:
		dir := ""
		switch t.Dir {
		case ast.SEND:
			dir = "send"
		case ast.RECV:
			dir = "recv"
		}
		return field.ChanOf(dir, typeRef(t.Value, imports))
	}
	return field.Raw(types.ExprString(expr))
}

package load

import (
	"errors"
	"fmt"
	"go/ast"
	"go/build"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

const (
	// BuilderDirective marks a struct type as buildable.
	BuilderDirective = "//stepgen:builder"
	// ConstructorDirective selects the constructor of a buildable type.
	ConstructorDirective = "//stepgen:constructor"
	// TagKey is the struct tag key read from fields.
	TagKey = "step"
)

// ErrTypeNotFound is returned when a type requested with WithTypes is not
// declared in the loaded directory.
var ErrTypeNotFound = errors.New("load: type not found")

// Error is a classification error at a source position.
type Error struct {
	Pos  string
	Type string
	Msg  string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Pos != "" {
		b.WriteString(e.Pos)
		b.WriteString(": ")
	}
	if e.Type != "" {
		b.WriteString(e.Type)
		b.WriteString(": ")
	}
	b.WriteString(e.Msg)
	return b.String()
}

// Option configures Load.
type Option func(*loader)

// WithTypes selects struct types by name in addition to the ones carrying a
// builder directive.
func WithTypes(names ...string) Option {
	return func(l *loader) {
		l.types = append(l.types, names...)
	}
}

type loader struct {
	types []string
	fset  *token.FileSet
}

type sourceFile struct {
	ast     *ast.File
	imports map[string]string // local name -> import path
}

// Load parses the Go files of dir and classifies the selected struct types.
// Test files and generated files are skipped. Schemas are returned in
// declaration order.
func Load(dir string, opts ...Option) ([]*Schema, error) {
	l := &loader{fset: token.NewFileSet()}
	for _, opt := range opts {
		opt(l)
	}
	files, pkg, err := l.parseDir(dir)
	if err != nil {
		return nil, err
	}
	pkgPath, err := ImportPath(dir)
	if err != nil {
		return nil, err
	}

	requested := make(map[string]bool, len(l.types))
	for _, name := range l.types {
		requested[name] = false
	}
	var schemas []*Schema
	for _, f := range files {
		for _, decl := range f.ast.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}
				directive, marked, err := parseDirective(doc)
				if err != nil {
					return nil, l.errorf(ts.Pos(), ts.Name.Name, "%v", err)
				}
				if _, ok := requested[ts.Name.Name]; ok {
					requested[ts.Name.Name] = true
					marked = true
				}
				if !marked {
					continue
				}
				st, ok := ts.Type.(*ast.StructType)
				if !ok {
					return nil, l.errorf(ts.Pos(), ts.Name.Name, "buildable type must be a struct")
				}
				if ts.TypeParams != nil {
					return nil, l.errorf(ts.Pos(), ts.Name.Name, "generic types are not supported")
				}
				s := &Schema{
					Name:      ts.Name.Name,
					Package:   pkg,
					PkgPath:   pkgPath,
					Dir:       dir,
					Pos:       l.fset.Position(ts.Pos()).String(),
					Directive: directive,
				}
				if err := l.loadFields(s, f, st); err != nil {
					return nil, err
				}
				schemas = append(schemas, s)
			}
		}
	}
	for _, name := range l.types {
		if !requested[name] {
			return nil, fmt.Errorf("%w: %s in %s", ErrTypeNotFound, name, dir)
		}
	}
	for _, s := range schemas {
		if err := l.loadConstructor(s, files); err != nil {
			return nil, err
		}
	}
	return schemas, nil
}

// parseDir parses every non-test, non-generated Go file of dir that matches
// the default build context, in file name order, and returns them with their
// package name.
func (l *loader) parseDir(dir string) ([]*sourceFile, string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, "", fmt.Errorf("load: reading %s: %w", dir, err)
	}
	var (
		pkg   string
		files []*sourceFile
	)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		match, err := build.Default.MatchFile(dir, name)
		if err != nil {
			return nil, "", fmt.Errorf("load: reading build constraints of %s: %w", name, err)
		}
		if !match {
			continue
		}
		f, err := parser.ParseFile(l.fset, filepath.Join(dir, name), nil, parser.ParseComments)
		if err != nil {
			return nil, "", fmt.Errorf("load: parsing %s: %w", name, err)
		}
		if ast.IsGenerated(f) {
			continue
		}
		switch {
		case pkg == "":
			pkg = f.Name.Name
		case pkg != f.Name.Name:
			return nil, "", &Error{Pos: l.fset.Position(f.Package).String(), Msg: fmt.Sprintf("found packages %s and %s", pkg, f.Name.Name)}
		}
		files = append(files, &sourceFile{ast: f, imports: collectImports(f)})
	}
	if pkg == "" {
		return nil, "", fmt.Errorf("load: no Go files in %s", dir)
	}
	return files, pkg, nil
}

func (l *loader) loadFields(s *Schema, f *sourceFile, st *ast.StructType) error {
	pos := 0
	for _, fd := range st.Fields.List {
		if len(fd.Names) == 0 {
			continue // embedded
		}
		var tag string
		if fd.Tag != nil {
			tag, _ = strconv.Unquote(fd.Tag.Value)
		}
		mandatory, excluded, err := parseTag(tag)
		if err != nil {
			return l.errorf(fd.Pos(), s.Name, "%v", err)
		}
		for _, name := range fd.Names {
			if name.Name == "_" {
				continue
			}
			s.Fields = append(s.Fields, &Field{
				Name:      name.Name,
				Type:      typeRef(fd.Type, f.imports),
				Tag:       tag,
				Position:  pos,
				Mandatory: mandatory,
			})
			if excluded {
				s.Exclude = append(s.Exclude, name.Name)
			}
			pos++
		}
	}
	return nil
}

// loadConstructor selects the constructor of s: the one carrying the
// constructor directive, or else the one with the most parameters.
func (l *loader) loadConstructor(s *Schema, files []*sourceFile) error {
	var (
		best      *Constructor
		annotated []*Constructor
	)
	for _, f := range files {
		for _, decl := range f.ast.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Recv != nil || fd.Type.TypeParams != nil || !strings.HasPrefix(fd.Name.Name, "New") {
				continue
			}
			pointer, ok := returnsType(fd.Type, s.Name)
			if !ok {
				continue
			}
			c := &Constructor{
				Name:      fd.Name.Name,
				Pointer:   pointer,
				Annotated: hasDirective(fd.Doc, ConstructorDirective),
			}
			for _, p := range fd.Type.Params.List {
				typ, variadic := p.Type, false
				if e, ok := typ.(*ast.Ellipsis); ok {
					typ, variadic = e.Elt, true
				}
				ref := typeRef(typ, f.imports)
				if len(p.Names) == 0 {
					c.Params = append(c.Params, &Param{Name: "_", Type: ref, Variadic: variadic})
				}
				for _, n := range p.Names {
					c.Params = append(c.Params, &Param{Name: n.Name, Type: ref, Variadic: variadic})
				}
			}
			if c.Annotated {
				annotated = append(annotated, c)
			}
			if best == nil || len(c.Params) > len(best.Params) {
				best = c
			}
		}
	}
	switch len(annotated) {
	case 0:
	case 1:
		best = annotated[0]
	default:
		return &Error{Pos: s.Pos, Type: s.Name, Msg: "only one constructor can be annotated with " + ConstructorDirective}
	}
	if best == nil {
		return nil
	}
	for _, p := range best.Params {
		if fd := matchField(s, p.Name); fd != nil {
			p.Field = fd.Name
			fd.ConstructorArg = true
		}
	}
	s.Constructor = best
	return nil
}

// matchField returns the field initialized by a constructor parameter: an
// exact name match first, then a case-insensitive one.
func matchField(s *Schema, param string) *Field {
	if param == "_" {
		return nil
	}
	if f := s.Field(param); f != nil {
		return f
	}
	i := slices.IndexFunc(s.Fields, func(f *Field) bool { return strings.EqualFold(f.Name, param) })
	if i < 0 {
		return nil
	}
	return s.Fields[i]
}

// returnsType reports whether ft returns exactly one T or *T.
func returnsType(ft *ast.FuncType, name string) (pointer, ok bool) {
	if ft.Results == nil || ft.Results.NumFields() != 1 {
		return false, false
	}
	expr := ft.Results.List[0].Type
	if star, isStar := expr.(*ast.StarExpr); isStar {
		expr, pointer = star.X, true
	}
	id, isIdent := expr.(*ast.Ident)
	return pointer, isIdent && id.Name == name
}

func parseTag(tag string) (mandatory, excluded bool, err error) {
	v, ok := reflect.StructTag(tag).Lookup(TagKey)
	if !ok {
		return false, false, nil
	}
	for _, opt := range strings.Split(v, ",") {
		switch strings.TrimSpace(opt) {
		case "mandatory":
			mandatory = true
		case "-":
			excluded = true
		case "":
		default:
			return false, false, fmt.Errorf("unknown %s tag option %q", TagKey, opt)
		}
	}
	if mandatory && excluded {
		return false, false, fmt.Errorf("field cannot be both mandatory and excluded")
	}
	return mandatory, excluded, nil
}

func (l *loader) errorf(pos token.Pos, typeName, format string, args ...any) error {
	return &Error{
		Pos:  l.fset.Position(pos).String(),
		Type: typeName,
		Msg:  fmt.Sprintf(format, args...),
	}
}

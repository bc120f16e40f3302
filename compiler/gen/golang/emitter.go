package golang

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"

	"github.com/syssam/stepgen/compiler/gen"
)

// Emitter implements gen.Emitter for Go.
type Emitter struct {
	helper gen.GeneratorHelper
}

// NewEmitter creates a new Go emitter.
// The helper parameter should be a *gen.JenniferGenerator.
func NewEmitter(helper gen.GeneratorHelper) *Emitter {
	return &Emitter{helper: helper}
}

// Name returns the emitter name.
func (e *Emitter) Name() string {
	return "golang"
}

// GenBuilder renders the builder file ({type}_builder.go) of t: the stage
// interfaces, the factory and the implementation struct.
func (e *Emitter) GenBuilder(t *gen.Type) (*jen.File, error) {
	if t.Descriptor == nil {
		return nil, gen.NewGenerationError("emit", t.FileName(), "type "+t.Name+" has no descriptor", nil)
	}
	src, err := e.helper.SourcePkg(t)
	if err != nil {
		return nil, err
	}
	b, err := newBuilder(t, src)
	if err != nil {
		return nil, gen.NewGenerationError("emit", t.FileName(), "", err)
	}
	f := e.helper.NewFile(e.helper.Pkg())
	if src != "" {
		f.ImportName(src, t.Package)
	}
	b.genInterfaces(f)
	b.genImpl(f)
	return f, nil
}

// Verify Emitter implements gen.Emitter at compile time.
var _ gen.Emitter = (*Emitter)(nil)

// builder holds the resolved Go names of one descriptor.
type builder struct {
	t   *gen.Type
	d   *gen.Descriptor
	src string
	// impl is the name of the implementation struct.
	impl    string
	factory string
	product jen.Code
	// fields maps a source field to its implementation field.
	fields map[string]string
	// methods maps a setter name to its Go method name.
	methods map[string]string
	// types maps a source field to its rendered type.
	types map[string]jen.Code
	// params holds the rendered constructor parameter types.
	params []jen.Code
}

func newBuilder(t *gen.Type, src string) (*builder, error) {
	d := t.Descriptor
	b := &builder{
		t:       t,
		d:       d,
		src:     src,
		impl:    "default" + gen.Capitalize(d.Root.Name),
		factory: factoryName(t, d),
		product: jen.Id(t.Name),
		fields:  make(map[string]string),
		methods: make(map[string]string),
		types:   make(map[string]jen.Code),
	}
	if src != "" {
		if !t.Exported() {
			return nil, fmt.Errorf("unexported type %s is not accessible from another package", t.Name)
		}
		b.product = jen.Qual(src, t.Name)
	}
	if src == "" && t.Constructor != nil && b.factory == t.Constructor.Name {
		return nil, fmt.Errorf("factory %s collides with the constructor of %s", b.factory, t.Name)
	}
	methods := map[string]string{"Build": gen.BuildMethodName}
	implFields := make(map[string]string)
	for _, s := range d.Setters() {
		if src != "" && !token.IsExported(s.Field) {
			return nil, fmt.Errorf("unexported field %s.%s is not accessible from another package", t.Name, s.Field)
		}
		m := inflect.Capitalize(s.Name)
		if prev, ok := methods[m]; ok {
			return nil, fmt.Errorf("method %s of %s is produced by both %s and %s", m, b.impl, prev, s.Name)
		}
		methods[m] = s.Name
		b.methods[s.Name] = m

		name := builderField(fieldName(s.Field))
		if prev, ok := implFields[name]; ok {
			return nil, fmt.Errorf("fields %s and %s both map to %s.%s", prev, s.Field, b.impl, name)
		}
		implFields[name] = s.Field
		b.fields[s.Field] = name

		code, err := typeCode(s.Type, src)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", s.Field, err)
		}
		b.types[s.Field] = code
	}
	if c := t.Constructor; c != nil {
		if src != "" && !token.IsExported(c.Name) {
			return nil, fmt.Errorf("unexported constructor %s is not accessible from another package", c.Name)
		}
		for _, p := range c.Params {
			code, err := typeCode(p.Type, src)
			if err != nil {
				return nil, fmt.Errorf("constructor %s parameter %s: %w", c.Name, p.Name, err)
			}
			b.params = append(b.params, code)
		}
	}
	return b, nil
}

// factoryName returns the factory function name. The default name maps to
// New<Root>; custom names are kept, exported along with the type.
func factoryName(t *gen.Type, d *gen.Descriptor) string {
	name := d.Factory.Name
	if name == gen.DefaultFactoryMethodName {
		name = "New" + gen.Capitalize(d.Root.Name)
	}
	if t.Exported() {
		return inflect.Capitalize(name)
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// fieldName returns the lower camel case form of a struct field name. A
// leading initialism is lower-cased as a whole: ID gives id, URLPath gives
// urlPath and IDs gives ids.
func fieldName(name string) string {
	upper := 0
	for upper < len(name) && 'A' <= name[upper] && name[upper] <= 'Z' {
		upper++
	}
	switch rest := name[upper:]; {
	case upper < 2:
		return inflect.CamelizeDownFirst(name)
	case rest == "" || rest == "s":
		return strings.ToLower(name)
	default:
		return strings.ToLower(name[:upper-1]) + name[upper-1:]
	}
}

// builderField returns the implementation field for the given name and
// ensures it doesn't conflict with Go keywords, and it is not exported.
func builderField(name string) string {
	if token.Lookup(name).IsKeyword() || strings.ToUpper(name[:1]) == name[:1] {
		return "_" + name
	}
	return name
}

// refName resolves a stage reference. Steps and the terminal are nested in
// the root, so their names are prefixed with it.
func (b *builder) refName(r gen.Ref) string {
	switch r.Kind {
	case gen.RefStep, gen.RefTerminal:
		return b.d.Root.Name + r.Name
	default:
		return r.Name
	}
}

// refType returns the type code of a reference.
func (b *builder) refType(r gen.Ref) jen.Code {
	if r.Kind == gen.RefProduct {
		return jen.Op("*").Add(b.product)
	}
	return jen.Id(b.refName(r))
}

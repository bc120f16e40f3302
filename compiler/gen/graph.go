package gen

import (
	"go/token"
	"sort"
	"strings"

	"github.com/syssam/stepgen/compiler/load"
)

// The following types and their exported methods are used by the emitters
// to generate the builders.
type (
	// Graph holds the buildable types of one source package and the
	// configuration they were resolved with.
	Graph struct {
		*Config
		// Nodes are the buildable types in declaration order.
		Nodes []*Type
	}

	// Type is one buildable struct type and its resolved builder protocol.
	Type struct {
		cfg    *Config
		schema *load.Schema
		// Name holds the type name.
		Name string
		// Package is the name of the declaring package.
		Package string
		// PkgPath is the import path of the declaring package. It is empty
		// when the package is not part of a module.
		PkgPath string
		// Dir is the source directory of the type.
		Dir string
		// Options holds the resolved per-type options.
		Options TypeConfig
		// Fields holds the classified fields in declaration order.
		Fields []*Field
		fields map[string]*Field
		// Constructor is the selected constructor, if any.
		Constructor *load.Constructor
		// Descriptor is the synthesized builder protocol.
		Descriptor *Descriptor
	}
)

// NewGraph resolves the configuration of every schema and synthesizes its
// builder protocol.
func NewGraph(c *Config, schemas ...*load.Schema) (*Graph, error) {
	if c == nil {
		c = &Config{}
	}
	g := &Graph{Config: c, Nodes: make([]*Type, 0, len(schemas))}
	seen := make(map[string]struct{}, len(schemas))
	for _, s := range schemas {
		if _, ok := seen[s.Name]; ok {
			return nil, NewSchemaError(s.Name, "", "type is declared more than once", nil)
		}
		seen[s.Name] = struct{}{}
		t, err := NewType(c, s)
		if err != nil {
			return nil, err
		}
		g.Nodes = append(g.Nodes, t)
	}
	return g, nil
}

// NewType creates a new type from the given schema, resolves its options
// and synthesizes its descriptor.
func NewType(c *Config, schema *load.Schema) (*Type, error) {
	if !token.IsIdentifier(schema.Name) {
		return nil, NewSchemaError(schema.Name, "", "invalid type name", nil)
	}
	typ := &Type{
		cfg:         c,
		schema:      schema,
		Name:        schema.Name,
		Package:     schema.Package,
		PkgPath:     schema.PkgPath,
		Dir:         schema.Dir,
		Constructor: schema.Constructor,
		Fields:      make([]*Field, 0, len(schema.Fields)),
		fields:      make(map[string]*Field, len(schema.Fields)),
	}
	for _, f := range schema.Fields {
		if _, ok := typ.fields[f.Name]; ok {
			return nil, NewSchemaError(typ.Name, f.Name, "field is declared more than once", nil)
		}
		if f.Type == nil {
			return nil, NewSchemaError(typ.Name, f.Name, "field has no type", nil)
		}
		tf := &Field{
			Name:           f.Name,
			Type:           f.Type,
			Mandatory:      f.Mandatory,
			ConstructorArg: f.ConstructorArg,
			Order:          f.Position,
		}
		typ.Fields = append(typ.Fields, tf)
		typ.fields[f.Name] = tf
	}
	opts, err := resolveOptions(c, schema)
	if err != nil {
		return nil, err
	}
	typ.Options = opts
	if unknown := typ.unknownExclusions(); len(unknown) > 0 {
		log := c.Log()
		log.Warn().
			Str("type", typ.Name).
			Strs("fields", unknown).
			Msg("excluded fields do not exist")
	}
	typ.Descriptor = Synthesize(typ.Name, typ.productPackage(), typ.Fields, opts.Strategy, opts.BuilderConfig)
	if err := typ.Descriptor.Validate(); err != nil {
		return nil, err
	}
	return typ, nil
}

// resolveOptions merges the per-type options. The source directive wins over
// the configured type options, which win over the configured default
// strategy. Exclusions are the union of all sources.
func resolveOptions(c *Config, schema *load.Schema) (TypeConfig, error) {
	opts := c.Types[schema.Name]
	if d := schema.Directive; d != nil {
		strategy, err := ParseStrategy(d.Strategy)
		if err != nil {
			return TypeConfig{}, NewSchemaError(schema.Name, "", "invalid builder directive", err)
		}
		opts = opts.Merge(TypeConfig{
			Strategy: strategy,
			BuilderConfig: BuilderConfig{
				SetterPrefix:      d.SetterPrefix,
				ExcludeFields:     d.Exclude,
				FactoryMethodName: d.Factory,
			},
		})
	}
	opts = opts.Merge(TypeConfig{BuilderConfig: BuilderConfig{ExcludeFields: schema.Exclude}})
	opts.Strategy = opts.Strategy.Or(c.Strategy).Or(StrategyOpen)
	if opts.FactoryMethodName != "" && !token.IsIdentifier(opts.FactoryMethodName) {
		return TypeConfig{}, NewSchemaError(schema.Name, "", "invalid factory name "+opts.FactoryMethodName, nil)
	}
	if opts.SetterPrefix != "" && !token.IsIdentifier(opts.SetterPrefix) {
		return TypeConfig{}, NewSchemaError(schema.Name, "", "invalid setter prefix "+opts.SetterPrefix, nil)
	}
	return opts, nil
}

// Field returns the field with the given name, or nil.
func (t *Type) Field(name string) *Field {
	return t.fields[name]
}

// Excluded reports whether the named field gets no setter.
func (t *Type) Excluded(name string) bool {
	for _, n := range t.Options.ExcludeFields {
		if n == name {
			return true
		}
	}
	return false
}

// Exported reports whether the type name is exported.
func (t *Type) Exported() bool {
	return token.IsExported(t.Name)
}

// FileName returns the name of the generated file of the type.
func (t *Type) FileName() string {
	return strings.ToLower(t.Name) + t.cfg.FileSuffix()
}

// Schema returns the classifier output the type was created from.
func (t *Type) Schema() *load.Schema {
	return t.schema
}

// SourceField returns the classified source field with the given name.
func (t *Type) SourceField(name string) *load.Field {
	if t.schema == nil {
		return nil
	}
	return t.schema.Field(name)
}

func (t *Type) productPackage() string {
	if t.PkgPath != "" {
		return t.PkgPath
	}
	return t.Package
}

func (t *Type) unknownExclusions() []string {
	var unknown []string
	for _, name := range t.Options.ExcludeFields {
		if _, ok := t.fields[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return unknown
}

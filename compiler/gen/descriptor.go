package gen

import (
	"fmt"
	"slices"

	"github.com/syssam/stepgen/schema/field"
)

// Field is a classified, settable field of a buildable type.
type Field struct {
	Name string         `json:"name" yaml:"name"`
	Type *field.TypeRef `json:"type" yaml:"type"`
	// Mandatory fields must be set, in order, before the build stage.
	Mandatory bool `json:"mandatory,omitempty" yaml:"mandatory,omitempty"`
	// ConstructorArg fields are parameters of the selected constructor.
	ConstructorArg bool `json:"constructor_arg,omitempty" yaml:"constructor_arg,omitempty"`
	// Order is the declaration order of the field in its type.
	Order int `json:"order" yaml:"order"`
}

// RefKind is the kind of type a Ref points at.
type RefKind uint8

// Reference kinds.
const (
	RefInvalid RefKind = iota
	RefRoot
	RefStep
	RefTerminal
	RefProduct
)

var refKindNames = [...]string{
	RefInvalid:  "invalid",
	RefRoot:     "root",
	RefStep:     "step",
	RefTerminal: "terminal",
	RefProduct:  "product",
}

// String returns the name of the kind.
func (k RefKind) String() string {
	if int(k) < len(refKindNames) {
		return refKindNames[k]
	}
	return fmt.Sprintf("RefKind(%d)", k)
}

// MarshalText implements encoding.TextMarshaler.
func (k RefKind) MarshalText() ([]byte, error) {
	if int(k) >= len(refKindNames) {
		return nil, fmt.Errorf("stepgen: cannot marshal ref kind %d", k)
	}
	return []byte(refKindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *RefKind) UnmarshalText(text []byte) error {
	for i, name := range refKindNames {
		if name == string(text) {
			*k = RefKind(i)
			return nil
		}
	}
	return fmt.Errorf("stepgen: unknown ref kind %q", text)
}

// Ref is a symbolic reference to a type of the builder protocol. Step and
// terminal refs are nested in the root interface; emitters decide how that
// nesting is spelled.
type Ref struct {
	Kind RefKind `json:"kind" yaml:"kind"`
	Name string  `json:"name" yaml:"name"`
	// Package is the package of a product ref.
	Package string `json:"package,omitempty" yaml:"package,omitempty"`
}

// Setter is a single-argument method that records a field value.
type Setter struct {
	Name    string         `json:"name" yaml:"name"`
	Field   string         `json:"field" yaml:"field"`
	Type    *field.TypeRef `json:"type" yaml:"type"`
	Returns Ref            `json:"returns" yaml:"returns"`
}

// Equal reports whether s and o are the same setter.
func (s Setter) Equal(o Setter) bool {
	return s.Name == o.Name && s.Field == o.Field && s.Returns == o.Returns && s.Type.Equal(o.Type)
}

// Step is one position of the mandatory chain: the interface reached after a
// mandatory field was set, exposing the setter of the next one.
type Step struct {
	Ref    Ref    `json:"ref" yaml:"ref"`
	Setter Setter `json:"setter" yaml:"setter"`
}

// Method is a no-argument method.
type Method struct {
	Name    string `json:"name" yaml:"name"`
	Returns Ref    `json:"returns" yaml:"returns"`
}

// Terminal is the build stage: every optional setter plus the build method.
type Terminal struct {
	Ref     Ref      `json:"ref" yaml:"ref"`
	Setters []Setter `json:"setters,omitempty" yaml:"setters,omitempty"`
	Build   Method   `json:"build" yaml:"build"`
}

// Factory describes the builder entry point.
type Factory struct {
	Name    string `json:"name" yaml:"name"`
	Returns Ref    `json:"returns" yaml:"returns"`
}

// Descriptor is the complete interface protocol of one step builder.
type Descriptor struct {
	TypeName string  `json:"type_name" yaml:"type_name"`
	Product  Ref     `json:"product" yaml:"product"`
	Root     Ref     `json:"root" yaml:"root"`
	Factory  Factory `json:"factory" yaml:"factory"`
	// First is the setter of the first mandatory field, declared on the root.
	// It is nil when there is no mandatory field.
	First    *Setter  `json:"first,omitempty" yaml:"first,omitempty"`
	Steps    []Step   `json:"steps,omitempty" yaml:"steps,omitempty"`
	Terminal Terminal `json:"terminal" yaml:"terminal"`
	// Interfaces lists the root, every step and the terminal, in that order.
	Interfaces []Ref `json:"interfaces" yaml:"interfaces"`
}

// Equal reports whether d and o are structurally equal.
func (d *Descriptor) Equal(o *Descriptor) bool {
	if d == nil || o == nil {
		return d == o
	}
	if d.TypeName != o.TypeName || d.Product != o.Product || d.Root != o.Root || d.Factory != o.Factory {
		return false
	}
	if (d.First == nil) != (o.First == nil) || d.First != nil && !d.First.Equal(*o.First) {
		return false
	}
	stepEq := func(a, b Step) bool { return a.Ref == b.Ref && a.Setter.Equal(b.Setter) }
	return slices.EqualFunc(d.Steps, o.Steps, stepEq) &&
		d.Terminal.Ref == o.Terminal.Ref &&
		d.Terminal.Build == o.Terminal.Build &&
		slices.EqualFunc(d.Terminal.Setters, o.Terminal.Setters, Setter.Equal) &&
		slices.Equal(d.Interfaces, o.Interfaces)
}

// InterfaceSet returns the interfaces of the descriptor as a set.
func (d *Descriptor) InterfaceSet() map[Ref]struct{} {
	m := make(map[Ref]struct{}, len(d.Interfaces))
	for _, r := range d.Interfaces {
		m[r] = struct{}{}
	}
	return m
}

// Setters returns every setter of the descriptor: the root setter, the step
// setters in chain order and the optional setters of the terminal.
func (d *Descriptor) Setters() []Setter {
	var all []Setter
	if d.First != nil {
		all = append(all, *d.First)
	}
	for _, s := range d.Steps {
		all = append(all, s.Setter)
	}
	return append(all, d.Terminal.Setters...)
}

// Mandatory returns the setters of the mandatory chain in order.
func (d *Descriptor) Mandatory() []Setter {
	if d.First == nil {
		return nil
	}
	all := []Setter{*d.First}
	for _, s := range d.Steps {
		all = append(all, s.Setter)
	}
	return all
}

// Validate checks the invariants that depend on field names: interface names
// must be pairwise distinct, a field has at most one setter, and the terminal
// setters must not shadow the build method.
func (d *Descriptor) Validate() error {
	seen := make(map[string]struct{}, len(d.Interfaces))
	for _, r := range d.Interfaces {
		if _, ok := seen[r.Name]; ok {
			return NewValidationError(d.TypeName, "", r.Name, "interface name is produced more than once")
		}
		seen[r.Name] = struct{}{}
	}
	fields := make(map[string]struct{})
	for _, s := range d.Setters() {
		if _, ok := fields[s.Field]; ok {
			return NewValidationError(d.TypeName, s.Field, s.Name, "field has more than one setter")
		}
		fields[s.Field] = struct{}{}
	}
	for _, s := range d.Terminal.Setters {
		if s.Name == d.Terminal.Build.Name {
			return NewValidationError(d.TypeName, s.Field, s.Name, "setter collides with the build method")
		}
	}
	return nil
}

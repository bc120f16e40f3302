// Package load classifies the fields of Go struct types for step builder
// generation.
//
// Types are selected with a doc comment directive:
//
//	//stepgen:builder strategy=STRICT setter_prefix=with exclude=cache factory=newCar
//	type Car struct {
//		Make  string `step:"mandatory"`
//		Model string `step:"mandatory"`
//		Year  int
//		cache map[string]any
//	}
//
// or by name with WithTypes.
package load

import (
	"go/ast"

	"github.com/syssam/stepgen/schema/field"
)

// Schema is a buildable struct type as it was classified from source.
type Schema struct {
	Name string `json:"name"`
	// Package is the package name and PkgPath its import path. PkgPath is
	// empty when the directory is not inside a module.
	Package string   `json:"package"`
	PkgPath string   `json:"pkg_path,omitempty"`
	Dir     string   `json:"dir,omitempty"`
	Pos     string   `json:"-"`
	Fields  []*Field `json:"fields,omitempty"`
	// Exclude lists the fields tagged `step:"-"`.
	Exclude     []string     `json:"exclude,omitempty"`
	Constructor *Constructor `json:"constructor,omitempty"`
	// Directive holds the options of the //stepgen:builder comment. It is nil
	// for types selected by name.
	Directive *Directive `json:"directive,omitempty"`
}

// Field is a named field of a buildable type.
type Field struct {
	Name string         `json:"name"`
	Type *field.TypeRef `json:"type"`
	Tag  string         `json:"tag,omitempty"`
	// Position is the declaration index of the field in its struct.
	Position       int  `json:"position"`
	Mandatory      bool `json:"mandatory,omitempty"`
	ConstructorArg bool `json:"constructor_arg,omitempty"`
}

// Exported reports whether the field is visible outside its package.
func (f *Field) Exported() bool {
	return ast.IsExported(f.Name)
}

// Constructor is the function selected to create instances of a type.
type Constructor struct {
	Name   string   `json:"name"`
	Params []*Param `json:"params,omitempty"`
	// Pointer reports whether the constructor returns *T rather than T.
	Pointer   bool `json:"pointer,omitempty"`
	Annotated bool `json:"annotated,omitempty"`
}

// Exported reports whether the constructor is visible outside its package.
func (c *Constructor) Exported() bool {
	return ast.IsExported(c.Name)
}

// Param is a constructor parameter.
type Param struct {
	Name string         `json:"name"`
	Type *field.TypeRef `json:"type"`
	// Field is the name of the field the parameter initializes, if any.
	Field    string `json:"field,omitempty"`
	Variadic bool   `json:"variadic,omitempty"`
}

// Directive holds the arguments of a //stepgen:builder comment.
type Directive struct {
	Strategy     string   `json:"strategy,omitempty"`
	SetterPrefix string   `json:"setter_prefix,omitempty"`
	Exclude      []string `json:"exclude,omitempty"`
	Factory      string   `json:"factory,omitempty"`
}

// Field returns the field with the given name, or nil.
func (s *Schema) Field(name string) *Field {
	for _, f := range s.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

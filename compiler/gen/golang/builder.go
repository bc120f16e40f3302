package golang

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/stepgen/compiler/gen"
	"github.com/syssam/stepgen/compiler/load"
	"github.com/syssam/stepgen/schema/field"
)

// genInterfaces generates the root, step and terminal interfaces.
func (b *builder) genInterfaces(f *jen.File) {
	d, name := b.d, b.t.Name

	f.Comment(fmt.Sprintf("%s is the entry stage of the %s builder.", d.Root.Name, name))
	if d.First != nil {
		f.Type().Id(d.Root.Name).Interface(b.method(*d.First))
	} else {
		f.Comment("No field is mandatory, so it is the build stage itself.")
		f.Type().Id(d.Root.Name).Interface(jen.Id(b.refName(d.Terminal.Ref)))
	}
	f.Line()

	mandatory := d.Mandatory()
	for i, s := range d.Steps {
		id := b.refName(s.Ref)
		f.Comment(fmt.Sprintf("%s is the stage of the %s builder reached once %s is set.", id, name, mandatory[i].Field))
		f.Type().Id(id).Interface(b.method(s.Setter))
		f.Line()
	}

	id := b.refName(d.Terminal.Ref)
	f.Comment(fmt.Sprintf("%s is the last stage of the %s builder. Optional fields", id, name))
	f.Comment("can be set in any order before building.")
	f.Type().Id(id).InterfaceFunc(func(grp *jen.Group) {
		for _, s := range d.Terminal.Setters {
			grp.Add(b.method(s))
		}
		grp.Id("Build").Params().Add(b.refType(d.Terminal.Build.Returns))
	})
}

// method returns the interface method of a setter.
func (b *builder) method(s gen.Setter) jen.Code {
	return jen.Id(b.methods[s.Name]).Params(jen.Id("v").Add(b.types[s.Field])).Add(b.refType(s.Returns))
}

// genImpl generates the implementation struct, the factory, the setters and
// the build method.
func (b *builder) genImpl(f *jen.File) {
	d, name := b.d, b.t.Name
	setters := d.Setters()

	f.Comment(fmt.Sprintf("%s implements every stage of the %s builder.", b.impl, name))
	f.Type().Id(b.impl).StructFunc(func(grp *jen.Group) {
		for _, fd := range b.t.Fields {
			if id, ok := b.fields[fd.Name]; ok {
				grp.Id(id).Add(b.types[fd.Name])
			}
		}
	})
	f.Line()

	f.Var().DefsFunc(func(grp *jen.Group) {
		for _, r := range d.Interfaces {
			grp.Id("_").Id(b.refName(r)).Op("=").Parens(jen.Op("*").Id(b.impl)).Call(jen.Nil())
		}
	})
	f.Line()

	f.Comment(fmt.Sprintf("%s returns a new %s builder.", b.factory, name))
	f.Func().Id(b.factory).Params().Add(b.refType(d.Factory.Returns)).Block(
		jen.Return(jen.Op("&").Id(b.impl).Values()),
	)
	f.Line()

	for _, s := range setters {
		m := b.methods[s.Name]
		f.Comment(fmt.Sprintf("%s sets the %s field.", m, s.Field))
		f.Func().Params(jen.Id("b").Op("*").Id(b.impl)).Id(m).
			Params(jen.Id("v").Add(b.types[s.Field])).
			Add(b.refType(s.Returns)).
			Block(
				jen.Id("b").Dot(b.fields[s.Field]).Op("=").Id("v"),
				jen.Return(jen.Id("b")),
			)
		f.Line()
	}

	f.Comment(fmt.Sprintf("Build returns a new %s holding the values set so far.", name))
	f.Func().Params(jen.Id("b").Op("*").Id(b.impl)).Id("Build").Params().
		Add(b.refType(d.Terminal.Build.Returns)).
		BlockFunc(b.genBuild)
}

// genBuild generates the body of the build method. The product is created
// with the constructor when there is one, passing the fields it takes, and
// the remaining fields are assigned afterwards.
func (b *builder) genBuild(grp *jen.Group) {
	c := b.t.Constructor
	if c == nil {
		grp.Return(jen.Op("&").Add(b.product).ValuesFunc(func(vals *jen.Group) {
			for _, fd := range b.t.Fields {
				if id, ok := b.fields[fd.Name]; ok {
					vals.Id(fd.Name).Op(":").Id("b").Dot(id)
				}
			}
		}))
		return
	}
	ctor := jen.Id(c.Name)
	if b.src != "" {
		ctor = jen.Qual(b.src, c.Name)
	}
	consumed := make(map[string]bool)
	var args []jen.Code
	for i, p := range c.Params {
		if fd := b.t.Field(p.Field); fd != nil && b.passes(p, fd) {
			consumed[fd.Name] = true
			arg := jen.Id("b").Dot(b.fields[fd.Name])
			if p.Variadic {
				arg = arg.Op("...")
			}
			args = append(args, arg)
			continue
		}
		if p.Variadic {
			continue
		}
		args = append(args, zeroValue(p.Type, b.params[i]))
	}
	grp.Id("v").Op(":=").Add(ctor).Call(args...)
	for _, fd := range b.t.Fields {
		if id, ok := b.fields[fd.Name]; ok && !consumed[fd.Name] {
			grp.Id("v").Dot(fd.Name).Op("=").Id("b").Dot(id)
		}
	}
	if c.Pointer {
		grp.Return(jen.Id("v"))
	} else {
		grp.Return(jen.Op("&").Id("v"))
	}
}

// passes reports whether the builder value of fd can be passed for p: the
// field has a setter and its type matches the parameter.
func (b *builder) passes(p *load.Param, fd *gen.Field) bool {
	if _, ok := b.fields[fd.Name]; !ok {
		return false
	}
	if p.Variadic {
		return fd.Type.Kind == field.KindSlice && fd.Type.Elem.Equal(p.Type)
	}
	return fd.Type.Equal(p.Type)
}

// Package golang renders step builder protocols as Go source using jennifer.
//
// This package implements the gen.Emitter interface.
//
// Usage:
//
//	import (
//	    "github.com/syssam/stepgen/compiler/gen"
//	    "github.com/syssam/stepgen/compiler/gen/golang"
//	)
//
//	generator := gen.NewJenniferGenerator(graph, outDir)
//	generator.WithEmitter(golang.NewEmitter(generator))
//	generator.Generate(ctx)
//
// For a type Car with the mandatory fields Make and Model and the optional
// field Year, the generated file {car}_builder.go holds:
//
//	type CarBuilder interface {
//	    Make(v string) CarBuilderMakeStep
//	}
//
//	type CarBuilderMakeStep interface {
//	    Model(v string) CarBuilderBuildStep
//	}
//
//	type CarBuilderBuildStep interface {
//	    Year(v int) CarBuilderBuildStep
//	    Build() *Car
//	}
//
//	func NewCarBuilder() CarBuilder
//
// plus the unexported defaultCarBuilder implementing every stage.
package golang

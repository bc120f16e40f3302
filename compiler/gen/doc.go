// Package gen synthesizes staged step builder protocols for Go struct types.
//
// A step builder is a chain of interfaces: the root interface exposes only the
// setter of the first mandatory field, every step exposes the setter of the
// next one, and the last mandatory setter unlocks the build stage where the
// optional fields can be set in any order before the value is built.
//
// # Architecture
//
// The generation pipeline follows this flow:
//
//	Go source (//stepgen:builder types)
//	        ↓
//	   load.Schema (classified fields, constructor, directive)
//	        ↓
//	   Graph (resolved options, one Type per struct)
//	        ↓
//	   Synthesize (naming policy, step chain, build stage)
//	        ↓
//	   Descriptor
//	        ↓
//	   Emitter (Go code) or describe (JSON, YAML, MessagePack)
//
// # Key Types
//
//   - Field: a classified field: mandatory, constructor argument, declaration order
//   - Descriptor: the complete interface protocol of one builder
//   - Graph: every buildable Type of a package with its Descriptor
//   - Config: global configuration for code generation
//
// Synthesize is pure: it does no I/O, holds no state and equal inputs yield
// Equal descriptors. The shape depends on the number N of mandatory fields:
//
//	N == 0  factory → BuildStep
//	N == 1  factory → Root.make → BuildStep
//	N >= 2  factory → Root.make → MakeStep.model → ... → BuildStep
//
// # Strategies
//
// Constructor arguments are chained as mandatory fields under StrategyStrict
// and StrategyStepWise. Under StrategyOpen they are optional setters of the
// build stage. A type's strategy is taken from its directive, then from
// Config.Types, then from Config.Strategy, and defaults to StrategyOpen.
//
// # Error Handling
//
// The package uses structured error types:
//
//   - SchemaError: malformed buildable types
//   - ConfigError: invalid options
//   - GenerationError: rendering, formatting and write failures
//   - ValidationError: protocols whose names collide
//
// Example error handling:
//
//	graph, err := gen.NewGraph(config, schemas...)
//	if err != nil {
//	    if gen.IsValidationError(err) {
//	        // A field name produced a colliding interface or method.
//	    }
//	    return err
//	}
//
// # Configuration
//
// Configuration is done via the functional options pattern:
//
//	config, err := gen.NewConfig(
//	    gen.WithTarget("./builders"),
//	    gen.WithPackage("builders"),
//	    gen.WithSourcePackage("github.com/org/project/model"),
//	    gen.WithStrategy(gen.StrategyStrict),
//	    gen.WithBuilder("Car", gen.TypeConfig{
//	        BuilderConfig: gen.BuilderConfig{SetterPrefix: "with"},
//	    }),
//	)
//
// # Usage
//
// Builders are rendered by an Emitter and written in parallel:
//
//	import "github.com/syssam/stepgen/compiler/gen/golang"
//
//	err := gen.Generate(ctx, graph, func(h gen.GeneratorHelper) gen.Emitter {
//	    return golang.NewEmitter(h)
//	})
//
// Hooks registered with WithHooks wrap generation:
//
//	hook := func(next gen.Generator) gen.Generator {
//	    return gen.GenerateFunc(func(g *gen.Graph) error {
//	        log.Println("generating", len(g.Nodes), "builders")
//	        return next.Generate(g)
//	    })
//	}
package gen

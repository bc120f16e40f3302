// Package compiler is the entry point of step builder generation. It loads
// the buildable types of a package directory, synthesizes their builder
// protocols and renders them as Go code.
//
//	graph, err := compiler.LoadGraph("./cars", &gen.Config{Strategy: gen.StrategyStrict})
//	if err != nil {
//		return err
//	}
//	return compiler.Generate(ctx, graph)
package compiler

import (
	"context"
	"errors"
	"fmt"

	"github.com/syssam/stepgen/compiler/gen"
	"github.com/syssam/stepgen/compiler/gen/golang"
	"github.com/syssam/stepgen/compiler/load"
)

// LoadGraph loads the buildable types declared in dir and returns their
// graph. Classification errors are reported as *gen.SchemaError.
func LoadGraph(dir string, cfg *gen.Config, opts ...load.Option) (*gen.Graph, error) {
	schemas, err := load.Load(dir, opts...)
	if err != nil {
		var le *load.Error
		switch {
		case errors.As(err, &le):
			return nil, gen.NewSchemaError(le.Type, "", "", err)
		case errors.Is(err, load.ErrTypeNotFound):
			return nil, gen.NewSchemaError("", "", "", err)
		default:
			return nil, fmt.Errorf("compiler: loading %s: %w", dir, err)
		}
	}
	if len(schemas) == 0 {
		return nil, gen.NewSchemaError("", "", fmt.Sprintf("no buildable types in %s: mark a struct with %s", dir, load.BuilderDirective), nil)
	}
	return gen.NewGraph(cfg, schemas...)
}

// Generate writes the Go builders of every type of the graph.
func Generate(ctx context.Context, g *gen.Graph) error {
	return gen.Generate(ctx, g, func(h gen.GeneratorHelper) gen.Emitter {
		return golang.NewEmitter(h)
	})
}

// Run loads dir and generates its builders.
func Run(ctx context.Context, dir string, cfg *gen.Config, opts ...load.Option) (*gen.Graph, error) {
	g, err := LoadGraph(dir, cfg, opts...)
	if err != nil {
		return nil, err
	}
	if err := Generate(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

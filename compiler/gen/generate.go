package gen

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"
)

type (
	// Generator is the interface that wraps the Generate method.
	Generator interface {
		// Generate generates the builders of the given graph.
		Generate(*Graph) error
	}

	// GenerateFunc is an adapter to allow the use of ordinary functions
	// as Generators.
	GenerateFunc func(*Graph) error

	// Hook defines the "generate middleware". A function that gets a
	// Generator and returns a Generator. For example:
	//
	//	hook := func(next gen.Generator) gen.Generator {
	//		return gen.GenerateFunc(func(g *gen.Graph) error {
	//			fmt.Println("Graph:", g)
	//			return next.Generate(g)
	//		})
	//	}
	Hook func(Generator) Generator
)

// Generate calls f(g).
func (f GenerateFunc) Generate(g *Graph) error {
	return f(g)
}

// JenniferGenerator renders one builder file per type with an Emitter and
// writes them in parallel.
type JenniferGenerator struct {
	graph   *Graph
	workers int
	outDir  string
	pkg     string
	emitter Emitter
	writer  *Writer
}

// NewJenniferGenerator creates a new generator writing into outDir. An empty
// outDir means the directory of the source types. You must call WithEmitter
// before calling Generate.
//
// Example:
//
//	import "github.com/syssam/stepgen/compiler/gen/golang"
//
//	generator := gen.NewJenniferGenerator(graph, outDir)
//	generator.WithEmitter(golang.NewEmitter(generator))
//	generator.Generate(ctx)
func NewJenniferGenerator(g *Graph, outDir string) *JenniferGenerator {
	if outDir == "" && len(g.Nodes) > 0 {
		outDir = g.Nodes[0].Dir
	}
	pkg := g.Config.Package
	if pkg == "" && len(g.Nodes) > 0 {
		pkg = g.Nodes[0].Package
	}
	if pkg == "" {
		pkg = filepath.Base(outDir)
	}
	return &JenniferGenerator{
		graph:   g,
		workers: g.Config.NumWorkers(),
		outDir:  outDir,
		pkg:     pkg,
		writer:  NewWriter(g.Config.Log()),
	}
}

// WithWorkers sets the number of parallel workers.
func (g *JenniferGenerator) WithWorkers(n int) *JenniferGenerator {
	if n > 0 {
		g.workers = n
	}
	return g
}

// WithPackage sets the output package name.
func (g *JenniferGenerator) WithPackage(pkg string) *JenniferGenerator {
	if pkg != "" {
		g.pkg = pkg
	}
	return g
}

// WithEmitter sets the emitter rendering the builder files.
func (g *JenniferGenerator) WithEmitter(e Emitter) *JenniferGenerator {
	if e != nil {
		g.emitter = e
	}
	return g
}

// Metrics returns the write metrics accumulated by the generator.
func (g *JenniferGenerator) Metrics() WriterMetrics {
	return g.writer.Metrics()
}

// Generate renders and writes the builder of every type of the graph. Types
// are processed concurrently by at most the configured number of workers.
func (g *JenniferGenerator) Generate(ctx context.Context) error {
	if g.emitter == nil {
		return NewConfigError("Emitter", nil, "no emitter set: call WithEmitter() before Generate()")
	}
	if g.outDir == "" {
		return NewConfigError("Target", nil, "missing target directory")
	}
	if err := os.MkdirAll(g.outDir, 0o755); err != nil {
		return NewGenerationError("write", g.outDir, "create output directory", err)
	}
	log := g.graph.Config.Log().With().
		Str("emitter", g.emitter.Name()).
		Str("package", g.pkg).
		Logger()
	start := time.Now()

	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(g.workers)
	for _, t := range g.graph.Nodes {
		t := t
		errg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := g.emitter.GenBuilder(t)
			if err != nil {
				return err
			}
			path := filepath.Join(g.outDir, t.FileName())
			if err := g.writer.WriteFile(path, f); err != nil {
				return err
			}
			log.Debug().Str("type", t.Name).Str("file", path).Msg("builder generated")
			return nil
		})
	}
	if err := errg.Wait(); err != nil {
		return err
	}
	m := g.writer.Metrics()
	log.Info().
		Int("types", len(g.graph.Nodes)).
		Int("written", m.FilesGenerated).
		Int("unchanged", m.FilesUnchanged).
		Dur("took", time.Since(start)).
		Msg("generation finished")
	return nil
}

// =============================================================================
// GeneratorHelper interface implementation
// =============================================================================

// NewFile creates a new Jennifer file with the standard header comment.
func (g *JenniferGenerator) NewFile(pkg string) *jen.File {
	f := jen.NewFile(pkg)
	f.HeaderComment(g.graph.Config.HeaderComment())
	return f
}

// Graph returns the graph being generated.
func (g *JenniferGenerator) Graph() *Graph {
	return g.graph
}

// Pkg returns the output package name.
func (g *JenniferGenerator) Pkg() string {
	return g.pkg
}

// SourcePkg returns the import path used to reference the declarations of t
// from the generated code, or "" when the builder is generated into the
// package that declares t.
func (g *JenniferGenerator) SourcePkg(t *Type) (string, error) {
	if g.pkg == t.Package && sameDir(g.outDir, t.Dir) {
		return "", nil
	}
	if p := g.graph.Config.SourcePackage; p != "" {
		return p, nil
	}
	if t.PkgPath != "" {
		return t.PkgPath, nil
	}
	return "", NewGenerationError("emit", t.FileName(), "unknown import path of package "+t.Package+": set the source package", nil)
}

// Verify JenniferGenerator implements GeneratorHelper at compile time.
var _ GeneratorHelper = (*JenniferGenerator)(nil)

func sameDir(a, b string) bool {
	if a == "" || b == "" {
		return a == b
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// Generate is the default generator: it applies the configured hooks around
// a JenniferGenerator using the emitter returned by newEmitter.
func Generate(ctx context.Context, g *Graph, newEmitter func(GeneratorHelper) Emitter) error {
	var generator Generator = GenerateFunc(func(g *Graph) error {
		jg := NewJenniferGenerator(g, g.Config.Target)
		jg.WithEmitter(newEmitter(jg))
		return jg.Generate(ctx)
	})
	for i := len(g.Config.Hooks) - 1; i >= 0; i-- {
		generator = g.Config.Hooks[i](generator)
	}
	return generator.Generate(g)
}

package gen

import "github.com/dave/jennifer/jen"

// Emitter renders the builder protocol of a type into a source file. Each
// target language or flavor implements it.
//
//	┌───────────────────────────────────────────────┐
//	│               JenniferGenerator               │
//	│  (parallel emission, formatting, file writes) │
//	└───────────────────────┬───────────────────────┘
//	                        │ uses
//	                        ▼
//	┌───────────────────────────────────────────────┐
//	│                    Emitter                    │
//	│   (renders one Descriptor into one jen.File)  │
//	└───────────────────────┬───────────────────────┘
//	                        │ implemented by
//	                        ▼
//	                 golang.Emitter
//	               (compiler/gen/golang)
//
// GenBuilder is called concurrently for distinct types and must not mutate
// them.
type Emitter interface {
	// Name returns the emitter name (e.g., "golang").
	Name() string
	// GenBuilder renders the builder file of t.
	GenBuilder(t *Type) (*jen.File, error)
}

// GeneratorHelper provides helper methods for emitter implementations.
// JenniferGenerator implements this interface, allowing emitter packages
// to use helper methods without importing the full generator.
type GeneratorHelper interface {
	// NewFile creates a new Jennifer file with the standard header comment.
	NewFile(pkg string) *jen.File

	// Graph returns the graph being generated.
	Graph() *Graph

	// Pkg returns the output package name.
	Pkg() string

	// SourcePkg returns the import path qualifying the declarations of t,
	// or "" when the output package is the declaring package.
	SourcePkg(t *Type) (string, error)
}

// Package field describes the declared Go types of builder fields.
//
// A [TypeRef] is a small, serializable tree that mirrors a Go type expression:
//
//	field.Named("string")                            // string
//	field.Qualified("time", "time", "Time")          // time.Time
//	field.PointerTo(field.Named("Engine"))           // *Engine
//	field.SliceOf(field.Named("string"))             // []string
//	field.MapOf(field.Named("string"), field.Named("int")) // map[string]int
//
// Type references are produced by the field classifier (compiler/load) and are
// carried unchanged through the builder descriptor so that emitters can render
// parameter types without re-parsing source text.
package field

package gen

import (
	"runtime"
	"slices"

	"github.com/rs/zerolog"
)

const (
	// DefaultHeader is written at the top of every generated file.
	DefaultHeader = "Code generated by stepgen. DO NOT EDIT."
	// DefaultSuffix is appended to the lower-cased type name to form the
	// generated file name.
	DefaultSuffix = "_builder.go"
)

// Config holds the global configuration for code generation.
type Config struct {
	// Target is the output directory. Empty means the source directory.
	Target string
	// Package is the output package name. Empty means the source package.
	Package string
	// SourcePackage is the import path of the package declaring the
	// buildable types. It is required when Package differs from it.
	SourcePackage string
	// Header is the comment written at the top of generated files.
	Header string
	// Strategy is the default strategy of types that do not set one.
	Strategy Strategy
	// Types holds per-type overrides keyed by type name.
	Types map[string]TypeConfig
	// Suffix is the generated file name suffix.
	Suffix string
	// Workers bounds the number of types generated concurrently.
	Workers int
	// Logger receives generation progress. Nil disables logging.
	Logger *zerolog.Logger
	// Hooks wrap the generator, the first one being the outermost.
	Hooks []Hook
}

// TypeConfig holds the options of a single buildable type.
type TypeConfig struct {
	Strategy      Strategy `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	BuilderConfig `yaml:",inline"`
}

// Merge returns c overridden by the non-empty values of o. Exclusions are
// unioned.
func (c TypeConfig) Merge(o TypeConfig) TypeConfig {
	m := TypeConfig{
		Strategy: o.Strategy.Or(c.Strategy),
		BuilderConfig: BuilderConfig{
			SetterPrefix:      c.SetterPrefix,
			FactoryMethodName: c.FactoryMethodName,
			ExcludeFields:     slices.Clone(c.ExcludeFields),
		},
	}
	if o.SetterPrefix != "" {
		m.SetterPrefix = o.SetterPrefix
	}
	if o.FactoryMethodName != "" {
		m.FactoryMethodName = o.FactoryMethodName
	}
	for _, name := range o.ExcludeFields {
		if !slices.Contains(m.ExcludeFields, name) {
			m.ExcludeFields = append(m.ExcludeFields, name)
		}
	}
	return m
}

// TypeConfig returns the configured options of the named type, with the
// default strategy applied.
func (c *Config) TypeConfig(name string) TypeConfig {
	tc := c.Types[name]
	tc.Strategy = tc.Strategy.Or(c.Strategy).Or(StrategyOpen)
	return tc
}

// HeaderComment returns the header of generated files.
func (c *Config) HeaderComment() string {
	if c.Header == "" {
		return DefaultHeader
	}
	return c.Header
}

// FileSuffix returns the generated file name suffix.
func (c *Config) FileSuffix() string {
	if c.Suffix == "" {
		return DefaultSuffix
	}
	return c.Suffix
}

// NumWorkers returns the effective number of workers.
func (c *Config) NumWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Log returns the configured logger, or a disabled one.
func (c *Config) Log() zerolog.Logger {
	if c == nil || c.Logger == nil {
		return zerolog.Nop()
	}
	return *c.Logger
}

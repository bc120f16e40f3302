package gen

import (
	"errors"
	"go/token"
	"strings"

	"github.com/rs/zerolog"
)

// Option configures code generation.
type Option func(*Config) error

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithTarget sets the output directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithPackage sets the output package name.
func WithPackage(name string) Option {
	return func(c *Config) error {
		if !token.IsIdentifier(name) {
			return NewConfigError("Package", name, "package name must be a Go identifier")
		}
		c.Package = name
		return nil
	}
}

// WithSourcePackage sets the import path of the package that declares the
// buildable types. For example: "github.com/org/project/model".
func WithSourcePackage(path string) Option {
	return func(c *Config) error {
		if path == "" || strings.ContainsAny(path, " \t\\") {
			return NewConfigError("SourcePackage", path, "invalid import path")
		}
		c.SourcePackage = path
		return nil
	}
}

// WithStrategy sets the default strategy.
func WithStrategy(s Strategy) Option {
	return func(c *Config) error {
		if !s.Valid() {
			return NewConfigError("Strategy", int(s), "invalid strategy")
		}
		c.Strategy = s
		return nil
	}
}

// WithBuilder sets the options of a single type. Repeated calls for the same
// type are merged, later values winning.
func WithBuilder(typeName string, tc TypeConfig) Option {
	return func(c *Config) error {
		if !token.IsIdentifier(typeName) {
			return NewConfigError("Builder", typeName, "type name must be a Go identifier")
		}
		if !tc.Strategy.Valid() {
			return NewConfigError("Builder", typeName, "invalid strategy")
		}
		if c.Types == nil {
			c.Types = make(map[string]TypeConfig)
		}
		c.Types[typeName] = c.Types[typeName].Merge(tc)
		return nil
	}
}

// WithSuffix sets the generated file name suffix.
func WithSuffix(suffix string) Option {
	return func(c *Config) error {
		if !strings.HasSuffix(suffix, ".go") || strings.HasSuffix(suffix, "_test.go") {
			return NewConfigError("Suffix", suffix, "suffix must end in .go and must not be a test file")
		}
		c.Suffix = suffix
		return nil
	}
}

// WithWorkers bounds the number of types generated concurrently.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return NewConfigError("Workers", n, "workers cannot be negative")
		}
		c.Workers = n
		return nil
	}
}

// WithLogger sets the logger used during generation.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) error {
		c.Logger = &l
		return nil
	}
}

// WithHooks adds generation hooks. Hooks run in the order they were added.
func WithHooks(hooks ...Hook) Option {
	return func(c *Config) error {
		for _, h := range hooks {
			if h == nil {
				return NewConfigError("Hooks", nil, "hook cannot be nil")
			}
		}
		c.Hooks = append(c.Hooks, hooks...)
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
